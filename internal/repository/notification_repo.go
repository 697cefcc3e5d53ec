package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/utils/pagination"
)

// NotificationRepository provides data access methods for inbox entries.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

// Create inserts a notification, assigning an id when unset.
func (r *NotificationRepository) Create(ctx context.Context, n *db.Notification) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(n).Error
}

// List returns a user's notifications newest first.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC.
//   - Cursor-based pagination via paginationToken (limit+1 lookahead).
//   - unreadOnly restricts to read = false.
func (r *NotificationRepository) List(
	ctx context.Context,
	userID string,
	paginationToken *string,
	limit int,
	unreadOnly bool,
) ([]db.Notification, *string, error) {
	var items []db.Notification

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.Validation("%v", err)
	}

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	// apply cursor
	if !cursor.IsZero() {
		ts := cursor.SortTime()
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.ID,
		)
	}

	if err := query.Find(&items).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(items) > limit {
		last := items[limit-1]
		nextToken, err = pagination.EncodePtr(pagination.After(last.ID, last.CreatedAt))
		if err != nil {
			return nil, nil, err
		}
		items = items[:limit]
	}
	return items, nextToken, nil
}

// MarkRead flags one notification as read.
//
// Behavior:
//   - Only the owner may mark it (PermissionDenied otherwise).
//   - Returns changed=false when it was already read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	var n db.Notification
	err := r.db.WithContext(ctx).Take(&n, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, svcErr.NotFound("notification " + id)
	} else if err != nil {
		return false, err
	}
	if n.UserID != userID {
		return false, svcErr.ErrPermissionDenied
	}
	if n.Read {
		return false, nil
	}

	res := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

// MarkAllRead flags every unread notification of the user in one
// all-or-nothing batch and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	var changed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&db.Notification{}).
			Where("user_id = ? AND is_read = ?", userID, false).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		res := tx.Model(&db.Notification{}).
			Where("id IN ?", ids).
			Update("is_read", true)
		if res.Error != nil {
			return res.Error
		}
		changed = res.RowsAffected
		return nil
	})
	return changed, err
}

// CountUnread is the DB fallback for the cached unread counter.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}
