package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/utils/pagination"
)

// ChatRepository maintains the denormalized chat rosters and the message
// history of each event chat.
type ChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(database *gorm.DB) *ChatRepository {
	return &ChatRepository{db: database}
}

func (r *ChatRepository) WithTx(tx *gorm.DB) *ChatRepository {
	return &ChatRepository{db: tx}
}

// AddMember copies the user's display data into the event roster.
// Joining twice refreshes the copied fields.
func (r *ChatRepository) AddMember(ctx context.Context, eventID string, user *db.User) error {
	member := db.ChatParticipant{
		EventID:      eventID,
		UserID:       user.ID,
		Name:         user.DisplayName(),
		ProfileImage: user.ProfileImage,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "profile_image", "updated_at"}),
		}).
		Create(&member).Error
}

func (r *ChatRepository) RemoveMember(ctx context.Context, eventID, userID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&db.ChatParticipant{}).Error
}

// Members lists the roster in the order users joined it.
func (r *ChatRepository) Members(ctx context.Context, eventID string) ([]db.ChatParticipant, error) {
	var members []db.ChatParticipant
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC, user_id ASC").
		Find(&members).Error
	return members, err
}

// RefreshUser rewrites the copied display data in every roster the user is in.
func (r *ChatRepository) RefreshUser(ctx context.Context, user *db.User) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.ChatParticipant{}).
		Where("user_id = ?", user.ID).
		Updates(map[string]any{
			"name":          user.DisplayName(),
			"profile_image": user.ProfileImage,
		})
	return res.RowsAffected, res.Error
}

// IsMember reports whether userID is on the event's roster.
func (r *ChatRepository) IsMember(ctx context.Context, eventID, userID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&db.ChatParticipant{}).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Count(&n).Error
	return n > 0, err
}

// AppendMessage stores msg, filling the id and type when unset.
func (r *ChatRepository) AppendMessage(ctx context.Context, msg *db.ChatMessage) error {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	if msg.Type == "" {
		msg.Type = db.MessageText
	}
	return r.db.WithContext(ctx).Create(msg).Error
}

// ListMessages returns one page of an event chat, oldest first.
//
// Behavior:
//   - Ordered by created_at ASC, id ASC.
//   - Cursor-based pagination (limit+1 lookahead). A nil next token means
//     the page reached the newest message.
func (r *ChatRepository) ListMessages(
	ctx context.Context,
	eventID string,
	paginationToken *string,
	limit int,
) ([]db.ChatMessage, *string, error) {
	var msgs []db.ChatMessage

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.Validation("%v", err)
	}

	query := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("created_at ASC, id ASC").
		Limit(limit + 1)

	if !cursor.IsZero() {
		ts := cursor.SortTime()
		query = query.Where(
			"(created_at > ? OR (created_at = ? AND id > ?))",
			ts, ts, cursor.ID,
		)
	}

	if err := query.Find(&msgs).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(msgs) > limit {
		last := msgs[limit-1]
		nextToken, err = pagination.EncodePtr(pagination.After(last.ID, last.CreatedAt))
		if err != nil {
			return nil, nil, err
		}
		msgs = msgs[:limit]
	}
	return msgs, nextToken, nil
}
