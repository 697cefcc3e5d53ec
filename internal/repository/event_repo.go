package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/utils/pagination"
)

// Counter columns that IncrementCounter accepts.
const (
	CounterLiked    = "liked"
	CounterDisliked = "disliked"
	CounterReported = "reported"
)

// EventRepository provides data access methods for events and their
// participant lists.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new repository bound to the given DB connection.
func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{db: database}
}

// WithTx returns a copy bound to tx, for use inside db.Transaction.
func (r *EventRepository) WithTx(tx *gorm.DB) *EventRepository {
	return &EventRepository{db: tx}
}

// ListUpcoming returns one page of events starting at or after now.
//
// Behavior:
//   - Only events with date >= now and ended = false.
//   - Ordered by date ASC, id ASC with participants preloaded in join order.
//   - Cursor-based pagination (limit+1 lookahead). A nil next token means
//     the upstream is exhausted.
//
// Example:
//
//	repo.ListUpcoming(ctx, time.Now(), nil, 10) // first page of 10
func (r *EventRepository) ListUpcoming(
	ctx context.Context,
	now time.Time,
	paginationToken *string,
	limit int,
) ([]db.Event, *string, error) {
	var events []db.Event

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, svcErr.Validation("%v", err)
	}

	query := r.db.WithContext(ctx).
		Model(&db.Event{}).
		Where("date >= ? AND ended = ?", now.UTC().Truncate(time.Second), false).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("joined_at ASC, user_id ASC")
		}).
		Order("date ASC, id ASC").
		Limit(limit + 1)

	// apply cursor
	if !cursor.IsZero() {
		ts := cursor.SortTime()
		query = query.Where(
			"(date > ? OR (date = ? AND id > ?))",
			ts, ts, cursor.ID,
		)
	}

	if err := query.Find(&events).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(events) > limit {
		last := events[limit-1]
		nextToken, err = pagination.EncodePtr(pagination.After(last.ID, last.Date))
		if err != nil {
			return nil, nil, err
		}
		events = events[:limit]
	}

	return events, nextToken, nil
}

// Get loads one event with its participants.
func (r *EventRepository) Get(ctx context.Context, id string) (*db.Event, error) {
	var event db.Event
	err := r.db.WithContext(ctx).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("joined_at ASC, user_id ASC")
		}).
		First(&event, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "event "+id)
	}
	return &event, nil
}

// ListForUser returns the events a user holds in the given relation set,
// soonest first.
func (r *EventRepository) ListForUser(ctx context.Context, userID, kind string) ([]db.Event, error) {
	var events []db.Event
	err := r.db.WithContext(ctx).
		Joins("JOIN event_relations er ON er.event_id = events.id").
		Where("er.user_id = ? AND er.kind = ?", userID, kind).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("joined_at ASC, user_id ASC")
		}).
		Order("events.date ASC, events.id ASC").
		Find(&events).Error
	return events, err
}

// ListByCreator returns the events a user created, soonest first.
func (r *EventRepository) ListByCreator(ctx context.Context, creatorID string) ([]db.Event, error) {
	var events []db.Event
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Preload("Participants").
		Order("date ASC, id ASC").
		Find(&events).Error
	return events, err
}

// Create inserts the event row only. Participants are added separately.
func (r *EventRepository) Create(ctx context.Context, event *db.Event) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(event).Error
}

// ReserveSeat atomically bumps participant_count when a seat is free.
//
// Behavior:
//   - Unlimited events always succeed.
//   - Returns false when the event is full (zero rows affected).
func (r *EventRepository) ReserveSeat(ctx context.Context, eventID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db.Event{}).
		Where("id = ? AND (capacity = ? OR participant_count < capacity)", eventID, db.Unlimited).
		UpdateColumn("participant_count", gorm.Expr("participant_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AddParticipant appends a user to the event's participant list.
// Re-adding an existing participant is a no-op.
func (r *EventRepository) AddParticipant(ctx context.Context, eventID, userID string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&db.EventParticipant{EventID: eventID, UserID: userID}).Error
}

// RemoveParticipant drops a user from the participant list and releases
// their seat. Returns false when the user was not a participant.
func (r *EventRepository) RemoveParticipant(ctx context.Context, eventID, userID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		Delete(&db.EventParticipant{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	err := r.db.WithContext(ctx).
		Model(&db.Event{}).
		Where("id = ? AND participant_count > 0", eventID).
		UpdateColumn("participant_count", gorm.Expr("participant_count - 1")).Error
	return true, err
}

// IncrementCounter bumps one of the liked/disliked/reported counters.
func (r *EventRepository) IncrementCounter(ctx context.Context, eventID, column string) error {
	switch column {
	case CounterLiked, CounterDisliked, CounterReported:
	default:
		return fmt.Errorf("unknown event counter %q", column)
	}
	res := r.db.WithContext(ctx).
		Model(&db.Event{}).
		Where("id = ?", eventID).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return svcErr.NotFound("event " + eventID)
	}
	return nil
}

// Delete removes the event together with its participants, relations and
// chat roster. Callers check ownership first.
func (r *EventRepository) Delete(ctx context.Context, eventID string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("event_id = ?", eventID).Delete(&db.EventParticipant{}).Error; err != nil {
		return err
	}
	if err := tx.Where("event_id = ?", eventID).Delete(&db.EventRelation{}).Error; err != nil {
		return err
	}
	if err := tx.Where("event_id = ?", eventID).Delete(&db.ChatParticipant{}).Error; err != nil {
		return err
	}
	if err := tx.Where("event_id = ?", eventID).Delete(&db.ChatMessage{}).Error; err != nil {
		return err
	}
	res := tx.Where("id = ?", eventID).Delete(&db.Event{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return svcErr.NotFound("event " + eventID)
	}
	return nil
}
