package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/eventswipe/internal/db"
)

// RelationRepository stores the per-user joined/liked/banned sets.
type RelationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(database *gorm.DB) *RelationRepository {
	return &RelationRepository{db: database}
}

func (r *RelationRepository) WithTx(tx *gorm.DB) *RelationRepository {
	return &RelationRepository{db: tx}
}

// Kind returns the user's current relation to the event, "" when none.
func (r *RelationRepository) Kind(ctx context.Context, userID, eventID string) (string, error) {
	var rel db.EventRelation
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Take(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rel.Kind, nil
}

// Set moves the event into the given set for the user.
//
// Behavior:
//   - If (user_id, event_id) exists → kind is overwritten, which removes the
//     event from its previous set.
//   - Otherwise a new row is inserted.
func (r *RelationRepository) Set(ctx context.Context, userID, eventID, kind string) error {
	rel := db.EventRelation{UserID: userID, EventID: eventID, Kind: kind}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "event_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "updated_at"}),
		}).
		Create(&rel).Error
}

// Sets returns every event the user has a relation with, keyed by event id.
func (r *RelationRepository) Sets(ctx context.Context, userID string) (map[string]string, error) {
	var rels []db.EventRelation
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&rels).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rels))
	for _, rel := range rels {
		out[rel.EventID] = rel.Kind
	}
	return out, nil
}

// CountByKind returns how many events the user holds in each set.
func (r *RelationRepository) CountByKind(ctx context.Context, userID string) (map[string]int64, error) {
	var rows []struct {
		Kind  string
		Count int64
	}
	err := r.db.WithContext(ctx).
		Model(&db.EventRelation{}).
		Select("kind, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := map[string]int64{}
	for _, row := range rows {
		out[row.Kind] = row.Count
	}
	return out, nil
}
