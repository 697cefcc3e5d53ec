package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/eventswipe/internal/cache"
	"github.com/oggyb/eventswipe/internal/db"
	"github.com/oggyb/eventswipe/internal/logger"
)

// UserRepository loads profiles and resolves display cards.
// Cards are read cache-first when a RedisCache is configured.
type UserRepository struct {
	db      *gorm.DB
	cache   *cache.RedisCache
	cardTTL time.Duration
}

// NewUserRepository creates a repository. rc may be nil.
func NewUserRepository(database *gorm.DB, rc *cache.RedisCache, cardTTL time.Duration) *UserRepository {
	return &UserRepository{db: database, cache: rc, cardTTL: cardTTL}
}

func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx, cache: r.cache, cardTTL: r.cardTTL}
}

func (r *UserRepository) Get(ctx context.Context, id string) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "user "+id)
	}
	return &user, nil
}

// Upsert inserts the user or overwrites every column of an existing row.
func (r *UserRepository) Upsert(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(user).Error
}

// Cards resolves display cards for ids in one round trip per store.
//
// Behavior:
//   - Redis MGET first, then a single IN query for the misses.
//   - Misses found in the DB are written back with the card TTL.
//   - Unknown ids are absent from the result.
//   - Cache failures are logged and fall through to the DB.
func (r *UserRepository) Cards(ctx context.Context, ids []string) (map[string]cache.UserCard, error) {
	ids = uniq(ids)
	out := make(map[string]cache.UserCard, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	if r.cache != nil {
		hits, err := r.cache.GetCards(ctx, ids)
		if err != nil {
			logger.L().Warn("user card cache read failed", "error", err)
		}
		for id, card := range hits {
			out[id] = card
		}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := out[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return out, nil
	}

	var users []db.User
	if err := r.db.WithContext(ctx).
		Select("id", "name", "organization_name", "is_organization", "profile_image").
		Where("id IN ?", missing).
		Find(&users).Error; err != nil {
		return out, err
	}

	fresh := make([]cache.UserCard, 0, len(users))
	for i := range users {
		card := cardOf(&users[i])
		out[card.ID] = card
		fresh = append(fresh, card)
	}

	if r.cache != nil {
		if err := r.cache.SetCards(ctx, fresh, r.cardTTL); err != nil {
			logger.L().Warn("user card cache write failed", "error", err)
		}
	}
	return out, nil
}

// InvalidateCard drops the cached card after a profile edit.
func (r *UserRepository) InvalidateCard(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateCard(ctx, id); err != nil {
		logger.L().Warn("user card invalidation failed", "user", id, "error", err)
	}
}

// UpdateDisplay changes the name and avatar shown on cards. For
// organizations the displayed name is organization_name, so that column is
// the one rewritten.
func (r *UserRepository) UpdateDisplay(ctx context.Context, id, name, image string) error {
	var user db.User
	if err := r.db.WithContext(ctx).Select("id", "is_organization").First(&user, "id = ?", id).Error; err != nil {
		return notFound(err, "user "+id)
	}

	column := "name"
	if user.IsOrganization {
		column = "organization_name"
	}
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(map[string]any{column: name, "profile_image": image}).Error
}

// UpdateLocation stores captured coordinates and their reverse-geocoded address.
func (r *UserRepository) UpdateLocation(ctx context.Context, id string, lat, lng float64, street, city string) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(map[string]any{"lat": lat, "lng": lng, "street": street, "city": city})
	if res.Error != nil {
		return res.Error
	}
	return r.ensureExists(ctx, id, res.RowsAffected)
}

// preferenceColumns are the embedded pref_ columns, selected explicitly so
// zero values (disabled filters) are written too.
var preferenceColumns = []string{
	"pref_interests", "pref_location", "pref_distance_km",
	"pref_use_person_limit", "pref_person_limit", "pref_meet_requirements",
	"pref_search_by_date", "pref_start_date", "pref_end_date",
}

// UpdatePreferences overwrites the embedded preference record.
func (r *UserRepository) UpdatePreferences(ctx context.Context, id string, prefs db.Preferences) error {
	res := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Select(preferenceColumns).
		Updates(&db.User{Preferences: prefs})
	if res.Error != nil {
		return res.Error
	}
	return r.ensureExists(ctx, id, res.RowsAffected)
}

// ensureExists tells an unchanged row (MySQL reports 0 affected) from a
// missing one.
func (r *UserRepository) ensureExists(ctx context.Context, id string, affected int64) error {
	if affected > 0 {
		return nil
	}
	var n int64
	if err := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return notFound(gorm.ErrRecordNotFound, "user "+id)
	}
	return nil
}

func cardOf(u *db.User) cache.UserCard {
	return cache.UserCard{ID: u.ID, Name: u.DisplayName(), ProfileImage: u.ProfileImage}
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
