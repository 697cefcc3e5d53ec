// Package profile manages user profiles and feed preferences.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/geo"
	"github.com/oggyb/eventswipe/internal/geocode"
	"github.com/oggyb/eventswipe/internal/repository"
)

const (
	MaxInterests             = 10
	MaxOrganizationInterests = 3
	MaxRadiusKm              = 500
	MinPersonLimit           = 2
)

type Service struct {
	db       *gorm.DB
	users    *repository.UserRepository
	chat     *repository.ChatRepository
	geocoder geocode.Geocoder
	log      *slog.Logger
}

func NewService(database *gorm.DB, users *repository.UserRepository, geocoder geocode.Geocoder, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:       database,
		users:    users,
		chat:     repository.NewChatRepository(database),
		geocoder: geocoder,
		log:      log,
	}
}

func (s *Service) Get(ctx context.Context, userID string) (*db.User, error) {
	return s.users.Get(ctx, userID)
}

// Register creates the profile for a freshly authenticated user. An existing
// profile is a conflict. Organizations are geocoded from their address.
func (s *Service) Register(ctx context.Context, u *db.User) error {
	u.Name = strings.TrimSpace(u.Name)
	u.OrganizationName = strings.TrimSpace(u.OrganizationName)

	switch {
	case u.ID == "":
		return svcErr.Validation("user id is required")
	case u.Name == "" && !u.IsOrganization:
		return svcErr.Validation("name is required")
	case u.IsOrganization && u.OrganizationName == "":
		return svcErr.Validation("organization name is required")
	}
	if err := checkInterests(u.Interests, u.IsOrganization); err != nil {
		return err
	}

	if _, err := s.users.Get(ctx, u.ID); err == nil {
		return fmt.Errorf("profile %s already exists: %w", u.ID, svcErr.ErrConflict)
	} else if !errors.Is(err, svcErr.ErrNotFound) {
		return err
	}

	if u.IsOrganization {
		address := strings.Trim(u.Street+", "+u.City, ", ")
		p, err := s.geocoder.Geocode(ctx, address)
		if err != nil {
			s.log.Warn("organization address geocoding failed", "user", u.ID, "address", address, "error", err)
			return svcErr.Validation("address %q could not be located", address)
		}
		u.Lat, u.Lng = &p.Lat, &p.Lng
	}

	if err := s.users.Upsert(ctx, u); err != nil {
		return err
	}
	s.log.Info("profile registered", "user", u.ID, "organization", u.IsOrganization)
	return nil
}

// UpdateProfile changes the display name and avatar, rewrites the user's
// chat roster rows in the same transaction and drops the cached card.
func (s *Service) UpdateProfile(ctx context.Context, userID, name, image string) (*db.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, svcErr.Validation("name is required")
	}

	var user *db.User
	var rows int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		if err := users.UpdateDisplay(ctx, userID, name, image); err != nil {
			return err
		}
		var err error
		if user, err = users.Get(ctx, userID); err != nil {
			return err
		}
		rows, err = s.chat.WithTx(tx).RefreshUser(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.users.InvalidateCard(ctx, userID)
	s.log.Info("profile updated", "user", userID, "chat_rows", rows)
	return user, nil
}

// UpdateLocation stores captured coordinates. When reverse geocoding fails
// the stored street and city are kept.
func (s *Service) UpdateLocation(ctx context.Context, userID string, lat, lng float64) (*db.User, error) {
	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return nil, svcErr.Validation("coordinates out of range")
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	street, city := user.Street, user.City
	if place, err := s.geocoder.Reverse(ctx, p); err != nil {
		s.log.Warn("reverse geocoding failed", "user", userID, "error", err)
	} else {
		street, city = place.Street, place.City
	}

	if err := s.users.UpdateLocation(ctx, userID, lat, lng, street, city); err != nil {
		return nil, err
	}
	user.Lat, user.Lng = &lat, &lng
	user.Street, user.City = street, city
	return user, nil
}

// UpdatePreferences validates and stores the feed filters. A zero radius
// means the server default.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, prefs db.Preferences) (*db.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	prefs.Location = strings.TrimSpace(prefs.Location)
	switch {
	case prefs.DistanceKm < 0 || prefs.DistanceKm > MaxRadiusKm:
		return nil, svcErr.Validation("distance must be between 0 and %d km", MaxRadiusKm)
	case prefs.UsePersonLimit && prefs.PersonLimit < MinPersonLimit:
		return nil, svcErr.Validation("person limit must be at least %d", MinPersonLimit)
	case prefs.StartDate != nil && prefs.EndDate != nil && prefs.StartDate.After(*prefs.EndDate):
		return nil, svcErr.Validation("start date is after end date")
	}
	if err := checkInterests(prefs.Interests, user.IsOrganization); err != nil {
		return nil, err
	}

	if err := s.users.UpdatePreferences(ctx, userID, prefs); err != nil {
		return nil, err
	}
	user.Preferences = prefs
	return user, nil
}

func checkInterests(interests []string, organization bool) error {
	limit := MaxInterests
	if organization {
		limit = MaxOrganizationInterests
	}
	if len(interests) > limit {
		return svcErr.Validation("at most %d interests", limit)
	}
	return nil
}
