// Package lifecycle creates and deletes events.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/geocode"
	"github.com/oggyb/eventswipe/internal/repository"
)

const (
	MaxCategories = 3
	MinCapacity   = 2
)

var ageRange = regexp.MustCompile(`^\s*(\d{1,3})\s*-\s*(\d{1,3})\s*$`)

// CreateInput is the event form.
type CreateInput struct {
	Name         string
	Description  string
	Categories   []string
	Capacity     int
	Date         time.Time
	EndDate      time.Time
	Street       string
	City         string
	Requirements db.Requirements
	Image        string
}

type Service struct {
	db       *gorm.DB
	events   *repository.EventRepository
	users    *repository.UserRepository
	chat     *repository.ChatRepository
	geocoder geocode.Geocoder
	now      func() time.Time
	log      *slog.Logger
}

func NewService(
	database *gorm.DB,
	users *repository.UserRepository,
	geocoder geocode.Geocoder,
	now func() time.Time,
	log *slog.Logger,
) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:       database,
		events:   repository.NewEventRepository(database),
		users:    users,
		chat:     repository.NewChatRepository(database),
		geocoder: geocoder,
		now:      now,
		log:      log,
	}
}

// Create validates the form, geocodes the address and stores the event with
// the creator as its first participant and chat member. A failed geocode
// rejects the form.
func (s *Service) Create(ctx context.Context, creatorID string, in CreateInput) (*db.Event, error) {
	if err := s.validate(&in); err != nil {
		return nil, err
	}

	address := strings.Trim(in.Street+", "+in.City, ", ")
	point, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.log.Warn("event address geocoding failed", "creator", creatorID, "address", address, "error", err)
		return nil, svcErr.Validation("address %q could not be located", address)
	}

	event := &db.Event{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Description:      in.Description,
		Categories:       in.Categories,
		Capacity:         in.Capacity,
		ParticipantCount: 1,
		Date:             in.Date.UTC().Truncate(time.Second),
		EndDate:          in.EndDate.UTC().Truncate(time.Second),
		Street:           in.Street,
		City:             in.City,
		Lat:              &point.Lat,
		Lng:              &point.Lng,
		CreatorID:        creatorID,
		Requirements:     in.Requirements,
		Image:            in.Image,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		creator, err := s.users.WithTx(tx).Get(ctx, creatorID)
		if err != nil {
			return err
		}
		events := s.events.WithTx(tx)
		if err := events.Create(ctx, event); err != nil {
			return err
		}
		if err := events.AddParticipant(ctx, event.ID, creatorID); err != nil {
			return err
		}
		return s.chat.WithTx(tx).AddMember(ctx, event.ID, creator)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("event created", "event", event.ID, "creator", creatorID, "capacity", event.Capacity)
	return event, nil
}

// Delete removes an event. Only its creator may do so.
func (s *Service) Delete(ctx context.Context, userID, eventID string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := s.events.WithTx(tx)
		event, err := events.Get(ctx, eventID)
		if err != nil {
			return err
		}
		if event.CreatorID != userID {
			return fmt.Errorf("delete event %s: %w", eventID, svcErr.ErrPermissionDenied)
		}
		return events.Delete(ctx, eventID)
	})
	if err != nil {
		return err
	}
	s.log.Info("event deleted", "event", eventID, "creator", userID)
	return nil
}

func (s *Service) validate(in *CreateInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Street = strings.TrimSpace(in.Street)

	switch {
	case in.Name == "":
		return svcErr.Validation("name is required")
	case len(in.Name) > 255:
		return svcErr.Validation("name is too long")
	case in.Capacity != db.Unlimited && in.Capacity < MinCapacity:
		return svcErr.Validation("capacity must be at least %d or unlimited", MinCapacity)
	case len(in.Categories) > MaxCategories:
		return svcErr.Validation("at most %d categories", MaxCategories)
	case in.City == "":
		return svcErr.Validation("city is required")
	case !in.Date.After(s.now()):
		return svcErr.Validation("event must start in the future")
	case !in.EndDate.After(in.Date):
		return svcErr.Validation("event must end after it starts")
	}

	if age := in.Requirements.Age; age != "" && !in.Requirements.None {
		m := ageRange.FindStringSubmatch(age)
		if m == nil {
			return svcErr.Validation("age requirement must look like \"18-30\"")
		}
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > hi {
			return svcErr.Validation("age requirement %q is inverted", age)
		}
	}
	return nil
}
