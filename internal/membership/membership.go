// Package membership moves events between a user's joined, liked and banned
// sets and keeps participant lists and chat rosters in step.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/metrics"
	"github.com/oggyb/eventswipe/internal/repository"
)

// KindCreated lists the events a user created in MyEvents.
const KindCreated = "created"

// allowed maps a current relation ("" = none) to the relations it may move to.
var allowed = map[string][]string{
	"":                {db.RelationJoined, db.RelationLiked, db.RelationBanned},
	db.RelationLiked:  {db.RelationJoined, db.RelationBanned},
	db.RelationJoined: {db.RelationBanned},
}

// CanTransition reports whether from → to is a legal move. Staying in the
// same state is always legal.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	for _, t := range allowed[from] {
		if t == to {
			return true
		}
	}
	return false
}

// Notifier delivers an inbox entry to a user.
type Notifier interface {
	Notify(ctx context.Context, userID, title, content string) error
}

// Result describes what a transition did.
type Result struct {
	EventID   string
	EventName string
	From      string
	To        string
	// Changed is false for a no-op (already in the target set).
	Changed bool
	// Full is set when a join lost the race for the last seat.
	Full bool
}

type Service struct {
	db        *gorm.DB
	events    *repository.EventRepository
	relations *repository.RelationRepository
	users     *repository.UserRepository
	chat      *repository.ChatRepository
	notifier  Notifier
	now       func() time.Time
	log       *slog.Logger
}

// NewService wires the service. notifier may be nil.
func NewService(database *gorm.DB, users *repository.UserRepository, notifier Notifier, now func() time.Time, log *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		db:        database,
		events:    repository.NewEventRepository(database),
		relations: repository.NewRelationRepository(database),
		users:     users,
		chat:      repository.NewChatRepository(database),
		notifier:  notifier,
		now:       now,
		log:       log,
	}
}

// Join adds the user to the event's participants. The seat is taken with a
// conditional update on the live row; losing the last seat returns a Result
// with Full set and an error wrapping ErrEventFull, and leaves the user's
// sets untouched.
func (s *Service) Join(ctx context.Context, userID, eventID string) (*Result, error) {
	res, err := s.apply(ctx, userID, eventID, db.RelationJoined, "")
	if errors.Is(err, svcErr.ErrEventFull) && s.notifier != nil {
		content := fmt.Sprintf("%q has no free spots left.", res.EventName)
		if nerr := s.notifier.Notify(ctx, userID, "Event full", content); nerr != nil {
			s.log.Warn("event full notification failed", "user", userID, "event", eventID, "error", nerr)
		}
	}
	return res, err
}

// Like moves the event into the liked set and bumps its liked counter.
func (s *Service) Like(ctx context.Context, userID, eventID string) (*Result, error) {
	return s.apply(ctx, userID, eventID, db.RelationLiked, repository.CounterLiked)
}

// Dislike bans the event and bumps its disliked counter. A joined user
// leaves the participant list and the chat.
func (s *Service) Dislike(ctx context.Context, userID, eventID string) (*Result, error) {
	return s.apply(ctx, userID, eventID, db.RelationBanned, repository.CounterDisliked)
}

// Leave bans a joined event without counting it as a dislike.
func (s *Service) Leave(ctx context.Context, userID, eventID string) (*Result, error) {
	kind, err := s.relations.Kind(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if kind != db.RelationJoined && kind != db.RelationBanned {
		return nil, fmt.Errorf("leave %s: not joined: %w", eventID, svcErr.ErrInvalidTransition)
	}
	return s.apply(ctx, userID, eventID, db.RelationBanned, "")
}

// MyEvents lists the events in one of the user's tabs: joined, liked, or
// created.
func (s *Service) MyEvents(ctx context.Context, userID, kind string) ([]db.Event, error) {
	switch kind {
	case db.RelationJoined, db.RelationLiked:
		return s.events.ListForUser(ctx, userID, kind)
	case KindCreated:
		return s.events.ListByCreator(ctx, userID)
	default:
		return nil, svcErr.Validation("unknown events tab %q", kind)
	}
}

func (s *Service) apply(ctx context.Context, userID, eventID, to, counter string) (*Result, error) {
	res := &Result{EventID: eventID, To: to}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		events := s.events.WithTx(tx)
		relations := s.relations.WithTx(tx)
		chat := s.chat.WithTx(tx)

		event, err := events.Get(ctx, eventID)
		if err != nil {
			return err
		}
		res.EventName = event.Name

		if event.CreatorID == userID {
			return svcErr.Validation("cannot %s your own event", verb(to))
		}

		from, err := relations.Kind(ctx, userID, eventID)
		if err != nil {
			return err
		}
		res.From = from
		if from == to {
			return nil
		}
		if !CanTransition(from, to) {
			return fmt.Errorf("%s → %s: %w", label(from), to, svcErr.ErrInvalidTransition)
		}

		switch to {
		case db.RelationJoined:
			if event.Ended || !s.now().Before(event.Date) {
				return svcErr.Validation("event %q already started", event.Name)
			}
			ok, err := events.ReserveSeat(ctx, eventID)
			if err != nil {
				return err
			}
			if !ok {
				res.Full = true
				return fmt.Errorf("join %q: %w", event.Name, svcErr.ErrEventFull)
			}
			if err := events.AddParticipant(ctx, eventID, userID); err != nil {
				return err
			}
			user, err := s.users.WithTx(tx).Get(ctx, userID)
			if err != nil {
				return err
			}
			if err := chat.AddMember(ctx, eventID, user); err != nil {
				return err
			}

		case db.RelationBanned:
			if from == db.RelationJoined {
				if _, err := events.RemoveParticipant(ctx, eventID, userID); err != nil {
					return err
				}
				if err := chat.RemoveMember(ctx, eventID, userID); err != nil {
					return err
				}
			}
		}

		if counter != "" {
			if err := events.IncrementCounter(ctx, eventID, counter); err != nil {
				return err
			}
		}

		if err := relations.Set(ctx, userID, eventID, to); err != nil {
			return err
		}
		res.Changed = true
		return nil
	})

	metrics.RelationTransitions.WithLabelValues(to, outcome(res, err)).Inc()
	if err != nil {
		s.log.Info("relation transition rejected",
			"user", userID, "event", eventID, "from", label(res.From), "to", to, "error", err)
		return res, err
	}
	if res.Changed {
		s.log.Debug("relation transition", "user", userID, "event", eventID, "from", label(res.From), "to", to)
	}
	return res, nil
}

func outcome(res *Result, err error) string {
	switch {
	case res.Full:
		return "full"
	case errors.Is(err, svcErr.ErrInvalidTransition):
		return "invalid"
	case err != nil:
		return "error"
	case !res.Changed:
		return "noop"
	default:
		return "ok"
	}
}

func label(kind string) string {
	if kind == "" {
		return "none"
	}
	return kind
}

func verb(to string) string {
	switch to {
	case db.RelationJoined:
		return "join"
	case db.RelationLiked:
		return "like"
	default:
		return "dislike"
	}
}
