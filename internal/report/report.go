// Package report lets users flag events for moderation.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/repository"
)

// NoReason is recorded when the reporter picks none.
const NoReason = "No reason provided"

const maxDetails = 2000

var reasons = map[string]bool{
	"offensive":     true,
	"inappropriate": true,
	"spam":          true,
	"other":         true,
}

type Service struct {
	events *repository.EventRepository
	mailer Mailer
	to     string
	log    *slog.Logger
}

// NewService sends reports for moderation to the address to.
func NewService(events *repository.EventRepository, mailer Mailer, to string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{events: events, mailer: mailer, to: to, log: log}
}

// Report mails the moderation address and bumps the event's reported
// counter once the mail is accepted.
func (s *Service) Report(ctx context.Context, userID, eventID, reason, details string) error {
	reason = strings.ToLower(strings.TrimSpace(reason))
	if reason == "" {
		reason = NoReason
	} else if !reasons[reason] {
		return svcErr.Validation("unknown report reason %q", reason)
	}
	details = strings.TrimSpace(details)
	if utf8.RuneCountInString(details) > maxDetails {
		return svcErr.Validation("details longer than %d characters", maxDetails)
	}

	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return err
	}

	msg := Message{
		To:      s.to,
		Subject: fmt.Sprintf("Event reported: %s", event.Name),
		Body: fmt.Sprintf("Event: %s (%s)\nCreator: %s\nReported by: %s\nReason: %s\n\n%s\n",
			event.Name, event.ID, event.CreatorID, userID, reason, details),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error("report mail failed", "event", eventID, "user", userID, "error", err)
		return err
	}

	if err := s.events.IncrementCounter(ctx, eventID, repository.CounterReported); err != nil {
		return err
	}
	s.log.Info("event reported", "event", eventID, "user", userID, "reason", reason)
	return nil
}
