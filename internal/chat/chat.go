// Package chat posts and reads event chat messages. Only users on an
// event's roster may do either.
package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/repository"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
	MaxTextLength   = 4000
)

type Service struct {
	chat   *repository.ChatRepository
	events *repository.EventRepository
	now    func() time.Time
	log    *slog.Logger
}

// NewService creates the chat service. Messages are stamped with now.
func NewService(chat *repository.ChatRepository, events *repository.EventRepository, now func() time.Time, log *slog.Logger) *Service {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{chat: chat, events: events, now: now, log: log}
}

// Send appends a message from userID to the event chat. kind is "text"
// (the default) or "image", in which case content is the image URL.
func (s *Service) Send(ctx context.Context, userID, eventID, content, kind string) (*db.ChatMessage, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = db.MessageText
	}
	if kind != db.MessageText && kind != db.MessageImage {
		return nil, svcErr.Validation("unknown message type %q", kind)
	}
	if strings.TrimSpace(content) == "" {
		return nil, svcErr.Validation("message is empty")
	}
	if utf8.RuneCountInString(content) > MaxTextLength {
		return nil, svcErr.Validation("message longer than %d characters", MaxTextLength)
	}

	if err := s.authorize(ctx, userID, eventID); err != nil {
		return nil, err
	}

	msg := &db.ChatMessage{
		EventID:   eventID,
		SenderID:  userID,
		Content:   content,
		Type:      kind,
		CreatedAt: s.now().UTC(),
	}
	if err := s.chat.AppendMessage(ctx, msg); err != nil {
		return nil, err
	}
	s.log.Debug("chat message sent", "event", eventID, "user", userID, "type", kind)
	return msg, nil
}

// History returns one page of the event chat, oldest first.
func (s *Service) History(ctx context.Context, userID, eventID string, token *string, limit int) ([]db.ChatMessage, *string, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	if err := s.authorize(ctx, userID, eventID); err != nil {
		return nil, nil, err
	}
	return s.chat.ListMessages(ctx, eventID, token, limit)
}

// authorize tells a missing event (NotFound) from a non-member caller
// (PermissionDenied).
func (s *Service) authorize(ctx context.Context, userID, eventID string) error {
	ok, err := s.chat.IsMember(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if _, err := s.events.Get(ctx, eventID); err != nil {
		return err
	}
	return fmt.Errorf("chat of event %s: %w", eventID, svcErr.ErrPermissionDenied)
}
