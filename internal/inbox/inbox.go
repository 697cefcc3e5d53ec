// Package inbox serves a user's notifications and keeps the cached unread
// counter consistent with the table.
package inbox

import (
	"context"
	"log/slog"

	"github.com/oggyb/eventswipe/internal/cache"
	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Service struct {
	repo  *repository.NotificationRepository
	cache *cache.RedisCache
	log   *slog.Logger
}

// NewService creates the inbox. rc may be nil, disabling the counter cache.
func NewService(repo *repository.NotificationRepository, rc *cache.RedisCache, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, cache: rc, log: log}
}

// List returns one page of notifications, newest first.
func (s *Service) List(ctx context.Context, userID string, token *string, limit int, unreadOnly bool) ([]db.Notification, *string, error) {
	switch {
	case limit <= 0:
		limit = DefaultPageSize
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	return s.repo.List(ctx, userID, token, limit, unreadOnly)
}

// Notify creates an inbox entry for userID.
func (s *Service) Notify(ctx context.Context, userID, title, content string) error {
	if userID == "" {
		return svcErr.Validation("notification needs a recipient")
	}
	n := &db.Notification{UserID: userID, Title: title, Content: content}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	if s.cache != nil {
		if _, err := s.cache.IncrUnread(ctx, userID, 1); err != nil {
			s.log.Warn("unread counter update failed", "user", userID, "error", err)
		}
	}
	return nil
}

// MarkRead flags one notification. Only its owner may do so.
func (s *Service) MarkRead(ctx context.Context, userID, id string) error {
	changed, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return err
	}
	if changed && s.cache != nil {
		if _, err := s.cache.DecrUnread(ctx, userID, 1); err != nil {
			s.log.Warn("unread counter update failed", "user", userID, "error", err)
		}
	}
	return nil
}

// MarkAllRead flags every unread notification in one batch and returns how
// many changed.
func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	changed, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.cache != nil {
		if err := s.cache.SetUnreadCount(ctx, userID, 0); err != nil {
			s.log.Warn("unread counter reset failed", "user", userID, "error", err)
		}
	}
	return changed, nil
}

// CountUnread returns the number of unread notifications.
// Cache-first strategy:
//  1. Attempts to read from Redis (notifications:unread:userID), refreshing its TTL.
//  2. On miss or cache error, counts in the DB.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) CountUnread(ctx context.Context, userID string) (int64, error) {
	if s.cache != nil {
		n, found, err := s.cache.GetUnreadCount(ctx, userID)
		if err != nil {
			s.log.Warn("unread counter read failed", "user", userID, "error", err)
		} else if found {
			return n, nil
		}
	}

	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		_ = s.cache.SetUnreadCount(ctx, userID, count)
	}
	return count, nil
}
