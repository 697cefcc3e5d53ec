package inbox

import (
	"context"
	"strings"

	"github.com/oggyb/eventswipe/internal/api"
	"github.com/oggyb/eventswipe/internal/app"
	"github.com/oggyb/eventswipe/internal/auth"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	notifications "github.com/oggyb/eventswipe/internal/inbox"
	"github.com/oggyb/eventswipe/internal/logger"
)

// Service implements the Inbox gRPC API on top of the notification store
// and the cached unread counter.
type Service struct {
	appCtx *app.AppContext
	inbox  *notifications.Service
}

func NewInboxService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx, inbox: appCtx.Inbox()}
}

// List returns the caller's notifications, newest first.
// Supports cursor-based pagination with pagination_token.
func (s *Service) List(ctx context.Context, req *api.ListNotificationsRequest) (*api.ListNotificationsResponse, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("List called", "token", req.PaginationToken, "limit", req.Limit)

	notes, next, err := s.inbox.List(ctx, userID, req.PaginationToken, req.Limit, req.UnreadOnly)
	if err != nil {
		log.Error("List failed", "err", err)
		return nil, svcErr.Map(err)
	}

	resp := &api.ListNotificationsResponse{
		Notifications:       make([]api.Notification, 0, len(notes)),
		NextPaginationToken: next,
	}
	for _, n := range notes {
		resp.Notifications = append(resp.Notifications, api.Notification{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp, nil
}

func (s *Service) MarkRead(ctx context.Context, req *api.MarkReadRequest) (*api.Empty, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	id := strings.TrimSpace(req.NotificationID)
	if id == "" {
		return nil, svcErr.InvalidArgument("notification_id is required")
	}
	if err := s.inbox.MarkRead(ctx, userID, id); err != nil {
		return nil, svcErr.Map(err)
	}
	return &api.Empty{}, nil
}

func (s *Service) MarkAllRead(ctx context.Context, _ *api.Empty) (*api.MarkAllReadResponse, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	n, err := s.inbox.MarkAllRead(ctx, userID)
	if err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Error("MarkAllRead failed", "err", err)
		return nil, svcErr.Map(err)
	}
	return &api.MarkAllReadResponse{Updated: n}, nil
}

// CountUnread returns the badge count. Cache-first, see inbox.Service.
func (s *Service) CountUnread(ctx context.Context, _ *api.Empty) (*api.CountUnreadResponse, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	n, err := s.inbox.CountUnread(ctx, userID)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	return &api.CountUnreadResponse{Count: n}, nil
}
