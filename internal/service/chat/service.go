package chat

import (
	"context"
	"strings"

	"github.com/oggyb/eventswipe/internal/api"
	"github.com/oggyb/eventswipe/internal/app"
	"github.com/oggyb/eventswipe/internal/auth"
	rooms "github.com/oggyb/eventswipe/internal/chat"
	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/logger"
)

// Service implements the Chat gRPC API.
type Service struct {
	appCtx *app.AppContext
	chat   *rooms.Service
}

func NewChatService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx, chat: appCtx.Chat()}
}

func (s *Service) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.ChatMessage, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		return nil, svcErr.InvalidArgument("event_id is required")
	}

	msg, err := s.chat.Send(ctx, userID, eventID, req.Content, req.Type)
	if err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Warn("SendMessage failed", "event", eventID, "err", err)
		return nil, svcErr.Map(err)
	}
	out := toMessage(msg)
	return &out, nil
}

// ListMessages returns the event chat oldest first.
// Supports cursor-based pagination with pagination_token.
func (s *Service) ListMessages(ctx context.Context, req *api.ListMessagesRequest) (*api.ListMessagesResponse, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		return nil, svcErr.InvalidArgument("event_id is required")
	}

	msgs, next, err := s.chat.History(ctx, userID, eventID, req.PaginationToken, req.Limit)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &api.ListMessagesResponse{
		Messages:            make([]api.ChatMessage, 0, len(msgs)),
		NextPaginationToken: next,
	}
	for i := range msgs {
		resp.Messages = append(resp.Messages, toMessage(&msgs[i]))
	}
	return resp, nil
}

func toMessage(m *db.ChatMessage) api.ChatMessage {
	return api.ChatMessage{
		ID:        m.ID,
		EventID:   m.EventID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
	}
}
