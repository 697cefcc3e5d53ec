package api

import (
	"context"

	"google.golang.org/grpc"
)

const ChatServiceName = "eventswipe.v1.ChatService"

const (
	ChatService_SendMessage_FullMethodName  = "/" + ChatServiceName + "/SendMessage"
	ChatService_ListMessages_FullMethodName = "/" + ChatServiceName + "/ListMessages"
)

type SendMessageRequest struct {
	EventID string `json:"event_id"`
	Content string `json:"content"`
	Type    string `json:"type,omitempty"`
}

type ListMessagesRequest struct {
	EventID         string  `json:"event_id"`
	PaginationToken *string `json:"pagination_token,omitempty"`
	Limit           int     `json:"limit,omitempty"`
}

type ListMessagesResponse struct {
	Messages            []ChatMessage `json:"messages"`
	NextPaginationToken *string       `json:"next_pagination_token,omitempty"`
}

type ChatServiceServer interface {
	SendMessage(context.Context, *SendMessageRequest) (*ChatMessage, error)
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
}

func chatServer(srv interface{}) ChatServiceServer { return srv.(ChatServiceServer) }

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ChatServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ChatServiceName, "SendMessage", func(srv interface{}, ctx context.Context, in *SendMessageRequest) (*ChatMessage, error) {
			return chatServer(srv).SendMessage(ctx, in)
		}),
		unary(ChatServiceName, "ListMessages", func(srv interface{}, ctx context.Context, in *ListMessagesRequest) (*ListMessagesResponse, error) {
			return chatServer(srv).ListMessages(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eventswipe/v1/chat",
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

type ChatServiceClient interface {
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*ChatMessage, error)
	ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc}
}

func (c *chatServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*ChatMessage, error) {
	return invoke[ChatMessage](ctx, c.cc, ChatService_SendMessage_FullMethodName, in, opts)
}

func (c *chatServiceClient) ListMessages(ctx context.Context, in *ListMessagesRequest, opts ...grpc.CallOption) (*ListMessagesResponse, error) {
	return invoke[ListMessagesResponse](ctx, c.cc, ChatService_ListMessages_FullMethodName, in, opts)
}
