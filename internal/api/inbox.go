package api

import (
	"context"

	"google.golang.org/grpc"
)

const InboxServiceName = "eventswipe.v1.InboxService"

const (
	InboxService_List_FullMethodName        = "/" + InboxServiceName + "/List"
	InboxService_MarkRead_FullMethodName    = "/" + InboxServiceName + "/MarkRead"
	InboxService_MarkAllRead_FullMethodName = "/" + InboxServiceName + "/MarkAllRead"
	InboxService_CountUnread_FullMethodName = "/" + InboxServiceName + "/CountUnread"
)

type ListNotificationsRequest struct {
	PaginationToken *string `json:"pagination_token,omitempty"`
	Limit           int     `json:"limit,omitempty"`
	UnreadOnly      bool    `json:"unread_only,omitempty"`
}

type ListNotificationsResponse struct {
	Notifications       []Notification `json:"notifications"`
	NextPaginationToken *string        `json:"next_pagination_token,omitempty"`
}

type MarkReadRequest struct {
	NotificationID string `json:"notification_id"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

type CountUnreadResponse struct {
	Count int64 `json:"count"`
}

type InboxServiceServer interface {
	List(context.Context, *ListNotificationsRequest) (*ListNotificationsResponse, error)
	MarkRead(context.Context, *MarkReadRequest) (*Empty, error)
	MarkAllRead(context.Context, *Empty) (*MarkAllReadResponse, error)
	CountUnread(context.Context, *Empty) (*CountUnreadResponse, error)
}

func inboxServer(srv interface{}) InboxServiceServer { return srv.(InboxServiceServer) }

var InboxService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: InboxServiceName,
	HandlerType: (*InboxServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(InboxServiceName, "List", func(srv interface{}, ctx context.Context, in *ListNotificationsRequest) (*ListNotificationsResponse, error) {
			return inboxServer(srv).List(ctx, in)
		}),
		unary(InboxServiceName, "MarkRead", func(srv interface{}, ctx context.Context, in *MarkReadRequest) (*Empty, error) {
			return inboxServer(srv).MarkRead(ctx, in)
		}),
		unary(InboxServiceName, "MarkAllRead", func(srv interface{}, ctx context.Context, in *Empty) (*MarkAllReadResponse, error) {
			return inboxServer(srv).MarkAllRead(ctx, in)
		}),
		unary(InboxServiceName, "CountUnread", func(srv interface{}, ctx context.Context, in *Empty) (*CountUnreadResponse, error) {
			return inboxServer(srv).CountUnread(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eventswipe/v1/inbox",
}

func RegisterInboxServiceServer(s grpc.ServiceRegistrar, srv InboxServiceServer) {
	s.RegisterService(&InboxService_ServiceDesc, srv)
}

type InboxServiceClient interface {
	List(ctx context.Context, in *ListNotificationsRequest, opts ...grpc.CallOption) (*ListNotificationsResponse, error)
	MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) (*Empty, error)
	MarkAllRead(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MarkAllReadResponse, error)
	CountUnread(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*CountUnreadResponse, error)
}

type inboxServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInboxServiceClient(cc grpc.ClientConnInterface) InboxServiceClient {
	return &inboxServiceClient{cc}
}

func (c *inboxServiceClient) List(ctx context.Context, in *ListNotificationsRequest, opts ...grpc.CallOption) (*ListNotificationsResponse, error) {
	return invoke[ListNotificationsResponse](ctx, c.cc, InboxService_List_FullMethodName, in, opts)
}

func (c *inboxServiceClient) MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, InboxService_MarkRead_FullMethodName, in, opts)
}

func (c *inboxServiceClient) MarkAllRead(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MarkAllReadResponse, error) {
	return invoke[MarkAllReadResponse](ctx, c.cc, InboxService_MarkAllRead_FullMethodName, in, opts)
}

func (c *inboxServiceClient) CountUnread(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*CountUnreadResponse, error) {
	return invoke[CountUnreadResponse](ctx, c.cc, InboxService_CountUnread_FullMethodName, in, opts)
}
