package api

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const FeedServiceName = "eventswipe.v1.FeedService"

const (
	FeedService_FetchFeed_FullMethodName   = "/" + FeedServiceName + "/FetchFeed"
	FeedService_Join_FullMethodName        = "/" + FeedServiceName + "/Join"
	FeedService_Like_FullMethodName        = "/" + FeedServiceName + "/Like"
	FeedService_Dislike_FullMethodName     = "/" + FeedServiceName + "/Dislike"
	FeedService_Leave_FullMethodName       = "/" + FeedServiceName + "/Leave"
	FeedService_Report_FullMethodName      = "/" + FeedServiceName + "/Report"
	FeedService_CreateEvent_FullMethodName = "/" + FeedServiceName + "/CreateEvent"
	FeedService_DeleteEvent_FullMethodName = "/" + FeedServiceName + "/DeleteEvent"
	FeedService_MyEvents_FullMethodName    = "/" + FeedServiceName + "/MyEvents"
)

type FetchFeedRequest struct{}

type FetchFeedResponse struct {
	Events []EventCard `json:"events"`
	// Exhausted is set once the upstream has no more events.
	Exhausted bool `json:"exhausted"`
	// NoMoreEvents is Exhausted with an empty batch.
	NoMoreEvents bool `json:"no_more_events"`
	// Partial is set when paging was interrupted after some events were kept.
	Partial bool `json:"partial,omitempty"`
}

type EventRequest struct {
	EventID string `json:"event_id"`
}

type RelationResponse struct {
	EventID   string `json:"event_id"`
	EventName string `json:"event_name"`
	From      string `json:"from"`
	To        string `json:"to"`
	Changed   bool   `json:"changed"`
}

type ReportRequest struct {
	EventID string `json:"event_id"`
	Reason  string `json:"reason,omitempty"`
	Details string `json:"details,omitempty"`
}

type CreateEventRequest struct {
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Categories   []string     `json:"categories,omitempty"`
	Capacity     int          `json:"capacity"`
	Date         time.Time    `json:"date"`
	EndDate      time.Time    `json:"end_date"`
	Street       string       `json:"street,omitempty"`
	City         string       `json:"city"`
	Requirements Requirements `json:"requirements"`
	Image        string       `json:"image,omitempty"`
}

type MyEventsRequest struct {
	// Kind is joined, liked or created.
	Kind string `json:"kind"`
}

type MyEventsResponse struct {
	Events []Event `json:"events"`
}

// FeedServiceServer is the server API for the feed service.
type FeedServiceServer interface {
	FetchFeed(context.Context, *FetchFeedRequest) (*FetchFeedResponse, error)
	Join(context.Context, *EventRequest) (*RelationResponse, error)
	Like(context.Context, *EventRequest) (*RelationResponse, error)
	Dislike(context.Context, *EventRequest) (*RelationResponse, error)
	Leave(context.Context, *EventRequest) (*RelationResponse, error)
	Report(context.Context, *ReportRequest) (*Empty, error)
	CreateEvent(context.Context, *CreateEventRequest) (*Event, error)
	DeleteEvent(context.Context, *EventRequest) (*Empty, error)
	MyEvents(context.Context, *MyEventsRequest) (*MyEventsResponse, error)
}

func feedServer(srv interface{}) FeedServiceServer { return srv.(FeedServiceServer) }

var FeedService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: FeedServiceName,
	HandlerType: (*FeedServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(FeedServiceName, "FetchFeed", func(srv interface{}, ctx context.Context, in *FetchFeedRequest) (*FetchFeedResponse, error) {
			return feedServer(srv).FetchFeed(ctx, in)
		}),
		unary(FeedServiceName, "Join", func(srv interface{}, ctx context.Context, in *EventRequest) (*RelationResponse, error) {
			return feedServer(srv).Join(ctx, in)
		}),
		unary(FeedServiceName, "Like", func(srv interface{}, ctx context.Context, in *EventRequest) (*RelationResponse, error) {
			return feedServer(srv).Like(ctx, in)
		}),
		unary(FeedServiceName, "Dislike", func(srv interface{}, ctx context.Context, in *EventRequest) (*RelationResponse, error) {
			return feedServer(srv).Dislike(ctx, in)
		}),
		unary(FeedServiceName, "Leave", func(srv interface{}, ctx context.Context, in *EventRequest) (*RelationResponse, error) {
			return feedServer(srv).Leave(ctx, in)
		}),
		unary(FeedServiceName, "Report", func(srv interface{}, ctx context.Context, in *ReportRequest) (*Empty, error) {
			return feedServer(srv).Report(ctx, in)
		}),
		unary(FeedServiceName, "CreateEvent", func(srv interface{}, ctx context.Context, in *CreateEventRequest) (*Event, error) {
			return feedServer(srv).CreateEvent(ctx, in)
		}),
		unary(FeedServiceName, "DeleteEvent", func(srv interface{}, ctx context.Context, in *EventRequest) (*Empty, error) {
			return feedServer(srv).DeleteEvent(ctx, in)
		}),
		unary(FeedServiceName, "MyEvents", func(srv interface{}, ctx context.Context, in *MyEventsRequest) (*MyEventsResponse, error) {
			return feedServer(srv).MyEvents(ctx, in)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eventswipe/v1/feed",
}

func RegisterFeedServiceServer(s grpc.ServiceRegistrar, srv FeedServiceServer) {
	s.RegisterService(&FeedService_ServiceDesc, srv)
}

// FeedServiceClient is the client API for the feed service.
type FeedServiceClient interface {
	FetchFeed(ctx context.Context, in *FetchFeedRequest, opts ...grpc.CallOption) (*FetchFeedResponse, error)
	Join(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*RelationResponse, error)
	Like(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*RelationResponse, error)
	Dislike(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*RelationResponse, error)
	Leave(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*RelationResponse, error)
	Report(ctx context.Context, in *ReportRequest, opts ...grpc.CallOption) (*Empty, error)
	CreateEvent(ctx context.Context, in *CreateEventRequest, opts ...grpc.CallOption) (*Event, error)
	DeleteEvent(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*Empty, error)
	MyEvents(ctx context.Context, in *MyEventsRequest, opts ...grpc.CallOption) (*MyEventsResponse, error)
}

type feedServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewFeedServiceClient(cc grpc.ClientConnInterface) FeedServiceClient {
	return &feedServiceClient{cc}
}

func (c *feedServiceClient) FetchFeed(ctx context.Context, in *FetchFeedRequest, opts ...grpc.CallOption) (*FetchFeedResponse, error) {
	return invoke[FetchFeedResponse](ctx, c.cc, FeedService_FetchFeed_FullMethodName, in, opts)
}

func (c *feedServiceClient) Join(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*RelationResponse, error) {
	return invoke[RelationResponse](ctx, c.cc, FeedService_Join_FullMethodName, in, opts)
}

func (c *feedServiceClient) Like(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*RelationResponse, error) {
	return invoke[RelationResponse](ctx, c.cc, FeedService_Like_FullMethodName, in, opts)
}

func (c *feedServiceClient) Dislike(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*RelationResponse, error) {
	return invoke[RelationResponse](ctx, c.cc, FeedService_Dislike_FullMethodName, in, opts)
}

func (c *feedServiceClient) Leave(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*RelationResponse, error) {
	return invoke[RelationResponse](ctx, c.cc, FeedService_Leave_FullMethodName, in, opts)
}

func (c *feedServiceClient) Report(ctx context.Context, in *ReportRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, FeedService_Report_FullMethodName, in, opts)
}

func (c *feedServiceClient) CreateEvent(ctx context.Context, in *CreateEventRequest, opts ...grpc.CallOption) (*Event, error) {
	return invoke[Event](ctx, c.cc, FeedService_CreateEvent_FullMethodName, in, opts)
}

func (c *feedServiceClient) DeleteEvent(ctx context.Context, in *EventRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, FeedService_DeleteEvent_FullMethodName, in, opts)
}

func (c *feedServiceClient) MyEvents(ctx context.Context, in *MyEventsRequest, opts ...grpc.CallOption) (*MyEventsResponse, error) {
	return invoke[MyEventsResponse](ctx, c.cc, FeedService_MyEvents_FullMethodName, in, opts)
}
