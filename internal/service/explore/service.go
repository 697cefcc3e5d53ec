package explore

import (
	"context"
	"errors"
	"strings"

	"github.com/oggyb/eventswipe/internal/api"
	"github.com/oggyb/eventswipe/internal/app"
	"github.com/oggyb/eventswipe/internal/auth"
	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/feed"
	"github.com/oggyb/eventswipe/internal/lifecycle"
	"github.com/oggyb/eventswipe/internal/logger"
	"github.com/oggyb/eventswipe/internal/membership"
	"github.com/oggyb/eventswipe/internal/report"
	"github.com/oggyb/eventswipe/internal/repository"
)

// Service implements the Feed gRPC API: the swipe feed, relation
// transitions, reports and the creator's event management.
type Service struct {
	appCtx    *app.AppContext
	assembler *feed.Assembler
	members   *membership.Service
	events    *lifecycle.Service
	reports   *report.Service
}

// NewFeedService creates the Feed service with dependencies from AppContext.
// Dependencies include:
//   - DB connection (via event, relation and user repositories)
//   - RedisCache for user cards and unread counters
//   - Geocoder for search origins and event addresses
//   - Mailer for moderation reports
func NewFeedService(appCtx *app.AppContext) *Service {
	users := appCtx.Users()
	eventRepo := repository.NewEventRepository(appCtx.DB)

	opts := feed.OptionsFromConfig(appCtx.Config)
	opts.Now = appCtx.Now

	mailer := appCtx.Mailer
	if mailer == nil {
		mailer = report.NewSMTPMailer(appCtx.Config)
	}

	return &Service{
		appCtx: appCtx,
		assembler: feed.NewAssembler(
			eventRepo,
			repository.NewRelationRepository(appCtx.DB),
			users,
			appCtx.Geocoder,
			opts,
			appCtx.Logger,
		),
		members: membership.NewService(appCtx.DB, users, appCtx.Inbox(), appCtx.Now, appCtx.Logger),
		events:  lifecycle.NewService(appCtx.DB, users, appCtx.Geocoder, appCtx.Now, appCtx.Logger),
		reports: report.NewService(eventRepo, mailer, appCtx.Config.Mail.ReportTo, appCtx.Logger),
	}
}

// FetchFeed returns the next batch of events for the caller to swipe.
//
// Behavior:
//   - Scans upcoming events from the start on every call; swiped events drop out.
//   - A page failure after some events were kept still returns them, flagged Partial.
//   - NoMoreEvents tells the client the feed is empty for good.
func (s *Service) FetchFeed(ctx context.Context, req *api.FetchFeedRequest) (*api.FetchFeedResponse, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("FetchFeed called")

	batch, err := s.assembler.Fetch(ctx, userID)
	if err != nil {
		if batch == nil || len(batch.Events) == 0 {
			log.Error("feed assembly failed", "err", err)
			return nil, svcErr.Map(err)
		}
		log.Warn("returning partial feed", "events", len(batch.Events), "err", err)
	}

	resp := &api.FetchFeedResponse{
		Events:       make([]api.EventCard, 0, len(batch.Events)),
		Exhausted:    batch.Exhausted,
		NoMoreEvents: batch.NoMoreEvents(),
		Partial:      batch.Partial,
	}
	for i := range batch.Events {
		resp.Events = append(resp.Events, toCard(&batch.Events[i]))
	}

	log.Debug("FetchFeed result", "events", len(resp.Events), "exhausted", resp.Exhausted)
	return resp, nil
}

// Join adds the caller to the event.
// Losing the race for the last seat fails with FailedPrecondition and
// leaves an "Event full" notification in the caller's inbox.
func (s *Service) Join(ctx context.Context, req *api.EventRequest) (*api.RelationResponse, error) {
	return s.transition(ctx, "Join", req, s.members.Join)
}

// Like saves the event to the caller's liked tab.
func (s *Service) Like(ctx context.Context, req *api.EventRequest) (*api.RelationResponse, error) {
	return s.transition(ctx, "Like", req, s.members.Like)
}

// Dislike hides the event for good, leaving it when joined.
func (s *Service) Dislike(ctx context.Context, req *api.EventRequest) (*api.RelationResponse, error) {
	return s.transition(ctx, "Dislike", req, s.members.Dislike)
}

// Leave quits a joined event. The event does not come back to the feed.
func (s *Service) Leave(ctx context.Context, req *api.EventRequest) (*api.RelationResponse, error) {
	return s.transition(ctx, "Leave", req, s.members.Leave)
}

func (s *Service) transition(
	ctx context.Context,
	method string,
	req *api.EventRequest,
	apply func(ctx context.Context, userID, eventID string) (*membership.Result, error),
) (*api.RelationResponse, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	eventID := strings.TrimSpace(req.EventID)
	if eventID == "" {
		return nil, svcErr.InvalidArgument("event_id is required")
	}

	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug(method+" called", "event", eventID)

	res, err := apply(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, svcErr.ErrEventFull) {
			log.Info(method+" lost the last seat", "event", eventID)
		} else {
			log.Error(method+" failed", "event", eventID, "err", err)
		}
		return nil, svcErr.Map(err)
	}

	return &api.RelationResponse{
		EventID:   res.EventID,
		EventName: res.EventName,
		From:      res.From,
		To:        res.To,
		Changed:   res.Changed,
	}, nil
}

// Report flags the event for moderation by e-mail.
func (s *Service) Report(ctx context.Context, req *api.ReportRequest) (*api.Empty, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if strings.TrimSpace(req.EventID) == "" {
		return nil, svcErr.InvalidArgument("event_id is required")
	}

	if err := s.reports.Report(ctx, userID, req.EventID, req.Reason, req.Details); err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Error("Report failed", "event", req.EventID, "err", err)
		return nil, svcErr.Map(err)
	}
	return &api.Empty{}, nil
}

// CreateEvent publishes a new event with the caller as creator and first participant.
func (s *Service) CreateEvent(ctx context.Context, req *api.CreateEventRequest) (*api.Event, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	log := logger.FromContext(ctx, s.appCtx.Logger)
	log.Debug("CreateEvent called", "name", req.Name, "date", req.Date)

	event, err := s.events.Create(ctx, userID, lifecycle.CreateInput{
		Name:         req.Name,
		Description:  req.Description,
		Categories:   req.Categories,
		Capacity:     req.Capacity,
		Date:         req.Date,
		EndDate:      req.EndDate,
		Street:       req.Street,
		City:         req.City,
		Requirements: fromRequirements(req.Requirements),
		Image:        req.Image,
	})
	if err != nil {
		log.Error("CreateEvent failed", "err", err)
		return nil, svcErr.Map(err)
	}

	out := toEvent(event)
	out.ParticipantIDs = []string{userID}
	return &out, nil
}

// DeleteEvent removes one of the caller's events.
func (s *Service) DeleteEvent(ctx context.Context, req *api.EventRequest) (*api.Empty, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	if strings.TrimSpace(req.EventID) == "" {
		return nil, svcErr.InvalidArgument("event_id is required")
	}

	if err := s.events.Delete(ctx, userID, req.EventID); err != nil {
		logger.FromContext(ctx, s.appCtx.Logger).Error("DeleteEvent failed", "event", req.EventID, "err", err)
		return nil, svcErr.Map(err)
	}
	return &api.Empty{}, nil
}

// MyEvents lists the caller's joined, liked or created events.
func (s *Service) MyEvents(ctx context.Context, req *api.MyEventsRequest) (*api.MyEventsResponse, error) {
	userID, err := auth.UserID(ctx)
	if err != nil {
		return nil, svcErr.Map(err)
	}
	kind := strings.ToLower(strings.TrimSpace(req.Kind))
	if kind == "" {
		kind = db.RelationJoined
	}

	events, err := s.members.MyEvents(ctx, userID, kind)
	if err != nil {
		return nil, svcErr.Map(err)
	}

	resp := &api.MyEventsResponse{Events: make([]api.Event, 0, len(events))}
	for i := range events {
		resp.Events = append(resp.Events, toEvent(&events[i]))
	}
	return resp, nil
}
