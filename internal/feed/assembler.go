// Package feed assembles the personalized event feed: a cursor-paginated
// scan of upcoming events through the exclusion, geographic and preference
// filters, enriched with display data.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oggyb/eventswipe/internal/cache"
	"github.com/oggyb/eventswipe/internal/config"
	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/geo"
	"github.com/oggyb/eventswipe/internal/geocode"
	"github.com/oggyb/eventswipe/internal/metrics"
)

// UnknownCreator is shown when the creator's profile cannot be resolved.
const UnknownCreator = "Unknown"

// Rejection reasons, also the values of the feed_rejections metric label.
const (
	RejectExcluded      = "excluded"
	RejectOwn           = "own"
	RejectFull          = "full"
	RejectNoCoordinates = "no_coordinates"
	RejectDistance      = "distance"
	RejectRequirements  = "requirements"
	RejectPersonLimit   = "person_limit"
	RejectInterests     = "interests"
	RejectDate          = "date"
)

// EventSource pages through upcoming events ordered by (date, id).
// A nil next token means the upstream is exhausted.
type EventSource interface {
	ListUpcoming(ctx context.Context, now time.Time, token *string, limit int) ([]db.Event, *string, error)
}

// RelationSource returns the user's joined/liked/banned events keyed by id.
type RelationSource interface {
	Sets(ctx context.Context, userID string) (map[string]string, error)
}

// UserSource loads the requesting profile and batched display cards.
type UserSource interface {
	Get(ctx context.Context, id string) (*db.User, error)
	Cards(ctx context.Context, ids []string) (map[string]cache.UserCard, error)
}

type Options struct {
	TargetCount     int
	PageSize        int
	DefaultRadiusKm float64
	Now             func() time.Time
}

// OptionsFromConfig reads the Feed group, falling back to 15/10/10 km.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		TargetCount:     cfg.Feed.TargetCount,
		PageSize:        cfg.Feed.PageSize,
		DefaultRadiusKm: cfg.Feed.DefaultRadiusKm,
	}
}

func (o Options) withDefaults() Options {
	if o.TargetCount <= 0 {
		o.TargetCount = 15
	}
	if o.PageSize <= 0 {
		o.PageSize = 10
	}
	if o.DefaultRadiusKm <= 0 {
		o.DefaultRadiusKm = 10
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Card is an event enriched for display.
type Card struct {
	Event             db.Event
	CreatorName       string
	ParticipantImages []string
	DistanceKm        *float64
	TimeLeft          TimeLeft
}

// Batch is the result of one Fetch call.
type Batch struct {
	Events []Card
	// Exhausted is set when every upcoming event was scanned.
	Exhausted bool
	// Partial is set when paging stopped on an error or cancellation.
	Partial bool
}

// NoMoreEvents is the end-of-feed indicator.
func (b *Batch) NoMoreEvents() bool {
	return len(b.Events) == 0 && b.Exhausted
}

type Assembler struct {
	events    EventSource
	relations RelationSource
	users     UserSource
	geocoder  geocode.Geocoder
	opts      Options
	log       *slog.Logger
}

// NewAssembler wires the feed. geocoder may be nil, disabling preference
// location overrides.
func NewAssembler(
	events EventSource,
	relations RelationSource,
	users UserSource,
	geocoder geocode.Geocoder,
	opts Options,
	log *slog.Logger,
) *Assembler {
	if log == nil {
		log = slog.Default()
	}
	return &Assembler{
		events:    events,
		relations: relations,
		users:     users,
		geocoder:  geocoder,
		opts:      opts.withDefaults(),
		log:       log,
	}
}

// search is the per-call state derived from the user's profile.
type search struct {
	userID    string
	excluded  map[string]string
	origin    geo.Point
	hasOrigin bool
	radiusKm  float64
	prefs     db.Preferences
	candidate Candidate
}

// Fetch returns up to TargetCount eligible events for userID, scanning
// from the first upcoming event on every call.
//
// Errors:
//   - loading the user or their relations fails → nil batch, error.
//   - a page fails or ctx ends mid-scan → the accumulated batch with
//     Partial set, and an error wrapping ErrFeedInterrupted.
func (a *Assembler) Fetch(ctx context.Context, userID string) (*Batch, error) {
	defer metrics.Track(metrics.FeedLatency)()

	s, err := a.prepare(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := a.opts.Now().UTC()
	batch := &Batch{Events: make([]Card, 0, a.opts.TargetCount)}

	var token *string
	for pageNo := 1; len(batch.Events) < a.opts.TargetCount; pageNo++ {
		if err := ctx.Err(); err != nil {
			batch.Partial = true
			return batch, fmt.Errorf("%w: before page %d: %w", svcErr.ErrFeedInterrupted, pageNo, err)
		}

		page, next, err := a.events.ListUpcoming(ctx, now, token, a.opts.PageSize)
		if err != nil {
			batch.Partial = true
			a.log.Warn("feed page failed", "user", userID, "page", pageNo, "kept", len(batch.Events), "error", err)
			return batch, fmt.Errorf("%w: page %d: %w", svcErr.ErrFeedInterrupted, pageNo, err)
		}
		metrics.FeedPagesScanned.Inc()

		if len(page) == 0 {
			batch.Exhausted = true
			break
		}

		need := a.opts.TargetCount - len(batch.Events)
		kept, scanned := a.filterPage(s, page, need)
		batch.Events = append(batch.Events, a.enrich(ctx, s, kept, now)...)

		// an early stop leaves part of the page unscanned
		if next == nil && scanned == len(page) {
			batch.Exhausted = true
			break
		}
		if next == nil {
			break
		}
		token = next
	}

	metrics.FeedBatchSize.Observe(float64(len(batch.Events)))
	a.log.Debug("feed assembled",
		"user", userID,
		"events", len(batch.Events),
		"exhausted", batch.Exhausted,
	)
	return batch, nil
}

func (a *Assembler) prepare(ctx context.Context, userID string) (*search, error) {
	user, err := a.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	excluded, err := a.relations.Sets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load relations: %w", err)
	}

	s := &search{
		userID:    userID,
		excluded:  excluded,
		radiusKm:  user.Preferences.DistanceKm,
		prefs:     user.Preferences,
		candidate: CandidateOf(user),
	}
	if s.radiusKm <= 0 {
		s.radiusKm = a.opts.DefaultRadiusKm
	}
	s.origin, s.hasOrigin = a.resolveOrigin(ctx, user)
	return s, nil
}

// resolveOrigin geocodes the preference location override, falling back to
// the stored coordinates when there is none or the lookup fails.
func (a *Assembler) resolveOrigin(ctx context.Context, u *db.User) (geo.Point, bool) {
	if loc := strings.TrimSpace(u.Preferences.Location); loc != "" && a.geocoder != nil {
		p, err := a.geocoder.Geocode(ctx, loc)
		if err == nil {
			return p, true
		}
		a.log.Warn("preference location geocoding failed, using stored coordinates",
			"user", u.ID, "location", loc, "error", err)
	}
	return geo.FromPtr(u.Lat, u.Lng)
}

type survivor struct {
	event    *db.Event
	distance *float64
}

// filterPage keeps at most need events of page, in page order, and reports
// how many events it looked at.
func (a *Assembler) filterPage(s *search, page []db.Event, need int) ([]survivor, int) {
	kept := make([]survivor, 0, need)
	for i := range page {
		if len(kept) >= need {
			return kept, i
		}
		e := &page[i]
		d, reason := a.check(s, e)
		if reason != "" {
			metrics.FeedRejections.WithLabelValues(reason).Inc()
			continue
		}
		kept = append(kept, survivor{event: e, distance: d})
	}
	return kept, len(page)
}

// check runs the filter pipeline on e. It returns the rejection reason, or
// "" and the distance from the origin when known.
func (a *Assembler) check(s *search, e *db.Event) (*float64, string) {
	if _, ok := s.excluded[e.ID]; ok {
		return nil, RejectExcluded
	}
	if e.CreatorID == s.userID {
		return nil, RejectOwn
	}
	if e.Full() {
		return nil, RejectFull
	}

	var distance *float64
	at, ok := geo.FromPtr(e.Lat, e.Lng)
	if !ok {
		return nil, RejectNoCoordinates
	}
	if s.hasOrigin {
		d := geo.Distance(s.origin, at)
		if d > s.radiusKm {
			return nil, RejectDistance
		}
		distance = &d
	}

	if !MeetsRequirements(e.Requirements, s.candidate, s.prefs.MeetRequirements) {
		return nil, RejectRequirements
	}
	if !WithinPersonLimit(e, s.prefs) {
		return nil, RejectPersonLimit
	}
	if !SharesInterest(e.Categories, s.prefs.Interests) {
		return nil, RejectInterests
	}
	if !WithinDateWindow(e.Date, s.prefs) {
		return nil, RejectDate
	}
	return distance, ""
}

// enrich attaches creator names, participant avatars and the countdown
// with one card lookup for the whole page. A failed lookup degrades to
// placeholders.
func (a *Assembler) enrich(ctx context.Context, s *search, kept []survivor, now time.Time) []Card {
	if len(kept) == 0 {
		return nil
	}

	var ids []string
	for _, k := range kept {
		ids = append(ids, k.event.CreatorID)
		ids = append(ids, k.event.ParticipantIDs()...)
	}
	cards, err := a.users.Cards(ctx, ids)
	if err != nil {
		a.log.Warn("feed enrichment lookup failed", "user", s.userID, "error", err)
	}

	out := make([]Card, 0, len(kept))
	for _, k := range kept {
		c := Card{
			Event:       *k.event,
			CreatorName: UnknownCreator,
			DistanceKm:  k.distance,
			TimeLeft:    ComputeTimeLeft(k.event.Date, k.event.EndDate, now),
		}
		if creator, ok := cards[k.event.CreatorID]; ok && creator.Name != "" {
			c.CreatorName = creator.Name
		}
		for _, pid := range k.event.ParticipantIDs() {
			if p, ok := cards[pid]; ok && p.ProfileImage != "" {
				c.ParticipantImages = append(c.ParticipantImages, p.ProfileImage)
			}
		}
		out = append(out, c)
	}
	return out
}
