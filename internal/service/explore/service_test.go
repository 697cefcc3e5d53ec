package explore_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/api"
	"github.com/oggyb/eventswipe/internal/app"
	"github.com/oggyb/eventswipe/internal/auth"
	"github.com/oggyb/eventswipe/internal/config"
	"github.com/oggyb/eventswipe/internal/db"
	"github.com/oggyb/eventswipe/internal/geo"
	"github.com/oggyb/eventswipe/internal/geocode"
	"github.com/oggyb/eventswipe/internal/report"
	"github.com/oggyb/eventswipe/internal/service/explore"
	"github.com/oggyb/eventswipe/internal/testutil"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

//
// Test helpers
//

type staticGeocoder struct{}

func (staticGeocoder) Geocode(context.Context, string) (geo.Point, error) {
	return geo.Point{Lat: testutil.KrakowLat, Lng: testutil.KrakowLng}, nil
}

func (staticGeocoder) Reverse(context.Context, geo.Point) (geocode.Place, error) {
	return geocode.Place{City: "Kraków"}, nil
}

type outbox struct{ sent []report.Message }

func (o *outbox) Send(_ context.Context, msg report.Message) error {
	o.sent = append(o.sent, msg)
	return nil
}

// seed inserts:
//   - users host, me and rival, all in Kraków
//   - "open": unlimited event by host
//   - "last-seat": capacity 2 with host already in, one seat left
//   - "far": 300 km away, never in the feed
func seed(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	for _, id := range []string{"host", "me", "rival"} {
		testutil.CreateUser(t, gdb, db.User{
			ID:           id,
			Name:         "name-" + id,
			ProfileImage: id + ".png",
			Lat:          testutil.Float(testutil.KrakowLat),
			Lng:          testutil.Float(testutil.KrakowLng),
		})
	}
	testutil.CreateEvent(t, gdb, db.Event{ID: "open", Name: "Picnic", CreatorID: "host", Date: now.Add(24 * time.Hour)})
	testutil.CreateEvent(t, gdb, db.Event{ID: "last-seat", Name: "Dinner", CreatorID: "host", Capacity: 2, Date: now.Add(48 * time.Hour)})
	testutil.CreateEvent(t, gdb, db.Event{
		ID: "far", CreatorID: "host", Date: now.Add(72 * time.Hour),
		Lat: testutil.Float(52.2297), Lng: testutil.Float(21.0122),
	})
}

// setupService wires a Feed service on in-memory SQLite and miniredis.
func setupService(t *testing.T) (*explore.Service, *app.AppContext, *outbox) {
	t.Helper()
	gdb := testutil.NewDB(t)
	seed(t, gdb)
	rc, _ := testutil.NewCache(t)

	cfg := config.New()
	cfg.Mail.ReportTo = "mod@example.com"

	appCtx := app.New(cfg, gdb, rc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	appCtx.Now = func() time.Time { return now }
	appCtx.Geocoder = staticGeocoder{}
	box := &outbox{}
	appCtx.Mailer = box

	return explore.NewFeedService(appCtx), appCtx, box
}

func as(userID string) context.Context {
	return auth.WithUserID(context.Background(), userID)
}

func eventIDs(cards []api.EventCard) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Event.ID)
	}
	return out
}

//
// Tests
//

func TestFetchFeed(t *testing.T) {
	svc, _, _ := setupService(t)

	resp, err := svc.FetchFeed(as("me"), &api.FetchFeedRequest{})
	require.NoError(t, err)

	assert.Equal(t, []string{"open", "last-seat"}, eventIDs(resp.Events))
	assert.True(t, resp.Exhausted)
	assert.False(t, resp.NoMoreEvents)

	card := resp.Events[0]
	assert.Equal(t, "name-host", card.CreatorName)
	assert.Equal(t, []string{"host.png"}, card.ParticipantImages)
	assert.Equal(t, "upcoming", card.TimeLeft.Status)
	assert.Equal(t, int64(24*3600), card.TimeLeft.Seconds)
	require.NotNil(t, card.DistanceKm)
	assert.InDelta(t, 0, *card.DistanceKm, 1e-6)
}

func TestSwipesLeaveTheFeed(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := as("me")

	res, err := svc.Dislike(ctx, &api.EventRequest{EventID: "open"})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, db.RelationBanned, res.To)

	res, err = svc.Like(ctx, &api.EventRequest{EventID: "last-seat"})
	require.NoError(t, err)
	assert.Equal(t, "Dinner", res.EventName)

	resp, err := svc.FetchFeed(ctx, &api.FetchFeedRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Events)
	assert.True(t, resp.NoMoreEvents)

	liked, err := svc.MyEvents(ctx, &api.MyEventsRequest{Kind: "liked"})
	require.NoError(t, err)
	require.Len(t, liked.Events, 1)
	assert.Equal(t, "last-seat", liked.Events[0].ID)
}

func TestJoin_LastSeat(t *testing.T) {
	svc, appCtx, _ := setupService(t)

	_, err := svc.Join(as("rival"), &api.EventRequest{EventID: "last-seat"})
	require.NoError(t, err)

	_, err = svc.Join(as("me"), &api.EventRequest{EventID: "last-seat"})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	notes, _, err := appCtx.Inbox().List(context.Background(), "me", nil, 10, false)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Event full", notes[0].Title)
	assert.Contains(t, notes[0].Content, "Dinner")

	joined, err := svc.MyEvents(as("me"), &api.MyEventsRequest{Kind: "joined"})
	require.NoError(t, err)
	assert.Empty(t, joined.Events)
}

func TestTransitionErrors(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Leave(as("me"), &api.EventRequest{EventID: "open"})
	assert.Equal(t, codes.Aborted, status.Code(err))

	_, err = svc.Join(as("host"), &api.EventRequest{EventID: "open"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.Like(as("me"), &api.EventRequest{EventID: "missing"})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = svc.Like(as("me"), &api.EventRequest{EventID: " "})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.FetchFeed(context.Background(), &api.FetchFeedRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestCreateAndDeleteEvent(t *testing.T) {
	svc, _, _ := setupService(t)

	created, err := svc.CreateEvent(as("me"), &api.CreateEventRequest{
		Name:     "Climbing",
		Capacity: 4,
		Date:     now.Add(5 * 24 * time.Hour),
		EndDate:  now.Add(5*24*time.Hour + 3*time.Hour),
		Street:   "Zabłocie 20",
		City:     "Kraków",
	})
	require.NoError(t, err)
	assert.Equal(t, "me", created.CreatorID)
	assert.Equal(t, 1, created.ParticipantCount)

	mine, err := svc.MyEvents(as("me"), &api.MyEventsRequest{Kind: "created"})
	require.NoError(t, err)
	require.Len(t, mine.Events, 1)

	_, err = svc.DeleteEvent(as("rival"), &api.EventRequest{EventID: created.ID})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = svc.DeleteEvent(as("me"), &api.EventRequest{EventID: created.ID})
	require.NoError(t, err)

	_, err = svc.CreateEvent(as("me"), &api.CreateEventRequest{Name: "Past", Capacity: 4, City: "Kraków", Date: now.Add(-time.Hour)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = svc.MyEvents(as("me"), &api.MyEventsRequest{Kind: "banned"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestReport(t *testing.T) {
	svc, _, box := setupService(t)

	_, err := svc.Report(as("me"), &api.ReportRequest{EventID: "open", Reason: "spam"})
	require.NoError(t, err)
	require.Len(t, box.sent, 1)
	assert.Equal(t, "mod@example.com", box.sent[0].To)

	_, err = svc.Report(as("me"), &api.ReportRequest{EventID: "open", Reason: "boring"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
