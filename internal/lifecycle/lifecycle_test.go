package lifecycle_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/geo"
	"github.com/oggyb/eventswipe/internal/geocode"
	"github.com/oggyb/eventswipe/internal/lifecycle"
	"github.com/oggyb/eventswipe/internal/membership"
	"github.com/oggyb/eventswipe/internal/repository"
	"github.com/oggyb/eventswipe/internal/testutil"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type mapGeocoder map[string]geo.Point

func (m mapGeocoder) Geocode(_ context.Context, address string) (geo.Point, error) {
	if p, ok := m[address]; ok {
		return p, nil
	}
	return geo.Point{}, geocode.ErrNoResults
}

func (m mapGeocoder) Reverse(context.Context, geo.Point) (geocode.Place, error) {
	return geocode.Place{}, nil
}

func setup(t *testing.T) (*lifecycle.Service, *gorm.DB) {
	t.Helper()
	gdb := testutil.NewDB(t)
	testutil.CreateUser(t, gdb, db.User{ID: "host", Name: "Host", ProfileImage: "host.png"})
	testutil.CreateUser(t, gdb, db.User{ID: "u1", Name: "Ola"})

	svc := lifecycle.NewService(
		gdb,
		repository.NewUserRepository(gdb, nil, 0),
		mapGeocoder{"Floriańska 1, Kraków": {Lat: 50.0640, Lng: 19.9400}},
		func() time.Time { return now },
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return svc, gdb
}

func validInput() lifecycle.CreateInput {
	return lifecycle.CreateInput{
		Name:       "Jam session",
		Categories: []string{"music"},
		Capacity:   6,
		Date:       now.Add(24 * time.Hour),
		EndDate:    now.Add(27 * time.Hour),
		Street:     "Floriańska 1",
		City:       "Kraków",
		Requirements: db.Requirements{
			Age: "18-99",
		},
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setup(t)

	event, err := svc.Create(ctx, "host", validInput())
	require.NoError(t, err)
	require.NotEmpty(t, event.ID)

	stored, err := repository.NewEventRepository(gdb).Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jam session", stored.Name)
	assert.Equal(t, 1, stored.ParticipantCount)
	assert.Equal(t, []string{"host"}, stored.ParticipantIDs())
	require.NotNil(t, stored.Lat)
	assert.InDelta(t, 50.0640, *stored.Lat, 1e-9)
	assert.Equal(t, "18-99", stored.Requirements.Age)

	members, err := repository.NewChatRepository(gdb).Members(ctx, event.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Host", members[0].Name)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := setup(t)

	cases := map[string]func(*lifecycle.CreateInput){
		"no name":          func(in *lifecycle.CreateInput) { in.Name = "  " },
		"capacity one":     func(in *lifecycle.CreateInput) { in.Capacity = 1 },
		"capacity zero":    func(in *lifecycle.CreateInput) { in.Capacity = 0 },
		"four categories":  func(in *lifecycle.CreateInput) { in.Categories = []string{"a", "b", "c", "d"} },
		"no city":          func(in *lifecycle.CreateInput) { in.City = "" },
		"in the past":      func(in *lifecycle.CreateInput) { in.Date = now.Add(-time.Hour) },
		"ends before":      func(in *lifecycle.CreateInput) { in.EndDate = in.Date },
		"bad age":          func(in *lifecycle.CreateInput) { in.Requirements.Age = "adults" },
		"inverted age":     func(in *lifecycle.CreateInput) { in.Requirements.Age = "30-18" },
		"unknown location": func(in *lifecycle.CreateInput) { in.Street = "Nowhere 0" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			_, err := svc.Create(context.Background(), "host", in)
			assert.ErrorIs(t, err, svcErr.ErrValidation)
		})
	}
}

func TestCreate_UnlimitedCapacity(t *testing.T) {
	svc, _ := setup(t)
	in := validInput()
	in.Capacity = db.Unlimited

	event, err := svc.Create(context.Background(), "host", in)
	require.NoError(t, err)
	assert.True(t, event.Unlimited())
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc, gdb := setup(t)

	event, err := svc.Create(ctx, "host", validInput())
	require.NoError(t, err)

	members := membership.NewService(gdb, repository.NewUserRepository(gdb, nil, 0), nil,
		func() time.Time { return now }, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err = members.Join(ctx, "u1", event.ID)
	require.NoError(t, err)
	rooms := repository.NewChatRepository(gdb)
	require.NoError(t, rooms.AppendMessage(ctx, &db.ChatMessage{EventID: event.ID, SenderID: "u1", Content: "hi"}))

	assert.ErrorIs(t, svc.Delete(ctx, "u1", event.ID), svcErr.ErrPermissionDenied)

	require.NoError(t, svc.Delete(ctx, "host", event.ID))
	_, err = repository.NewEventRepository(gdb).Get(ctx, event.ID)
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	joined, err := members.MyEvents(ctx, "u1", db.RelationJoined)
	require.NoError(t, err)
	assert.Empty(t, joined)

	msgs, _, err := rooms.ListMessages(ctx, event.ID, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	assert.ErrorIs(t, svc.Delete(ctx, "host", event.ID), svcErr.ErrNotFound)
}
