package membership_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/membership"
	"github.com/oggyb/eventswipe/internal/repository"
	"github.com/oggyb/eventswipe/internal/testutil"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type note struct{ userID, title, content string }

type recordingNotifier struct {
	mu    sync.Mutex
	notes []note
}

func (r *recordingNotifier) Notify(_ context.Context, userID, title, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note{userID, title, content})
	return nil
}

type fixture struct {
	db       *gorm.DB
	svc      *membership.Service
	notifier *recordingNotifier
	clock    *testutil.Clock
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gdb := testutil.NewDB(t)
	for _, id := range []string{"host", "u1", "u2", "u3"} {
		testutil.CreateUser(t, gdb, db.User{ID: id, Name: "name-" + id, ProfileImage: id + ".png"})
	}
	clock := testutil.NewClock(now)
	n := &recordingNotifier{}
	svc := membership.NewService(
		gdb,
		repository.NewUserRepository(gdb, nil, 0),
		n,
		clock.Now,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &fixture{db: gdb, svc: svc, notifier: n, clock: clock}
}

func (f *fixture) event(t *testing.T, id string, capacity int) db.Event {
	return testutil.CreateEvent(t, f.db, db.Event{
		ID:        id,
		Name:      "Board games " + id,
		CreatorID: "host",
		Capacity:  capacity,
		Date:      now.Add(48 * time.Hour),
	})
}

func (f *fixture) reload(t *testing.T, id string) *db.Event {
	e, err := repository.NewEventRepository(f.db).Get(context.Background(), id)
	require.NoError(t, err)
	return e
}

func (f *fixture) kind(t *testing.T, userID, eventID string) string {
	k, err := repository.NewRelationRepository(f.db).Kind(context.Background(), userID, eventID)
	require.NoError(t, err)
	return k
}

func (f *fixture) roster(t *testing.T, eventID string) []string {
	members, err := repository.NewChatRepository(f.db).Members(context.Background(), eventID)
	require.NoError(t, err)
	var ids []string
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	return ids
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{"", db.RelationJoined, true},
		{"", db.RelationLiked, true},
		{"", db.RelationBanned, true},
		{db.RelationLiked, db.RelationJoined, true},
		{db.RelationLiked, db.RelationBanned, true},
		{db.RelationJoined, db.RelationBanned, true},
		{db.RelationJoined, db.RelationLiked, false},
		{db.RelationBanned, db.RelationJoined, false},
		{db.RelationBanned, db.RelationLiked, false},
		{db.RelationBanned, db.RelationBanned, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, membership.CanTransition(tc.from, tc.to), "%q → %q", tc.from, tc.to)
	}
}

func TestJoin(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.event(t, "e1", 5)

	res, err := f.svc.Join(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, "", res.From)

	e := f.reload(t, "e1")
	assert.Equal(t, 2, e.ParticipantCount)
	assert.Equal(t, []string{"host", "u1"}, e.ParticipantIDs())
	assert.Equal(t, db.RelationJoined, f.kind(t, "u1", "e1"))
	assert.Contains(t, f.roster(t, "e1"), "u1")

	// joining again is a no-op
	res, err = f.svc.Join(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 2, f.reload(t, "e1").ParticipantCount)
}

func TestLikeThenJoin(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.event(t, "e1", db.Unlimited)

	_, err := f.svc.Like(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, db.RelationLiked, f.kind(t, "u1", "e1"))
	assert.Equal(t, 1, f.reload(t, "e1").Liked)

	res, err := f.svc.Join(ctx, "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, db.RelationLiked, res.From)
	assert.Equal(t, db.RelationJoined, f.kind(t, "u1", "e1"), "moved out of liked")
}

func TestDislikeJoinedLeavesParticipantsAndChat(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.event(t, "e1", 3)

	_, err := f.svc.Join(ctx, "u1", "e1")
	require.NoError(t, err)

	_, err = f.svc.Dislike(ctx, "u1", "e1")
	require.NoError(t, err)

	e := f.reload(t, "e1")
	assert.Equal(t, 1, e.ParticipantCount)
	assert.Equal(t, []string{"host"}, e.ParticipantIDs())
	assert.Equal(t, 1, e.Disliked)
	assert.NotContains(t, f.roster(t, "e1"), "u1")
	assert.Equal(t, db.RelationBanned, f.kind(t, "u1", "e1"))
}

func TestLeave(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.event(t, "e1", 3)
	f.event(t, "e2", 3)

	_, err := f.svc.Join(ctx, "u1", "e1")
	require.NoError(t, err)
	_, err = f.svc.Leave(ctx, "u1", "e1")
	require.NoError(t, err)

	e := f.reload(t, "e1")
	assert.Equal(t, 1, e.ParticipantCount)
	assert.Zero(t, e.Disliked, "leaving is not a dislike")

	_, err = f.svc.Leave(ctx, "u1", "e2")
	assert.ErrorIs(t, err, svcErr.ErrInvalidTransition)
}

func TestInvalidTransitions(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.event(t, "e1", 5)
	f.event(t, "e2", 5)

	_, err := f.svc.Join(ctx, "u1", "e1")
	require.NoError(t, err)
	_, err = f.svc.Like(ctx, "u1", "e1")
	assert.ErrorIs(t, err, svcErr.ErrInvalidTransition)
	assert.ErrorIs(t, err, svcErr.ErrConflict)

	_, err = f.svc.Dislike(ctx, "u1", "e2")
	require.NoError(t, err)
	_, err = f.svc.Join(ctx, "u1", "e2")
	assert.ErrorIs(t, err, svcErr.ErrInvalidTransition)
	assert.Equal(t, 1, f.reload(t, "e2").ParticipantCount, "rejected join changes nothing")
}

func TestJoinRejections(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.event(t, "e1", 5)

	_, err := f.svc.Join(ctx, "host", "e1")
	assert.ErrorIs(t, err, svcErr.ErrValidation, "own event")

	_, err = f.svc.Join(ctx, "u1", "missing")
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	f.clock.Advance(49 * time.Hour)
	_, err = f.svc.Join(ctx, "u1", "e1")
	assert.ErrorIs(t, err, svcErr.ErrValidation, "already started")
}

func TestJoinRace_SerializedReplay(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.event(t, "e1", 2) // host holds one of two seats

	_, err := f.svc.Join(ctx, "u1", "e1")
	require.NoError(t, err)

	res, err := f.svc.Join(ctx, "u2", "e1")
	require.ErrorIs(t, err, svcErr.ErrEventFull)
	require.NotNil(t, res)
	assert.True(t, res.Full)
	assert.Equal(t, "Board games e1", res.EventName)

	assert.Empty(t, f.kind(t, "u2", "e1"), "loser is neither joined nor banned")
	require.Len(t, f.notifier.notes, 1)
	assert.Equal(t, "u2", f.notifier.notes[0].userID)
	assert.Equal(t, "Event full", f.notifier.notes[0].title)
	assert.Contains(t, f.notifier.notes[0].content, "Board games e1")
}

func TestJoinRace_Concurrent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.event(t, "e1", 2)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, uid := range []string{"u1", "u2"} {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			_, errs[i] = f.svc.Join(ctx, uid, "e1")
		}(i, uid)
	}
	wg.Wait()

	var ok, full int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, svcErr.ErrEventFull):
			full++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, full)

	e := f.reload(t, "e1")
	assert.Equal(t, 2, e.ParticipantCount)
	assert.Len(t, e.ParticipantIDs(), 2)
	assert.Len(t, f.notifier.notes, 1)
}

func TestMyEvents(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.event(t, "e1", 5)
	f.event(t, "e2", 5)

	_, err := f.svc.Join(ctx, "u1", "e1")
	require.NoError(t, err)
	_, err = f.svc.Like(ctx, "u1", "e2")
	require.NoError(t, err)

	joined, err := f.svc.MyEvents(ctx, "u1", db.RelationJoined)
	require.NoError(t, err)
	require.Len(t, joined, 1)
	assert.Equal(t, "e1", joined[0].ID)

	created, err := f.svc.MyEvents(ctx, "host", membership.KindCreated)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	_, err = f.svc.MyEvents(ctx, "u1", db.RelationBanned)
	assert.ErrorIs(t, err, svcErr.ErrValidation)
}
