package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/eventswipe/internal/cache"
	"github.com/oggyb/eventswipe/internal/geo"
	"github.com/oggyb/eventswipe/internal/testutil"
)

func TestPointRoundTrip_NormalizesAddress(t *testing.T) {
	ctx := context.Background()
	rc, mr := testutil.NewCache(t)

	p := geo.Point{Lat: 50.0647, Lng: 19.945}
	require.NoError(t, rc.SetPoint(ctx, "Rynek Główny 1,  Kraków", p, time.Hour))

	got, found, err := rc.GetPoint(ctx, "rynek główny 1, kraków")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, p, got)

	_, found, err = rc.GetPoint(ctx, "Warszawa")
	require.NoError(t, err)
	assert.False(t, found)

	mr.FastForward(2 * time.Hour)
	_, found, err = rc.GetPoint(ctx, "Rynek Główny 1, Kraków")
	require.NoError(t, err)
	assert.False(t, found, "expired")
}

func TestCards(t *testing.T) {
	ctx := context.Background()
	rc, mr := testutil.NewCache(t)

	cards := []cache.UserCard{
		{ID: "u1", Name: "Ola", ProfileImage: "a.png"},
		{ID: "u2", Name: "Jan"},
	}
	require.NoError(t, rc.SetCards(ctx, cards, time.Minute))
	require.NoError(t, rc.SetCards(ctx, nil, time.Minute))

	// corrupt entries are treated as misses
	require.NoError(t, mr.Set(rc.KeyForUserCard("u3"), "{not json"))

	got, err := rc.GetCards(ctx, []string{"u1", "u2", "u3", "u4"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, cards[0], got["u1"])

	require.NoError(t, rc.InvalidateCard(ctx, "u1"))
	got, err = rc.GetCards(ctx, []string{"u1"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUnreadCounter(t *testing.T) {
	ctx := context.Background()
	rc, mr := testutil.NewCache(t)

	_, found, err := rc.GetUnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, found)

	// decrementing a missing counter must not create it
	n, err := rc.DecrUnread(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), n)
	assert.False(t, mr.Exists(rc.KeyForUnreadCount("u1")))

	require.NoError(t, rc.SetUnreadCount(ctx, "u1", 3))
	n, err = rc.DecrUnread(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// never below zero
	n, err = rc.DecrUnread(ctx, "u1", 10)
	require.NoError(t, err)
	assert.Zero(t, n)

	mr.FastForward(30 * time.Minute)
	count, found, err := rc.GetUnreadCount(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Zero(t, count)
	assert.Equal(t, cache.UnreadTTL, mr.TTL(rc.KeyForUnreadCount("u1")), "TTL refreshed on read")
}

func TestIncrUnread_OnlyWhenCached(t *testing.T) {
	ctx := context.Background()
	rc, mr := testutil.NewCache(t)

	n, err := rc.IncrUnread(ctx, "u1", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), n)
	assert.False(t, mr.Exists(rc.KeyForUnreadCount("u1")))

	require.NoError(t, rc.SetUnreadCount(ctx, "u1", 0))
	n, err = rc.IncrUnread(ctx, "u1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
