// Package testutil provides in-memory stores, a settable clock and fixture
// builders shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/oggyb/eventswipe/internal/cache"
	"github.com/oggyb/eventswipe/internal/db"
)

// NewDB opens a migrated in-memory sqlite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Second) },
		Logger:  gormlogger.Discard,
	})
	require.NoError(t, err, "open sqlite")

	sqlDB, err := database.DB()
	require.NoError(t, err)
	// one connection keeps the shared in-memory db alive and serializes writers
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Migrate(database), "migrate")
	return database
}

// NewCache starts a miniredis server and returns a cache bound to it.
func NewCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &cache.RedisCache{Client: client}, mr
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now.UTC()}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// Int returns a pointer to i.
func Int(i int) *int { return &i }

// Time returns a pointer to t.
func Time(t time.Time) *time.Time { return &t }

// Krakow is the fixture origin used across tests.
var (
	KrakowLat = 50.0647
	KrakowLng = 19.9450
)

// CreateUser inserts u, filling an id and a name when unset.
func CreateUser(t *testing.T, gdb *gorm.DB, u db.User) db.User {
	t.Helper()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Name == "" {
		u.Name = "user-" + u.ID[:6]
	}
	require.NoError(t, gdb.WithContext(context.Background()).Create(&u).Error)
	return u
}

// CreateEvent inserts e with sensible defaults and, when the creator is set,
// seeds the creator as first participant the way event creation does.
func CreateEvent(t *testing.T, gdb *gorm.DB, e db.Event) db.Event {
	t.Helper()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Name == "" {
		e.Name = "event-" + e.ID[:6]
	}
	if e.Capacity == 0 {
		e.Capacity = db.Unlimited
	}
	if e.EndDate.IsZero() {
		e.EndDate = e.Date.Add(2 * time.Hour)
	}
	if e.Lat == nil && e.Lng == nil {
		e.Lat, e.Lng = Float(KrakowLat), Float(KrakowLng)
	}
	e.Date = e.Date.UTC().Truncate(time.Second)
	e.EndDate = e.EndDate.UTC().Truncate(time.Second)

	participants := e.Participants
	e.Participants = nil
	if len(participants) == 0 && e.CreatorID != "" {
		participants = []db.EventParticipant{{UserID: e.CreatorID}}
	}
	e.ParticipantCount = len(participants)

	require.NoError(t, gdb.Create(&e).Error)
	for i := range participants {
		participants[i].EventID = e.ID
		require.NoError(t, gdb.Create(&participants[i]).Error)
	}
	e.Participants = participants
	return e
}
