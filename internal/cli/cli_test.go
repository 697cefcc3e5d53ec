package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/eventswipe/internal/api"
	"github.com/oggyb/eventswipe/internal/app"
	"github.com/oggyb/eventswipe/internal/auth"
	"github.com/oggyb/eventswipe/internal/cli"
	"github.com/oggyb/eventswipe/internal/config"
	"github.com/oggyb/eventswipe/internal/db"
	"github.com/oggyb/eventswipe/internal/server"
	"github.com/oggyb/eventswipe/internal/service/explore"
	"github.com/oggyb/eventswipe/internal/service/inbox"
	"github.com/oggyb/eventswipe/internal/testutil"
)

const secret = "cli-test-secret"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// startServer serves the feed and inbox APIs on a loopback port.
func startServer(t *testing.T) (string, *gorm.DB) {
	t.Helper()
	gdb := testutil.NewDB(t)
	rc, _ := testutil.NewCache(t)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(config.New(), gdb, rc, log)

	srv := server.New(auth.New(secret, time.Hour), log, explore.NewRegistrar(appCtx), inbox.NewRegistrar(appCtx))
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return lis.Addr().String(), gdb
}

func token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := auth.New(secret, time.Hour).IssueToken(userID)
	require.NoError(t, err)
	return tok
}

func TestCommandPresence(t *testing.T) {
	cmd := cli.NewRootCommand()
	for _, name := range []string{"feed", "join", "like", "dislike", "leave", "inbox", "token", "seed"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, "--format", "yaml", "token", "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", secret)

	out, err := run(t, "token", "u1")
	require.NoError(t, err)

	sub, err := auth.New(secret, time.Hour).Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "u1", sub)
}

func TestFeedAndJoin(t *testing.T) {
	addr, gdb := startServer(t)
	testutil.CreateUser(t, gdb, db.User{ID: "host", Name: "Host"})
	testutil.CreateUser(t, gdb, db.User{
		ID: "me", Name: "Me",
		Lat: testutil.Float(testutil.KrakowLat), Lng: testutil.Float(testutil.KrakowLng),
	})
	testutil.CreateEvent(t, gdb, db.Event{
		ID: "e1", Name: "Chess", CreatorID: "host", Capacity: 4,
		Date: time.Now().Add(72 * time.Hour),
	})

	base := []string{"--addr", addr, "--token", token(t, "me")}

	out, err := run(t, append(base, "--format", "json", "feed")...)
	require.NoError(t, err)
	var feed api.FetchFeedResponse
	require.NoError(t, json.Unmarshal([]byte(out), &feed))
	require.Len(t, feed.Events, 1)
	assert.Equal(t, "Chess", feed.Events[0].Event.Name)

	out, err = run(t, append(base, "join", "e1")...)
	require.NoError(t, err)
	assert.Equal(t, "Chess: joined\n", out)

	out, err = run(t, append(base, "feed")...)
	require.NoError(t, err)
	assert.Contains(t, out, "No more events.")

	out, err = run(t, append(base, "inbox", "count")...)
	require.NoError(t, err)
	assert.Equal(t, "0 unread\n", out)
}

func TestMissingToken(t *testing.T) {
	t.Setenv("EVENTSWIPE_TOKEN", "")
	_, err := run(t, "feed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no token")
}
