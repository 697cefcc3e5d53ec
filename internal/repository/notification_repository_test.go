package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/eventswipe/internal/db"
	svcErr "github.com/oggyb/eventswipe/internal/errors"
	"github.com/oggyb/eventswipe/internal/repository"
	"github.com/oggyb/eventswipe/internal/testutil"
)

func seedNotifications(t *testing.T, repo *repository.NotificationRepository, userID string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Create(context.Background(), &db.Notification{
			ID:        fmt.Sprintf("%s-n%02d", userID, i),
			UserID:    userID,
			Title:     "Reminder",
			Content:   fmt.Sprintf("event %d starts soon", i),
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestNotificationList_NewestFirstWithCursor(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewNotificationRepository(testutil.NewDB(t))
	seedNotifications(t, repo, "u1", 5)
	seedNotifications(t, repo, "u2", 2)

	page, next, err := repo.List(ctx, "u1", nil, 3, false)
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Len(t, page, 3)
	assert.Equal(t, "u1-n04", page[0].ID)
	assert.Equal(t, "u1-n02", page[2].ID)

	page, next, err = repo.List(ctx, "u1", next, 3, false)
	require.NoError(t, err)
	assert.Nil(t, next)
	require.Len(t, page, 2)
	assert.Equal(t, "u1-n01", page[0].ID)
	assert.Equal(t, "u1-n00", page[1].ID)
}

func TestNotificationMarkRead(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewNotificationRepository(testutil.NewDB(t))
	seedNotifications(t, repo, "u1", 2)

	changed, err := repo.MarkRead(ctx, "u1", "u1-n00")
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = repo.MarkRead(ctx, "u1", "u1-n00")
	require.NoError(t, err)
	assert.False(t, changed, "already read")

	_, err = repo.MarkRead(ctx, "u2", "u1-n01")
	assert.ErrorIs(t, err, svcErr.ErrPermissionDenied)

	_, err = repo.MarkRead(ctx, "u1", "missing")
	assert.ErrorIs(t, err, svcErr.ErrNotFound)

	unread, err := repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	page, _, err := repo.List(ctx, "u1", nil, 10, true)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "u1-n01", page[0].ID)
}

func TestNotificationMarkAllRead(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewNotificationRepository(testutil.NewDB(t))
	seedNotifications(t, repo, "u1", 4)
	seedNotifications(t, repo, "u2", 1)

	_, err := repo.MarkRead(ctx, "u1", "u1-n00")
	require.NoError(t, err)

	changed, err := repo.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), changed)

	changed, err = repo.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, changed)

	other, err := repo.CountUnread(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "other users untouched")
}

func TestNotificationList_SubSecondTimestamps(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	repo := repository.NewNotificationRepository(gdb)

	// rows written directly keep their fractional created_at
	for i := 0; i < 4; i++ {
		require.NoError(t, gdb.Create(&db.Notification{
			ID:        fmt.Sprintf("n%d", i),
			UserID:    "u1",
			Title:     "Event full",
			CreatedAt: now.Add(time.Duration(i) * 200 * time.Millisecond),
		}).Error)
	}

	var seen []string
	var token *string
	for pages := 0; pages < 5; pages++ {
		page, next, err := repo.List(ctx, "u1", token, 2, false)
		require.NoError(t, err)
		for _, n := range page {
			seen = append(seen, n.ID)
		}
		if next == nil {
			break
		}
		token = next
	}
	assert.Equal(t, []string{"n3", "n2", "n1", "n0"}, seen)
}
