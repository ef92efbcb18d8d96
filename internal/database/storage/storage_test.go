package storage

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PhotoSearch/internal/config"
	"github.com/GoArmGo/PhotoSearch/internal/database/client"
	"github.com/GoArmGo/PhotoSearch/internal/domain"
)

// testClient подключается к TEST_DATABASE_URL; без него тесты пропускаются
func testClient(t *testing.T) *client.Client {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := client.NewClient(&config.Config{
		DatabaseURL:    dsn,
		MigrationsPath: "file://../migrations",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPreferenceStorage(t *testing.T) {
	c := testClient(t)
	s := NewPreferenceStorage(c.DB, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	_, ok, err := s.GetPreference(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetPreference(ctx, key, "cats"))
	require.NoError(t, s.SetPreference(ctx, key, "dogs"))

	value, ok, err := s.GetPreference(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dogs", value)

	require.NoError(t, s.RemovePreference(ctx, key))
	_, ok, err = s.GetPreference(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDownloadStorage(t *testing.T) {
	c := testClient(t)
	s := NewDownloadStorage(c.DB, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	photoID := "photo-" + uuid.NewString()
	d := &domain.Download{PhotoID: photoID, AuthorName: "Jane", ViewURL: "https://unsplash.com/photos/x", Tracked: true}
	require.NoError(t, s.SaveDownload(ctx, d))
	assert.NotEqual(t, uuid.Nil, d.ID)
	assert.False(t, d.CreatedAt.IsZero())

	recent, err := s.ListRecentDownloads(ctx, 1, 50)
	require.NoError(t, err)

	var found bool
	for _, r := range recent {
		if r.PhotoID == photoID {
			found = true
			assert.Equal(t, "Jane", r.AuthorName)
			assert.True(t, r.Tracked)
		}
	}
	assert.True(t, found)
}

func TestDownloadStorage_RejectsInvalidPagination(t *testing.T) {
	s := NewDownloadStorage(nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	_, err := s.ListRecentDownloads(ctx, math.MaxInt, 100)
	assert.Error(t, err)

	_, err = s.ListRecentDownloads(ctx, 0, 10)
	assert.Error(t, err)

	_, err = s.ListRecentDownloads(ctx, 1, 0)
	assert.Error(t, err)
}
