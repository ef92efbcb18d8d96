package postgres

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PhotoSearch/internal/config"
	"github.com/GoArmGo/PhotoSearch/internal/database/client"
)

func TestGormPreferenceStorage(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL не задан")
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := client.NewClient(&config.Config{DatabaseURL: dsn, MigrationsPath: "file://../migrations"}, logger)
	require.NoError(t, err)
	defer c.Close()

	gdb, err := NewGormDB(c.DB)
	require.NoError(t, err)

	s := NewGormPreferenceStorage(gdb, logger)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	_, ok, err := s.GetPreference(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetPreference(ctx, key, "first"))
	require.NoError(t, s.SetPreference(ctx, key, "second"))

	value, ok, err := s.GetPreference(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", value)

	require.NoError(t, s.RemovePreference(ctx, key))
	_, ok, err = s.GetPreference(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPreferenceTableName(t *testing.T) {
	assert.Equal(t, "preferences", Preference{}.TableName())
}
