package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPreferenceStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewPreferenceStorage()

	_, ok, err := s.GetPreference(ctx, "lastSearchQuery")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.SetPreference(ctx, "lastSearchQuery", "nature"))
	require.NoError(t, s.SetPreference(ctx, "lastSearchQuery", "cats"))

	v, ok, err := s.GetPreference(ctx, "lastSearchQuery")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "cats", v)

	require.NoError(t, s.RemovePreference(ctx, "lastSearchQuery"))
	require.NoError(t, s.RemovePreference(ctx, "missing"))

	_, ok, err = s.GetPreference(ctx, "lastSearchQuery")
	require.NoError(t, err)
	require.False(t, ok)
}
