package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_MigratesAndServesPrefs(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Prefs.Set(ctx, "theme", []byte("dark")))
	v, err := s.Prefs.Get(ctx, "theme")
	require.NoError(t, err)
	require.Equal(t, []byte("dark"), v)
}

func TestOpen_ReopenKeepsValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "docvault.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Prefs.Set(ctx, "token", []byte("abc")))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.Prefs.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("abc"), v)
}
