package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.GetItem(ctx, "brightpath_applications")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(ctx, "brightpath_applications", `[{"id":"1"}]`))
	v, ok, err := s.GetItem(ctx, "brightpath_applications")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"1"}]`, v)

	require.NoError(t, s.SetItem(ctx, "brightpath_applications", `[]`))
	v, _, _ = s.GetItem(ctx, "brightpath_applications")
	assert.Equal(t, `[]`, v)

	require.NoError(t, s.RemoveItem(ctx, "brightpath_applications"))
	_, ok, err = s.GetItem(ctx, "brightpath_applications")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.RemoveItem(ctx, "never-set"))
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)
	exercise(t, f)

	t.Run("keys are escaped into file names", func(t *testing.T) {
		require.NoError(t, f.SetItem(context.Background(), "a/b", "x"))
		_, err := os.Stat(filepath.Join(dir, "a%2Fb.json"))
		assert.NoError(t, err)
	})
}

func TestOpen(t *testing.T) {
	s, err := Open(context.Background(), Options{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = Open(context.Background(), Options{Driver: "file", Dir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &File{}, s)

	_, err = Open(context.Background(), Options{Driver: "floppy"})
	assert.EqualError(t, err, `unknown storage driver "floppy"`)
}
