package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/maze"
	"github.com/katalvlaran/astarviz/store"
)

// TestValidateName accepts key-safe names only.
func TestValidateName(t *testing.T) {
	for _, ok := range []string{"a", "level-1", "Big_Maze_02"} {
		assert.NoError(t, store.ValidateName(ok), ok)
	}
	for _, bad := range []string{"", "../etc", "a b", "x.txt", strings.Repeat("a", 65)} {
		assert.ErrorIs(t, store.ValidateName(bad), store.ErrInvalidName, bad)
	}
}

// TestFileStore_Lifecycle saves, lists, loads and deletes mazes.
func TestFileStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "mazes")
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)

	g, err := maze.Unmarshal("S.#\n#..\n..E\n")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "beta", g))
	require.NoError(t, s.Save(ctx, "alpha", g))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta"}, names)

	back, err := s.Load(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, maze.Marshal(g), maze.Marshal(back))

	require.NoError(t, s.Delete(ctx, "alpha"))
	_, err = s.Load(ctx, "alpha")
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, "alpha"), store.ErrNotFound)
}

// TestFileStore_Invalid rejects bad names and surfaces decode errors.
func TestFileStore_Invalid(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := store.NewFileStore(dir)
	require.NoError(t, err)

	g, err := grid.New(2, 2, grid.Pos(0, 0), grid.Pos(1, 1))
	require.NoError(t, err)
	require.ErrorIs(t, s.Save(ctx, "../up", g), store.ErrInvalidName)
	_, err = s.Load(ctx, "a/b")
	require.ErrorIs(t, err, store.ErrInvalidName)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("..\n...\n"), 0o644))
	_, err = s.Load(ctx, "bad")
	require.ErrorIs(t, err, maze.ErrMalformedMaze)
}

// TestRedisStore_ValidatesFirst never reaches the server for a bad name.
func TestRedisStore_ValidatesFirst(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()
	s := store.NewRedisStore(client, "", 0)

	g, err := grid.New(2, 2, grid.Pos(0, 0), grid.Pos(1, 1))
	require.NoError(t, err)
	ctx := context.Background()
	require.ErrorIs(t, s.Save(ctx, "no spaces", g), store.ErrInvalidName)
	_, err = s.Load(ctx, "")
	require.ErrorIs(t, err, store.ErrInvalidName)
	require.ErrorIs(t, s.Delete(ctx, "x.y"), store.ErrInvalidName)
}
