package maze_test

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/maze"
)

//-----------------------------------------------------------------------------//
// Decode
//-----------------------------------------------------------------------------//

// TestDecode_Basic reads markers, walls and dimensions.
func TestDecode_Basic(t *testing.T) {
	g, err := maze.Unmarshal("S.#\n.#.\n..E\n")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, grid.Pos(0, 0), g.Start())
	assert.Equal(t, grid.Pos(2, 2), g.End())
	assert.Equal(t, []grid.Position{grid.Pos(0, 2), grid.Pos(1, 1)}, g.Walls())
}

// TestDecode_TrimAndBlankLines skips blank lines and surrounding spaces.
func TestDecode_TrimAndBlankLines(t *testing.T) {
	g, err := maze.Unmarshal("\n  ..E  \n\n\t S#.\n   \n")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, grid.Pos(1, 0), g.Start())
	assert.Equal(t, grid.Pos(0, 2), g.End())
	assert.True(t, g.IsWall(grid.Pos(1, 1)))
}

// TestDecode_Defaults places missing markers in opposite corners and never
// leaves a wall under them.
func TestDecode_Defaults(t *testing.T) {
	g, err := maze.Unmarshal("#..\n...\n..#\n")
	require.NoError(t, err)
	assert.Equal(t, grid.Pos(0, 0), g.Start())
	assert.Equal(t, grid.Pos(2, 2), g.End())
	assert.False(t, g.IsWall(g.Start()))
	assert.False(t, g.IsWall(g.End()))
	assert.Empty(t, g.Walls())
}

// TestDecode_LastMarkerWins keeps the final S and E.
func TestDecode_LastMarkerWins(t *testing.T) {
	g, err := maze.Unmarshal("S.E\nS.E\n")
	require.NoError(t, err)
	assert.Equal(t, grid.Pos(1, 0), g.Start())
	assert.Equal(t, grid.Pos(1, 2), g.End())

	n, _ := g.Node(grid.Pos(0, 0))
	assert.Equal(t, grid.RoleNone, n.Role)
}

// TestDecode_Errors covers every rejected input.
func TestDecode_Errors(t *testing.T) {
	cases := []struct {
		name, in string
		want     error
	}{
		{"empty", "", maze.ErrEmptyMaze},
		{"blank only", "\n   \n\t\n", maze.ErrEmptyMaze},
		{"ragged", "S..\n..\n..E\n", maze.ErrMalformedMaze},
		{"single cell", ".\n", maze.ErrMalformedMaze},
		{"start on default end", "..\n.S\n", maze.ErrMalformedMaze},
		{"end on default start", "E.\n..\n", maze.ErrMalformedMaze},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := maze.Unmarshal(tc.in)
			require.ErrorIs(t, err, tc.want)
			assert.Nil(t, g)
		})
	}
}

// TestDecode_RaggedLineNumber reports the physical line of the bad row.
func TestDecode_RaggedLineNumber(t *testing.T) {
	_, err := maze.Unmarshal("S..\n\n...\n....\n")
	require.ErrorIs(t, err, maze.ErrMalformedMaze)
	assert.Contains(t, err.Error(), "line 4")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

// TestDecode_Multibyte counts characters, not bytes, so any non-marker rune
// is an open cell.
func TestDecode_Multibyte(t *testing.T) {
	g, err := maze.Unmarshal("S··\n··E\n")
	require.NoError(t, err)
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, grid.Pos(1, 2), g.End())
	assert.Empty(t, g.Walls())

	g, err = maze.Unmarshal("S·.\n...\n.#E\n")
	require.NoError(t, err)
	assert.Equal(t, 3, g.Cols())
	assert.Equal(t, []grid.Position{grid.Pos(2, 1)}, g.Walls())

	_, err = maze.Unmarshal("S··\n....\n")
	require.ErrorIs(t, err, maze.ErrMalformedMaze)
	assert.Contains(t, err.Error(), "has 4 cells, want 3")
}

// TestDecode_TooLarge stops at the grid cell limit.
func TestDecode_TooLarge(t *testing.T) {
	row := strings.Repeat(".", grid.MaxCells/2+1) + "\n"
	_, err := maze.Unmarshal(row + row + row)
	require.ErrorIs(t, err, maze.ErrMalformedMaze)
	assert.ErrorIs(t, err, grid.ErrGridTooLarge)
}

// TestCodec_IOErrors wraps reader and writer failures.
func TestCodec_IOErrors(t *testing.T) {
	_, err := maze.Decode(failingReader{})
	require.ErrorIs(t, err, maze.ErrIO)

	g, err := grid.New(2, 2, grid.Pos(0, 0), grid.Pos(1, 1))
	require.NoError(t, err)
	require.ErrorIs(t, maze.Encode(failingWriter{}, g), maze.ErrIO)
}

//-----------------------------------------------------------------------------//
// Encode and round trip
//-----------------------------------------------------------------------------//

// TestEncode_Format writes one newline-terminated line per row.
func TestEncode_Format(t *testing.T) {
	g, err := grid.New(2, 4, grid.Pos(0, 3), grid.Pos(1, 0))
	require.NoError(t, err)
	require.NoError(t, g.SetWall(grid.Pos(0, 1), true))
	assert.Equal(t, ".#.S\nE...\n", maze.Marshal(g))
}

// TestRoundTrip reproduces walls and endpoints of random grids.
func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		rows, cols := 2+rng.Intn(20), 2+rng.Intn(20)
		g, err := grid.New(rows, cols, grid.Pos(rng.Intn(rows), 0), grid.Pos(rng.Intn(rows), cols-1))
		require.NoError(t, err)
		require.NoError(t, g.RandomizeWalls(rng.Float64(), rng))

		back, err := maze.Unmarshal(maze.Marshal(g))
		require.NoError(t, err)
		assert.Equal(t, g.Rows(), back.Rows())
		assert.Equal(t, g.Cols(), back.Cols())
		assert.Equal(t, g.Start(), back.Start())
		assert.Equal(t, g.End(), back.End())
		assert.Equal(t, g.Walls(), back.Walls())
	}
}

//-----------------------------------------------------------------------------//
// Files
//-----------------------------------------------------------------------------//

// TestFiles saves, reloads and leaves no temp files behind.
func TestFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "level.txt")

	g, err := maze.Unmarshal("S#.\n...\n#.E\n")
	require.NoError(t, err)
	require.NoError(t, maze.SaveFile(path, g))

	back, err := maze.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, maze.Marshal(g), maze.Marshal(back))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = maze.LoadFile(filepath.Join(dir, "missing.txt"))
	require.ErrorIs(t, err, maze.ErrIO)

	err = maze.SaveFile(filepath.Join(dir, "no", "such", "dir.txt"), g)
	require.ErrorIs(t, err, maze.ErrIO)
}

// TestLoadFile_Malformed returns no grid for a bad file.
func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.txt")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("..\n", 2)+"...\n"), 0o644))

	g, err := maze.LoadFile(path)
	require.ErrorIs(t, err, maze.ErrMalformedMaze)
	assert.Nil(t, g)
}
