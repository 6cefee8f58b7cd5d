package maze

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/astarviz/grid"
)

// Sentinel errors for maze decoding and encoding.
var (
	// ErrEmptyMaze is returned when the input holds no non-blank line.
	ErrEmptyMaze = errors.New("maze: empty maze")

	// ErrMalformedMaze is returned for ragged rows or colliding endpoints.
	ErrMalformedMaze = errors.New("maze: malformed maze")

	// ErrIO wraps read, write and file system failures.
	ErrIO = errors.New("maze: i/o failure")
)

// Cell characters.
const (
	CharStart = 'S'
	CharEnd   = 'E'
	CharWall  = '#'
	CharEmpty = '.'
)

// Decode parses a maze from r.
// Complexity: O(R×C).
func Decode(r io.Reader) (*grid.Grid, error) {
	var (
		nr, nc     int
		start, end *grid.Position
		walls      []grid.Position
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for lineNo := 1; sc.Scan(); lineNo++ {
		cells := []rune(strings.TrimSpace(sc.Text()))
		if len(cells) == 0 {
			continue
		}
		if nr == 0 {
			nc = len(cells)
		} else if len(cells) != nc {
			return nil, fmt.Errorf("%w: line %d has %d cells, want %d", ErrMalformedMaze, lineNo, len(cells), nc)
		}
		if nr+1 > grid.MaxCells/nc {
			return nil, fmt.Errorf("%w: %w", ErrMalformedMaze, grid.ErrGridTooLarge)
		}
		for col, c := range cells {
			p := grid.Pos(nr, col)
			switch c {
			case CharStart:
				start = &p
			case CharEnd:
				end = &p
			case CharWall:
				walls = append(walls, p)
			}
		}
		nr++
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read: %w", ErrIO, err)
	}
	if nr == 0 {
		return nil, ErrEmptyMaze
	}

	s, e := grid.Pos(0, 0), grid.Pos(nr-1, nc-1)
	if start != nil {
		s = *start
	}
	if end != nil {
		e = *end
	}
	if s == e {
		return nil, fmt.Errorf("%w: start and end both at %v", ErrMalformedMaze, s)
	}

	g, err := grid.New(nr, nc, s, e)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMaze, err)
	}
	for _, p := range walls {
		// SetWall ignores endpoints, so an overwritten or defaulted
		// endpoint stays open.
		if err = g.SetWall(p, true); err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Encode writes g to w in the maze format.
func Encode(w io.Writer, g *grid.Grid) error {
	bw := bufio.NewWriter(w)
	line := make([]byte, g.Cols()+1)
	line[g.Cols()] = '\n'
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			line[c] = cellChar(g, grid.Pos(r, c))
		}
		if _, err := bw.Write(line); err != nil {
			return fmt.Errorf("%w: write: %w", ErrIO, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: write: %w", ErrIO, err)
	}

	return nil
}

func cellChar(g *grid.Grid, p grid.Position) byte {
	n, _ := g.Node(p)
	switch {
	case n.Role == grid.RoleStart:
		return CharStart
	case n.Role == grid.RoleEnd:
		return CharEnd
	case n.Wall:
		return CharWall
	}

	return CharEmpty
}

// Marshal returns the encoded form of g.
func Marshal(g *grid.Grid) string {
	var b strings.Builder
	_ = Encode(&b, g) // strings.Builder never fails

	return b.String()
}

// Unmarshal decodes s.
func Unmarshal(s string) (*grid.Grid, error) {
	return Decode(strings.NewReader(s))
}

// LoadFile decodes the maze stored at path.
func LoadFile(path string) (*grid.Grid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer f.Close()

	return Decode(f)
}

// SaveFile writes g to path through a temporary file in the same directory,
// so readers never observe a partial maze.
func SaveFile(path string, g *grid.Grid) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if err = Encode(tmp, g); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	return nil
}
