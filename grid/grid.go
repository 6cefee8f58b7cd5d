package grid

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"
)

// neighborOffsets is the fixed 4-connected expansion order: +row, −row, +col, −col.
// Event ordering of a run depends on it.
var neighborOffsets = [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// Grid is a fixed-size R×C arena of Nodes with exactly one Start and one End.
// Structural mutators refuse to run while a Lease is outstanding.
type Grid struct {
	rows, cols int
	nodes      []Node
	start, end Position
	held       atomic.Bool
}

// New constructs a rows×cols Grid with every cell empty and non-wall,
// except the role-tagged start and end cells.
// Returns ErrEmptyGrid, ErrGridTooLarge (more than MaxCells cells),
// ErrOutOfBounds or ErrSameEndpoints for invalid input.
// Complexity: O(R×C) time and memory.
func New(rows, cols int, start, end Position) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, ErrEmptyGrid
	}
	if rows > MaxCells/cols {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrGridTooLarge, rows, cols, MaxCells)
	}
	g := &Grid{rows: rows, cols: cols}
	if !g.InBounds(start) {
		return nil, fmt.Errorf("%w: start %v in %dx%d grid", ErrOutOfBounds, start, rows, cols)
	}
	if !g.InBounds(end) {
		return nil, fmt.Errorf("%w: end %v in %dx%d grid", ErrOutOfBounds, end, rows, cols)
	}
	if start == end {
		return nil, fmt.Errorf("%w: %v", ErrSameEndpoints, start)
	}

	g.nodes = make([]Node, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			n := &g.nodes[r*cols+c]
			n.Row, n.Col = r, c
			n.resetSearch()
		}
	}
	g.start, g.end = start, end
	g.nodes[g.index(start)].Role = RoleStart
	g.nodes[g.index(end)].Role = RoleEnd

	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Len returns Rows×Cols, the size of the node arena.
func (g *Grid) Len() int { return len(g.nodes) }

// Start returns the coordinates of the Start cell.
func (g *Grid) Start() Position { return g.start }

// End returns the coordinates of the End cell.
func (g *Grid) End() Position { return g.end }

// InBounds reports whether p lies within the grid boundaries.
// Complexity: O(1).
func (g *Grid) InBounds(p Position) bool {
	return p.Row >= 0 && p.Row < g.rows && p.Col >= 0 && p.Col < g.cols
}

// index maps p to its row-major arena index. p must be in bounds.
func (g *Grid) index(p Position) int {
	return p.Row*g.cols + p.Col
}

// Index returns the arena index of p, or -1 if p is out of bounds.
func (g *Grid) Index(p Position) int {
	if !g.InBounds(p) {
		return -1
	}
	return g.index(p)
}

// Position converts an arena index back to coordinates.
// Complexity: O(1).
func (g *Grid) Position(idx int) Position {
	return Position{Row: idx / g.cols, Col: idx % g.cols}
}

// Node returns the node at p and whether p is in bounds.
// The returned pointer aliases the arena; callers must respect the run lease.
func (g *Grid) Node(p Position) (*Node, bool) {
	if !g.InBounds(p) {
		return nil, false
	}
	return &g.nodes[g.index(p)], true
}

// NodeAt returns the node at arena index idx. It panics if idx is out of range.
func (g *Grid) NodeAt(idx int) *Node { return &g.nodes[idx] }

// IsWall reports whether p is an in-bounds wall.
func (g *Grid) IsWall(p Position) bool {
	n, ok := g.Node(p)
	return ok && n.Wall
}

// Busy reports whether a run currently holds the grid.
func (g *Grid) Busy() bool { return g.held.Load() }

// Neighbors returns the up-to-4 orthogonally adjacent, in-bounds, non-wall
// cells of p in the fixed order +row, −row, +col, −col.
// Complexity: O(1).
func (g *Grid) Neighbors(p Position) []Position {
	out := make([]Position, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		q := Position{Row: p.Row + d[0], Col: p.Col + d[1]}
		if !g.InBounds(q) || g.nodes[g.index(q)].Wall {
			continue
		}
		out = append(out, q)
	}

	return out
}

// SetWall sets the wall flag of p. It is a no-op on Start and End and never
// touches search state.
// Returns ErrOutOfBounds for an invalid p and ErrGridBusy during a run.
func (g *Grid) SetWall(p Position, wall bool) error {
	if g.Busy() {
		return ErrGridBusy
	}
	n, ok := g.Node(p)
	if !ok {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	if n.Role != RoleNone {
		return nil
	}
	n.Wall = wall

	return nil
}

// RandomizeWalls resets search state, then independently turns every
// non-Start/End cell into a wall with probability density and clears it
// otherwise. Determinism is entirely up to rng.
// Returns ErrBadDensity for density outside [0,1] and ErrGridBusy during a run.
// Complexity: O(R×C).
func (g *Grid) RandomizeWalls(density float64, rng *rand.Rand) error {
	if g.Busy() {
		return ErrGridBusy
	}
	if density < 0 || density > 1 || math.IsNaN(density) {
		return fmt.Errorf("%w: %v", ErrBadDensity, density)
	}
	for i := range g.nodes {
		n := &g.nodes[i]
		n.resetSearch()
		if n.Role != RoleNone {
			continue
		}
		n.Wall = rng.Float64() < density
	}

	return nil
}

// ClearWalls removes every wall and resets search state.
// Returns ErrGridBusy during a run.
func (g *Grid) ClearWalls() error {
	if g.Busy() {
		return ErrGridBusy
	}
	for i := range g.nodes {
		g.nodes[i].Wall = false
		g.nodes[i].resetSearch()
	}

	return nil
}

// ResetSearchState sets G=+Inf, H=0 and Parent=NoParent on every node and
// returns Open/Closed/Path visuals to Empty. Walls and roles are untouched,
// so repeated calls are idempotent.
// Returns ErrGridBusy during a run.
func (g *Grid) ResetSearchState() error {
	if g.Busy() {
		return ErrGridBusy
	}
	g.resetSearchState()

	return nil
}

func (g *Grid) resetSearchState() {
	for i := range g.nodes {
		g.nodes[i].resetSearch()
	}
}

// SetStart moves the Start role to p, clearing any wall there.
// Returns ErrOutOfBounds, ErrSameEndpoints (p is End) or ErrGridBusy.
func (g *Grid) SetStart(p Position) error {
	return g.moveRole(RoleStart, p)
}

// SetEnd moves the End role to p, clearing any wall there.
// Returns ErrOutOfBounds, ErrSameEndpoints (p is Start) or ErrGridBusy.
func (g *Grid) SetEnd(p Position) error {
	return g.moveRole(RoleEnd, p)
}

func (g *Grid) moveRole(role Role, p Position) error {
	if g.Busy() {
		return ErrGridBusy
	}
	if !g.InBounds(p) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, p)
	}
	cur, other := &g.start, g.end
	if role == RoleEnd {
		cur, other = &g.end, g.start
	}
	if p == other {
		return fmt.Errorf("%w: %v", ErrSameEndpoints, p)
	}

	g.nodes[g.index(*cur)].Role = RoleNone
	n := &g.nodes[g.index(p)]
	n.Role = role
	n.Wall = false
	*cur = p

	return nil
}

// Clone returns a deep copy of the grid, including search state.
// The copy is never leased, whatever the state of g.
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, start: g.start, end: g.end}
	c.nodes = make([]Node, len(g.nodes))
	copy(c.nodes, g.nodes)

	return c
}

// Walls returns the positions of all walls in row-major order.
func (g *Grid) Walls() []Position {
	var out []Position
	for i := range g.nodes {
		if g.nodes[i].Wall {
			out = append(out, g.Position(i))
		}
	}

	return out
}
