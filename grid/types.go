package grid

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for grid operations.
var (
	// ErrEmptyGrid indicates a grid with no rows or no columns was requested.
	ErrEmptyGrid = errors.New("grid: grid must have at least one row and one column")
	// ErrOutOfBounds indicates a coordinate outside [0,Rows)×[0,Cols).
	ErrOutOfBounds = errors.New("grid: position out of bounds")
	// ErrSameEndpoints indicates Start and End were placed on the same cell.
	ErrSameEndpoints = errors.New("grid: start and end must be different cells")
	// ErrBadDensity indicates a wall density outside [0,1].
	ErrBadDensity = errors.New("grid: wall density must be within [0,1]")
	// ErrGridTooLarge indicates a grid with more than MaxCells cells was requested.
	ErrGridTooLarge = errors.New("grid: grid is too large")
	// ErrGridBusy indicates a structural mutation while a search run holds the grid.
	ErrGridBusy = errors.New("grid: grid is held by a running search")
)

// MaxCells bounds Rows×Cols (a 2048×2048 grid).
const MaxCells = 1 << 22

// NoParent marks a Node without a predecessor.
const NoParent = -1

// Position addresses a cell by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Pos is shorthand for Position{Row: row, Col: col}.
func Pos(row, col int) Position { return Position{Row: row, Col: col} }

// String formats the position as "(row,col)".
func (p Position) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Manhattan returns |Δrow| + |Δcol| between p and q.
func Manhattan(p, q Position) int {
	dr := p.Row - q.Row
	if dr < 0 {
		dr = -dr
	}
	dc := p.Col - q.Col
	if dc < 0 {
		dc = -dc
	}

	return dr + dc
}

// Role tags the two distinguished cells of a Grid.
type Role uint8

const (
	// RoleNone is an ordinary cell.
	RoleNone Role = iota
	// RoleStart is the unique search origin.
	RoleStart
	// RoleEnd is the unique search goal.
	RoleEnd
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleStart:
		return "start"
	case RoleEnd:
		return "end"
	}

	return fmt.Sprintf("role(%d)", uint8(r))
}

// VisualState is the presentation-only state of a cell. It is independent of
// Role and Wall and is reset freely between runs.
type VisualState uint8

const (
	// VisualEmpty is the resting state.
	VisualEmpty VisualState = iota
	// VisualOpen marks a discovered, not yet expanded cell.
	VisualOpen
	// VisualClosed marks an expanded cell.
	VisualClosed
	// VisualPath marks a cell on the reconstructed shortest path.
	VisualPath
)

// String implements fmt.Stringer. The names double as wire keys in event
// payloads and palette lookups.
func (v VisualState) String() string {
	switch v {
	case VisualEmpty:
		return "empty"
	case VisualOpen:
		return "open"
	case VisualClosed:
		return "closed"
	case VisualPath:
		return "path"
	}

	return fmt.Sprintf("visual(%d)", uint8(v))
}

// MarshalText lets VisualState travel as its name in JSON.
func (v VisualState) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

// UnmarshalText parses a name produced by MarshalText.
func (v *VisualState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "empty":
		*v = VisualEmpty
	case "open":
		*v = VisualOpen
	case "closed":
		*v = VisualClosed
	case "path":
		*v = VisualPath
	default:
		return fmt.Errorf("grid: unknown visual state %q", b)
	}

	return nil
}

// transient reports whether v is produced by a search run.
func (v VisualState) transient() bool {
	return v == VisualOpen || v == VisualClosed || v == VisualPath
}

// Node is the per-cell state. Row and Col are fixed at construction.
type Node struct {
	Row, Col int
	Wall     bool        // traversal blocker; never set on Start or End
	Role     Role        // RoleStart, RoleEnd or RoleNone
	Visual   VisualState // presentation only
	G        float64     // best known distance from Start, +Inf when unknown
	H        int         // Manhattan distance to End
	Parent   int         // arena index of the predecessor, NoParent if none
}

// F returns G + H, the A* priority key.
func (n *Node) F() float64 { return n.G + float64(n.H) }

// Position returns the node's coordinates.
func (n *Node) Position() Position { return Position{Row: n.Row, Col: n.Col} }

// resetSearch clears per-run state and transient visuals.
func (n *Node) resetSearch() {
	n.G = math.Inf(1)
	n.H = 0
	n.Parent = NoParent
	if n.Visual.transient() {
		n.Visual = VisualEmpty
	}
}
