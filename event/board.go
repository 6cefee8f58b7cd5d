package event

import "github.com/katalvlaran/astarviz/grid"

// Board is a minimal ViewModel: a rows×cols matrix of visual states plus the
// last status line. It is what a renderer would keep between frames.
type Board struct {
	Rows, Cols int
	Cells      []grid.VisualState
	Status     string
	Applied    int // number of events applied
}

// NewBoard returns an all-empty board.
func NewBoard(rows, cols int) *Board {
	return &Board{Rows: rows, Cols: cols, Cells: make([]grid.VisualState, rows*cols)}
}

// SetCellState implements ViewModel. Positions outside the board are ignored.
func (b *Board) SetCellState(p grid.Position, state grid.VisualState) {
	b.Applied++
	if p.Row < 0 || p.Row >= b.Rows || p.Col < 0 || p.Col >= b.Cols {
		return
	}
	b.Cells[p.Row*b.Cols+p.Col] = state
}

// SetStatus implements ViewModel.
func (b *Board) SetStatus(msg string) {
	b.Applied++
	b.Status = msg
}

// At returns the state of p, VisualEmpty if outside.
func (b *Board) At(p grid.Position) grid.VisualState {
	if p.Row < 0 || p.Row >= b.Rows || p.Col < 0 || p.Col >= b.Cols {
		return grid.VisualEmpty
	}
	return b.Cells[p.Row*b.Cols+p.Col]
}
