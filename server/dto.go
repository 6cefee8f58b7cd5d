package server

import (
	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/grid"
)

// GridSnapshot is the JSON view of a session's grid.
type GridSnapshot struct {
	SessionID string          `json:"session_id"`
	Rows      int             `json:"rows"`
	Cols      int             `json:"cols"`
	Start     grid.Position   `json:"start"`
	End       grid.Position   `json:"end"`
	Walls     []grid.Position `json:"walls"`
	Cells     []string        `json:"cells"` // row-major visual states
	Running   bool            `json:"running"`
	Status    string          `json:"status,omitempty"`
	Run       *astar.Result   `json:"run,omitempty"` // last finished run
}

// NewGridRequest creates a grid; a density randomizes it.
type NewGridRequest struct {
	Rows    int      `json:"rows" binding:"required,min=1,max=2048"`
	Cols    int      `json:"cols" binding:"required,min=1,max=2048"`
	Density *float64 `json:"density"`
	Seed    *int64   `json:"seed"`
}

// RandomizeRequest regenerates walls.
type RandomizeRequest struct {
	Density *float64 `json:"density"`
	Seed    *int64   `json:"seed"`
}

// WallsRequest sets or clears walls on a batch of cells.
type WallsRequest struct {
	Cells []grid.Position `json:"cells" binding:"required"`
	Wall  bool            `json:"wall"`
}

// RunResponse acknowledges a started run.
type RunResponse struct {
	ID     string `json:"id"`
	Events string `json:"events"`
}
