package grid

import "sync/atomic"

// Lease is the exclusive right to run a search over a Grid. While a Lease is
// outstanding, SetWall, RandomizeWalls, ClearWalls, ResetSearchState,
// SetStart and SetEnd return ErrGridBusy.
type Lease struct {
	g        *Grid
	released atomic.Bool
}

// Acquire takes the run lease. It fails with ErrGridBusy if another run
// already holds the grid.
func (g *Grid) Acquire() (*Lease, error) {
	if !g.held.CompareAndSwap(false, true) {
		return nil, ErrGridBusy
	}
	return &Lease{g: g}, nil
}

// Grid returns the leased grid.
func (l *Lease) Grid() *Grid { return l.g }

// ResetSearchState clears per-run state on behalf of the lease holder.
func (l *Lease) ResetSearchState() { l.g.resetSearchState() }

// Release returns the grid to its owner. Extra calls are no-ops.
func (l *Lease) Release() {
	if l.released.CompareAndSwap(false, true) {
		l.g.held.Store(false)
	}
}
