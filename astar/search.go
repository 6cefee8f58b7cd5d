package astar

import (
	"container/heap"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/zyedidia/generic/mapset"

	"github.com/katalvlaran/astarviz/event"
	"github.com/katalvlaran/astarviz/grid"
)

// runner holds the mutable state for a single A* execution.
type runner struct {
	g      *grid.Grid
	lease  *grid.Lease
	ctx    context.Context // cancelled by Engine.Cancel or the caller's ctx
	stream *event.Stream
	opts   Options
	log    *slog.Logger

	start, end int // arena indices
	endPos     grid.Position

	open     openQueue
	inOpen   map[int]*openItem // open-set membership
	closed   mapset.Set[int]   // expanded nodes, never re-expanded
	expanded int
}

// cancelled polls the cooperative cancellation flag.
func (r *runner) cancelled() bool { return r.ctx.Err() != nil }

// search runs the algorithm and returns the terminal result (ID and
// Duration are filled in by the caller).
func (r *runner) search(start, end grid.Position) Result {
	// 1) Reset per-run state and seed the open set with Start.
	r.lease.ResetSearchState()
	r.start, r.end = r.g.Index(start), r.g.Index(end)
	r.endPos = end
	r.inOpen = make(map[int]*openItem)
	r.closed = mapset.New[int]()
	r.open = make(openQueue, 0, 64)
	heap.Init(&r.open)

	sn := r.g.NodeAt(r.start)
	sn.G = 0
	sn.H = grid.Manhattan(start, end)
	r.push(r.start, sn)

	// 2) Main loop; cancellation is polled once per popped node.
	for r.open.Len() > 0 {
		if r.cancelled() {
			return r.result(StateCancelled, "")
		}

		item := heap.Pop(&r.open).(*openItem)
		delete(r.inOpen, item.id)
		r.closed.Put(item.id)
		r.expanded++
		cur := r.g.NodeAt(item.id)

		if item.id != r.start && item.id != r.end {
			r.emitCell(item.id, grid.VisualClosed)
		}
		r.throttle()

		if item.id == r.end {
			return r.finish()
		}

		r.relax(item.id, cur)
		r.opts.OnStep(Step{
			Index:   r.expanded,
			Current: cur.Position(),
			G:       cur.G,
			H:       cur.H,
			Open:    r.open.Len(),
			Closed:  r.closed.Size(),
		})
	}

	// 3) Open set exhausted. A cancel raised during the last expansion wins.
	if r.cancelled() {
		return r.result(StateCancelled, "")
	}
	r.emitFinished(MsgNoPath)

	return r.result(StateFailed, MsgNoPath)
}

// relax examines each non-wall neighbor of u and records any strictly
// shorter route through u.
func (r *runner) relax(u int, cur *grid.Node) {
	for _, q := range r.g.Neighbors(cur.Position()) {
		v := r.g.Index(q)
		if r.closed.Has(v) {
			continue
		}
		nb := r.g.NodeAt(v)
		tentative := cur.G + 1
		if tentative >= nb.G {
			continue
		}
		nb.Parent = u
		nb.G = tentative
		nb.H = grid.Manhattan(q, r.endPos)

		if it, ok := r.inOpen[v]; ok {
			it.f, it.h = nb.F(), nb.H
			heap.Fix(&r.open, it.index)
			continue
		}
		r.push(v, nb)
		if v != r.end {
			r.emitCell(v, grid.VisualOpen)
		}
	}
}

// push inserts node id into the open set with its current keys.
func (r *runner) push(id int, n *grid.Node) {
	it := &openItem{id: id, f: n.F(), h: n.H}
	heap.Push(&r.open, it)
	r.inOpen[id] = it
}

// finish reconstructs the path, emits it with pacing and reports success.
func (r *runner) finish() Result {
	chain := r.reconstruct()
	for _, id := range chain {
		if id == r.start || id == r.end {
			continue
		}
		if r.cancelled() {
			return r.result(StateCancelled, "")
		}
		r.emitCell(id, grid.VisualPath)
		if !r.pause(r.opts.StepDelay) {
			return r.result(StateCancelled, "")
		}
	}

	steps := len(chain) - 1
	r.log.Debug("path emitted", slog.Int("steps", steps), slog.Int("expanded", r.expanded))
	msg := fmt.Sprintf("path found: %d steps", steps)
	r.emitFinished(msg)

	res := r.result(StateSucceeded, msg)
	res.Steps = steps
	res.Path = make([]grid.Position, len(chain))
	for i, id := range chain {
		res.Path[i] = r.g.Position(id)
	}

	return res
}

// reconstruct follows Parent links from End back to Start and returns the
// chain in Start→End order.
func (r *runner) reconstruct() []int {
	var chain []int
	for at := r.end; at != grid.NoParent; at = r.g.NodeAt(at).Parent {
		chain = append(chain, at)
		if at == r.start {
			break
		}
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}

	return chain
}

// emitCell records the new visual state on the grid and announces it.
func (r *runner) emitCell(id int, state grid.VisualState) {
	r.g.NodeAt(id).Visual = state
	if r.stream.Emit(r.ctx, event.CellStateChanged(r.g.Position(id), state)) {
		r.opts.Metrics.EventEmitted()
	}
}

// emitFinished sends the terminal status message.
func (r *runner) emitFinished(msg string) {
	if r.stream.Emit(r.ctx, event.RunFinished(msg)) {
		r.opts.Metrics.EventEmitted()
	}
}

// throttle applies expand pacing after every ExpandEvery-th expansion.
func (r *runner) throttle() {
	if r.opts.ExpandEvery > 0 && r.expanded%r.opts.ExpandEvery == 0 {
		r.pause(r.opts.ExpandDelay)
	}
}

// pause sleeps for d unless the run is cancelled first. It reports whether
// the full delay elapsed.
func (r *runner) pause(d time.Duration) bool {
	if d <= 0 {
		return !r.cancelled()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-r.ctx.Done():
		return false
	}
}

func (r *runner) result(state State, msg string) Result {
	return Result{State: state, Message: msg, Expanded: r.expanded}
}
