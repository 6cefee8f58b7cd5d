package server

import (
	"sync"

	"github.com/google/uuid"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/event"
)

// runLog records every event of one run so any number of SSE clients can
// replay it from the start and then follow it live. It is written by the
// session's pump goroutine, the only consumer of the engine stream.
type runLog struct {
	id uuid.UUID

	mu      sync.Mutex
	events  []event.Event
	board   *event.Board
	result  *astar.Result
	changed chan struct{} // closed and replaced on every change
}

func newRunLog(id uuid.UUID, rows, cols int) *runLog {
	return &runLog{
		id:      id,
		board:   event.NewBoard(rows, cols),
		changed: make(chan struct{}),
	}
}

func (l *runLog) append(e event.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	event.Apply(l.board, e)
	l.notifyLocked()
}

func (l *runLog) finish(res astar.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.result = &res
	l.notifyLocked()
}

func (l *runLog) notifyLocked() {
	close(l.changed)
	l.changed = make(chan struct{})
}

// since returns the events from index i on, whether the run is over, and a
// channel that is closed on the next change.
func (l *runLog) since(i int) ([]event.Event, bool, <-chan struct{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []event.Event
	if i < len(l.events) {
		out = append(out, l.events[i:]...)
	}

	return out, l.result != nil, l.changed
}

// snapshot copies the board and result under the lock.
func (l *runLog) snapshot() (cells []string, status string, res *astar.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cells = make([]string, len(l.board.Cells))
	for i, v := range l.board.Cells {
		cells[i] = v.String()
	}
	if l.result != nil {
		r := *l.result
		res = &r
	}

	return cells, l.board.Status, res
}
