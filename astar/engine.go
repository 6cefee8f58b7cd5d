package astar

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/astarviz/event"
	"github.com/katalvlaran/astarviz/grid"
)

// Engine runs one A* search over a Grid on its own goroutine and reports
// progress through an event.Stream. An Engine is single-use: Start is only
// accepted in StateIdle. The Grid stays leased from Start until the run
// reaches a terminal state, so no structural edit can race the search.
type Engine struct {
	g    *grid.Grid
	opts Options
	log  *slog.Logger
	id   uuid.UUID

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	done   chan struct{}
	result Result
}

// New prepares an engine for g.
// Returns ErrNilGrid for a nil grid and ErrOptionViolation for bad options.
func New(g *grid.Grid, opts ...Option) (*Engine, error) {
	if g == nil {
		return nil, ErrNilGrid
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	id := uuid.New()

	return &Engine{
		g:    g,
		opts: o,
		id:   id,
		log:  o.Logger.With(slog.String("component", "astar"), slog.String("run_id", id.String())),
		done: make(chan struct{}),
	}, nil
}

// ID identifies the run in logs, results and the HTTP API.
func (e *Engine) ID() uuid.UUID { return e.id }

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start leases the grid and launches the search from start to end.
// Both must be the grid's role-tagged Start and End; otherwise the engine
// moves straight to StateFailed, the stream carries one RunFinished event
// and Result.Err wraps ErrInvalidEndpoints.
// Returns ErrNotIdle if the engine already ran and grid.ErrGridBusy if
// another run holds the grid; in both cases nothing changes.
//
// Cancelling ctx is equivalent to calling Cancel.
func (e *Engine) Start(ctx context.Context, start, end grid.Position) (*event.Stream, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateIdle {
		return nil, ErrNotIdle
	}
	lease, err := e.g.Acquire()
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	stream := event.NewStream(e.opts.Buffer)

	r := &runner{
		g:      e.g,
		lease:  lease,
		ctx:    runCtx,
		stream: stream,
		opts:   e.opts,
		log:    e.log,
	}

	if err = e.validate(start, end); err != nil {
		// Fail fast: no node is touched and no search step runs.
		lease.Release()
		e.state = StateFailed
		e.result = Result{ID: e.id, State: StateFailed, Message: err.Error(), Err: err}
		e.opts.Metrics.RunRejected(StateFailed.String())
		e.log.Warn("run rejected", slog.String("error", err.Error()))
		close(e.done)
		go func() {
			defer cancel()
			defer stream.Close()
			r.emitFinished(err.Error())
		}()
		return stream, nil
	}

	e.state = StateRunning
	e.opts.Metrics.RunStarted()
	e.log.Debug("run started",
		slog.String("start", start.String()),
		slog.String("end", end.String()),
		slog.Int("rows", e.g.Rows()),
		slog.Int("cols", e.g.Cols()),
	)
	go e.run(r, start, end)

	return stream, nil
}

// validate checks that start and end are the grid's tagged endpoints.
func (e *Engine) validate(start, end grid.Position) error {
	sn, ok := e.g.Node(start)
	if !ok {
		return fmt.Errorf("%w: start %v is outside the %dx%d grid", ErrInvalidEndpoints, start, e.g.Rows(), e.g.Cols())
	}
	en, ok := e.g.Node(end)
	if !ok {
		return fmt.Errorf("%w: end %v is outside the %dx%d grid", ErrInvalidEndpoints, end, e.g.Rows(), e.g.Cols())
	}
	if sn.Role != grid.RoleStart {
		return fmt.Errorf("%w: no start at %v", ErrInvalidEndpoints, start)
	}
	if en.Role != grid.RoleEnd {
		return fmt.Errorf("%w: no end at %v", ErrInvalidEndpoints, end)
	}

	return nil
}

// run is the engine goroutine.
func (e *Engine) run(r *runner, start, end grid.Position) {
	began := time.Now()
	res := r.search(start, end)
	res.ID = e.id
	res.Duration = time.Since(began)

	r.stream.Close()
	r.lease.Release()

	e.mu.Lock()
	e.state = res.State
	e.result = res
	e.cancel()
	e.mu.Unlock()

	e.opts.Metrics.RunFinished(res.State.String(), res.Duration, res.Expanded, res.Steps)
	e.log.Info("run finished",
		slog.String("state", res.State.String()),
		slog.Int("steps", res.Steps),
		slog.Int("expanded", res.Expanded),
		slog.Duration("duration", res.Duration),
	)
	close(e.done)
}

// Cancel requests cooperative cancellation. The engine notices it at the
// next node pop or path step; a few more events may still arrive.
// Cancel is safe to call at any time and from any goroutine.
func (e *Engine) Cancel() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Done is closed once the engine reaches a terminal state.
// For an engine that never started, Done is never closed.
func (e *Engine) Done() <-chan struct{} { return e.done }

// Wait blocks until the run is terminal and returns its Result. The grid
// lease has been released by the time Wait returns. On an idle engine Wait
// returns immediately with State == StateIdle.
func (e *Engine) Wait() Result {
	e.mu.Lock()
	if e.state == StateIdle {
		e.mu.Unlock()
		return Result{ID: e.id, State: StateIdle}
	}
	e.mu.Unlock()

	<-e.done
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// Stop cancels the run and waits for it: the join required before any
// structural grid mutation.
func (e *Engine) Stop() Result {
	e.Cancel()
	return e.Wait()
}
