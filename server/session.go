package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/config"
	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/metrics"
)

// ErrRunActive is returned when an operation needs the search to be idle.
var ErrRunActive = errors.New("server: a run is in progress")

// Session owns one grid and at most one engine run over it. All
// collaborator access is serialized by mu; any operation that replaces or
// restructures the grid first cancels and joins the active run.
type Session struct {
	id      uuid.UUID
	cfg     config.Config
	log     *slog.Logger
	metrics *metrics.Collector

	mu       sync.Mutex
	g        *grid.Grid
	eng      *astar.Engine
	run      *runLog
	pumpDone chan struct{}
}

// NewSession creates a session with an empty grid sized by cfg.
func NewSession(cfg config.Config, log *slog.Logger, m *metrics.Collector) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}
	g, err := grid.New(cfg.Grid.Rows, cfg.Grid.Cols, grid.Pos(0, 0), grid.Pos(cfg.Grid.Rows-1, cfg.Grid.Cols-1))
	if err != nil {
		return nil, err
	}
	id := uuid.New()

	return &Session{
		id:      id,
		cfg:     cfg,
		log:     log.With(slog.String("component", "session"), slog.String("session_id", id.String())),
		metrics: m,
		g:       g,
	}, nil
}

// ID identifies the session.
func (s *Session) ID() uuid.UUID { return s.id }

func (s *Session) runningLocked() bool {
	return s.eng != nil && s.eng.State() == astar.StateRunning
}

// stopLocked cancels the active run, if any, and waits until the engine has
// released the grid and the pump has recorded the last event.
func (s *Session) stopLocked() {
	if s.eng == nil {
		return
	}
	if s.runningLocked() {
		s.log.Info("cancelling run for grid change", slog.String("run_id", s.eng.ID().String()))
	}
	s.eng.Stop()
	<-s.pumpDone
}

// StartRun launches a search from the grid's Start to its End.
// Returns ErrRunActive if a run is already in progress.
func (s *Session) StartRun() (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runningLocked() {
		return uuid.Nil, ErrRunActive
	}
	s.stopLocked()

	opts := []astar.Option{
		astar.WithLogger(s.log),
		astar.WithMetrics(s.metrics),
		astar.WithStepDelay(s.cfg.PathDelay()),
	}
	if d := s.cfg.Delay(); d > 0 {
		opts = append(opts, astar.WithExpandPacing(s.cfg.ExpandBatch(), d))
	}
	eng, err := astar.New(s.g, opts...)
	if err != nil {
		return uuid.Nil, err
	}
	stream, err := eng.Start(context.Background(), s.g.Start(), s.g.End())
	if err != nil {
		return uuid.Nil, err
	}

	run := newRunLog(eng.ID(), s.g.Rows(), s.g.Cols())
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range stream.Events() {
			run.append(e)
		}
		run.finish(eng.Wait())
	}()
	s.eng, s.run, s.pumpDone = eng, run, done

	return eng.ID(), nil
}

// CancelRun cancels and joins the active run and returns its result.
// The second return is false when the session never ran.
func (s *Session) CancelRun() (astar.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.eng == nil {
		return astar.Result{}, false
	}
	s.stopLocked()

	return s.eng.Wait(), true
}

// currentRun returns the log of the latest run, nil if there was none.
func (s *Session) currentRun() *runLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.run
}

// Replace swaps in g after joining any run.
func (s *Session) Replace(g *grid.Grid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
	s.g = g
	s.eng, s.run, s.pumpDone = nil, nil, nil
	s.log.Info("grid replaced", slog.Int("rows", g.Rows()), slog.Int("cols", g.Cols()))
}

// Resize replaces the grid with a fresh rows×cols one, randomized when
// density is non-nil.
func (s *Session) Resize(rows, cols int, density *float64, seed *int64) error {
	g, err := grid.New(rows, cols, grid.Pos(0, 0), grid.Pos(rows-1, cols-1))
	if err != nil {
		return err
	}
	if density != nil {
		if err = g.RandomizeWalls(*density, newRand(seed)); err != nil {
			return err
		}
	}
	s.Replace(g)

	return nil
}

// Randomize regenerates the walls of the current grid after joining any run.
// A nil density uses the configured one.
func (s *Session) Randomize(density *float64, seed *int64) error {
	d := s.cfg.Simulation.WallDensity
	if density != nil {
		d = *density
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	return s.g.RandomizeWalls(d, newRand(seed))
}

// ClearWalls removes every wall after joining any run.
func (s *Session) ClearWalls() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	return s.g.ClearWalls()
}

// SetWalls edits individual cells. It refuses to run concurrently with a
// search; all cells are checked before any is changed.
func (s *Session) SetWalls(cells []grid.Position, wall bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runningLocked() {
		return ErrRunActive
	}
	for _, p := range cells {
		if !s.g.InBounds(p) {
			return fmt.Errorf("%w: %v", grid.ErrOutOfBounds, p)
		}
	}
	for _, p := range cells {
		if err := s.g.SetWall(p, wall); err != nil {
			return err
		}
	}

	return nil
}

// WithGrid calls fn with the grid under the session lock. fn may read walls
// and roles at any time, but search state only when no run is active.
func (s *Session) WithGrid(fn func(g *grid.Grid, running bool)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.g, s.runningLocked())
}

// Close joins any run.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func newRand(seed *int64) *rand.Rand {
	if seed != nil {
		return rand.New(rand.NewSource(*seed))
	}

	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Snapshot reports the grid layout and the visual state of every cell.
// During a run the visuals come from the run's event log, so the live
// search state is never read concurrently with the engine.
func (s *Session) Snapshot() GridSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := GridSnapshot{
		SessionID: s.id.String(),
		Rows:      s.g.Rows(),
		Cols:      s.g.Cols(),
		Start:     s.g.Start(),
		End:       s.g.End(),
		Walls:     s.g.Walls(),
		Running:   s.runningLocked(),
	}
	if snap.Walls == nil {
		snap.Walls = []grid.Position{}
	}
	if s.run != nil {
		var cells []string
		cells, snap.Status, snap.Run = s.run.snapshot()
		if snap.Running {
			snap.Cells = cells
			return snap
		}
	}
	snap.Cells = make([]string, s.g.Len())
	for i := range snap.Cells {
		snap.Cells[i] = s.g.NodeAt(i).Visual.String()
	}

	return snap
}
