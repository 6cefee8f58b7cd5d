package astar

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/metrics"
)

// Sentinel errors for engine operations.
var (
	// ErrNilGrid is returned if a nil grid pointer is passed.
	ErrNilGrid = errors.New("astar: grid is nil")

	// ErrNotIdle is returned when Start is called on an engine that already ran.
	ErrNotIdle = errors.New("astar: engine is not idle")

	// ErrInvalidEndpoints reports a Start or End coordinate that is missing
	// from the grid or not role-tagged there. It is carried in Result.Err;
	// the run itself ends in StateFailed.
	ErrInvalidEndpoints = errors.New("astar: invalid start or end")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("astar: invalid option supplied")
)

// Terminal status messages carried by the RunFinished event.
const (
	MsgNoPath = "no path found"
)

// State is the engine lifecycle: Idle → Running → {Succeeded, Failed, Cancelled}.
type State uint8

const (
	// StateIdle accepts Start.
	StateIdle State = iota
	// StateRunning is searching or emitting the path.
	StateRunning
	// StateSucceeded found a path and emitted it.
	StateSucceeded
	// StateFailed exhausted the open set or rejected the endpoints.
	StateFailed
	// StateCancelled stopped on request; not an error.
	StateCancelled
)

// String implements fmt.Stringer; the names are also metric label values.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	}

	return fmt.Sprintf("state(%d)", uint8(s))
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(b []byte) error {
	for c := StateIdle; c <= StateCancelled; c++ {
		if c.String() == string(b) {
			*s = c
			return nil
		}
	}

	return fmt.Errorf("astar: unknown state %q", b)
}

// Terminal reports whether s is Succeeded, Failed or Cancelled.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

// Step is passed to the OnStep hook after each expansion.
type Step struct {
	Index   int           // 1-based expansion counter
	Current grid.Position // node just expanded
	G       float64
	H       int
	Open    int // open-set size after relaxation
	Closed  int // closed-set size
}

// Result is the outcome of one run.
type Result struct {
	ID       uuid.UUID       `json:"id"`
	State    State           `json:"state"`
	Message  string          `json:"message,omitempty"`
	Steps    int             `json:"steps"`          // path length in moves; 0 unless Succeeded
	Path     []grid.Position `json:"path,omitempty"` // Start..End inclusive when Succeeded
	Expanded int             `json:"expanded"`       // nodes popped from the open set
	Duration time.Duration   `json:"duration"`
	Err      error           `json:"-"`
}

// Option configures an Engine via functional arguments.
// An invalid Option is recorded and surfaced as ErrOptionViolation by New.
type Option func(*Options)

// Options holds the engine parameters.
type Options struct {
	// StepDelay paces Path events; each one is followed by this pause.
	StepDelay time.Duration

	// ExpandEvery and ExpandDelay throttle the search phase: after every
	// ExpandEvery-th expansion the engine pauses for ExpandDelay.
	// ExpandEvery == 0 disables it.
	ExpandEvery int
	ExpandDelay time.Duration

	// Buffer is the event stream capacity.
	Buffer int

	// Logger receives run lifecycle records.
	Logger *slog.Logger

	// Metrics, if set, records run counters and histograms.
	Metrics *metrics.Collector

	// OnStep is called on the engine goroutine after each expansion.
	OnStep func(Step)

	err error
}

// DefaultOptions returns Options with no pacing, a 256-event buffer, the
// default slog logger and a no-op hook.
func DefaultOptions() Options {
	return Options{
		Buffer: 256,
		Logger: slog.Default(),
		OnStep: func(Step) {},
	}
}

// WithStepDelay sets the pause after each Path event. d < 0 is invalid.
func WithStepDelay(d time.Duration) Option {
	return func(o *Options) {
		if d < 0 {
			o.err = fmt.Errorf("%w: StepDelay cannot be negative (%v)", ErrOptionViolation, d)
			return
		}
		o.StepDelay = d
	}
}

// WithExpandPacing pauses for d after every n expansions.
//
//	n > 0: throttle every n-th expansion
//	n == 0: no throttling
//	n < 0 or d < 0: invalid option → ErrOptionViolation
func WithExpandPacing(n int, d time.Duration) Option {
	return func(o *Options) {
		if n < 0 || d < 0 {
			o.err = fmt.Errorf("%w: expand pacing (%d, %v)", ErrOptionViolation, n, d)
			return
		}
		o.ExpandEvery, o.ExpandDelay = n, d
	}
}

// WithBuffer sets the event stream capacity. n < 0 is invalid.
func WithBuffer(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: Buffer cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.Buffer = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics attaches a metrics collector.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Options) { o.Metrics = c }
}

// WithOnStep registers a per-expansion hook.
func WithOnStep(fn func(Step)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnStep = fn
		}
	}
}
