// Package event carries visualization events from a search run to a single
// consumer, in emission order.
//
// What
//
//   - Event is a closed variant: KindCellStateChanged (row, col, visual
//     state) or KindRunFinished (terminal status message).
//   - Stream is a single-producer, single-consumer conduit over a buffered
//     channel. Emit blocks when the buffer is full; backpressure slows the
//     producer, it never reorders or drops delivered events.
//   - Apply folds an Event into any ViewModel, so collaborators only need to
//     implement two methods to mirror a run.
//
// Delivery
//
//	Events arrive exactly in the order they were emitted. The consumer may lag
//	arbitrarily; the producer does not wait for acknowledgement. Closing the
//	Stream marks the end of a run: after a success or failure the last event
//	is KindRunFinished, after cancellation the channel simply closes.
package event

import (
	"context"
	"fmt"
	"sync"

	"github.com/katalvlaran/astarviz/grid"
)

// Kind discriminates Event variants.
type Kind uint8

const (
	// KindCellStateChanged reports a new visual state for one cell.
	KindCellStateChanged Kind = iota + 1
	// KindRunFinished is the terminal status of a successful or failed run.
	KindRunFinished
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindCellStateChanged:
		return "cell"
	case KindRunFinished:
		return "finished"
	}

	return fmt.Sprintf("kind(%d)", uint8(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Event is one step of a run as seen by a consumer.
type Event struct {
	Kind    Kind             `json:"kind"`
	Row     int              `json:"row"`
	Col     int              `json:"col"`
	State   grid.VisualState `json:"state"`
	Message string           `json:"message,omitempty"`
}

// CellStateChanged builds a cell event for p.
func CellStateChanged(p grid.Position, state grid.VisualState) Event {
	return Event{Kind: KindCellStateChanged, Row: p.Row, Col: p.Col, State: state}
}

// RunFinished builds the terminal event.
func RunFinished(msg string) Event {
	return Event{Kind: KindRunFinished, Message: msg}
}

// Position returns the cell addressed by a KindCellStateChanged event.
func (e Event) Position() grid.Position { return grid.Position{Row: e.Row, Col: e.Col} }

// String renders the event for logs.
func (e Event) String() string {
	if e.Kind == KindRunFinished {
		return fmt.Sprintf("finished: %s", e.Message)
	}
	return fmt.Sprintf("%v -> %v", e.Position(), e.State)
}

// Stream is an ordered SPSC event channel. The zero value is not usable; use
// NewStream.
type Stream struct {
	ch        chan Event
	closeOnce sync.Once
}

// NewStream makes a Stream with the given buffer capacity (negative means 0).
func NewStream(buffer int) *Stream {
	if buffer < 0 {
		buffer = 0
	}
	return &Stream{ch: make(chan Event, buffer)}
}

// Events returns the receive side. It is closed after the last event.
func (s *Stream) Events() <-chan Event { return s.ch }

// Emit delivers e, blocking while the buffer is full. It gives up and
// returns false once ctx is done; an undelivered event was never emitted.
// Only the producer may call Emit, and never after Close.
func (s *Stream) Emit(ctx context.Context, e Event) bool {
	select {
	case s.ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// Close ends the stream. Further calls are no-ops.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.ch) })
}

// Drain collects every remaining event until the stream is closed.
func (s *Stream) Drain() []Event {
	var out []Event
	for e := range s.ch {
		out = append(out, e)
	}

	return out
}

// ViewModel is the consumer-side mirror of a run.
type ViewModel interface {
	SetCellState(p grid.Position, state grid.VisualState)
	SetStatus(msg string)
}

// Apply folds e into v.
func Apply(v ViewModel, e Event) {
	switch e.Kind {
	case KindCellStateChanged:
		v.SetCellState(e.Position(), e.State)
	case KindRunFinished:
		v.SetStatus(e.Message)
	}
}
