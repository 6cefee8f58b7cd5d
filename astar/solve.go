package astar

import (
	"context"

	"github.com/katalvlaran/astarviz/event"
	"github.com/katalvlaran/astarviz/grid"
)

// Solve runs a search to completion on the calling goroutine's behalf,
// collecting every event in order. The returned error covers New and Start
// failures only; search outcomes, including ErrInvalidEndpoints, are in
// Result.State and Result.Err.
func Solve(ctx context.Context, g *grid.Grid, start, end grid.Position, opts ...Option) (Result, []event.Event, error) {
	eng, err := New(g, opts...)
	if err != nil {
		return Result{}, nil, err
	}
	stream, err := eng.Start(ctx, start, end)
	if err != nil {
		return Result{}, nil, err
	}
	events := stream.Drain()

	return eng.Wait(), events, nil
}
