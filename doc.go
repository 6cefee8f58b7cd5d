// Package astarviz is an A* pathfinding engine for rectangular grids with a
// live, ordered event stream, built to drive visualizers.
//
// What is inside?
//
//	grid/         Node and Grid: cells, walls, endpoints, per-run search state
//	astar/        the Engine: A* with Manhattan heuristic, events, cancellation
//	event/        the single-producer/single-consumer event Stream and ViewModel
//	maze/         the plain-text maze format (S, E, #, .)
//	config/       defaults, JSON/YAML files and ASTARVIZ_* environment overrides
//	metrics/      prometheus collectors for runs
//	store/        named maze storage on disk or in redis
//	server/       HTTP API with gin, including a server-sent event feed per run
//	cmd/astarviz  serve, solve and random subcommands
//
// Quick start:
//
//	g, _ := grid.New(20, 20, grid.Pos(0, 0), grid.Pos(19, 19))
//	_ = g.RandomizeWalls(0.3, rand.New(rand.NewSource(1)))
//	res, events, err := astar.Solve(ctx, g, g.Start(), g.End())
//
// Or stream a run:
//
//	eng, _ := astar.New(g, astar.WithStepDelay(5*time.Millisecond))
//	stream, _ := eng.Start(ctx, g.Start(), g.End())
//	for ev := range stream.Events() {
//		event.Apply(view, ev)
//	}
//	res := eng.Wait()
//
// One run per grid: the engine leases the grid from Start until it is done,
// and structural edits fail with grid.ErrGridBusy meanwhile. Cancel and Wait
// (or Stop) before changing the grid.
package astarviz
