// Package astar_test shows how to drive the engine directly and through Solve.
package astar_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/event"
	"github.com/katalvlaran/astarviz/grid"
)

// ExampleSolve finds the shortest route around a wall segment.
// Complexity: O(V log V) for V = 12 cells.
func ExampleSolve() {
	// 1) A 3×4 grid with Start top-left and End top-right.
	g, _ := grid.New(3, 4, grid.Pos(0, 0), grid.Pos(0, 3))
	// 2) Wall off (0,1) and (1,1) so the route must dip to the bottom row.
	_ = g.SetWall(grid.Pos(0, 1), true)
	_ = g.SetWall(grid.Pos(1, 1), true)

	// 3) Run to completion and collect every event.
	res, events, err := astar.Solve(context.Background(), g, g.Start(), g.End())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(res.State, res.Steps)
	fmt.Println(events[len(events)-1].Message)
	// Output:
	// succeeded 7
	// path found: 7 steps
}

// ExampleEngine shows the streaming lifecycle: Start, consume, Wait.
func ExampleEngine() {
	g, _ := grid.New(1, 4, grid.Pos(0, 0), grid.Pos(0, 3))

	eng, err := astar.New(g, astar.WithBuffer(0))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	stream, err := eng.Start(context.Background(), g.Start(), g.End())
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	// Fold events into a board, the way a renderer would.
	board := event.NewBoard(g.Rows(), g.Cols())
	for e := range stream.Events() {
		event.Apply(board, e)
	}
	res := eng.Wait()

	fmt.Println(res.State, res.Path)
	fmt.Println(board.At(grid.Pos(0, 1)), board.At(grid.Pos(0, 2)))
	fmt.Println(board.Status)
	// Output:
	// succeeded [(0,0) (0,1) (0,2) (0,3)]
	// path path
	// path found: 3 steps
}

// ExampleSolve_events prints the whole stream for a 1×3 corridor: the
// middle cell is opened, closed and painted as path, while Start and End
// are never recolored.
func ExampleSolve_events() {
	g, _ := grid.New(1, 3, grid.Pos(0, 0), grid.Pos(0, 2))

	_, events, err := astar.Solve(context.Background(), g, g.Start(), g.End())
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, e := range events {
		fmt.Println(e)
	}
	// Output:
	// (0,1) -> open
	// (0,1) -> closed
	// (0,1) -> path
	// finished: path found: 2 steps
}
