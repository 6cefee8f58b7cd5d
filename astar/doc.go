// Package astar implements A* shortest-path search over a grid.Grid with an
// incremental, ordered event stream and cooperative cancellation.
//
// What
//
//   - Manhattan heuristic, uniform edge weight 1, 4-directional moves.
//   - Open set: min-heap ordered by f = g + h, ties broken by lower h.
//     Membership is tracked separately so contains-checks are O(1).
//   - Closed set: expanded nodes, never re-expanded.
//   - Cancellation stops the run in StateCancelled with no RunFinished.
//
// Events
//
// Every state-affecting step emits one event.Event:
//
//   - Closed for each popped node other than Start/End.
//   - Open for each newly discovered node other than End.
//   - Path for each inner node of the reconstructed path, paced by StepDelay.
//   - RunFinished with the path length, or "no path found".
//
// Lifecycle
//
//	Idle ──Start──▶ Running ──▶ Succeeded | Failed | Cancelled
//
//	An Engine runs once. Start leases the grid (grid.Acquire); the lease is
//	released as the engine turns terminal, before Wait returns. While leased,
//	the grid's structural mutators fail with grid.ErrGridBusy, so "cancel,
//	then wait, then mutate" is the only way to edit a grid mid-run.
//
// Cancellation
//
//	Cancel (or cancelling the ctx given to Start) raises a flag that is
//	polled once per popped node and once per path step. At most one further
//	expansion completes after the flag is raised: one Closed event plus up
//	to four Open events.
//
// Side effects
//
//	The engine writes G, H, Parent and Visual on the grid's nodes as it goes;
//	the grid is the live shared state a collaborator renders.
//
// Complexity:
//
//   - Time:  O(V log V) for V = rows×cols (each cell pushed at most once, fixed in place on improvement).
//   - Space: O(V).
//
// Errors (sentinel):
//
//   - ErrNilGrid          nil grid passed to New.
//   - ErrOptionViolation  negative delays or buffer.
//   - ErrNotIdle          Start called twice.
//   - ErrInvalidEndpoints in Result.Err when Start/End are not the grid's endpoints.
//   - grid.ErrGridBusy    another run holds the grid.
package astar
