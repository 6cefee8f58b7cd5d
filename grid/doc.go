// Package grid models a rectangular board of cells as the search space for
// the astar engine, with user-editable walls and a single Start/End pair.
//
// What:
//
//   - Grid owns a row-major arena of Nodes; every (row, col) inside
//     [0,Rows)×[0,Cols) has exactly one Node for the lifetime of the Grid.
//   - Node carries wall/role flags, a presentation-only VisualState and the
//     per-run search state (G, H, Parent) written by the engine.
//   - Parent is an arena index, never a pointer, so predecessor chains are
//     plain lookups and can be copied with the Grid.
//   - Neighbors yields orthogonal, non-wall cells in a fixed order
//     (+row, −row, +col, −col) so event streams are reproducible.
//
// Why:
//
//   - The Grid is the shared state visualized live: the engine mutates search
//     fields while a collaborator renders the same cells.
//   - Acquire/Release turn the "no structural edits during a run" protocol into
//     an enforced rule: mutators return ErrGridBusy while a run holds the Grid.
//
// Complexity:
//
//   - New, ResetSearchState, RandomizeWalls, ClearWalls: O(R×C) time and memory.
//   - Node, SetWall, Neighbors: O(1).
//   - Reachable: O(R×C) time and memory.
//
// Errors:
//
//   - ErrEmptyGrid: rows or cols below one.
//   - ErrGridTooLarge: rows×cols above MaxCells.
//   - ErrOutOfBounds: a coordinate lies outside the Grid.
//   - ErrSameEndpoints: Start and End coincide.
//   - ErrBadDensity: wall density outside [0,1].
//   - ErrGridBusy: a mutation was attempted while a run holds the Grid.
package grid
