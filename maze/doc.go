// Package maze reads and writes grids in a plain-text maze format.
//
// Format
//
//	One grid row per line, one character per cell:
//	  S  start        E  end
//	  #  wall         .  empty (any other character is also empty)
//
//	Lines are trimmed and blank lines are skipped. All remaining lines must
//	have the same length. A missing S defaults to (0,0) and a missing E to
//	(rows-1, cols-1); a defaulted endpoint is never a wall. When a marker
//	appears more than once, the last occurrence wins.
//
//	Encode writes S, E, # and . with a newline after every row, so
//	Decode(Encode(g)) reproduces the walls and endpoints of g.
//
// Errors (sentinel):
//
//   - ErrEmptyMaze     no non-blank line.
//   - ErrMalformedMaze ragged rows, or Start and End resolve to one cell.
//   - ErrIO            the reader, writer or file system failed.
//
// Decode and LoadFile either return a complete grid or nothing; SaveFile
// replaces the target file atomically.
package maze
