// Package store persists named maze layouts in the maze text format.
//
// Two backends share the Store interface: FileStore keeps one file per maze
// in a directory, RedisStore keeps one key per maze plus an index set.
// Names are restricted to [A-Za-z0-9_-]{1,64} so they are safe as both file
// names and key suffixes.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/katalvlaran/astarviz/grid"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when no maze is stored under a name.
	ErrNotFound = errors.New("store: maze not found")

	// ErrInvalidName is returned for names outside [A-Za-z0-9_-]{1,64}.
	ErrInvalidName = errors.New("store: invalid maze name")
)

var nameRE = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateName returns ErrInvalidName unless name is usable as a maze key.
func ValidateName(name string) error {
	if !nameRE.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}

// Store saves and loads grids by name.
type Store interface {
	Save(ctx context.Context, name string, g *grid.Grid) error
	Load(ctx context.Context, name string) (*grid.Grid, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}
