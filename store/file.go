package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/maze"
)

const fileExt = ".txt"

// FileStore keeps each maze in <dir>/<name>.txt.
type FileStore struct {
	dir string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", dir, err)
	}

	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(name string) string { return filepath.Join(s.dir, name+fileExt) }

// Save writes g atomically, replacing any maze with the same name.
func (s *FileStore) Save(_ context.Context, name string, g *grid.Grid) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	return maze.SaveFile(s.path(name), g)
}

// Load decodes the named maze.
func (s *FileStore) Load(_ context.Context, name string) (*grid.Grid, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	g, err := maze.LoadFile(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return g, err
}

// List returns the stored names in lexical order.
func (s *FileStore) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.dir, err)
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), fileExt)
		if !ok || e.IsDir() || ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Delete removes the named maze.
func (s *FileStore) Delete(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(s.path(name))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return err
}
