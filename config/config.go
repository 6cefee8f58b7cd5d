// Package config builds the immutable application configuration.
//
// Sources, in order (later overrides earlier):
//   - Default()                 the built-in values
//   - a JSON or YAML file       chosen by extension (.json, .yaml, .yml)
//   - a .env file               loaded into the process environment by godotenv
//   - ASTARVIZ_* variables      see the env* constants
//
// A missing or unreadable config file is not an error: Load falls back to
// the defaults and reports why in a Notice. Values that fail Validate are.
package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate and by environment parsing.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Environment variable names.
const (
	envRows        = "ASTARVIZ_ROWS"
	envCols        = "ASTARVIZ_COLS"
	envCellSize    = "ASTARVIZ_CELL_SIZE"
	envDelayMS     = "ASTARVIZ_DELAY_MS"
	envWallDensity = "ASTARVIZ_WALL_DENSITY"
	envAddr        = "ASTARVIZ_ADDR"
	envRedisAddr   = "ASTARVIZ_REDIS_ADDR"
	envMazeDir     = "ASTARVIZ_MAZE_DIR"
)

// Defaults.
const (
	defaultRows        = 100
	defaultCols        = 100
	defaultCellSize    = 8
	defaultDelayMS     = 1
	defaultWallDensity = 0.3
	defaultAddr        = ":8080"
	defaultMazeDir     = "mazes"

	// pathDelayFactor slows the path phase relative to the search phase.
	pathDelayFactor = 5
	// expandBatch closed nodes are drawn per Delay pause.
	expandBatch = 5
)

// Config is the full application configuration. Build it once and pass it
// down by value.
type Config struct {
	Grid       Grid       `json:"grid" yaml:"grid"`
	Simulation Simulation `json:"simulation" yaml:"simulation"`
	Colors     Palette    `json:"colors" yaml:"colors"`
	Server     Server     `json:"server" yaml:"server"`
}

// Grid sizes a freshly created grid.
type Grid struct {
	Rows     int `json:"rows" yaml:"rows"`
	Cols     int `json:"cols" yaml:"cols"`
	CellSize int `json:"cell_size" yaml:"cell_size"` // pixels per cell for renderers
}

// Simulation controls pacing and random generation.
type Simulation struct {
	DelayMS     int     `json:"delay_ms" yaml:"delay_ms"`
	WallDensity float64 `json:"wall_density" yaml:"wall_density"`
}

// Server configures the HTTP surface and maze storage.
// An empty RedisAddr selects file storage under MazeDir.
type Server struct {
	Addr      string `json:"addr" yaml:"addr"`
	RedisAddr string `json:"redis_addr" yaml:"redis_addr"`
	MazeDir   string `json:"maze_dir" yaml:"maze_dir"`
}

// RGB is a color as [r, g, b].
type RGB [3]uint8

// Hex renders c as #rrggbb.
func (c RGB) Hex() string { return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]) }

// Palette maps each cell appearance to a color.
type Palette struct {
	Empty  RGB `json:"empty" yaml:"empty"`
	Wall   RGB `json:"wall" yaml:"wall"`
	Start  RGB `json:"start" yaml:"start"`
	End    RGB `json:"end" yaml:"end"`
	Open   RGB `json:"open" yaml:"open"`
	Closed RGB `json:"closed" yaml:"closed"`
	Path   RGB `json:"path" yaml:"path"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid:       Grid{Rows: defaultRows, Cols: defaultCols, CellSize: defaultCellSize},
		Simulation: Simulation{DelayMS: defaultDelayMS, WallDensity: defaultWallDensity},
		Colors: Palette{
			Empty:  RGB{255, 255, 255},
			Wall:   RGB{33, 33, 33},
			Start:  RGB{76, 175, 80},
			End:    RGB{244, 67, 54},
			Open:   RGB{165, 214, 167},
			Closed: RGB{239, 154, 154},
			Path:   RGB{156, 39, 176},
		},
		Server: Server{Addr: defaultAddr, MazeDir: defaultMazeDir},
	}
}

// Delay is the pause after every ExpandBatch search expansions.
func (c Config) Delay() time.Duration {
	return time.Duration(c.Simulation.DelayMS) * time.Millisecond
}

// ExpandBatch is the number of expansions between two Delay pauses.
func (c Config) ExpandBatch() int { return expandBatch }

// PathDelay is the pause between path steps.
func (c Config) PathDelay() time.Duration { return c.Delay() * pathDelayFactor }

// Validate checks every field.
func (c Config) Validate() error {
	switch {
	case c.Grid.Rows < 1 || c.Grid.Cols < 1:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalidConfig, c.Grid.Rows, c.Grid.Cols)
	case c.Grid.Rows*c.Grid.Cols < 2:
		return fmt.Errorf("%w: grid needs room for start and end", ErrInvalidConfig)
	case c.Grid.CellSize < 1:
		return fmt.Errorf("%w: cell_size %d", ErrInvalidConfig, c.Grid.CellSize)
	case c.Simulation.DelayMS < 0:
		return fmt.Errorf("%w: delay_ms %d", ErrInvalidConfig, c.Simulation.DelayMS)
	case math.IsNaN(c.Simulation.WallDensity) || c.Simulation.WallDensity < 0 || c.Simulation.WallDensity > 1:
		return fmt.Errorf("%w: wall_density %v outside [0,1]", ErrInvalidConfig, c.Simulation.WallDensity)
	case c.Server.Addr == "":
		return fmt.Errorf("%w: empty server addr", ErrInvalidConfig)
	}

	return nil
}

// Notice explains why Load fell back to the defaults.
type Notice struct {
	Level   slog.Level
	Message string
	Err     error
}

// Load reads the file at path over the defaults. Keys absent from the file
// keep their default values. When the file is missing or cannot be parsed
// the defaults are returned unchanged together with a Notice.
func Load(path string) (Config, *Notice) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, &Notice{Level: slog.LevelInfo, Message: "config file not found, using defaults", Err: err}
	}
	if err != nil {
		return cfg, &Notice{Level: slog.LevelWarn, Message: "config file unreadable, using defaults", Err: err}
	}

	parsed := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &parsed)
	default:
		err = json.Unmarshal(data, &parsed)
	}
	if err != nil {
		return cfg, &Notice{Level: slog.LevelWarn, Message: "config file invalid, using defaults", Err: err}
	}

	return parsed, nil
}

// LookupFunc reads one environment variable.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides c with any ASTARVIZ_* variable lookup reports.
// Returns ErrInvalidConfig for a value that does not parse.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	ints := []struct {
		key string
		dst *int
	}{
		{envRows, &c.Grid.Rows},
		{envCols, &c.Grid.Cols},
		{envCellSize, &c.Grid.CellSize},
		{envDelayMS, &c.Simulation.DelayMS},
	}
	for _, it := range ints {
		v, ok := lookup(it.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s must be an integer: %v", ErrInvalidConfig, it.key, err)
		}
		*it.dst = n
	}

	if v, ok := lookup(envWallDensity); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number: %v", ErrInvalidConfig, envWallDensity, err)
		}
		c.Simulation.WallDensity = f
	}

	strs := []struct {
		key string
		dst *string
	}{
		{envAddr, &c.Server.Addr},
		{envRedisAddr, &c.Server.RedisAddr},
		{envMazeDir, &c.Server.MazeDir},
	}
	for _, it := range strs {
		if v, ok := lookup(it.key); ok {
			*it.dst = v
		}
	}

	return nil
}

// Setup is the startup path used by the binary: load path, merge a .env
// file (if any) and the process environment, then validate. Notices are
// logged on log.
func Setup(path string, log *slog.Logger) (Config, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "config"))

	cfg, notice := Load(path)
	if notice != nil {
		log.Log(context.Background(), notice.Level, notice.Message,
			slog.String("path", path),
			slog.String("error", notice.Err.Error()),
		)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn(".env file could not be loaded", slog.String("error", err.Error()))
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	log.Debug("configuration ready",
		slog.Int("rows", cfg.Grid.Rows),
		slog.Int("cols", cfg.Grid.Cols),
		slog.Duration("delay", cfg.Delay()),
		slog.Float64("wall_density", cfg.Simulation.WallDensity),
	)

	return cfg, nil
}
