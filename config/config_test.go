package config_test

import (
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/astarviz/config"
)

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func env(m map[string]string) config.LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

// TestDefault checks the built-in values and derived delays.
func TestDefault(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 100, c.Grid.Rows)
	assert.Equal(t, 100, c.Grid.Cols)
	assert.Equal(t, 8, c.Grid.CellSize)
	assert.Equal(t, 0.3, c.Simulation.WallDensity)
	assert.Equal(t, time.Millisecond, c.Delay())
	assert.Equal(t, 5*time.Millisecond, c.PathDelay())
	assert.Equal(t, 5, c.ExpandBatch())
	assert.Equal(t, "#9c27b0", c.Colors.Path.Hex())
}

// TestLoad_JSON overrides only the keys present in the file.
func TestLoad_JSON(t *testing.T) {
	path := write(t, "config.json", `{
		"grid": {"rows": 20, "cols": 30},
		"simulation": {"delay_ms": 4},
		"colors": {"wall": [1, 2, 3]}
	}`)
	c, notice := config.Load(path)
	require.Nil(t, notice)
	assert.Equal(t, 20, c.Grid.Rows)
	assert.Equal(t, 30, c.Grid.Cols)
	assert.Equal(t, 8, c.Grid.CellSize)
	assert.Equal(t, 20*time.Millisecond, c.PathDelay())
	assert.Equal(t, config.RGB{1, 2, 3}, c.Colors.Wall)
	assert.Equal(t, config.Default().Colors.Empty, c.Colors.Empty)
}

// TestLoad_YAML reads the same schema from YAML.
func TestLoad_YAML(t *testing.T) {
	path := write(t, "config.yaml", `
grid:
  rows: 12
  cell_size: 4
simulation:
  wall_density: 0.5
server:
  addr: "127.0.0.1:9999"
colors:
  open: [10, 20, 30]
`)
	c, notice := config.Load(path)
	require.Nil(t, notice)
	assert.Equal(t, 12, c.Grid.Rows)
	assert.Equal(t, 100, c.Grid.Cols)
	assert.Equal(t, 4, c.Grid.CellSize)
	assert.Equal(t, 0.5, c.Simulation.WallDensity)
	assert.Equal(t, "127.0.0.1:9999", c.Server.Addr)
	assert.Equal(t, config.RGB{10, 20, 30}, c.Colors.Open)
}

// TestLoad_Fallbacks returns defaults with a notice for missing or broken files.
func TestLoad_Fallbacks(t *testing.T) {
	c, notice := config.Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NotNil(t, notice)
	assert.Equal(t, slog.LevelInfo, notice.Level)
	assert.Equal(t, config.Default(), c)

	c, notice = config.Load(write(t, "broken.json", `{"grid": {"rows": "many"`))
	require.NotNil(t, notice)
	assert.Equal(t, slog.LevelWarn, notice.Level)
	assert.Error(t, notice.Err)
	assert.Equal(t, config.Default(), c)

	c, notice = config.Load("")
	assert.Nil(t, notice)
	assert.Equal(t, config.Default(), c)
}

// TestApplyEnv overrides from the environment and rejects bad numbers.
func TestApplyEnv(t *testing.T) {
	c := config.Default()
	require.NoError(t, c.ApplyEnv(env(map[string]string{
		"ASTARVIZ_ROWS":         "7",
		"ASTARVIZ_WALL_DENSITY": " 0.1 ",
		"ASTARVIZ_REDIS_ADDR":   "localhost:6379",
	})))
	assert.Equal(t, 7, c.Grid.Rows)
	assert.Equal(t, 0.1, c.Simulation.WallDensity)
	assert.Equal(t, "localhost:6379", c.Server.RedisAddr)

	require.ErrorIs(t, c.ApplyEnv(env(map[string]string{"ASTARVIZ_COLS": "wide"})), config.ErrInvalidConfig)
	require.ErrorIs(t, c.ApplyEnv(env(map[string]string{"ASTARVIZ_WALL_DENSITY": "thick"})), config.ErrInvalidConfig)
}

// TestValidate rejects each invalid field.
func TestValidate(t *testing.T) {
	cases := map[string]func(*config.Config){
		"zero rows":     func(c *config.Config) { c.Grid.Rows = 0 },
		"one cell":      func(c *config.Config) { c.Grid.Rows, c.Grid.Cols = 1, 1 },
		"cell size":     func(c *config.Config) { c.Grid.CellSize = 0 },
		"delay":         func(c *config.Config) { c.Simulation.DelayMS = -1 },
		"density high":  func(c *config.Config) { c.Simulation.WallDensity = 1.5 },
		"density low":   func(c *config.Config) { c.Simulation.WallDensity = -0.1 },
		"density NaN":   func(c *config.Config) { c.Simulation.WallDensity = math.NaN() },
		"empty address": func(c *config.Config) { c.Server.Addr = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := config.Default()
			mutate(&c)
			require.ErrorIs(t, c.Validate(), config.ErrInvalidConfig)
		})
	}
}

// TestSetup merges file and environment and validates the result.
func TestSetup(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	path := write(t, "c.json", `{"grid": {"rows": 9, "cols": 9}}`)

	t.Setenv("ASTARVIZ_COLS", "11")
	c, err := config.Setup(path, log)
	require.NoError(t, err)
	assert.Equal(t, 9, c.Grid.Rows)
	assert.Equal(t, 11, c.Grid.Cols)

	t.Setenv("ASTARVIZ_WALL_DENSITY", "2")
	_, err = config.Setup(path, log)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
