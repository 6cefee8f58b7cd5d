// Command astarviz runs A* searches over grid mazes: as an HTTP service
// with a live event stream, as a one-shot solver, or as a maze generator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/config"
	"github.com/katalvlaran/astarviz/event"
	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/maze"
	"github.com/katalvlaran/astarviz/metrics"
	"github.com/katalvlaran/astarviz/server"
	"github.com/katalvlaran/astarviz/store"
)

// maxSolvableAttempts bounds the reseeding loop of "random -solvable".
const maxSolvableAttempts = 1000

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("astarviz", flag.ContinueOnError)
	global.SetOutput(stderr)
	var (
		cfgPath = global.String("config", "config.json", "Configuration file (.json, .yaml or .yml)")
		verbose = global.Bool("v", false, "Debug logging")
	)
	global.Usage = func() {
		fmt.Fprintf(stderr, "Usage: astarviz [options] <command> [args]\n\n")
		fmt.Fprintf(stderr, "Commands:\n")
		fmt.Fprintf(stderr, "  serve                 Serve the HTTP API\n")
		fmt.Fprintf(stderr, "  solve <maze.txt>      Solve a maze and print the result\n")
		fmt.Fprintf(stderr, "  random [flags]        Generate a random maze\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		global.PrintDefaults()
	}
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := config.Setup(*cfgPath, log)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	switch cmd {
	case "serve":
		err = serve(cfg, log)
	case "solve":
		err = solve(cfg, log, rest, stdout, stderr)
	case "random":
		err = random(cfg, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown command %q\n\n", cmd)
		global.Usage()
		return 2
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	session, err := server.NewSession(cfg, log, metrics.New(reg))
	if err != nil {
		return err
	}
	defer session.Close()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	router := server.NewRouter(server.Config{
		Addr:    cfg.Server.Addr,
		BaseURL: "/api",
		Controllers: []server.Controller{
			server.NewGridController(session, st),
			server.NewRunController(session, "/api/v1"),
		},
		Gatherer: reg,
		Logger:   log,
	})

	return router.Run(ctx)
}

// openStore picks redis when an address is configured, files otherwise.
func openStore(ctx context.Context, cfg config.Config, log *slog.Logger) (store.Store, error) {
	if cfg.Server.RedisAddr == "" {
		log.Info("maze store", slog.String("backend", "file"), slog.String("dir", cfg.Server.MazeDir))
		return store.NewFileStore(cfg.Server.MazeDir)
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.Server.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis %s: %w", cfg.Server.RedisAddr, err)
	}
	log.Info("maze store", slog.String("backend", "redis"), slog.String("addr", cfg.Server.RedisAddr))

	return store.NewRedisStore(client, "", 0), nil
}

// solve runs one search to completion and prints the final grid.
func solve(cfg config.Config, log *slog.Logger, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	paced := fs.Bool("paced", false, "Apply the configured search and path delays")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("solve needs exactly one maze file")
	}

	g, err := maze.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	opts := []astar.Option{astar.WithLogger(log)}
	if *paced {
		opts = append(opts, astar.WithStepDelay(cfg.PathDelay()), astar.WithExpandPacing(cfg.ExpandBatch(), cfg.Delay()))
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, events, err := astar.Solve(ctx, g, g.Start(), g.End(), opts...)
	if err != nil {
		return err
	}

	board := event.NewBoard(g.Rows(), g.Cols())
	for _, e := range events {
		event.Apply(board, e)
	}
	fmt.Fprint(stdout, render(g, board))
	status := board.Status
	if status == "" {
		status = res.State.String()
	}
	fmt.Fprintf(stdout, "%s (expanded %d, %s)\n", status, res.Expanded, res.Duration.Round(time.Microsecond))

	if res.State == astar.StateFailed && res.Err != nil {
		return res.Err
	}

	return nil
}

// render draws the board: S/E endpoints, # walls, * path, x closed, o open.
func render(g *grid.Grid, b *event.Board) string {
	var sb strings.Builder
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			p := grid.Pos(r, c)
			n, _ := g.Node(p)
			switch {
			case n.Role == grid.RoleStart:
				sb.WriteByte(maze.CharStart)
			case n.Role == grid.RoleEnd:
				sb.WriteByte(maze.CharEnd)
			case n.Wall:
				sb.WriteByte(maze.CharWall)
			default:
				sb.WriteByte(visualChar(b.At(p)))
			}
		}
		sb.WriteByte('\n')
	}

	return sb.String()
}

func visualChar(v grid.VisualState) byte {
	switch v {
	case grid.VisualPath:
		return '*'
	case grid.VisualClosed:
		return 'x'
	case grid.VisualOpen:
		return 'o'
	}

	return maze.CharEmpty
}

// random writes a random maze, optionally retrying seeds until it is solvable.
func random(cfg config.Config, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("random", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		rows     = fs.Int("rows", cfg.Grid.Rows, "Number of rows")
		cols     = fs.Int("cols", cfg.Grid.Cols, "Number of columns")
		density  = fs.Float64("density", cfg.Simulation.WallDensity, "Wall probability per cell")
		seed     = fs.Int64("seed", time.Now().UnixNano(), "Random seed")
		solvable = fs.Bool("solvable", false, "Reseed until End is reachable from Start")
		out      = fs.String("o", "", "Output file (default: stdout)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	g, err := grid.New(*rows, *cols, grid.Pos(0, 0), grid.Pos(*rows-1, *cols-1))
	if err != nil {
		return err
	}
	s := *seed
	for attempt := 1; ; attempt++ {
		if err = g.RandomizeWalls(*density, rand.New(rand.NewSource(s))); err != nil {
			return err
		}
		if !*solvable || g.Reachable(g.Start(), g.End()) {
			break
		}
		if attempt == maxSolvableAttempts {
			return fmt.Errorf("no solvable maze after %d seeds from %d", attempt, *seed)
		}
		s++
	}

	if *out == "" {
		return maze.Encode(stdout, g)
	}
	if err = maze.SaveFile(*out, g); err != nil {
		return err
	}
	fmt.Fprintf(stderr, "wrote %dx%d maze (seed %d) to %s\n", *rows, *cols, s, *out)

	return nil
}
