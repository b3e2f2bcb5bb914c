package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"github.com/pthm-cable/lumen/capture"
	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for snapshot files")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	restore := flag.String("restore", "", "Snapshot file to seed the particle field from")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, then time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	verbose := flag.Bool("v", false, "Debug logging")
	devices := flag.String("devices", capture.DevicePattern, "Glob for webcam device nodes")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Use config stats window if not overridden by CLI
	if *statsWindow > 0 {
		cfg.Telemetry.StatsWindow = *statsWindow
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = cfg.Field.Seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:        rngSeed,
		RunID:       uuid.NewString(),
		LogStats:    *logStats,
		SnapshotDir: *snapshotDir,
		OutputDir:   *outputDir,
		RestorePath: *restore,
		Headless:    *headless,

		DevicePattern: *devices,
	}

	if *headless {
		g := newGame(opts)
		defer g.Unload()

		slog.Info("starting headless run",
			"run_id", opts.RunID,
			"seed", rngSeed,
			"stats_window", cfg.Telemetry.StatsWindow,
			"max_ticks", *maxTicks,
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				return
			}
		}
	}

	// Graphical mode
	if cfg.Render.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode)
	} else {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Render.ScreenWidth), int32(cfg.Render.ScreenHeight), "Lumen")
	defer rl.CloseWindow()

	rl.SetExitKey(game.ExitKey)
	rl.SetTargetFPS(int32(cfg.Render.TargetFPS))

	g := newGame(opts)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}

// newGame builds the game or exits. A missing capture device is fatal.
func newGame(opts game.Options) *game.Game {
	g, err := game.NewGameWithOptions(opts)
	if err == nil {
		return g
	}

	if errors.Is(err, capture.ErrNoDevices) {
		slog.Error("no capture devices found", "pattern", opts.DevicePattern)
	} else {
		slog.Error("failed to start", "error", err)
	}
	if rl.IsWindowReady() {
		rl.CloseWindow()
	}
	os.Exit(1)
	return nil
}
