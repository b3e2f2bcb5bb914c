// Package game composes the frame source, particle field, renderers, UI and
// telemetry into the per-tick loop.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/google/uuid"

	"github.com/pthm-cable/lumen/camera"
	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/frame"
	"github.com/pthm-cable/lumen/inspector"
	"github.com/pthm-cable/lumen/renderer"
	"github.com/pthm-cable/lumen/systems"
	"github.com/pthm-cable/lumen/telemetry"
	"github.com/pthm-cable/lumen/ui"
)

// feedAlpha is how strongly the camera feed shows behind the particles.
const feedAlpha = 90

// Game holds the complete loop state.
type Game struct {
	cfg     *config.Config
	rng     *rand.Rand
	rngSeed int64
	runID   string
	now     func() time.Time

	// Frame source
	source       frame.Source
	cancelSource context.CancelFunc
	current      *frame.Frame // last adopted frame, reused until replaced

	// Particle field
	field    *systems.Field
	clock    *systems.TickClock
	mapping  systems.Mapping
	tuning   ui.Tuning
	defaults ui.Tuning

	// Rendering (nil when headless)
	camera        *camera.Camera
	fieldRenderer *renderer.FieldRenderer
	feed          *renderer.FrameTexture

	// UI (nil when headless)
	overlays    *ui.OverlayRegistry
	hud         *ui.HUD
	controls    *ui.ControlsPanel
	perfPanel   *ui.PerfPanel
	tuningPanel *ui.TuningPanel
	inspector   *inspector.Inspector

	// Telemetry
	perfCollector    *telemetry.PerfCollector
	collector        *telemetry.Collector
	bookmarkDetector *telemetry.BookmarkDetector
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	lastStats        telemetry.WindowStats
	logStats         bool
	snapshotDir      string

	// State
	tick     int32
	paused   bool
	headless bool
	lastStep time.Time
	frames   uint64
	resizes  int

	screenWidth, screenHeight float32
}

// NewGameWithOptions creates a game. It fails before any tick runs when the
// frame source cannot be opened (capture.ErrNoDevices for a missing webcam).
// In graphical mode the raylib window must already exist.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		rngSeed:       opts.Seed,
		runID:         runID,
		now:           now,
		headless:      opts.Headless,
		logStats:      opts.LogStats,
		snapshotDir:   opts.SnapshotDir,
		statsCallback: opts.StatsCallback,
		mapping:       systems.MappingFromConfig(cfg),
		clock:         systems.NewTickClock(cfg.Derived.TimeScale32),
	}

	g.defaults = ui.Tuning{
		Drag:       cfg.Derived.Drag32,
		TimeScale:  cfg.Derived.TimeScale32,
		BaseRadius: cfg.Derived.BaseRadius32,
		MinRadius:  cfg.Derived.MinRadius32,
	}
	g.tuning = g.defaults

	// Source first: a missing device must abort before anything else is built
	if opts.Source != nil {
		g.source = opts.Source
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		src, err := openSource(ctx, cfg, opts.Seed, opts.DevicePattern)
		if err != nil {
			cancel()
			return nil, err
		}
		g.source = src
		g.cancelSource = cancel
	}

	if err := g.initField(opts.RestorePath); err != nil {
		g.closeSource()
		return nil, err
	}

	// Telemetry
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.collector = telemetry.NewCollector(cfg.Telemetry.StatsWindow, cfg.Derived.MinRadius32)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(10)

	if opts.OutputDir != "" {
		om, err := telemetry.NewOutputManager(opts.OutputDir)
		if err != nil {
			g.Unload()
			return nil, fmt.Errorf("game: %w", err)
		}
		g.outputManager = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	if !g.headless {
		g.initGraphics()
	}

	slog.Info("game initialized",
		"run_id", g.runID,
		"seed", g.rngSeed,
		"source", sourceName(g.source, cfg),
		"particles", g.field.Len(),
		"workers", cfg.Field.Workers,
		"headless", g.headless,
	)

	return g, nil
}

// initField creates the particle field, or restores it from a snapshot.
func (g *Game) initField(restorePath string) error {
	cfg := g.cfg

	if restorePath != "" {
		snap, err := telemetry.LoadSnapshot(restorePath)
		if err != nil {
			return fmt.Errorf("game: %w", err)
		}
		field, err := snap.RestoreField(cfg.Field.Workers)
		if err != nil {
			return fmt.Errorf("game: %w", err)
		}
		if snap.CaptureWidth != cfg.Capture.Width || snap.CaptureHeight != cfg.Capture.Height {
			slog.Warn("snapshot capture size differs from config",
				"snapshot", []int{snap.CaptureWidth, snap.CaptureHeight},
				"config", []int{cfg.Capture.Width, cfg.Capture.Height},
			)
		}
		g.field = field
		g.tick = snap.Tick
		g.tuning.Drag = field.Drag()
		slog.Info("field restored", "path", restorePath, "tick", snap.Tick, "particles", field.Len())
		return nil
	}

	g.field = systems.NewField(systems.FieldOptions{
		Count:      cfg.Field.ParticleCount,
		SpawnW:     cfg.Derived.CaptureW32,
		SpawnH:     cfg.Derived.CaptureH32,
		Drag:       cfg.Derived.Drag32,
		DragJitter: cfg.Derived.DragJitter32,
		Workers:    cfg.Field.Workers,
	}, g.rng)
	return nil
}

// initGraphics builds the camera, renderers and UI. Requires a raylib window.
func (g *Game) initGraphics() {
	cfg := g.cfg

	g.screenWidth = float32(rl.GetScreenWidth())
	g.screenHeight = float32(rl.GetScreenHeight())

	g.camera = camera.New(g.screenWidth, g.screenHeight, cfg.Derived.CaptureW32, cfg.Derived.CaptureH32)
	g.fieldRenderer = renderer.NewFieldRenderer(g.mapping)
	g.feed = renderer.NewFrameTexture(feedAlpha)

	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayFeed, cfg.Render.ShowFeed)
	g.overlays.SetEnabled(ui.OverlayHuePalette, cfg.Render.Palette == config.PaletteHue)

	g.hud = ui.NewHUD()
	g.controls = ui.NewControlsPanel(int32(g.screenWidth)-230, 10, 220)
	g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-270, int32(g.screenHeight)-150)
	g.tuningPanel = ui.NewTuningPanel(20, 190, 260, g.defaults)
	g.inspector = inspector.NewInspector(int32(g.screenWidth), int32(g.screenHeight))
}

// Tick returns the number of field ticks run so far.
func (g *Game) Tick() int32 {
	return g.tick
}

// RunID returns the run identifier.
func (g *Game) RunID() string {
	return g.runID
}

// Field exposes the particle field.
func (g *Game) Field() *systems.Field {
	return g.field
}

// Update handles input and advances the field by one tick.
// The perf tick stays open until Draw.
func (g *Game) Update() {
	g.perfCollector.StartTick()
	g.handleInput()

	if g.paused {
		return
	}
	g.step()
}

// UpdateHeadless advances the field by one tick without input or drawing.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartTick()
	if !g.paused {
		g.step()
	}
	g.perfCollector.EndTick()
}

// SetPaused pauses or resumes ticking. Resuming restarts the tick clock so
// the paused interval does not become one large dt.
func (g *Game) SetPaused(paused bool) {
	if g.paused == paused {
		return
	}
	g.paused = paused
	if !paused && g.current != nil {
		g.clock.Reset(g.now())
		g.lastStep = g.now()
	}
	slog.Info("pause toggled", "paused", paused, "tick", g.tick)
}

// Unload releases the source, GPU resources and output files.
func (g *Game) Unload() {
	if g.feed != nil {
		g.feed.Unload()
	}
	if g.field != nil {
		g.field.Close()
	}
	g.closeSource()
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
		g.outputManager = nil
	}
}

func (g *Game) closeSource() {
	if g.source == nil {
		return
	}
	if err := g.source.Close(); err != nil {
		slog.Warn("source close", "error", err)
	}
	if g.cancelSource != nil {
		g.cancelSource()
	}
	g.source = nil
}
