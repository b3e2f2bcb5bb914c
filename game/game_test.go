package game

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/capture"
	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/frame"
	"github.com/pthm-cable/lumen/inspector"
	"github.com/pthm-cable/lumen/systems"
	"github.com/pthm-cable/lumen/telemetry"
	"github.com/pthm-cable/lumen/ui"
)

// fakeClock advances by step on every call.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

// gatedSource returns frames only while open is set.
type gatedSource struct {
	open bool
	fr   *frame.Frame
}

func (s *gatedSource) Poll() (*frame.Frame, bool) {
	if !s.open {
		return nil, false
	}
	return s.fr, true
}

func (s *gatedSource) Close() error { return nil }

const testYAML = `
capture: {source: solid, width: 16, height: 12}
field: {particle_count: 200, drag: 0.5, drag_jitter: 0, time_scale: 10, workers: 1}
telemetry: {stats_window: 0.25}
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newHeadless(t *testing.T, cfg *config.Config, src frame.Source, opts Options) *Game {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1000, 0), step: 100 * time.Millisecond}
	opts.Config = cfg
	opts.Source = src
	opts.Headless = true
	opts.Seed = 7
	opts.Now = clock.Now

	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGameNoDevices(t *testing.T) {
	cfg := testConfig(t)
	cfg.Capture.Source = config.SourceWebcam
	cfg.Capture.Device = ""

	g, err := NewGameWithOptions(Options{
		Config:        cfg,
		Headless:      true,
		DevicePattern: filepath.Join(t.TempDir(), "video*"),
	})
	if !errors.Is(err, capture.ErrNoDevices) {
		t.Fatalf("expected ErrNoDevices, got %v", err)
	}
	if g != nil {
		t.Error("expected no game when the device is missing")
	}
}

func TestHeadlessRedFrame(t *testing.T) {
	cfg := testConfig(t)
	g := newHeadless(t, cfg, frame.NewSolid(16, 12, 0, 255, 0, 0), Options{})

	// First step adopts the frame with dt = 0
	g.UpdateHeadless()
	for _, p := range g.Field().Particles() {
		if p.Value() != 0 || p.Velocity() != 0 {
			t.Fatal("first tick should not move any particle")
		}
	}

	// Second step: dt = 10 * 0.1s = 1, drag 0.5
	g.UpdateHeadless()
	if g.Tick() != 2 {
		t.Fatalf("tick = %d, want 2", g.Tick())
	}

	red := systems.Luma(255, 0, 0)
	for i, p := range g.Field().Particles() {
		if math.Abs(float64(p.Value()-red*0.5)) > 1e-4 {
			t.Fatalf("particle %d value = %v, want %v", i, p.Value(), red*0.5)
		}
		if math.Abs(float64(p.Velocity()-red)) > 1e-4 {
			t.Fatalf("particle %d velocity = %v, want %v", i, p.Velocity(), red)
		}
	}
}

func TestHeadlessWaitsForFirstFrame(t *testing.T) {
	cfg := testConfig(t)
	fr := frame.New(16, 12)
	fr.Fill(255, 255, 255)
	src := &gatedSource{fr: fr}
	g := newHeadless(t, cfg, src, Options{})

	for i := 0; i < 3; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 0 {
		t.Fatalf("ticked %d times without a frame", g.Tick())
	}

	src.open = true
	g.UpdateHeadless()
	src.open = false
	g.UpdateHeadless()
	g.UpdateHeadless()

	// The held frame keeps driving the field
	if g.Tick() != 3 {
		t.Fatalf("tick = %d, want 3", g.Tick())
	}
	if g.Field().Particles()[0].Value() <= 0 {
		t.Error("particles should track the held frame")
	}
}

func TestHeadlessResizeKeepsRunning(t *testing.T) {
	cfg := testConfig(t)
	outDir := t.TempDir()
	src := frame.NewSolid(16, 12, 0, 200, 200, 200)

	var windows []telemetry.WindowStats
	g := newHeadless(t, cfg, src, Options{
		OutputDir:     outDir,
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	for i := 0; i < 3; i++ {
		g.UpdateHeadless()
	}
	src.Resize(32, 24)
	for i := 0; i < 6; i++ {
		g.UpdateHeadless()
	}

	if g.Tick() != 9 {
		t.Fatalf("tick = %d, want 9", g.Tick())
	}
	if w, h := g.Field().Bounds(); w != 32 || h != 24 {
		t.Errorf("bounds = %dx%d, want 32x24", w, h)
	}
	if g.resizes != 1 {
		t.Errorf("resizes = %d, want 1", g.resizes)
	}

	if len(windows) == 0 {
		t.Fatal("expected at least one stats window")
	}
	total := 0
	for _, w := range windows {
		total += w.Resizes
	}
	if total != 1 {
		t.Errorf("windows counted %d resizes, want 1", total)
	}

	g.Unload()
	info, err := os.Stat(filepath.Join(outDir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("telemetry.csv is empty")
	}
	if _, err := os.Stat(filepath.Join(outDir, "config.yaml")); err != nil {
		t.Errorf("config.yaml not written: %v", err)
	}
}

func TestSnapshotRestore(t *testing.T) {
	cfg := testConfig(t)
	snapDir := t.TempDir()

	g := newHeadless(t, cfg, frame.NewNoise(16, 12, 0, 1, 0.1, 1), Options{SnapshotDir: snapDir})
	for i := 0; i < 5; i++ {
		g.UpdateHeadless()
	}
	g.saveSnapshot(nil)

	path := filepath.Join(snapDir, "snapshot_5.json")
	restored := newHeadless(t, cfg, frame.NewSolid(16, 12, 0, 0, 0, 0), Options{RestorePath: path})

	if restored.Tick() != g.Tick() {
		t.Errorf("restored tick = %d, want %d", restored.Tick(), g.Tick())
	}
	a, b := g.Field().Particles(), restored.Field().Particles()
	if len(a) != len(b) {
		t.Fatalf("restored %d particles, want %d", len(b), len(a))
	}
	for i := range a {
		if a[i].Value() != b[i].Value() || a[i].Velocity() != b[i].Velocity() {
			t.Fatalf("particle %d state differs after restore", i)
		}
	}
}

func TestApplyTuning(t *testing.T) {
	cfg := testConfig(t)
	g := newHeadless(t, cfg, frame.NewSolid(16, 12, 0, 0, 0, 0), Options{})

	g.applyTuning(ui.Tuning{Drag: 0.25, TimeScale: 5, BaseRadius: 20, MinRadius: 0.05})

	if g.Field().Drag() != 0.25 {
		t.Errorf("drag = %v, want 0.25", g.Field().Drag())
	}
	if g.clock.Scale() != 5 {
		t.Errorf("time scale = %v, want 5", g.clock.Scale())
	}
	if g.mapping.BaseRadius != 20 || g.mapping.MinRadius != 0.05 {
		t.Errorf("mapping = %+v", g.mapping)
	}
	for _, p := range g.Field().Particles() {
		if p.Drag() != 0.25 {
			t.Fatalf("particle drag = %v, want 0.25", p.Drag())
		}
	}
}

func TestPauseSkipsTicks(t *testing.T) {
	cfg := testConfig(t)
	g := newHeadless(t, cfg, frame.NewSolid(16, 12, 0, 255, 255, 255), Options{})

	g.UpdateHeadless()
	g.SetPaused(true)
	g.UpdateHeadless()
	g.UpdateHeadless()
	if g.Tick() != 1 {
		t.Fatalf("tick = %d while paused, want 1", g.Tick())
	}

	g.SetPaused(false)
	g.UpdateHeadless()
	if g.Tick() != 2 {
		t.Fatalf("tick = %d after resume, want 2", g.Tick())
	}
}

func TestHeadlessRejectsMalformedFrame(t *testing.T) {
	cfg := testConfig(t)
	good := frame.New(16, 12)
	good.Fill(255, 255, 255)
	src := &gatedSource{open: true, fr: good}
	g := newHeadless(t, cfg, src, Options{})

	g.UpdateHeadless()

	// Declares a bigger size than its data holds
	src.fr = &frame.Frame{Width: 32, Height: 24, Data: make([]byte, 16*12*frame.BytesPerPixel)}
	g.UpdateHeadless()
	src.fr = &frame.Frame{Width: 0, Height: 12}
	g.UpdateHeadless()

	if g.resizes != 0 {
		t.Errorf("resizes = %d after malformed frames, want 0", g.resizes)
	}
	if w, h := g.Field().Bounds(); w != 16 || h != 12 {
		t.Errorf("bounds = %dx%d, want the last good 16x12", w, h)
	}
	if g.Tick() != 3 {
		t.Errorf("tick = %d, want 3: the last good frame keeps driving the field", g.Tick())
	}
	if g.frames != 1 {
		t.Errorf("frames = %d, want 1 adopted", g.frames)
	}
}

func TestExitKeyIsFree(t *testing.T) {
	taken := []int32{
		inspector.DeselectKey,
		rl.KeySpace, rl.KeyTab, rl.KeyS, rl.KeyF11, rl.KeyHome,
		rl.KeyEqual, rl.KeyMinus, rl.KeyKpAdd, rl.KeyKpSubtract,
		rl.KeyLeft, rl.KeyRight, rl.KeyUp, rl.KeyDown,
	}
	taken = append(taken, ui.NewOverlayRegistry().Keys()...)

	for _, k := range taken {
		if k == ExitKey {
			t.Fatalf("exit key %d is also bound to an action", k)
		}
	}
}
