package game

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/frame"
	"github.com/pthm-cable/lumen/telemetry"
)

// Options configures game initialization.
type Options struct {
	Config *config.Config // nil = config.Cfg()

	Seed     int64  // RNG seed for particle placement and the noise source
	RunID    string // tags snapshots; empty = generated
	Headless bool   // no window: skips renderers and UI

	LogStats      bool
	StatsCallback func(telemetry.WindowStats)
	SnapshotDir   string
	OutputDir     string
	RestorePath   string // snapshot whose particles replace the fresh field

	// Source overrides the configured frame source when set.
	Source frame.Source
	// DevicePattern is the glob used to enumerate webcams. Empty = capture.DevicePattern.
	DevicePattern string
	// Now is the wall clock. Nil = time.Now.
	Now func() time.Time
}

// ExitKey closes the window. raylib's default (Escape) is taken by the
// inspector.
const ExitKey = rl.KeyQ

// controlsLegend is drawn at the bottom of the window.
const controlsLegend = "Space: pause | Tab: overlays | F/C/H/P/T: toggle | Wheel/+/-: zoom | Arrows: pan | Home: reset | Click: inspect | S: snapshot | F11: fullscreen | Q: quit"
