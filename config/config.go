// Package config provides configuration loading and access for the particle field.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Capture sources.
const (
	SourceWebcam = "webcam"
	SourceNoise  = "noise"
	SourceSolid  = "solid"
)

// Particle palettes.
const (
	PaletteRed = "red"
	PaletteHue = "hue"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds all configuration parameters.
type Config struct {
	Capture   CaptureConfig   `yaml:"capture"`
	Field     FieldConfig     `yaml:"field"`
	Render    RenderConfig    `yaml:"render"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// CaptureConfig holds frame source settings.
type CaptureConfig struct {
	Source     string   `yaml:"source"`      // webcam, noise or solid
	Device     string   `yaml:"device"`      // device node; empty = first found
	Width      int      `yaml:"width"`       // requested capture width
	Height     int      `yaml:"height"`      // requested capture height
	TargetFPS  float64  `yaml:"target_fps"`  // requested capture rate
	SolidColor [3]uint8 `yaml:"solid_color"` // RGB for the solid source
	NoiseScale float64  `yaml:"noise_scale"` // spatial frequency for the noise source
	NoiseSpeed float64  `yaml:"noise_speed"` // temporal speed for the noise source
}

// FieldConfig holds particle field parameters.
type FieldConfig struct {
	ParticleCount int     `yaml:"particle_count"`
	Drag          float64 `yaml:"drag"`        // damping factor in (0,1]
	DragJitter    float64 `yaml:"drag_jitter"` // per-particle drag variation in [0,1)
	TimeScale     float64 `yaml:"time_scale"`  // seconds -> blend factor multiplier
	Seed          int64   `yaml:"seed"`        // 0 = time-based
	Workers       int     `yaml:"workers"`     // >1 enables parallel tick
}

// RenderConfig holds display and render mapping settings.
type RenderConfig struct {
	BaseRadius   float64 `yaml:"base_radius"`
	MinRadius    float64 `yaml:"min_radius"` // velocity floor so circles never vanish
	Palette      string  `yaml:"palette"`
	ShowFeed     bool    `yaml:"show_feed"`
	ScreenWidth  int     `yaml:"screen_width"`
	ScreenHeight int     `yaml:"screen_height"`
	Fullscreen   bool    `yaml:"fullscreen"`
	TargetFPS    int     `yaml:"target_fps"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Drag32       float32 // Field.Drag as float32
	DragJitter32 float32 // Field.DragJitter as float32
	TimeScale32  float32 // Field.TimeScale as float32
	BaseRadius32 float32 // Render.BaseRadius as float32
	MinRadius32  float32 // Render.MinRadius as float32
	CaptureW32   float32 // Capture.Width as float32
	CaptureH32   float32 // Capture.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are broken: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates c and recomputes derived values. Call it after
// editing a loaded config in place.
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Validate checks parameter ranges.
func (c *Config) Validate() error {
	switch c.Capture.Source {
	case SourceWebcam, SourceNoise, SourceSolid:
	default:
		return fmt.Errorf("%w: capture.source %q", ErrInvalid, c.Capture.Source)
	}
	if c.Capture.Width <= 0 || c.Capture.Height <= 0 {
		return fmt.Errorf("%w: capture size %dx%d", ErrInvalid, c.Capture.Width, c.Capture.Height)
	}
	if c.Capture.TargetFPS <= 0 {
		return fmt.Errorf("%w: capture.target_fps %v", ErrInvalid, c.Capture.TargetFPS)
	}
	if c.Field.ParticleCount <= 0 {
		return fmt.Errorf("%w: field.particle_count %d", ErrInvalid, c.Field.ParticleCount)
	}
	if c.Field.Drag <= 0 || c.Field.Drag > 1 {
		return fmt.Errorf("%w: field.drag %v not in (0,1]", ErrInvalid, c.Field.Drag)
	}
	if c.Field.DragJitter < 0 || c.Field.DragJitter >= 1 {
		return fmt.Errorf("%w: field.drag_jitter %v not in [0,1)", ErrInvalid, c.Field.DragJitter)
	}
	if c.Field.TimeScale < 0 {
		return fmt.Errorf("%w: field.time_scale %v", ErrInvalid, c.Field.TimeScale)
	}
	if c.Render.BaseRadius < 0 || c.Render.MinRadius < 0 {
		return fmt.Errorf("%w: negative radius", ErrInvalid)
	}
	switch c.Render.Palette {
	case PaletteRed, PaletteHue:
	default:
		return fmt.Errorf("%w: render.palette %q", ErrInvalid, c.Render.Palette)
	}
	if c.Render.ScreenWidth <= 0 || c.Render.ScreenHeight <= 0 {
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.Render.ScreenWidth, c.Render.ScreenHeight)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.Field.Workers < 1 {
		c.Field.Workers = 1
	}
	if c.Telemetry.PerfCollectorWindow < 1 {
		c.Telemetry.PerfCollectorWindow = 120
	}

	c.Derived.Drag32 = float32(c.Field.Drag)
	c.Derived.DragJitter32 = float32(c.Field.DragJitter)
	c.Derived.TimeScale32 = float32(c.Field.TimeScale)
	c.Derived.BaseRadius32 = float32(c.Render.BaseRadius)
	c.Derived.MinRadius32 = float32(c.Render.MinRadius)
	c.Derived.CaptureW32 = float32(c.Capture.Width)
	c.Derived.CaptureH32 = float32(c.Capture.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
