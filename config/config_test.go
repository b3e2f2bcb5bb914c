package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Capture.Width != 640 || cfg.Capture.Height != 480 {
		t.Errorf("capture size = %dx%d, want 640x480", cfg.Capture.Width, cfg.Capture.Height)
	}
	if cfg.Field.ParticleCount != 10000 {
		t.Errorf("particle_count = %d, want 10000", cfg.Field.ParticleCount)
	}
	if cfg.Field.Drag != 0.5 {
		t.Errorf("drag = %v, want 0.5", cfg.Field.Drag)
	}
	if cfg.Field.TimeScale != 10.0 {
		t.Errorf("time_scale = %v, want 10", cfg.Field.TimeScale)
	}
	if cfg.Render.BaseRadius != 50.0 {
		t.Errorf("base_radius = %v, want 50", cfg.Render.BaseRadius)
	}
	if cfg.Render.MinRadius != 0.01 {
		t.Errorf("min_radius = %v, want 0.01", cfg.Render.MinRadius)
	}
	if cfg.Capture.Source != SourceWebcam {
		t.Errorf("source = %q, want %q", cfg.Capture.Source, SourceWebcam)
	}
	if cfg.Derived.Drag32 != 0.5 || cfg.Derived.TimeScale32 != 10 {
		t.Errorf("derived values not computed: %+v", cfg.Derived)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("field:\n  particle_count: 250\ncapture:\n  source: noise\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Field.ParticleCount != 250 {
		t.Errorf("particle_count = %d, want 250", cfg.Field.ParticleCount)
	}
	if cfg.Capture.Source != SourceNoise {
		t.Errorf("source = %q, want noise", cfg.Capture.Source)
	}
	// Keys absent from the user file keep their defaults
	if cfg.Field.Drag != 0.5 {
		t.Errorf("drag = %v, want default 0.5", cfg.Field.Drag)
	}
	if cfg.Capture.Width != 640 {
		t.Errorf("width = %d, want default 640", cfg.Capture.Width)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero width", func(c *Config) { c.Capture.Width = 0 }},
		{"negative height", func(c *Config) { c.Capture.Height = -1 }},
		{"zero particles", func(c *Config) { c.Field.ParticleCount = 0 }},
		{"zero drag", func(c *Config) { c.Field.Drag = 0 }},
		{"drag above one", func(c *Config) { c.Field.Drag = 1.5 }},
		{"jitter of one", func(c *Config) { c.Field.DragJitter = 1 }},
		{"negative time scale", func(c *Config) { c.Field.TimeScale = -1 }},
		{"negative radius", func(c *Config) { c.Render.BaseRadius = -1 }},
		{"unknown source", func(c *Config) { c.Capture.Source = "vhs" }},
		{"unknown palette", func(c *Config) { c.Render.Palette = "sepia" }},
		{"zero fps", func(c *Config) { c.Capture.TargetFPS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() = %v, want ErrInvalid", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate, got %v", err)
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg := Default()
	cfg.Field.ParticleCount = 42
	cfg.Render.Palette = PaletteHue

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Field.ParticleCount != 42 || loaded.Render.Palette != PaletteHue {
		t.Errorf("roundtrip lost values: count=%d palette=%q", loaded.Field.ParticleCount, loaded.Render.Palette)
	}
}

func TestCfgBeforeInitPanics(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic from Cfg() before Init()")
		}
	}()
	Cfg()
}
