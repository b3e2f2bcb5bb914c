package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestOverlayRegistryToggle(t *testing.T) {
	reg := NewOverlayRegistry()

	if reg.IsEnabled(OverlayFeed) {
		t.Fatal("overlays should start disabled")
	}

	id, state, ok := reg.HandleKeyPress(rl.KeyF)
	if !ok || id != OverlayFeed || !state {
		t.Fatalf("HandleKeyPress(F) = %v, %v, %v", id, state, ok)
	}
	if !reg.IsEnabled(OverlayFeed) {
		t.Error("feed should be enabled after key press")
	}

	if _, _, ok := reg.HandleKeyPress(rl.KeyZ); ok {
		t.Error("unbound key should not toggle anything")
	}

	reg.SetEnabled(OverlayHUD, true)
	reg.SetEnabled("missing", true)
	if !reg.IsEnabled(OverlayFeed) || !reg.IsEnabled(OverlayHUD) {
		t.Error("independent overlays should stay enabled together")
	}
	if reg.IsEnabled("missing") {
		t.Error("unknown overlay should not be enabled")
	}

	if reg.Toggle(OverlayFeed) {
		t.Error("second toggle should disable")
	}
	if reg.Toggle("missing") {
		t.Error("unknown overlay should not toggle")
	}
}

func TestOverlayRegistryCategories(t *testing.T) {
	reg := NewOverlayRegistry()
	reg.Register(OverlayDescriptor{ID: "a", Category: "test"})
	reg.Register(OverlayDescriptor{ID: "b", Category: "test", Key: rl.KeyB})

	// Feed and palette are independent: the backdrop stays under either palette
	reg.SetEnabled(OverlayFeed, true)
	reg.SetEnabled(OverlayHuePalette, true)
	if !reg.IsEnabled(OverlayFeed) || !reg.IsEnabled(OverlayHuePalette) {
		t.Error("feed and hue palette should combine")
	}

	cats := reg.Categories()
	if len(cats) != 3 || cats[2] != "test" {
		t.Errorf("Categories() = %v", cats)
	}
	if n := len(reg.ByCategory("test")); n != 2 {
		t.Errorf("ByCategory(test) = %d entries, want 2", n)
	}
	keys := reg.Keys()
	if keys[len(keys)-1] != rl.KeyB {
		t.Errorf("Keys() = %v, want registered key last", keys)
	}
}

func TestTuningClamp(t *testing.T) {
	tests := []struct {
		name string
		in   Tuning
		want Tuning
	}{
		{
			"in range",
			Tuning{Drag: 0.5, TimeScale: 10, BaseRadius: 50, MinRadius: 0.01},
			Tuning{Drag: 0.5, TimeScale: 10, BaseRadius: 50, MinRadius: 0.01},
		},
		{
			"below",
			Tuning{Drag: 0, TimeScale: -1, BaseRadius: 0, MinRadius: -1},
			Tuning{Drag: minDrag, TimeScale: 0, BaseRadius: minBaseRadius, MinRadius: 0},
		},
		{
			"above",
			Tuning{Drag: 2, TimeScale: 100, BaseRadius: 1000, MinRadius: 1},
			Tuning{Drag: 1, TimeScale: maxTimeScale, BaseRadius: maxBaseRadius, MinRadius: maxMinRadius},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(); got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
