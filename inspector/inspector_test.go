package inspector

import (
	"testing"

	"github.com/pthm-cable/lumen/camera"
	"github.com/pthm-cable/lumen/systems"
)

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag  string
		want Tag
	}{
		{"", Tag{Widget: WidgetAuto, Max: 1}},
		{"bar", Tag{Widget: WidgetBar, Max: 1}},
		{"spark,max:0.5", Tag{Widget: WidgetSpark, Max: 0.5}},
		{"label,fmt:%.3f", Tag{Widget: WidgetLabel, Max: 1, Format: "%.3f"}},
		{"bar,max:-2,bogus", Tag{Widget: WidgetBar, Max: 1}},
		{"skip", Tag{Widget: WidgetSkip, Max: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := ParseTag(tt.tag); got != tt.want {
				t.Errorf("ParseTag(%q) = %+v, want %+v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestExtractFieldsParticleView(t *testing.T) {
	fields := ExtractFields(&ParticleView{Value: 0.5})
	if len(fields) != 7 {
		t.Fatalf("got %d fields, want 7", len(fields))
	}

	byName := map[string]Field{}
	for _, f := range fields {
		byName[f.Name] = f
	}
	if f := byName["Value"]; f.Widget != WidgetBar || f.Max != 1 || f.Value != float32(0.5) {
		t.Errorf("Value field = %+v", f)
	}
	if f := byName["Recent"]; f.Widget != WidgetSpark || FieldHeight(f) <= FieldHeight(byName["Value"]) {
		t.Errorf("Recent field = %+v", f)
	}
	if series, ok := FloatSeries(byName["Recent"].Value); !ok || len(series) != HistoryLen {
		t.Error("Recent should be a float series")
	}
	if ExtractFields(42) != nil {
		t.Error("non-struct should produce no fields")
	}
}

func TestAutoWidget(t *testing.T) {
	type sample struct {
		On     bool
		Count  int
		Series []float64
		Names  []string
		Inner  struct{ X int }
		hidden float32
	}
	fields := ExtractFields(sample{Series: []float64{1, 2}})

	want := []struct {
		name   string
		widget Widget
	}{
		{"On", WidgetBool},
		{"Count", WidgetLabel},
		{"Series", WidgetSpark},
		{"Names", WidgetLabel},
	}
	if len(fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(fields), len(want))
	}
	for i, w := range want {
		if fields[i].Name != w.name || fields[i].Widget != w.widget {
			t.Errorf("field %d = %s/%v, want %s/%v", i, fields[i].Name, fields[i].Widget, w.name, w.widget)
		}
	}
}

func TestFormatValue(t *testing.T) {
	if got := FormatValue(float32(0.125), ""); got != "0.12" && got != "0.13" {
		t.Errorf("float default = %q", got)
	}
	if got := FormatValue(0.125, "%.3f"); got != "0.125" {
		t.Errorf("explicit fmt = %q", got)
	}
	if got := FormatValue([2]int{3, 4}, ""); got != "[3 4]" {
		t.Errorf("array = %q", got)
	}
	if v, ok := FloatValue(uint64(7)); !ok || v != 7 {
		t.Errorf("FloatValue(uint64) = %v, %v", v, ok)
	}
	if _, ok := FloatValue("x"); ok {
		t.Error("strings are not numeric")
	}
}

func TestPick(t *testing.T) {
	cam := camera.New(640, 480, 640, 480)
	m := systems.Mapping{BaseRadius: 50, MinRadius: 0.1} // 5px idle circles

	particles := []systems.Particle{
		systems.NewParticle(100, 100, 0.5),
		systems.NewParticle(104, 100, 0.5),
		systems.NewParticle(300, 300, 0.5),
	}

	tests := []struct {
		name   string
		sx, sy float32
		want   int
		found  bool
	}{
		{"exact hit", 300, 300, 2, true},
		{"closest of overlapping", 103, 100, 1, true},
		{"miss", 200, 200, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := Pick(particles, cam, m, tt.sx, tt.sy)
			if ok != tt.found || (ok && idx != tt.want) {
				t.Errorf("Pick = (%d, %v), want (%d, %v)", idx, ok, tt.want, tt.found)
			}
		})
	}
}

func TestHistoryOrder(t *testing.T) {
	m := systems.Mapping{BaseRadius: 50, MinRadius: 0.01}
	particles := []systems.Particle{systems.NewParticle(1, 1, 1)}

	ins := &Inspector{}
	if _, ok := ins.View(particles, m); ok {
		t.Fatal("no view without a selection")
	}
	ins.Select(0)

	// Drive the particle so each tick has a distinct velocity
	targets := []float32{1, 0, 1}
	var want []float32
	for _, target := range targets {
		particles[0].Update(target, 0.5)
		want = append(want, particles[0].Velocity())
		ins.Record(particles)
	}

	view, ok := ins.View(particles, m)
	if !ok {
		t.Fatal("expected a view")
	}
	got := view.Recent[HistoryLen-len(want):]
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	for i := 0; i < HistoryLen-len(want); i++ {
		if view.Recent[i] != 0 {
			t.Fatalf("unfilled history slot %d = %v", i, view.Recent[i])
		}
	}

	// Wrap the ring; the newest sample stays last
	for i := 0; i < HistoryLen+5; i++ {
		ins.Record(particles)
	}
	view, _ = ins.View(particles, m)
	if view.Recent[HistoryLen-1] != particles[0].Velocity() {
		t.Error("newest sample should be last after wrap")
	}

	ins.Deselect()
	if _, ok := ins.Selected(); ok {
		t.Error("still selected after Deselect")
	}
}
