package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/lumen/systems"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot holds the complete field state so a run can resume from it.
type Snapshot struct {
	Version int    `json:"version"`
	RunID   string `json:"run_id"`
	RNGSeed int64  `json:"rng_seed"`

	// Spawn area the positions were drawn from
	CaptureWidth  int `json:"capture_width"`
	CaptureHeight int `json:"capture_height"`

	Drag float32 `json:"drag"`
	Tick int32   `json:"tick"`

	Particles []ParticleState `json:"particles"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// ParticleState holds one particle's complete state.
type ParticleState struct {
	X        float32 `json:"x"`
	Y        float32 `json:"y"`
	Drag     float32 `json:"drag"`
	Value    float32 `json:"value"`
	Velocity float32 `json:"velocity"`
}

// CaptureSnapshot records the current field state.
func CaptureSnapshot(field *systems.Field, runID string, seed int64, captureW, captureH int, tick int32) *Snapshot {
	particles := field.Particles()
	states := make([]ParticleState, len(particles))
	for i := range particles {
		p := &particles[i]
		x, y := p.Position()
		states[i] = ParticleState{
			X:        x,
			Y:        y,
			Drag:     p.Drag(),
			Value:    p.Value(),
			Velocity: p.Velocity(),
		}
	}

	return &Snapshot{
		Version:       SnapshotVersion,
		RunID:         runID,
		RNGSeed:       seed,
		CaptureWidth:  captureW,
		CaptureHeight: captureH,
		Drag:          field.Drag(),
		Tick:          tick,
		Particles:     states,
	}
}

// RestoreField rebuilds a field from the snapshot.
func (s *Snapshot) RestoreField(workers int) (*systems.Field, error) {
	if s.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", s.Version, SnapshotVersion)
	}
	if len(s.Particles) == 0 {
		return nil, fmt.Errorf("snapshot has no particles")
	}

	particles := make([]systems.Particle, len(s.Particles))
	for i, ps := range s.Particles {
		particles[i] = systems.RestoreParticle(ps.X, ps.Y, ps.Drag, ps.Value, ps.Velocity)
	}
	return systems.RestoreField(particles, s.Drag, workers), nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	// Build filename
	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		// Sanitize bookmark type for filename
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	name += ".json"

	path := filepath.Join(dir, name)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}
