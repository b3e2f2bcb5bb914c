package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pthm-cable/lumen/capture"
	"github.com/pthm-cable/lumen/config"
	"github.com/pthm-cable/lumen/frame"
)

// dropCounter is implemented by sources that can lose frames.
type dropCounter interface {
	Dropped() uint64
}

// openSource builds and starts the frame source named by cfg.Capture.Source.
// A webcam source returns capture.ErrNoDevices when no device is present.
func openSource(ctx context.Context, cfg *config.Config, seed int64, devicePattern string) (frame.Source, error) {
	c := cfg.Capture

	switch c.Source {
	case config.SourceNoise:
		slog.Info("source: noise", "width", c.Width, "height", c.Height, "fps", c.TargetFPS)
		return frame.NewNoise(c.Width, c.Height, c.TargetFPS, seed, c.NoiseScale, c.NoiseSpeed), nil

	case config.SourceSolid:
		slog.Info("source: solid", "width", c.Width, "height", c.Height, "color", c.SolidColor[:])
		return frame.NewSolid(c.Width, c.Height, c.TargetFPS, c.SolidColor[0], c.SolidColor[1], c.SolidColor[2]), nil

	case config.SourceWebcam:
		if devicePattern == "" {
			devicePattern = capture.DevicePattern
		}
		device, err := capture.SelectDevice(c.Device, devicePattern)
		if err != nil {
			return nil, err
		}
		cam, err := capture.NewWebcam(device, c.Width, c.Height, c.TargetFPS)
		if err != nil {
			return nil, err
		}
		if err := cam.Start(ctx); err != nil {
			return nil, err
		}
		return cam, nil

	default:
		return nil, fmt.Errorf("%w: capture.source %q", config.ErrInvalid, c.Source)
	}
}

// sourceDropped returns the source's cumulative drop count, or 0.
func sourceDropped(src frame.Source) uint64 {
	if dc, ok := src.(dropCounter); ok {
		return dc.Dropped()
	}
	return 0
}

// sourceName describes the source for the HUD.
func sourceName(src frame.Source, cfg *config.Config) string {
	if cam, ok := src.(*capture.Webcam); ok {
		return cam.Device()
	}
	return cfg.Capture.Source
}
