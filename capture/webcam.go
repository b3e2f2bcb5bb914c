// Package capture streams frames from a V4L2 webcam through GStreamer.
package capture

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/pthm-cable/lumen/frame"
)

// ErrNotStarted is returned by operations that need a running pipeline.
var ErrNotStarted = errors.New("capture: webcam not started")

// Stats reports capture counters.
type Stats struct {
	Device     string
	Resolution string
	Frames     uint64
	Dropped    uint64 // overwritten before the render loop polled them
	BadFrames  uint64
	BytesRead  uint64
	Uptime     time.Duration
}

// Webcam is a frame.Source backed by a live GStreamer pipeline.
type Webcam struct {
	cfg PipelineConfig

	mu       sync.Mutex
	elements *PipelineElements
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	started  time.Time

	latest     frame.Latest
	frameCount uint64
	bytesRead  uint64
	badFrames  uint64

	busErr atomic.Value // error
}

// NewWebcam resolves the capture device and returns an unstarted webcam.
// Returns ErrNoDevices when device is empty and none can be enumerated.
func NewWebcam(device string, width, height int, fps float64) (*Webcam, error) {
	dev, err := SelectDevice(device, DevicePattern)
	if err != nil {
		return nil, err
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("capture: invalid size %dx%d", width, height)
	}

	return &Webcam{
		cfg: PipelineConfig{
			Device:    dev,
			Width:     width,
			Height:    height,
			TargetFPS: fps,
		},
	}, nil
}

// Device returns the device node in use.
func (w *Webcam) Device() string {
	return w.cfg.Device
}

// Start builds the pipeline, sets it to PLAYING, and monitors its bus
// until ctx is cancelled or Close is called.
func (w *Webcam) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel != nil {
		return fmt.Errorf("capture: webcam already started")
	}

	elements, err := CreatePipeline(w.cfg)
	if err != nil {
		return fmt.Errorf("capture: creating pipeline: %w", err)
	}

	cbCtx := &callbackContext{
		latest:       &w.latest,
		frameCounter: &w.frameCount,
		bytesRead:    &w.bytesRead,
		badFrames:    &w.badFrames,
		width:        w.cfg.Width,
		height:       w.cfg.Height,
	}
	elements.AppSink.SetCallbacks(&app.SinkCallbacks{
		NewSampleFunc: func(sink *app.Sink) gst.FlowReturn {
			return onNewSample(sink, cbCtx)
		},
	})

	if err := elements.Pipeline.SetState(gst.StatePlaying); err != nil {
		_ = DestroyPipeline(elements)
		return fmt.Errorf("capture: starting pipeline on %s: %w", w.cfg.Device, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.elements = elements
	w.cancel = cancel
	w.started = time.Now()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := monitorBus(runCtx, elements.Pipeline); err != nil {
			w.busErr.Store(err)
		}
	}()

	slog.Info("capture: webcam started",
		"device", w.cfg.Device,
		"width", w.cfg.Width,
		"height", w.cfg.Height,
		"target_fps", w.cfg.TargetFPS,
	)
	return nil
}

// Poll returns the newest frame, if one arrived since the last call.
func (w *Webcam) Poll() (*frame.Frame, bool) {
	return w.latest.Poll()
}

// Dropped returns how many frames were overwritten before being polled.
func (w *Webcam) Dropped() uint64 {
	return w.latest.Dropped()
}

// Err returns the error that stopped the pipeline, if any.
func (w *Webcam) Err() error {
	if err, ok := w.busErr.Load().(error); ok {
		return err
	}
	return nil
}

// Stats returns a snapshot of capture counters.
func (w *Webcam) Stats() Stats {
	w.mu.Lock()
	started := w.started
	w.mu.Unlock()

	var uptime time.Duration
	if !started.IsZero() {
		uptime = time.Since(started)
	}
	return Stats{
		Device:     w.cfg.Device,
		Resolution: fmt.Sprintf("%dx%d", w.cfg.Width, w.cfg.Height),
		Frames:     atomic.LoadUint64(&w.frameCount),
		Dropped:    w.latest.Dropped(),
		BadFrames:  atomic.LoadUint64(&w.badFrames),
		BytesRead:  atomic.LoadUint64(&w.bytesRead),
		Uptime:     uptime,
	}
}

// Close stops the bus monitor and releases the device.
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cancel == nil {
		return ErrNotStarted
	}
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		slog.Warn("capture: stop timeout exceeded, bus monitor may still be running")
	}

	err := DestroyPipeline(w.elements)
	w.elements = nil
	w.cancel = nil

	slog.Info("capture: webcam stopped",
		"device", w.cfg.Device,
		"frames", atomic.LoadUint64(&w.frameCount),
		"dropped", w.latest.Dropped(),
		"uptime", time.Since(w.started),
	)
	return err
}

// monitorBus drains pipeline bus messages until ctx is done.
// Returns an error on EOS or a pipeline error.
func monitorBus(ctx context.Context, pipeline *gst.Pipeline) error {
	bus := pipeline.GetPipelineBus()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		msg := bus.TimedPop(50 * time.Millisecond)
		if msg == nil {
			continue
		}

		switch msg.Type() {
		case gst.MessageEOS:
			slog.Warn("capture: end of stream received")
			return fmt.Errorf("capture: end of stream")

		case gst.MessageError:
			gerr := msg.ParseError()
			slog.Error("capture: pipeline error",
				"error", gerr.Error(),
				"debug", gerr.DebugString(),
			)
			return fmt.Errorf("capture: pipeline error: %s", gerr.Error())

		case gst.MessageStateChanged:
			if msg.Source() == pipeline.GetName() {
				old, next := msg.ParseStateChanged()
				slog.Debug("capture: pipeline state changed", "from", old, "to", next)
			}
		}
	}
}
