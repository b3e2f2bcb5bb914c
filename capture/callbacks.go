package capture

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"

	"github.com/pthm-cable/lumen/frame"
)

// callbackContext holds state needed by the appsink callback.
type callbackContext struct {
	latest       *frame.Latest
	frameCounter *uint64 // atomic
	bytesRead    *uint64 // atomic
	badFrames    *uint64 // atomic
	width        int     // requested width, used when caps are unreadable
	height       int
}

// onNewSample pulls the newest RGB sample and publishes it as the latest frame.
// A bad sample is skipped rather than ending the stream.
func onNewSample(sink *app.Sink, ctx *callbackContext) gst.FlowReturn {
	sample := sink.PullSample()
	if sample == nil {
		slog.Warn("capture: failed to pull sample from appsink, skipping frame")
		return gst.FlowOK
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		slog.Warn("capture: failed to get buffer from sample, skipping frame")
		return gst.FlowOK
	}

	width, height := negotiatedSize(sink, ctx.width, ctx.height)

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) == 0 {
		buffer.Unmap()
		slog.Warn("capture: empty buffer received")
		return gst.FlowOK
	}

	// Copy out before unmapping; GStreamer reuses the buffer
	pixels, err := packRGB(data, width, height)
	buffer.Unmap()
	if err != nil {
		atomic.AddUint64(ctx.badFrames, 1)
		slog.Warn("capture: skipping malformed frame", "error", err)
		return gst.FlowOK
	}

	seq := atomic.AddUint64(ctx.frameCounter, 1)
	atomic.AddUint64(ctx.bytesRead, uint64(len(data)))

	f := &frame.Frame{
		Seq:       seq,
		Timestamp: time.Now(),
		Width:     width,
		Height:    height,
		Data:      pixels,
		TraceID:   uuid.New().String(),
	}
	ctx.latest.Publish(f)

	slog.Debug("capture: frame published",
		"seq", f.Seq,
		"width", width,
		"height", height,
		"trace_id", f.TraceID,
	)
	return gst.FlowOK
}

// negotiatedSize reads width and height from the appsink's current caps.
// Falls back to the requested size when caps are not yet available.
func negotiatedSize(sink *app.Sink, fallbackW, fallbackH int) (int, int) {
	pad := sink.GetStaticPad("sink")
	if pad == nil {
		return fallbackW, fallbackH
	}
	caps := pad.GetCurrentCaps()
	if caps == nil || caps.GetSize() == 0 {
		return fallbackW, fallbackH
	}

	structure := caps.GetStructureAt(0)
	width, height := fallbackW, fallbackH
	if val, err := structure.GetValue("width"); err == nil {
		if w, ok := val.(int); ok && w > 0 {
			width = w
		}
	}
	if val, err := structure.GetValue("height"); err == nil {
		if h, ok := val.(int); ok && h > 0 {
			height = h
		}
	}
	return width, height
}

// rgbStride is the GStreamer row stride for packed RGB: rows are 4-byte aligned.
func rgbStride(width int) int {
	return (width*frame.BytesPerPixel + 3) &^ 3
}

// packRGB copies a mapped buffer into a tightly packed RGB slice,
// dropping per-row alignment padding when present.
func packRGB(data []byte, width, height int) ([]byte, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}

	row := width * frame.BytesPerPixel
	packed := row * height
	stride := rgbStride(width)

	switch {
	case len(data) >= stride*height && stride != row:
		out := make([]byte, packed)
		for y := 0; y < height; y++ {
			copy(out[y*row:(y+1)*row], data[y*stride:y*stride+row])
		}
		return out, nil
	case len(data) >= packed:
		out := make([]byte, packed)
		copy(out, data[:packed])
		return out, nil
	default:
		return nil, fmt.Errorf("buffer has %d bytes, want %d for %dx%d RGB", len(data), packed, width, height)
	}
}
