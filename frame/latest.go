package frame

import (
	"sync"
	"sync/atomic"
)

// Latest is a single-slot mailbox between a capture thread and the render
// loop. Publish overwrites any unconsumed frame; Poll takes the frame and
// empties the slot.
type Latest struct {
	mu    sync.Mutex
	frame *Frame

	published uint64
	dropped   uint64
}

// Publish stores f as the newest frame. Never blocks.
func (l *Latest) Publish(f *Frame) {
	l.mu.Lock()
	if l.frame != nil {
		atomic.AddUint64(&l.dropped, 1)
	}
	l.frame = f
	l.mu.Unlock()
	atomic.AddUint64(&l.published, 1)
}

// Poll returns the pending frame, if any, and clears the slot.
func (l *Latest) Poll() (*Frame, bool) {
	l.mu.Lock()
	f := l.frame
	l.frame = nil
	l.mu.Unlock()
	return f, f != nil
}

// Published returns the number of frames published so far.
func (l *Latest) Published() uint64 {
	return atomic.LoadUint64(&l.published)
}

// Dropped returns how many frames were overwritten before being polled.
func (l *Latest) Dropped() uint64 {
	return atomic.LoadUint64(&l.dropped)
}
