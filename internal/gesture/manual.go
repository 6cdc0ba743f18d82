package gesture

import (
	"context"
	"sync"
	"time"
)

// ManualSource passes samples pushed by the user interface to the bridge.
// Used for keyboard and mouse "hand" control when no camera is attached.
type ManualSource struct {
	ch    chan Sample
	start time.Time

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewManual returns a source buffering up to buffer samples. When the buffer
// is full new pushes are dropped; the bridge only cares about the latest
// hand anyway.
func NewManual(buffer int) *ManualSource {
	if buffer < 1 {
		buffer = 1
	}
	return &ManualSource{
		ch:    make(chan Sample, buffer),
		start: time.Now(),
		done:  make(chan struct{}),
	}
}

func (m *ManualSource) Name() string { return "manual" }

// Push queues s without blocking and reports whether it was accepted.
func (m *ManualSource) Push(s Sample) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return false
	}
	if s.At == 0 {
		s.At = time.Since(m.start)
	}
	select {
	case m.ch <- s:
		return true
	default:
		return false
	}
}

// PushHand queues a synthetic hand at (x, y) showing label.
func (m *ManualSource) PushHand(x, y float64, label string) bool {
	return m.Push(Sample{Hands: []Hand{SyntheticHand(x, y, label)}})
}

func (m *ManualSource) Next(ctx context.Context) Result {
	select {
	case <-ctx.Done():
		return failed(ctx.Err())
	case <-m.done:
		return failed(ErrClosed)
	case s := <-m.ch:
		if _, ok := s.Primary(); !ok {
			return noDetection()
		}
		return detected(s)
	}
}

// Close may be called more than once; later calls return ErrClosed.
func (m *ManualSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.closed = true
	close(m.done)
	return nil
}
