package gesture

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/san-kum/xmastree/internal/anim"
)

// Controls is the part of the animation state the bridge drives.
type Controls interface {
	Mode() anim.Mode
	SetMode(anim.Mode)
	SetCameraOffset(x, y float64)
}

// Status is the bridge lifecycle as shown to the UI.
type Status uint8

const (
	StatusIdle Status = iota
	StatusRunning
	StatusFailed
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusFailed:
		return "failed"
	case StatusStopped:
		return "stopped"
	}
	return "unknown"
}

// Bridge turns classifier results into animation state changes.
type Bridge struct {
	ctrl   Controls
	logger *log.Logger

	mu      sync.RWMutex
	status  Status
	err     error
	samples int
	label   string
}

// NewBridge returns an idle bridge. A nil logger discards output.
func NewBridge(ctrl Controls, logger *log.Logger) *Bridge {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Bridge{ctrl: ctrl, logger: logger}
}

// Apply maps one sample onto the controls and reports whether a hand was
// seen. The hand centroid becomes the camera offset, mirrored on x so motion
// feels natural against a mirrored selfie feed. An open palm scatters the
// tree, a closed fist reassembles it; anything else leaves the mode alone.
// A sample without a hand changes nothing.
func (b *Bridge) Apply(s Sample) bool {
	hand, ok := s.Primary()
	if !ok {
		return false
	}
	cx, cy, _ := hand.Center()
	b.ctrl.SetCameraOffset(-(cx-0.5)*2, (cy-0.5)*2)

	label := None
	if g, ok := hand.Top(); ok {
		label = g.Label
	}
	switch label {
	case OpenPalm:
		if b.ctrl.Mode() != anim.Chaos {
			b.ctrl.SetMode(anim.Chaos)
		}
	case ClosedFist:
		if b.ctrl.Mode() != anim.Formed {
			b.ctrl.SetMode(anim.Formed)
		}
	}

	b.mu.Lock()
	b.samples++
	b.label = label
	b.mu.Unlock()
	return true
}

// Run samples src until ctx is done or the source fails. Cancellation is a
// clean stop and returns nil; a failed source is terminal and returns an
// error matching ErrInputUnavailable. Either way src is closed on return and
// the animation state keeps its last values.
func (b *Bridge) Run(ctx context.Context, src Source) error {
	b.setStatus(StatusRunning, nil)
	defer func() {
		if err := src.Close(); err != nil && !errors.Is(err, ErrClosed) {
			b.logger.Printf("gesture: closing %s: %v", src.Name(), err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			b.setStatus(StatusStopped, nil)
			return nil
		default:
		}

		res := src.Next(ctx)
		if ctx.Err() != nil {
			// Results that land after teardown are dropped.
			b.setStatus(StatusStopped, nil)
			return nil
		}

		switch res.Kind {
		case Detected:
			b.Apply(res.Sample)
		case NoDetection:
		case Failed:
			err := &SourceError{Source: src.Name(), Err: res.Err}
			b.setStatus(StatusFailed, err)
			b.logger.Printf("gesture control disabled: %v", err)
			return err
		}
	}
}

func (b *Bridge) setStatus(s Status, err error) {
	b.mu.Lock()
	b.status = s
	b.err = err
	b.mu.Unlock()
}

// Status returns the lifecycle state and, when failed, the cause.
func (b *Bridge) Status() (Status, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status, b.err
}

// LastLabel is the top label of the most recent sample with a hand.
func (b *Bridge) LastLabel() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.label
}

// Samples counts samples that contained a hand.
func (b *Bridge) Samples() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.samples
}
