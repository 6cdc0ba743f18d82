package anim

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

const (
	// DefaultSmoothingRate is the exponential approach rate in 1/s; about 63%
	// of the remaining distance is covered every 0.4s.
	DefaultSmoothingRate = 2.5
	// Epsilon is the smallest progress change that is written back.
	Epsilon = 1e-4
)

// Mode is the discrete target configuration.
type Mode uint8

const (
	Formed Mode = iota
	Chaos
)

func (m Mode) String() string {
	switch m {
	case Formed:
		return "FORMED"
	case Chaos:
		return "CHAOS"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// Target returns the progress value the mode converges to.
func (m Mode) Target() float64 {
	if m == Chaos {
		return 1
	}
	return 0
}

// ParseMode is case-insensitive.
func ParseMode(s string) (Mode, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FORMED":
		return Formed, nil
	case "CHAOS":
		return Chaos, nil
	}
	return 0, fmt.Errorf("anim: unknown mode %q", s)
}

// Vec2 is the normalised hand offset, each component nominally in [-1, 1].
type Vec2 struct {
	X, Y float64
}

// Snapshot is a consistent copy of the state.
type Snapshot struct {
	Mode           Mode
	Progress       float64
	TargetProgress float64
	CameraOffset   Vec2
}

// State is the process-wide animation state shared by the render loop and
// the gesture loop. Progress only changes through Advance; targetProgress is
// always Mode().Target().
type State struct {
	mu       sync.RWMutex
	mode     Mode
	progress float64
	target   float64
	offset   Vec2
	rate     float64
}

// New returns a state in FORMED with progress 0. A non-positive rate selects
// DefaultSmoothingRate.
func New(rate float64) *State {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		rate = DefaultSmoothingRate
	}
	return &State{mode: Formed, rate: rate}
}

// SetMode switches the target configuration. Setting the current mode again
// is a no-op.
func (s *State) SetMode(m Mode) {
	s.mu.Lock()
	s.mode = m
	s.target = m.Target()
	s.mu.Unlock()
}

// SetCameraOffset stores the latest hand offset as-is; callers clamp.
func (s *State) SetCameraOffset(x, y float64) {
	s.mu.Lock()
	s.offset = Vec2{X: x, Y: y}
	s.mu.Unlock()
}

// Advance moves progress towards the target by min(1, dt*rate) of the
// remaining distance. The fraction is clamped so a long stall cannot
// overshoot; negative dt counts as zero. Once progress is within Epsilon of
// the target it is left alone.
func (s *State) Advance(dt float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return
	}
	step := math.Min(1, dt*s.rate)

	s.mu.Lock()
	defer s.mu.Unlock()
	remaining := s.target - s.progress
	if math.Abs(remaining) < Epsilon {
		return
	}
	s.progress += remaining * step
}

func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *State) Progress() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

func (s *State) TargetProgress() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.target
}

func (s *State) CameraOffset() Vec2 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// Rate returns the smoothing rate in 1/s.
func (s *State) Rate() float64 { return s.rate }

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Mode:           s.mode,
		Progress:       s.progress,
		TargetProgress: s.target,
		CameraOffset:   s.offset,
	}
}
