package metrics

import (
	"math"

	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/scene"
)

// SettleTime measures how long progress took to come within tol of its
// target after the most recent mode change. It reports -1 while unsettled.
type SettleTime struct {
	name    string
	tol     float64
	seen    bool
	mode    anim.Mode
	since   float64
	settled float64
}

func NewSettleTime(tol float64) *SettleTime {
	return &SettleTime{name: "settle_time", tol: tol, settled: -1}
}

func (s *SettleTime) Name() string { return s.name }

func (s *SettleTime) Observe(f *scene.Frame) {
	snap := f.Snapshot
	if !s.seen || snap.Mode != s.mode {
		s.seen = true
		s.mode = snap.Mode
		s.since = f.Elapsed
		s.settled = -1
	}
	if s.settled < 0 && math.Abs(snap.TargetProgress-snap.Progress) < s.tol {
		s.settled = f.Elapsed - s.since
	}
}

func (s *SettleTime) Value() float64 { return s.settled }

func (s *SettleTime) Reset() {
	s.seen = false
	s.since = 0
	s.settled = -1
}
