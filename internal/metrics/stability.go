package metrics

import (
	"math"

	"github.com/san-kum/xmastree/internal/scene"
)

// Stability is the fraction of frames in which progress sat within
// threshold of its target.
type Stability struct {
	name      string
	threshold float64
	moving    int
	samples   int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *scene.Frame) {
	s.samples++
	if math.Abs(f.Snapshot.TargetProgress-f.Snapshot.Progress) > s.threshold {
		s.moving++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.moving)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.moving = 0
	s.samples = 0
}
