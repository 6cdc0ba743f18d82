package metrics

import (
	"math"

	"github.com/san-kum/xmastree/internal/scene"
)

// Spread is the mean distance of foliage points from the trunk axis,
// averaged over frames. It grows with dispersion.
type Spread struct {
	name    string
	total   float64
	samples int
}

func NewSpread() *Spread {
	return &Spread{name: "spread"}
}

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(f *scene.Frame) {
	if len(f.Particles) == 0 {
		return
	}
	sum := 0.0
	for _, p := range f.Particles {
		sum += math.Hypot(p.Position.X, p.Position.Z)
	}
	s.total += sum / float64(len(f.Particles))
	s.samples++
}

func (s *Spread) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return s.total / float64(s.samples)
}

func (s *Spread) Reset() {
	s.total = 0
	s.samples = 0
}
