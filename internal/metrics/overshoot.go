package metrics

import (
	"github.com/san-kum/xmastree/internal/pose"
	"github.com/san-kum/xmastree/internal/scene"
)

// Overshoot is the largest ornament blend factor observed. Anything above 1
// means an ornament flew past its chaos point.
type Overshoot struct {
	name string
	max  float64
}

func NewOvershoot() *Overshoot {
	return &Overshoot{name: "overshoot"}
}

func (o *Overshoot) Name() string { return o.name }

func (o *Overshoot) Observe(f *scene.Frame) {
	if f.Tables == nil {
		return
	}
	for _, orn := range f.Tables.Ornaments {
		if v := pose.OrnamentFactor(orn, f.Snapshot.Progress, f.Policy); v > o.max {
			o.max = v
		}
	}
}

func (o *Overshoot) Value() float64 { return o.max }

func (o *Overshoot) Reset() { o.max = 0 }
