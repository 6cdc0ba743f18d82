package metrics

import (
	"math"

	"github.com/san-kum/xmastree/internal/scene"
)

// CameraSway is the mean distance of the camera from its resting x/y.
type CameraSway struct {
	name       string
	baseHeight float64
	sum        float64
	samples    int
}

func NewCameraSway(baseHeight float64) *CameraSway {
	return &CameraSway{
		name:       "camera_sway",
		baseHeight: baseHeight,
	}
}

func (c *CameraSway) Name() string {
	return c.name
}

func (c *CameraSway) Observe(f *scene.Frame) {
	c.sum += math.Hypot(f.Camera.X, f.Camera.Y-c.baseHeight)
	c.samples++
}

func (c *CameraSway) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *CameraSway) Reset() {
	c.sum = 0
	c.samples = 0
}
