// Package camera eases the view position towards the hand-driven target.
package camera

import (
	"github.com/golang/geo/r3"
	"github.com/san-kum/xmastree/internal/anim"
)

const (
	DefaultFraction   = 0.02
	DefaultBaseHeight = 4.0
	DefaultDistance   = 20.0
	DefaultSwayX      = 5.0
	DefaultSwayY      = 3.0
	DefaultLookAtY    = 3.0
)

// Controller moves the camera a fixed fraction of the way to its target each
// frame. The fraction is per frame, not per second, so the feel depends on
// display refresh.
type Controller struct {
	Position   r3.Vector
	LookAt     r3.Vector
	Fraction   float64
	BaseHeight float64
	SwayX      float64
	SwayY      float64
}

func New() *Controller {
	return &Controller{
		Position:   r3.Vector{X: 0, Y: DefaultBaseHeight, Z: DefaultDistance},
		LookAt:     r3.Vector{Y: DefaultLookAtY},
		Fraction:   DefaultFraction,
		BaseHeight: DefaultBaseHeight,
		SwayX:      DefaultSwayX,
		SwayY:      DefaultSwayY,
	}
}

// Target is where the camera heads for the given hand offset. Depth is held.
func (c *Controller) Target(offset anim.Vec2) r3.Vector {
	return r3.Vector{
		X: offset.X * c.SwayX,
		Y: c.BaseHeight + offset.Y*c.SwayY,
		Z: c.Position.Z,
	}
}

// Update performs one frame of smoothing.
func (c *Controller) Update(offset anim.Vec2) {
	target := c.Target(offset)
	c.Position.X += (target.X - c.Position.X) * c.Fraction
	c.Position.Y += (target.Y - c.Position.Y) * c.Fraction
}
