package scene

import (
	"errors"

	"github.com/golang/geo/r3"
	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/pose"
)

// ErrInvalidRun is returned by Run for a non-positive step or duration.
var ErrInvalidRun = errors.New("scene: invalid run config")

// Frame is everything a renderer needs for one displayed frame. The pose
// slices are reused by the next Tick; copy them to keep them.
type Frame struct {
	Step     int
	Elapsed  float64
	Snapshot anim.Snapshot
	Policy   pose.OvershootPolicy

	Camera r3.Vector
	LookAt r3.Vector

	Tables    *layout.Tables
	Particles []pose.ParticlePose
	Ornaments []pose.Transform
	Photos    []pose.Transform
	Star      pose.Transform
}

// Renderer draws frames.
type Renderer interface {
	Render(f *Frame) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f *Frame) error

func (fn RendererFunc) Render(f *Frame) error { return fn(f) }

// Observer is notified after every tick.
type Observer interface {
	OnTick(f *Frame)
}

// Metric reduces a run to a single number.
type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

// Driver is called before each headless step with the simulated clock. It is
// how scripted input reaches the animation state without a second goroutine.
type Driver interface {
	Drive(elapsed float64)
}

type RunConfig struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Times    []float64
	Progress []float64
	Modes    []anim.Mode
	Offsets  []anim.Vec2
	Metrics  map[string]float64
	Steps    int
}
