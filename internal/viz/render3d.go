package viz

import (
	"math"

	"github.com/golang/geo/r3"
)

// Projector is a look-at perspective camera onto a w x h raster.
type Projector struct {
	Eye, Target, Up r3.Vector
	FOV, Near       float64
	Width, Height   int
	Zoom            float64

	right, up, fwd r3.Vector
	focal          float64
}

// NewProjector points a camera from eye at target with a 45° vertical field
// of view.
func NewProjector(eye, target r3.Vector, w, h int) *Projector {
	p := &Projector{Up: r3.Vector{Y: 1}, FOV: math.Pi / 4, Near: 0.1, Zoom: 1}
	p.Resize(w, h)
	p.LookAt(eye, target)
	return p
}

// LookAt moves the camera and rebuilds its basis.
func (p *Projector) LookAt(eye, target r3.Vector) {
	p.Eye, p.Target = eye, target
	p.fwd = target.Sub(eye).Normalize()
	p.right = p.fwd.Cross(p.Up).Normalize()
	p.up = p.right.Cross(p.fwd)
	p.updateFocal()
}

func (p *Projector) Resize(w, h int) {
	p.Width, p.Height = w, h
	p.updateFocal()
}

func (p *Projector) ZoomIn() {
	p.Zoom = math.Min(4, p.Zoom*1.2)
	p.updateFocal()
}

func (p *Projector) ZoomOut() {
	p.Zoom = math.Max(0.25, p.Zoom/1.2)
	p.updateFocal()
}

func (p *Projector) updateFocal() {
	p.focal = float64(p.Height) / 2 / math.Tan(p.FOV/2) * p.Zoom
}

// Project maps a world point to raster coordinates. depth is the distance
// along the view axis; ok is false behind the near plane or off-raster.
func (p *Projector) Project(v r3.Vector) (x, y int, depth float64, ok bool) {
	fx, fy, depth, front := p.ProjectF(v)
	if !front {
		return 0, 0, depth, false
	}
	x, y = int(math.Floor(fx)), int(math.Floor(fy))
	return x, y, depth, x >= 0 && x < p.Width && y >= 0 && y < p.Height
}

// ProjectF is Project without rounding or raster clipping.
func (p *Projector) ProjectF(v r3.Vector) (x, y, depth float64, ok bool) {
	d := v.Sub(p.Eye)
	depth = d.Dot(p.fwd)
	if depth < p.Near {
		return 0, 0, depth, false
	}
	s := p.focal / depth
	x = float64(p.Width)/2 + d.Dot(p.right)*s
	y = float64(p.Height)/2 - d.Dot(p.up)*s
	return x, y, depth, true
}

// Scale is the raster size of a world length at the given depth.
func (p *Projector) Scale(length, depth float64) float64 {
	if depth < p.Near {
		return 0
	}
	return length * p.focal / depth
}
