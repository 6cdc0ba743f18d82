package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r3"
	"github.com/san-kum/xmastree/internal/scene"
)

const (
	trunkHeight = 1.5
	cardHalf    = 0.25
	maxDotR     = 4
)

// DrawFrame projects every element of f onto c as seen from the frame's
// camera.
func DrawFrame(c *Canvas, p *Projector, f *scene.Frame, th Theme) {
	c.Clear()
	p.Resize(c.DotsW(), c.DotsH())
	p.LookAt(f.Camera, f.LookAt)

	if x0, y0, d0, ok0 := p.Project(r3.Vector{}); ok0 {
		if x1, y1, _, ok1 := p.Project(r3.Vector{Y: trunkHeight}); ok1 {
			c.DrawLine(x0, y0, x1, y1, th.Trunk, d0)
		}
	}

	for _, pp := range f.Particles {
		x, y, d, ok := p.Project(pp.Position)
		if !ok {
			continue
		}
		tint := th.Foliage
		if pp.Brightness > 0.75 {
			tint = th.FoliageLit
		}
		c.Plot(x, y, tint, d)
	}

	for i, tr := range f.Ornaments {
		x, y, d, ok := p.Project(tr.Position)
		if !ok {
			continue
		}
		tint := th.Secondary
		if !th.Mono && f.Tables != nil && i < len(f.Tables.Ornaments) {
			tint = lipgloss.Color(f.Tables.Ornaments[i].Color.String())
		}
		c.Disc(x, y, dotRadius(p, tr.Scale, d), tint, d)
	}

	for _, tr := range f.Photos {
		drawCard(c, p, tr.Position, tr.Rotation.Yaw, th.Photo)
	}

	if x, y, d, ok := p.Project(f.Star.Position); ok {
		r := dotRadius(p, 0.4*f.Star.Scale, d)
		c.Disc(x, y, r/2, th.Star, d)
		c.DrawLine(x-r, y, x+r, y, th.Star, d)
		c.DrawLine(x, y-r, x, y+r, th.Star, d)
	}
}

func dotRadius(p *Projector, size, depth float64) int {
	r := int(math.Round(p.Scale(size, depth)))
	if r > maxDotR {
		r = maxDotR
	}
	return r
}

// drawCard outlines a photo card turned by yaw about the vertical axis.
func drawCard(c *Canvas, p *Projector, center r3.Vector, yaw float64, tint lipgloss.Color) {
	side := r3.Vector{X: math.Cos(yaw) * cardHalf, Z: -math.Sin(yaw) * cardHalf}
	up := r3.Vector{Y: cardHalf * 1.2}
	corners := [4]r3.Vector{
		center.Sub(side).Add(up),
		center.Add(side).Add(up),
		center.Add(side).Sub(up),
		center.Sub(side).Sub(up),
	}
	var xs, ys [4]int
	var depth float64
	for i, v := range corners {
		x, y, d, ok := p.Project(v)
		if !ok {
			return
		}
		xs[i], ys[i] = x, y
		depth += d / 4
	}
	for i := range corners {
		j := (i + 1) % 4
		c.DrawLine(xs[i], ys[i], xs[j], ys[j], tint, depth)
	}
}
