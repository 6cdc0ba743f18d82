package gui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/golang/geo/r3"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/pose"
	"github.com/san-kum/xmastree/internal/scene"
)

const (
	trunkHeight = 1.5
	photoSize   = 0.6
)

func vec3(v r3.Vector) rl.Vector3 {
	return rl.NewVector3(float32(v.X), float32(v.Y), float32(v.Z))
}

func rgb(c layout.Color, alpha uint8) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, alpha)
}

// drawTree draws the sculpture's last resolved frame. It must run inside
// BeginMode3D.
func (a *App) drawTree(s *scene.Sculpture) {
	f := s.Frame()
	if f == nil {
		return
	}
	for _, st := range a.Stars {
		rl.DrawPoint3D(st, ColTextDim)
	}
	rl.DrawCylinder(rl.NewVector3(0, 0, 0), 0.25, 0.35, trunkHeight, 8, ColTrunk)

	a.RenderParticles(f.Particles)
	a.RenderOrnaments(f)
	a.RenderPhotos(f.Photos, s.Tables().Photos)
	a.RenderStar(f.Star)
}

func (a *App) RenderParticles(ps []pose.ParticlePose) {
	for _, p := range ps {
		col := ColFoliage
		if p.Brightness > 0.75 {
			col = ColLit
		}
		rl.DrawPoint3D(vec3(p.Position), col)
	}
}

func (a *App) RenderOrnaments(f *scene.Frame) {
	for i, tr := range f.Ornaments {
		if i >= len(f.Tables.Ornaments) {
			break
		}
		o := f.Tables.Ornaments[i]
		pos := vec3(tr.Position)
		size := float32(tr.Scale)
		col := rgb(o.Color, 255)

		switch o.Kind {
		case layout.Gift:
			rl.DrawCube(pos, size, size, size, col)
			rl.DrawCubeWires(pos, size, size, size, ColAccent)
		case layout.Light:
			glow := uint8(math.Min(255, 120*tr.Intensity))
			rl.DrawSphere(pos, size*0.5, col)
			rl.DrawBillboard(a.Camera, a.GlowTex, pos, size*3, rgb(o.Color, glow))
		default:
			rl.DrawSphere(pos, size*0.5, col)
		}
	}
}

// RenderPhotos draws each card as a camera-facing billboard with its
// placeholder image.
func (a *App) RenderPhotos(ts []pose.Transform, photos []layout.Photo) {
	for i, tr := range ts {
		if i >= len(photos) || len(a.PhotoTex) == 0 {
			break
		}
		tex := a.PhotoTex[photos[i].ImageIndex%len(a.PhotoTex)]
		rl.DrawBillboard(a.Camera, tex, vec3(tr.Position), photoSize*float32(tr.Scale), rl.White)
	}
}

func (a *App) RenderStar(tr pose.Transform) {
	pos := vec3(tr.Position)
	size := 0.4 * float32(tr.Scale)
	rl.DrawSphere(pos, size, ColAccent)
	rl.DrawBillboard(a.Camera, a.GlowTex, pos, size*6, rl.NewColor(255, 215, 0, 160))
	rl.DrawCircle3D(pos, size*2, rl.NewVector3(0, 1, 0), float32(tr.Rotation.Yaw*180/math.Pi), rl.NewColor(255, 255, 255, 80))
}
