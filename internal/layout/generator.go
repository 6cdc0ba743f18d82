package layout

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// GoldenAngle gives low-discrepancy angular spacing on the foliage spiral.
const GoldenAngle = 2.399963

const (
	// OrnamentAngleStep is the fixed spiral step between consecutive ornaments.
	OrnamentAngleStep = 0.5
	// PhotoPhase rotates the ring of photos off the camera axis.
	PhotoPhase = math.Pi / 6
)

// Shape describes the tree and the chaos cloud.
type Shape struct {
	Height float64
	Radius float64
	BaseY  float64

	ParticleChaosRadius float64
	OrnamentChaosRadius float64
	PhotoChaosRadius    float64
	// ChaosLift raises the cloud centre above the tree base.
	ChaosLift float64

	StarLift   float64
	StarChaosY float64

	// KindOccurrence overrides the relative draw weight per ornament kind.
	KindOccurrence map[OrnamentKind]float64
}

func DefaultShape() Shape {
	return Shape{
		Height:              8,
		Radius:              3,
		BaseY:               1,
		ParticleChaosRadius: 12,
		OrnamentChaosRadius: 10,
		PhotoChaosRadius:    10,
		ChaosLift:           4,
		StarLift:            1.2,
		StarChaosY:          12,
	}
}

// Generator produces element tables. Each category draws from its own random
// stream derived from the seed, so table contents do not depend on the order
// categories are generated in.
type Generator struct {
	shape Shape
	seed  int64
}

func NewGenerator(shape Shape, seed int64) *Generator {
	return &Generator{shape: shape, seed: seed}
}

func (g *Generator) Shape() Shape { return g.shape }

func (g *Generator) rng(c Category) *rand.Rand {
	return rand.New(rand.NewSource(g.seed*31 + int64(c)*7919 + 1))
}

// Generate builds all four tables.
func (g *Generator) Generate(particles, ornaments, photos int) *Tables {
	return &Tables{
		Particles: g.Particles(particles),
		Ornaments: g.Ornaments(ornaments),
		Photos:    g.Photos(photos),
		Star:      g.Star(),
	}
}

// FormedAngle returns the deterministic placement angle of element i out of n.
func FormedAngle(c Category, i, n int) float64 {
	switch c {
	case Particles:
		return float64(i) * GoldenAngle
	case Ornaments:
		return float64(i) * OrnamentAngleStep
	case Photos:
		if n <= 0 {
			return PhotoPhase
		}
		return float64(i)*(2*math.Pi)/float64(n) + PhotoPhase
	}
	return 0
}

// Particles places n points on the cone surface.
func (g *Generator) Particles(n int) []Particle {
	if n <= 0 {
		return []Particle{}
	}
	s := g.shape
	rng := g.rng(Particles)
	out := make([]Particle, n)
	for i := range out {
		t := float64(i) / float64(n)
		y := s.BaseY + t*s.Height
		r := s.Radius * (1 - 0.95*t)
		theta := FormedAngle(Particles, i, n)
		jx := 0.7 + rng.Float64()*0.6
		jz := 0.7 + rng.Float64()*0.6
		out[i] = Particle{
			Formed: r3.Vector{X: math.Cos(theta) * r * jx, Y: y, Z: math.Sin(theta) * r * jz},
			Chaos:  SampleSphere(rng, s.ParticleChaosRadius, s.ChaosLift),
			Size:   0.02 + rng.Float64()*0.03,
		}
	}
	return out
}

// Ornaments places n decorations on a tighter spiral that thins towards the top.
func (g *Generator) Ornaments(n int) []Ornament {
	if n <= 0 {
		return []Ornament{}
	}
	s := g.shape
	rng := g.rng(Ornaments)
	out := make([]Ornament, n)
	perKind := make(map[OrnamentKind]int, len(Kinds))
	for i := range out {
		kind := pickKind(rng, s.KindOccurrence)
		spec := kind.Spec()
		color := spec.Palette[rng.Intn(len(spec.Palette))]

		t := float64(i) / float64(n)
		y := s.BaseY + 0.5 + t*(s.Height-1)
		r := s.Radius * (1 - 0.85*t) * 0.85
		theta := FormedAngle(Ornaments, i, n)

		out[i] = Ornament{
			Formed:    r3.Vector{X: math.Cos(theta) * r, Y: y, Z: math.Sin(theta) * r},
			Chaos:     SampleSphere(rng, s.OrnamentChaosRadius, s.ChaosLift),
			Kind:      kind,
			Weight:    spec.Weight,
			Scale:     spec.Scale * (0.8 + rng.Float64()*0.4),
			Color:     color,
			KindIndex: perKind[kind],
		}
		perKind[kind]++
	}
	return out
}

// Photos spaces n cards evenly around the tree over a narrower height band.
func (g *Generator) Photos(n int) []Photo {
	if n <= 0 {
		return []Photo{}
	}
	s := g.shape
	rng := g.rng(Photos)
	out := make([]Photo, n)
	for i := range out {
		t := (float64(i) + 0.5) / float64(n)
		y := s.BaseY + 1 + t*(s.Height-3)
		r := s.Radius * (1 - 0.7*t) * 1.1
		theta := FormedAngle(Photos, i, n)
		x, z := math.Cos(theta)*r, math.Sin(theta)*r

		out[i] = Photo{
			Formed: r3.Vector{X: x, Y: y, Z: z},
			Chaos:  SampleSphere(rng, s.PhotoChaosRadius, s.ChaosLift),
			BaseRotation: Euler{
				Pitch: (rng.Float64() - 0.5) * 0.3,
				Yaw:   math.Atan2(x, z) + math.Pi,
				Roll:  (rng.Float64() - 0.5) * 0.2,
			},
			ImageIndex: i,
		}
	}
	return out
}

// Star returns the topper endpoints.
func (g *Generator) Star() Star {
	return Star{
		FormedY: g.shape.Height + g.shape.StarLift,
		ChaosY:  g.shape.StarChaosY,
	}
}
