package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/golang/geo/r3"
)

// Category identifies one element table.
type Category int

const (
	Particles Category = iota
	Ornaments
	Photos
	StarCategory
)

func (c Category) String() string {
	switch c {
	case Particles:
		return "particles"
	case Ornaments:
		return "ornaments"
	case Photos:
		return "photos"
	case StarCategory:
		return "star"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory accepts the names produced by Category.String.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "particles", "particle", "foliage":
		return Particles, nil
	case "ornaments", "ornament":
		return Ornaments, nil
	case "photos", "photo", "polaroids":
		return Photos, nil
	case "star":
		return StarCategory, nil
	}
	return 0, fmt.Errorf("layout: unknown category %q", s)
}

// Color is an 8-bit sRGB triple.
type Color struct {
	R, G, B uint8
}

// Hex parses "#RRGGBB". Malformed input yields black.
func Hex(s string) Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return Color{}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Euler holds intrinsic rotation angles in radians.
type Euler struct {
	Pitch, Yaw, Roll float64
}

// Particle is a loose foliage point.
type Particle struct {
	Formed r3.Vector
	Chaos  r3.Vector
	Size   float64
}

// Ornament is an instanced decoration. Weight scales how far into the chaos
// interpolation the ornament travels relative to global progress.
type Ornament struct {
	Formed    r3.Vector
	Chaos     r3.Vector
	Kind      OrnamentKind
	Weight    float64
	Scale     float64
	Color     Color
	KindIndex int
}

// Photo is a framed placeholder card.
type Photo struct {
	Formed       r3.Vector
	Chaos        r3.Vector
	BaseRotation Euler
	ImageIndex   int
}

// Star is the singleton tree topper; it only moves vertically.
type Star struct {
	FormedY float64
	ChaosY  float64
}

// Tables is the full static layout of one sculpture. Order within each table
// is generation order.
type Tables struct {
	Particles []Particle
	Ornaments []Ornament
	Photos    []Photo
	Star      Star
}

// Len returns the element count of a category.
func (t *Tables) Len(c Category) int {
	switch c {
	case Particles:
		return len(t.Particles)
	case Ornaments:
		return len(t.Ornaments)
	case Photos:
		return len(t.Photos)
	case StarCategory:
		return 1
	}
	return 0
}

// CountKinds tallies ornaments by kind.
func (t *Tables) CountKinds() map[OrnamentKind]int {
	counts := make(map[OrnamentKind]int, len(Kinds))
	for _, o := range t.Ornaments {
		counts[o.Kind]++
	}
	return counts
}
