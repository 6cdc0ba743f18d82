package layout

import (
	"fmt"
	"math/rand"
	"strings"
)

// OrnamentKind is the closed set of ornament variants.
type OrnamentKind uint8

const (
	Ball OrnamentKind = iota
	Gift
	Light
)

// Kinds lists every ornament kind in declaration order.
var Kinds = []OrnamentKind{Ball, Gift, Light}

// KindSpec holds the per-kind constants used by generation and posing.
type KindSpec struct {
	// Occurrence is the relative draw weight.
	Occurrence float64
	// Weight is the chaos responsiveness multiplier.
	Weight float64
	// Scale is the nominal size before the ±20% jitter.
	Scale float64
	// Intensity is the emissive factor handed to renderers.
	Intensity float64
	Palette   []Color
}

var kindSpecs = [...]KindSpec{
	Ball: {
		Occurrence: 1,
		Weight:     0.5,
		Scale:      0.15,
		Intensity:  1,
		Palette:    []Color{Hex("#FFD700"), Hex("#C41E3A"), Hex("#1E90FF"), Hex("#FFD700"), Hex("#FF69B4")},
	},
	Gift: {
		Occurrence: 1,
		Weight:     1.5,
		Scale:      0.25,
		Intensity:  1,
		Palette:    []Color{Hex("#C41E3A"), Hex("#228B22"), Hex("#4169E1"), Hex("#FFD700")},
	},
	Light: {
		Occurrence: 1,
		Weight:     0.2,
		Scale:      0.08,
		Intensity:  2,
		Palette:    []Color{Hex("#FFD700"), Hex("#FFFFFF"), Hex("#FFE4B5")},
	},
}

// Spec returns the constants for k. It panics on a kind outside the closed set.
func (k OrnamentKind) Spec() KindSpec {
	if int(k) >= len(kindSpecs) {
		panic(fmt.Sprintf("layout: unknown ornament kind %d", k))
	}
	return kindSpecs[k]
}

func (k OrnamentKind) String() string {
	switch k {
	case Ball:
		return "ball"
	case Gift:
		return "gift"
	case Light:
		return "light"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind accepts the names produced by OrnamentKind.String.
func ParseKind(s string) (OrnamentKind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("layout: unknown ornament kind %q", s)
}

// pickKind draws a kind proportionally to the occurrence weights. Missing or
// negative weights fall back to the kind's default occurrence.
func pickKind(rng *rand.Rand, occurrence map[OrnamentKind]float64) OrnamentKind {
	weights := make([]float64, len(Kinds))
	total := 0.0
	for i, k := range Kinds {
		w := k.Spec().Occurrence
		if v, ok := occurrence[k]; ok && v >= 0 {
			w = v
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		return Kinds[rng.Intn(len(Kinds))]
	}
	r := rng.Float64() * total
	for i, w := range weights {
		if r < w {
			return Kinds[i]
		}
		r -= w
	}
	return Kinds[len(Kinds)-1]
}
