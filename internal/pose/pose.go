package pose

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r3"
	"github.com/san-kum/xmastree/internal/layout"
)

const (
	// PhotoReach caps how far photos travel towards their chaos endpoint.
	PhotoReach = 0.7
	// StarReach caps how far the star rises towards its chaos height.
	StarReach = 0.5
	// SpinRate is the yaw speed of gifts and the star in rad/s.
	SpinRate = 0.5
	// PulseRate and PulseDepth shape the light flicker.
	PulseRate  = 3.0
	PulseDepth = 0.3
	// StarChaosScale is the star's scale at full chaos.
	StarChaosScale = 0.5
)

// OvershootPolicy decides what happens when an ornament's blend factor
// progress*weight exceeds 1 (gifts at weight 1.5 past progress 2/3).
type OvershootPolicy uint8

const (
	// AllowOvershoot extrapolates past the chaos endpoint, so heavy ornaments
	// fly through the cloud. This is the default.
	AllowOvershoot OvershootPolicy = iota
	// ClampOvershoot stops every ornament at its chaos endpoint.
	ClampOvershoot
)

func (p OvershootPolicy) String() string {
	switch p {
	case AllowOvershoot:
		return "allow"
	case ClampOvershoot:
		return "clamp"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

func ParseOvershootPolicy(s string) (OvershootPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "allow":
		return AllowOvershoot, nil
	case "clamp":
		return ClampOvershoot, nil
	}
	return 0, fmt.Errorf("pose: unknown overshoot policy %q", s)
}

// Apply maps a raw blend factor through the policy.
func (p OvershootPolicy) Apply(factor float64) float64 {
	if p == ClampOvershoot && factor > 1 {
		return 1
	}
	return factor
}

// Transform is the resolved pose of one element.
type Transform struct {
	Position  r3.Vector
	Rotation  layout.Euler
	Scale     float64
	Intensity float64
}

// ParticlePose is the resolved state of one foliage point.
type ParticlePose struct {
	Position   r3.Vector
	Size       float64
	Brightness float64
}

// Lerp interpolates a -> b by t without clamping.
func Lerp(a, b r3.Vector, t float64) r3.Vector {
	return a.Add(b.Sub(a).Mul(t))
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

func grow[T any](dst []T, n int) []T {
	if cap(dst) < n {
		return make([]T, n)
	}
	return dst[:n]
}

// Particles blends every foliage point by raw progress.
func Particles(dst []ParticlePose, table []layout.Particle, progress float64) []ParticlePose {
	dst = grow(dst, len(table))
	for i, p := range table {
		dst[i] = ParticlePose{
			Position:   Lerp(p.Formed, p.Chaos, progress),
			Size:       p.Size,
			Brightness: Brightness(p.Formed.Y, progress),
		}
	}
	return dst
}

// Brightness is the shading factor of a particle at the given formed height.
func Brightness(formedY, progress float64) float64 {
	return 0.5 + 0.5*math.Sin(formedY*2+progress*math.Pi)
}

// OrnamentFactor is the blend factor of one ornament under the policy.
func OrnamentFactor(o layout.Ornament, progress float64, policy OvershootPolicy) float64 {
	return policy.Apply(progress * o.Weight)
}

// Ornaments blends each ornament by progress*weight and adds the per-kind
// motion: gifts spin, lights pulse, balls hold still.
func Ornaments(dst []Transform, table []layout.Ornament, progress, elapsed float64, policy OvershootPolicy) []Transform {
	dst = grow(dst, len(table))
	for i, o := range table {
		spec := o.Kind.Spec()
		tr := Transform{
			Position:  Lerp(o.Formed, o.Chaos, OrnamentFactor(o, progress, policy)),
			Scale:     o.Scale,
			Intensity: spec.Intensity,
		}
		phase := float64(o.KindIndex)
		switch o.Kind {
		case layout.Ball:
		case layout.Gift:
			tr.Rotation.Yaw = elapsed*SpinRate + phase
		case layout.Light:
			tr.Scale *= 1 + PulseDepth*math.Sin(PulseRate*elapsed+phase)
		default:
			panic(fmt.Sprintf("pose: unhandled ornament kind %s", o.Kind))
		}
		dst[i] = tr
	}
	return dst
}

// Photos moves cards at most PhotoReach of the way to chaos. They keep facing
// away from the trunk axis, spin a full turn by full chaos and tilt harder as
// progress grows.
func Photos(dst []Transform, table []layout.Photo, progress float64) []Transform {
	dst = grow(dst, len(table))
	for i, p := range table {
		pos := Lerp(p.Formed, p.Chaos, progress*PhotoReach)
		dst[i] = Transform{
			Position: pos,
			Rotation: layout.Euler{
				Pitch: p.BaseRotation.Pitch * (1 + progress),
				Yaw:   math.Atan2(pos.X, pos.Z) + progress*2*math.Pi,
				Roll:  p.BaseRotation.Roll * (1 + 2*progress),
			},
			Scale:     1,
			Intensity: 1,
		}
	}
	return dst
}

// StarPose rises halfway to the chaos height, spins constantly and shrinks.
func StarPose(s layout.Star, progress, elapsed float64) Transform {
	return Transform{
		Position:  r3.Vector{Y: lerp(s.FormedY, s.ChaosY, progress*StarReach)},
		Rotation:  layout.Euler{Yaw: elapsed * SpinRate},
		Scale:     lerp(1, StarChaosScale, progress),
		Intensity: 1.5,
	}
}
