package layout

import (
	"math"
	"math/rand"

	"github.com/golang/geo/r3"
)

// SampleSphere draws a point uniformly from the volume of a ball of the given
// radius centred at (0, lift, 0). Azimuth is uniform, the polar angle goes
// through acos(2u-1) for an even surface density and the distance through a
// cube root for an even volume density.
func SampleSphere(rng *rand.Rand, radius, lift float64) r3.Vector {
	theta := rng.Float64() * 2 * math.Pi
	phi := math.Acos(2*rng.Float64() - 1)
	r := radius * math.Cbrt(rng.Float64())
	return r3.Vector{
		X: r * math.Sin(phi) * math.Cos(theta),
		Y: r*math.Sin(phi)*math.Sin(theta) + lift,
		Z: r * math.Cos(phi),
	}
}
