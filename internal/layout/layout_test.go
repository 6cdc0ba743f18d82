package layout

import (
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r3"
)

func TestEmptyTables(t *testing.T) {
	gen := NewGenerator(DefaultShape(), 1)
	for _, n := range []int{0, -1, -100} {
		if got := gen.Particles(n); got == nil || len(got) != 0 {
			t.Errorf("Particles(%d) = %v, want empty non-nil", n, got)
		}
		if got := gen.Ornaments(n); got == nil || len(got) != 0 {
			t.Errorf("Ornaments(%d) = %v, want empty non-nil", n, got)
		}
		if got := gen.Photos(n); got == nil || len(got) != 0 {
			t.Errorf("Photos(%d) = %v, want empty non-nil", n, got)
		}
	}
}

func TestAnglesDeterministic(t *testing.T) {
	const n = 500
	a := NewGenerator(DefaultShape(), 1).Particles(n)
	b := NewGenerator(DefaultShape(), 99).Particles(n)

	for i := 1; i < n; i++ {
		theta := FormedAngle(Particles, i, n)
		if theta != float64(i)*GoldenAngle {
			t.Fatalf("particle %d: angle %f, want %f", i, theta, float64(i)*GoldenAngle)
		}
		// x and z carry independent jitter, so only the quadrant is comparable.
		for _, p := range []Particle{a[i], b[i]} {
			if math.Signbit(p.Formed.X) != math.Signbit(math.Cos(theta)) {
				t.Fatalf("particle %d: x sign mismatch for angle %.4f", i, theta)
			}
			if math.Signbit(p.Formed.Z) != math.Signbit(math.Sin(theta)) {
				t.Fatalf("particle %d: z sign mismatch for angle %.4f", i, theta)
			}
		}
	}

	for _, c := range []Category{Particles, Ornaments, Photos} {
		for i := 0; i < 50; i++ {
			if FormedAngle(c, i, 50) != FormedAngle(c, i, 50) {
				t.Errorf("%s angle %d not reproducible", c, i)
			}
		}
	}
}

func TestOrnamentAnglesExact(t *testing.T) {
	const n = 120
	a := NewGenerator(DefaultShape(), 3).Ornaments(n)
	b := NewGenerator(DefaultShape(), 4).Ornaments(n)
	for i := 0; i < n; i++ {
		ga := math.Atan2(a[i].Formed.Z, a[i].Formed.X)
		gb := math.Atan2(b[i].Formed.Z, b[i].Formed.X)
		if math.Abs(ga-gb) > 1e-9 {
			t.Errorf("ornament %d: angle %.6f vs %.6f", i, ga, gb)
		}
		want := FormedAngle(Ornaments, i, n)
		if d := math.Remainder(ga-want, 2*math.Pi); math.Abs(d) > 1e-9 {
			t.Errorf("ornament %d: angle %.6f, want %.6f", i, ga, want)
		}
	}
}

func TestConeProfile(t *testing.T) {
	s := DefaultShape()
	ps := NewGenerator(s, 5).Particles(1000)
	for i, p := range ps {
		tt := float64(i) / 1000
		wantY := s.BaseY + tt*s.Height
		if math.Abs(p.Formed.Y-wantY) > 1e-9 {
			t.Fatalf("particle %d: y = %f, want %f", i, p.Formed.Y, wantY)
		}
		maxR := s.Radius * (1 - 0.95*tt) * 1.3
		if r := math.Hypot(p.Formed.X, p.Formed.Z); r > maxR+1e-9 {
			t.Fatalf("particle %d: radius %f exceeds %f", i, r, maxR)
		}
		if p.Size < 0.02 || p.Size > 0.05 {
			t.Fatalf("particle %d: size %f out of range", i, p.Size)
		}
	}
}

func TestChaosRadialDistribution(t *testing.T) {
	const (
		n      = 10000
		radius = 12.0
		lift   = 4.0
	)
	rng := rand.New(rand.NewSource(42))
	inner := 0
	for i := 0; i < n; i++ {
		p := SampleSphere(rng, radius, lift)
		d := p.Sub(r3.Vector{Y: lift}).Norm()
		if d > radius+1e-9 {
			t.Fatalf("sample %d outside sphere: %f", i, d)
		}
		if d < radius/2 {
			inner++
		}
	}
	frac := float64(inner) / n
	if math.Abs(frac-0.125) > 0.02 {
		t.Errorf("fraction within R/2 = %.4f, want ~0.125", frac)
	}
}

func TestChaosCloudCentre(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var sum r3.Vector
	const n = 20000
	for i := 0; i < n; i++ {
		sum = sum.Add(SampleSphere(rng, 10, 4))
	}
	mean := sum.Mul(1.0 / n)
	if math.Abs(mean.Y-4) > 0.2 || math.Abs(mean.X) > 0.2 || math.Abs(mean.Z) > 0.2 {
		t.Errorf("cloud centre = %v, want ~(0,4,0)", mean)
	}
}

func TestOrnamentKinds(t *testing.T) {
	orn := NewGenerator(DefaultShape(), 11).Ornaments(600)
	next := map[OrnamentKind]int{}
	for i, o := range orn {
		spec := o.Kind.Spec()
		if o.Weight != spec.Weight {
			t.Errorf("ornament %d: weight %f, want %f", i, o.Weight, spec.Weight)
		}
		if o.Scale < spec.Scale*0.8-1e-12 || o.Scale > spec.Scale*1.2+1e-12 {
			t.Errorf("ornament %d: scale %f outside ±20%% of %f", i, o.Scale, spec.Scale)
		}
		if o.KindIndex != next[o.Kind] {
			t.Errorf("ornament %d: kind index %d, want %d", i, o.KindIndex, next[o.Kind])
		}
		next[o.Kind]++
		found := false
		for _, c := range spec.Palette {
			if c == o.Color {
				found = true
			}
		}
		if !found {
			t.Errorf("ornament %d: colour %s not in %s palette", i, o.Color, o.Kind)
		}
	}
	for _, k := range Kinds {
		if next[k] == 0 {
			t.Errorf("no %s ornaments drawn out of 600", k)
		}
	}
}

func TestKindOccurrenceOverride(t *testing.T) {
	s := DefaultShape()
	s.KindOccurrence = map[OrnamentKind]float64{Ball: 0, Gift: 0, Light: 1}
	for _, o := range NewGenerator(s, 2).Ornaments(200) {
		if o.Kind != Light {
			t.Fatalf("got %s with only lights enabled", o.Kind)
		}
	}
}

func TestPhotoRing(t *testing.T) {
	const n = 12
	photos := NewGenerator(DefaultShape(), 8).Photos(n)
	prevY := math.Inf(-1)
	for i, p := range photos {
		want := FormedAngle(Photos, i, n)
		got := math.Atan2(p.Formed.Z, p.Formed.X)
		if d := math.Remainder(got-want, 2*math.Pi); math.Abs(d) > 1e-9 {
			t.Errorf("photo %d: angle %.4f, want %.4f", i, got, want)
		}
		if p.Formed.Y <= prevY {
			t.Errorf("photo %d: height %f not rising", i, p.Formed.Y)
		}
		prevY = p.Formed.Y
		if math.Abs(p.BaseRotation.Pitch) > 0.15 || math.Abs(p.BaseRotation.Roll) > 0.1 {
			t.Errorf("photo %d: tilt %+v out of range", i, p.BaseRotation)
		}
		wantYaw := math.Atan2(p.Formed.X, p.Formed.Z) + math.Pi
		if math.Abs(p.BaseRotation.Yaw-wantYaw) > 1e-12 {
			t.Errorf("photo %d: yaw %f, want %f", i, p.BaseRotation.Yaw, wantYaw)
		}
		if p.ImageIndex != i {
			t.Errorf("photo %d: image index %d", i, p.ImageIndex)
		}
	}
}

func TestStar(t *testing.T) {
	star := NewGenerator(DefaultShape(), 0).Star()
	if math.Abs(star.FormedY-9.2) > 1e-12 || star.ChaosY != 12 {
		t.Errorf("star = %+v, want {9.2 12}", star)
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		in   string
		want Color
	}{
		{"#FFD700", Color{255, 215, 0}},
		{"046307", Color{4, 99, 7}},
		{"#bad", Color{}},
		{"#zzzzzz", Color{}},
	}
	for _, tt := range tests {
		if got := Hex(tt.in); got != tt.want {
			t.Errorf("Hex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range []Category{Particles, Ornaments, Photos, StarCategory} {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if _, err := ParseCategory("trunk"); err == nil {
		t.Error("expected error for unknown category")
	}
}
