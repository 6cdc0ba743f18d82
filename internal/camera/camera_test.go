package camera

import (
	"math"
	"testing"

	"github.com/san-kum/xmastree/internal/anim"
)

func TestDefaults(t *testing.T) {
	c := New()
	if c.Position.Y != 4 || c.Position.Z != 20 || c.Position.X != 0 {
		t.Errorf("start position %v", c.Position)
	}
	if c.LookAt.Y != 3 {
		t.Errorf("look-at %v", c.LookAt)
	}
}

func TestTarget(t *testing.T) {
	c := New()
	tests := []struct {
		off  anim.Vec2
		x, y float64
	}{
		{anim.Vec2{}, 0, 4},
		{anim.Vec2{X: 1, Y: 1}, 5, 7},
		{anim.Vec2{X: -1, Y: -1}, -5, 1},
		{anim.Vec2{X: 0.5, Y: -0.5}, 2.5, 2.5},
	}
	for _, tt := range tests {
		got := c.Target(tt.off)
		if math.Abs(got.X-tt.x) > 1e-12 || math.Abs(got.Y-tt.y) > 1e-12 || got.Z != 20 {
			t.Errorf("Target(%+v) = %v, want (%f, %f, 20)", tt.off, got, tt.x, tt.y)
		}
	}
}

func TestUpdateFixedFraction(t *testing.T) {
	c := New()
	off := anim.Vec2{X: 1, Y: 0}
	c.Update(off)
	if math.Abs(c.Position.X-0.1) > 1e-12 {
		t.Errorf("first step x = %f, want 0.1", c.Position.X)
	}
	for i := 1; i < 500; i++ {
		c.Update(off)
	}
	want := 5 * (1 - math.Pow(0.98, 500))
	if math.Abs(c.Position.X-want) > 1e-9 {
		t.Errorf("x after 500 frames = %f, want %f", c.Position.X, want)
	}
	if c.Position.X > 5 {
		t.Error("camera overshot its target")
	}
	if c.Position.Z != 20 {
		t.Errorf("depth moved to %f", c.Position.Z)
	}
	if c.LookAt.Y != 3 || c.LookAt.X != 0 {
		t.Errorf("look-at moved to %v", c.LookAt)
	}
}
