package scene_test

import (
	"context"

	"github.com/golang/geo/r3"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/gesture"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/pose"
	"github.com/san-kum/xmastree/internal/scene"
)

func weighted(w float64) layout.Ornament {
	return layout.Ornament{
		Formed: r3.Vector{X: 1, Y: 2, Z: 0},
		Chaos:  r3.Vector{X: 1, Y: 12, Z: 0},
		Kind:   layout.Ball,
		Weight: w,
		Scale:  1,
	}
}

func expectNear(got, want r3.Vector) {
	ExpectWithOffset(1, got.Sub(want).Norm()).To(BeNumerically("<", 1e-2))
}

var _ = Describe("an open palm in front of the camera", func() {
	var (
		tables *layout.Tables
		state  *anim.State
		bridge *gesture.Bridge
	)

	BeforeEach(func() {
		tables = layout.NewGenerator(layout.DefaultShape(), 1).Generate(200, 0, 3)
		tables.Ornaments = []layout.Ornament{weighted(0.5), weighted(1.5)}
		state = anim.New(anim.DefaultSmoothingRate)
		bridge = gesture.NewBridge(state, nil)
	})

	scatter := func(s *scene.Sculpture) *scene.Frame {
		palm := gesture.Sample{Hands: []gesture.Hand{gesture.SyntheticHand(0.5, 0.5, gesture.OpenPalm)}}
		Expect(bridge.Apply(palm)).To(BeTrue())
		var f *scene.Frame
		for i := 0; i < 200; i++ {
			f = s.Tick(0.1)
		}
		return f
	}

	It("switches to CHAOS and converges", func() {
		f := scatter(scene.New(tables, state, nil, pose.AllowOvershoot))
		Expect(f.Snapshot.Mode).To(Equal(anim.Chaos))
		Expect(f.Snapshot.TargetProgress).To(Equal(1.0))
		Expect(f.Snapshot.Progress).To(BeNumerically(">", 0.999))
		Expect(f.Snapshot.Progress).To(BeNumerically("<=", 1.0))
	})

	It("moves every particle to its chaos point", func() {
		f := scatter(scene.New(tables, state, nil, pose.AllowOvershoot))
		for i, p := range f.Particles {
			expectNear(p.Position, tables.Particles[i].Chaos)
		}
	})

	It("parks a half-weight ornament at the midpoint", func() {
		f := scatter(scene.New(tables, state, nil, pose.AllowOvershoot))
		expectNear(f.Ornaments[0].Position, r3.Vector{X: 1, Y: 7, Z: 0})
	})

	It("flies a heavy ornament past its chaos point when overshoot is allowed", func() {
		f := scatter(scene.New(tables, state, nil, pose.AllowOvershoot))
		expectNear(f.Ornaments[1].Position, r3.Vector{X: 1, Y: 17, Z: 0})
	})

	It("stops a heavy ornament at its chaos point when overshoot is clamped", func() {
		f := scatter(scene.New(tables, state, nil, pose.ClampOvershoot))
		expectNear(f.Ornaments[1].Position, r3.Vector{X: 1, Y: 12, Z: 0})
	})

	It("holds photos short of chaos", func() {
		f := scatter(scene.New(tables, state, nil, pose.AllowOvershoot))
		for i, p := range f.Photos {
			want := pose.Lerp(tables.Photos[i].Formed, tables.Photos[i].Chaos, pose.PhotoReach)
			expectNear(p.Position, want)
		}
	})

	Context("followed by a closed fist", func() {
		It("reassembles the tree", func() {
			s := scene.New(tables, state, nil, pose.AllowOvershoot)
			scatter(s)
			fist := gesture.Sample{Hands: []gesture.Hand{gesture.SyntheticHand(0.5, 0.5, gesture.ClosedFist)}}
			bridge.Apply(fist)
			var f *scene.Frame
			for i := 0; i < 200; i++ {
				f = s.Tick(0.1)
			}
			Expect(f.Snapshot.Mode).To(Equal(anim.Formed))
			Expect(f.Snapshot.Progress).To(BeNumerically("<", 1e-3))
			expectNear(f.Star.Position, r3.Vector{Y: tables.Star.FormedY})
		})
	})

	Context("when the gesture source dies mid-run", func() {
		It("keeps animating with the last mode", func() {
			s := scene.New(tables, state, nil, pose.AllowOvershoot)
			src := gesture.NewScriptSource([]gesture.ScriptEvent{
				gesture.At(0, gesture.OpenPalm, 0.5, 0.5),
			})
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			r := src.Next(ctx)
			Expect(r.Kind).To(Equal(gesture.Detected))
			bridge.Apply(r.Sample)
			Expect(src.Close()).To(Succeed())
			Expect(bridge.Run(ctx, src)).To(MatchError(gesture.ErrInputUnavailable))

			res, err := s.Run(ctx, scene.RunConfig{Dt: 0.1, Duration: 20}, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Modes[len(res.Modes)-1]).To(Equal(anim.Chaos))
			Expect(res.Progress[len(res.Progress)-1]).To(BeNumerically(">", 0.999))
		})
	})
})
