package scene

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/pose"
)

func smallTables() *layout.Tables {
	return layout.NewGenerator(layout.DefaultShape(), 7).Generate(50, 12, 4)
}

func TestTickResolvesAllCategories(t *testing.T) {
	tables := smallTables()
	s := New(tables, nil, nil, pose.AllowOvershoot)
	f := s.Tick(1.0 / 60)

	if len(f.Particles) != 50 || len(f.Ornaments) != 12 || len(f.Photos) != 4 {
		t.Fatalf("sizes %d/%d/%d", len(f.Particles), len(f.Ornaments), len(f.Photos))
	}
	if f.Star.Position.Y != tables.Star.FormedY {
		t.Errorf("star at %f in FORMED", f.Star.Position.Y)
	}
	if f.Particles[3].Position != tables.Particles[3].Formed {
		t.Error("particle left its formed position with progress 0")
	}
	if f.Step != 1 || math.Abs(f.Elapsed-1.0/60) > 1e-12 {
		t.Errorf("step %d elapsed %f", f.Step, f.Elapsed)
	}
}

func TestFrameAccessor(t *testing.T) {
	s := New(smallTables(), nil, nil, pose.AllowOvershoot)
	if s.Frame() != nil {
		t.Fatal("frame before the first tick")
	}
	f := s.Tick(0.1)
	if s.Frame() != f {
		t.Error("Frame is not the last tick's frame")
	}
}

func TestPoseAtProgress(t *testing.T) {
	tables := smallTables()
	s := New(tables, nil, nil, pose.AllowOvershoot)
	f := s.Pose(1, 0)
	if f.Particles[0].Position.Sub(tables.Particles[0].Chaos).Norm() > 1e-9 {
		t.Error("particle not at chaos position for progress 1")
	}
	if s.State().Progress() != 0 || s.Elapsed() != 0 {
		t.Error("Pose moved the animation")
	}
	if got := s.Pose(7, 0).Snapshot.Progress; got != 1 {
		t.Errorf("progress not clamped: %f", got)
	}
}

func TestTickReusesBuffers(t *testing.T) {
	s := New(smallTables(), nil, nil, pose.AllowOvershoot)
	first := &s.Tick(0.016).Particles[0]
	second := &s.Tick(0.016).Particles[0]
	if first != second {
		t.Error("particle buffer reallocated between ticks")
	}
}

func TestTickIgnoresBadDt(t *testing.T) {
	s := New(smallTables(), nil, nil, pose.AllowOvershoot)
	s.State().SetMode(anim.Chaos)
	for _, dt := range []float64{0, -1, math.NaN(), math.Inf(-1)} {
		f := s.Tick(dt)
		if f.Elapsed != 0 || f.Snapshot.Progress != 0 {
			t.Errorf("dt=%v moved the clock to %f progress %f", dt, f.Elapsed, f.Snapshot.Progress)
		}
	}
}

func TestCameraFollowsOffset(t *testing.T) {
	s := New(nil, nil, nil, pose.AllowOvershoot)
	s.State().SetCameraOffset(1, 0)
	var f *Frame
	for i := 0; i < 300; i++ {
		f = s.Tick(1.0 / 60)
	}
	if f.Camera.X < 4.9 || f.Camera.X > 5 {
		t.Errorf("camera x = %f", f.Camera.X)
	}
	if f.LookAt.Y != 3 {
		t.Errorf("look-at = %v", f.LookAt)
	}
}

func TestRunValidates(t *testing.T) {
	s := New(nil, nil, nil, pose.AllowOvershoot)
	tests := []RunConfig{
		{Dt: 0, Duration: 1},
		{Dt: -0.1, Duration: 1},
		{Dt: 0.1, Duration: 0},
		{Dt: math.NaN(), Duration: 1},
		{Dt: 1, Duration: 0.5},
	}
	for _, cfg := range tests {
		if _, err := s.Run(context.Background(), cfg, nil); !errors.Is(err, ErrInvalidRun) {
			t.Errorf("Run(%+v) = %v", cfg, err)
		}
	}
}

type counter struct{ n int }

func (c *counter) OnTick(*Frame)  { c.n++ }
func (c *counter) Name() string   { return "ticks" }
func (c *counter) Observe(*Frame) { c.n++ }
func (c *counter) Value() float64 { return float64(c.n) }
func (c *counter) Reset()         { c.n = 0 }

func TestRunRecordsTrace(t *testing.T) {
	s := New(smallTables(), nil, nil, pose.AllowOvershoot)
	obs := &counter{}
	met := &counter{}
	s.AddObserver(obs)
	s.AddMetric(met)
	s.State().SetMode(anim.Chaos)

	res, err := s.Run(context.Background(), RunConfig{Dt: 0.1, Duration: 2}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 20 || len(res.Times) != 21 || len(res.Progress) != 21 {
		t.Fatalf("steps %d times %d", res.Steps, len(res.Times))
	}
	if res.Progress[0] != 0 || res.Times[0] != 0 {
		t.Error("trace does not start at rest")
	}
	for i := 1; i < len(res.Progress); i++ {
		if res.Progress[i] < res.Progress[i-1] {
			t.Fatalf("progress fell at step %d", i)
		}
	}
	if obs.n != 20 || res.Metrics["ticks"] != 20 {
		t.Errorf("observer %d metric %v", obs.n, res.Metrics["ticks"])
	}
}

func TestRunRenderError(t *testing.T) {
	s := New(nil, nil, nil, pose.AllowOvershoot)
	boom := errors.New("display lost")
	calls := 0
	r := RendererFunc(func(*Frame) error {
		calls++
		if calls == 3 {
			return boom
		}
		return nil
	})
	res, err := s.Run(context.Background(), RunConfig{Dt: 0.1, Duration: 1}, r)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if res.Steps != 2 {
		t.Errorf("steps = %d", res.Steps)
	}
}

func TestRunCancelled(t *testing.T) {
	s := New(nil, nil, nil, pose.AllowOvershoot)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := s.Run(ctx, RunConfig{Dt: 0.1, Duration: 1}, nil)
	if !errors.Is(err, context.Canceled) || res.Steps != 0 {
		t.Errorf("err %v steps %d", err, res.Steps)
	}
}

type modeAt struct {
	at   float64
	mode anim.Mode
	st   *anim.State
}

func (m *modeAt) Drive(elapsed float64) {
	if elapsed >= m.at {
		m.st.SetMode(m.mode)
	}
}

func TestRunDriver(t *testing.T) {
	s := New(nil, nil, nil, pose.AllowOvershoot)
	s.SetDriver(&modeAt{at: 0.45, mode: anim.Chaos, st: s.State()})
	res, err := s.Run(context.Background(), RunConfig{Dt: 0.1, Duration: 1}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Modes[5] != anim.Formed || res.Modes[7] != anim.Chaos {
		t.Errorf("modes = %v", res.Modes)
	}
}
