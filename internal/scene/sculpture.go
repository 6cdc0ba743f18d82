// Package scene ties layout, animation state, camera and pose resolution into
// per-frame output for renderers.
package scene

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/camera"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/pose"
)

// Sculpture is the animated tree. Tick must be called from a single
// goroutine; the embedded anim.State may be driven from others.
type Sculpture struct {
	tables *layout.Tables
	state  *anim.State
	cam    *camera.Controller
	policy pose.OvershootPolicy

	elapsed float64
	step    int
	frame   Frame

	driver    Driver
	metrics   []Metric
	observers []Observer
}

// New builds a sculpture over tables. A nil state or camera gets defaults.
func New(tables *layout.Tables, state *anim.State, cam *camera.Controller, policy pose.OvershootPolicy) *Sculpture {
	if tables == nil {
		tables = &layout.Tables{}
	}
	if state == nil {
		state = anim.New(anim.DefaultSmoothingRate)
	}
	if cam == nil {
		cam = camera.New()
	}
	return &Sculpture{
		tables: tables,
		state:  state,
		cam:    cam,
		policy: policy,
		frame:  Frame{Tables: tables, Policy: policy},
	}
}

func (s *Sculpture) State() *anim.State           { return s.state }
func (s *Sculpture) Camera() *camera.Controller   { return s.cam }
func (s *Sculpture) Tables() *layout.Tables       { return s.tables }
func (s *Sculpture) Policy() pose.OvershootPolicy { return s.policy }
func (s *Sculpture) Elapsed() float64             { return s.elapsed }

// Frame returns the last frame produced by Tick, or nil before the first.
func (s *Sculpture) Frame() *Frame {
	if s.step == 0 {
		return nil
	}
	return &s.frame
}

func (s *Sculpture) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Sculpture) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Sculpture) SetDriver(d Driver)     { s.driver = d }

// Tick advances the animation by dt seconds and resolves every pose.
func (s *Sculpture) Tick(dt float64) *Frame {
	s.state.Advance(dt)
	if dt > 0 && !math.IsNaN(dt) && !math.IsInf(dt, 0) {
		s.elapsed += dt
	}
	snap := s.state.Snapshot()
	s.cam.Update(snap.CameraOffset)

	f := &s.frame
	s.step++
	f.Step = s.step
	f.Elapsed = s.elapsed
	f.Snapshot = snap
	f.Camera = s.cam.Position
	f.LookAt = s.cam.LookAt
	f.Particles = pose.Particles(f.Particles, s.tables.Particles, snap.Progress)
	f.Ornaments = pose.Ornaments(f.Ornaments, s.tables.Ornaments, snap.Progress, s.elapsed, s.policy)
	f.Photos = pose.Photos(f.Photos, s.tables.Photos, snap.Progress)
	f.Star = pose.StarPose(s.tables.Star, snap.Progress, s.elapsed)
	return f
}

// Pose resolves every element at a fixed progress and time without touching
// the animation state or the camera. The frame is freshly allocated.
func (s *Sculpture) Pose(progress, elapsed float64) *Frame {
	progress = math.Max(0, math.Min(1, progress))
	snap := s.state.Snapshot()
	snap.Progress = progress
	return &Frame{
		Step:      s.step,
		Elapsed:   elapsed,
		Snapshot:  snap,
		Policy:    s.policy,
		Camera:    s.cam.Position,
		LookAt:    s.cam.LookAt,
		Tables:    s.tables,
		Particles: pose.Particles(nil, s.tables.Particles, progress),
		Ornaments: pose.Ornaments(nil, s.tables.Ornaments, progress, elapsed, s.policy),
		Photos:    pose.Photos(nil, s.tables.Photos, progress),
		Star:      pose.StarPose(s.tables.Star, progress, elapsed),
	}
}

// Run steps the sculpture headlessly at a fixed dt. r may be nil.
func (s *Sculpture) Run(ctx context.Context, cfg RunConfig, r Renderer) (*Result, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Times:    make([]float64, 0, steps+1),
		Progress: make([]float64, 0, steps+1),
		Modes:    make([]anim.Mode, 0, steps+1),
		Offsets:  make([]anim.Vec2, 0, steps+1),
		Metrics:  make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	record := func(t float64, snap anim.Snapshot) {
		result.Times = append(result.Times, t)
		result.Progress = append(result.Progress, snap.Progress)
		result.Modes = append(result.Modes, snap.Mode)
		result.Offsets = append(result.Offsets, snap.CameraOffset)
	}
	start := s.elapsed
	record(0, s.state.Snapshot())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		if s.driver != nil {
			s.driver.Drive(s.elapsed - start)
		}
		f := s.Tick(cfg.Dt)
		for _, m := range s.metrics {
			m.Observe(f)
		}
		for _, obs := range s.observers {
			obs.OnTick(f)
		}
		if r != nil {
			if err := r.Render(f); err != nil {
				s.collect(result)
				return result, fmt.Errorf("render step %d: %w", i, err)
			}
		}
		result.Steps++
		record(f.Elapsed-start, f.Snapshot)
	}

	s.collect(result)
	return result, nil
}

func (s *Sculpture) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validate(cfg RunConfig) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidRun, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidRun, cfg.Duration)
	}
	if cfg.Duration < cfg.Dt {
		return fmt.Errorf("%w: duration %f shorter than dt %f", ErrInvalidRun, cfg.Duration, cfg.Dt)
	}
	return nil
}
