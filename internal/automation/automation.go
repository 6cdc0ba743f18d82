package automation

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"time"

	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/config"
	"github.com/san-kum/xmastree/internal/gesture"
	"github.com/san-kum/xmastree/internal/metrics"
	"github.com/san-kum/xmastree/internal/scene"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted gesture session replayed headlessly.
type Scenario struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Preset      string                `yaml:"preset,omitempty"`
	Dt          float64               `yaml:"dt,omitempty"`
	Duration    float64               `yaml:"duration,omitempty"`
	Events      []gesture.ScriptEvent `yaml:"events"`
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	for i, ev := range scenario.Events {
		if ev.At < 0 {
			return nil, fmt.Errorf("scenario %s: event %d at negative time %v", path, i, ev.At)
		}
	}
	return &scenario, nil
}

// Resolve returns the step and duration of the run, falling back to the
// config's frame rate and duration.
func (s *Scenario) Resolve(cfg *config.Config) scene.RunConfig {
	rc := scene.RunConfig{Dt: s.Dt, Duration: s.Duration}
	if rc.Dt <= 0 {
		rc.Dt = 1 / float64(cfg.FPS)
	}
	if rc.Duration <= 0 {
		rc.Duration = cfg.Duration
	}
	return rc
}

// scriptDriver feeds due script events through the bridge on simulated time.
type scriptDriver struct {
	src    *gesture.ScriptSource
	bridge *gesture.Bridge
}

func (d *scriptDriver) Drive(elapsed float64) {
	at := time.Duration(math.Round(elapsed*1e6)) * time.Microsecond
	for _, r := range d.src.Due(at) {
		if r.Kind == gesture.Detected {
			d.bridge.Apply(r.Sample)
		}
	}
}

// Session is a sculpture wired to replay a scenario.
type Session struct {
	Sculpture *scene.Sculpture
	Bridge    *gesture.Bridge
	Source    *gesture.ScriptSource
	Run       scene.RunConfig
}

// NewSession builds the sculpture for cfg and attaches the scenario's
// script and the standard metrics.
func NewSession(sc *Scenario, cfg *config.Config, logger *log.Logger) *Session {
	state := anim.New(cfg.SmoothingRate)
	sculpt := scene.New(cfg.Tables(), state, cfg.NewCamera(), cfg.Policy())
	for _, m := range metrics.Standard(cfg.Camera.BaseHeight) {
		sculpt.AddMetric(m)
	}
	src := gesture.NewScriptSource(sc.Events)
	bridge := gesture.NewBridge(state, logger)
	sculpt.SetDriver(&scriptDriver{src: src, bridge: bridge})
	return &Session{Sculpture: sculpt, Bridge: bridge, Source: src, Run: sc.Resolve(cfg)}
}

// RunScenario replays the scenario in the calling goroutine. Events are
// applied before the first tick at or after their time, so two runs with the
// same config produce identical traces.
func RunScenario(ctx context.Context, sc *Scenario, cfg *config.Config, logger *log.Logger) (*scene.Result, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sess := NewSession(sc, cfg, logger)
	logger.Printf("running scenario %q: %d events, dt=%.4f, duration=%.2fs",
		sc.Name, sess.Source.Len(), sess.Run.Dt, sess.Run.Duration)

	result, err := sess.Sculpture.Run(ctx, sess.Run, nil)
	if err != nil {
		return result, fmt.Errorf("scenario %s: %w", sc.Name, err)
	}
	if !sess.Source.Exhausted() {
		logger.Printf("scenario %q: events after %.2fs were not reached", sc.Name, sess.Run.Duration)
	}
	return result, nil
}

// RateSweep replays one scenario across a range of smoothing rates.
type RateSweep struct {
	Min, Max float64
	NumSteps int
}

type SweepResult struct {
	Rate       float64
	SettleTime float64
	Overshoot  float64
}

// RunSweep executes a smoothing-rate sweep
func RunSweep(ctx context.Context, sc *Scenario, base *config.Config, sweep RateSweep, logger *log.Logger) ([]SweepResult, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	step := 0.0
	if sweep.NumSteps > 1 {
		step = (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		cfg := *base
		cfg.SmoothingRate = sweep.Min + float64(i)*step
		res, err := RunScenario(ctx, sc, &cfg, nil)
		if err != nil {
			return results, fmt.Errorf("rate %.3f: %w", cfg.SmoothingRate, err)
		}
		results = append(results, SweepResult{
			Rate:       cfg.SmoothingRate,
			SettleTime: res.Metrics["settle_time"],
			Overshoot:  res.Metrics["overshoot"],
		})
		logger.Printf("sweep %d/%d: rate=%.3f settle=%.3fs", i+1, sweep.NumSteps, cfg.SmoothingRate, res.Metrics["settle_time"])
	}
	return results, nil
}
