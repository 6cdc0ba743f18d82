package automation

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/config"
	"github.com/san-kum/xmastree/internal/gesture"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Counts = config.CountsConfig{Particles: 200, Ornaments: 20, Photos: 4}
	return cfg
}

func wave() *Scenario {
	return &Scenario{
		Name:     "wave",
		Dt:       0.1,
		Duration: 10,
		Events: []gesture.ScriptEvent{
			gesture.At(time.Second, gesture.OpenPalm, 0.25, 0.5),
			{At: 2 * time.Second, Absent: true},
			gesture.At(5*time.Second, gesture.ClosedFist, 0.5, 0.5),
		},
	}
}

func TestRunScenario(t *testing.T) {
	res, err := RunScenario(context.Background(), wave(), smallConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 100 {
		t.Fatalf("steps = %d", res.Steps)
	}
	if res.Modes[10] != anim.Formed || res.Modes[11] != anim.Chaos {
		t.Errorf("palm applied at the wrong step: %v %v", res.Modes[10], res.Modes[11])
	}
	if math.Abs(res.Offsets[11].X-0.5) > 1e-9 {
		t.Errorf("offset = %+v", res.Offsets[11])
	}
	if res.Modes[50] != anim.Chaos || res.Modes[51] != anim.Formed {
		t.Error("fist applied at the wrong step")
	}
	if res.Progress[50] < 0.999 {
		t.Errorf("progress before fist = %f", res.Progress[50])
	}
	if res.Metrics["mode_switches"] != 2 {
		t.Errorf("switches = %v", res.Metrics["mode_switches"])
	}
	if res.Metrics["overshoot"] <= 1 {
		t.Errorf("overshoot = %v", res.Metrics["overshoot"])
	}
}

func TestRunScenarioDeterministic(t *testing.T) {
	a, err := RunScenario(context.Background(), wave(), smallConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := RunScenario(context.Background(), wave(), smallConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Progress {
		if a.Progress[i] != b.Progress[i] || a.Modes[i] != b.Modes[i] {
			t.Fatalf("runs diverge at step %d", i)
		}
	}
}

func TestRunScenarioDefaults(t *testing.T) {
	cfg := smallConfig()
	cfg.Duration = 1
	sc := &Scenario{Name: "idle"}
	rc := sc.Resolve(cfg)
	if rc.Dt != 1.0/60 || rc.Duration != 1 {
		t.Errorf("resolved %+v", rc)
	}
	res, err := RunScenario(context.Background(), sc, cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Steps != 60 || res.Progress[len(res.Progress)-1] != 0 {
		t.Errorf("idle run: steps %d", res.Steps)
	}
}

func TestRunScenarioInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.SmoothingRate = -1
	if _, err := RunScenario(context.Background(), wave(), cfg, nil); err == nil {
		t.Error("invalid config accepted")
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	body := `name: hello
description: palm then fist
preset: sparse
dt: 0.05
duration: 4
events:
  - at: 1s
    gesture: Open_Palm
  - at: 3s
    gesture: Closed_Fist
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "hello" || sc.Preset != "sparse" || len(sc.Events) != 2 || sc.Events[1].At != 3*time.Second {
		t.Errorf("scenario = %+v", sc)
	}
}

func TestRunSweep(t *testing.T) {
	res, err := RunSweep(context.Background(), wave(), smallConfig(), RateSweep{Min: 2, Max: 5, NumSteps: 3}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 3 || res[1].Rate != 3.5 {
		t.Fatalf("sweep = %+v", res)
	}
	if !(res[2].SettleTime < res[0].SettleTime) {
		t.Errorf("faster rate settled slower: %+v", res)
	}
}

func TestEnsemble(t *testing.T) {
	e := Ensemble{NumRuns: 4, SeedStart: 10, Workers: 2}
	res, err := e.Run(context.Background(), wave(), smallConfig(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Runs) != 4 || res.Runs[0].Seed != 10 || res.Runs[3].Seed != 13 {
		t.Fatalf("runs = %+v", res.Runs)
	}
	// Progress does not depend on the layout, so settle time is identical.
	if res.StdDev["settle_time"] > 1e-9 {
		t.Errorf("settle time varies across seeds: %v", res.StdDev["settle_time"])
	}
	if res.Mean["mode_switches"] != 2 {
		t.Errorf("mean switches = %v", res.Mean["mode_switches"])
	}
}

func TestEnsembleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Ensemble{NumRuns: 2}).Run(ctx, wave(), smallConfig(), nil); err == nil {
		t.Error("cancelled ensemble succeeded")
	}
	if _, err := (Ensemble{}).Run(context.Background(), wave(), smallConfig(), nil); err == nil {
		t.Error("empty ensemble accepted")
	}
}
