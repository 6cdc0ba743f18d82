package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/config"
	"github.com/san-kum/xmastree/internal/scene"
)

func sampleResult() *scene.Result {
	return &scene.Result{
		Times:    []float64{0, 0.1, 0.2},
		Progress: []float64{0, 0.25, 0.4375},
		Modes:    []anim.Mode{anim.Formed, anim.Chaos, anim.Chaos},
		Offsets:  []anim.Vec2{{}, {X: 0.5, Y: -0.25}, {X: 0.5, Y: -0.25}},
		Metrics:  map[string]float64{"mode_switches": 1},
		Steps:    2,
	}
}

func fixedStore(t *testing.T) *Store {
	st := New(t.TempDir())
	st.now = func() time.Time { return time.Date(2024, 12, 24, 20, 0, 0, 0, time.UTC) }
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	return st
}

func TestStoreSaveLoad(t *testing.T) {
	st := fixedStore(t)

	runID, err := st.Save(RunMetadata{Scenario: "wave", Seed: 42, Dt: 0.1, Duration: 0.2, Config: config.DefaultConfig()}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID != "wave_20241224-200000" {
		t.Errorf("run id = %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Seed != 42 || meta.Steps != 2 || meta.Metrics["mode_switches"] != 1 {
		t.Errorf("metadata = %+v", meta)
	}
	if meta.Config == nil || meta.Config.Counts.Particles != config.DefaultParticles {
		t.Error("config not stored")
	}

	tr, err := st.LoadTrace(runID)
	if err != nil {
		t.Fatalf("load trace failed: %v", err)
	}
	if len(tr.Times) != 3 || tr.Progress[2] != 0.4375 {
		t.Errorf("trace = %+v", tr)
	}
	if tr.Modes[1] != anim.Chaos || tr.Offsets[1] != (anim.Vec2{X: 0.5, Y: -0.25}) {
		t.Errorf("row 1 = %v %v", tr.Modes[1], tr.Offsets[1])
	}
	if tr.ModeAt(0.05) != anim.Formed || tr.ModeAt(0.15) != anim.Chaos {
		t.Error("ModeAt")
	}
}

func TestStoreSameSecond(t *testing.T) {
	st := fixedStore(t)
	a, err := st.Save(RunMetadata{Scenario: "wave"}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.Save(RunMetadata{Scenario: "wave"}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	if a == b || b != a+"-2" {
		t.Errorf("ids %q %q", a, b)
	}
}

func TestStoreList(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	if _, err := st.Save(RunMetadata{}, sampleResult()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(st.Dir(), "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Scenario != "run" {
		t.Errorf("runs = %+v", runs)
	}
}

func TestStoreNotFound(t *testing.T) {
	st := fixedStore(t)
	if _, err := st.Load("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("Load = %v", err)
	}
	if _, err := st.LoadTrace("nope"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LoadTrace = %v", err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	st := fixedStore(t)
	runID, err := st.Save(RunMetadata{Scenario: "x"}, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(st.Dir(), runID)
	for _, name := range []string{"metadata.json", "trace.csv"} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestExportJSON(t *testing.T) {
	st := fixedStore(t)
	runID, err := st.Save(RunMetadata{Scenario: "x"}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}
	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Run.ID != runID || len(got.Modes) != 3 || got.Modes[1] != "CHAOS" || got.Offsets[1][0] != 0.5 {
		t.Errorf("export = %+v", got)
	}
}
