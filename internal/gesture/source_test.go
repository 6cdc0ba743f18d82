package gesture

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScriptDue(t *testing.T) {
	src := NewScriptSource([]ScriptEvent{
		At(2*time.Second, ClosedFist, 0.5, 0.5),
		At(500*time.Millisecond, OpenPalm, 0.2, 0.5),
		{At: time.Second, Absent: true},
	})

	if got := src.Due(0); len(got) != 0 {
		t.Fatalf("Due(0) = %d results", len(got))
	}
	got := src.Due(time.Second)
	if len(got) != 2 {
		t.Fatalf("Due(1s) = %d results, want 2", len(got))
	}
	if got[0].Kind != Detected || got[1].Kind != NoDetection {
		t.Errorf("kinds = %v, %v", got[0].Kind, got[1].Kind)
	}
	if top, _ := got[0].Sample.Hands[0].Top(); top.Label != OpenPalm {
		t.Errorf("first label = %q", top.Label)
	}
	if src.Exhausted() {
		t.Error("exhausted early")
	}
	if got := src.Due(time.Hour); len(got) != 1 || !src.Exhausted() {
		t.Errorf("tail = %d results", len(got))
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wave.yaml")
	body := `events:
  - at: 1500ms
    gesture: Closed_Fist
  - at: 250ms
    gesture: Open_Palm
    x: 0.1
    y: 0.9
  - at: 1s
    absent: true
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	evs, err := LoadScript(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(evs) != 3 || evs[0].At != 1500*time.Millisecond || *evs[1].X != 0.1 {
		t.Fatalf("events = %+v", evs)
	}
	h := evs[0].Result().Sample.Hands[0]
	if x, y, _ := h.Center(); x < 0.49 || x > 0.51 || y < 0.49 || y > 0.51 {
		t.Errorf("default position = (%f, %f)", x, y)
	}

	if _, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing script loaded")
	}
}

func TestScriptNextPaces(t *testing.T) {
	src := NewScriptSource([]ScriptEvent{At(20*time.Millisecond, OpenPalm, 0.5, 0.5)})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	if r := src.Next(ctx); r.Kind != Detected {
		t.Fatalf("first = %v", r.Kind)
	}
	if time.Since(start) < 15*time.Millisecond {
		t.Error("event delivered early")
	}

	short, cancelShort := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancelShort()
	if r := src.Next(short); r.Kind != Failed || !errors.Is(r.Err, context.DeadlineExceeded) {
		t.Errorf("exhausted = %v %v", r.Kind, r.Err)
	}
	src.Close()
	if r := src.Next(ctx); !errors.Is(r.Err, ErrClosed) {
		t.Errorf("after close = %v", r.Err)
	}
}

func TestOpenFileMissing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, ErrInputUnavailable) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("OpenFile = %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hands.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	src, err := OpenFile(path)
	if err != nil {
		t.Skip("file watching not supported: ", err)
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if r := src.Next(ctx); r.Kind != NoDetection {
		t.Fatalf("empty file = %v", r.Kind)
	}

	data, _ := json.Marshal(Sample{Hands: []Hand{SyntheticHand(0.3, 0.6, OpenPalm)}})
	go func() { _ = os.WriteFile(path, data, 0o644) }()

	// A write may surface as a truncate then a fill; wait for the full frame.
	for {
		r := src.Next(ctx)
		if r.Kind == Failed {
			t.Fatalf("Next = %v", r.Err)
		}
		if r.Kind == Detected {
			if top, _ := r.Sample.Hands[0].Top(); top.Label != OpenPalm {
				t.Errorf("label = %q", top.Label)
			}
			break
		}
	}

	if err := src.Close(); err != nil {
		t.Errorf("Close = %v", err)
	}
	if err := src.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close = %v", err)
	}
}

func TestParseSample(t *testing.T) {
	tests := []struct {
		in   string
		want ResultKind
	}{
		{"", NoDetection},
		{"{", NoDetection},
		{`{"hands":[]}`, NoDetection},
		{`{"hands":[{"landmarks":[]}]}`, NoDetection},
		{`{"hands":[{"landmarks":[{"x":0.5,"y":0.5}],"gestures":[{"label":"Open_Palm","confidence":0.9}]}]}`, Detected},
	}
	for _, tt := range tests {
		if got := parseSample([]byte(tt.in), 0); got.Kind != tt.want {
			t.Errorf("parseSample(%q) = %v, want %v", tt.in, got.Kind, tt.want)
		}
	}
}
