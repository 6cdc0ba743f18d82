package gesture

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// ScriptEvent is one step of a scripted gesture timeline. X and Y default to
// the frame centre. Absent replays a frame where no hand was found.
type ScriptEvent struct {
	At      time.Duration `yaml:"at"`
	Gesture string        `yaml:"gesture,omitempty"`
	X       *float64      `yaml:"x,omitempty"`
	Y       *float64      `yaml:"y,omitempty"`
	Absent  bool          `yaml:"absent,omitempty"`
}

// Result converts the event into what a classifier would have produced.
func (e ScriptEvent) Result() Result {
	if e.Absent {
		return noDetection()
	}
	x, y := 0.5, 0.5
	if e.X != nil {
		x = *e.X
	}
	if e.Y != nil {
		y = *e.Y
	}
	return detected(Sample{Hands: []Hand{SyntheticHand(x, y, e.Gesture)}, At: e.At})
}

// At is a helper for building events in code.
func At(at time.Duration, gesture string, x, y float64) ScriptEvent {
	return ScriptEvent{At: at, Gesture: gesture, X: &x, Y: &y}
}

type scriptFile struct {
	Events []ScriptEvent `yaml:"events"`
}

// LoadScript reads a yaml timeline of the form
//
//	events:
//	  - at: 500ms
//	    gesture: Open_Palm
//	    x: 0.3
//	    y: 0.5
func LoadScript(path string) ([]ScriptEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse script %s: %w", path, err)
	}
	for i, ev := range f.Events {
		if ev.At < 0 {
			return nil, fmt.Errorf("script %s: event %d at negative time %v", path, i, ev.At)
		}
	}
	return f.Events, nil
}

// ScriptSource replays a timeline. Next paces itself on the wall clock;
// Due lets a caller on simulated time pull events without sleeping.
type ScriptSource struct {
	events []ScriptEvent

	mu     sync.Mutex
	next   int
	start  time.Time
	closed bool
}

func NewScriptSource(events []ScriptEvent) *ScriptSource {
	evs := append([]ScriptEvent(nil), events...)
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].At < evs[j].At })
	return &ScriptSource{events: evs}
}

func (s *ScriptSource) Name() string { return "script" }

// Len is the number of events in the timeline.
func (s *ScriptSource) Len() int { return len(s.events) }

// Exhausted reports whether every event has been delivered.
func (s *ScriptSource) Exhausted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.next >= len(s.events)
}

// Due returns the results of all undelivered events scheduled at or before
// elapsed, in timeline order.
func (s *ScriptSource) Due(elapsed time.Duration) []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Result
	for s.next < len(s.events) && s.events[s.next].At <= elapsed {
		out = append(out, s.events[s.next].Result())
		s.next++
	}
	return out
}

// Next blocks until the following event is due. Once the timeline is spent
// it blocks until ctx is done, like a camera with nobody in front of it.
func (s *ScriptSource) Next(ctx context.Context) Result {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return failed(ErrClosed)
	}
	if s.start.IsZero() {
		s.start = time.Now()
	}
	if s.next >= len(s.events) {
		s.mu.Unlock()
		<-ctx.Done()
		return failed(ctx.Err())
	}
	ev := s.events[s.next]
	wait := time.Until(s.start.Add(ev.At))
	s.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return failed(ctx.Err())
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return ev.Result()
}

func (s *ScriptSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	return nil
}
