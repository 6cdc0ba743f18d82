package gesture

import (
	"context"
	"math"
	"time"
)

// Classifier labels the bridge reacts to.
const (
	OpenPalm   = "Open_Palm"
	ClosedFist = "Closed_Fist"
	None       = "None"
)

// Landmark is a normalised image-space point; x and y are in [0, 1].
type Landmark struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z,omitempty" yaml:"z,omitempty"`
}

// Gesture is one classifier candidate.
type Gesture struct {
	Label      string  `json:"label" yaml:"label"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Hand is one detected hand.
type Hand struct {
	Landmarks []Landmark `json:"landmarks" yaml:"landmarks"`
	Gestures  []Gesture  `json:"gestures,omitempty" yaml:"gestures,omitempty"`
}

// Center is the unweighted centroid of the landmarks.
func (h Hand) Center() (x, y float64, ok bool) {
	if len(h.Landmarks) == 0 {
		return 0, 0, false
	}
	for _, lm := range h.Landmarks {
		x += lm.X
		y += lm.Y
	}
	n := float64(len(h.Landmarks))
	return x / n, y / n, true
}

// Top returns the highest-confidence candidate. Ties keep the earlier one.
func (h Hand) Top() (Gesture, bool) {
	if len(h.Gestures) == 0 {
		return Gesture{}, false
	}
	best := h.Gestures[0]
	for _, g := range h.Gestures[1:] {
		if g.Confidence > best.Confidence {
			best = g
		}
	}
	return best, true
}

// Sample is one classifier pass over one video frame.
type Sample struct {
	Hands []Hand        `json:"hands"`
	At    time.Duration `json:"-"`
}

// Primary returns the first hand that has landmarks.
func (s Sample) Primary() (Hand, bool) {
	if len(s.Hands) == 0 || len(s.Hands[0].Landmarks) == 0 {
		return Hand{}, false
	}
	return s.Hands[0], true
}

// SyntheticHand builds a 21-point ring of landmarks centred on (x, y) with a
// single gesture candidate. Keyboard, mouse and scripted sources use it to
// stand in for a real classifier.
func SyntheticHand(x, y float64, label string) Hand {
	const points = 21
	const spread = 0.04
	lms := make([]Landmark, points)
	for i := range lms {
		a := 2 * math.Pi * float64(i) / points
		lms[i] = Landmark{X: x + spread*math.Cos(a), Y: y + spread*math.Sin(a)}
	}
	h := Hand{Landmarks: lms}
	if label != "" {
		h.Gestures = []Gesture{{Label: label, Confidence: 1}}
	}
	return h
}

// ResultKind tags a Result.
type ResultKind uint8

const (
	Detected ResultKind = iota
	NoDetection
	Failed
)

func (k ResultKind) String() string {
	switch k {
	case Detected:
		return "detected"
	case NoDetection:
		return "no-detection"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Result is the outcome of one sampling attempt.
type Result struct {
	Kind   ResultKind
	Sample Sample
	Err    error
}

func detected(s Sample) Result { return Result{Kind: Detected, Sample: s} }
func noDetection() Result     { return Result{Kind: NoDetection} }
func failed(err error) Result { return Result{Kind: Failed, Err: err} }

// Source produces classifier results. Next blocks until a result is ready or
// ctx is done; Close releases the capture device.
type Source interface {
	Name() string
	Next(ctx context.Context) Result
	Close() error
}
