package metrics

import (
	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/scene"
)

type ModeSwitches struct {
	name  string
	seen  bool
	mode  anim.Mode
	count int
}

func NewModeSwitches() *ModeSwitches {
	return &ModeSwitches{name: "mode_switches"}
}

func (m *ModeSwitches) Name() string { return m.name }

func (m *ModeSwitches) Observe(f *scene.Frame) {
	if m.seen && f.Snapshot.Mode != m.mode {
		m.count++
	}
	m.seen = true
	m.mode = f.Snapshot.Mode
}

func (m *ModeSwitches) Value() float64 { return float64(m.count) }

func (m *ModeSwitches) Reset() {
	m.seen = false
	m.count = 0
}
