package viz

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/config"
	"github.com/san-kum/xmastree/internal/gesture"
	"github.com/san-kum/xmastree/internal/scene"
)

var (
	gold   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
)

var presetInfo = map[string]string{
	"classic":  "the full tree",
	"sparse":   "few elements, fast terminals",
	"blizzard": "dense foliage, wide storm",
	"clamped":  "ornaments stop at full scatter",
}

const (
	stateMenu = iota
	stateConfig
	stateLive
)

type field struct {
	name string
	get  func(*config.Config) float64
	set  func(*config.Config, float64)
}

var fields = []field{
	{"particles", func(c *config.Config) float64 { return float64(c.Counts.Particles) },
		func(c *config.Config, v float64) { c.Counts.Particles = int(v) }},
	{"ornaments", func(c *config.Config) float64 { return float64(c.Counts.Ornaments) },
		func(c *config.Config, v float64) { c.Counts.Ornaments = int(v) }},
	{"photos", func(c *config.Config) float64 { return float64(c.Counts.Photos) },
		func(c *config.Config, v float64) { c.Counts.Photos = int(v) }},
	{"smoothing", func(c *config.Config) float64 { return c.SmoothingRate },
		func(c *config.Config, v float64) { c.SmoothingRate = v }},
	{"fps", func(c *config.Config) float64 { return float64(c.FPS) },
		func(c *config.Config, v float64) { c.FPS = int(v) }},
	{"seed", func(c *config.Config) float64 { return float64(c.Seed) },
		func(c *config.Config, v float64) { c.Seed = int64(v) }},
}

// fieldStep is the left/right nudge for each field.
var fieldStep = map[string]float64{
	"particles": 1000, "ornaments": 10, "photos": 1, "smoothing": 0.5, "fps": 5, "seed": 1,
}

type launcher struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	fieldCursor   int
	editing       bool
	editBuf       string
	err           string
	logger        *log.Logger

	cancel context.CancelFunc
	live   Model
}

// NewInteractiveApp returns the preset launcher. Choosing a preset opens a
// small editor for the counts and tuning, then starts the live tree with
// keyboard gestures.
func NewInteractiveApp(logger *log.Logger) tea.Model {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return launcher{presets: config.ListPresets(), logger: logger}
}

func (m launcher) Init() tea.Cmd { return nil }

func (m launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateLive {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			m.stop()
			m.state = stateConfig
			return m, nil
		}
		if k, ok := msg.(tea.KeyMsg); ok && (k.String() == "q" || k.String() == "ctrl+c") {
			m.stop()
			return m, tea.Quit
		}
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch m.state {
	case stateMenu:
		return m.menuKey(k)
	case stateConfig:
		return m.configKey(k)
	}
	return m, nil
}

func (m launcher) menuKey(msg tea.KeyMsg) (launcher, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state, m.fieldCursor, m.err = stateConfig, 0, ""
	}
	return m, nil
}

func (m launcher) configKey(msg tea.KeyMsg) (launcher, tea.Cmd) {
	f := fields[m.fieldCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				f.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(fields)-1 {
			m.fieldCursor++
		}
	case "enter":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", f.get(m.cfg))
	case "left", "h":
		f.set(m.cfg, f.get(m.cfg)-fieldStep[f.name])
	case "right", "l":
		f.set(m.cfg, f.get(m.cfg)+fieldStep[f.name])
	case "o":
		if m.cfg.OrnamentOvershoot == "clamp" {
			m.cfg.OrnamentOvershoot = "allow"
		} else {
			m.cfg.OrnamentOvershoot = "clamp"
		}
	case "s":
		return m.start()
	}
	return m, nil
}

func (m launcher) start() (launcher, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err.Error()
		return m, nil
	}
	m.err = ""

	state := anim.New(m.cfg.SmoothingRate)
	sc := scene.New(m.cfg.Tables(), state, m.cfg.NewCamera(), m.cfg.Policy())
	manual := gesture.NewManual(16)
	bridge := gesture.NewBridge(state, m.logger)
	SetTheme(m.cfg.Theme)

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.live = NewModel(sc, bridge, manual, m.cfg.FPS)
	m.state = stateLive
	return m, tea.Batch(m.live.Init(), RunBridge(ctx, bridge, manual), tea.WindowSize())
}

func (m *launcher) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m launcher) View() string {
	switch m.state {
	case stateMenu:
		return m.menuView()
	case stateConfig:
		return m.configView()
	case stateLive:
		return m.live.View() + dimmer.Render("\n esc back to settings")
	}
	return ""
}

func (m launcher) menuView() string {
	var b strings.Builder
	b.WriteString("\n" + GradientText("  x m a s t r e e", CurrentTheme.Primary, CurrentTheme.Secondary) + "\n")
	b.WriteString(dimmer.Render("  ─────────────────────────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(gold.Render("  ▸ ") + white.Render(fmt.Sprintf("%-10s", name)) + dim.Render(presetInfo[name]) + "\n")
		} else {
			b.WriteString(dimmer.Render("    ") + dim.Render(fmt.Sprintf("%-10s", name)) + dimmer.Render(presetInfo[name]) + "\n")
		}
	}
	b.WriteString("\n" + dimmer.Render("  ↑↓ select  enter configure  q quit") + "\n")
	return b.String()
}

func (m launcher) configView() string {
	var b strings.Builder
	b.WriteString("\n" + gold.Render("  "+m.presets[m.cursor]) + "\n")
	b.WriteString(dimmer.Render("  ─────────────────────────────────────") + "\n\n")
	for i, f := range fields {
		val := fmt.Sprintf("%g", f.get(m.cfg))
		if m.editing && i == m.fieldCursor {
			val = m.editBuf + "▌"
		}
		if i == m.fieldCursor {
			b.WriteString(gold.Render("  ▸ ") + white.Render(fmt.Sprintf("%-10s", f.name)) + green.Render(val) + "\n")
		} else {
			b.WriteString("    " + dim.Render(fmt.Sprintf("%-10s", f.name)) + dimmer.Render(val) + "\n")
		}
	}
	b.WriteString("    " + dim.Render(fmt.Sprintf("%-10s", "overshoot")) + dimmer.Render(m.cfg.OrnamentOvershoot) + "\n")
	if m.err != "" {
		b.WriteString("\n" + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render("  "+m.err) + "\n")
	}
	b.WriteString("\n" + dimmer.Render("  ↑↓ select  ←→ adjust  enter edit  o overshoot  s start  esc back") + "\n")
	return b.String()
}
