package viz

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"math"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/gesture"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/scene"
)

const (
	width           = 80
	height          = 26
	statsWidth      = 44
	historyCapacity = 300
	handStep        = 0.05
)

type TickMsg time.Time

// BridgeDoneMsg reports that the gesture bridge has returned.
type BridgeDoneMsg struct{ Err error }

// RunBridge runs the bridge as a tea command. The model shows the failure
// and keeps animating with the last known state.
func RunBridge(ctx context.Context, b *gesture.Bridge, src gesture.Source) tea.Cmd {
	return func() tea.Msg {
		return BridgeDoneMsg{Err: b.Run(ctx, src)}
	}
}

// Model is the terminal view of the sculpture. Keyboard input is turned into
// synthetic hand samples on a ManualSource; the bridge that consumes them
// runs elsewhere.
type Model struct {
	sculpt  *scene.Sculpture
	bridge  *gesture.Bridge
	manual  *gesture.ManualSource
	fps     int
	canvas  *Canvas
	proj    *Projector
	frame   *scene.Frame
	history []float64

	handX, handY float64
	running      bool
	showHelp     bool
	ticks        int
	lastTick     time.Time
	measuredFPS  float64

	recording bool
	frames    []*image.Paletted
	status    string
}

// NewModel builds the view. manual may be nil when the bridge reads a real
// feed; keyboard gestures are then ignored.
func NewModel(s *scene.Sculpture, bridge *gesture.Bridge, manual *gesture.ManualSource, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	c := NewCanvas(width, height)
	cam := s.Camera()
	return Model{
		sculpt:  s,
		bridge:  bridge,
		manual:  manual,
		fps:     fps,
		canvas:  c,
		proj:    NewProjector(cam.Position, cam.LookAt, c.DotsW(), c.DotsH()),
		history: make([]float64, 0, historyCapacity),
		handX:   0.5,
		handY:   0.5,
		running: true,
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the animation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "o":
			m.push(gesture.OpenPalm)
		case "f":
			m.push(gesture.ClosedFist)
		case "left", "h":
			m.moveHand(handStep, 0)
		case "right", "l":
			m.moveHand(-handStep, 0)
		case "up", "k":
			m.moveHand(0, handStep)
		case "down", "j":
			m.moveHand(0, -handStep)
		case "c":
			m.handX, m.handY = 0.5, 0.5
			m.push(gesture.None)
		case " ":
			m.running = !m.running
		case "t":
			NextTheme()
		case "+", "=":
			m.proj.ZoomIn()
		case "-", "_":
			m.proj.ZoomOut()
		case "g":
			m.toggleRecording()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := msg.Width - statsWidth - 6
		h := msg.Height - 2
		if w > 10 && h > 5 {
			m.canvas.Resize(w, h)
		}
	case BridgeDoneMsg:
		if msg.Err != nil {
			m.status = "gesture input lost"
		}
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
				m.measuredFPS = 0.9*m.measuredFPS + 0.1/dt
			}
		}
		m.lastTick = now
		if m.running || m.frame == nil {
			m.step()
		}
		if m.recording {
			m.captureFrame()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances one display frame. dt is the nominal frame time so the
// animation speed does not depend on how late the tick arrived.
func (m *Model) step() {
	m.frame = m.sculpt.Tick(1 / float64(m.fps))
	m.ticks++
	m.history = append(m.history, m.frame.Snapshot.Progress)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	DrawFrame(m.canvas, m.proj, m.frame, CurrentTheme)
}

func (m *Model) push(label string) {
	if m.manual == nil {
		m.status = "keyboard gestures disabled: reading " + m.sourceName()
		return
	}
	if !m.manual.PushHand(m.handX, m.handY, label) {
		m.status = "gesture queue full"
		return
	}
	m.status = ""
}

// moveHand shifts the synthetic hand in image space. The image is mirrored,
// so moving the hand left pans the camera left.
func (m *Model) moveHand(dx, dy float64) {
	m.handX = math.Max(0, math.Min(1, m.handX+dx))
	m.handY = math.Max(0, math.Min(1, m.handY+dy))
	m.push(gesture.None)
}

func (m *Model) sourceName() string {
	if m.manual != nil {
		return m.manual.Name()
	}
	return "external feed"
}

// View renders the TUI interface.
func (m Model) View() string {
	if m.frame == nil {
		return "decorating..."
	}
	th := CurrentTheme
	snap := m.frame.Snapshot
	var s strings.Builder

	s.WriteString(GradientText("MERRY CHRISTMAS", th.Primary, th.Secondary) + "\n\n")

	modeStyle := lipgloss.NewStyle().Bold(true).Foreground(th.Success)
	if snap.Mode == anim.Chaos {
		modeStyle = modeStyle.Foreground(th.Warning)
	}
	state := modeStyle.Render(snap.Mode.String())
	if !m.running {
		state += " " + lipgloss.NewStyle().Foreground(th.Muted).Render("(paused)")
	}
	s.WriteString(row("Mode", state))
	s.WriteString(row("Progress", fmt.Sprintf("%s %5.1f%%", ProgressBar(snap.Progress, 16, th), snap.Progress*100)))
	s.WriteString(row("Target", fmt.Sprintf("%.0f", snap.TargetProgress)))
	s.WriteString(row("Hand", fmt.Sprintf("(%+.2f, %+.2f)", snap.CameraOffset.X, snap.CameraOffset.Y)))
	s.WriteString(row("Camera", fmt.Sprintf("(%.1f, %.1f, %.1f)", m.frame.Camera.X, m.frame.Camera.Y, m.frame.Camera.Z)))
	s.WriteString(row("Time", fmt.Sprintf("%.1fs  %s %.0f fps", m.frame.Elapsed, AnimatedSpinner(m.ticks), m.measuredFPS)))

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history,
			asciigraph.Height(4), asciigraph.Width(30),
			asciigraph.LowerBound(0), asciigraph.UpperBound(1),
			asciigraph.Caption("progress"))
		s.WriteString(graphStyle.Foreground(th.Primary).Render(chart) + "\n")
	}

	s.WriteString(Separator(statsWidth-6, th) + "\n")
	s.WriteString(m.gestureView(th))
	s.WriteString(m.countsView())

	if m.recording {
		s.WriteString(lipgloss.NewStyle().Bold(true).Foreground(th.Error).Render(fmt.Sprintf("● REC %d frames", len(m.frames))) + "\n")
	}
	if m.status != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(th.Warning).Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("O:Open palm  F:Fist  ←↑↓→:Hand\nSP:Pause  T:Theme  G:Record  ?:Help  Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.Render()), statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n" + mainView
	}
	return mainView
}

func (m Model) gestureView(th Theme) string {
	var s strings.Builder
	if m.bridge == nil {
		s.WriteString(row("Gesture", "off"))
		return s.String()
	}
	status, err := m.bridge.Status()
	st := lipgloss.NewStyle().Foreground(th.Success)
	switch status {
	case gesture.StatusFailed:
		st = st.Foreground(th.Error)
	case gesture.StatusIdle, gesture.StatusStopped:
		st = st.Foreground(th.Muted)
	}
	s.WriteString(row("Gesture", st.Render(status.String())+" via "+m.sourceName()))
	if err != nil {
		s.WriteString(lipgloss.NewStyle().Foreground(th.Error).Width(statsWidth-6).Render(err.Error()) + "\n")
	}
	label := m.bridge.LastLabel()
	if label == "" {
		label = "-"
	}
	s.WriteString(row("Last", fmt.Sprintf("%s (%d hands)", label, m.bridge.Samples())))
	return s.String()
}

func (m Model) countsView() string {
	t := m.sculpt.Tables()
	kinds := t.CountKinds()
	return row("Elements", fmt.Sprintf("%d foliage, %d photos", len(t.Particles), len(t.Photos))) +
		row("Ornaments", fmt.Sprintf("%d ball, %d gift, %d light", kinds[layout.Ball], kinds[layout.Gift], kinds[layout.Light]))
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  O        - Open palm (scatter)      ║
║  F        - Closed fist (assemble)   ║
║  Arrows   - Move the hand            ║
║  C        - Centre the hand          ║
║  + / -    - Zoom                     ║
║  Space    - Pause/Resume             ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

func (m *Model) toggleRecording() {
	if m.recording {
		name, err := m.saveGIF()
		if err != nil {
			m.status = "gif: " + err.Error()
		} else {
			m.status = "saved " + name
		}
		m.recording = false
		m.frames = nil
		return
	}
	m.recording = true
	m.frames = make([]*image.Paletted, 0)
}

// captureFrame rasterises the dots, each as a block in its cell's tint.
func (m *Model) captureFrame() {
	const dotW, dotH = 4, 4
	c := m.canvas
	img := image.NewPaletted(image.Rect(0, 0, c.DotsW()*dotW, c.DotsH()*dotH), color.Palette{color.Black})
	index := map[lipgloss.Color]uint8{}

	c.EachDot(func(x, y int, tint lipgloss.Color) {
		idx, ok := index[tint]
		if !ok {
			idx = 1
			if len(img.Palette) < 256 {
				rgb := layout.Color{R: 255, G: 255, B: 255}
				if tint != "" {
					rgb = layout.Hex(string(tint))
				}
				img.Palette = append(img.Palette, color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255})
				idx = uint8(len(img.Palette) - 1)
			}
			index[tint] = idx
		}
		for py := 0; py < dotH; py++ {
			for px := 0; px < dotW; px++ {
				img.SetColorIndex(x*dotW+px, y*dotH+py, idx)
			}
		}
	})
	m.frames = append(m.frames, img)
}

func (m *Model) saveGIF() (string, error) {
	if len(m.frames) == 0 {
		return "", fmt.Errorf("no frames recorded")
	}
	name := fmt.Sprintf("xmastree_%s.gif", time.Now().Format("20060102-150405"))
	out := gif.GIF{LoopCount: 0}
	delay := 100 / m.fps
	if delay < 2 {
		delay = 2
	}
	for _, fr := range m.frames {
		out.Image = append(out.Image, fr)
		out.Delay = append(out.Delay, delay)
	}
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &out); err != nil {
		return "", err
	}
	return name, nil
}
