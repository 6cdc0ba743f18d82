// Package gui renders the tree in a raylib window. The mouse stands in for a
// tracked hand: its position pans the camera and its buttons make gestures.
package gui

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/gesture"
	"github.com/san-kum/xmastree/internal/imagery"
	"github.com/san-kum/xmastree/internal/scene"
)

var (
	ColBg      = rl.NewColor(4, 10, 8, 255)
	ColAccent  = rl.NewColor(255, 215, 0, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(170, 190, 180, 255)
	ColTextDim = rl.NewColor(70, 90, 80, 255)
	ColFoliage = rl.NewColor(4, 99, 7, 255)
	ColLit     = rl.NewColor(120, 220, 150, 255)
	ColTrunk   = rl.NewColor(139, 69, 19, 255)
)

const (
	screenW     = 1280
	screenH     = 720
	photoPixels = 128
	maxTelem    = 300
)

// Options configure the window.
type Options struct {
	Title string
	FPS   int
	Seed  int64
}

type App struct {
	Sculpt *scene.Sculpture
	Bridge *gesture.Bridge
	Manual *gesture.ManualSource
	Camera rl.Camera3D
	FPS    int

	Running   bool
	ShowHUD   bool
	Font      rl.Font
	Telemetry []float64

	GlowTex  rl.Texture2D
	PhotoTex []rl.Texture2D
	Stars    []rl.Vector3

	lastHand handState
	logger   *log.Logger
}

type handState struct {
	x, y  float64
	label string
}

func initWindow(opts Options) {
	rl.InitWindow(screenW, screenH, opts.Title)
	rl.SetTargetFPS(int32(opts.FPS))
	rl.SetExitKey(0)
}

// loadFont prefers Liberation Mono and falls back to raylib's built-in font.
func loadFont() rl.Font {
	const path = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
	if _, err := os.Stat(path); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(path, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp prepares GPU resources for s. It must be called after the window
// is open. manual may be nil when gestures come from an external feed.
func NewApp(s *scene.Sculpture, bridge *gesture.Bridge, manual *gesture.ManualSource, opts Options, logger *log.Logger) *App {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	cam := s.Camera()
	app := &App{
		Sculpt: s,
		Bridge: bridge,
		Manual: manual,
		FPS:    opts.FPS,
		Camera: rl.NewCamera3D(
			vec3(cam.Position),
			vec3(cam.LookAt),
			rl.NewVector3(0, 1, 0),
			45.0,
			rl.CameraPerspective,
		),
		Running:   true,
		ShowHUD:   true,
		Font:      loadFont(),
		Telemetry: make([]float64, 0, maxTelem),
		lastHand:  handState{x: 0.5, y: 0.5},
		logger:    logger,
	}

	img := rl.GenImageGradientRadial(32, 32, 0.0, rl.White, rl.NewColor(0, 0, 0, 0))
	app.GlowTex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	cache := imagery.NewCache(photoPixels, opts.Seed)
	for _, p := range s.Tables().Photos {
		for len(app.PhotoTex) <= p.ImageIndex {
			card := rl.NewImageFromImage(cache.Get(len(app.PhotoTex)))
			app.PhotoTex = append(app.PhotoTex, rl.LoadTextureFromImage(card))
			rl.UnloadImage(card)
		}
	}

	logger.Printf("gui: %d photo textures of %dpx", len(app.PhotoTex), photoPixels)

	rng := rand.New(rand.NewSource(opts.Seed))
	app.Stars = make([]rl.Vector3, 800)
	for i := range app.Stars {
		app.Stars[i] = rl.NewVector3(
			float32((rng.Float64()-0.5)*200),
			float32(rng.Float64()*80-10),
			float32(-60-rng.Float64()*60),
		)
	}
	return app
}

func (a *App) unload() {
	rl.UnloadTexture(a.GlowTex)
	for _, t := range a.PhotoTex {
		rl.UnloadTexture(t)
	}
}

// Run opens the window and animates s until the window closes or ctx is
// done. raylib needs the main OS thread, so Run must be called from main.
func Run(ctx context.Context, s *scene.Sculpture, bridge *gesture.Bridge, manual *gesture.ManualSource, opts Options, logger *log.Logger) error {
	if opts.FPS <= 0 {
		opts.FPS = 60
	}
	if opts.Title == "" {
		opts.Title = "xmastree"
	}
	initWindow(opts)
	defer rl.CloseWindow()

	app := NewApp(s, bridge, manual, opts, logger)
	defer app.unload()
	return app.RunLoop(ctx)
}

func (a *App) RunLoop(ctx context.Context) error {
	for !rl.WindowShouldClose() {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if quit := a.Update(); quit {
			return nil
		}
		a.Draw()
	}
	return nil
}

// Update handles input and steps the animation. It reports whether the user
// asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) {
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}

	a.pollHand()

	if !a.Running {
		return false
	}
	f := a.Sculpt.Tick(1 / float64(a.FPS))
	a.Camera.Position = vec3(f.Camera)
	a.Camera.Target = vec3(f.LookAt)

	a.Telemetry = append(a.Telemetry, f.Snapshot.Progress)
	if len(a.Telemetry) > maxTelem {
		a.Telemetry = a.Telemetry[1:]
	}
	return false
}

// pollHand turns the mouse into a synthetic hand sample. Samples are only
// pushed when the hand moved or changed gesture.
func (a *App) pollHand() {
	if a.Manual == nil {
		return
	}
	mouse := rl.GetMousePosition()
	w, h := float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight())
	// Flip both axes so the camera follows the pointer the way it follows a
	// hand in front of a mirrored webcam.
	hand := handState{
		x:     1 - float64(mouse.X)/w,
		y:     1 - float64(mouse.Y)/h,
		label: gesture.None,
	}
	switch {
	case rl.IsMouseButtonDown(rl.MouseLeftButton) || rl.IsKeyDown(rl.KeyO):
		hand.label = gesture.OpenPalm
	case rl.IsMouseButtonDown(rl.MouseRightButton) || rl.IsKeyDown(rl.KeyF):
		hand.label = gesture.ClosedFist
	}
	if hand == a.lastHand {
		return
	}
	if a.Manual.PushHand(hand.x, hand.y, hand.label) {
		a.lastHand = hand
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	rl.BeginMode3D(a.Camera)
	a.drawTree(a.Sculpt)
	rl.EndMode3D()

	if a.ShowHUD {
		a.DrawHUD()
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	snap := a.Sculpt.State().Snapshot()
	a.drawText("MERRY CHRISTMAS", 30, 30, 24, ColAccent)
	mode := snap.Mode.String()
	col := ColSelect
	if snap.Mode == anim.Chaos {
		col = ColAccent
	}
	a.drawText(mode, 30, 62, 16, col)
	a.drawText(fmt.Sprintf("progress %5.1f%%", snap.Progress*100), 30, 84, 14, ColText)

	if a.Bridge != nil {
		status, err := a.Bridge.Status()
		line := "gesture " + status.String()
		if label := a.Bridge.LastLabel(); label != "" {
			line += " :: " + label
		}
		a.drawText(line, 30, 106, 14, ColText)
		if err != nil {
			a.drawText(err.Error(), 30, 128, 14, rl.Red)
		}
	}

	if !a.Running {
		a.drawText("PAUSED", 1150, 30, 16, ColTextDim)
	}
	a.DrawTelemetry()
	a.drawText("[LMB/O] OPEN PALM  [RMB/F] FIST  [SPACE] PAUSE  [H] HUD  [Q] QUIT", 640, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

// DrawTelemetry plots recent progress in the bottom-left corner.
func (a *App) DrawTelemetry() {
	n := len(a.Telemetry)
	if n < 2 {
		return
	}
	const x0, y0, w, h = 30, 560, 240, 80
	rl.DrawRectangleLines(x0, y0, w, h, ColTextDim)
	points := make([]rl.Vector2, n)
	for i, v := range a.Telemetry {
		points[i] = rl.NewVector2(
			float32(x0)+float32(i)*float32(w)/float32(maxTelem),
			float32(y0+h)-float32(v)*float32(h),
		)
	}
	rl.DrawLineStrip(points, ColAccent)
}
