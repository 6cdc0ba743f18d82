package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/san-kum/xmastree/internal/anim"
	"github.com/san-kum/xmastree/internal/imagery"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/pose"
	"github.com/san-kum/xmastree/internal/scene"
	"github.com/san-kum/xmastree/internal/viz"
)

func frame(t *testing.T, mode anim.Mode) *scene.Frame {
	t.Helper()
	tables := layout.NewGenerator(layout.DefaultShape(), 5).Generate(200, 24, 6)
	s := scene.New(tables, nil, nil, pose.AllowOvershoot)
	s.State().SetMode(mode)
	var f *scene.Frame
	for i := 0; i < 50; i++ {
		f = s.Tick(0.1)
	}
	return f
}

func TestFrameToSVG(t *testing.T) {
	var buf bytes.Buffer
	f := frame(t, anim.Formed)
	err := FrameToSVG(&buf, f, FrameOptions{Width: 640, Height: 480, Photos: imagery.NewCache(16, 1)})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<?xml") || !strings.HasSuffix(out, "</svg>\n") {
		t.Fatal("not a complete svg document")
	}
	if n := strings.Count(out, "<circle"); n < 100 {
		t.Errorf("%d circles for 200 particles", n)
	}
	if !strings.Contains(out, "<polygon") {
		t.Error("no star")
	}
	if strings.Count(out, `stroke="#FAFAFA"`) == 0 {
		t.Error("no photo cards")
	}
}

func TestFrameToSVGPaintersOrder(t *testing.T) {
	var buf bytes.Buffer
	f := frame(t, anim.Chaos)
	if err := FrameToSVG(&buf, f, FrameOptions{Width: 320, Height: 240}); err != nil {
		t.Fatal(err)
	}
	// The star is the only polygon; with the tree scattered it sits far
	// above the particles but still in front of the far half of the cloud.
	out := buf.String()
	if strings.Index(out, "<polygon") < strings.Index(out, "<circle") {
		t.Error("star painted before the farthest particles")
	}
}

func TestFrameToSVGBadSize(t *testing.T) {
	if err := FrameToSVG(&bytes.Buffer{}, frame(t, anim.Formed), FrameOptions{}); err == nil {
		t.Error("zero size accepted")
	}
}

func TestProgressToSVG(t *testing.T) {
	if ProgressToSVG([]float64{0}, []float64{0}, 100, 50, "#fff") != "" {
		t.Error("single point plotted")
	}
	out := ProgressToSVG([]float64{0, 1, 2}, []float64{0, 0.5, 1}, 100, 50, "#FFD700")
	if !strings.Contains(out, "M0.0,45.0") || !strings.Contains(out, "L100.0,5.0") {
		t.Errorf("path = %s", out)
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.Plot(0, 0, "#FF0000", 1)
	out := CanvasToSVG(c, 4)
	if strings.Count(out, "<circle") != 1 || !strings.Contains(out, `fill="#FF0000"`) {
		t.Errorf("svg = %s", out)
	}
}
