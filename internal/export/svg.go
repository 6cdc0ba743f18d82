// Package export writes frames and traces as SVG.
package export

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/golang/geo/r3"
	"github.com/san-kum/xmastree/internal/imagery"
	"github.com/san-kum/xmastree/internal/layout"
	"github.com/san-kum/xmastree/internal/scene"
	"github.com/san-kum/xmastree/internal/viz"
)

// CanvasToSVG draws each lit dot of canvas as a circle in its cell's tint.
// scale is the distance between dot centres.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}
	w := float64(canvas.DotsW()) * scale
	h := float64(canvas.DotsH()) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, w, h, w, h, viz.ThemeEvergreen.Foliage)

	canvas.EachDot(func(x, y int, tint lipgloss.Color) {
		fill := ""
		if tint != "" {
			fill = fmt.Sprintf(` fill="%s"`, tint)
		}
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"%s/>\n",
			(float64(x)+0.5)*scale, (float64(y)+0.5)*scale, 0.4*scale, fill)
	})

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// ProgressToSVG plots a progress trace over time on a fixed [0, 1] axis.
func ProgressToSVG(times, progress []float64, width, height int, strokeColor string) string {
	n := min(len(times), len(progress))
	if n < 2 {
		return ""
	}
	minT, maxT := times[0], times[n-1]
	rangeT := maxT - minT
	if rangeT <= 0 {
		rangeT = 1
	}
	const pad = 0.1

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="`, width, height, width, height, strokeColor)

	cmd := "M"
	for i := 0; i < n; i++ {
		x := (times[i] - minT) / rangeT * float64(width)
		y := float64(height) * (1 - pad - progress[i]*(1-2*pad))
		fmt.Fprintf(&sb, "%s%.1f,%.1f", cmd, x, y)
		cmd = " L"
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// FrameOptions control FrameToSVG.
type FrameOptions struct {
	Width, Height int
	Theme         viz.Theme
	// Photos supplies card images; a nil cache fills cards with Theme.Photo.
	Photos *imagery.Cache
}

type shape struct {
	depth float64
	svg   string
}

// FrameToSVG draws f as seen from its camera. Elements are painted back to
// front.
func FrameToSVG(w io.Writer, f *scene.Frame, opts FrameOptions) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("export: bad image size %dx%d", opts.Width, opts.Height)
	}
	p := viz.NewProjector(f.Camera, f.LookAt, opts.Width, opts.Height)
	th := opts.Theme
	if th.Name == "" {
		th = viz.ThemeEvergreen
	}

	shapes := make([]shape, 0, len(f.Particles)+len(f.Ornaments)+len(f.Photos)+1)
	add := func(depth float64, format string, args ...any) {
		shapes = append(shapes, shape{depth: depth, svg: fmt.Sprintf(format, args...)})
	}

	for _, pp := range f.Particles {
		x, y, d, ok := p.ProjectF(pp.Position)
		if !ok {
			continue
		}
		fill := th.Foliage
		if pp.Brightness > 0.75 {
			fill = th.FoliageLit
		}
		add(d, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s"/>`, x, y, math.Max(0.5, p.Scale(pp.Size*0.05, d)), fill)
	}

	for i, tr := range f.Ornaments {
		x, y, d, ok := p.ProjectF(tr.Position)
		if !ok {
			continue
		}
		r := math.Max(1, p.Scale(tr.Scale/2, d))
		fill := string(th.Secondary)
		kind := layout.Ball
		if f.Tables != nil && i < len(f.Tables.Ornaments) {
			kind = f.Tables.Ornaments[i].Kind
			if !th.Mono {
				fill = f.Tables.Ornaments[i].Color.String()
			}
		}
		switch kind {
		case layout.Gift:
			add(d, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s"/>`,
				x-r, y-r, 2*r, 2*r, fill, th.Primary)
		case layout.Light:
			add(d, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" opacity="%.2f"/>`,
				x, y, r, fill, math.Min(1, 0.5+0.5*tr.Intensity))
		default:
			add(d, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`, x, y, r, fill)
		}
	}

	for i, tr := range f.Photos {
		x, y, d, ok := p.ProjectF(tr.Position)
		if !ok {
			continue
		}
		half := p.Scale(0.25*tr.Scale, d)
		// Foreshorten by yaw relative to the camera axis.
		wHalf := half * math.Max(0.1, math.Abs(math.Cos(tr.Rotation.Yaw)))
		fill := string(th.Photo)
		if opts.Photos != nil && f.Tables != nil && i < len(f.Tables.Photos) {
			c := imagery.AverageColor(opts.Photos.Get(f.Tables.Photos[i].ImageIndex))
			fill = fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
		}
		add(d, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#FAFAFA" stroke-width="1"/>`,
			x-wHalf, y-half*1.2, 2*wHalf, 2.4*half, fill)
	}

	if x, y, d, ok := p.ProjectF(f.Star.Position); ok {
		add(d, `<polygon points="%s" fill="%s"/>`, starPoints(x, y, p.Scale(0.4*f.Star.Scale, d), f.Star.Rotation.Yaw), th.Star)
	}

	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].depth > shapes[j].depth })

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, opts.Width, opts.Height, opts.Width, opts.Height)
	if x0, y0, d0, ok0 := p.ProjectF(r3.Vector{}); ok0 {
		if x1, y1, _, ok1 := p.ProjectF(r3.Vector{Y: 1.5}); ok1 {
			fmt.Fprintf(bw, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
`, x0, y0, x1, y1, th.Trunk, math.Max(1, p.Scale(0.5, d0)))
		}
	}
	for _, s := range shapes {
		bw.WriteString(s.svg)
		bw.WriteByte('\n')
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

// starPoints returns a five-pointed star polygon turned by yaw.
func starPoints(cx, cy, r, yaw float64) string {
	var sb strings.Builder
	for i := 0; i < 10; i++ {
		rad := r
		if i%2 == 1 {
			rad = r * 0.45
		}
		a := yaw - math.Pi/2 + float64(i)*math.Pi/5
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", cx+rad*math.Cos(a), cy+rad*math.Sin(a))
	}
	return sb.String()
}
