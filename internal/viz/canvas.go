package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille dot raster with one tint per character cell. The
// nearest dot drawn into a cell decides its tint.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tint          [][]lipgloss.Color
	depth         [][]float64
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{}
	c.Resize(w, h)
	return c
}

// Resize reallocates the grid; the content is lost.
func (c *Canvas) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	c.Width, c.Height = w, h
	c.Grid = make([][]rune, h)
	c.Tint = make([][]lipgloss.Color, h)
	c.depth = make([][]float64, h)
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tint[i] = make([]lipgloss.Color, w)
		c.depth[i] = make([]float64, w)
	}
	c.Clear()
}

// DotsW and DotsH are the raster size in sub-pixels.
func (c *Canvas) DotsW() int { return c.Width * 2 }
func (c *Canvas) DotsH() int { return c.Height * 4 }

// Set lights an untinted dot.
func (c *Canvas) Set(x, y int) {
	c.Plot(x, y, "", math.Inf(1))
}

// Plot sets a dot and tints its cell when depth is nearer than what the cell
// already shows.
func (c *Canvas) Plot(x, y int, tint lipgloss.Color, depth float64) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if tint != "" && depth <= c.depth[row][col] {
		c.depth[row][col] = depth
		c.Tint[row][col] = tint
	}
}

// Disc fills a dot circle of radius r around (cx, cy).
func (c *Canvas) Disc(cx, cy, r int, tint lipgloss.Color, depth float64) {
	if r <= 0 {
		c.Plot(cx, cy, tint, depth)
		return
	}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.Plot(cx+dx, cy+dy, tint, depth)
			}
		}
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Tint[i][j] = ""
			c.depth[i][j] = math.Inf(1)
		}
	}
}

// DrawLine plots a Bresenham line between two dots.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int, tint lipgloss.Color, depth float64) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Plot(x0, y0, tint, depth)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// EachDot calls fn for every lit dot in row-major order with the tint of its
// cell.
func (c *Canvas) EachDot(fn func(x, y int, tint lipgloss.Color)) {
	for row, cells := range c.Grid {
		for col, r := range cells {
			bits := int(r - blank)
			if bits == 0 {
				continue
			}
			for dy, pair := range pixelMap {
				for dx, bit := range pair {
					if bits&bit != 0 {
						fn(col*2+dx, row*4+dy, c.Tint[row][col])
					}
				}
			}
		}
	}
}

// String renders the raw dots without colour.
func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render renders the dots with their tints. Runs of equal tint share one
// style call.
func (c *Canvas) Render() string {
	var b strings.Builder
	for r, row := range c.Grid {
		start := 0
		for i := 1; i <= len(row); i++ {
			if i < len(row) && c.Tint[r][i] == c.Tint[r][start] {
				continue
			}
			run := string(row[start:i])
			if tint := c.Tint[r][start]; tint != "" {
				run = lipgloss.NewStyle().Foreground(tint).Render(run)
			}
			b.WriteString(run)
			start = i
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
