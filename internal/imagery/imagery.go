// Package imagery generates the placeholder pictures shown on photo cards.
package imagery

import (
	"image"
	"image/color"
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	DefaultSize = 128

	// HueStep separates the base hue of consecutive cards.
	HueStep = 30.0

	blobThreshold = 0.18
	blobScale     = 4.0
)

var gold = color.RGBA{R: 255, G: 215, B: 0, A: 255}

// Placeholder paints card index as a diagonal gradient from
// hsl(h, 70%, 60%) to hsl(h+60, 70%, 40%), h = index*HueStep, with
// translucent gold blobs from Perlin noise on top. The same index and seed
// always give the same picture.
func Placeholder(index, size int, seed int64) *image.RGBA {
	if size <= 0 {
		size = DefaultSize
	}
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	hue := math.Mod(float64(index)*HueStep, 360)
	from := HSL(hue, 0.7, 0.6)
	to := HSL(math.Mod(hue+60, 360), 0.7, 0.4)
	noise := perlin.NewPerlin(2, 2, 3, seed*131+int64(index))

	span := float64(2 * (size - 1))
	if span == 0 {
		span = 1
	}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := mix(from, to, float64(x+y)/span)
			n := noise.Noise2D(float64(x)/float64(size)*blobScale, float64(y)/float64(size)*blobScale)
			if n > blobThreshold {
				c = mix(c, gold, 0.5)
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// HSL converts hue in degrees, saturation and lightness in [0, 1] to RGB.
func HSL(h, s, l float64) color.RGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := (1 - math.Abs(2*l-1)) * s
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r, g, b float64
	switch {
	case hp < 1:
		r, g, b = c, x, 0
	case hp < 2:
		r, g, b = x, c, 0
	case hp < 3:
		r, g, b = 0, c, x
	case hp < 4:
		r, g, b = 0, x, c
	case hp < 5:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	m := l - c/2
	return color.RGBA{R: to8(r + m), G: to8(g + m), B: to8(b + m), A: 255}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func mix(a, b color.RGBA, t float64) color.RGBA {
	f := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: f(a.R, b.R), G: f(a.G, b.G), B: f(a.B, b.B), A: 255}
}

// AverageColor is the mean colour of img, used where a card is drawn as a
// flat fill.
func AverageColor(img image.Image) color.RGBA {
	b := img.Bounds()
	var r, g, bl, n uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			bl += uint64(cb >> 8)
			n++
		}
	}
	if n == 0 {
		return color.RGBA{A: 255}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 255}
}

// Cache holds one placeholder per image index.
type Cache struct {
	size  int
	seed  int64
	items map[int]*image.RGBA
}

func NewCache(size int, seed int64) *Cache {
	return &Cache{size: size, seed: seed, items: make(map[int]*image.RGBA)}
}

func (c *Cache) Get(index int) *image.RGBA {
	if img, ok := c.items[index]; ok {
		return img
	}
	img := Placeholder(index, c.size, c.seed)
	c.items[index] = img
	return img
}
