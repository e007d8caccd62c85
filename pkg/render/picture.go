package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"

	"stl2thumb/internal/util"
	"stl2thumb/internal/vec"
)

// RGBA is a single pixel color with 8 bits per channel
type RGBA struct {
	R, G, B, A uint8
}

// FromVec4 converts floating point color components in [0,1] to an RGBA
// pixel, clamping out of range values
func FromVec4(v vec.Vec4) RGBA {
	return RGBA{
		R: channel(v.X),
		G: channel(v.Y),
		B: channel(v.Z),
		A: channel(v.W),
	}
}

func channel(f float64) uint8 {
	if math.IsNaN(f) {
		return 0
	}
	return uint8(util.Clamp(f, 0, 1) * 255)
}

// ParseHex parses an RRGGBB or RRGGBBAA hex color string
func ParseHex(s string) (RGBA, error) {
	if len(s) != 6 && len(s) != 8 {
		return RGBA{}, fmt.Errorf("render: hex color %q must have 6 or 8 digits", s)
	}

	var channels [4]uint8
	channels[3] = 255
	for i := 0; i < len(s)/2; i++ {
		v, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("render: bad hex color %q: %v", s, err)
		}
		channels[i] = uint8(v)
	}

	return RGBA{R: channels[0], G: channels[1], B: channels[2], A: channels[3]}, nil
}

// Vec3 returns the color channels as floats in [0,1], alpha is dropped
func (c RGBA) Vec3() vec.Vec3 {
	return vec.Vec3{
		X: float64(c.R) / 255,
		Y: float64(c.G) / 255,
		Z: float64(c.B) / 255,
	}
}

// Picture is an RGBA8888 framebuffer with row-major layout
type Picture struct {
	width  int
	height int
	stride int
	data   []uint8
}

// NewPicture creates a fully transparent picture
func NewPicture(width, height int) *Picture {
	stride := width * 4
	return &Picture{
		width:  width,
		height: height,
		stride: stride,
		data:   make([]uint8, height*stride),
	}
}

// Width returns the width in pixels
func (p *Picture) Width() int { return p.width }

// Height returns the height in pixels
func (p *Picture) Height() int { return p.height }

// Stride returns the number of bytes per row
func (p *Picture) Stride() int { return p.stride }

// Depth returns the number of bytes per pixel
func (p *Picture) Depth() int { return 4 }

// Data returns the raw pixel data in RGBA order
func (p *Picture) Data() []uint8 { return p.data }

// SetPixel sets a single pixel, out of range coordinates are ignored
func (p *Picture) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return
	}
	i := y*p.stride + x*4
	p.data[i+0] = c.R
	p.data[i+1] = c.G
	p.data[i+2] = c.B
	p.data[i+3] = c.A
}

// PixelAt returns a single pixel, out of range coordinates read transparent
func (p *Picture) PixelAt(x, y int) RGBA {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return RGBA{}
	}
	i := y*p.stride + x*4
	return RGBA{R: p.data[i+0], G: p.data[i+1], B: p.data[i+2], A: p.data[i+3]}
}

// Fill sets every pixel to the given color
func (p *Picture) Fill(c RGBA) {
	for i := 0; i < len(p.data); i += 4 {
		p.data[i+0] = c.R
		p.data[i+1] = c.G
		p.data[i+2] = c.B
		p.data[i+3] = c.A
	}
}

// Line draws a straight line using Bresenham's algorithm
func (p *Picture) Line(x0, y0, x1, y1 int, c RGBA) {
	x, y := x0, y0

	dx := abs(x1 - x0)
	sx := 1
	if x0 >= x1 {
		sx = -1
	}
	dy := -abs(y1 - y0)
	sy := 1
	if y0 >= y1 {
		sy = -1
	}
	err := dx + dy

	for {
		p.SetPixel(x, y, c)
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * err
		if e2 > dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// BGRA returns a copy of the pixel data with the channel order swapped,
// for consumers whose platform image type expects BGRA
func (p *Picture) BGRA() []uint8 {
	bgra := make([]uint8, len(p.data))
	for i := 0; i < len(p.data); i += 4 {
		bgra[i+0] = p.data[i+2]
		bgra[i+1] = p.data[i+1]
		bgra[i+2] = p.data[i+0]
		bgra[i+3] = p.data[i+3]
	}
	return bgra
}

// ColorModel implements image.Image
func (p *Picture) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image
func (p *Picture) Bounds() image.Rectangle { return image.Rect(0, 0, p.width, p.height) }

// At implements image.Image
func (p *Picture) At(x, y int) color.Color {
	c := p.PixelAt(x, y)
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Set implements draw.Image so text can be drawn directly onto the picture
func (p *Picture) Set(x, y int, c color.Color) {
	r, g, b, a := c.RGBA()
	p.SetPixel(x, y, RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)})
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
