package display

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"sync"
	"sync/atomic"

	"golang.org/x/image/draw"
)

// Phosphor colours.
var (
	COLOR_LIT   = color.RGBA{0, 255, 0, 255}
	COLOR_UNLIT = color.RGBA{0, 0, 0, 255}
)

// Raster is an in-memory Surface. Drawing goes to a back buffer; Present
// copies it to the front buffer read by Frame.
type Raster struct {
	mutex sync.RWMutex
	back  *image.RGBA
	front *image.RGBA
	dirty bool // Back buffer changed since the last Present.

	frames atomic.Uint64
}

var _ Surface = (*Raster)(nil)

// NewRaster creates a dark raster of the given size.
func NewRaster(width, height int) (r *Raster) {
	bounds := image.Rect(0, 0, width, height)
	r = &Raster{
		back:  image.NewRGBA(bounds),
		front: image.NewRGBA(bounds),
	}
	draw.Draw(r.back, bounds, image.NewUniform(COLOR_UNLIT), image.Point{}, draw.Src)
	draw.Draw(r.front, bounds, image.NewUniform(COLOR_UNLIT), image.Point{}, draw.Src)

	return
}

// Bounds returns the raster size.
func (r *Raster) Bounds() image.Rectangle {
	return r.back.Bounds()
}

func (r *Raster) set(x, y int, lit bool) {
	c := COLOR_UNLIT
	if lit {
		c = COLOR_LIT
	}
	// SetRGBA ignores points outside the bounds.
	r.back.SetRGBA(x, y, c)
	r.dirty = true
}

// DrawPoint sets or clears one pixel.
func (r *Raster) DrawPoint(x, y int, lit bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.set(x, y, lit)
}

// DrawLine draws a Bresenham line, both end points included.
func (r *Raster) DrawLine(x0, y0, x1, y1 int, lit bool) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}

	e := dx + dy
	for {
		r.set(x0, y0, lit)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// DrawGlyph draws the lit dots of a character at a text cell.
func (r *Raster) DrawGlyph(col, row int, glyph int) {
	if glyph < 0 || glyph >= GLYPH_COUNT {
		return
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	g := GLYPHS[glyph]
	x0 := col * CELL_WIDTH
	y0 := row * CELL_HEIGHT
	for gx := range GLYPH_WIDTH {
		for gy := range GLYPH_HEIGHT {
			if !g.Lit(gx, gy) {
				continue
			}
			for i := range GLYPH_SCALE {
				for j := range GLYPH_SCALE {
					r.set(x0+gx*GLYPH_SCALE+i, y0+gy*GLYPH_SCALE+j, true)
				}
			}
		}
	}
}

// Present publishes the back buffer, if anything was drawn since the
// last call.
func (r *Raster) Present() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.dirty {
		return
	}

	copy(r.front.Pix, r.back.Pix)
	r.dirty = false
	r.frames.Add(1)
}

// Frames is the number of frames published by Present.
func (r *Raster) Frames() uint64 {
	return r.frames.Load()
}

// Frame returns a copy of the last presented image.
func (r *Raster) Frame() (img *image.RGBA) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	img = image.NewRGBA(r.front.Bounds())
	copy(img.Pix, r.front.Pix)

	return
}

// WritePixels copies the last presented image into an RGBA byte slice.
func (r *Raster) WritePixels(pix []byte) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	copy(pix, r.front.Pix)
}

// WritePNG encodes the last presented image, scaled by scale.
func (r *Raster) WritePNG(output io.Writer, scale float64) (err error) {
	img := r.Frame()
	if scale <= 0 || scale == 1 {
		return png.Encode(output, img)
	}

	bounds := img.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0,
		int(float64(bounds.Dx())*scale),
		int(float64(bounds.Dy())*scale)))
	draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)

	return png.Encode(output, scaled)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
