package display

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRasterLine(t *testing.T) {
	assert := assert.New(t)

	r := NewRaster(64, 64)
	r.DrawLine(10, 10, 20, 15, true)
	r.DrawLine(5, 40, 5, 30, true)
	r.DrawPoint(100, 100, true)

	// Nothing is visible until presented.
	assert.Equal(COLOR_UNLIT, r.Frame().RGBAAt(10, 10))

	r.Present()
	assert.Equal(uint64(1), r.Frames())

	// Nothing new to publish.
	r.Present()
	assert.Equal(uint64(1), r.Frames())

	frame := r.Frame()
	assert.Equal(COLOR_LIT, frame.RGBAAt(10, 10))
	assert.Equal(COLOR_LIT, frame.RGBAAt(20, 15))
	assert.Equal(COLOR_LIT, frame.RGBAAt(5, 30))
	assert.Equal(COLOR_LIT, frame.RGBAAt(5, 35))
	assert.Equal(COLOR_LIT, frame.RGBAAt(5, 40))
	assert.Equal(COLOR_UNLIT, frame.RGBAAt(0, 0))

	r.DrawLine(10, 10, 20, 15, false)
	r.Present()
	assert.Equal(COLOR_UNLIT, r.Frame().RGBAAt(10, 10))
}

func TestRasterGlyph(t *testing.T) {
	assert := assert.New(t)

	r := NewRaster(SCREEN_WIDTH, SCREEN_HEIGHT)
	code := CodeOf('I')
	r.DrawGlyph(1, 1, code)
	r.DrawGlyph(0, 0, GLYPH_COUNT)
	r.Present()

	frame := r.Frame()
	x0, y0 := CELL_WIDTH, CELL_HEIGHT
	for gx := range GLYPH_WIDTH {
		for gy := range GLYPH_HEIGHT {
			expected := COLOR_UNLIT
			if GLYPHS[code].Lit(gx, gy) {
				expected = COLOR_LIT
			}
			for i := range GLYPH_SCALE {
				for j := range GLYPH_SCALE {
					x := x0 + gx*GLYPH_SCALE + i
					y := y0 + gy*GLYPH_SCALE + j
					assert.Equal(expected, frame.RGBAAt(x, y))
				}
			}
		}
	}

	// 'I' has a full centre column.
	assert.True(GLYPHS[code].Lit(2, 0))
	assert.True(GLYPHS[code].Lit(2, 6))
	assert.False(GLYPHS[code].Lit(5, 0))
}

func TestRasterPNG(t *testing.T) {
	assert := assert.New(t)

	r := NewRaster(64, 32)
	r.DrawPoint(0, 0, true)
	r.Present()

	var buff bytes.Buffer
	assert.NoError(r.WritePNG(&buff, 2))

	img, err := png.Decode(&buff)
	assert.NoError(err)
	assert.Equal(128, img.Bounds().Dx())
	assert.Equal(64, img.Bounds().Dy())

	pix := make([]byte, 64*32*4)
	r.WritePixels(pix)
	assert.Equal(byte(255), pix[1])
}

func TestCodeOf(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(0, CodeOf(' '))
	assert.Equal(0o37, CodeOf('?'))
	assert.Equal(0o40, CodeOf('A'))
	assert.Equal(0o71, CodeOf('Z'))
	assert.Equal(0o71, CodeOf('z'))
	assert.Equal(0o37, CodeOf('@'))

	for code := range GLYPH_COUNT {
		ch, ok := CharOf(code)
		assert.True(ok)
		assert.Equal(code, CodeOf(ch))
	}
	_, ok := CharOf(CHAR_ESCAPE)
	assert.False(ok)
}
