// Package display decodes the word stream of the Type 340 display and the
// teleprinter into drawing calls on a Surface.
package display

// Default surface geometry, in pixels.
const (
	SCREEN_WIDTH  = 1024
	SCREEN_HEIGHT = 1024
)

// Surface is the rendering backend. The decoder only draws; it never reads
// anything back.
type Surface interface {
	// DrawPoint sets or clears one pixel.
	DrawPoint(x, y int, lit bool)
	// DrawLine draws a line between two pixels, end points included.
	DrawLine(x0, y0, x1, y1 int, lit bool)
	// DrawGlyph draws character code glyph at a text cell.
	DrawGlyph(col, row int, glyph int)
	// Present makes everything drawn so far visible.
	Present()
}
