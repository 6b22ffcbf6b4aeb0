package display

// Glyph geometry, in surface pixels.
const (
	GLYPH_WIDTH  = 5 // Columns of a glyph.
	GLYPH_HEIGHT = 7 // Rows of a glyph.
	GLYPH_SCALE  = 2 // Pixels per glyph dot.
	GLYPH_XSEP   = 1 // Blank dots between glyphs.
	GLYPH_YSEP   = 1 // Blank dots between rows of text.

	CELL_WIDTH  = (GLYPH_WIDTH + GLYPH_XSEP) * GLYPH_SCALE
	CELL_HEIGHT = (GLYPH_HEIGHT + GLYPH_YSEP) * GLYPH_SCALE
)

// GLYPH_COUNT is the number of printable character codes.
const GLYPH_COUNT = 0o72

// Glyph is a 5x7 character, one byte per column, bit 0 at the top.
type Glyph [GLYPH_WIDTH]uint8

// Lit is true if the dot at column x, row y is drawn.
func (g Glyph) Lit(x, y int) bool {
	if x < 0 || x >= GLYPH_WIDTH || y < 0 || y >= GLYPH_HEIGHT {
		return false
	}
	return g[x]&(1<<y) != 0
}

// GLYPHS is indexed by character code: space through '?', then 'A' through 'Z'.
var GLYPHS = [GLYPH_COUNT]Glyph{
	{0x00, 0x00, 0x00, 0x00, 0x00}, // 00 space
	{0x00, 0x00, 0x5f, 0x00, 0x00}, // 01 !
	{0x00, 0x03, 0x00, 0x03, 0x00}, // 02 "
	{0x14, 0x7f, 0x14, 0x7f, 0x14}, // 03 #
	{0x24, 0x2a, 0x7f, 0x2a, 0x12}, // 04 $
	{0x23, 0x13, 0x08, 0x64, 0x62}, // 05 %
	{0x36, 0x49, 0x55, 0x22, 0x50}, // 06 &
	{0x00, 0x05, 0x03, 0x00, 0x00}, // 07 '
	{0x00, 0x1c, 0x22, 0x41, 0x00}, // 10 (
	{0x00, 0x41, 0x22, 0x1c, 0x00}, // 11 )
	{0x14, 0x08, 0x3e, 0x08, 0x14}, // 12 *
	{0x08, 0x08, 0x3e, 0x08, 0x08}, // 13 +
	{0x00, 0x50, 0x30, 0x00, 0x00}, // 14 ,
	{0x08, 0x08, 0x08, 0x08, 0x08}, // 15 -
	{0x00, 0x60, 0x60, 0x00, 0x00}, // 16 .
	{0x20, 0x10, 0x08, 0x04, 0x02}, // 17 /
	{0x3e, 0x51, 0x49, 0x45, 0x3e}, // 20 0
	{0x00, 0x42, 0x7f, 0x40, 0x00}, // 21 1
	{0x42, 0x61, 0x51, 0x49, 0x46}, // 22 2
	{0x21, 0x41, 0x45, 0x4b, 0x31}, // 23 3
	{0x18, 0x14, 0x12, 0x7f, 0x10}, // 24 4
	{0x27, 0x45, 0x45, 0x45, 0x39}, // 25 5
	{0x3c, 0x4a, 0x49, 0x49, 0x30}, // 26 6
	{0x01, 0x71, 0x09, 0x05, 0x03}, // 27 7
	{0x36, 0x49, 0x49, 0x49, 0x36}, // 30 8
	{0x06, 0x49, 0x49, 0x29, 0x1e}, // 31 9
	{0x00, 0x36, 0x36, 0x00, 0x00}, // 32 :
	{0x00, 0x56, 0x36, 0x00, 0x00}, // 33 ;
	{0x08, 0x14, 0x22, 0x41, 0x00}, // 34 <
	{0x14, 0x14, 0x14, 0x14, 0x14}, // 35 =
	{0x00, 0x41, 0x22, 0x14, 0x08}, // 36 >
	{0x02, 0x01, 0x51, 0x09, 0x06}, // 37 ?
	{0x7e, 0x11, 0x11, 0x11, 0x7e}, // 40 A
	{0x7f, 0x49, 0x49, 0x49, 0x36}, // 41 B
	{0x3e, 0x41, 0x41, 0x41, 0x22}, // 42 C
	{0x7f, 0x41, 0x41, 0x22, 0x1c}, // 43 D
	{0x7f, 0x49, 0x49, 0x49, 0x41}, // 44 E
	{0x7f, 0x09, 0x09, 0x09, 0x01}, // 45 F
	{0x3e, 0x41, 0x49, 0x49, 0x7a}, // 46 G
	{0x7f, 0x08, 0x08, 0x08, 0x7f}, // 47 H
	{0x00, 0x41, 0x7f, 0x41, 0x00}, // 50 I
	{0x20, 0x40, 0x41, 0x3f, 0x01}, // 51 J
	{0x7f, 0x08, 0x14, 0x22, 0x41}, // 52 K
	{0x7f, 0x40, 0x40, 0x40, 0x40}, // 53 L
	{0x7f, 0x02, 0x0c, 0x02, 0x7f}, // 54 M
	{0x7f, 0x04, 0x08, 0x10, 0x7f}, // 55 N
	{0x3e, 0x41, 0x41, 0x41, 0x3e}, // 56 O
	{0x7f, 0x09, 0x09, 0x09, 0x06}, // 57 P
	{0x3e, 0x41, 0x51, 0x21, 0x5e}, // 60 Q
	{0x7f, 0x09, 0x19, 0x29, 0x46}, // 61 R
	{0x46, 0x49, 0x49, 0x49, 0x31}, // 62 S
	{0x01, 0x01, 0x7f, 0x01, 0x01}, // 63 T
	{0x3f, 0x40, 0x40, 0x40, 0x3f}, // 64 U
	{0x1f, 0x20, 0x40, 0x20, 0x1f}, // 65 V
	{0x3f, 0x40, 0x38, 0x40, 0x3f}, // 66 W
	{0x63, 0x14, 0x08, 0x14, 0x63}, // 67 X
	{0x07, 0x08, 0x70, 0x08, 0x07}, // 70 Y
	{0x61, 0x51, 0x49, 0x45, 0x43}, // 71 Z
}

// CodeOf returns the character code of an ASCII character. Lower case
// prints as upper case; characters without a glyph print as '?'.
func CodeOf(ch byte) (code int) {
	switch {
	case ch >= 'a' && ch <= 'z':
		ch -= 'a' - 'A'
	}

	switch {
	case ch >= ' ' && ch <= '?':
		code = int(ch - ' ')
	case ch >= 'A' && ch <= 'Z':
		code = int(ch-'A') + 0o40
	default:
		code = int('?' - ' ')
	}

	return
}

// CharOf returns the ASCII character of a printable character code.
func CharOf(code int) (ch byte, ok bool) {
	switch {
	case code >= 0 && code < 0o40:
		return byte(code) + ' ', true
	case code >= 0o40 && code < GLYPH_COUNT:
		return byte(code-0o40) + 'A', true
	}

	return
}
