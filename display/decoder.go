package display

import (
	"go.uber.org/zap"

	"github.com/ezrec/pdp7/cpu"
)

//go:generate go tool stringer -linecomment -type=Mode

// Mode is how the decoder interprets the next word.
//
// Parameter words select the next mode. Point words plot on one axis,
// character words carry three 6-bit codes, and vector words draw a line
// relative to the centre.
type Mode int

const (
	MODE_PARAMETER = Mode(0) // parameter
	MODE_POINT     = Mode(1) // point
	MODE_CHARACTER = Mode(3) // character
	MODE_VECTOR    = Mode(4) // vector
)

// ModeSet is the set of modes a decoder implements.
type ModeSet uint8

const (
	MODESET_DISPLAY     = ModeSet(1<<MODE_PARAMETER | 1<<MODE_POINT | 1<<MODE_CHARACTER | 1<<MODE_VECTOR)
	MODESET_TELEPRINTER = ModeSet(1<<MODE_PARAMETER | 1<<MODE_CHARACTER)
)

// Has is true if the mode is in the set.
func (ms ModeSet) Has(mode Mode) bool {
	if mode < 0 || mode > 7 {
		return false
	}
	return ms&(1<<mode) != 0
}

// Character control codes. Codes below CHAR_HSHIFT are glyphs.
const (
	CHAR_HSHIFT = 0o72 // Move the cursor one cell right.
	CHAR_VSHIFT = 0o73 // Move the cursor one row down.
	CHAR_CR     = 0o74 // Cursor to column 0.
	CHAR_NULL   = 0o75 // No operation.
	CHAR_LF     = 0o76 // Cursor one row down.
	CHAR_ESCAPE = 0o77 // Back to parameter mode, ignore the rest of the word.
)

// Word fields.
const (
	PARAMETER_MODE_SHIFT = 13 // Next mode, 3 bits, in parameter and point words.

	POINT_AXIS_BIT   = cpu.Word(1 << 16) // Set for the Y axis.
	POINT_LIT_BIT    = cpu.Word(1 << 10)
	POINT_COORD_MASK = cpu.Word(0o1777)

	VECTOR_EXIT_BIT  = cpu.Word(1 << 17) // Set to return to parameter mode.
	VECTOR_LIT_BIT   = cpu.Word(1 << 16)
	VECTOR_YSIGN_BIT = cpu.Word(1 << 15)
	VECTOR_YSHIFT    = 8
	VECTOR_XSIGN_BIT = cpu.Word(1 << 7)
	VECTOR_MAG_MASK  = cpu.Word(0o177)

	CHAR_SHIFT = 6
	CHAR_MASK  = cpu.Word(0o77)
)

// Decoder is the modal interpreter of the display word stream. Each
// peripheral owns one; it is not safe for concurrent use.
type Decoder struct {
	Verbose bool
	Log     *zap.Logger

	Surface Surface
	Modes   ModeSet

	Width, Height int // Surface size in pixels.
	Columns, Rows int // Surface size in text cells.
	Col, Row      int // Text cursor.

	mode Mode
}

// NewDecoder creates a decoder for the default screen, in parameter mode.
func NewDecoder(surface Surface, modes ModeSet) (dec *Decoder) {
	dec = &Decoder{
		Surface: surface,
		Modes:   modes,
		Width:   SCREEN_WIDTH,
		Height:  SCREEN_HEIGHT,
		Columns: SCREEN_WIDTH / CELL_WIDTH,
		Rows:    SCREEN_HEIGHT / CELL_HEIGHT,
	}

	return
}

func (dec *Decoder) logger() *zap.Logger {
	if dec.Log == nil {
		return zap.NewNop()
	}
	return dec.Log
}

// Mode returns the current mode.
func (dec *Decoder) Mode() Mode {
	return dec.mode
}

// SetMode changes mode. A mode this decoder does not implement selects
// parameter mode instead.
func (dec *Decoder) SetMode(mode Mode) {
	if !dec.Modes.Has(mode) {
		mode = MODE_PARAMETER
	}

	if dec.Verbose && mode != dec.mode {
		dec.logger().Debug("display: mode",
			zap.Stringer("from", dec.mode),
			zap.Stringer("to", mode),
		)
	}

	dec.mode = mode
}

// Reset returns to parameter mode with the cursor at the top left.
func (dec *Decoder) Reset() {
	dec.SetMode(MODE_PARAMETER)
	dec.Col = 0
	dec.Row = 0
}

// Decode interprets one word in the current mode.
func (dec *Decoder) Decode(word cpu.Word) {
	word = word.Mask()

	if !dec.Modes.Has(dec.mode) {
		dec.SetMode(MODE_PARAMETER)
	}

	switch dec.mode {
	case MODE_PARAMETER:
		dec.SetMode(Mode((word >> PARAMETER_MODE_SHIFT) & 7))
	case MODE_POINT:
		dec.point(word)
	case MODE_CHARACTER:
		dec.character(word)
	case MODE_VECTOR:
		dec.vector(word)
	}
}

func (dec *Decoder) point(word cpu.Word) {
	coord := int(word & POINT_COORD_MASK)
	lit := word&POINT_LIT_BIT != 0

	if word&POINT_AXIS_BIT == 0 {
		dec.Surface.DrawPoint(coord, dec.Height/2, lit)
	} else {
		dec.Surface.DrawPoint(dec.Width/2, dec.Height-coord, lit)
	}

	dec.SetMode(Mode((word >> PARAMETER_MODE_SHIFT) & 7))
}

func (dec *Decoder) character(word cpu.Word) {
	for shift := 2 * CHAR_SHIFT; shift >= 0; shift -= CHAR_SHIFT {
		code := int((word >> shift) & CHAR_MASK)
		switch code {
		case CHAR_ESCAPE:
			dec.SetMode(MODE_PARAMETER)
			return
		case CHAR_NULL:
		case CHAR_CR:
			dec.Col = 0
		case CHAR_LF, CHAR_VSHIFT:
			dec.newRow()
		case CHAR_HSHIFT:
			dec.advance()
		default:
			dec.Surface.DrawGlyph(dec.Col, dec.Row, code)
			dec.advance()
		}
	}
}

// advance moves the cursor one cell right, wrapping to a new line.
func (dec *Decoder) advance() {
	dec.Col++
	if dec.Col >= dec.Columns {
		dec.Col = 0
		dec.newRow()
	}
}

// newRow moves the cursor one row down, wrapping to the top.
func (dec *Decoder) newRow() {
	dec.Row++
	if dec.Row >= dec.Rows {
		dec.Row = 0
	}
}

func (dec *Decoder) vector(word cpu.Word) {
	dx := int(word & VECTOR_MAG_MASK)
	if word&VECTOR_XSIGN_BIT != 0 {
		dx = -dx
	}
	dy := int((word >> VECTOR_YSHIFT) & VECTOR_MAG_MASK)
	if word&VECTOR_YSIGN_BIT != 0 {
		dy = -dy
	}
	lit := word&VECTOR_LIT_BIT != 0

	cx, cy := dec.Width/2, dec.Height/2
	dec.Surface.DrawLine(cx, cy, cx+dx, cy+dy, lit)

	if word&VECTOR_EXIT_BIT != 0 {
		dec.SetMode(MODE_PARAMETER)
	}
}

// CharacterWord packs three character codes into one word.
func CharacterWord(a, b, c int) cpu.Word {
	return cpu.Word(a)&CHAR_MASK<<(2*CHAR_SHIFT) |
		cpu.Word(b)&CHAR_MASK<<CHAR_SHIFT |
		cpu.Word(c)&CHAR_MASK
}

// ParameterWord is a parameter mode word selecting the next mode.
func ParameterWord(next Mode) cpu.Word {
	return cpu.Word(next&7) << PARAMETER_MODE_SHIFT
}
