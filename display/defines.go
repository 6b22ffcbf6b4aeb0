package display

import (
	"fmt"
	"iter"
	"maps"
)

// Defines returns assembler equates for building display words.
func Defines() iter.Seq2[string, string] {
	octal := func(v uint32) string {
		return fmt.Sprintf("%#o", v)
	}

	return maps.All(map[string]string{
		"PARAM_POINT":     octal(uint32(ParameterWord(MODE_POINT))),
		"PARAM_CHARACTER": octal(uint32(ParameterWord(MODE_CHARACTER))),
		"PARAM_VECTOR":    octal(uint32(ParameterWord(MODE_VECTOR))),
		"POINT_Y":         octal(uint32(POINT_AXIS_BIT)),
		"POINT_LIT":       octal(uint32(POINT_LIT_BIT)),
		"VECTOR_EXIT":     octal(uint32(VECTOR_EXIT_BIT)),
		"VECTOR_LIT":      octal(uint32(VECTOR_LIT_BIT)),
		"VECTOR_YSIGN":    octal(uint32(VECTOR_YSIGN_BIT)),
		"VECTOR_XSIGN":    octal(uint32(VECTOR_XSIGN_BIT)),
		"CHAR_HSHIFT":     octal(CHAR_HSHIFT),
		"CHAR_VSHIFT":     octal(CHAR_VSHIFT),
		"CHAR_CR":         octal(CHAR_CR),
		"CHAR_NULL":       octal(CHAR_NULL),
		"CHAR_LF":         octal(CHAR_LF),
		"CHAR_ESCAPE":     octal(CHAR_ESCAPE),
	})
}
