package emulator

import (
	"errors"

	"github.com/ezrec/pdp7/translate"
)

var f = translate.From

var (
	ErrPeripheral = errors.New(f("unknown peripheral"))
)

// ErrRuntime locates a fault in the running program.
type ErrRuntime struct {
	Pc     uint32
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("pc %05o line %d %v", err.Pc, err.LineNo, err.Err)
	}
	return f("pc %05o %v", err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
