package cpu

import (
	"errors"

	"github.com/ezrec/pdp7/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted   = errors.New(f("halted"))
	ErrXctDepth = errors.New(f("xct nesting too deep"))
	ErrDevice   = errors.New(f("device not attached"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))
	ErrOpcodeIot    = errors.New(f("iot"))
	ErrOpcodeOpr    = errors.New(f("opr"))

	// Dump errors
	ErrDumpSyntax  = errors.New(f("malformed line"))
	ErrDumpAddress = errors.New(f("address out of range"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrOrgSyntax          = errors.New(f(".org syntax"))
	ErrWordSyntax         = errors.New(f(".word syntax"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeMixed        = errors.New(f("memory reference mixed with operate"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrAddressRange       = errors.New(f("location counter out of range"))
)

// ErrOpcode reports an instruction word whose opcode is not implemented.
type ErrOpcode Word

func (eo ErrOpcode) Error() string {
	return f("bad opcode %06o", uint32(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrOperate reports an operate word with an illegal combination of micro-operations.
type ErrOperate Word

func (eo ErrOperate) Error() string {
	return f("bad operate %06o", uint32(eo))
}

func (eo ErrOperate) Is(err error) (ok bool) {
	_, ok = err.(ErrOperate)
	return
}

// ErrIot reports an unrecognized I/O transfer word.
type ErrIot Word

func (ei ErrIot) Error() string {
	return f("unknown iot %06o", uint32(ei))
}

func (ei ErrIot) Is(err error) (ok bool) {
	_, ok = err.(ErrIot)
	return
}

// ErrDump locates a failure in an octal dump.
type ErrDump struct {
	Name   string
	LineNo int
	Line   string
	Err    error
}

func (err *ErrDump) Error() string {
	return f("%v:%d '%v' %v", err.Name, err.LineNo, err.Line, err.Err)
}

func (err *ErrDump) Unwrap() error {
	return err.Err
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
