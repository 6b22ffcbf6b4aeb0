package cpu

import (
	"fmt"
	"strings"
)

//go:generate go tool stringer -linecomment -type=Opcode

// Opcode is the 4-bit operation field of an instruction, kept in its octal
// position (bits 17-14 shifted down by 12), so ADD reads as 030.
type Opcode int

const (
	OP_CAL = Opcode(0o00) // cal
	OP_DAC = Opcode(0o04) // dac
	OP_JMS = Opcode(0o10) // jms
	OP_DZM = Opcode(0o14) // dzm
	OP_LAC = Opcode(0o20) // lac
	OP_XOR = Opcode(0o24) // xor
	OP_ADD = Opcode(0o30) // add
	OP_TAD = Opcode(0o34) // tad
	OP_XCT = Opcode(0o40) // xct
	OP_ISZ = Opcode(0o44) // isz
	OP_AND = Opcode(0o50) // and
	OP_SAD = Opcode(0o54) // sad
	OP_JMP = Opcode(0o60) // jmp
	OP_EAE = Opcode(0o64) // eae
	OP_IOT = Opcode(0o70) // iot
	OP_OPR = Opcode(0o74) // opr
)

// MemoryReference is true for the opcodes that compute an effective address.
func (op Opcode) MemoryReference() bool {
	return op <= OP_JMP
}

// Instruction field layout.
const (
	INDIRECT_BIT = Word(0o020000) // Bit 13, single level indirection.
	OPCODE_SHIFT = 12
	OPCODE_MASK  = 0o74
)

// Operate micro-operation bits. Combined freely within one OPR word.
const (
	OPR_BIT_CMA  = Word(0o000001) // Complement AC.
	OPR_BIT_CML  = Word(0o000002) // Complement link.
	OPR_BIT_OAS  = Word(0o000004) // Inclusive OR switches into AC.
	OPR_BIT_RAL  = Word(0o000010) // Rotate AC+link left.
	OPR_BIT_RAR  = Word(0o000020) // Rotate AC+link right.
	OPR_BIT_HLT  = Word(0o000040) // Halt.
	OPR_BIT_SMA  = Word(0o000100) // Skip on minus AC.
	OPR_BIT_SZA  = Word(0o000200) // Skip on zero AC.
	OPR_BIT_SNL  = Word(0o000400) // Skip on non-zero link.
	OPR_BIT_INV  = Word(0o001000) // Invert the sense of the skip.
	OPR_BIT_RTWO = Word(0o002000) // Rotate twice.
	OPR_BIT_CLL  = Word(0o004000) // Clear link.
	OPR_BIT_CLA  = Word(0o010000) // Clear AC.
)

// Named operate words.
const (
	OPR_NOP = Word(0o740000)
	OPR_CMA = OPR_NOP | OPR_BIT_CMA
	OPR_CML = OPR_NOP | OPR_BIT_CML
	OPR_OAS = OPR_NOP | OPR_BIT_OAS
	OPR_LAS = OPR_NOP | OPR_BIT_CLA | OPR_BIT_OAS
	OPR_RAL = OPR_NOP | OPR_BIT_RAL
	OPR_RCL = OPR_NOP | OPR_BIT_CLL | OPR_BIT_RAL
	OPR_RTL = OPR_NOP | OPR_BIT_RTWO | OPR_BIT_RAL
	OPR_RAR = OPR_NOP | OPR_BIT_RAR
	OPR_RCR = OPR_NOP | OPR_BIT_CLL | OPR_BIT_RAR
	OPR_RTR = OPR_NOP | OPR_BIT_RTWO | OPR_BIT_RAR
	OPR_HLT = OPR_NOP | OPR_BIT_HLT
	OPR_SMA = OPR_NOP | OPR_BIT_SMA
	OPR_SZA = OPR_NOP | OPR_BIT_SZA
	OPR_SNL = OPR_NOP | OPR_BIT_SNL
	OPR_SKP = OPR_NOP | OPR_BIT_INV
	OPR_SPA = OPR_SKP | OPR_BIT_SMA
	OPR_SNA = OPR_SKP | OPR_BIT_SZA
	OPR_SZL = OPR_SKP | OPR_BIT_SNL
	OPR_CLL = OPR_NOP | OPR_BIT_CLL
	OPR_STL = OPR_NOP | OPR_BIT_CLL | OPR_BIT_CML
	OPR_CLA = OPR_NOP | OPR_BIT_CLA
	OPR_CLC = OPR_NOP | OPR_BIT_CLA | OPR_BIT_CMA
	OPR_GLK = OPR_NOP | OPR_BIT_CLA | OPR_BIT_RAL
	OPR_LAW = OPR_NOP | INDIRECT_BIT // Load the instruction word itself.
)

// I/O transfer words.
const (
	IOT_KSF = Word(0o700301) // Skip if keyboard flag.
	IOT_KRB = Word(0o700312) // Read keyboard buffer into AC.
	IOT_TSF = Word(0o700401) // Skip if teleprinter flag (mailbox drained).
	IOT_TCF = Word(0o700402) // Clear teleprinter flag.
	IOT_TLS = Word(0o700406) // Load teleprinter buffer from AC, and select.
	IOT_DLA = Word(0o700606) // Load display mailbox from AC.
)

// Mnemonics for operate and IOT words, in disassembly preference order.
// Single bit names come last, so composed words are printed as their
// longest known prefix plus the remaining bits.
var _operate_names = []struct {
	name string
	word Word
}{
	{"las", OPR_LAS},
	{"clc", OPR_CLC},
	{"glk", OPR_GLK},
	{"stl", OPR_STL},
	{"rcl", OPR_RCL},
	{"rcr", OPR_RCR},
	{"rtl", OPR_RTL},
	{"rtr", OPR_RTR},
	{"spa", OPR_SPA},
	{"sna", OPR_SNA},
	{"szl", OPR_SZL},
	{"skp", OPR_SKP},
	{"cla", OPR_CLA},
	{"cll", OPR_CLL},
	{"cma", OPR_CMA},
	{"cml", OPR_CML},
	{"oas", OPR_OAS},
	{"ral", OPR_RAL},
	{"rar", OPR_RAR},
	{"hlt", OPR_HLT},
	{"sma", OPR_SMA},
	{"sza", OPR_SZA},
	{"snl", OPR_SNL},
}

var _iot_names = map[Word]string{
	IOT_KSF: "ksf",
	IOT_KRB: "krb",
	IOT_TSF: "tsf",
	IOT_TCF: "tcf",
	IOT_TLS: "tls",
	IOT_DLA: "dla",
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Word     Word
	Opcode   Opcode
	Indirect bool
	Address  Address
}

// Decode splits a word into its opcode, indirect bit and address field.
func Decode(word Word) (in Instruction) {
	word = word.Mask()
	in = Instruction{
		Word:     word,
		Opcode:   Opcode((word >> OPCODE_SHIFT) & OPCODE_MASK),
		Indirect: (word & INDIRECT_BIT) != 0,
		Address:  word.Address(),
	}
	return
}

// Law is true for an operate word with the indirect bit set.
func (in Instruction) Law() bool {
	return in.Opcode == OP_OPR && in.Indirect
}

// String returns the assembler mnemonic form of the instruction.
func (in Instruction) String() string {
	switch {
	case in.Law():
		return fmt.Sprintf("law %o", uint32(in.Word&^OPR_LAW))
	case in.Opcode == OP_OPR:
		return operateString(in.Word)
	case in.Opcode == OP_IOT:
		name, ok := _iot_names[in.Word]
		if ok {
			return name
		}
		return fmt.Sprintf("iot %o", uint32(in.Word&^Word(0o700000)))
	case in.Opcode.MemoryReference():
		ind := ""
		if in.Indirect {
			ind = " i"
		}
		return fmt.Sprintf("%v%v %o", in.Opcode, ind, uint32(in.Address))
	}

	return fmt.Sprintf(".word %06o", uint32(in.Word))
}

// operateString names the micro-operations of an operate word.
func operateString(word Word) string {
	bits := word &^ OPR_NOP
	if bits == 0 {
		return "nop"
	}

	var names []string
	for _, entry := range _operate_names {
		mask := entry.word &^ OPR_NOP
		if mask&bits == mask {
			names = append(names, entry.name)
			bits &^= mask
		}
		if bits == 0 {
			break
		}
	}

	if bits != 0 {
		names = append(names, fmt.Sprintf("%o", uint32(bits)))
	}

	return strings.Join(names, " ")
}
