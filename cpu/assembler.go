// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"go.uber.org/zap"

	"github.com/ezrec/pdp7/internal"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":            "0",
	"MEMORY_SIZE":       fmt.Sprintf("%#o", MEMORY_SIZE),
	"INSTRUCTION_START": fmt.Sprintf("%#o", uint32(INSTRUCTION_START)),
}

// memoryMap maps memory reference mnemonics.
var memoryMap = map[string]Opcode{
	"cal": OP_CAL,
	"dac": OP_DAC,
	"jms": OP_JMS,
	"dzm": OP_DZM,
	"lac": OP_LAC,
	"xor": OP_XOR,
	"add": OP_ADD,
	"tad": OP_TAD,
	"xct": OP_XCT,
	"isz": OP_ISZ,
	"and": OP_AND,
	"sad": OP_SAD,
	"jmp": OP_JMP,
}

// operateMap maps operate mnemonics. Several may be OR'd on one line.
var operateMap = func() map[string]Word {
	m := map[string]Word{"nop": OPR_NOP}
	for _, entry := range _operate_names {
		m[entry.name] = entry.word
	}
	return m
}()

// iotMap maps I/O transfer mnemonics.
var iotMap = func() map[string]Word {
	m := map[string]Word{}
	for word, name := range _iot_names {
		m[name] = word
	}
	return m
}()

// Assembler is a single pass assembler for the PDP-7 instruction set.
//
// Syntax, one statement per line, ';' starts a comment:
//
//	label: lac i ptr     ; memory reference, optional 'i' for indirect
//	       cla cll       ; operate mnemonics OR'd together
//	       tls           ; I/O transfer
//	       law 17        ; load the word itself
//	       .org 2000     ; set the location counter
//	       .equ CR 15    ; define an equate
//	       .word 1 2 'A' ; literal words
//	       $(CR + 1)     ; compile-time expression, also a literal word
//
// Plain numbers are octal. $(...) expressions are evaluated with
// starlark, and see equates and labels defined so far.
type Assembler struct {
	Verbose bool        // If set, verbosely logs the assembler actions.
	Log     *zap.Logger // Verbose log destination; nil discards.
	Origin  Address     // Initial location counter.
	Program []Statement // List of generated statements.

	predefine map[string]string  // Predefines
	Label     map[string]Address // Map of labels to addresses.
	Equate    map[string]string  // Map of equates.

	location Address
}

func (asm *Assembler) logger() *zap.Logger {
	if asm.Log == nil {
		return zap.NewNop()
	}
	return asm.Log
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value Word, err error) {
	invert := false
	negate := false
	switch {
	case strings.HasPrefix(word, "~"):
		invert = true
		word = word[1:]
	case strings.HasPrefix(word, "-"):
		negate = true
		word = word[1:]
	}

	if len(word) == 0 {
		err = ErrParseNumber(word)
		return
	}

	base := 8
	lower := strings.ToLower(word)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0o") || strings.HasPrefix(lower, "0b") {
		base = 0
	}

	v64, err := strconv.ParseUint(word, base, 32)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	value = Word(v64)
	if invert {
		value = ^value
	}
	if negate {
		value = ^value + 1
	}

	value = value.Mask()

	return
}

// symbols iterates over the integer valued equates and the labels.
func (asm *Assembler) symbols() iter.Seq2[string, int] {
	equates := func(yield func(string, int) bool) {
		for key, str := range asm.Equate {
			value, err := asm.valueOf(str)
			if err != nil {
				// Ignore non-integer equates. They may be mnemonics.
				continue
			}
			if !yield(key, int(value)) {
				return
			}
		}
	}
	labels := func(yield func(string, int) bool) {
		for key, addr := range asm.Label {
			if !yield(key, int(addr)) {
				return
			}
		}
	}
	here := func(yield func(string, int) bool) {
		yield("HERE", int(asm.location))
	}

	return internal.IterSeq2Concat(equates, labels, here)
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value Word, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, value := range asm.symbols() {
		pred[key] = starlark.MakeInt(value)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = Word(st_int64).Mask()
	return
}

var (
	charRegexp  = regexp.MustCompile(`'\\?[^']'`)
	parenRegexp = regexp.MustCompile(`\$\([^\$]*\)`)
)

// parseLine expands literals, expressions and equates, and records labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%#o", lineno)

	// Do 'x' evaluations
	line = charRegexp.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "s":
				str = " "
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%#o", str[0])
	})

	// Do $() evaluations
	line = parenRegexp.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%#o", uint32(value))
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = asm.location
		words = words[1:]
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Label = make(map[string]Address, 16)
	asm.Program = asm.Program[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}
	asm.location = asm.Origin.Mask()

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			asm.logger().Debug("asm: line", zap.Int("lineno", lineno), zap.String("text", text))
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of forward labels.
	for n := range asm.Program {
		stmt := &asm.Program[n]

		if len(stmt.LinkLabel) == 0 {
			continue
		}
		addr, ok := asm.Label[stmt.LinkLabel]
		if !ok {
			lineno = stmt.LineNo
			line = strings.Join(stmt.Words, " ")
			err = ErrLabelMissing(stmt.LinkLabel)
			return
		}
		stmt.Value |= Word(addr)
	}

	prog = &Program{
		Statements: slices.Clone(asm.Program),
		Labels:     maps.Clone(asm.Label),
	}

	return
}

// emit appends a word at the location counter.
func (asm *Assembler) emit(lineno int, words []string, value Word, label string) (err error) {
	if int(asm.location) >= MEMORY_SIZE {
		err = ErrAddressRange
		return
	}

	asm.Program = append(asm.Program, Statement{
		LineNo:    lineno,
		Address:   asm.location,
		Words:     words,
		Value:     value.Mask(),
		LinkLabel: label,
	})
	asm.location++

	return
}

// operand resolves a memory reference operand to an address, or to a
// label to be linked once the whole program is read.
func (asm *Assembler) operand(word string) (addr Address, label string, err error) {
	known, ok := asm.Label[word]
	if ok {
		addr = known
		return
	}

	value, err := asm.valueOf(word)
	if err == nil {
		addr = value.Address()
		return
	}

	if isSymbol(word) {
		err = nil
		label = word
	}

	return
}

// isSymbol is true for words that can name a label.
func isSymbol(word string) bool {
	for n, r := range word {
		switch {
		case r == '_' || r == '.':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case n > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return len(word) > 0
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := slices.Clone(words)

	switch words[0] {
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var value Word
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		if int(value) >= MEMORY_SIZE {
			err = ErrAddressRange
			return
		}
		asm.location = Address(value)
		return
	case ".word":
		if len(words) < 2 {
			err = ErrWordSyntax
			return
		}
		for _, word := range words[1:] {
			var value Word
			var label string
			value, err = asm.valueOf(word)
			if err != nil {
				if !isSymbol(word) {
					return
				}
				var addr Address
				addr, label, err = asm.operand(word)
				if err != nil {
					return
				}
				value = Word(addr)
			}
			err = asm.emit(lineno, initial_words, value, label)
			if err != nil {
				return
			}
		}
		return
	case "law":
		if len(words) != 2 {
			err = ErrOpcodeValueMissing
			return
		}
		var value Word
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		err = asm.emit(lineno, initial_words, OPR_LAW|Word(value.Address()), "")
		return
	case "iot":
		if len(words) != 2 {
			err = ErrOpcodeValueMissing
			return
		}
		var value Word
		value, err = asm.valueOf(words[1])
		if err != nil {
			return
		}
		err = asm.emit(lineno, initial_words, Word(OP_IOT)<<OPCODE_SHIFT|(value&0o17777), "")
		return
	}

	op, ok := memoryMap[words[0]]
	if ok {
		args := words[1:]
		indirect := false
		if len(args) > 0 && args[0] == "i" {
			indirect = true
			args = args[1:]
		}
		if len(args) == 0 {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		var addr Address
		var label string
		addr, label, err = asm.operand(args[0])
		if err != nil {
			return
		}
		value := Word(op)<<OPCODE_SHIFT | Word(addr)
		if indirect {
			value |= INDIRECT_BIT
		}
		err = asm.emit(lineno, initial_words, value, label)
		return
	}

	word, ok := iotMap[words[0]]
	if ok {
		if len(words) > 1 {
			err = ErrOpcodeExtraArgs
			return
		}
		err = asm.emit(lineno, initial_words, word, "")
		return
	}

	_, ok = operateMap[words[0]]
	if ok {
		value := OPR_NOP
		for _, name := range words {
			bits, ok := operateMap[name]
			if !ok {
				_, mixed := memoryMap[name]
				if mixed {
					err = ErrOpcodeMixed
				} else {
					err = ErrInstructionInvalid
				}
				return
			}
			value |= bits
		}
		err = asm.emit(lineno, initial_words, value, "")
		return
	}

	// A bare value is a literal word.
	if len(words) == 1 {
		var value Word
		value, err = asm.valueOf(words[0])
		if err != nil {
			err = ErrInstructionInvalid
			return
		}
		err = asm.emit(lineno, initial_words, value, "")
		return
	}

	err = ErrInstructionInvalid
	return
}
