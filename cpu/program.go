package cpu

import (
	"io"
	"iter"
	"slices"
	"strings"
)

// Statement is one assembled word with its source location.
type Statement struct {
	LineNo    int
	Address   Address
	Words     []string
	Value     Word
	LinkLabel string
}

// Program is the output of the assembler.
type Program struct {
	Statements []Statement
	Labels     map[string]Address
}

// Debug returns the statement assembled at an address.
func (prog *Program) Debug(addr Address) (stmt *Statement, ok bool) {
	for n := range prog.Statements {
		if prog.Statements[n].Address == addr {
			return &prog.Statements[n], true
		}
	}

	return
}

// Cells iterates over the assembled words in address order.
func (prog *Program) Cells() iter.Seq2[Address, Word] {
	return func(yield func(addr Address, value Word) bool) {
		sorted := slices.Clone(prog.Statements)
		slices.SortStableFunc(sorted, func(a, b Statement) int {
			return int(a.Address) - int(b.Address)
		})
		for _, stmt := range sorted {
			if !yield(stmt.Address, stmt.Value) {
				return
			}
		}
	}
}

// Load copies the program into core.
func (prog *Program) Load(mem *Memory) {
	for addr, value := range prog.Cells() {
		mem.Write(addr, value)
	}
}

// WriteDump writes the program in the octal dump format, with the source
// text of each word as a comment.
func (prog *Program) WriteDump(output io.Writer) (err error) {
	var cells []Cell
	for addr, value := range prog.Cells() {
		cell := Cell{Address: addr, Value: value}
		stmt, ok := prog.Debug(addr)
		if ok {
			cell.Comment = strings.Join(stmt.Words, " ")
		}
		cells = append(cells, cell)
	}

	return WriteDump(output, cells)
}
