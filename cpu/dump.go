package cpu

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DUMP_COMMENT starts a comment in an octal dump line.
const DUMP_COMMENT = "/"

// Cell is one address/value pair of an octal dump.
type Cell struct {
	Address Address
	Value   Word
	Comment string // Written after DUMP_COMMENT; never read back.
}

// ReadDump parses an octal dump: lines of `address value`, with an
// optional trailing comment. Values are returned unmasked.
func ReadDump(name string, input io.Reader) (cells []Cell, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	var line string

	defer func() {
		if err != nil {
			err = &ErrDump{Name: name, LineNo: lineno, Line: line, Err: err}
		}
	}()

	for scanner.Scan() {
		line = scanner.Text()
		lineno++

		text, _, _ := strings.Cut(line, DUMP_COMMENT)
		words := strings.Fields(text)
		if len(words) == 0 {
			continue
		}
		if len(words) != 2 {
			err = ErrDumpSyntax
			return
		}

		var addr, value uint64
		addr, err = strconv.ParseUint(words[0], 8, 32)
		if err != nil {
			err = ErrDumpSyntax
			return
		}
		if addr >= MEMORY_SIZE {
			err = ErrDumpAddress
			return
		}
		value, err = strconv.ParseUint(words[1], 8, 32)
		if err != nil {
			err = ErrDumpSyntax
			return
		}

		cells = append(cells, Cell{Address: Address(addr), Value: Word(value)})
	}

	err = scanner.Err()

	return
}

// LoadDump reads an octal dump into core.
func (mem *Memory) LoadDump(name string, input io.Reader) (err error) {
	cells, err := ReadDump(name, input)
	if err != nil {
		return
	}

	for _, cell := range cells {
		mem[cell.Address] = cell.Value
	}

	return
}

// WriteDump writes cells in the octal dump format.
func WriteDump(output io.Writer, cells []Cell) (err error) {
	for _, cell := range cells {
		line := fmt.Sprintf("%07o %06o", uint32(cell.Address), uint32(cell.Value))
		if len(cell.Comment) != 0 {
			line += " " + DUMP_COMMENT + " " + cell.Comment
		}
		_, err = fmt.Fprintln(output, line)
		if err != nil {
			return
		}
	}

	return
}
