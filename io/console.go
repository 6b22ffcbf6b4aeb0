package io

import (
	"bytes"
	"io"
	"os"

	"golang.org/x/term"
)

// Console puts the controlling terminal in raw mode, so each key reaches
// the keyboard as it is typed.
type Console struct {
	Output io.Writer // Where Write sends text; os.Stdout if nil.

	fd       int
	oldState *term.State
}

// OpenConsole puts the terminal behind file in raw mode.
func OpenConsole(file *os.File) (con *Console, err error) {
	fd := int(file.Fd())
	if !term.IsTerminal(fd) {
		err = ErrNotTerminal
		return
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return
	}

	con = &Console{
		fd:       fd,
		oldState: oldState,
	}

	return
}

// Write sends text to the output, adding the carriage returns that raw
// mode no longer inserts.
func (con *Console) Write(p []byte) (n int, err error) {
	output := con.Output
	if output == nil {
		output = os.Stdout
	}

	_, err = output.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n")))
	if err != nil {
		return
	}

	n = len(p)
	return
}

// Close restores the terminal state.
func (con *Console) Close() (err error) {
	if con.oldState == nil {
		return
	}

	err = term.Restore(con.fd, con.oldState)
	con.oldState = nil

	return
}
