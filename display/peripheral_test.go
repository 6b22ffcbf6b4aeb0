package display

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/pdp7/cpu"
	"github.com/ezrec/pdp7/io"
)

func TestTeleprinter(t *testing.T) {
	assert := assert.New(t)

	rs := &recordSurface{}
	var mirror bytes.Buffer
	tty := NewTeleprinter(rs, &mirror)
	assert.Equal(MODE_CHARACTER, tty.Decoder.Mode())

	for _, ch := range []byte("Hi\n!\x07") {
		tty.Accept(cpu.Word(ch))
	}
	// Only the low 8 bits are printed.
	tty.Accept(0o1000 | 'Z')

	assert.Equal("Hi\n!\x07Z", mirror.String())
	assert.Equal([]string{
		fmt.Sprintf("glyph 0 0 %d", CodeOf('H')),
		fmt.Sprintf("glyph 1 0 %d", CodeOf('I')),
		fmt.Sprintf("glyph 0 1 %d", CodeOf('!')),
		fmt.Sprintf("glyph 1 1 %d", CodeOf('Z')),
	}, rs.Calls())

	// Escape leaves character mode, the next character re-enters it.
	tty.Decoder.Decode(CharacterWord(CHAR_ESCAPE, CHAR_NULL, CHAR_NULL))
	assert.Equal(MODE_PARAMETER, tty.Decoder.Mode())
	tty.Accept('A')
	assert.Equal(MODE_CHARACTER, tty.Decoder.Mode())
	assert.Equal(5, len(rs.Calls()))
}

func TestTeleprinterWord(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(CharacterWord(CodeOf('A'), CHAR_NULL, CHAR_NULL), TeleprinterWord('a'))
	assert.Equal(CharacterWord(CHAR_CR, CHAR_LF, CHAR_NULL), TeleprinterWord('\n'))
	assert.Equal(CharacterWord(CHAR_CR, CHAR_NULL, CHAR_NULL), TeleprinterWord('\r'))
	assert.Equal(CharacterWord(CHAR_NULL, CHAR_NULL, CHAR_NULL), TeleprinterWord(0x1b))
	assert.Equal(CharacterWord(CodeOf('?'), CHAR_NULL, CHAR_NULL), TeleprinterWord('@'))
}

func TestDisplay(t *testing.T) {
	assert := assert.New(t)

	rs := &recordSurface{}
	dpy := NewDisplay(rs)

	dpy.Accept(ParameterWord(MODE_VECTOR))
	dpy.Accept(VECTOR_LIT_BIT | 10)
	assert.Equal([]string{"line 512 512 522 512 true"}, rs.Calls())
}

func TestPeripheralRun(t *testing.T) {
	assert := assert.New(t)

	rs := &recordSurface{}
	mb := io.NewMailbox("tty", io.POLICY_BLOCK)
	p := &Peripheral{
		Name:     "tty",
		Source:   mb,
		Sink:     NewTeleprinter(rs, nil),
		Surface:  rs,
		Interval: time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx)
	}()

	for _, ch := range []byte("OK") {
		assert.NoError(mb.Put(context.Background(), cpu.Word(ch)))
	}
	assert.Eventually(func() bool { return p.Words() == 2 }, time.Second, time.Millisecond)

	cancel()
	assert.NoError(<-done)

	assert.Equal(2, len(rs.Calls()))
	assert.Equal(io.Stats{Put: 2, Taken: 2}, mb.Stats())
}

func TestPeripheralDrainOnStop(t *testing.T) {
	assert := assert.New(t)

	rs := &recordSurface{}
	mb := io.NewMailbox("dpy", io.POLICY_OVERWRITE)
	p := &Peripheral{
		Name:     "dpy",
		Source:   mb,
		Sink:     NewDisplay(rs),
		Surface:  rs,
		Interval: time.Hour,
	}

	assert.NoError(mb.Put(context.Background(), ParameterWord(MODE_CHARACTER)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(p.Run(ctx))

	assert.True(mb.Empty())
	assert.Equal(uint64(1), p.Words())
	assert.Equal(MODE_CHARACTER, p.Sink.(*Display).Decoder.Mode())
	assert.Equal(2, rs.presents)
}

func TestPeripheralPresentRate(t *testing.T) {
	assert := assert.New(t)

	rs := &recordSurface{}
	mb := io.NewMailbox("tty", io.POLICY_BLOCK)
	p := &Peripheral{
		Name:     "tty",
		Source:   mb,
		Sink:     NewTeleprinter(rs, nil),
		Surface:  rs,
		Interval: time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx)
	}()

	text := []byte("THE QUICK BROWN FOX")
	for _, ch := range text {
		assert.NoError(mb.Put(context.Background(), cpu.Word(ch)))
	}
	assert.Eventually(func() bool { return p.Words() == uint64(len(text)) }, time.Second, time.Millisecond)

	cancel()
	assert.NoError(<-done)

	// One frame per character would be len(text) frames, plus the final one.
	assert.Less(rs.presents, len(text))
	assert.GreaterOrEqual(rs.presents, 2)
}
