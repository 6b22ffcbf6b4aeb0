package display

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ezrec/pdp7/cpu"
)

// Poll intervals.
const (
	DISPLAY_POLL     = 35 * time.Millisecond
	TELEPRINTER_POLL = time.Millisecond

	// Shortest time between two frames while words keep arriving.
	PRESENT_INTERVAL = DISPLAY_POLL
)

// Source is the consumer side of a mailbox.
type Source interface {
	// TryTake drains the pending word, if any.
	TryTake() (value cpu.Word, ok bool)
}

// Sink accepts the words drained from a mailbox.
type Sink interface {
	Accept(word cpu.Word)
}

// Display is the Type 340 point, vector and character display.
type Display struct {
	Decoder *Decoder
}

var _ Sink = (*Display)(nil)

// NewDisplay creates a display drawing on surface.
func NewDisplay(surface Surface) (dpy *Display) {
	dpy = &Display{
		Decoder: NewDecoder(surface, MODESET_DISPLAY),
	}

	return
}

// Accept decodes a word of the display stream.
func (dpy *Display) Accept(word cpu.Word) {
	dpy.Decoder.Decode(word)
}

// Teleprinter prints one ASCII character per word, in character mode only.
type Teleprinter struct {
	Decoder *Decoder
	Mirror  io.Writer // Receives the characters as text; may be nil.
}

var _ Sink = (*Teleprinter)(nil)

// NewTeleprinter creates a teleprinter drawing on surface and copying
// its text to mirror.
func NewTeleprinter(surface Surface, mirror io.Writer) (tty *Teleprinter) {
	tty = &Teleprinter{
		Decoder: NewDecoder(surface, MODESET_TELEPRINTER),
		Mirror:  mirror,
	}
	tty.Decoder.SetMode(MODE_CHARACTER)

	return
}

// Accept prints the low 8 bits of a word.
func (tty *Teleprinter) Accept(word cpu.Word) {
	ch := byte(word & 0o377)

	if tty.Mirror != nil && ch != 0 {
		_, _ = tty.Mirror.Write([]byte{ch})
	}

	if tty.Decoder.Mode() != MODE_CHARACTER {
		tty.Decoder.SetMode(MODE_CHARACTER)
	}

	tty.Decoder.Decode(TeleprinterWord(ch))
}

// TeleprinterWord translates an ASCII character to a character mode word.
func TeleprinterWord(ch byte) cpu.Word {
	switch {
	case ch == '\n':
		return CharacterWord(CHAR_CR, CHAR_LF, CHAR_NULL)
	case ch == '\r':
		return CharacterWord(CHAR_CR, CHAR_NULL, CHAR_NULL)
	case ch == '\t':
		return CharacterWord(CHAR_HSHIFT, CHAR_NULL, CHAR_NULL)
	case ch < ' ' || ch >= 0o177:
		return CharacterWord(CHAR_NULL, CHAR_NULL, CHAR_NULL)
	}

	return CharacterWord(CodeOf(ch), CHAR_NULL, CHAR_NULL)
}

// Peripheral polls a mailbox and feeds the words to a sink.
type Peripheral struct {
	Verbose bool
	Log     *zap.Logger

	Name     string
	Source   Source
	Sink     Sink
	Surface  Surface
	Interval time.Duration

	words     atomic.Uint64
	presented time.Time
}

func (p *Peripheral) logger() *zap.Logger {
	if p.Log == nil {
		return zap.NewNop()
	}
	return p.Log
}

// Words is the number of words accepted so far.
func (p *Peripheral) Words() uint64 {
	return p.words.Load()
}

// present publishes the surface at most once per PRESENT_INTERVAL,
// unless forced.
func (p *Peripheral) present(force bool) {
	if p.Surface == nil {
		return
	}

	now := time.Now()
	if !force && now.Sub(p.presented) < PRESENT_INTERVAL {
		return
	}

	p.Surface.Present()
	p.presented = now
}

// Poll drains at most one word into the sink, and presents the surface
// if one was drained and a frame is due.
func (p *Peripheral) Poll() (ok bool) {
	word, ok := p.Source.TryTake()
	if !ok {
		return
	}

	if p.Verbose {
		p.logger().Debug("peripheral: word",
			zap.String("name", p.Name),
			zap.Uint32("word", uint32(word)),
		)
	}

	p.Sink.Accept(word)
	p.present(false)
	p.words.Add(1)

	return
}

// Run polls every Interval until the context is done, then drains any
// word still pending. Cancellation is a normal stop, not an error.
func (p *Peripheral) Run(ctx context.Context) (err error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DISPLAY_POLL
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			for p.Poll() {
			}
			p.present(true)
			return
		case <-ticker.C:
			p.Poll()
		}
	}
}
