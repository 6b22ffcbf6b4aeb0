package io

import (
	"context"
	"io"

	"github.com/ezrec/pdp7/cpu"
)

// KEYBOARD_BUFFER is the number of keys read ahead of the CPU.
const KEYBOARD_BUFFER = 16

// Keyboard reads keys from a byte stream for the KSF and KRB instructions.
type Keyboard struct {
	keys chan byte
	err  error
}

var _ cpu.Keyboard = (*Keyboard)(nil)

// NewKeyboard starts reading keys from input until it fails or the
// context is done.
func NewKeyboard(ctx context.Context, input io.Reader) (kb *Keyboard) {
	kb = &Keyboard{
		keys: make(chan byte, KEYBOARD_BUFFER),
	}

	go func() {
		defer close(kb.keys)

		var one [1]byte
		for {
			_, err := io.ReadFull(input, one[:])
			if err != nil {
				kb.err = err
				return
			}

			key := one[0]
			// Terminals in raw mode send DEL for backspace.
			if key == 0x7f {
				key = 0x08
			}

			select {
			case kb.keys <- key:
			case <-ctx.Done():
				kb.err = ctx.Err()
				return
			}
		}
	}()

	return
}

// Ready is true if a key is waiting.
func (kb *Keyboard) Ready() bool {
	return len(kb.keys) > 0
}

// ReadKey waits for the next key. Once the input is exhausted it returns
// the error that ended it, typically io.EOF.
func (kb *Keyboard) ReadKey(ctx context.Context) (key byte, err error) {
	select {
	case k, ok := <-kb.keys:
		if !ok {
			err = kb.err
			return
		}
		key = k
	case <-ctx.Done():
		err = ctx.Err()
	}

	return
}
