package cpu

import (
	"context"
)

// iot dispatches an I/O transfer word. Only whole words are recognized;
// anything else is an ErrIot.
func (cpu *Cpu) iot(ctx context.Context, word Word) (err error) {
	switch word {
	case IOT_KSF:
		if cpu.Keyboard == nil {
			err = ErrDevice
			return
		}
		if cpu.Keyboard.Ready() {
			cpu.skip()
		}
	case IOT_KRB:
		if cpu.Keyboard == nil {
			err = ErrDevice
			return
		}
		var key byte
		key, err = cpu.Keyboard.ReadKey(ctx)
		if err != nil {
			return
		}
		cpu.Ac = Word(key)
	case IOT_TSF:
		if cpu.Teleprinter == nil {
			err = ErrDevice
			return
		}
		if cpu.Teleprinter.Empty() {
			cpu.skip()
		}
	case IOT_TCF:
		// Flag is the mailbox state; nothing to clear.
	case IOT_TLS:
		if cpu.Teleprinter == nil {
			err = ErrDevice
			return
		}
		err = cpu.Teleprinter.Put(ctx, cpu.Ac&0o377)
	case IOT_DLA:
		if cpu.Display == nil {
			err = ErrDevice
			return
		}
		err = cpu.Display.Put(ctx, cpu.Ac)
	default:
		err = ErrIot(word)
	}

	return
}
