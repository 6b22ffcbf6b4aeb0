package cpu

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

const (
	XCT_DEPTH_LIMIT = 8 // Maximum XCT nesting.

	MEMORY_CYCLES = 2 // Memory reference instructions.
	JUMP_CYCLES   = 1 // JMP, and the XCT fetch.
	IO_CYCLES     = 1 // IOT and OPR.
)

// Keyboard is the input side of the console teleprinter.
type Keyboard interface {
	// Ready is true if a key can be read without waiting.
	Ready() bool
	// ReadKey waits for the next key.
	ReadKey(ctx context.Context) (key byte, err error)
}

// Mailbox is the single word hand-off to a peripheral.
type Mailbox interface {
	// Put delivers a word to the peripheral.
	Put(ctx context.Context, value Word) error
	// Empty is true if the peripheral has drained the last word.
	Empty() bool
}

// Cpu is the simulation context for the PDP-7 central processor.
type Cpu struct {
	Verbose bool        // Set to enable per-instruction trace logging.
	Log     *zap.Logger // Trace destination; nil discards.

	Memory Memory // Core.

	Ac       Word    // Accumulator.
	Link     Word    // Link, 0 or 1.
	Pc       Address // Program counter.
	Ir       Opcode  // Opcode of the last decoded instruction.
	Ma       Address // Latched effective address.
	Mb       Word    // Latched memory buffer.
	Switches Word    // Console switch register, read by OAS.

	Cycles uint64 // Machine cycles executed.

	Keyboard    Keyboard // Attached by KSF and KRB.
	Teleprinter Mailbox  // Attached by TSF and TLS.
	Display     Mailbox  // Attached by DLA.

	running atomic.Bool
}

// NewCpu creates a running CPU with empty core, starting at INSTRUCTION_START.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset(INSTRUCTION_START)

	return
}

// Reset clears the registers and counters, sets the program counter,
// and marks the CPU as running. Core is left untouched.
func (cpu *Cpu) Reset(start Address) {
	cpu.Ac = 0
	cpu.Link = 0
	cpu.Pc = start.Mask()
	cpu.Ir = 0
	cpu.Ma = 0
	cpu.Mb = 0
	cpu.Cycles = 0
	cpu.running.Store(true)

	if cpu.Verbose {
		cpu.logger().Debug("cpu: reset", zap.String("pc", fmt.Sprintf("%05o", uint32(cpu.Pc))))
	}
}

// Running is false once the CPU has halted or been stopped.
func (cpu *Cpu) Running() bool {
	return cpu.running.Load()
}

// Stop clears the running flag. Safe to call from any goroutine.
func (cpu *Cpu) Stop() {
	cpu.running.Store(false)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("    pc: %05o\n", uint32(cpu.Pc))
	text += fmt.Sprintf("    ac: %06o\n", uint32(cpu.Ac))
	text += fmt.Sprintf("  link: %o\n", uint32(cpu.Link))
	text += fmt.Sprintf("    ir: %02o %v\n", int(cpu.Ir), cpu.Ir)
	text += fmt.Sprintf("    ma: %05o\n", uint32(cpu.Ma))
	text += fmt.Sprintf("    mb: %06o\n", uint32(cpu.Mb))
	text += fmt.Sprintf("cycles: %d\n", cpu.Cycles)

	return
}

func (cpu *Cpu) logger() *zap.Logger {
	if cpu.Log == nil {
		return zap.NewNop()
	}
	return cpu.Log
}

// EffectiveAddress resolves an address field. Indirection costs a cycle
// and is followed exactly once.
func (cpu *Cpu) EffectiveAddress(addr Address, indirect bool) Address {
	if !indirect {
		return addr.Mask()
	}

	cpu.Cycles++
	return cpu.Memory.Read(addr).Address()
}

// Run steps the CPU until it halts, is stopped, the context is done,
// or an instruction fails.
func (cpu *Cpu) Run(ctx context.Context) (err error) {
	for cpu.Running() {
		err = ctx.Err()
		if err != nil {
			return
		}

		err = cpu.Step(ctx)
		if err != nil {
			return
		}
	}

	return
}

// Step fetches, decodes and executes one instruction.
func (cpu *Cpu) Step(ctx context.Context) (err error) {
	if !cpu.Running() {
		err = ErrHalted
		return
	}

	pc := cpu.Pc
	word := cpu.Memory.Read(pc)
	cpu.Pc = (cpu.Pc + 1).Mask()

	err = cpu.execute(ctx, word, 0)
	if err != nil {
		// No trap mechanism: any fault stops the machine.
		cpu.running.Store(false)
		return
	}

	if cpu.Verbose {
		cpu.logger().Debug("cpu: step",
			zap.String("pc", fmt.Sprintf("%05o", uint32(pc))),
			zap.String("op", Decode(word).String()),
			zap.String("ac", fmt.Sprintf("%06o", uint32(cpu.Ac))),
			zap.Uint32("link", uint32(cpu.Link)),
			zap.String("ma", fmt.Sprintf("%05o", uint32(cpu.Ma))),
			zap.Uint64("cycles", cpu.Cycles),
		)
	}

	return
}

// skip advances the program counter over the next instruction.
func (cpu *Cpu) skip() {
	cpu.Pc = (cpu.Pc + 1).Mask()
}

// execute decodes and executes a word. XCT re-enters with depth+1; the
// effective address and buffer used by each level are local to that call,
// so a nested instruction cannot disturb its caller.
func (cpu *Cpu) execute(ctx context.Context, word Word, depth int) (err error) {
	in := Decode(word)

	var ma Address
	var mb Word
	if in.Opcode.MemoryReference() {
		ma = cpu.EffectiveAddress(in.Address, in.Indirect)
		mb = cpu.Memory.Read(ma).Mask()
	} else {
		ma = in.Address
		mb = in.Word
	}

	cpu.Ir = in.Opcode
	cpu.Ma = ma
	cpu.Mb = mb

	switch in.Opcode {
	case OP_CAL:
		cpu.Memory.Write(ma, Word(cpu.Pc))
		cpu.Pc = (ma + 1).Mask()
		cpu.Ac = cpu.Memory.Read(ma).Mask()
		cpu.Cycles += MEMORY_CYCLES
	case OP_DAC:
		cpu.Memory.Write(ma, cpu.Ac)
		cpu.Cycles += MEMORY_CYCLES
	case OP_JMS:
		cpu.Memory.Write(ma, Word(cpu.Pc)|(cpu.Link<<17))
		cpu.Pc = (ma + 1).Mask()
		cpu.Cycles += MEMORY_CYCLES
	case OP_DZM:
		cpu.Memory.Write(ma, 0)
		cpu.Cycles += MEMORY_CYCLES
	case OP_LAC:
		cpu.Ac = mb
		cpu.Cycles += MEMORY_CYCLES
	case OP_XOR:
		cpu.Ac = (cpu.Ac ^ mb).Mask()
		cpu.Cycles += MEMORY_CYCLES
	case OP_ADD:
		cpu.add(mb)
		cpu.Cycles += MEMORY_CYCLES
	case OP_TAD:
		cpu.tad(mb)
		cpu.Cycles += MEMORY_CYCLES
	case OP_XCT:
		if depth >= XCT_DEPTH_LIMIT {
			err = errors.Join(ErrOpcodeDecode, ErrXctDepth)
			return
		}
		cpu.Cycles += JUMP_CYCLES
		err = cpu.execute(ctx, mb, depth+1)
	case OP_ISZ:
		value := (mb + 1).Mask()
		cpu.Memory.Write(ma, value)
		if value == 0 {
			cpu.skip()
		}
		cpu.Cycles += MEMORY_CYCLES
	case OP_AND:
		cpu.Ac &= mb
		cpu.Cycles += MEMORY_CYCLES
	case OP_SAD:
		if cpu.Ac != mb {
			cpu.skip()
		}
		cpu.Cycles += MEMORY_CYCLES
	case OP_JMP:
		cpu.Pc = ma
		cpu.Cycles += JUMP_CYCLES
	case OP_IOT:
		cpu.Cycles += IO_CYCLES
		err = cpu.iot(ctx, in.Word)
		if err != nil {
			err = errors.Join(ErrOpcodeIot, err)
		}
	case OP_OPR:
		cpu.Cycles += IO_CYCLES
		if in.Law() {
			cpu.Ac = in.Word
			return
		}
		err = cpu.operate(in.Word)
		if err != nil {
			err = errors.Join(ErrOpcodeOpr, err)
		}
	default:
		err = errors.Join(ErrOpcodeDecode, ErrOpcode(in.Word))
	}

	return
}

// add is the ones-complement ADD: the carry out of bit 17 is kept in the
// link and folded back into bit 0, and the all-ones minus zero reads as 0.
// This is the legacy behaviour and is not a two's complement add.
func (cpu *Cpu) add(value Word) {
	sum := cpu.Ac.Mask() + value.Mask()
	carry := (sum >> 18) & 1
	cpu.Link = carry
	cpu.Ac = (sum + carry).Mask()
	if cpu.Ac == WORD_MASK {
		cpu.Ac = 0
	}
}

// tad is the two's complement add. A carry out of bit 17 complements the
// link; it is never added back into the result.
func (cpu *Cpu) tad(value Word) {
	sum := cpu.Ac.Mask() + value.Mask()
	if (sum>>18)&1 != 0 {
		cpu.Link ^= 1
	}
	cpu.Ac = sum.Mask()
}
