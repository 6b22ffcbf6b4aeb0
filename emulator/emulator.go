// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator ties the PDP-7 processor to one peripheral and runs
// them side by side.
package emulator

import (
	"context"
	"fmt"
	stdio "io"
	"iter"
	"maps"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ezrec/pdp7/cpu"
	"github.com/ezrec/pdp7/display"
	"github.com/ezrec/pdp7/internal"
	"github.com/ezrec/pdp7/io"
)

//go:generate go tool stringer -linecomment -type=Peripheral

// Peripheral selects the device attached to the processor: the console
// teleprinter, fed by TLS, or the Type 340 display, fed by DLA.
type Peripheral int

const (
	PERIPHERAL_TELEPRINTER = Peripheral(iota) // teleprinter
	PERIPHERAL_DISPLAY                        // display
)

// The teleprinter never loses a character; the display keeps the newest word.
var _peripheral_policy = map[Peripheral]io.Policy{
	PERIPHERAL_TELEPRINTER: io.POLICY_BLOCK,
	PERIPHERAL_DISPLAY:     io.POLICY_OVERWRITE,
}

var _emulator_defines = map[string]string{
	"KEYBOARD_BUFFER": fmt.Sprintf("%#o", io.KEYBOARD_BUFFER),
}

// StepFunc is called before every instruction. Returning an error stops
// the processor with that error.
type StepFunc func(ctx context.Context, emu *Emulator) error

// Config selects how the emulator is assembled.
type Config struct {
	Verbose    bool          // Trace every instruction and display word.
	Log        *zap.Logger   // Log destination; nil discards.
	Peripheral Peripheral    // Attached device.
	Policy     *io.Policy    // Mailbox policy; nil for the device default.
	Interval   time.Duration // Peripheral poll interval; 0 for the device default.
	Start      *cpu.Address  // Initial program counter; nil for INSTRUCTION_START.
	Switches   cpu.Word      // Console switches.

	Keyboard cpu.Keyboard    // Keyboard for KSF and KRB; may be nil.
	Mirror   stdio.Writer    // Teleprinter text copy; may be nil.
	Surface  display.Surface // Rendering surface; nil for a new Raster.

	StepHook StepFunc // Called before every instruction; may be nil.
}

// Emulator state. CPU + mailbox + peripheral.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	Log      *zap.Logger  // Log destination.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Assembled program listing, if any.

	Start      cpu.Address
	Mailbox    *io.Mailbox
	Raster     *display.Raster // Set when the emulator created the surface.
	Surface    display.Surface
	Peripheral *display.Peripheral
	StepHook   StepFunc
}

// NewEmulator creates an emulator from a configuration.
func NewEmulator(config Config) (emu *Emulator, err error) {
	log := config.Log
	if log == nil {
		log = zap.NewNop()
	}

	start := cpu.INSTRUCTION_START
	if config.Start != nil {
		start = *config.Start
	}

	emu = &Emulator{
		Verbose:  config.Verbose,
		Log:      log,
		Cpu:      cpu.NewCpu(),
		Program:  &cpu.Program{},
		Start:    start.Mask(),
		Surface:  config.Surface,
		StepHook: config.StepHook,
	}

	emu.Cpu.Verbose = config.Verbose
	emu.Cpu.Log = log
	emu.Cpu.Switches = config.Switches.Mask()
	emu.Cpu.Keyboard = config.Keyboard

	if emu.Surface == nil {
		emu.Raster = display.NewRaster(display.SCREEN_WIDTH, display.SCREEN_HEIGHT)
		emu.Surface = emu.Raster
	}

	policy, ok := _peripheral_policy[config.Peripheral]
	if !ok {
		emu = nil
		err = ErrPeripheral
		return
	}
	if config.Policy != nil {
		policy = *config.Policy
	}

	emu.Mailbox = io.NewMailbox(config.Peripheral.String(), policy)
	emu.Peripheral = &display.Peripheral{
		Verbose:  config.Verbose,
		Log:      log,
		Name:     config.Peripheral.String(),
		Source:   emu.Mailbox,
		Surface:  emu.Surface,
		Interval: config.Interval,
	}

	switch config.Peripheral {
	case PERIPHERAL_TELEPRINTER:
		tty := display.NewTeleprinter(emu.Surface, config.Mirror)
		tty.Decoder.Verbose = config.Verbose
		tty.Decoder.Log = log
		emu.Peripheral.Sink = tty
		if emu.Peripheral.Interval == 0 {
			emu.Peripheral.Interval = display.TELEPRINTER_POLL
		}
		emu.Cpu.Teleprinter = emu.Mailbox
	case PERIPHERAL_DISPLAY:
		dpy := display.NewDisplay(emu.Surface)
		dpy.Decoder.Verbose = config.Verbose
		dpy.Decoder.Log = log
		emu.Peripheral.Sink = dpy
		if emu.Peripheral.Interval == 0 {
			emu.Peripheral.Interval = display.DISPLAY_POLL
		}
		emu.Cpu.Display = emu.Mailbox
	default:
		emu = nil
		err = ErrPeripheral
		return
	}

	emu.Reset()

	return
}

// Defines returns an iterator over all of the assembler defines.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		display.Defines(),
	)
}

// Reset the processor to the start address. Core is kept.
func (emu *Emulator) Reset() {
	emu.Cpu.Reset(emu.Start)
}

// Assemble parses a program at the start address and loads it into core.
func (emu *Emulator) Assemble(input stdio.Reader) (err error) {
	asm := &cpu.Assembler{
		Verbose: emu.Verbose,
		Log:     emu.Log,
		Origin:  emu.Start,
	}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	prog.Load(&emu.Cpu.Memory)
	emu.Program = prog

	emu.Log.Info("emulator: assembled",
		zap.Int("words", len(prog.Statements)),
		zap.String("start", fmt.Sprintf("%05o", uint32(emu.Start))),
	)

	return
}

// LoadDump loads an octal dump into core.
func (emu *Emulator) LoadDump(name string, input stdio.Reader) (err error) {
	err = emu.Cpu.Memory.LoadDump(name, input)
	if err != nil {
		return
	}

	emu.Log.Info("emulator: loaded", zap.String("dump", name))

	return
}

// LineNo returns the source line of the instruction at an address, or 0.
func (emu *Emulator) LineNo(pc cpu.Address) int {
	stmt, ok := emu.Program.Debug(pc)
	if !ok {
		return 0
	}

	return stmt.LineNo
}

// Run executes the processor and the peripheral until the processor halts,
// faults, or the context is done. The peripheral is stopped once the
// processor is done, after draining its mailbox.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	grp, gctx := errgroup.WithContext(ctx)
	pctx, stopPeripheral := context.WithCancel(gctx)
	defer stopPeripheral()

	grp.Go(func() error {
		defer stopPeripheral()
		return emu.runCpu(gctx)
	})

	grp.Go(func() error {
		return emu.Peripheral.Run(pctx)
	})

	err = grp.Wait()

	stats := emu.Mailbox.Stats()
	emu.Log.Info("emulator: stopped",
		zap.String("pc", fmt.Sprintf("%05o", uint32(emu.Cpu.Pc))),
		zap.Uint64("cycles", emu.Cpu.Cycles),
		zap.Bool("halted", !emu.Cpu.Running()),
		zap.String("mailbox", emu.Mailbox.Name),
		zap.Uint64("put", stats.Put),
		zap.Uint64("taken", stats.Taken),
		zap.Uint64("overwritten", stats.Overwritten),
		zap.Uint64("dropped", stats.Dropped),
	)

	if stats.Overwritten > 0 {
		emu.Log.Warn("emulator: mailbox words lost",
			zap.String("mailbox", emu.Mailbox.Name),
			zap.Uint64("overwritten", stats.Overwritten),
		)
	}

	return
}

// runCpu steps the processor until it halts.
func (emu *Emulator) runCpu(ctx context.Context) (err error) {
	for emu.Cpu.Running() {
		err = ctx.Err()
		if err != nil {
			return
		}

		if emu.StepHook != nil {
			err = emu.StepHook(ctx, emu)
			if err != nil {
				emu.Cpu.Stop()
				return
			}
		}

		pc := emu.Cpu.Pc
		err = emu.Cpu.Step(ctx)
		if err != nil {
			err = &ErrRuntime{Pc: uint32(pc), LineNo: emu.LineNo(pc), Err: err}
			return
		}
	}

	return
}
