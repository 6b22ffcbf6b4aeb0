// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Command pdp7 runs PDP-7 programs with a teleprinter or a Type 340 display.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	stdio "io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ezrec/pdp7/cpu"
	"github.com/ezrec/pdp7/emulator"
	"github.com/ezrec/pdp7/io"
)

var (
	errQuit  = errors.New("quit")
	errUsage = errors.New("usage")
)

// options are the parsed command line flags.
type options struct {
	debug    bool
	step     bool
	tty      bool
	graphics bool
	program  string
	memory   string
	assembly string
	output   string
	start    string
	policy   string
	switches string
	poll     time.Duration
	snapshot string
	window   bool
}

func parseFlags(fs *flag.FlagSet, args []string) (opt options, err error) {
	fs.BoolVar(&opt.debug, "d", false, "Debug trace of every instruction")
	fs.BoolVar(&opt.step, "s", false, "Single step, press Enter for each instruction")
	fs.BoolVar(&opt.tty, "t", false, "Attach the teleprinter (default)")
	fs.BoolVar(&opt.graphics, "g", false, "Attach the Type 340 display")
	fs.StringVar(&opt.program, "p", "", "Program octal dump")
	fs.StringVar(&opt.memory, "m", "", "Data octal dump")
	fs.StringVar(&opt.assembly, "a", "", "Assembly source, instead of -p")
	fs.StringVar(&opt.output, "o", "", "Write the assembled program as an octal dump, do not execute")
	fs.StringVar(&opt.start, "start", fmt.Sprintf("%o", uint32(cpu.INSTRUCTION_START)), "Start address, octal")
	fs.StringVar(&opt.policy, "policy", "", "Mailbox policy: overwrite or block (default block for -t, overwrite for -g)")
	fs.StringVar(&opt.switches, "switches", "0", "Console switches, octal")
	fs.DurationVar(&opt.poll, "poll", 0, "Peripheral poll interval (0 for the device default)")
	fs.StringVar(&opt.snapshot, "snapshot", "", "Write the final screen as a PNG")
	fs.BoolVar(&opt.window, "window", false, "Show the display in a window (needs -g)")

	// Parse reports its own errors.
	err = fs.Parse(args)
	if err != nil {
		return
	}

	defer func() {
		if err != nil {
			err = fmt.Errorf("%w: %w", errUsage, err)
		}
	}()

	switch {
	case fs.NArg() != 0:
		err = fmt.Errorf("unknown arguments: %v", fs.Args())
	case opt.tty && opt.graphics:
		err = errors.New("-t and -g are exclusive")
	case opt.window && !opt.graphics:
		err = errors.New("-window needs -g")
	case len(opt.assembly) != 0 && len(opt.program) != 0:
		err = errors.New("-a and -p are exclusive")
	case len(opt.assembly) == 0 && len(opt.program) == 0:
		err = errors.New("one of -a or -p is required")
	case len(opt.output) != 0 && len(opt.assembly) == 0:
		err = errors.New("-o needs -a")
	}

	return
}

func parseOctal(name string, text string, limit uint64) (value uint64, err error) {
	value, err = strconv.ParseUint(text, 8, 32)
	if err == nil && value > limit {
		err = strconv.ErrRange
	}
	if err != nil {
		err = fmt.Errorf("-%v %v: %w", name, text, err)
	}
	return
}

// parsePolicy returns nil for an empty name, leaving the choice to the
// attached device.
func parsePolicy(name string) (policy *io.Policy, err error) {
	if len(name) == 0 {
		return
	}

	value, err := io.ParsePolicy(name)
	if err != nil {
		return
	}

	policy = &value
	return
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	return config.Build()
}

// loadFile opens a file and hands it to load.
func loadFile(path string, load func(name string, input stdio.Reader) error) (err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return load(path, inf)
}

// interruptReader cancels a context when it reads a Ctrl-C, which raw
// terminal mode no longer turns into a signal.
type interruptReader struct {
	stdio.Reader
	cancel context.CancelFunc
}

func (ir *interruptReader) Read(p []byte) (n int, err error) {
	n, err = ir.Reader.Read(p)
	for _, ch := range p[:n] {
		if ch == 0x03 {
			ir.cancel()
		}
	}
	return
}

// stepper waits for Enter before each instruction.
func stepper(input stdio.Reader, output stdio.Writer) emulator.StepFunc {
	reader := bufio.NewReader(input)
	return func(ctx context.Context, emu *emulator.Emulator) error {
		word := emu.Cpu.Memory.Read(emu.Cpu.Pc)
		fmt.Fprintf(output, "%v%05o: %06o %v\n[Enter to step, q to quit] ",
			emu.Cpu.String(), uint32(emu.Cpu.Pc), uint32(word), cpu.Decode(word))
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "q" {
			return errQuit
		}
		return nil
	}
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	opt, err := parseFlags(fs, args)
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(fs.Output(), "%v: %v\n", os.Args[0], err)
			fs.Usage()
		}
		return 1
	}

	log, err := newLogger(opt.debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v: %v\n", os.Args[0], err)
		return 1
	}
	defer log.Sync()

	err = execute(opt, log)
	if err != nil && !errors.Is(err, errQuit) && !errors.Is(err, context.Canceled) {
		log.Error("pdp7", zap.Error(err))
		return 1
	}

	return 0
}

// newConfig builds the emulator configuration from the flags, without any
// terminal attachments.
func newConfig(opt options, log *zap.Logger) (config emulator.Config, err error) {
	start, err := parseOctal("start", opt.start, uint64(cpu.ADDRESS_MASK))
	if err != nil {
		return
	}
	switches, err := parseOctal("switches", opt.switches, uint64(cpu.WORD_MASK))
	if err != nil {
		return
	}
	policy, err := parsePolicy(opt.policy)
	if err != nil {
		return
	}
	addr := cpu.Address(start)

	config = emulator.Config{
		Verbose:  opt.debug,
		Log:      log,
		Policy:   policy,
		Interval: opt.poll,
		Start:    &addr,
		Switches: cpu.Word(switches),
		Mirror:   os.Stdout,
	}
	if opt.graphics {
		config.Peripheral = emulator.PERIPHERAL_DISPLAY
	}

	return
}

func execute(opt options, log *zap.Logger) (err error) {
	config, err := newConfig(opt, log)
	if err != nil {
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// The keyboard and single stepping share stdin.
	runnable := len(opt.output) == 0
	if runnable && opt.step {
		config.StepHook = stepper(os.Stdin, os.Stderr)
	} else if runnable {
		var input stdio.Reader = os.Stdin
		con, cerr := io.OpenConsole(os.Stdin)
		if cerr == nil {
			defer con.Close()
			config.Mirror = con
			input = &interruptReader{Reader: os.Stdin, cancel: cancel}
		}
		config.Keyboard = io.NewKeyboard(ctx, input)
	}

	emu, err := emulator.NewEmulator(config)
	if err != nil {
		return
	}

	if len(opt.assembly) != 0 {
		err = loadFile(opt.assembly, func(name string, input stdio.Reader) error {
			return emu.Assemble(input)
		})
	} else {
		err = loadFile(opt.program, emu.LoadDump)
	}
	if err != nil {
		return
	}

	if len(opt.memory) != 0 {
		err = loadFile(opt.memory, emu.LoadDump)
		if err != nil {
			return
		}
	}

	if len(opt.output) != 0 {
		var ouf *os.File
		ouf, err = os.Create(opt.output)
		if err != nil {
			return
		}
		defer ouf.Close()
		return emu.Program.WriteDump(ouf)
	}

	if opt.window {
		err = runWindow(ctx, cancel, emu)
	} else {
		err = emu.Run(ctx)
	}

	if len(opt.snapshot) != 0 && emu.Raster != nil {
		serr := writeSnapshot(opt.snapshot, emu)
		if err == nil {
			err = serr
		}
	}

	if opt.debug {
		fmt.Fprint(os.Stderr, emu.Cpu.String())
	}

	return
}

func writeSnapshot(path string, emu *emulator.Emulator) (err error) {
	ouf, err := os.Create(path)
	if err != nil {
		return
	}

	err = emu.Raster.WritePNG(ouf, 1)
	cerr := ouf.Close()
	if err == nil {
		err = cerr
	}

	return
}
