package emulator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/ezrec/pdp7/cpu"
	"github.com/ezrec/pdp7/display"
	"github.com/ezrec/pdp7/io"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(Config{})
	assert.NoError(err)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Raster)
	assert.Equal(cpu.INSTRUCTION_START, emu.Cpu.Pc)
	assert.Equal(emu.Mailbox, emu.Cpu.Teleprinter)
	assert.Nil(emu.Cpu.Display)
	assert.Equal(display.TELEPRINTER_POLL, emu.Peripheral.Interval)

	assert.Equal(io.POLICY_BLOCK, emu.Mailbox.Policy)
	assert.Equal("teleprinter", emu.Mailbox.Name)

	start := cpu.Address(0o3000)
	emu, err = NewEmulator(Config{Peripheral: PERIPHERAL_DISPLAY, Start: &start})
	assert.NoError(err)
	assert.Equal(cpu.Address(0o3000), emu.Cpu.Pc)
	assert.Equal(io.POLICY_OVERWRITE, emu.Mailbox.Policy)
	assert.Equal("display", emu.Mailbox.Name)
	assert.Equal(emu.Mailbox, emu.Cpu.Display)
	assert.Nil(emu.Cpu.Teleprinter)
	assert.Equal(display.DISPLAY_POLL, emu.Peripheral.Interval)

	policy := io.POLICY_BLOCK
	emu, err = NewEmulator(Config{Peripheral: PERIPHERAL_DISPLAY, Policy: &policy})
	assert.NoError(err)
	assert.Equal(io.POLICY_BLOCK, emu.Mailbox.Policy)

	_, err = NewEmulator(Config{Peripheral: Peripheral(7)})
	assert.Equal(ErrPeripheral, err)
	assert.Equal("Peripheral(7)", Peripheral(7).String())
}

func TestEmulatorStartZero(t *testing.T) {
	assert := assert.New(t)

	var start cpu.Address
	emu, err := NewEmulator(Config{Start: &start})
	assert.NoError(err)
	assert.Equal(cpu.Address(0), emu.Cpu.Pc)

	err = emu.LoadDump("prog", strings.NewReader("0000000 740040\n0002000 700000\n"))
	assert.NoError(err)

	assert.NoError(emu.Run(context.Background()))
	assert.False(emu.Cpu.Running())
	assert.Equal(cpu.Address(1), emu.Cpu.Pc)
}

func TestEmulatorTeleprinterBurst(t *testing.T) {
	assert := assert.New(t)

	// No tsf between characters; the default policy must hold the CPU.
	program := []string{
		"        lac h",
		"        tls",
		"        lac e",
		"        tls",
		"        lac l",
		"        tls",
		"        tls",
		"        lac o",
		"        tls",
		"        hlt",
		"h:      'H'",
		"e:      'E'",
		"l:      'L'",
		"o:      'O'",
	}

	var mirror bytes.Buffer
	emu, err := NewEmulator(Config{
		Log:      zaptest.NewLogger(t),
		Interval: time.Millisecond,
		Mirror:   &mirror,
	})
	assert.NoError(err)
	assert.NoError(emu.Assemble(strings.NewReader(strings.Join(program, "\n"))))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	assert.NoError(emu.Run(ctx))
	assert.Equal("HELLO", mirror.String())
	assert.Equal(uint64(0), emu.Mailbox.Stats().Overwritten)
}

func doRun(t *testing.T, config Config, program []string) (emu *Emulator) {
	assert := assert.New(t)

	config.Log = zaptest.NewLogger(t)
	policy := io.POLICY_BLOCK
	config.Policy = &policy
	config.Interval = time.Millisecond

	emu, err := NewEmulator(config)
	if !assert.NoError(err) {
		t.FailNow()
	}

	err = emu.Assemble(strings.NewReader(strings.Join(program, "\n")))
	if !assert.NoError(err) {
		t.FailNow()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err = emu.Run(ctx)
	assert.NoError(err)
	if err != nil {
		t.Log(emu.Cpu.String())
	}

	return
}

func TestEmulatorTeleprinter(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"loop:   lac i ptr",
		"        sza",
		"        jmp print",
		"        hlt",
		"print:  tls",
		"wait:   tsf",
		"        jmp wait",
		"        isz ptr",
		"        jmp loop",
		"ptr:    .word text",
		"text:   'H'",
		"        'I'",
		"        '\\n'",
		"        0",
	}

	var mirror bytes.Buffer
	emu := doRun(t, Config{Mirror: &mirror}, program)

	assert.Equal("HI\n", mirror.String())
	assert.False(emu.Cpu.Running())
	assert.Equal(io.Stats{Put: 3, Taken: 3}, emu.Mailbox.Stats())
	assert.Equal(uint64(3), emu.Peripheral.Words())
	assert.Less(uint64(0), emu.Raster.Frames())
}

func TestEmulatorDisplay(t *testing.T) {
	assert := assert.New(t)

	chars := display.CharacterWord(display.CodeOf('P'), display.CodeOf('D'), display.CodeOf('P'))

	program := []string{
		"        lac param",
		"        dla",
		"        lac chars",
		"        dla",
		"        lac esc",
		"        dla",
		"        lac pvec",
		"        dla",
		"        lac vec",
		"        dla",
		"        hlt",
		"param:  PARAM_CHARACTER",
		fmt.Sprintf("chars:  %o", uint32(chars)),
		"esc:    $(CHAR_ESCAPE << 12 | CHAR_NULL << 6 | CHAR_NULL)",
		"pvec:   PARAM_VECTOR",
		"vec:    $(VECTOR_EXIT | VECTOR_LIT | 8)",
	}

	emu := doRun(t, Config{Peripheral: PERIPHERAL_DISPLAY}, program)

	dec := emu.Peripheral.Sink.(*display.Display).Decoder
	assert.Equal(display.MODE_PARAMETER, dec.Mode())
	assert.Equal(3, dec.Col)
	assert.Equal(uint64(5), emu.Peripheral.Words())

	frame := emu.Raster.Frame()
	assert.Equal(display.COLOR_LIT, frame.RGBAAt(512, 512))
	assert.Equal(display.COLOR_LIT, frame.RGBAAt(520, 512))
}

func TestEmulatorFault(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(Config{Log: zaptest.NewLogger(t)})
	assert.NoError(err)
	assert.NoError(emu.Assemble(strings.NewReader("cla\n640000\n")))

	err = emu.Run(context.Background())
	assert.True(errors.Is(err, cpu.ErrOpcodeDecode))

	var runErr *ErrRuntime
	if assert.True(errors.As(err, &runErr)) {
		assert.Equal(uint32(0o2001), runErr.Pc)
		assert.Equal(2, runErr.LineNo)
	}
	assert.False(emu.Cpu.Running())
}

func TestEmulatorStepHook(t *testing.T) {
	assert := assert.New(t)

	errStop := errors.New("stop")

	var pcs []cpu.Address
	hook := func(ctx context.Context, emu *Emulator) error {
		if len(pcs) == 3 {
			return errStop
		}
		pcs = append(pcs, emu.Cpu.Pc)
		return nil
	}

	emu, err := NewEmulator(Config{StepHook: hook})
	assert.NoError(err)
	assert.NoError(emu.Assemble(strings.NewReader("loop: cla\n jmp loop\n")))

	err = emu.Run(context.Background())
	assert.Equal(errStop, err)
	assert.Equal([]cpu.Address{0o2000, 0o2001, 0o2000}, pcs)
	assert.False(emu.Cpu.Running())
}

func TestEmulatorDump(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(Config{})
	assert.NoError(err)

	err = emu.LoadDump("prog", strings.NewReader("0002000 0300000\n0002001 0740040\n"))
	assert.NoError(err)

	assert.NoError(emu.Run(context.Background()))
	assert.Equal(cpu.Word(0), emu.Cpu.Ac)
	assert.Equal(cpu.OP_OPR, emu.Cpu.Ir)
	assert.Equal(uint64(3), emu.Cpu.Cycles)
	assert.Equal(0, emu.LineNo(0o2000))

	err = emu.LoadDump("bad", strings.NewReader("0020000 1\n"))
	assert.True(errors.Is(err, cpu.ErrDumpAddress))
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu, err := NewEmulator(Config{})
	assert.NoError(err)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("060000", defines["PARAM_CHARACTER"])
	assert.Equal("077", defines["CHAR_ESCAPE"])
	assert.Contains(defines, "KEYBOARD_BUFFER")
}
