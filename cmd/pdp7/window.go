//go:build !headless

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/ezrec/pdp7/emulator"
)

var errNoRaster = errors.New("window needs the emulator raster")

var statusColor = color.RGBA{R: 0x40, G: 0xc0, B: 0xff, A: 0xff}

// window shows the emulator raster, refreshed every frame.
type window struct {
	ctx    context.Context
	emu    *emulator.Emulator
	done   chan error
	result error

	width, height int
	image         *ebiten.Image
	pixels        []byte
	status        bool
}

func (w *window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}

	select {
	case err := <-w.done:
		w.result = err
		w.done = nil
	default:
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		w.status = !w.status
	}

	return nil
}

func (w *window) statusLine() string {
	stats := w.emu.Mailbox.Stats()
	state := "running"
	if w.done == nil {
		state = "stopped"
	}
	return fmt.Sprintf("%v frames:%d words:%d overwritten:%d",
		state, w.emu.Raster.Frames(), w.emu.Peripheral.Words(), stats.Overwritten)
}

func (w *window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(w.width, w.height)
	}

	w.emu.Raster.WritePixels(w.pixels)
	w.image.WritePixels(w.pixels)
	screen.DrawImage(w.image, nil)

	if w.status {
		text.Draw(screen, w.statusLine(), basicfont.Face7x13, 8, 16, statusColor)
	}
}

func (w *window) Layout(_, _ int) (int, int) {
	return w.width, w.height
}

// runWindow runs the emulator behind a window until the window is closed
// or the context is done. The window stays open after the processor halts.
func runWindow(ctx context.Context, cancel context.CancelFunc, emu *emulator.Emulator) (err error) {
	if emu.Raster == nil {
		err = errNoRaster
		return
	}

	bounds := emu.Raster.Bounds()
	w := &window{
		ctx:    ctx,
		emu:    emu,
		done:   make(chan error, 1),
		width:  bounds.Dx(),
		height: bounds.Dy(),
		pixels: make([]byte, 4*bounds.Dx()*bounds.Dy()),
	}

	go func() {
		w.done <- emu.Run(ctx)
	}()

	ebiten.SetWindowSize(w.width*3/4, w.height*3/4)
	ebiten.SetWindowTitle("PDP-7 Type 340")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)

	err = ebiten.RunGame(w)

	// Closing the window stops the emulator.
	cancel()
	if w.done != nil {
		w.result = <-w.done
	}
	if err == nil {
		err = w.result
	}

	return
}
