//go:build headless

// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"

	"github.com/ezrec/pdp7/emulator"
)

var errHeadless = errors.New("built without window support")

func runWindow(ctx context.Context, cancel context.CancelFunc, emu *emulator.Emulator) error {
	return errHeadless
}
