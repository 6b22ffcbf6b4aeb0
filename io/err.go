package io

import (
	"errors"

	"github.com/ezrec/pdp7/translate"
)

var f = translate.From

var (
	// Mailbox errors
	ErrPolicy = errors.New(f("unknown mailbox policy"))

	// Console errors
	ErrNotTerminal = errors.New(f("not a terminal"))
)
