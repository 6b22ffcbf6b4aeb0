// Package translate formats user-visible messages for the user's locale.
package translate

//go:generate go tool gotext -srclang=en-US update -out=catalog.go -lang=en-US github.com/ezrec/pdp7/cpu github.com/ezrec/pdp7/io github.com/ezrec/pdp7/emulator

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// DEFAULT_LOCALE is used when the host reports no locale.
const DEFAULT_LOCALE = "en-US"

var (
	printer     *message.Printer
	printerOnce sync.Once
)

// Locales returns the preferred locales of the host, most preferred first.
func Locales() []string {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("pdp7: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{DEFAULT_LOCALE}
	}

	return locales
}

func getPrinter() *message.Printer {
	printerOnce.Do(func() {
		printer = message.NewPrinter(message.MatchLanguage(Locales()...))
	})
	return printer
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return getPrinter().Sprintf(key, args...)
}
