// Package translate formats user visible text with a printer matched to the
// host locale.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Fallback is the locale used when the host locale cannot be determined.
const Fallback = "en-US"

var (
	once    sync.Once
	tag     language.Tag
	printer *message.Printer
)

func load() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("intcode: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{Fallback}
	}

	tag = message.MatchLanguage(locales...)
	printer = message.NewPrinter(tag)
}

// Tag returns the language the printer was matched to.
func Tag() language.Tag {
	once.Do(load)
	return tag
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	once.Do(load)
	return printer.Sprintf(key, args...)
}
