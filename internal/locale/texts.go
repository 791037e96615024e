package locale

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Key names one user-facing text of the catalog.
type Key string

// Texts renders catalog entries for one language.
type Texts struct {
	p *message.Printer
}

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Russian))
	for key, msg := range ru {
		if err := b.SetString(language.Russian, string(key), msg); err != nil {
			panic(err)
		}
	}
	return b
}

var defaultCatalog = newCatalog()

// New returns Russian texts.
func New() *Texts {
	return &Texts{p: message.NewPrinter(language.Russian, message.Catalog(defaultCatalog))}
}

// T formats the entry for key. Numbers are printed with Russian digit grouping,
// so identifiers must be passed as strings.
func (t *Texts) T(key Key, args ...any) string {
	return t.p.Sprintf(string(key), args...)
}
