package printer

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TextFilter rewrites text into something a code-page limited thermal printer
// can render. A nil *TextFilter passes text through unchanged.
type TextFilter struct {
	removeSpecial bool
}

// NewTextFilter returns a filter. With removeSpecial set, diacritics are
// stripped and any remaining non-ASCII rune is replaced.
func NewTextFilter(removeSpecial bool) *TextFilter {
	return &TextFilter{removeSpecial: removeSpecial}
}

// Apply returns s rewritten for the printer.
func (f *TextFilter) Apply(s string) string {
	if f == nil || !f.removeSpecial || isASCII(s) {
		return s
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r == '¡':
			return '!'
		case r == '¿':
			return '?'
		case r == '\n' || r == '\t':
			return r
		case r > unicode.MaxASCII:
			return '?'
		}
		return r
	}, stripped)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}
