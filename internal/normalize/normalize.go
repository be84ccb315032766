// Package normalize holds the pure field normalizers of the migration
// pipeline. Every function is total over string inputs: it returns a
// canonical value (possibly empty) plus an Outcome, and never fails. Dirty
// data is expressed through issue kinds, not errors.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/joelkehle/ipms-migrate/internal/record"
)

// Outcome describes how a single normalization went. Issue is empty when the
// value normalized cleanly. Confidence is 1 for a clean parse, lower when a
// tie-break or fixup was applied, 0 when the value was unusable.
type Outcome struct {
	Confidence float64
	Issue      record.IssueKind
}

func clean() Outcome   { return Outcome{Confidence: 1} }
func missing() Outcome { return Outcome{Issue: record.IssueMissing} }

func failed(k record.IssueKind) Outcome { return Outcome{Issue: k} }

// placeholders are legacy stand-ins for "no value". Matched after trimming,
// case-insensitively.
var placeholders = map[string]bool{
	"":        true,
	"n/a":     true,
	"na":      true,
	"null":    true,
	"none":    true,
	"unknown": true,
	"tbd":     true,
	"-":       true,
}

// Clean trims, collapses internal whitespace, and maps legacy placeholder
// strings to "".
func Clean(raw string) string {
	s := strings.Join(strings.Fields(raw), " ")
	if placeholders[strings.ToLower(s)] {
		return ""
	}
	return s
}

// foldTransformer strips diacritics so "España" and "Espana" compare equal.
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// fold lowercases and removes diacritic marks for lookup keys.
func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// titleCase uppercases the first letter of each space- or hyphen-separated
// word, matching how the legacy exports were cased on their good days.
func titleCase(s string) string {
	var b strings.Builder
	startWord := true
	for _, r := range strings.ToLower(s) {
		switch {
		case startWord && unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
			startWord = false
		case r == ' ' || r == '-' || r == '\'':
			b.WriteRune(r)
			startWord = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
