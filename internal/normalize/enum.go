package normalize

import (
	"sort"
	"strings"

	"github.com/joelkehle/ipms-migrate/internal/record"
)

// Enum resolves a free-text legacy value against a table of canonical value
// -> accepted variants. Exact variant matches win; failing that, a substring
// match in either direction is accepted at reduced confidence, which is how
// "under examination period" still resolves to pending. Unresolvable values
// normalize to empty with an unparsed_enum issue; they are never silently
// defaulted.
func Enum(raw string, table map[string][]string) (string, Outcome) {
	s := strings.ToLower(Clean(raw))
	if s == "" {
		return "", missing()
	}

	// Deterministic iteration order: canonical keys sorted.
	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, canonical := range keys {
		for _, variant := range table[canonical] {
			if s == strings.ToLower(variant) {
				return canonical, clean()
			}
		}
	}
	for _, canonical := range keys {
		for _, variant := range table[canonical] {
			v := strings.ToLower(variant)
			if strings.Contains(s, v) || strings.Contains(v, s) {
				return canonical, Outcome{Confidence: 0.7}
			}
		}
	}

	return "", failed(record.IssueUnparsedEnum)
}
