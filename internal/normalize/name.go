package normalize

import (
	"strings"

	"github.com/joelkehle/ipms-migrate/internal/record"
)

// SplitName turns a combined legacy name into first/last components. The
// "Last, First" convention splits on the first comma; otherwise the first
// word is the first name and the rest the last name. A single token is
// treated as a bare last name.
func SplitName(raw string) record.Name {
	s := Clean(raw)
	if s == "" {
		return record.Name{}
	}

	if i := strings.Index(s, ","); i >= 0 {
		last := strings.TrimSpace(s[:i])
		first := strings.TrimSpace(s[i+1:])
		return record.Name{First: titleCase(first), Last: titleCase(last)}
	}

	parts := strings.Fields(s)
	if len(parts) == 1 {
		return record.Name{Last: titleCase(parts[0])}
	}
	return record.Name{
		First: titleCase(parts[0]),
		Last:  titleCase(strings.Join(parts[1:], " ")),
	}
}

// PersonName reconciles split first/last fields with a combined name string.
// Split fields take precedence; a disagreement with the combined string is
// reported as a name_conflict but never overrides them. With only a combined
// string, it is split.
func PersonName(first, last, combined string) (record.Name, Outcome) {
	splitName := record.Name{First: titleCase(Clean(first)), Last: titleCase(Clean(last))}
	combinedName := SplitName(combined)

	switch {
	case splitName.IsZero() && combinedName.IsZero():
		return record.Name{}, missing()
	case splitName.IsZero():
		return combinedName, clean()
	case combinedName.IsZero():
		return splitName, clean()
	}

	if !equalFold(splitName, combinedName) {
		return splitName, Outcome{Confidence: 0.8, Issue: record.IssueNameConflict}
	}
	return splitName, clean()
}

func equalFold(a, b record.Name) bool {
	return strings.EqualFold(a.First, b.First) && strings.EqualFold(a.Last, b.Last)
}

// Inventors parses a multi-person legacy field. People are separated by
// semicolons or pipes; each entry goes through the same name split as
// clients.
func Inventors(raw string) []record.Name {
	s := Clean(raw)
	if s == "" {
		return nil
	}
	var out []record.Name
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ';' || r == '|' }) {
		n := SplitName(part)
		if !n.IsZero() {
			out = append(out, n)
		}
	}
	return out
}
