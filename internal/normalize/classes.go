package normalize

import (
	"sort"
	"strconv"
	"strings"
)

// Classes parses a classification list ("9, 42", "35;41", "Nice 9 and 42")
// into distinct integers in ascending order. Values outside [min, max] are
// dropped and returned separately so the caller can record one
// invalid_classification issue per dropped value instead of rejecting the
// whole field.
func Classes(raw string, min, max int) (valid []int, dropped []string, out Outcome) {
	s := Clean(raw)
	if s == "" {
		return nil, nil, missing()
	}

	seen := map[int]bool{}
	for _, tok := range splitClassTokens(s) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if n < min || n > max {
			dropped = append(dropped, tok)
			continue
		}
		if !seen[n] {
			seen[n] = true
			valid = append(valid, n)
		}
	}
	sort.Ints(valid)

	if len(valid) == 0 && len(dropped) == 0 {
		// Nothing numeric in the field at all.
		return nil, []string{s}, Outcome{Confidence: 0}
	}
	conf := 1.0
	if len(dropped) > 0 {
		conf = 0.8
	}
	return valid, dropped, Outcome{Confidence: conf}
}

// splitClassTokens extracts digit runs from a messy class list, tolerating
// commas, semicolons, whitespace, and stray words.
func splitClassTokens(s string) []string {
	var tokens []string
	var cur strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			cur.WriteRune(r)
			continue
		}
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// IPCClasses splits an IPC/CPC list on semicolons, collapsing internal
// whitespace. The symbols themselves are kept verbatim; their grammar is not
// this system's to validate.
func IPCClasses(raw string) []string {
	s := Clean(raw)
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ";") {
		part = strings.Join(strings.Fields(part), " ")
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
