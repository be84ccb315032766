package normalize

import (
	"strings"

	"github.com/joelkehle/ipms-migrate/internal/record"
)

// Country resolves a free-text country or jurisdiction value to an ISO-2
// code using the configured alias table. Matching is case- and
// diacritic-insensitive. Unknown values normalize to empty with an
// unknown_country issue.
func Country(raw string, countries map[string]string) (string, Outcome) {
	s := Clean(raw)
	if s == "" {
		return "", missing()
	}

	key := fold(s)
	if code, ok := countries[key]; ok {
		return code, clean()
	}

	// Legacy exports occasionally embed the country in a longer phrase
	// ("United States of America (USPTO)"). A handful of substring rescues
	// cover the common cases without guessing on the rest.
	switch {
	case strings.Contains(key, "united states"), strings.Contains(key, "america"):
		return "US", Outcome{Confidence: 0.8}
	case strings.Contains(key, "united kingdom"), strings.Contains(key, "britain"):
		return "GB", Outcome{Confidence: 0.8}
	case strings.Contains(key, "germany"), strings.Contains(key, "deutschland"):
		return "DE", Outcome{Confidence: 0.8}
	}

	return "", failed(record.IssueUnknownCountry)
}
