package normalize

import (
	"regexp"
	"strings"

	"github.com/joelkehle/ipms-migrate/internal/record"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email lowercases and validates an address. The one systematic corruption
// seen in the legacy exports, "_at_" in place of "@", is repaired with a
// reduced confidence; other malformed values become an invalid_email issue.
func Email(raw string) (string, Outcome) {
	s := strings.ToLower(Clean(raw))
	if s == "" {
		return "", missing()
	}

	if emailPattern.MatchString(s) {
		return s, clean()
	}

	if strings.Contains(s, "_at_") {
		fixed := strings.Replace(s, "_at_", "@", 1)
		if emailPattern.MatchString(fixed) {
			return fixed, Outcome{Confidence: 0.8}
		}
	}

	return "", failed(record.IssueInvalidEmail)
}
