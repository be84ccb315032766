package normalize

import (
	"strings"

	"github.com/joelkehle/ipms-migrate/internal/record"
)

// badPhones are legacy stand-ins for "no phone number".
var badPhones = map[string]bool{
	"000-000-0000": true,
	"0000000000":   true,
}

// Phone strips everything but digits (and a leading +) and validates length
// bounds of 7-15 digits. Ten-digit numbers format as US domestic, eleven
// with a leading 1 as +1; anything else international keeps a bare + prefix.
func Phone(raw string) (string, Outcome) {
	s := Clean(raw)
	if s == "" || badPhones[strings.ToLower(s)] {
		return "", missing()
	}

	plus := strings.HasPrefix(s, "+")
	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()

	if len(d) < 7 || len(d) > 15 {
		return "", failed(record.IssueInvalidPhone)
	}

	switch {
	case !plus && len(d) == 10:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:], clean()
	case len(d) == 11 && d[0] == '1':
		return "+1 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:], clean()
	default:
		return "+" + d, clean()
	}
}
