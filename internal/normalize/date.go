package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joelkehle/ipms-migrate/internal/record"
)

// badDates are sentinel values legacy operators typed in place of a real
// date. They normalize to absent, not to an error.
var badDates = map[string]bool{
	"00/00/0000": true,
	"0000-00-00": true,
	"1900-01-01": true,
	"01/01/1900": true,
}

// textLayouts are tried, in order, after ISO and slash forms.
var textLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"02-Jan-2006",
	"2-Jan-2006",
}

// Date parses the zoo of legacy date formats into an ISO date. Candidate
// formats are tried in a fixed priority order; the first unambiguous match
// wins. A slash date that reads validly as both month-first and day-first
// with different results is resolved by dayFirst (false for US-jurisdiction
// records) and still reported as ambiguous so audits can find it.
func Date(raw string, dayFirst bool, minYear, maxYear int) (record.ISODate, Outcome) {
	s := Clean(raw)
	if s == "" || badDates[s] {
		return "", missing()
	}

	if d, ok := parseISO(s); ok {
		return rangeCheck(d, minYear, maxYear)
	}

	if d, amb, ok := parseSlash(s, dayFirst); ok {
		iso, out := rangeCheck(d, minYear, maxYear)
		if out.Issue == "" && amb {
			return iso, Outcome{Confidence: 0.7, Issue: record.IssueAmbiguousDate}
		}
		return iso, out
	}

	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return rangeCheck(record.DateFromTime(t), minYear, maxYear)
		}
	}

	return "", failed(record.IssueInvalidDate)
}

func rangeCheck(d record.ISODate, minYear, maxYear int) (record.ISODate, Outcome) {
	t, err := d.Time()
	if err != nil {
		return "", failed(record.IssueInvalidDate)
	}
	if y := t.Year(); y < minYear || y > maxYear {
		return "", failed(record.IssueOutOfRangeDate)
	}
	return d, clean()
}

func parseISO(s string) (record.ISODate, bool) {
	for _, layout := range []string{"2006-01-02", "2006/01/02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return record.DateFromTime(t), true
		}
	}
	return "", false
}

// parseSlash handles D/M/YYYY and M/D/YYYY forms. The second return reports
// whether the date was genuinely ambiguous (both readings valid and
// different).
func parseSlash(s string, dayFirst bool) (record.ISODate, bool, bool) {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return "", false, false
	}
	a, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil || len(strings.TrimSpace(parts[2])) != 4 {
		return "", false, false
	}

	asMonthDay := validDay(year, a, b) // a=month, b=day
	asDayMonth := validDay(year, b, a) // a=day, b=month
	switch {
	case asMonthDay && asDayMonth:
		if a == b {
			return isoFrom(year, a, b), false, true
		}
		if dayFirst {
			return isoFrom(year, b, a), true, true
		}
		return isoFrom(year, a, b), true, true
	case asMonthDay:
		return isoFrom(year, a, b), false, true
	case asDayMonth:
		return isoFrom(year, b, a), false, true
	default:
		return "", false, false
	}
}

func validDay(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	return day <= daysIn(year, time.Month(month))
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isoFrom(year, month, day int) record.ISODate {
	return record.ISODate(fmt.Sprintf("%04d-%02d-%02d", year, month, day))
}
