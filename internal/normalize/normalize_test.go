package normalize

import (
	"testing"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/record"
)

func TestCleanPlaceholders(t *testing.T) {
	for _, raw := range []string{"", "  ", "N/A", "na", "NULL", "None", "unknown", "TBD", "-"} {
		if got := Clean(raw); got != "" {
			t.Fatalf("Clean(%q) = %q, want empty", raw, got)
		}
	}
	if got := Clean("  Acme   Corp  "); got != "Acme Corp" {
		t.Fatalf("Clean collapse: got %q", got)
	}
}

func TestCountryLookup(t *testing.T) {
	countries := config.Default().Countries
	cases := map[string]string{
		"US":                   "US",
		"usa":                  "US",
		" United States ":      "US",
		"Deutschland":          "DE",
		"España":               "ES",
		"République française": "FR",
		"UK":                   "GB",
	}
	for raw, want := range cases {
		got, out := Country(raw, countries)
		if got != want || out.Issue != "" {
			t.Fatalf("Country(%q) = %q issue %q, want %q clean", raw, got, out.Issue, want)
		}
	}
}

func TestCountryUnknown(t *testing.T) {
	got, out := Country("Atlantis", config.Default().Countries)
	if got != "" || out.Issue != record.IssueUnknownCountry {
		t.Fatalf("got %q issue %q, want unknown_country", got, out.Issue)
	}
}

func TestCountrySubstringRescue(t *testing.T) {
	got, out := Country("United States of America (USPTO)", config.Default().Countries)
	if got != "US" || out.Issue != "" {
		t.Fatalf("got %q issue %q", got, out.Issue)
	}
}

func TestSplitNameLastFirst(t *testing.T) {
	n := SplitName("smith, JOHN")
	if n.First != "John" || n.Last != "Smith" {
		t.Fatalf("got %+v", n)
	}
}

func TestSplitNameMultiWord(t *testing.T) {
	n := SplitName("Maria van der Berg")
	if n.First != "Maria" || n.Last != "Van Der Berg" {
		t.Fatalf("got %+v", n)
	}
}

func TestPersonNameSplitFieldsWin(t *testing.T) {
	n, out := PersonName("Jane", "Doe", "Smith, John")
	if n.First != "Jane" || n.Last != "Doe" {
		t.Fatalf("got %+v", n)
	}
	if out.Issue != record.IssueNameConflict {
		t.Fatalf("expected name_conflict, got %q", out.Issue)
	}
}

func TestPersonNameAgreementIsClean(t *testing.T) {
	n, out := PersonName("John", "Smith", "Smith, John")
	if n.First != "John" || n.Last != "Smith" || out.Issue != "" {
		t.Fatalf("got %+v issue %q", n, out.Issue)
	}
}

func TestPersonNameCombinedOnly(t *testing.T) {
	n, out := PersonName("", "", "Smith, John")
	if n.First != "John" || n.Last != "Smith" || out.Issue != "" {
		t.Fatalf("got %+v issue %q", n, out.Issue)
	}
}

func TestClassesFiltersInvalid(t *testing.T) {
	valid, dropped, out := Classes("9,42,99", 1, 45)
	if len(valid) != 2 || valid[0] != 9 || valid[1] != 42 {
		t.Fatalf("valid = %v", valid)
	}
	if len(dropped) != 1 || dropped[0] != "99" {
		t.Fatalf("dropped = %v", dropped)
	}
	if out.Issue != "" {
		t.Fatalf("unexpected issue %q", out.Issue)
	}
}

func TestClassesDedupeAndSort(t *testing.T) {
	valid, dropped, _ := Classes("42; 9, 42  9", 1, 45)
	if len(valid) != 2 || valid[0] != 9 || valid[1] != 42 {
		t.Fatalf("valid = %v dropped = %v", valid, dropped)
	}
}

func TestClassesEmpty(t *testing.T) {
	valid, dropped, out := Classes("  ", 1, 45)
	if valid != nil || dropped != nil || out.Issue != record.IssueMissing {
		t.Fatalf("got %v %v issue %q", valid, dropped, out.Issue)
	}
}

func TestPhoneFormats(t *testing.T) {
	cases := map[string]string{
		"555-123-4567":      "(555) 123-4567",
		"(555) 123 4567":    "(555) 123-4567",
		"1-555-123-4567":    "+1 (555) 123-4567",
		"+44 20 7946 0958":  "+442079460958",
		"555.123.4567 x890": "+5551234567890",
	}
	for raw, want := range cases {
		got, out := Phone(raw)
		if got != want || out.Issue != "" {
			t.Fatalf("Phone(%q) = %q issue %q, want %q", raw, got, out.Issue, want)
		}
	}
}

func TestPhoneInvalidAndMissing(t *testing.T) {
	if got, out := Phone("12345"); got != "" || out.Issue != record.IssueInvalidPhone {
		t.Fatalf("short: got %q issue %q", got, out.Issue)
	}
	if got, out := Phone("000-000-0000"); got != "" || out.Issue != record.IssueMissing {
		t.Fatalf("sentinel: got %q issue %q", got, out.Issue)
	}
}

func TestEmailFixup(t *testing.T) {
	got, out := Email("John.Smith_at_Example.com")
	if got != "john.smith@example.com" || out.Issue != "" {
		t.Fatalf("got %q issue %q", got, out.Issue)
	}
	if out.Confidence >= 1 {
		t.Fatalf("fixup should lower confidence, got %v", out.Confidence)
	}
}

func TestEmailInvalid(t *testing.T) {
	got, out := Email("not-an-email")
	if got != "" || out.Issue != record.IssueInvalidEmail {
		t.Fatalf("got %q issue %q", got, out.Issue)
	}
}

func TestEnumVariants(t *testing.T) {
	table := config.Default().Statuses[string(record.EntityPatent)]
	for raw, want := range map[string]string{
		"Issued":            "granted",
		"under examination": "pending",
		"LAPSED":            "expired",
	} {
		got, out := Enum(raw, table)
		if got != want || out.Issue != "" {
			t.Fatalf("Enum(%q) = %q issue %q, want %q", raw, got, out.Issue, want)
		}
	}
}

func TestEnumUnparsed(t *testing.T) {
	got, out := Enum("quantum flux", config.Default().Priorities)
	if got != "" || out.Issue != record.IssueUnparsedEnum {
		t.Fatalf("got %q issue %q", got, out.Issue)
	}
}

func TestInventorsSplit(t *testing.T) {
	names := Inventors("Smith, John; Doe, Jane | Garcia, Maria")
	if len(names) != 3 {
		t.Fatalf("got %d names: %v", len(names), names)
	}
	if names[0].Last != "Smith" || names[1].First != "Jane" || names[2].Last != "Garcia" {
		t.Fatalf("got %v", names)
	}
}

func TestIPCClasses(t *testing.T) {
	got := IPCClasses("G06F 1/42;  H04L  9/06 ;")
	if len(got) != 2 || got[0] != "G06F 1/42" || got[1] != "H04L 9/06" {
		t.Fatalf("got %v", got)
	}
}

func TestNormalizersTotalOverAdversarialInput(t *testing.T) {
	inputs := []string{"", " ", "\x00", "\xff\xfe", "日本語", "𝔘𝔫𝔦𝔠𝔬𝔡𝔢", "a\tb\nc", "-", "N/A"}
	countries := config.Default().Countries
	for _, raw := range inputs {
		Clean(raw)
		Country(raw, countries)
		SplitName(raw)
		PersonName(raw, raw, raw)
		Classes(raw, 1, 45)
		Phone(raw)
		Email(raw)
		Enum(raw, config.Default().Priorities)
		Inventors(raw)
		IPCClasses(raw)
		Date(raw, false, 1900, 2050)
	}
}
