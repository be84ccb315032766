package target

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/joelkehle/ipms-migrate/internal/record"
	"github.com/joelkehle/ipms-migrate/internal/validate"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "target.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleClient(ref string) record.NormalizedRecord {
	return record.NormalizedRecord{
		EntityType:  record.EntityClient,
		ExternalRef: ref,
		Client: &record.Client{
			Name:        record.Name{First: "Jane", Last: "Doe"},
			ClientType:  record.ClientIndividual,
			Email:       "jane@example.com",
			CountryCode: "US",
			Status:      "active",
			CreatedOn:   "2021-07-15",
		},
	}
}

func TestUpsertInsertThenUpdate(t *testing.T) {
	s := openStore(t)

	inserted, err := s.Upsert(sampleClient("CL-001"))
	if err != nil {
		t.Fatal(err)
	}
	if !inserted {
		t.Fatal("first upsert must insert")
	}

	again := sampleClient("CL-001")
	again.Client.Email = "jane.doe@example.com"
	inserted, err = s.Upsert(again)
	if err != nil {
		t.Fatal(err)
	}
	if inserted {
		t.Fatal("second upsert must update")
	}

	var email string
	if err := s.db.Get(&email, "SELECT email FROM clients WHERE external_ref = ?", "CL-001"); err != nil {
		t.Fatal(err)
	}
	if email != "jane.doe@example.com" {
		t.Fatalf("email = %q", email)
	}

	var n int
	if err := s.db.Get(&n, "SELECT COUNT(*) FROM clients"); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("row count = %d, want 1", n)
	}
}

func TestUpsertPatentRoundTrip(t *testing.T) {
	s := openStore(t)
	_, err := s.Upsert(record.NormalizedRecord{
		EntityType:  record.EntityPatent,
		ExternalRef: "PAT-001",
		Patent: &record.Patent{
			ClientRef:     "CL-001",
			Title:         "Self-sealing valve",
			FilingDate:    "2015-06-01",
			ExpiryDate:    "2035-06-01",
			ExpiryDerived: true,
			Jurisdiction:  "US",
			Status:        "granted",
			Inventors:     []record.Name{{First: "John", Last: "Smith"}},
			IPCClasses:    []string{"G06F 1/42"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	var row struct {
		Title         string `db:"title"`
		ExpiryDerived int    `db:"expiry_derived"`
		Inventors     string `db:"inventors"`
	}
	if err := s.db.Get(&row, "SELECT title, expiry_derived, inventors FROM patents WHERE external_ref = ?", "PAT-001"); err != nil {
		t.Fatal(err)
	}
	if row.Title != "Self-sealing valve" || row.ExpiryDerived != 1 {
		t.Fatalf("row: %+v", row)
	}
	if row.Inventors != `[{"first_name":"John","last_name":"Smith"}]` {
		t.Fatalf("inventors: %s", row.Inventors)
	}
}

func TestRunLedger(t *testing.T) {
	s := openStore(t)
	started := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := s.BeginRun("run-1", started); err != nil {
		t.Fatal(err)
	}
	counts := map[string]Counts{
		"clients": {Inserted: 10, Updated: 2, Failed: 1},
		"patents": {Inserted: 4},
	}
	if err := s.FinishRun("run-1", "success", started.Add(time.Minute), 87.5, counts); err != nil {
		t.Fatal(err)
	}

	got, err := s.RunCounts("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if got["clients"] != (Counts{Inserted: 10, Updated: 2, Failed: 1}) || got["patents"] != (Counts{Inserted: 4}) {
		t.Fatalf("counts: %+v", got)
	}

	var status string
	var score float64
	row := s.db.QueryRow("SELECT status, overall_score FROM migration_runs WHERE run_id = ?", "run-1")
	if err := row.Scan(&status, &score); err != nil {
		t.Fatal(err)
	}
	if status != "success" || score != 87.5 {
		t.Fatalf("run row: %s %v", status, score)
	}
}

func TestSaveVerdict(t *testing.T) {
	s := openStore(t)
	v := validate.Verdict{
		EntityType:  record.EntityPatent,
		ExternalRef: "PAT-001",
		IsValid:     false,
		Violations: []validate.Violation{
			{RuleID: "patent/filing-before-grant", Message: "filing after grant", Severity: record.SeverityError},
		},
	}
	if err := s.SaveVerdict("run-1", v); err != nil {
		t.Fatal(err)
	}

	var isValid int
	var violations string
	row := s.db.QueryRow("SELECT is_valid, violations FROM verdicts WHERE run_id = ? AND external_ref = ?", "run-1", "PAT-001")
	if err := row.Scan(&isValid, &violations); err != nil {
		t.Fatal(err)
	}
	if isValid != 0 || violations == "[]" {
		t.Fatalf("got %d %s", isValid, violations)
	}
}
