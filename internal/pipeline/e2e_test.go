package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/legacy"
	"github.com/joelkehle/ipms-migrate/internal/pipeline"
	"github.com/joelkehle/ipms-migrate/internal/report"
	"github.com/joelkehle/ipms-migrate/internal/target"
)

// Exercises the full path a migration run takes: CSV exports on disk,
// extraction, transform + validate + score, load into the SQLite target,
// and the markdown report.
func TestEndToEndMigration(t *testing.T) {
	legacyDir := t.TempDir()

	// One malformed client row (no client_id) among otherwise clean data.
	writeFixture(t, legacyDir, "clients.csv", strings.Join([]string{
		"client_id,client_name,first_name,last_name,company_name,client_type,email,phone,address_line1,city,state_province,postal_code,country,created_on,status",
		`CL-0001,"Smith, John",John,Smith,,individual,john.smith@example.com,555-123-4567,123 Main St,Springfield,CA,90210,USA,2020-01-15,active`,
		`,"Doe, Jane",Jane,Doe,,individual,jane.doe@example.com,555-987-6543,9 Oak Ave,Portland,OR,97201,USA,2020-02-01,active`,
	}, "\n"))
	writeFixture(t, legacyDir, "patents.csv", strings.Join([]string{
		"patent_id,client_id,title,inventors,application_number,filing_date,grant_date,jurisdiction,status,created_on",
		`PAT-0001,CL-0001,Method for sealing valves,"Smith, John",US12345678,2015-03-15,2018-06-01,USA,granted,2020-01-20`,
	}, "\n"))
	writeFixture(t, legacyDir, "deadlines.csv", strings.Join([]string{
		"deadline_id,related_type,related_id,client_id,deadline_type,due_date,description,priority,status,created_on",
		`DL-0001,patent,PAT-0001,CL-0001,annuity,2026-01-15,Annuity payment due,high,pending,2024-03-01`,
	}, "\n"))

	records, err := legacy.LoadDir(legacyDir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("extracted %d records, want 4", len(records))
	}

	now := func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	p := pipeline.New(pipeline.Config{Tables: config.Default(), Now: now})
	result, err := p.Run(context.Background(), records)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("got %d processed records, want 3", len(result.Records))
	}
	if len(result.Failures) != 1 {
		t.Fatalf("got %d failures, want 1", len(result.Failures))
	}
	overall := result.Report.Overall
	if overall.Records != 4 || overall.Malformed != 1 {
		t.Errorf("overall counts = %d records / %d malformed, want 4 / 1", overall.Records, overall.Malformed)
	}
	for _, pr := range result.Records {
		if !pr.Verdict.IsValid {
			t.Errorf("%s %s unexpectedly invalid: %v",
				pr.Verdict.EntityType, pr.Verdict.ExternalRef, pr.Verdict.Violations)
		}
	}

	// Load into the target and read the run ledger back.
	store, err := target.Open(filepath.Join(t.TempDir(), "target.db"))
	if err != nil {
		t.Fatalf("open target: %v", err)
	}
	defer store.Close()

	if err := store.BeginRun(result.RunID, result.StartedAt); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	counts := map[string]target.Counts{}
	for _, pr := range result.Records {
		table := target.TableFor(pr.Verdict.EntityType)
		inserted, err := store.Upsert(pr.Result.Record)
		if err != nil {
			t.Fatalf("Upsert %s: %v", pr.Verdict.ExternalRef, err)
		}
		if !inserted {
			t.Errorf("Upsert %s reported update on a fresh database", pr.Verdict.ExternalRef)
		}
		c := counts[table]
		c.Inserted++
		counts[table] = c
		if err := store.SaveVerdict(result.RunID, pr.Verdict); err != nil {
			t.Fatalf("SaveVerdict %s: %v", pr.Verdict.ExternalRef, err)
		}
	}
	if err := store.FinishRun(result.RunID, "success", result.FinishedAt, overall.Overall, counts); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}
	got, err := store.RunCounts(result.RunID)
	if err != nil {
		t.Fatalf("RunCounts: %v", err)
	}
	if got["clients"].Inserted != 1 || got["patents"].Inserted != 1 || got["deadlines"].Inserted != 1 {
		t.Errorf("run ledger counts = %+v", got)
	}

	markdown := report.BuildMarkdown(result)
	for _, want := range []string{
		"# Migration Quality Report",
		"Executive Summary",
		result.RunID,
		"Structural Failures",
	} {
		if !strings.Contains(markdown, want) {
			t.Errorf("markdown report missing %q", want)
		}
	}
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content+"\n"), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
