// Package target is the load side of the migration: a SQLite schema for the
// normalized entities plus the run ledger. Upserts key on external_ref so
// re-running a migration converges instead of duplicating.
package target

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/joelkehle/ipms-migrate/internal/record"
	"github.com/joelkehle/ipms-migrate/internal/validate"
)

const schema = `
CREATE TABLE IF NOT EXISTS clients (
	external_ref    TEXT PRIMARY KEY,
	first_name      TEXT NOT NULL DEFAULT '',
	last_name       TEXT NOT NULL DEFAULT '',
	company_name    TEXT NOT NULL DEFAULT '',
	client_type     TEXT NOT NULL DEFAULT '',
	email           TEXT NOT NULL DEFAULT '',
	email_secondary TEXT NOT NULL DEFAULT '',
	phone           TEXT NOT NULL DEFAULT '',
	phone_mobile    TEXT NOT NULL DEFAULT '',
	fax             TEXT NOT NULL DEFAULT '',
	address_line1   TEXT NOT NULL DEFAULT '',
	address_line2   TEXT NOT NULL DEFAULT '',
	city            TEXT NOT NULL DEFAULT '',
	state           TEXT NOT NULL DEFAULT '',
	postal_code     TEXT NOT NULL DEFAULT '',
	country_code    TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT '',
	created_on      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS patents (
	external_ref       TEXT PRIMARY KEY,
	client_ref         TEXT NOT NULL DEFAULT '',
	title              TEXT NOT NULL DEFAULT '',
	application_number TEXT NOT NULL DEFAULT '',
	filing_date        TEXT NOT NULL DEFAULT '',
	priority_date      TEXT NOT NULL DEFAULT '',
	publication_date   TEXT NOT NULL DEFAULT '',
	grant_date         TEXT NOT NULL DEFAULT '',
	expiry_date        TEXT NOT NULL DEFAULT '',
	expiry_derived     INTEGER NOT NULL DEFAULT 0,
	jurisdiction       TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT '',
	inventors          TEXT NOT NULL DEFAULT '[]',
	ipc_classes        TEXT NOT NULL DEFAULT '[]',
	created_on         TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS trademarks (
	external_ref            TEXT PRIMARY KEY,
	client_ref              TEXT NOT NULL DEFAULT '',
	mark_text               TEXT NOT NULL DEFAULT '',
	mark_type               TEXT NOT NULL DEFAULT '',
	nice_classes            TEXT NOT NULL DEFAULT '[]',
	filing_date             TEXT NOT NULL DEFAULT '',
	registration_date       TEXT NOT NULL DEFAULT '',
	first_use_date          TEXT NOT NULL DEFAULT '',
	first_use_commerce_date TEXT NOT NULL DEFAULT '',
	expiry_date             TEXT NOT NULL DEFAULT '',
	expiry_derived          INTEGER NOT NULL DEFAULT 0,
	jurisdiction            TEXT NOT NULL DEFAULT '',
	status                  TEXT NOT NULL DEFAULT '',
	created_on              TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS copyrights (
	external_ref      TEXT PRIMARY KEY,
	client_ref        TEXT NOT NULL DEFAULT '',
	title             TEXT NOT NULL DEFAULT '',
	work_type         TEXT NOT NULL DEFAULT '',
	creation_date     TEXT NOT NULL DEFAULT '',
	registration_date TEXT NOT NULL DEFAULT '',
	expiry_date       TEXT NOT NULL DEFAULT '',
	expiry_derived    INTEGER NOT NULL DEFAULT 0,
	status            TEXT NOT NULL DEFAULT '',
	created_on        TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS deadlines (
	external_ref   TEXT PRIMARY KEY,
	client_ref     TEXT NOT NULL DEFAULT '',
	related_kind   TEXT NOT NULL DEFAULT '',
	related_ref    TEXT NOT NULL DEFAULT '',
	deadline_type  TEXT NOT NULL DEFAULT '',
	due_date       TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	priority       TEXT NOT NULL DEFAULT '',
	status         TEXT NOT NULL DEFAULT '',
	completed_date TEXT NOT NULL DEFAULT '',
	created_on     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS verdicts (
	run_id       TEXT NOT NULL,
	entity_type  TEXT NOT NULL,
	external_ref TEXT NOT NULL,
	is_valid     INTEGER NOT NULL,
	violations   TEXT NOT NULL DEFAULT '[]',
	field_issues TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (run_id, entity_type, external_ref)
);

CREATE TABLE IF NOT EXISTS migration_runs (
	run_id        TEXT PRIMARY KEY,
	status        TEXT NOT NULL DEFAULT 'running',
	started_at    TEXT NOT NULL,
	finished_at   TEXT NOT NULL DEFAULT '',
	overall_score REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS migration_row_counts (
	run_id     TEXT NOT NULL,
	table_name TEXT NOT NULL,
	inserted   INTEGER NOT NULL DEFAULT 0,
	updated    INTEGER NOT NULL DEFAULT 0,
	failed     INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (run_id, table_name)
);
`

// Counts is the per-table ledger entry for one run.
type Counts struct {
	Inserted int
	Updated  int
	Failed   int
}

// Store is a SQLite-backed target database.
type Store struct {
	db *sqlx.DB
}

func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// TableFor maps an entity type to its target table.
func TableFor(entity record.EntityType) string {
	return string(entity) + "s"
}

// BeginRun opens a ledger row in the running state.
func (s *Store) BeginRun(runID string, startedAt time.Time) error {
	_, err := s.db.Exec(`INSERT INTO migration_runs (run_id, status, started_at) VALUES (?, 'running', ?)`,
		runID, timeToString(startedAt))
	return err
}

// FinishRun closes the ledger row and writes the per-table counts.
func (s *Store) FinishRun(runID, status string, finishedAt time.Time, overallScore float64, counts map[string]Counts) error {
	if _, err := s.db.Exec(`UPDATE migration_runs SET status = ?, finished_at = ?, overall_score = ? WHERE run_id = ?`,
		status, timeToString(finishedAt), overallScore, runID); err != nil {
		return err
	}
	for table, c := range counts {
		if _, err := s.db.Exec(`INSERT OR REPLACE INTO migration_row_counts (run_id, table_name, inserted, updated, failed)
			VALUES (?, ?, ?, ?, ?)`,
			runID, table, c.Inserted, c.Updated, c.Failed); err != nil {
			return err
		}
	}
	return nil
}

// Upsert writes one normalized record, keyed by external_ref. The bool
// reports whether the row was newly inserted (false means updated).
func (s *Store) Upsert(rec record.NormalizedRecord) (bool, error) {
	table := TableFor(rec.EntityType)
	var n int
	if err := s.db.Get(&n, fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE external_ref = ?", table), rec.ExternalRef); err != nil {
		return false, fmt.Errorf("lookup %s %q: %w", table, rec.ExternalRef, err)
	}
	inserted := n == 0

	var err error
	switch rec.EntityType {
	case record.EntityClient:
		err = s.upsertClient(rec.ExternalRef, rec.Client)
	case record.EntityPatent:
		err = s.upsertPatent(rec.ExternalRef, rec.Patent)
	case record.EntityTrademark:
		err = s.upsertTrademark(rec.ExternalRef, rec.Trademark)
	case record.EntityCopyright:
		err = s.upsertCopyright(rec.ExternalRef, rec.Copyright)
	case record.EntityDeadline:
		err = s.upsertDeadline(rec.ExternalRef, rec.Deadline)
	default:
		err = fmt.Errorf("no target table for entity type %q", rec.EntityType)
	}
	if err != nil {
		return false, err
	}
	return inserted, nil
}

func (s *Store) upsertClient(ref string, c *record.Client) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO clients (external_ref, first_name, last_name, company_name,
		client_type, email, email_secondary, phone, phone_mobile, fax,
		address_line1, address_line2, city, state, postal_code, country_code, status, created_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref, c.Name.First, c.Name.Last, c.CompanyName,
		string(c.ClientType), c.Email, c.EmailSecondary, c.Phone, c.PhoneMobile, c.Fax,
		c.AddressLine1, c.AddressLine2, c.City, c.State, c.PostalCode, c.CountryCode,
		string(c.Status), string(c.CreatedOn),
	)
	return err
}

func (s *Store) upsertPatent(ref string, p *record.Patent) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO patents (external_ref, client_ref, title, application_number,
		filing_date, priority_date, publication_date, grant_date, expiry_date, expiry_derived,
		jurisdiction, status, inventors, ipc_classes, created_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref, p.ClientRef, p.Title, p.ApplicationNumber,
		string(p.FilingDate), string(p.PriorityDate), string(p.PublicationDate),
		string(p.GrantDate), string(p.ExpiryDate), boolToInt(p.ExpiryDerived),
		p.Jurisdiction, string(p.Status), marshalJSON(p.Inventors), marshalJSON(p.IPCClasses),
		string(p.CreatedOn),
	)
	return err
}

func (s *Store) upsertTrademark(ref string, t *record.Trademark) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO trademarks (external_ref, client_ref, mark_text, mark_type,
		nice_classes, filing_date, registration_date, first_use_date, first_use_commerce_date,
		expiry_date, expiry_derived, jurisdiction, status, created_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref, t.ClientRef, t.MarkText, string(t.MarkType),
		marshalJSON(t.NiceClasses), string(t.FilingDate), string(t.RegistrationDate),
		string(t.FirstUseDate), string(t.FirstUseCommerceDate),
		string(t.ExpiryDate), boolToInt(t.ExpiryDerived), t.Jurisdiction,
		string(t.Status), string(t.CreatedOn),
	)
	return err
}

func (s *Store) upsertCopyright(ref string, c *record.Copyright) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO copyrights (external_ref, client_ref, title, work_type,
		creation_date, registration_date, expiry_date, expiry_derived, status, created_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref, c.ClientRef, c.Title, c.WorkType,
		string(c.CreationDate), string(c.RegistrationDate),
		string(c.ExpiryDate), boolToInt(c.ExpiryDerived),
		string(c.Status), string(c.CreatedOn),
	)
	return err
}

func (s *Store) upsertDeadline(ref string, d *record.Deadline) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO deadlines (external_ref, client_ref, related_kind, related_ref,
		deadline_type, due_date, description, priority, status, completed_date, created_on)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ref, d.ClientRef, string(d.Related.Kind), d.Related.Ref,
		d.DeadlineType, string(d.DueDate), d.Description, string(d.Priority),
		string(d.Status), string(d.CompletedDate), string(d.CreatedOn),
	)
	return err
}

// SaveVerdict keeps the full audit trail for a run.
func (s *Store) SaveVerdict(runID string, v validate.Verdict) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO verdicts (run_id, entity_type, external_ref, is_valid, violations, field_issues)
		VALUES (?, ?, ?, ?, ?, ?)`,
		runID, string(v.EntityType), v.ExternalRef, boolToInt(v.IsValid),
		marshalJSON(v.Violations), marshalJSON(v.FieldIssues),
	)
	return err
}

// RunCounts reads the ledger back for one run.
func (s *Store) RunCounts(runID string) (map[string]Counts, error) {
	rows, err := s.db.Query(`SELECT table_name, inserted, updated, failed FROM migration_row_counts WHERE run_id = ?`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]Counts{}
	for rows.Next() {
		var table string
		var c Counts
		if err := rows.Scan(&table, &c.Inserted, &c.Updated, &c.Failed); err != nil {
			return nil, err
		}
		out[table] = c
	}
	return out, rows.Err()
}

func timeToString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func marshalJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
