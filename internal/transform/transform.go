// Package transform applies the field normalizers to raw legacy records and
// assembles typed normalized records plus field-level issues. A transform
// never fails on dirty data; at worst every field normalizes to absent with a
// full issue list.
package transform

import (
	"fmt"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/normalize"
	"github.com/joelkehle/ipms-migrate/internal/record"
)

// Result is the output of transforming one raw record. FieldsExpected and
// FieldsPresent feed the completeness score: expected counts the business
// fields the target schema wants for the entity type, present counts those
// that normalized to a non-absent value.
type Result struct {
	Record         record.NormalizedRecord `json:"record"`
	Issues         []record.FieldIssue     `json:"issues,omitempty"`
	FieldsExpected int                     `json:"fields_expected"`
	FieldsPresent  int                     `json:"fields_present"`
}

// Transformer dispatches raw records to per-entity transforms. It holds only
// read-only lookup tables and is safe for concurrent use.
type Transformer struct {
	tables *config.Tables
}

func New(tables *config.Tables) *Transformer {
	return &Transformer{tables: tables}
}

// Transform normalizes one raw record. The only error it can return is an
// unknown entity type, which is a configuration defect rather than a data
// defect: callers should stop the batch on it, not skid past it.
func (t *Transformer) Transform(raw record.RawRecord) (Result, error) {
	switch raw.EntityType {
	case record.EntityClient:
		return t.transformClient(raw), nil
	case record.EntityPatent:
		return t.transformPatent(raw), nil
	case record.EntityTrademark:
		return t.transformTrademark(raw), nil
	case record.EntityCopyright:
		return t.transformCopyright(raw), nil
	case record.EntityDeadline:
		return t.transformDeadline(raw), nil
	default:
		return Result{}, fmt.Errorf("no transform registered for entity type %q", raw.EntityType)
	}
}

// collector accumulates field issues during one transform.
type collector struct {
	issues []record.FieldIssue
}

func (c *collector) record(field, raw, normalized string, out normalize.Outcome) {
	if out.Issue == "" {
		return
	}
	c.issues = append(c.issues, record.NewFieldIssue(field, raw, normalized, out.Issue))
}

func (c *collector) add(issue record.FieldIssue) {
	c.issues = append(c.issues, issue)
}

// date runs the date normalizer with the record's day-order policy and files
// any issue under the given field name.
func (t *Transformer) date(c *collector, field, raw string, dayFirst bool) record.ISODate {
	d, out := normalize.Date(raw, dayFirst, t.tables.MinYear, t.tables.MaxYear)
	c.record(field, raw, string(d), out)
	return d
}

func (t *Transformer) country(c *collector, field, raw string) string {
	code, out := normalize.Country(raw, t.tables.Countries)
	c.record(field, raw, code, out)
	return code
}

func (t *Transformer) phone(c *collector, field, raw string) string {
	p, out := normalize.Phone(raw)
	c.record(field, raw, p, out)
	return p
}

func (t *Transformer) email(c *collector, field, raw string) string {
	e, out := normalize.Email(raw)
	c.record(field, raw, e, out)
	return e
}

// emailOptional is email without the missing issue: absence of an optional
// contact field is not a data-quality finding.
func (t *Transformer) emailOptional(c *collector, field, raw string) string {
	e, out := normalize.Email(raw)
	if out.Issue != record.IssueMissing {
		c.record(field, raw, e, out)
	}
	return e
}

func (t *Transformer) phoneOptional(c *collector, field, raw string) string {
	p, out := normalize.Phone(raw)
	if out.Issue != record.IssueMissing {
		c.record(field, raw, p, out)
	}
	return p
}

func (t *Transformer) enum(c *collector, field, raw string, table map[string][]string) string {
	v, out := normalize.Enum(raw, table)
	c.record(field, raw, v, out)
	return v
}

func (t *Transformer) status(c *collector, entity record.EntityType, raw string) record.Status {
	return record.Status(t.enum(c, "status", raw, t.tables.Statuses[string(entity)]))
}

// dayFirst derives the slash-date tie-break policy from the record's
// jurisdiction signal: month-first for US records, day-first otherwise.
func dayFirst(countryCode string) bool {
	return countryCode != "US"
}

func countPresent(fields ...bool) (expected, present int) {
	expected = len(fields)
	for _, ok := range fields {
		if ok {
			present++
		}
	}
	return expected, present
}
