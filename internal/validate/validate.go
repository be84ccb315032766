// Package validate applies schema constraints and business rules to
// normalized records. Rules are independent: every applicable rule runs and
// every violation is collected, so a verdict shows the full damage rather
// than the first failure.
package validate

import (
	"fmt"
	"time"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/record"
)

// Violation is one business-rule failure. RuleID is stable and user-visible;
// audits and dashboards group by it.
type Violation struct {
	RuleID   string          `json:"rule_id"`
	Message  string          `json:"message"`
	Severity record.Severity `json:"severity"`
}

// Verdict is the validator's full judgment of one record. IsValid is true
// exactly when no error-severity violation is present; warnings and info
// never invalidate.
type Verdict struct {
	EntityType  record.EntityType   `json:"entity_type"`
	ExternalRef string              `json:"external_ref"`
	IsValid     bool                `json:"is_valid"`
	Violations  []Violation         `json:"rule_violations,omitempty"`
	FieldIssues []record.FieldIssue `json:"field_issues,omitempty"`
}

// ReferenceResolver answers whether a referenced entity exists. The
// persistence layer or the batch itself supplies one; a nil resolver disables
// referential rules.
type ReferenceResolver interface {
	Exists(kind record.EntityType, ref string) bool
}

// ResolverFunc adapts a function to ReferenceResolver.
type ResolverFunc func(kind record.EntityType, ref string) bool

func (f ResolverFunc) Exists(kind record.EntityType, ref string) bool { return f(kind, ref) }

// BatchResolver resolves references against the records seen in the current
// batch. Not safe for concurrent mutation; build it fully before validating.
type BatchResolver struct {
	seen map[record.EntityType]map[string]bool
}

func NewBatchResolver() *BatchResolver {
	return &BatchResolver{seen: map[record.EntityType]map[string]bool{}}
}

func (b *BatchResolver) Add(kind record.EntityType, ref string) {
	if ref == "" {
		return
	}
	m := b.seen[kind]
	if m == nil {
		m = map[string]bool{}
		b.seen[kind] = m
	}
	m[ref] = true
}

func (b *BatchResolver) Exists(kind record.EntityType, ref string) bool {
	return b.seen[kind][ref]
}

// Validator evaluates all rules for a record. It holds only read-only state
// and is safe for concurrent use.
type Validator struct {
	tables *config.Tables
	refs   ReferenceResolver
	now    func() time.Time
}

func New(tables *config.Tables, refs ReferenceResolver) *Validator {
	return NewWithClock(tables, refs, time.Now)
}

// NewWithClock fixes the "today" the past-due rule compares against, keeping
// batch scores reproducible.
func NewWithClock(tables *config.Tables, refs ReferenceResolver, now func() time.Time) *Validator {
	return &Validator{tables: tables, refs: refs, now: now}
}

// Validate runs every applicable rule and returns the collected verdict. The
// transform-stage field issues ride along unchanged.
func (v *Validator) Validate(rec record.NormalizedRecord, issues []record.FieldIssue) Verdict {
	var vs []Violation
	switch rec.EntityType {
	case record.EntityClient:
		vs = v.validateClient(rec.Client)
	case record.EntityPatent:
		vs = v.validatePatent(rec.Patent)
	case record.EntityTrademark:
		vs = v.validateTrademark(rec.Trademark)
	case record.EntityCopyright:
		vs = v.validateCopyright(rec.Copyright)
	case record.EntityDeadline:
		vs = v.validateDeadline(rec.Deadline)
	}

	valid := true
	for _, viol := range vs {
		if viol.Severity == record.SeverityError {
			valid = false
			break
		}
	}

	return Verdict{
		EntityType:  rec.EntityType,
		ExternalRef: rec.ExternalRef,
		IsValid:     valid,
		Violations:  vs,
		FieldIssues: issues,
	}
}

func errorV(ruleID, msg string) Violation {
	return Violation{RuleID: ruleID, Message: msg, Severity: record.SeverityError}
}

func warnV(ruleID, msg string) Violation {
	return Violation{RuleID: ruleID, Message: msg, Severity: record.SeverityWarning}
}

func (v *Validator) statusRules(entity record.EntityType, status record.Status, out []Violation) []Violation {
	prefix := string(entity)
	if status == "" {
		return append(out, errorV(prefix+"/status-required", "status is missing or could not be resolved"))
	}
	if !v.tables.ValidStatuses(entity)[string(status)] {
		return append(out, errorV(prefix+"/status-domain",
			fmt.Sprintf("status %q is not a valid %s status", status, entity)))
	}
	return out
}

// clientRef checks the client linkage shared by every matter entity.
func (v *Validator) clientRef(entity record.EntityType, ref string, out []Violation) []Violation {
	prefix := string(entity)
	if ref == "" {
		return append(out, errorV(prefix+"/client-required", "record has no client reference"))
	}
	if v.refs != nil && !v.refs.Exists(record.EntityClient, ref) {
		return append(out, errorV(prefix+"/client-unresolved",
			fmt.Sprintf("client reference %q does not resolve", ref)))
	}
	return out
}

func (v *Validator) validateClient(c *record.Client) []Violation {
	var out []Violation

	switch c.ClientType {
	case record.ClientIndividual:
		if c.Name.First == "" || c.Name.Last == "" {
			out = append(out, errorV("client/person-name-required",
				"individual client requires both first and last name"))
		}
	case record.ClientCompany:
		if c.CompanyName == "" {
			out = append(out, errorV("client/company-name-required",
				"company client requires a company name"))
		}
	default:
		out = append(out, warnV("client/type-unresolved",
			"client type did not resolve to individual or company"))
		if c.Name.IsZero() && c.CompanyName == "" {
			out = append(out, errorV("client/name-required",
				"client has neither a person name nor a company name"))
		}
	}

	if c.Email == "" && c.Phone == "" {
		out = append(out, warnV("client/contact-missing", "client has no email and no phone"))
	}
	if c.CountryCode == "" {
		out = append(out, warnV("client/country-missing", "client country did not resolve"))
	}

	return v.statusRules(record.EntityClient, c.Status, out)
}

func (v *Validator) validatePatent(p *record.Patent) []Violation {
	var out []Violation
	out = v.clientRef(record.EntityPatent, p.ClientRef, out)

	if p.Title == "" {
		out = append(out, errorV("patent/title-required", "patent has no title"))
	}
	if p.FilingDate.IsZero() {
		out = append(out, errorV("patent/filing-required", "patent has no filing date"))
	}

	if p.PriorityDate.After(p.FilingDate) {
		out = append(out, errorV("patent/priority-before-filing",
			fmt.Sprintf("priority date %s is after filing date %s", p.PriorityDate, p.FilingDate)))
	}
	if p.FilingDate.After(p.PublicationDate) {
		out = append(out, errorV("patent/filing-before-publication",
			fmt.Sprintf("filing date %s is after publication date %s", p.FilingDate, p.PublicationDate)))
	}
	if p.FilingDate.After(p.GrantDate) {
		out = append(out, errorV("patent/filing-before-grant",
			fmt.Sprintf("filing date %s is after grant date %s", p.FilingDate, p.GrantDate)))
	}
	if p.GrantDate.After(p.ExpiryDate) {
		out = append(out, warnV("patent/grant-before-expiry",
			fmt.Sprintf("grant date %s is after expiry date %s", p.GrantDate, p.ExpiryDate)))
	}

	if p.Status == "granted" && p.GrantDate.IsZero() {
		out = append(out, warnV("patent/grant-date-missing", "granted patent has no grant date"))
	}

	return v.statusRules(record.EntityPatent, p.Status, out)
}

func (v *Validator) validateTrademark(t *record.Trademark) []Violation {
	var out []Violation
	out = v.clientRef(record.EntityTrademark, t.ClientRef, out)

	if t.MarkText == "" {
		out = append(out, errorV("trademark/mark-text-required", "trademark has no mark text"))
	}
	if t.MarkType == "" {
		out = append(out, warnV("trademark/mark-type-unresolved",
			"mark type did not resolve to a known kind"))
	}
	if len(t.NiceClasses) == 0 {
		out = append(out, warnV("trademark/classes-missing",
			"trademark has no valid Nice classes"))
	}
	for _, cls := range t.NiceClasses {
		if cls < v.tables.NiceClassMin || cls > v.tables.NiceClassMax {
			out = append(out, errorV("trademark/class-domain",
				fmt.Sprintf("Nice class %d is outside %d-%d", cls, v.tables.NiceClassMin, v.tables.NiceClassMax)))
		}
	}

	if t.FilingDate.After(t.RegistrationDate) {
		out = append(out, errorV("trademark/filing-before-registration",
			fmt.Sprintf("filing date %s is after registration date %s", t.FilingDate, t.RegistrationDate)))
	}
	if t.FirstUseDate.After(t.FirstUseCommerceDate) {
		out = append(out, errorV("trademark/first-use-order",
			fmt.Sprintf("first use date %s is after first use in commerce %s", t.FirstUseDate, t.FirstUseCommerceDate)))
	}

	if t.Status == "registered" && t.RegistrationDate.IsZero() {
		out = append(out, warnV("trademark/registration-date-missing",
			"registered trademark has no registration date"))
	}

	return v.statusRules(record.EntityTrademark, t.Status, out)
}

func (v *Validator) validateCopyright(c *record.Copyright) []Violation {
	var out []Violation
	out = v.clientRef(record.EntityCopyright, c.ClientRef, out)

	if c.Title == "" {
		out = append(out, errorV("copyright/title-required", "copyright has no title"))
	}
	if c.CreationDate.After(c.RegistrationDate) {
		out = append(out, errorV("copyright/creation-before-registration",
			fmt.Sprintf("creation date %s is after registration date %s", c.CreationDate, c.RegistrationDate)))
	}
	if c.WorkType == "" {
		out = append(out, warnV("copyright/work-type-missing", "copyright has no work type"))
	}

	return v.statusRules(record.EntityCopyright, c.Status, out)
}

func (v *Validator) validateDeadline(d *record.Deadline) []Violation {
	var out []Violation
	out = v.clientRef(record.EntityDeadline, d.ClientRef, out)

	if d.Related.Kind == "" || d.Related.Ref == "" {
		out = append(out, errorV("deadline/related-required",
			"deadline does not reference a matter"))
	} else if v.refs != nil && !v.refs.Exists(d.Related.Kind, d.Related.Ref) {
		out = append(out, errorV("deadline/related-unresolved",
			fmt.Sprintf("related %s %q does not resolve", d.Related.Kind, d.Related.Ref)))
	}

	if d.DueDate.IsZero() {
		out = append(out, errorV("deadline/due-date-required", "deadline has no due date"))
	}
	if d.Priority == "" {
		out = append(out, warnV("deadline/priority-unresolved",
			"priority did not resolve to the known scale"))
	}

	if d.Status == "completed" && d.CompletedDate.IsZero() {
		out = append(out, warnV("deadline/completed-date-missing",
			"completed deadline has no completion date"))
	}
	if d.Status == "pending" && !d.DueDate.IsZero() {
		if today := record.DateFromTime(v.now()); today.After(d.DueDate) {
			out = append(out, warnV("deadline/past-due",
				fmt.Sprintf("pending deadline was due %s", d.DueDate)))
		}
	}

	return v.statusRules(record.EntityDeadline, d.Status, out)
}
