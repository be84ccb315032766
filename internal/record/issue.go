package record

// Severity grades how bad an issue or rule violation is. Only error-severity
// validation violations flip a verdict to invalid.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// IssueKind classifies why a field could not be cleanly normalized. The set
// is closed; anything the normalizers cannot express here is a programming
// error, not a new kind.
type IssueKind string

const (
	IssueMissing               IssueKind = "missing"
	IssueAmbiguousDate         IssueKind = "ambiguous_date"
	IssueInvalidDate           IssueKind = "invalid_date"
	IssueOutOfRangeDate        IssueKind = "out_of_range_date"
	IssueUnknownCountry        IssueKind = "unknown_country"
	IssueNameConflict          IssueKind = "name_conflict"
	IssueInvalidClassification IssueKind = "invalid_classification"
	IssueInvalidPhone          IssueKind = "invalid_phone"
	IssueInvalidEmail          IssueKind = "invalid_email"
	IssueUnparsedEnum          IssueKind = "unparsed_enum"
	IssueStatusConflict        IssueKind = "status_conflict"
)

// Severity maps an issue kind to its fixed severity. Missing values only
// affect completeness; every other kind counts against consistency.
func (k IssueKind) Severity() Severity {
	if k == IssueMissing {
		return SeverityInfo
	}
	return SeverityWarning
}

// FieldIssue records one field that did not normalize cleanly. A field that
// normalizes cleanly produces no issue; a field that fails produces exactly
// one.
type FieldIssue struct {
	Field      string    `json:"field_name"`
	RawValue   string    `json:"raw_value"`
	Normalized string    `json:"normalized_value,omitempty"`
	Kind       IssueKind `json:"issue_kind"`
	Severity   Severity  `json:"severity"`
}

// NewFieldIssue builds an issue with the severity implied by its kind.
func NewFieldIssue(field, raw, normalized string, kind IssueKind) FieldIssue {
	return FieldIssue{
		Field:      field,
		RawValue:   raw,
		Normalized: normalized,
		Kind:       kind,
		Severity:   kind.Severity(),
	}
}
