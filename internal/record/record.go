package record

import "fmt"

// EntityType identifies which legacy table a record came from and which
// normalized table it is destined for.
type EntityType string

const (
	EntityClient    EntityType = "client"
	EntityPatent    EntityType = "patent"
	EntityTrademark EntityType = "trademark"
	EntityCopyright EntityType = "copyright"
	EntityDeadline  EntityType = "deadline"
)

// EntityTypes lists every known entity type in processing order: clients
// first, then the matters that reference them, then deadlines that reference
// the matters.
var EntityTypes = []EntityType{
	EntityClient,
	EntityPatent,
	EntityTrademark,
	EntityCopyright,
	EntityDeadline,
}

func (e EntityType) Valid() bool {
	switch e {
	case EntityClient, EntityPatent, EntityTrademark, EntityCopyright, EntityDeadline:
		return true
	}
	return false
}

// RawRecord is one row from the legacy store, untouched. Exactly one of the
// entity variants is non-nil and it must match EntityType. Field values keep
// whatever the legacy system held, including placeholders like "N/A".
type RawRecord struct {
	EntityType  EntityType
	ExternalRef string

	Client    *RawClient
	Patent    *RawPatent
	Trademark *RawTrademark
	Copyright *RawCopyright
	Deadline  *RawDeadline
}

// MalformedRecordError marks a raw record that cannot enter normalization at
// all: no entity type or no external ref. It fails that one record, never the
// batch.
type MalformedRecordError struct {
	EntityType EntityType
	Reason     string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record (%s): %s", e.EntityType, e.Reason)
}

// CheckStructure rejects records that are structurally unusable before any
// field-level normalization runs.
func (r RawRecord) CheckStructure() error {
	if r.ExternalRef == "" {
		return &MalformedRecordError{EntityType: r.EntityType, Reason: "missing external_ref"}
	}
	if r.EntityType == "" {
		return &MalformedRecordError{Reason: "missing entity_type"}
	}
	var ok bool
	switch r.EntityType {
	case EntityClient:
		ok = r.Client != nil
	case EntityPatent:
		ok = r.Patent != nil
	case EntityTrademark:
		ok = r.Trademark != nil
	case EntityCopyright:
		ok = r.Copyright != nil
	case EntityDeadline:
		ok = r.Deadline != nil
	default:
		// Not a data defect: an entity type outside the dispatch table means
		// the extraction stage and this build disagree. Callers stop the
		// batch on it.
		return fmt.Errorf("unknown entity type %q", r.EntityType)
	}
	if !ok {
		return &MalformedRecordError{EntityType: r.EntityType, Reason: "missing entity payload"}
	}
	return nil
}

// RawClient mirrors the legacy clients.csv columns.
type RawClient struct {
	ClientName     string
	FirstName      string
	LastName       string
	CompanyName    string
	ClientType     string
	Email          string
	EmailSecondary string
	Phone          string
	PhoneMobile    string
	Fax            string
	AddressLine1   string
	AddressLine2   string
	City           string
	State          string
	PostalCode     string
	Country        string
	Status         string
	CreatedOn      string
}

// RawPatent mirrors the legacy patents.csv columns.
type RawPatent struct {
	ClientID          string
	Title             string
	ApplicationNumber string
	FilingDate        string
	PriorityDate      string
	PublicationDate   string
	GrantDate         string
	ExpiryDate        string
	Jurisdiction      string
	Status            string
	Inventors         string
	IPCClasses        string
	CreatedOn         string
}

// RawTrademark mirrors the legacy trademarks.csv columns.
type RawTrademark struct {
	ClientID             string
	MarkText             string
	MarkType             string
	NiceClasses          string
	FilingDate           string
	RegistrationDate     string
	FirstUseDate         string
	FirstUseCommerceDate string
	Jurisdiction         string
	Status               string
	CreatedOn            string
}

// RawCopyright mirrors the legacy copyrights.csv columns.
type RawCopyright struct {
	ClientID         string
	Title            string
	WorkType         string
	CreationDate     string
	RegistrationDate string
	Status           string
	CreatedOn        string
}

// RawDeadline mirrors the legacy deadlines.csv columns.
type RawDeadline struct {
	RelatedType   string
	RelatedID     string
	ClientID      string
	DeadlineType  string
	DueDate       string
	Description   string
	Priority      string
	Status        string
	CompletedDate string
	CreatedOn     string
}
