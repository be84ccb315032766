package record

import (
	"fmt"
	"time"
)

// ISODate is a calendar date in ISO-8601 form (YYYY-MM-DD). The zero value
// means absent. Lexical order equals chronological order, which keeps the
// temporal rules cheap.
type ISODate string

func (d ISODate) IsZero() bool { return d == "" }

func (d ISODate) After(o ISODate) bool {
	return d != "" && o != "" && string(d) > string(o)
}

func (d ISODate) Time() (time.Time, error) {
	return time.Parse("2006-01-02", string(d))
}

// DateFromTime truncates a time to its calendar date.
func DateFromTime(t time.Time) ISODate {
	return ISODate(t.Format("2006-01-02"))
}

// AddYears shifts a date by whole years, used for expiry derivation. Feb 29
// lands on Mar 1 in non-leap years, matching time.Time semantics.
func (d ISODate) AddYears(n int) ISODate {
	t, err := d.Time()
	if err != nil {
		return ""
	}
	return DateFromTime(t.AddDate(n, 0, 0))
}

// Name is a canonical split personal name.
type Name struct {
	First string `json:"first_name"`
	Last  string `json:"last_name"`
}

func (n Name) IsZero() bool { return n.First == "" && n.Last == "" }

// ClientType is the closed client classification. Unresolvable legacy values
// stay empty and surface as an unparsed_enum issue instead of a guessed
// default.
type ClientType string

const (
	ClientIndividual ClientType = "individual"
	ClientCompany    ClientType = "company"
)

// MarkType is the closed trademark mark classification.
type MarkType string

const (
	MarkWord     MarkType = "word"
	MarkLogo     MarkType = "logo"
	MarkCombined MarkType = "combined"
	MarkDesign   MarkType = "design"
)

// Priority is the closed deadline priority scale.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Status is a canonical lifecycle status. The valid set depends on the entity
// type and is supplied by configuration, so Status itself is just the
// resolved token.
type Status string

// RelatedRef links a deadline to the matter it belongs to. Kind is restricted
// to entity types a deadline may reference.
type RelatedRef struct {
	Kind EntityType `json:"kind"`
	Ref  string     `json:"ref"`
}

func (r RelatedRef) IsZero() bool { return r.Kind == "" && r.Ref == "" }

func (r RelatedRef) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.Ref)
}

// NormalizedRecord is the typed, canonical form of one raw record. It always
// carries the same external ref and entity type as its source. Exactly one
// entity variant is non-nil.
type NormalizedRecord struct {
	EntityType  EntityType `json:"entity_type"`
	ExternalRef string     `json:"external_ref"`

	Client    *Client    `json:"client,omitempty"`
	Patent    *Patent    `json:"patent,omitempty"`
	Trademark *Trademark `json:"trademark,omitempty"`
	Copyright *Copyright `json:"copyright,omitempty"`
	Deadline  *Deadline  `json:"deadline,omitempty"`
}

type Client struct {
	Name           Name       `json:"name"`
	CompanyName    string     `json:"company_name,omitempty"`
	ClientType     ClientType `json:"client_type,omitempty"`
	Email          string     `json:"email,omitempty"`
	EmailSecondary string     `json:"email_secondary,omitempty"`
	Phone          string     `json:"phone,omitempty"`
	PhoneMobile    string     `json:"phone_mobile,omitempty"`
	Fax            string     `json:"fax,omitempty"`
	AddressLine1   string     `json:"address_line1,omitempty"`
	AddressLine2   string     `json:"address_line2,omitempty"`
	City           string     `json:"city,omitempty"`
	State          string     `json:"state,omitempty"`
	PostalCode     string     `json:"postal_code,omitempty"`
	CountryCode    string     `json:"country_code,omitempty"`
	Status         Status     `json:"status,omitempty"`
	CreatedOn      ISODate    `json:"created_on,omitempty"`
}

type Patent struct {
	ClientRef         string   `json:"client_ref,omitempty"`
	Title             string   `json:"title,omitempty"`
	ApplicationNumber string   `json:"application_number,omitempty"`
	FilingDate        ISODate  `json:"filing_date,omitempty"`
	PriorityDate      ISODate  `json:"priority_date,omitempty"`
	PublicationDate   ISODate  `json:"publication_date,omitempty"`
	GrantDate         ISODate  `json:"grant_date,omitempty"`
	ExpiryDate        ISODate  `json:"expiry_date,omitempty"`
	ExpiryDerived     bool     `json:"expiry_derived,omitempty"`
	Jurisdiction      string   `json:"jurisdiction,omitempty"`
	Status            Status   `json:"status,omitempty"`
	Inventors         []Name   `json:"inventors,omitempty"`
	IPCClasses        []string `json:"ipc_classes,omitempty"`
	CreatedOn         ISODate  `json:"created_on,omitempty"`
}

type Trademark struct {
	ClientRef            string   `json:"client_ref,omitempty"`
	MarkText             string   `json:"mark_text,omitempty"`
	MarkType             MarkType `json:"mark_type,omitempty"`
	NiceClasses          []int    `json:"nice_classes,omitempty"`
	FilingDate           ISODate  `json:"filing_date,omitempty"`
	RegistrationDate     ISODate  `json:"registration_date,omitempty"`
	FirstUseDate         ISODate  `json:"first_use_date,omitempty"`
	FirstUseCommerceDate ISODate  `json:"first_use_commerce_date,omitempty"`
	ExpiryDate           ISODate  `json:"expiry_date,omitempty"`
	ExpiryDerived        bool     `json:"expiry_derived,omitempty"`
	Jurisdiction         string   `json:"jurisdiction,omitempty"`
	Status               Status   `json:"status,omitempty"`
	CreatedOn            ISODate  `json:"created_on,omitempty"`
}

type Copyright struct {
	ClientRef        string  `json:"client_ref,omitempty"`
	Title            string  `json:"title,omitempty"`
	WorkType         string  `json:"work_type,omitempty"`
	CreationDate     ISODate `json:"creation_date,omitempty"`
	RegistrationDate ISODate `json:"registration_date,omitempty"`
	ExpiryDate       ISODate `json:"expiry_date,omitempty"`
	ExpiryDerived    bool    `json:"expiry_derived,omitempty"`
	Status           Status  `json:"status,omitempty"`
	CreatedOn        ISODate `json:"created_on,omitempty"`
}

type Deadline struct {
	ClientRef     string     `json:"client_ref,omitempty"`
	Related       RelatedRef `json:"related"`
	DeadlineType  string     `json:"deadline_type,omitempty"`
	DueDate       ISODate    `json:"due_date,omitempty"`
	Description   string     `json:"description,omitempty"`
	Priority      Priority   `json:"priority,omitempty"`
	Status        Status     `json:"status,omitempty"`
	CompletedDate ISODate    `json:"completed_date,omitempty"`
	CreatedOn     ISODate    `json:"created_on,omitempty"`
}
