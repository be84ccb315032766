package transform

import (
	"strings"

	"github.com/joelkehle/ipms-migrate/internal/normalize"
	"github.com/joelkehle/ipms-migrate/internal/record"
)

func (t *Transformer) transformClient(raw record.RawRecord) Result {
	c := &collector{}
	in := raw.Client

	countryCode := t.country(c, "country", in.Country)
	df := dayFirst(countryCode)

	clientType := record.ClientType(t.enum(c, "client_type", in.ClientType, t.tables.ClientTypes))
	companyName := normalize.Clean(in.CompanyName)

	// Company records carry the company name in client_name with empty
	// split fields; running the person-name split on those would invent a
	// first/last pair out of "TechCorp Inc".
	var name record.Name
	if clientType == record.ClientCompany {
		if companyName == "" {
			companyName = normalize.Clean(in.ClientName)
		}
		name, _ = normalize.PersonName(in.FirstName, in.LastName, "")
	} else {
		var nameOut normalize.Outcome
		name, nameOut = normalize.PersonName(in.FirstName, in.LastName, in.ClientName)
		c.record("client_name", in.ClientName, name.First+" "+name.Last, nameOut)
	}

	out := record.Client{
		Name:           name,
		CompanyName:    companyName,
		ClientType:     clientType,
		Email:          t.email(c, "email", in.Email),
		EmailSecondary: t.emailOptional(c, "email_secondary", in.EmailSecondary),
		Phone:          t.phone(c, "phone", in.Phone),
		PhoneMobile:    t.phoneOptional(c, "phone_mobile", in.PhoneMobile),
		Fax:            t.phoneOptional(c, "fax", in.Fax),
		AddressLine1:   normalize.Clean(in.AddressLine1),
		AddressLine2:   normalize.Clean(in.AddressLine2),
		City:           normalize.Clean(in.City),
		State:          normalize.Clean(in.State),
		PostalCode:     normalize.Clean(in.PostalCode),
		CountryCode:    countryCode,
		Status:         t.status(c, record.EntityClient, in.Status),
		CreatedOn:      t.date(c, "created_on", in.CreatedOn, df),
	}

	nameOK := !out.Name.IsZero() || out.CompanyName != ""
	expected, present := countPresent(
		nameOK,
		out.ClientType != "",
		out.Email != "",
		out.Phone != "",
		out.CountryCode != "",
		out.Status != "",
	)

	return Result{
		Record: record.NormalizedRecord{
			EntityType:  record.EntityClient,
			ExternalRef: raw.ExternalRef,
			Client:      &out,
		},
		Issues:         c.issues,
		FieldsExpected: expected,
		FieldsPresent:  present,
	}
}

func (t *Transformer) transformPatent(raw record.RawRecord) Result {
	c := &collector{}
	in := raw.Patent

	jurisdiction := t.country(c, "jurisdiction", in.Jurisdiction)
	df := dayFirst(jurisdiction)

	out := record.Patent{
		ClientRef:         normalize.Clean(in.ClientID),
		Title:             normalize.Clean(in.Title),
		ApplicationNumber: normalize.Clean(in.ApplicationNumber),
		FilingDate:        t.date(c, "filing_date", in.FilingDate, df),
		PriorityDate:      t.date(c, "priority_date", in.PriorityDate, df),
		PublicationDate:   t.date(c, "publication_date", in.PublicationDate, df),
		GrantDate:         t.date(c, "grant_date", in.GrantDate, df),
		ExpiryDate:        t.date(c, "expiry_date", in.ExpiryDate, df),
		Jurisdiction:      jurisdiction,
		Status:            t.status(c, record.EntityPatent, in.Status),
		Inventors:         normalize.Inventors(in.Inventors),
		IPCClasses:        normalize.IPCClasses(in.IPCClasses),
		CreatedOn:         t.date(c, "created_on", in.CreatedOn, df),
	}

	// A granted date on a still-pending record is flagged, never used to
	// rewrite the status: correction policy is flag, don't mutate.
	if !out.GrantDate.IsZero() && out.Status == "pending" {
		c.add(record.NewFieldIssue("status", in.Status, string(out.Status), record.IssueStatusConflict))
	}

	// Patent term: 20 years from filing when the legacy expiry is absent.
	if out.ExpiryDate.IsZero() && !out.FilingDate.IsZero() {
		out.ExpiryDate = out.FilingDate.AddYears(20)
		out.ExpiryDerived = true
	}

	expected, present := countPresent(
		out.ClientRef != "",
		out.Title != "",
		!out.FilingDate.IsZero(),
		out.Jurisdiction != "",
		out.Status != "",
	)

	return Result{
		Record: record.NormalizedRecord{
			EntityType:  record.EntityPatent,
			ExternalRef: raw.ExternalRef,
			Patent:      &out,
		},
		Issues:         c.issues,
		FieldsExpected: expected,
		FieldsPresent:  present,
	}
}

func (t *Transformer) transformTrademark(raw record.RawRecord) Result {
	c := &collector{}
	in := raw.Trademark

	jurisdiction := t.country(c, "jurisdiction", in.Jurisdiction)
	df := dayFirst(jurisdiction)

	classes, dropped, clsOut := normalize.Classes(in.NiceClasses, t.tables.NiceClassMin, t.tables.NiceClassMax)
	c.record("nice_classes", in.NiceClasses, "", clsOut)
	for _, d := range dropped {
		c.add(record.NewFieldIssue("nice_classes", d, "", record.IssueInvalidClassification))
	}

	out := record.Trademark{
		ClientRef:            normalize.Clean(in.ClientID),
		MarkText:             normalize.Clean(in.MarkText),
		MarkType:             record.MarkType(t.enum(c, "mark_type", in.MarkType, t.tables.MarkTypes)),
		NiceClasses:          classes,
		FilingDate:           t.date(c, "filing_date", in.FilingDate, df),
		RegistrationDate:     t.date(c, "registration_date", in.RegistrationDate, df),
		FirstUseDate:         t.date(c, "first_use_date", in.FirstUseDate, df),
		FirstUseCommerceDate: t.date(c, "first_use_commerce_date", in.FirstUseCommerceDate, df),
		Jurisdiction:         jurisdiction,
		Status:               t.status(c, record.EntityTrademark, in.Status),
		CreatedOn:            t.date(c, "created_on", in.CreatedOn, df),
	}

	if !out.RegistrationDate.IsZero() && out.Status == "pending" {
		c.add(record.NewFieldIssue("status", in.Status, string(out.Status), record.IssueStatusConflict))
	}

	// Trademark registrations run 10 years from filing.
	if out.ExpiryDate.IsZero() && !out.FilingDate.IsZero() {
		out.ExpiryDate = out.FilingDate.AddYears(10)
		out.ExpiryDerived = true
	}

	expected, present := countPresent(
		out.ClientRef != "",
		out.MarkText != "",
		out.MarkType != "",
		len(out.NiceClasses) > 0,
		!out.FilingDate.IsZero(),
		out.Jurisdiction != "",
		out.Status != "",
	)

	return Result{
		Record: record.NormalizedRecord{
			EntityType:  record.EntityTrademark,
			ExternalRef: raw.ExternalRef,
			Trademark:   &out,
		},
		Issues:         c.issues,
		FieldsExpected: expected,
		FieldsPresent:  present,
	}
}

func (t *Transformer) transformCopyright(raw record.RawRecord) Result {
	c := &collector{}
	in := raw.Copyright

	// Copyright records carry no jurisdiction column; the legacy system was
	// US-based, so slash dates read month-first.
	const df = false

	out := record.Copyright{
		ClientRef:        normalize.Clean(in.ClientID),
		Title:            normalize.Clean(in.Title),
		WorkType:         normalize.Clean(in.WorkType),
		CreationDate:     t.date(c, "creation_date", in.CreationDate, df),
		RegistrationDate: t.date(c, "registration_date", in.RegistrationDate, df),
		Status:           t.status(c, record.EntityCopyright, in.Status),
		CreatedOn:        t.date(c, "created_on", in.CreatedOn, df),
	}

	if !out.RegistrationDate.IsZero() && out.Status == "pending" {
		c.add(record.NewFieldIssue("status", in.Status, string(out.Status), record.IssueStatusConflict))
	}

	// Corporate works: 95 years from creation.
	if out.ExpiryDate.IsZero() && !out.CreationDate.IsZero() {
		out.ExpiryDate = out.CreationDate.AddYears(95)
		out.ExpiryDerived = true
	}

	expected, present := countPresent(
		out.ClientRef != "",
		out.Title != "",
		out.WorkType != "",
		!out.CreationDate.IsZero(),
		out.Status != "",
	)

	return Result{
		Record: record.NormalizedRecord{
			EntityType:  record.EntityCopyright,
			ExternalRef: raw.ExternalRef,
			Copyright:   &out,
		},
		Issues:         c.issues,
		FieldsExpected: expected,
		FieldsPresent:  present,
	}
}

// relatedKinds maps legacy related_type spellings to entity kinds.
var relatedKinds = map[string]record.EntityType{
	"patent":     record.EntityPatent,
	"patents":    record.EntityPatent,
	"trademark":  record.EntityTrademark,
	"trademarks": record.EntityTrademark,
	"tm":         record.EntityTrademark,
	"copyright":  record.EntityCopyright,
	"copyrights": record.EntityCopyright,
}

func (t *Transformer) transformDeadline(raw record.RawRecord) Result {
	c := &collector{}
	in := raw.Deadline

	const df = false // deadlines have no jurisdiction signal; see copyright

	related := record.RelatedRef{Ref: normalize.Clean(in.RelatedID)}
	relType := normalize.Clean(in.RelatedType)
	if kind, ok := relatedKinds[strings.ToLower(relType)]; ok {
		related.Kind = kind
	} else if relType != "" {
		c.add(record.NewFieldIssue("related_type", in.RelatedType, "", record.IssueUnparsedEnum))
	} else {
		c.add(record.NewFieldIssue("related_type", in.RelatedType, "", record.IssueMissing))
	}

	out := record.Deadline{
		ClientRef:     normalize.Clean(in.ClientID),
		Related:       related,
		DeadlineType:  normalize.Clean(in.DeadlineType),
		DueDate:       t.date(c, "due_date", in.DueDate, df),
		Description:   normalize.Clean(in.Description),
		Priority:      record.Priority(t.enum(c, "priority", in.Priority, t.tables.Priorities)),
		Status:        t.status(c, record.EntityDeadline, in.Status),
		CompletedDate: t.date(c, "completed_date", in.CompletedDate, df),
		CreatedOn:     t.date(c, "created_on", in.CreatedOn, df),
	}

	expected, present := countPresent(
		out.ClientRef != "",
		out.Related.Kind != "" && out.Related.Ref != "",
		out.DeadlineType != "",
		!out.DueDate.IsZero(),
		out.Description != "",
		out.Priority != "",
		out.Status != "",
	)

	return Result{
		Record: record.NormalizedRecord{
			EntityType:  record.EntityDeadline,
			ExternalRef: raw.ExternalRef,
			Deadline:    &out,
		},
		Issues:         c.issues,
		FieldsExpected: expected,
		FieldsPresent:  present,
	}
}
