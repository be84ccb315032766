// Package legacy extracts RawRecords from the legacy system's CSV exports.
// The exports carry far more columns than the migration consumes; extraction
// picks the mapped ones by header name and ignores the rest, so schema drift
// in unmapped columns never breaks a run.
package legacy

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joelkehle/ipms-migrate/internal/record"
)

// entityFiles maps each entity type to its export file, in processing order.
var entityFiles = []struct {
	entity record.EntityType
	name   string
}{
	{record.EntityClient, "clients.csv"},
	{record.EntityPatent, "patents.csv"},
	{record.EntityTrademark, "trademarks.csv"},
	{record.EntityCopyright, "copyrights.csv"},
	{record.EntityDeadline, "deadlines.csv"},
}

// LoadDir reads every known export file under dir. Missing files are
// skipped: partial exports are normal (the mock generator, for one, never
// writes copyrights.csv).
func LoadDir(dir string) ([]record.RawRecord, error) {
	var out []record.RawRecord
	for _, ef := range entityFiles {
		path := filepath.Join(dir, ef.name)
		f, err := os.Open(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", ef.name, err)
		}
		records, err := Read(f, ef.entity)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", ef.name, err)
		}
		out = append(out, records...)
	}
	return out, nil
}

// Read parses one export stream into raw records of the given entity type.
func Read(r io.Reader, entity record.EntityType) ([]record.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, name := range header {
		cols[name] = i
	}

	var out []record.RawRecord
	for line := 2; ; line++ {
		rowFields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		get := func(col string) string {
			i, ok := cols[col]
			if !ok || i >= len(rowFields) {
				return ""
			}
			return rowFields[i]
		}
		out = append(out, fromRow(entity, get))
	}
	return out, nil
}

func fromRow(entity record.EntityType, get func(string) string) record.RawRecord {
	switch entity {
	case record.EntityClient:
		return record.RawRecord{
			EntityType:  entity,
			ExternalRef: get("client_id"),
			Client: &record.RawClient{
				ClientName:     get("client_name"),
				FirstName:      get("first_name"),
				LastName:       get("last_name"),
				CompanyName:    get("company_name"),
				ClientType:     get("client_type"),
				Email:          get("email"),
				EmailSecondary: get("email_secondary"),
				Phone:          get("phone"),
				PhoneMobile:    get("phone_mobile"),
				Fax:            get("fax"),
				AddressLine1:   get("address_line1"),
				AddressLine2:   get("address_line2"),
				City:           get("city"),
				State:          get("state_province"),
				PostalCode:     get("postal_code"),
				Country:        get("country"),
				Status:         get("status"),
				CreatedOn:      get("created_on"),
			},
		}
	case record.EntityPatent:
		return record.RawRecord{
			EntityType:  entity,
			ExternalRef: get("patent_id"),
			Patent: &record.RawPatent{
				ClientID:          get("client_id"),
				Title:             get("title"),
				ApplicationNumber: get("application_number"),
				FilingDate:        get("filing_date"),
				PriorityDate:      get("priority_date"),
				PublicationDate:   get("publication_date"),
				GrantDate:         get("grant_date"),
				ExpiryDate:        get("expiry_date"),
				Jurisdiction:      get("jurisdiction"),
				Status:            get("status"),
				Inventors:         get("inventors"),
				IPCClasses:        get("ipc_classes"),
				CreatedOn:         get("created_on"),
			},
		}
	case record.EntityTrademark:
		return record.RawRecord{
			EntityType:  entity,
			ExternalRef: get("tm_id"),
			Trademark: &record.RawTrademark{
				ClientID:             get("client_id"),
				MarkText:             get("mark_text"),
				MarkType:             get("mark_type"),
				NiceClasses:          get("nice_classes"),
				FilingDate:           get("filing_date"),
				RegistrationDate:     get("registration_date"),
				FirstUseDate:         get("first_use_date"),
				FirstUseCommerceDate: get("first_use_commerce_date"),
				Jurisdiction:         get("jurisdiction"),
				Status:               get("status"),
				CreatedOn:            get("created_on"),
			},
		}
	case record.EntityCopyright:
		return record.RawRecord{
			EntityType:  entity,
			ExternalRef: get("cr_id"),
			Copyright: &record.RawCopyright{
				ClientID:         get("client_id"),
				Title:            get("title"),
				WorkType:         get("work_type"),
				CreationDate:     get("creation_date"),
				RegistrationDate: get("registration_date"),
				Status:           get("status"),
				CreatedOn:        get("created_on"),
			},
		}
	default:
		return record.RawRecord{
			EntityType:  entity,
			ExternalRef: get("deadline_id"),
			Deadline: &record.RawDeadline{
				RelatedType:   get("related_type"),
				RelatedID:     get("related_id"),
				ClientID:      get("client_id"),
				DeadlineType:  get("deadline_type"),
				DueDate:       get("due_date"),
				Description:   get("description"),
				Priority:      get("priority"),
				Status:        get("status"),
				CompletedDate: get("completed_date"),
				CreatedOn:     get("created_on"),
			},
		}
	}
}
