package pipeline

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/record"
)

func fixedClock() time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
}

func newPipeline(shards int) *Pipeline {
	return New(Config{Tables: config.Default(), Shards: shards, Now: fixedClock})
}

func clientRecord(ref string) record.RawRecord {
	return record.RawRecord{
		EntityType:  record.EntityClient,
		ExternalRef: ref,
		Client: &record.RawClient{
			FirstName:  "Jane",
			LastName:   "Doe",
			ClientType: "individual",
			Email:      "jane@example.com",
			Phone:      "555-123-4567",
			Country:    "US",
			Status:     "active",
			CreatedOn:  "2021-07-15",
		},
	}
}

func patentRecord(ref, clientRef string) record.RawRecord {
	return record.RawRecord{
		EntityType:  record.EntityPatent,
		ExternalRef: ref,
		Patent: &record.RawPatent{
			ClientID:     clientRef,
			Title:        "Widget",
			FilingDate:   "2020-01-01",
			GrantDate:    "2022-06-01",
			Jurisdiction: "US",
			Status:       "granted",
		},
	}
}

func TestMalformedRecordDoesNotAbortBatch(t *testing.T) {
	var records []record.RawRecord
	for i := 0; i < 10; i++ {
		if i == 4 {
			// No external_ref: structurally unusable.
			records = append(records, record.RawRecord{
				EntityType: record.EntityClient,
				Client:     &record.RawClient{FirstName: "Ghost"},
			})
			continue
		}
		records = append(records, clientRecord(fmt.Sprintf("CL-%03d", i)))
	}

	res, err := newPipeline(3).Run(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Records) != 9 {
		t.Fatalf("got %d verdicts, want 9", len(res.Records))
	}
	if len(res.Failures) != 1 || res.Failures[0].Reason != "missing external_ref" {
		t.Fatalf("failures: %+v", res.Failures)
	}
	if res.Report.Overall.Records != 10 || res.Report.Overall.Malformed != 1 {
		t.Fatalf("report counts: %+v", res.Report.Overall)
	}
}

func TestUnknownEntityTypeAbortsBatch(t *testing.T) {
	records := []record.RawRecord{
		clientRecord("CL-001"),
		{EntityType: "license", ExternalRef: "LIC-001"},
	}
	if _, err := newPipeline(2).Run(context.Background(), records); err == nil {
		t.Fatal("expected a fatal error for an entity type outside the dispatch table")
	}
}

func TestBatchReferentialResolution(t *testing.T) {
	records := []record.RawRecord{
		clientRecord("CL-001"),
		patentRecord("PAT-001", "CL-001"),
		patentRecord("PAT-002", "CL-MISSING"),
	}
	res, err := newPipeline(1).Run(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	byRef := map[string]bool{}
	for _, pr := range res.Records {
		byRef[pr.Verdict.ExternalRef] = pr.Verdict.IsValid
	}
	if !byRef["PAT-001"] {
		t.Fatal("PAT-001 references a client in the batch and must be valid")
	}
	if byRef["PAT-002"] {
		t.Fatal("PAT-002 references a missing client and must be invalid")
	}
}

func TestShardCountDoesNotChangeReport(t *testing.T) {
	var records []record.RawRecord
	for i := 0; i < 30; i++ {
		records = append(records, clientRecord(fmt.Sprintf("CL-%03d", i)))
		records = append(records, patentRecord(fmt.Sprintf("PAT-%03d", i), fmt.Sprintf("CL-%03d", i)))
	}
	records[6].Client.CreatedOn = "03/02/2021"
	records[13].Patent.GrantDate = "2019-01-01" // before filing

	base, err := newPipeline(1).Run(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	for _, shards := range []int{2, 4, 7} {
		got, err := newPipeline(shards).Run(context.Background(), records)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(got.Report, base.Report) {
			t.Fatalf("%d shards changed the report:\n got %+v\nwant %+v", shards, got.Report, base.Report)
		}
	}
}

func TestOutputKeepsInputOrder(t *testing.T) {
	var records []record.RawRecord
	for i := 0; i < 12; i++ {
		records = append(records, clientRecord(fmt.Sprintf("CL-%03d", i)))
	}
	res, err := newPipeline(5).Run(context.Background(), records)
	if err != nil {
		t.Fatal(err)
	}
	for i, pr := range res.Records {
		want := fmt.Sprintf("CL-%03d", i)
		if pr.Verdict.ExternalRef != want {
			t.Fatalf("position %d holds %s, want %s", i, pr.Verdict.ExternalRef, want)
		}
	}
}

func TestCancelledContextStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var records []record.RawRecord
	for i := 0; i < 100; i++ {
		records = append(records, clientRecord(fmt.Sprintf("CL-%03d", i)))
	}
	if _, err := newPipeline(4).Run(ctx, records); err == nil {
		t.Fatal("expected context error")
	}
}
