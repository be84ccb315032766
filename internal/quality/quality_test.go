package quality

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/record"
	"github.com/joelkehle/ipms-migrate/internal/validate"
)

func weights() config.ScoreWeights { return config.Default().Weights }

func cleanVerdict(entity record.EntityType, ref string) validate.Verdict {
	return validate.Verdict{EntityType: entity, ExternalRef: ref, IsValid: true}
}

func TestAllCleanBatchScoresHundred(t *testing.T) {
	acc := NewAccumulator(weights())
	for i := 0; i < 5; i++ {
		acc.Fold(cleanVerdict(record.EntityClient, "CL"), 6, 6)
		acc.Fold(cleanVerdict(record.EntityPatent, "PAT"), 5, 5)
	}
	rep := acc.Finalize()
	for _, s := range []Scores{rep.Overall, rep.PerEntity[record.EntityClient], rep.PerEntity[record.EntityPatent]} {
		if s.Completeness != 100 || s.Accuracy != 100 || s.Consistency != 100 || s.Overall != 100 {
			t.Fatalf("all-clean batch must score 100 everywhere, got %+v", s)
		}
	}
	if rep.Overall.Records != 10 || rep.Overall.Valid != 10 {
		t.Fatalf("counts: %+v", rep.Overall)
	}
}

func TestScoreBounds(t *testing.T) {
	acc := NewAccumulator(weights())
	acc.Fold(validate.Verdict{
		EntityType: record.EntityClient, IsValid: false,
		Violations: []validate.Violation{{RuleID: "client/name-required", Severity: record.SeverityError}},
	}, 6, 0)
	acc.FoldMalformed(record.EntityClient)
	acc.Fold(validate.Verdict{
		EntityType: record.EntityClient, IsValid: true,
		FieldIssues: []record.FieldIssue{record.NewFieldIssue("created_on", "03/02/2021", "2021-03-02", record.IssueAmbiguousDate)},
	}, 6, 5)
	s := acc.Finalize().Overall
	for _, v := range []float64{s.Completeness, s.Accuracy, s.Consistency, s.Overall} {
		if v < 0 || v > 100 {
			t.Fatalf("score out of bounds: %+v", s)
		}
	}
	if s.Malformed != 1 || s.Invalid != 1 || s.Valid != 1 || s.Records != 3 {
		t.Fatalf("counts: %+v", s)
	}
}

func TestAccuracyCountsErrorRecords(t *testing.T) {
	acc := NewAccumulator(weights())
	for i := 0; i < 9; i++ {
		acc.Fold(cleanVerdict(record.EntityPatent, "PAT"), 5, 5)
	}
	acc.Fold(validate.Verdict{
		EntityType: record.EntityPatent, IsValid: false,
		Violations: []validate.Violation{{RuleID: "patent/filing-before-grant", Severity: record.SeverityError}},
	}, 5, 5)
	s := acc.Finalize().PerEntity[record.EntityPatent]
	if s.Accuracy != 90 {
		t.Fatalf("accuracy = %v, want 90", s.Accuracy)
	}
	if s.Completeness != 100 || s.Consistency != 100 {
		t.Fatalf("unrelated scores moved: %+v", s)
	}
}

func TestConsistencyCountsWarningRecords(t *testing.T) {
	acc := NewAccumulator(weights())
	acc.Fold(validate.Verdict{
		EntityType: record.EntityClient, IsValid: true,
		FieldIssues: []record.FieldIssue{record.NewFieldIssue("client_name", "x", "y", record.IssueNameConflict)},
	}, 6, 6)
	acc.Fold(cleanVerdict(record.EntityClient, "CL-2"), 6, 6)
	s := acc.Finalize().PerEntity[record.EntityClient]
	if s.Consistency != 50 {
		t.Fatalf("consistency = %v, want 50", s.Consistency)
	}
	if s.Accuracy != 100 {
		t.Fatalf("warnings must not hit accuracy: %+v", s)
	}
}

func TestMissingFieldsHitOnlyCompleteness(t *testing.T) {
	acc := NewAccumulator(weights())
	acc.Fold(validate.Verdict{
		EntityType: record.EntityClient, IsValid: true,
		FieldIssues: []record.FieldIssue{record.NewFieldIssue("email", "", "", record.IssueMissing)},
	}, 6, 3)
	s := acc.Finalize().PerEntity[record.EntityClient]
	if s.Completeness != 50 {
		t.Fatalf("completeness = %v, want 50", s.Completeness)
	}
	if s.Accuracy != 100 || s.Consistency != 100 {
		t.Fatalf("missing fields are info severity only: %+v", s)
	}
}

func TestFoldOrderIndependent(t *testing.T) {
	verdicts := make([]validate.Verdict, 0, 40)
	for i := 0; i < 40; i++ {
		v := cleanVerdict(record.EntityTrademark, "TM")
		switch i % 4 {
		case 1:
			v.IsValid = false
			v.Violations = []validate.Violation{{RuleID: "trademark/mark-text-required", Severity: record.SeverityError}}
		case 2:
			v.FieldIssues = []record.FieldIssue{record.NewFieldIssue("filing_date", "03/02/2021", "2021-03-02", record.IssueAmbiguousDate)}
		}
		verdicts = append(verdicts, v)
	}

	fold := func(order []int) Report {
		acc := NewAccumulator(weights())
		for _, i := range order {
			acc.Fold(verdicts[i], 7, 6)
		}
		return acc.Finalize()
	}

	order := make([]int, len(verdicts))
	for i := range order {
		order[i] = i
	}
	want := fold(order)

	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 5; trial++ {
		rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		if got := fold(order); !reflect.DeepEqual(got, want) {
			t.Fatalf("fold order changed the report:\n got %+v\nwant %+v", got, want)
		}
	}
}

func TestMergeMatchesSingleAccumulator(t *testing.T) {
	mk := func(n int, entity record.EntityType) []validate.Verdict {
		out := make([]validate.Verdict, n)
		for i := range out {
			out[i] = cleanVerdict(entity, "X")
		}
		return out
	}
	all := append(mk(7, record.EntityClient), mk(5, record.EntityDeadline)...)

	single := NewAccumulator(weights())
	for _, v := range all {
		single.Fold(v, 6, 5)
	}

	left := NewAccumulator(weights())
	right := NewAccumulator(weights())
	for i, v := range all {
		if i%2 == 0 {
			left.Fold(v, 6, 5)
		} else {
			right.Fold(v, 6, 5)
		}
	}
	left.Merge(right)

	if !reflect.DeepEqual(left.Finalize(), single.Finalize()) {
		t.Fatal("merged shards disagree with sequential fold")
	}
}

func TestFinalizeIdempotent(t *testing.T) {
	acc := NewAccumulator(weights())
	acc.Fold(cleanVerdict(record.EntityCopyright, "CR"), 5, 4)
	acc.FoldMalformed(record.EntityCopyright)
	first := acc.Finalize()
	second := acc.Finalize()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("finalize mutated the accumulator:\n%+v\n%+v", first, second)
	}
}
