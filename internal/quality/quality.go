// Package quality folds validation verdicts into completeness, accuracy and
// consistency scores per entity type and batch-wide. The fold keeps only
// integer counters, so accumulation is associative and commutative: shards
// processed in parallel merge into the same report regardless of order.
package quality

import (
	"math"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/record"
	"github.com/joelkehle/ipms-migrate/internal/validate"
)

// Scores is the finalized quality block for one entity type or the whole
// batch. Scores are 0-100, rounded to one decimal.
type Scores struct {
	Completeness float64 `json:"completeness_score"`
	Accuracy     float64 `json:"accuracy_score"`
	Consistency  float64 `json:"consistency_score"`
	Overall      float64 `json:"overall_score"`

	Records   int `json:"records"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Malformed int `json:"malformed"`
}

// Report is the immutable result of finalizing an accumulator.
type Report struct {
	PerEntity map[record.EntityType]Scores `json:"per_entity"`
	Overall   Scores                       `json:"overall"`
}

// bucket holds the raw counters for one entity type. Everything is an
// integer sum, so merging buckets is plain addition.
type bucket struct {
	records        int
	valid          int
	invalid        int
	malformed      int
	fieldsExpected int
	fieldsPresent  int
	errorRecords   int
	warningRecords int
}

func (b *bucket) merge(o *bucket) {
	b.records += o.records
	b.valid += o.valid
	b.invalid += o.invalid
	b.malformed += o.malformed
	b.fieldsExpected += o.fieldsExpected
	b.fieldsPresent += o.fieldsPresent
	b.errorRecords += o.errorRecords
	b.warningRecords += o.warningRecords
}

// Accumulator builds a quality report incrementally. It is not safe for
// concurrent use; run one per shard and Merge.
type Accumulator struct {
	weights config.ScoreWeights
	buckets map[record.EntityType]*bucket
}

func NewAccumulator(weights config.ScoreWeights) *Accumulator {
	return &Accumulator{
		weights: weights,
		buckets: map[record.EntityType]*bucket{},
	}
}

func (a *Accumulator) bucket(entity record.EntityType) *bucket {
	b := a.buckets[entity]
	if b == nil {
		b = &bucket{}
		a.buckets[entity] = b
	}
	return b
}

// Fold adds one verdict. fieldsExpected and fieldsPresent come from the
// transform stage and feed the completeness score.
func (a *Accumulator) Fold(v validate.Verdict, fieldsExpected, fieldsPresent int) {
	b := a.bucket(v.EntityType)
	b.records++
	if v.IsValid {
		b.valid++
	} else {
		b.invalid++
	}
	b.fieldsExpected += fieldsExpected
	b.fieldsPresent += fieldsPresent

	var hasError, hasWarning bool
	for _, viol := range v.Violations {
		switch viol.Severity {
		case record.SeverityError:
			hasError = true
		case record.SeverityWarning:
			hasWarning = true
		}
	}
	for _, issue := range v.FieldIssues {
		if issue.Severity == record.SeverityWarning {
			hasWarning = true
		}
	}
	if hasError {
		b.errorRecords++
	}
	if hasWarning {
		b.warningRecords++
	}
}

// FoldMalformed records a structural failure: the record never produced a
// verdict but still counts against the run.
func (a *Accumulator) FoldMalformed(entity record.EntityType) {
	b := a.bucket(entity)
	b.records++
	b.malformed++
	b.errorRecords++
}

// Merge absorbs another accumulator, typically from a parallel shard.
func (a *Accumulator) Merge(o *Accumulator) {
	for entity, ob := range o.buckets {
		a.bucket(entity).merge(ob)
	}
}

// Finalize computes the report. It reads the counters without mutating them,
// so finalizing twice yields the same report.
func (a *Accumulator) Finalize() Report {
	report := Report{PerEntity: map[record.EntityType]Scores{}}

	total := &bucket{}
	for entity, b := range a.buckets {
		report.PerEntity[entity] = a.score(b)
		total.merge(b)
	}
	report.Overall = a.score(total)
	return report
}

func (a *Accumulator) score(b *bucket) Scores {
	s := Scores{
		Records:   b.records,
		Valid:     b.valid,
		Invalid:   b.invalid,
		Malformed: b.malformed,
	}
	if b.records == 0 {
		return s
	}

	completeness := ratio(b.fieldsPresent, b.fieldsExpected) * 100
	accuracy := (1 - ratio(b.errorRecords, b.records)) * 100
	// Consistency looks only at records that produced a verdict; malformed
	// ones already count fully against accuracy.
	consistency := (1 - ratio(b.warningRecords, b.records-b.malformed)) * 100

	overall := a.weights.Completeness*completeness +
		a.weights.Accuracy*accuracy +
		a.weights.Consistency*consistency

	s.Completeness = round1(completeness)
	s.Accuracy = round1(accuracy)
	s.Consistency = round1(consistency)
	s.Overall = round1(overall)
	return s
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
