// Package pipeline orchestrates a full batch: structural checks, transform,
// validate, score. Records are processed in parallel shards; per-record
// failures are isolated, and only configuration defects abort a batch.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/metrics"
	"github.com/joelkehle/ipms-migrate/internal/quality"
	"github.com/joelkehle/ipms-migrate/internal/record"
	"github.com/joelkehle/ipms-migrate/internal/transform"
	"github.com/joelkehle/ipms-migrate/internal/validate"
)

// Failure is one record that never produced a verdict: it was rejected
// before normalization.
type Failure struct {
	EntityType  record.EntityType `json:"entity_type"`
	ExternalRef string            `json:"external_ref"`
	Reason      string            `json:"reason"`
}

// ProcessedRecord pairs a transformed record with its verdict. The slice in
// BatchResult keeps input order.
type ProcessedRecord struct {
	Result  transform.Result `json:"result"`
	Verdict validate.Verdict `json:"verdict"`
}

// BatchResult is everything one run produced. The load stage consumes
// Records; the reporting stage consumes Report; Failures feed the run ledger.
type BatchResult struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Records  []ProcessedRecord `json:"records"`
	Failures []Failure         `json:"failures,omitempty"`
	Report   quality.Report    `json:"report"`
}

// Config wires a Pipeline. Tables is required; everything else has a
// default.
type Config struct {
	Tables  *config.Tables
	Metrics *metrics.Metrics // nil disables metric emission
	Shards  int              // parallel workers, default GOMAXPROCS
	Now     func() time.Time // validator clock, default time.Now
}

type Pipeline struct {
	tables      *config.Tables
	transformer *transform.Transformer
	metrics     *metrics.Metrics
	shards      int
	now         func() time.Time
}

func New(cfg Config) *Pipeline {
	shards := cfg.Shards
	if shards <= 0 {
		shards = runtime.GOMAXPROCS(0)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		tables:      cfg.Tables,
		transformer: transform.New(cfg.Tables),
		metrics:     cfg.Metrics,
		shards:      shards,
		now:         now,
	}
}

// slot holds the per-record outcome of the transform phase, indexed by input
// position so output order is stable regardless of shard scheduling.
type slot struct {
	malformed *record.MalformedRecordError
	raw       record.RawRecord
	result    transform.Result
	ok        bool
}

// Run processes one batch end to end. The returned error is non-nil only for
// configuration defects (unknown entity type, cancelled context); dirty data
// never fails a run.
func (p *Pipeline) Run(ctx context.Context, records []record.RawRecord) (BatchResult, error) {
	res := BatchResult{
		RunID:     uuid.NewString(),
		StartedAt: p.now(),
	}

	slots := make([]slot, len(records))
	if err := p.transformPhase(ctx, records, slots); err != nil {
		return res, err
	}

	// Referential rules resolve against what this batch actually carries, so
	// the resolver is built only after every record has transformed.
	resolver := validate.NewBatchResolver()
	for i := range slots {
		if slots[i].ok {
			rec := slots[i].result.Record
			resolver.Add(rec.EntityType, rec.ExternalRef)
		}
	}
	validator := validate.NewWithClock(p.tables, resolver, p.now)

	acc, err := p.validatePhase(ctx, slots, validator, &res)
	if err != nil {
		return res, err
	}

	res.Report = acc.Finalize()
	res.FinishedAt = p.now()
	if p.metrics != nil {
		p.metrics.ObserveBatchDuration(res.FinishedAt.Sub(res.StartedAt).Seconds())
	}
	return res, nil
}

func (p *Pipeline) transformPhase(ctx context.Context, records []record.RawRecord, slots []slot) error {
	g, ctx := errgroup.WithContext(ctx)
	for shard := 0; shard < p.shards; shard++ {
		g.Go(func() error {
			for i := shard; i < len(records); i += p.shards {
				if err := ctx.Err(); err != nil {
					return err
				}
				raw := records[i]
				slots[i].raw = raw

				if err := raw.CheckStructure(); err != nil {
					var malformed *record.MalformedRecordError
					if errors.As(err, &malformed) {
						slots[i].malformed = malformed
						continue
					}
					return fmt.Errorf("record %d: %w", i, err)
				}

				result, err := p.transformer.Transform(raw)
				if err != nil {
					return fmt.Errorf("record %d (%s): %w", i, raw.ExternalRef, err)
				}
				slots[i].result = result
				slots[i].ok = true
			}
			return nil
		})
	}
	return g.Wait()
}

func (p *Pipeline) validatePhase(ctx context.Context, slots []slot, validator *validate.Validator, res *BatchResult) (*quality.Accumulator, error) {
	type shardOut struct {
		acc      *quality.Accumulator
		verdicts map[int]validate.Verdict
	}

	outs := make([]shardOut, p.shards)
	g, ctx := errgroup.WithContext(ctx)
	for shard := 0; shard < p.shards; shard++ {
		g.Go(func() error {
			out := shardOut{
				acc:      quality.NewAccumulator(p.tables.Weights),
				verdicts: map[int]validate.Verdict{},
			}
			for i := shard; i < len(slots); i += p.shards {
				if err := ctx.Err(); err != nil {
					return err
				}
				s := &slots[i]
				if s.malformed != nil {
					out.acc.FoldMalformed(s.malformed.EntityType)
					continue
				}
				if !s.ok {
					continue
				}
				verdict := validator.Validate(s.result.Record, s.result.Issues)
				out.acc.Fold(verdict, s.result.FieldsExpected, s.result.FieldsPresent)
				out.verdicts[i] = verdict
				p.emit(s.result, verdict)
			}
			outs[shard] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := quality.NewAccumulator(p.tables.Weights)
	for _, out := range outs {
		merged.Merge(out.acc)
	}

	// Reassemble in input order.
	verdicts := map[int]validate.Verdict{}
	for _, out := range outs {
		for i, v := range out.verdicts {
			verdicts[i] = v
		}
	}
	for i := range slots {
		s := &slots[i]
		if s.malformed != nil {
			res.Failures = append(res.Failures, Failure{
				EntityType:  s.malformed.EntityType,
				ExternalRef: s.raw.ExternalRef,
				Reason:      s.malformed.Reason,
			})
			if p.metrics != nil {
				p.metrics.RecordMalformed(string(s.malformed.EntityType))
			}
			continue
		}
		if s.ok {
			res.Records = append(res.Records, ProcessedRecord{Result: s.result, Verdict: verdicts[i]})
		}
	}
	return merged, nil
}

func (p *Pipeline) emit(result transform.Result, verdict validate.Verdict) {
	if p.metrics == nil {
		return
	}
	outcome := "valid"
	if !verdict.IsValid {
		outcome = "invalid"
	}
	p.metrics.RecordProcessed(string(verdict.EntityType), outcome)
	for _, issue := range result.Issues {
		p.metrics.FieldIssue(string(verdict.EntityType), string(issue.Kind))
	}
	for _, viol := range verdict.Violations {
		p.metrics.RuleViolation(viol.RuleID, string(viol.Severity))
	}
}
