// Package metrics exposes Prometheus counters for a migration run. The core
// packages stay metrics-free; the pipeline reports into a Metrics instance
// and a main decides whether to serve the registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ipms_migrate"

// Metrics holds every instrument the migration emits. Construct one per
// process with New and share it; all instruments are concurrency-safe.
type Metrics struct {
	registry *prometheus.Registry

	recordsProcessed *prometheus.CounterVec
	recordsMalformed *prometheus.CounterVec
	fieldIssues      *prometheus.CounterVec
	ruleViolations   *prometheus.CounterVec
	batchDuration    prometheus.Histogram
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		recordsProcessed: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_processed_total",
			Help:      "Records processed, by entity type and verdict outcome",
		}, []string{"entity_type", "outcome"}),
		recordsMalformed: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_malformed_total",
			Help:      "Records rejected before normalization (structural failures)",
		}, []string{"entity_type"}),
		fieldIssues: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "field_issues_total",
			Help:      "Field-level normalization issues, by issue kind",
		}, []string{"entity_type", "issue_kind"}),
		ruleViolations: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_violations_total",
			Help:      "Validation rule violations, by rule ID",
		}, []string{"rule_id", "severity"}),
		batchDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of full batch runs",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) RecordProcessed(entityType, outcome string) {
	m.recordsProcessed.WithLabelValues(entityType, outcome).Inc()
}

func (m *Metrics) RecordMalformed(entityType string) {
	m.recordsMalformed.WithLabelValues(entityType).Inc()
}

func (m *Metrics) FieldIssue(entityType, issueKind string) {
	m.fieldIssues.WithLabelValues(entityType, issueKind).Inc()
}

func (m *Metrics) RuleViolation(ruleID, severity string) {
	m.ruleViolations.WithLabelValues(ruleID, severity).Inc()
}

func (m *Metrics) ObserveBatchDuration(seconds float64) {
	m.batchDuration.Observe(seconds)
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
