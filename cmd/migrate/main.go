package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/legacy"
	"github.com/joelkehle/ipms-migrate/internal/metrics"
	"github.com/joelkehle/ipms-migrate/internal/pipeline"
	"github.com/joelkehle/ipms-migrate/internal/target"
)

func main() {
	legacyDir := flag.String("legacy-dir", "", "Directory holding the legacy CSV exports")
	dbPath := flag.String("db", "target.db", "Path to the SQLite target database")
	configPath := flag.String("config", "", "Optional YAML config overriding the built-in lookup tables")
	reportPath := flag.String("report-json", "", "Optional path to write the full batch result JSON")
	metricsAddr := flag.String("metrics-addr", "", "Optional listen address for Prometheus metrics (e.g. :9090)")
	shards := flag.Int("shards", 0, "Parallel workers (0 = GOMAXPROCS)")
	flag.Parse()

	if *legacyDir == "" {
		log.Fatal("missing required -legacy-dir")
	}

	tables, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	m := metrics.New()
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", m.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("metrics listener: %v", err)
			}
		}()
	}

	records, err := legacy.LoadDir(*legacyDir)
	if err != nil {
		log.Fatalf("extract legacy records: %v", err)
	}
	log.Printf("extracted %d raw records from %s", len(records), *legacyDir)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	p := pipeline.New(pipeline.Config{Tables: tables, Metrics: m, Shards: *shards})
	result, err := p.Run(ctx, records)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	store, err := target.Open(*dbPath)
	if err != nil {
		log.Fatalf("open target: %v", err)
	}
	defer store.Close()

	if err := store.BeginRun(result.RunID, result.StartedAt); err != nil {
		log.Fatalf("begin run: %v", err)
	}

	counts := load(store, result)

	if err := store.FinishRun(result.RunID, runStatus(counts), result.FinishedAt, result.Report.Overall.Overall, counts); err != nil {
		log.Fatalf("finish run: %v", err)
	}

	if *reportPath != "" {
		if err := writeJSON(*reportPath, result); err != nil {
			log.Fatalf("write report: %v", err)
		}
	}

	overall := result.Report.Overall
	log.Printf("run %s: %d records (%d valid, %d invalid, %d malformed), overall quality %.1f",
		result.RunID, overall.Records, overall.Valid, overall.Invalid, overall.Malformed, overall.Overall)
	for table, c := range counts {
		log.Printf("  %s: %d inserted, %d updated, %d failed", table, c.Inserted, c.Updated, c.Failed)
	}
}

// load upserts every normalized record and tallies the per-table ledger. A
// failed insert marks that one row failed and keeps going.
func load(store *target.Store, result pipeline.BatchResult) map[string]target.Counts {
	counts := map[string]target.Counts{}
	for _, pr := range result.Records {
		table := target.TableFor(pr.Verdict.EntityType)
		c := counts[table]
		inserted, err := store.Upsert(pr.Result.Record)
		switch {
		case err != nil:
			log.Printf("load %s %s: %v", table, pr.Verdict.ExternalRef, err)
			c.Failed++
		case inserted:
			c.Inserted++
		default:
			c.Updated++
		}
		counts[table] = c

		if err := store.SaveVerdict(result.RunID, pr.Verdict); err != nil {
			log.Printf("save verdict %s: %v", pr.Verdict.ExternalRef, err)
		}
	}
	for _, f := range result.Failures {
		table := target.TableFor(f.EntityType)
		c := counts[table]
		c.Failed++
		counts[table] = c
	}
	return counts
}

// runStatus is the ledger status for a finished load. Any failed row marks
// the whole run failed; the ledger never reports success for a partial load.
func runStatus(counts map[string]target.Counts) string {
	for _, c := range counts {
		if c.Failed > 0 {
			return "failed"
		}
	}
	return "success"
}

func writeJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
