package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joelkehle/ipms-migrate/internal/config"
	"github.com/joelkehle/ipms-migrate/internal/legacy"
	"github.com/joelkehle/ipms-migrate/internal/pipeline"
	"github.com/joelkehle/ipms-migrate/internal/report"
)

// Exit codes: 0 when overall quality >= 90, 1 when >= 70, 2 below that.
// Automation gates cutover on them.
func main() {
	legacyDir := flag.String("legacy-dir", "", "Directory holding the legacy CSV exports")
	configPath := flag.String("config", "", "Optional YAML config overriding the built-in lookup tables")
	reportPath := flag.String("report-json", "", "Optional path to write the full batch result JSON")
	markdown := flag.Bool("markdown", false, "Print the full markdown report instead of the summary")
	flag.Parse()

	if *legacyDir == "" {
		log.Fatal("missing required -legacy-dir")
	}

	tables, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	records, err := legacy.LoadDir(*legacyDir)
	if err != nil {
		log.Fatalf("extract legacy records: %v", err)
	}

	p := pipeline.New(pipeline.Config{Tables: tables})
	result, err := p.Run(context.Background(), records)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}

	if *reportPath != "" {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.Fatalf("encode report: %v", err)
		}
		if err := os.WriteFile(*reportPath, b, 0o644); err != nil {
			log.Fatalf("write report: %v", err)
		}
	}

	if *markdown {
		fmt.Print(report.BuildMarkdown(result))
	} else {
		printSummary(result)
	}

	os.Exit(report.ScoreBand(result.Report.Overall.Overall))
}

func printSummary(result pipeline.BatchResult) {
	overall := result.Report.Overall
	fmt.Printf("records:      %d (%d valid, %d invalid, %d malformed)\n",
		overall.Records, overall.Valid, overall.Invalid, overall.Malformed)
	fmt.Printf("completeness: %.1f\n", overall.Completeness)
	fmt.Printf("accuracy:     %.1f\n", overall.Accuracy)
	fmt.Printf("consistency:  %.1f\n", overall.Consistency)
	fmt.Printf("overall:      %.1f\n", overall.Overall)
}
