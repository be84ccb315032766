package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joelkehle/ipms-migrate/internal/pipeline"
	"github.com/joelkehle/ipms-migrate/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "Path to a saved batch result JSON (from migrate/validate -report-json)")
	outputPath := flag.String("output", "", "Path to write markdown (defaults to stdout)")
	htmlPath := flag.String("html", "", "Optional path to write standalone HTML")
	pdfPath := flag.String("pdf", "", "Optional path to write PDF (requires Chromium)")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	in, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}
	var result pipeline.BatchResult
	if err := json.Unmarshal(in, &result); err != nil {
		log.Fatalf("decode input JSON: %v", err)
	}

	markdown := report.BuildMarkdown(result)

	if *outputPath == "" {
		fmt.Print(markdown)
	} else if err := os.WriteFile(*outputPath, []byte(markdown), 0o644); err != nil {
		log.Fatalf("write markdown: %v", err)
	}

	if *htmlPath != "" {
		htmlDoc, err := report.ToHTML(markdown)
		if err != nil {
			log.Fatalf("render html: %v", err)
		}
		if err := os.WriteFile(*htmlPath, []byte(htmlDoc), 0o644); err != nil {
			log.Fatalf("write html: %v", err)
		}
	}

	if *pdfPath != "" {
		pdf, err := report.NewPDFRenderer().Render(context.Background(), markdown)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}
}
