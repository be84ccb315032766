// Package report renders a finalized quality report as markdown, HTML and
// PDF. The scores come in computed; this package only formats them.
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/joelkehle/ipms-migrate/internal/pipeline"
	"github.com/joelkehle/ipms-migrate/internal/record"
)

// BuildMarkdown renders the migration quality report for one batch run.
func BuildMarkdown(result pipeline.BatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Migration Quality Report\n\n")
	fmt.Fprintf(&b, "- Run ID: %s\n", result.RunID)
	fmt.Fprintf(&b, "- Started: %s\n", result.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Finished: %s\n\n", result.FinishedAt.Format(time.RFC3339))

	overall := result.Report.Overall
	fmt.Fprintf(&b, "## Executive Summary\n\n")
	fmt.Fprintf(&b, "Overall quality score: **%.1f / 100** (%s).\n", overall.Overall, scoreBand(overall.Overall))
	fmt.Fprintf(&b, "%d records processed: %d valid, %d invalid, %d structurally malformed.\n\n",
		overall.Records, overall.Valid, overall.Invalid, overall.Malformed)

	fmt.Fprintf(&b, "## Scores by Entity Type\n\n")
	b.WriteString("| Entity | Records | Completeness | Accuracy | Consistency | Overall |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	for _, entity := range record.EntityTypes {
		s, ok := result.Report.PerEntity[entity]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %d | %.1f | %.1f | %.1f | %.1f |\n",
			entity, s.Records, s.Completeness, s.Accuracy, s.Consistency, s.Overall)
	}
	fmt.Fprintf(&b, "| **all** | %d | %.1f | %.1f | %.1f | %.1f |\n\n",
		overall.Records, overall.Completeness, overall.Accuracy, overall.Consistency, overall.Overall)

	appendFindings(&b, result)

	if len(result.Failures) > 0 {
		fmt.Fprintf(&b, "## Structural Failures\n\n")
		for _, f := range result.Failures {
			ref := f.ExternalRef
			if ref == "" {
				ref = "(no external ref)"
			}
			fmt.Fprintf(&b, "- %s %s: %s\n", f.EntityType, ref, f.Reason)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Appendix\n\n")
	fmt.Fprintf(&b, "### Report Data (JSON)\n\n```json\n%s\n```\n", prettyJSON(result.Report))

	return b.String()
}

// appendFindings lists the most frequent rule violations and issue kinds so
// the report points at what to fix, not just how bad it is.
func appendFindings(b *strings.Builder, result pipeline.BatchResult) {
	violations := map[string]int{}
	issues := map[string]int{}
	for _, pr := range result.Records {
		for _, v := range pr.Verdict.Violations {
			violations[v.RuleID]++
		}
		for _, issue := range pr.Result.Issues {
			issues[string(issue.Kind)]++
		}
	}
	if len(violations) == 0 && len(issues) == 0 {
		return
	}

	fmt.Fprintf(b, "## Findings\n\n")
	if len(violations) > 0 {
		fmt.Fprintf(b, "### Rule Violations\n\n")
		b.WriteString("| Rule | Count |\n|---|---|\n")
		for _, k := range sortedByCount(violations) {
			fmt.Fprintf(b, "| `%s` | %d |\n", k, violations[k])
		}
		b.WriteString("\n")
	}
	if len(issues) > 0 {
		fmt.Fprintf(b, "### Field Issues\n\n")
		b.WriteString("| Issue kind | Count |\n|---|---|\n")
		for _, k := range sortedByCount(issues) {
			fmt.Fprintf(b, "| `%s` | %d |\n", k, issues[k])
		}
		b.WriteString("\n")
	}
}

func sortedByCount(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// Count-descending, then name so equal counts render stably.
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// ScoreBand maps an overall score to the run status band the validate CLI
// exits on.
func ScoreBand(score float64) int {
	switch {
	case score >= 90:
		return 0
	case score >= 70:
		return 1
	default:
		return 2
	}
}

func scoreBand(score float64) string {
	switch ScoreBand(score) {
	case 0:
		return "good"
	case 1:
		return "acceptable, review findings"
	default:
		return "poor, migration should be reviewed before cutover"
	}
}

func prettyJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
