package main

import (
	"testing"

	"github.com/joelkehle/ipms-migrate/internal/target"
)

func TestRunStatus(t *testing.T) {
	cases := []struct {
		name   string
		counts map[string]target.Counts
		want   string
	}{
		{"empty run", map[string]target.Counts{}, "success"},
		{"clean load", map[string]target.Counts{
			"clients": {Inserted: 3, Updated: 1},
			"patents": {Inserted: 2},
		}, "success"},
		{"one failed row", map[string]target.Counts{
			"clients":   {Inserted: 3},
			"deadlines": {Inserted: 5, Failed: 1},
		}, "failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := runStatus(tc.counts); got != tc.want {
				t.Fatalf("runStatus = %q, want %q", got, tc.want)
			}
		})
	}
}
