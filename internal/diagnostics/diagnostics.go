// Package diagnostics classifies the free-text messages ogr2ogr writes to
// stderr into aggregated warnings and verbatim error lines.
package diagnostics

import (
	"sort"
	"strings"
)

// Report accumulates diagnostics over a whole run.
type Report struct {
	// WarningCounts counts each distinct warning line.
	WarningCounts map[string]int

	// ErrorLines holds error lines in the order they were seen.
	ErrorLines []string

	// order remembers the first occurrence of each warning for stable output.
	order []string
}

// WarningCount is one aggregated warning.
type WarningCount struct {
	Message string
	Count   int
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{WarningCounts: make(map[string]int)}
}

// Collect classifies every non-blank line of text. Lines starting with
// "warning" (any case) are counted by their full text, lines starting with
// "error" are kept verbatim and everything else is dropped.
func (r *Report) Collect(text string) {
	if r.WarningCounts == nil {
		r.WarningCounts = make(map[string]int)
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "warning"):
			if _, seen := r.WarningCounts[line]; !seen {
				r.order = append(r.order, line)
			}
			r.WarningCounts[line]++
		case strings.HasPrefix(lower, "error"):
			r.ErrorLines = append(r.ErrorLines, line)
		}
	}
}

// Warnings returns the aggregated warnings, most frequent first. Ties keep
// the order in which the warnings first appeared.
func (r *Report) Warnings() []WarningCount {
	result := make([]WarningCount, 0, len(r.WarningCounts))
	for _, msg := range r.order {
		result = append(result, WarningCount{Message: msg, Count: r.WarningCounts[msg]})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	return result
}

// TotalWarnings returns the number of warning lines seen, duplicates included.
func (r *Report) TotalWarnings() int {
	total := 0
	for _, n := range r.WarningCounts {
		total += n
	}
	return total
}
