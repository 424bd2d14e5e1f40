// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/autoapply/internal/negotiator"
	"github.com/jonathan/autoapply/internal/visitstore"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintReport outputs a human-readable summary of one application run.
func (p *Printer) PrintReport(report *negotiator.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("URL:     %s\n", report.URL))
	sb.WriteString(fmt.Sprintf("Status:  %s\n", report.Status))
	sb.WriteString(fmt.Sprintf("State:   %s\n", report.FinalState))
	if report.EffectiveDomain != report.Domain {
		sb.WriteString(fmt.Sprintf("Landed:  %s\n", report.EffectiveDomain))
	}
	sb.WriteString(fmt.Sprintf("Fields:  %d resolved, %d low confidence, %d unresolved",
		report.FieldsResolved, report.LowConfidenceFields, report.UnresolvedFields))
	if len(report.UnresolvedQuestions) > 0 {
		sb.WriteString("\n\nNeeds manual follow-up:")
		count := min(len(report.UnresolvedQuestions), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("\n  • %s", report.UnresolvedQuestions[i]))
		}
		if len(report.UnresolvedQuestions) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more", len(report.UnresolvedQuestions)-maxItemsToShow))
		}
	}
	if report.BarrierNote != "" {
		sb.WriteString(fmt.Sprintf("\nNote:    %s", report.BarrierNote))
	}

	p.printBox("APPLICATION RUN", sb.String())
}

// PrintBatchSummary outputs the per-status totals of a batch, listing the
// first few failures for follow-up.
func (p *Printer) PrintBatchSummary(reports []*negotiator.Report) {
	if len(reports) == 0 {
		return
	}

	counts := make(map[visitstore.Status]int)
	var failures []*negotiator.Report
	for _, report := range reports {
		if report == nil {
			continue
		}
		counts[report.Status]++
		if report.Status == visitstore.StatusFailed {
			failures = append(failures, report)
		}
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Processed: %d\n", len(reports)))
	sb.WriteString(fmt.Sprintf("  success: %d\n", counts[visitstore.StatusSuccess]))
	sb.WriteString(fmt.Sprintf("  partial: %d\n", counts[visitstore.StatusPartial]))
	sb.WriteString(fmt.Sprintf("  failed:  %d\n", counts[visitstore.StatusFailed]))
	sb.WriteString(fmt.Sprintf("  skipped: %d", counts[visitstore.StatusSkipped]))

	if len(failures) > 0 {
		sb.WriteString("\n\nFailures:\n")
		count := min(len(failures), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", failures[i].URL))
			note := failures[i].BarrierNote
			if len(note) > 45 {
				note = note[:42] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s", note))
			if i < count-1 {
				sb.WriteString("\n")
			}
		}
		if len(failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("\n  ... and %d more", len(failures)-maxItemsToShow))
		}
	}

	p.printBox("BATCH SUMMARY", sb.String())
}

// PrintStats outputs the visit store's lifetime totals.
func (p *Printer) PrintStats(stats visitstore.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total visits: %d\n\n", stats.Total))
	sb.WriteString(fmt.Sprintf("  success: %d\n", stats.Success))
	sb.WriteString(fmt.Sprintf("  partial: %d\n", stats.Partial))
	sb.WriteString(fmt.Sprintf("  failed:  %d\n", stats.Failed))
	sb.WriteString(fmt.Sprintf("  skipped: %d", stats.Skipped))

	p.printBox("VISIT HISTORY", sb.String())
}
