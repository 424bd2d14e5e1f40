// Package runner fans a batch of candidate URLs out over a bounded pool of
// application runs and collects their reports.
package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/autoapply/internal/negotiator"
)

// Applier processes one candidate and always produces a report.
type Applier interface {
	Run(ctx context.Context, site negotiator.CandidateSite) *negotiator.Report
}

// Run processes all candidates with at most maxConcurrent in flight. One
// candidate's failure never affects the others; the returned slice is in
// candidate order with one report per candidate.
func Run(ctx context.Context, applier Applier, candidates []negotiator.CandidateSite, maxConcurrent int) []*negotiator.Report {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	reports := make([]*negotiator.Report, len(candidates))
	g := new(errgroup.Group)
	g.SetLimit(maxConcurrent)
	for i, site := range candidates {
		g.Go(func() error {
			reports[i] = applier.Run(ctx, site)
			return nil
		})
	}
	// Goroutines never return errors; reports carry the outcomes.
	_ = g.Wait()
	return reports
}

// ReadLinksFile loads candidate URLs from a text file, one per line. Blank
// lines and # comments are ignored; duplicates keep their first position.
func ReadLinksFile(path string) ([]negotiator.CandidateSite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read links file: %w", err)
	}

	seen := make(map[string]bool)
	var candidates []negotiator.CandidateSite
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		candidates = append(candidates, negotiator.CandidateSite{URL: line})
	}
	return candidates, nil
}
