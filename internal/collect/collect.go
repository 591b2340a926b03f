// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package collect orchestrates a harvest run: fetch a year's submissions,
// assemble canonical records, append them to the dataset. Assembly is
// sequential so dataset line order stays deterministic and upstream pacing
// (owned by the fetcher) is respected.
package collect

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/openreview-harvest/internal/process"
	"github.com/pdiddy/openreview-harvest/pkg/types"
)

// Fetcher returns a year's submissions with reply threads attached.
type Fetcher interface {
	Submissions(ctx context.Context, year int, w io.Writer) ([]types.Submission, error)
}

// Sink persists one paper record per call, append-only.
type Sink interface {
	Append(paper types.Paper) error
}

// Summary holds the outcome of one year's collection.
type Summary struct {
	Collected int
	Failed    int
}

// Total returns the number of submissions processed.
func (s Summary) Total() int { return s.Collected + s.Failed }

// HasFailures reports whether any submissions failed.
func (s Summary) HasFailures() bool { return s.Failed > 0 }

// Collector runs collection against a fetcher and a sink.
type Collector struct {
	Fetcher Fetcher
	Sink    Sink

	// SubmissionDelay paces assembly between consecutive submissions.
	SubmissionDelay time.Duration
}

// CollectYear fetches and persists one year. A submission that cannot be
// assembled (no identifier) is skipped and counted; a sink failure aborts,
// since every subsequent append would fail the same way.
func (c *Collector) CollectYear(ctx context.Context, year int, w io.Writer) (Summary, error) {
	fmt.Fprintf(w, "collecting ICLR %d\n", year)

	subs, err := c.Fetcher.Submissions(ctx, year, w)
	if err != nil {
		return Summary{}, fmt.Errorf("fetching %d submissions: %w", year, err)
	}
	if len(subs) == 0 {
		fmt.Fprintf(w, "warning: no submissions found for %d\n", year)
		return Summary{}, nil
	}
	fmt.Fprintf(w, "found %d papers\n", len(subs))

	var summary Summary
	for i, sub := range subs {
		if i > 0 && c.SubmissionDelay > 0 {
			select {
			case <-ctx.Done():
				return summary, ctx.Err()
			case <-time.After(c.SubmissionDelay):
			}
		}

		paper, err := process.Assemble(sub, year)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping submission: %v\n", err)
			summary.Failed++
			continue
		}
		if err := c.Sink.Append(paper); err != nil {
			return summary, fmt.Errorf("appending paper %s: %w", paper.PaperID, err)
		}
		summary.Collected++
	}

	fmt.Fprintf(w, "collected %d papers from ICLR %d\n", summary.Collected, year)
	return summary, nil
}

// YearResult pairs one year with its outcome.
type YearResult struct {
	Year    int
	Summary Summary
	Err     error
}

// CollectRange collects consecutive years. A failed year is recorded and
// collection continues with the next one; yearDelay paces between years.
func (c *Collector) CollectRange(ctx context.Context, startYear, endYear int, yearDelay time.Duration, w io.Writer) []YearResult {
	return c.collectYears(ctx, startYear, endYear, yearDelay, false, w)
}

// CollectUntilFailure collects consecutive years but stops at the first
// failed year. Resume runs use this: appending later years past a hole would
// hide the failed year from the next resume, which starts after the highest
// year present in the dataset.
func (c *Collector) CollectUntilFailure(ctx context.Context, startYear, endYear int, yearDelay time.Duration, w io.Writer) []YearResult {
	return c.collectYears(ctx, startYear, endYear, yearDelay, true, w)
}

func (c *Collector) collectYears(ctx context.Context, startYear, endYear int, yearDelay time.Duration, stopOnError bool, w io.Writer) []YearResult {
	var results []YearResult
	for year := startYear; year <= endYear; year++ {
		if year > startYear && yearDelay > 0 {
			fmt.Fprintf(w, "waiting before next year\n")
			select {
			case <-ctx.Done():
				results = append(results, YearResult{Year: year, Err: ctx.Err()})
				return results
			case <-time.After(yearDelay):
			}
		}

		summary, err := c.CollectYear(ctx, year, w)
		results = append(results, YearResult{Year: year, Summary: summary, Err: err})
		if err != nil {
			fmt.Fprintf(w, "warning: %d failed: %v\n", year, err)
			if stopOnError {
				return results
			}
		}
	}
	return results
}

// PrintSummary writes the per-year collection summary table.
func PrintSummary(results []YearResult, w io.Writer) {
	fmt.Fprintf(w, "\nCollection summary:\n")
	total := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "  %d: failed (%v)\n", r.Year, r.Err)
			continue
		}
		fmt.Fprintf(w, "  %d: %d papers\n", r.Year, r.Summary.Collected)
		total += r.Summary.Collected
	}
	fmt.Fprintf(w, "Total papers collected: %d\n", total)
}
