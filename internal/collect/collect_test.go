// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package collect

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

type stubFetcher struct {
	subs map[int][]types.Submission
	errs map[int]error
}

func (f *stubFetcher) Submissions(_ context.Context, year int, _ io.Writer) ([]types.Submission, error) {
	if err := f.errs[year]; err != nil {
		return nil, err
	}
	return f.subs[year], nil
}

type memSink struct {
	papers  []types.Paper
	failOn  string
	failErr error
}

func (s *memSink) Append(p types.Paper) error {
	if s.failOn != "" && p.PaperID == s.failOn {
		return s.failErr
	}
	s.papers = append(s.papers, p)
	return nil
}

func goodSubmission(id string) types.Submission {
	return types.Submission{
		ID: id,
		Content: types.RawContent{
			"title": "Paper " + id,
		},
	}
}

func TestCollectYear(t *testing.T) {
	fetcher := &stubFetcher{subs: map[int][]types.Submission{
		2020: {
			goodSubmission("a"),
			{}, // no identifier, skipped
			goodSubmission("b"),
		},
	}}
	sink := &memSink{}
	c := &Collector{Fetcher: fetcher, Sink: sink}

	var out bytes.Buffer
	summary, err := c.CollectYear(context.Background(), 2020, &out)
	if err != nil {
		t.Fatalf("CollectYear: %v", err)
	}
	if summary.Collected != 2 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 2 collected, 1 failed", summary)
	}
	if summary.Total() != 3 {
		t.Errorf("total = %d, want 3", summary.Total())
	}
	if !summary.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
	if len(sink.papers) != 2 {
		t.Errorf("sink holds %d papers, want 2", len(sink.papers))
	}
	if sink.papers[0].Year != 2020 {
		t.Errorf("paper year = %d, want 2020", sink.papers[0].Year)
	}
	if !strings.Contains(out.String(), "skipping submission") {
		t.Errorf("missing skip warning in output:\n%s", out.String())
	}
}

func TestCollectYearEmpty(t *testing.T) {
	c := &Collector{Fetcher: &stubFetcher{}, Sink: &memSink{}}

	var out bytes.Buffer
	summary, err := c.CollectYear(context.Background(), 2021, &out)
	if err != nil {
		t.Fatalf("CollectYear: %v", err)
	}
	if summary.Total() != 0 {
		t.Errorf("summary = %+v, want empty", summary)
	}
	if !strings.Contains(out.String(), "no submissions found") {
		t.Errorf("missing empty-year warning in output:\n%s", out.String())
	}
}

func TestCollectYearFetchError(t *testing.T) {
	c := &Collector{
		Fetcher: &stubFetcher{errs: map[int]error{2020: errors.New("boom")}},
		Sink:    &memSink{},
	}
	if _, err := c.CollectYear(context.Background(), 2020, io.Discard); err == nil {
		t.Fatal("expected fetch error")
	}
}

func TestCollectYearSinkFailureAborts(t *testing.T) {
	fetcher := &stubFetcher{subs: map[int][]types.Submission{
		2020: {goodSubmission("a"), goodSubmission("b"), goodSubmission("c")},
	}}
	sink := &memSink{failOn: "b", failErr: fmt.Errorf("disk full")}
	c := &Collector{Fetcher: fetcher, Sink: sink}

	summary, err := c.CollectYear(context.Background(), 2020, io.Discard)
	if err == nil {
		t.Fatal("expected sink error")
	}
	if summary.Collected != 1 {
		t.Errorf("collected = %d before abort, want 1", summary.Collected)
	}
	if len(sink.papers) != 1 {
		t.Errorf("sink holds %d papers, want 1", len(sink.papers))
	}
}

func TestCollectRangeContinuesPastFailedYear(t *testing.T) {
	fetcher := &stubFetcher{
		subs: map[int][]types.Submission{
			2019: {goodSubmission("x")},
			2021: {goodSubmission("y")},
		},
		errs: map[int]error{2020: errors.New("upstream down")},
	}
	sink := &memSink{}
	c := &Collector{Fetcher: fetcher, Sink: sink}

	results := c.CollectRange(context.Background(), 2019, 2021, 0, io.Discard)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Errorf("healthy years failed: %v, %v", results[0].Err, results[1].Err)
	}
	if results[1].Err == nil {
		t.Error("failed year reported no error")
	}
	if len(sink.papers) != 2 {
		t.Errorf("sink holds %d papers, want 2", len(sink.papers))
	}
}

func TestCollectUntilFailureStopsAtFailedYear(t *testing.T) {
	fetcher := &stubFetcher{
		subs: map[int][]types.Submission{
			2019: {goodSubmission("x")},
			2021: {goodSubmission("y")},
		},
		errs: map[int]error{2020: errors.New("upstream down")},
	}
	sink := &memSink{}
	c := &Collector{Fetcher: fetcher, Sink: sink}

	results := c.CollectUntilFailure(context.Background(), 2019, 2021, 0, io.Discard)
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (stopped at the failed year)", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("2019 failed: %v", results[0].Err)
	}
	if results[1].Year != 2020 || results[1].Err == nil {
		t.Errorf("last result = %+v, want the 2020 failure", results[1])
	}
	// 2021 was never collected, so the next resume retries 2020.
	if len(sink.papers) != 1 {
		t.Errorf("sink holds %d papers, want 1", len(sink.papers))
	}
}

func TestCollectRangeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &stubFetcher{subs: map[int][]types.Submission{
		2019: {goodSubmission("x")},
	}}
	c := &Collector{Fetcher: fetcher, Sink: &memSink{}}

	// The year delay observes the already-cancelled context before 2020.
	results := c.CollectRange(ctx, 2019, 2020, 1, io.Discard)
	last := results[len(results)-1]
	if !errors.Is(last.Err, context.Canceled) {
		t.Errorf("last result err = %v, want context.Canceled", last.Err)
	}
}

func TestPrintSummary(t *testing.T) {
	results := []YearResult{
		{Year: 2019, Summary: Summary{Collected: 10}},
		{Year: 2020, Err: errors.New("boom")},
		{Year: 2021, Summary: Summary{Collected: 5}},
	}
	var out bytes.Buffer
	PrintSummary(results, &out)

	s := out.String()
	for _, want := range []string{"2019: 10 papers", "2020: failed", "Total papers collected: 15"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}
