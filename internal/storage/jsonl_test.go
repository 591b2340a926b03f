// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

func samplePaper(id string, year int) types.Paper {
	return types.Paper{
		PaperID:      id,
		Year:         year,
		Title:        "Attention Is Not <Always> Enough — Théorie",
		Authors:      []string{"Ana", "Björn"},
		Affiliations: []string{},
		URL:          "https://openreview.net/forum?id=" + id,
		PageMetadata: types.PageMetadata{
			Venue:    "ICLR.cc/2024/Conference",
			Keywords: []string{"attention"},
		},
		OfficialReviews: []types.ReviewRecord{{
			ReviewerID: "Reviewer_ab",
			Score:      "8",
			Text:       "Solid work.",
		}},
		MetaReview: types.MetaReview{Text: "Accept it."},
		Decision:   types.DecisionAccept,
	}
}

func TestSinkAppendAndReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "papers.jsonl")

	sink, err := OpenSink(path)
	if err != nil {
		t.Fatalf("OpenSink: %v", err)
	}
	if err := sink.Append(samplePaper("a1", 2024)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := sink.Append(samplePaper("a2", 2023)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	papers, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(papers) != 2 {
		t.Fatalf("read %d papers, want 2", len(papers))
	}
	if papers[0].PaperID != "a1" || papers[1].PaperID != "a2" {
		t.Errorf("order = %q, %q", papers[0].PaperID, papers[1].PaperID)
	}
	if papers[0].Title != "Attention Is Not <Always> Enough — Théorie" {
		t.Errorf("title round-trip = %q", papers[0].Title)
	}
}

func TestSinkAppendAcrossReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")

	for _, id := range []string{"r1", "r2"} {
		sink, err := OpenSink(path)
		if err != nil {
			t.Fatalf("OpenSink: %v", err)
		}
		if err := sink.Append(samplePaper(id, 2024)); err != nil {
			t.Fatalf("Append: %v", err)
		}
		sink.Close()
	}

	papers, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(papers) != 2 {
		t.Errorf("read %d papers after reopen, want 2", len(papers))
	}
}

func TestMarshalLineNoHTMLEscaping(t *testing.T) {
	line, err := MarshalLine(samplePaper("x", 2024))
	if err != nil {
		t.Fatalf("MarshalLine: %v", err)
	}
	s := string(line)
	if !strings.HasSuffix(s, "\n") {
		t.Error("line not newline-terminated")
	}
	if strings.Contains(s, `\u003c`) {
		t.Error("angle brackets were HTML-escaped")
	}
	if !strings.Contains(s, "<Always>") {
		t.Errorf("angle brackets not preserved: %s", s)
	}
	if !strings.Contains(s, "Théorie") {
		t.Errorf("non-ASCII not preserved: %s", s)
	}
}

func TestReadAllMissingFile(t *testing.T) {
	papers, err := ReadAll(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if papers != nil {
		t.Errorf("missing file read as %v, want nil", papers)
	}
}

func TestReadAllSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")
	line, err := MarshalLine(samplePaper("b1", 2022))
	if err != nil {
		t.Fatalf("MarshalLine: %v", err)
	}
	content := string(line) + "\n" + string(line)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	papers, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(papers) != 2 {
		t.Errorf("read %d papers, want 2", len(papers))
	}
}

func TestReadAllMalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")
	if err := os.WriteFile(path, []byte("{not json}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadAll(path); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestTruncate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")

	sink, err := OpenSink(path)
	if err != nil {
		t.Fatalf("OpenSink: %v", err)
	}
	if err := sink.Append(samplePaper("t1", 2024)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	sink.Close()

	if err := Truncate(path); err != nil {
		t.Fatalf("Truncate: %v", err)
	}
	papers, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(papers) != 0 {
		t.Errorf("read %d papers after truncate, want 0", len(papers))
	}
}

func TestStatsAndLastYear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "papers.jsonl")
	sink, err := OpenSink(path)
	if err != nil {
		t.Fatalf("OpenSink: %v", err)
	}
	for _, p := range []types.Paper{
		samplePaper("s1", 2023),
		samplePaper("s2", 2023),
		samplePaper("s3", 2024),
	} {
		if err := sink.Append(p); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	sink.Close()

	stats, err := Stats(path)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalPapers != 3 {
		t.Errorf("total papers = %d, want 3", stats.TotalPapers)
	}
	if stats.PapersByYear[2023] != 2 || stats.PapersByYear[2024] != 1 {
		t.Errorf("papers by year = %v", stats.PapersByYear)
	}
	if stats.TotalReviews != 3 {
		t.Errorf("total reviews = %d, want 3", stats.TotalReviews)
	}
	if stats.PapersWithMetaReview != 3 {
		t.Errorf("papers with meta review = %d, want 3", stats.PapersWithMetaReview)
	}

	last, err := LastYear(path)
	if err != nil {
		t.Fatalf("LastYear: %v", err)
	}
	if last != 2024 {
		t.Errorf("last year = %d, want 2024", last)
	}
}

func TestLastYearEmptyDataset(t *testing.T) {
	last, err := LastYear(filepath.Join(t.TempDir(), "nope.jsonl"))
	if err != nil {
		t.Fatalf("LastYear: %v", err)
	}
	if last != 0 {
		t.Errorf("last year = %d, want 0", last)
	}
}

func TestGenerateReadme(t *testing.T) {
	dir := t.TempDir()
	dataset := filepath.Join(dir, "papers.jsonl")
	readme := filepath.Join(dir, "README.md")

	sink, err := OpenSink(dataset)
	if err != nil {
		t.Fatalf("OpenSink: %v", err)
	}
	if err := sink.Append(samplePaper("g1", 2024)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	sink.Close()

	if err := GenerateReadme(dataset, readme); err != nil {
		t.Fatalf("GenerateReadme: %v", err)
	}
	data, err := os.ReadFile(readme)
	if err != nil {
		t.Fatalf("reading README: %v", err)
	}
	s := string(data)
	for _, want := range []string{"# ICLR Dataset", "Total papers**: 1", "2024: 1 papers"} {
		if !strings.Contains(s, want) {
			t.Errorf("README missing %q:\n%s", want, s)
		}
	}
}
