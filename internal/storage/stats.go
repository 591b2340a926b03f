// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

// Statistics summarizes a collected dataset.
type Statistics struct {
	TotalPapers          int         `json:"total_papers" yaml:"total_papers"`
	PapersByYear         map[int]int `json:"papers_by_year" yaml:"papers_by_year"`
	TotalReviews         int         `json:"total_reviews" yaml:"total_reviews"`
	PapersWithMetaReview int         `json:"papers_with_meta_review" yaml:"papers_with_meta_review"`
}

// Stats computes dataset statistics from a JSONL file.
func Stats(path string) (Statistics, error) {
	papers, err := ReadAll(path)
	if err != nil {
		return Statistics{}, err
	}
	return statsOf(papers), nil
}

func statsOf(papers []types.Paper) Statistics {
	s := Statistics{PapersByYear: map[int]int{}}
	for _, p := range papers {
		s.TotalPapers++
		s.PapersByYear[p.Year]++
		s.TotalReviews += len(p.OfficialReviews)
		if p.MetaReview.Text != "" {
			s.PapersWithMetaReview++
		}
	}
	return s
}

// LastYear returns the highest year present in the dataset, or 0 when the
// dataset is empty. Resume runs continue from the next year.
func LastYear(path string) (int, error) {
	papers, err := ReadAll(path)
	if err != nil {
		return 0, err
	}
	last := 0
	for _, p := range papers {
		if p.Year > last {
			last = p.Year
		}
	}
	return last, nil
}

// years returns the dataset's years in ascending order.
func (s Statistics) years() []int {
	ys := make([]int, 0, len(s.PapersByYear))
	for y := range s.PapersByYear {
		ys = append(ys, y)
	}
	sort.Ints(ys)
	return ys
}

// WriteTable renders the statistics as a human-readable summary.
func (s Statistics) WriteTable(w io.Writer) {
	fmt.Fprintf(w, "Total papers:            %d\n", s.TotalPapers)
	fmt.Fprintf(w, "Total reviews:           %d\n", s.TotalReviews)
	fmt.Fprintf(w, "Papers with meta-review: %d\n", s.PapersWithMetaReview)
	fmt.Fprintln(w)
	for _, y := range s.years() {
		fmt.Fprintf(w, "  %d: %d papers\n", y, s.PapersByYear[y])
	}
}

// WriteYAML renders the statistics as YAML.
func (s Statistics) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling statistics: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// GenerateReadme writes dataset documentation next to the dataset file.
func GenerateReadme(datasetPath, readmePath string) error {
	stats, err := Stats(datasetPath)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("# ICLR Dataset\n\n")
	b.WriteString("## Overview\n")
	fmt.Fprintf(&b, "- **Total papers**: %d\n", stats.TotalPapers)
	fmt.Fprintf(&b, "- **Total reviews**: %d\n", stats.TotalReviews)
	fmt.Fprintf(&b, "- **Papers with meta-reviews**: %d\n", stats.PapersWithMetaReview)
	fmt.Fprintf(&b, "- **File**: %s\n\n", datasetPath)
	b.WriteString("## Papers by Year\n")
	for _, y := range stats.years() {
		fmt.Fprintf(&b, "- %d: %d papers\n", y, stats.PapersByYear[y])
	}
	b.WriteString("\n## Usage\n\nOne JSON paper record per line:\n\n")
	fmt.Fprintf(&b, "```sh\njq .title %s | head\n```\n", datasetPath)

	if err := os.WriteFile(readmePath, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing README: %w", err)
	}
	return nil
}
