// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage persists the paper dataset as JSONL and maintains a
// SQLite search index over it. See docs/ARCHITECTURE § Dataset.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

// MaxLineCapacity is the scanner buffer size for reading dataset lines.
// Papers with full review threads run long; 4MB covers the worst observed.
const MaxLineCapacity = 4 * 1024 * 1024

// Sink appends paper records to a JSONL file, one record per line. Appends
// are serialized by the single file handle; the file tolerates repeated
// appends across resumed runs.
type Sink struct {
	f *bufio.Writer
	c *os.File
}

// OpenSink opens path for appending, creating parent directories as needed.
func OpenSink(path string) (*Sink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening dataset for append: %w", err)
	}
	return &Sink{f: bufio.NewWriter(f), c: f}, nil
}

// Append writes one paper as a single JSON line. HTML escaping is off so
// titles and abstracts keep their non-ASCII characters and angle brackets
// verbatim.
func (s *Sink) Append(paper types.Paper) error {
	line, err := MarshalLine(paper)
	if err != nil {
		return err
	}
	if _, err := s.f.Write(line); err != nil {
		return fmt.Errorf("writing paper %s: %w", paper.PaperID, err)
	}
	return s.f.Flush()
}

// Close flushes and closes the underlying file.
func (s *Sink) Close() error {
	if err := s.f.Flush(); err != nil {
		s.c.Close()
		return err
	}
	return s.c.Close()
}

// MarshalLine renders one paper as its newline-terminated JSONL line.
func MarshalLine(paper types.Paper) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(paper); err != nil {
		return nil, fmt.Errorf("encoding paper %s: %w", paper.PaperID, err)
	}
	return buf.Bytes(), nil
}

// ReadAll reads every paper from a JSONL dataset, skipping blank lines.
// A missing file reads as an empty dataset.
func ReadAll(path string) ([]types.Paper, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()

	var papers []types.Paper
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, MaxLineCapacity), MaxLineCapacity)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p types.Paper
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", lineNum, err)
		}
		papers = append(papers, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading dataset: %w", err)
	}
	return papers, nil
}

// Truncate clears the dataset file, creating it if absent. Used by full
// collection runs that start fresh.
func Truncate(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("truncating dataset: %w", err)
	}
	return f.Close()
}
