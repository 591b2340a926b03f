// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/openreview-harvest/pkg/types"
)

// Index is a SQLite full-text index over a collected dataset, for querying
// papers by title, abstract, or review text without re-reading the JSONL
// file.
type Index struct {
	db         *sql.DB
	maxResults int
}

// OpenIndex opens or creates the index database and its schema.
func OpenIndex(cfg types.IndexConfig) (*Index, error) {
	if dir := filepath.Dir(cfg.DBFile); dir != "." {
		// The collect command may not have run yet.
		if err := ensureDir(dir); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", cfg.DBFile+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	idx := &Index{db: db, maxResults: maxResults}
	if err := idx.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return idx, nil
}

// Close releases the database connection.
func (idx *Index) Close() error {
	return idx.db.Close()
}

func (idx *Index) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			year INTEGER,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			url TEXT,
			decision TEXT,
			review_count INTEGER,
			review_text TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_year ON papers(year)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			paper_id TEXT NOT NULL REFERENCES papers(id),
			reviewer_id TEXT,
			score TEXT,
			text TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_paper_id ON reviews(paper_id)`,
	}
	for _, stmt := range statements {
		if _, err := idx.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table over the papers, kept in sync with triggers.
	var ftsExists int
	if err := idx.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='papers_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE papers_fts USING fts5(title, abstract, review_text, content=papers, content_rowid=rowid)`,
			`CREATE TRIGGER papers_ai AFTER INSERT ON papers BEGIN
				INSERT INTO papers_fts(rowid, title, abstract, review_text) VALUES (new.rowid, new.title, new.abstract, new.review_text);
			END`,
			`CREATE TRIGGER papers_ad AFTER DELETE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract, review_text) VALUES('delete', old.rowid, old.title, old.abstract, old.review_text);
			END`,
			`CREATE TRIGGER papers_au AFTER UPDATE ON papers BEGIN
				INSERT INTO papers_fts(papers_fts, rowid, title, abstract, review_text) VALUES('delete', old.rowid, old.title, old.abstract, old.review_text);
				INSERT INTO papers_fts(rowid, title, abstract, review_text) VALUES (new.rowid, new.title, new.abstract, new.review_text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := idx.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}
	return nil
}

// IndexSummary holds counts from an indexing run.
type IndexSummary struct {
	Indexed int
	Failed  int
}

// Rebuild ingests a JSONL dataset into the index, upserting by paper id so
// re-runs after resumed collections are cheap and duplicate dataset lines
// collapse. Progress goes to w.
func (idx *Index) Rebuild(ctx context.Context, datasetPath string, w io.Writer) (IndexSummary, error) {
	papers, err := ReadAll(datasetPath)
	if err != nil {
		return IndexSummary{}, err
	}

	var summary IndexSummary
	for _, p := range papers {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}
		if err := idx.indexPaper(ctx, p); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", p.PaperID, err)
			summary.Failed++
			continue
		}
		summary.Indexed++
	}

	fmt.Fprintf(w, "indexed: %d, failed: %d\n", summary.Indexed, summary.Failed)
	return summary, nil
}

func (idx *Index) indexPaper(ctx context.Context, p types.Paper) error {
	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	authorsJSON, _ := json.Marshal(p.Authors)

	// Review bodies are concatenated onto the paper row so the FTS table
	// covers them alongside title and abstract.
	texts := make([]string, 0, len(p.OfficialReviews))
	for _, r := range p.OfficialReviews {
		if r.Text != "" {
			texts = append(texts, r.Text)
		}
	}
	reviewText := strings.Join(texts, "\n\n")

	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, year, title, authors, abstract, url, decision, review_count, review_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			year=excluded.year, title=excluded.title, authors=excluded.authors,
			abstract=excluded.abstract, url=excluded.url, decision=excluded.decision,
			review_count=excluded.review_count, review_text=excluded.review_text`,
		p.PaperID, p.Year, p.Title, string(authorsJSON), p.Abstract,
		p.URL, string(p.Decision), len(p.OfficialReviews), reviewText,
	)
	if err != nil {
		return fmt.Errorf("upserting paper: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE paper_id = ?`, p.PaperID); err != nil {
		return fmt.Errorf("clearing old reviews: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO reviews (paper_id, reviewer_id, score, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing review insert: %w", err)
	}
	defer stmt.Close()
	for _, r := range p.OfficialReviews {
		if _, err := stmt.ExecContext(ctx, p.PaperID, r.ReviewerID, r.Score, r.Text); err != nil {
			return fmt.Errorf("inserting review: %w", err)
		}
	}

	return tx.Commit()
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// QueryResult is one hit from a full-text query.
type QueryResult struct {
	PaperID     string
	Year        int
	Title       string
	Decision    string
	ReviewCount int
	URL         string
}

// Query runs an FTS5 match over titles, abstracts, and review text, best
// matches first.
func (idx *Index) Query(ctx context.Context, terms string, limit int) ([]QueryResult, error) {
	if limit <= 0 {
		limit = idx.maxResults
	}
	rows, err := idx.db.QueryContext(ctx,
		`SELECT p.id, p.year, p.title, p.decision, p.review_count, p.url
		 FROM papers_fts f
		 JOIN papers p ON p.rowid = f.rowid
		 WHERE papers_fts MATCH ?
		 ORDER BY rank
		 LIMIT ?`,
		terms, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		if err := rows.Scan(&r.PaperID, &r.Year, &r.Title, &r.Decision, &r.ReviewCount, &r.URL); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
