// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

// SQLiteWriter appends result pages to a SQLite file. Papers are upserted
// by arXiv id; every Write records one row in exports and links the
// papers it returned. The file is never consulted when answering a query.
type SQLiteWriter struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// OpenSQLite opens or creates the database at path and its schema.
func OpenSQLite(path string) (*SQLiteWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	w := &SQLiteWriter{db: db, path: path, now: time.Now}
	if err := w.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return w, nil
}

// Path returns the database file location.
func (w *SQLiteWriter) Path() string { return w.path }

// Close releases the database connection.
func (w *SQLiteWriter) Close() error {
	return w.db.Close()
}

func (w *SQLiteWriter) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			version TEXT,
			title TEXT NOT NULL,
			summary TEXT,
			authors TEXT,
			categories TEXT,
			primary_category TEXT,
			published TEXT,
			updated TEXT,
			comment TEXT,
			journal_ref TEXT,
			doi TEXT,
			abs_url TEXT,
			pdf_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS exports (
			run_id TEXT PRIMARY KEY,
			search_query TEXT NOT NULL,
			total_results INTEGER,
			start_index INTEGER,
			returned INTEGER,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS export_papers (
			run_id TEXT NOT NULL REFERENCES exports(run_id),
			paper_id TEXT NOT NULL REFERENCES papers(id),
			position INTEGER NOT NULL,
			PRIMARY KEY (run_id, paper_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_export_papers_paper_id ON export_papers(paper_id)`,
	}
	for _, stmt := range statements {
		if _, err := w.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Write stores page under a new export run and returns the run id.
// searchQuery is the rendered query that produced the page.
func (w *SQLiteWriter) Write(ctx context.Context, searchQuery string, page *types.ResultPage) (string, error) {
	runID := uuid.NewString()

	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var total, start int
	if page != nil {
		total, start = page.TotalResults, page.StartIndex
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO exports (run_id, search_query, total_results, start_index, returned, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, searchQuery, total, start, page.Len(), w.now().UTC().Format(time.RFC3339),
	); err != nil {
		return "", fmt.Errorf("inserting export %s: %w", runID, err)
	}

	if page != nil {
		for i, p := range page.Papers {
			if err := upsertPaper(ctx, tx, p); err != nil {
				return "", err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO export_papers (run_id, paper_id, position) VALUES (?, ?, ?)`,
				runID, p.ID, i,
			); err != nil {
				return "", fmt.Errorf("linking paper %s: %w", p.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing export %s: %w", runID, err)
	}
	return runID, nil
}

func upsertPaper(ctx context.Context, tx *sql.Tx, p types.Paper) error {
	authors, err := json.Marshal(p.Authors)
	if err != nil {
		return fmt.Errorf("marshaling authors for %s: %w", p.ID, err)
	}
	cats, err := json.Marshal(p.Categories)
	if err != nil {
		return fmt.Errorf("marshaling categories for %s: %w", p.ID, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO papers (id, version, title, summary, authors, categories, primary_category,
		                     published, updated, comment, journal_ref, doi, abs_url, pdf_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   version=excluded.version, title=excluded.title, summary=excluded.summary,
		   authors=excluded.authors, categories=excluded.categories,
		   primary_category=excluded.primary_category, published=excluded.published,
		   updated=excluded.updated, comment=excluded.comment, journal_ref=excluded.journal_ref,
		   doi=excluded.doi, abs_url=excluded.abs_url, pdf_url=excluded.pdf_url`,
		p.ID, p.Version, p.Title, p.Summary, string(authors), string(cats), string(p.PrimaryCategory),
		formatTime(p.Published), formatTime(p.Updated), p.Comment, p.JournalRef, p.DOI, p.AbsURL, p.PDFURL,
	)
	if err != nil {
		return fmt.Errorf("upserting paper %s: %w", p.ID, err)
	}
	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
