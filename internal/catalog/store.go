// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists knowledge documents in SQLite and maintains a
// full-text index over their retrieval entries.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/readme-kg/internal/retrieval"
	"github.com/pdiddy/readme-kg/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "catalog.db"
)

// Store manages the catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int

	// fts records whether the entries_fts virtual table is available.
	// Binaries built without the sqlite_fts5 tag lack the FTS5 module;
	// Search then degrades to substring matching.
	fts bool
}

// Record holds the catalog-level metadata stored alongside a document.
type Record struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	ContentHash string    `json:"content_hash" yaml:"content_hash"`
	SourceURL   string    `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	FetchedAt   time.Time `json:"fetched_at" yaml:"fetched_at"`
}

// NewStore opens or creates the catalog SQLite database at
// catalogDir/index/catalog.db. It creates the schema if it does not exist.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CatalogDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		catalogDir: cfg.CatalogDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			content_hash TEXT NOT NULL,
			source_url TEXT,
			fetched_at TEXT NOT NULL,
			jsonld TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_doc_id ON entries(doc_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists > 0 {
		s.fts = true
		return nil
	}

	// The virtual table fails with "no such module: fts5" on builds
	// without the sqlite_fts5 tag. Degrade rather than refuse to open.
	if _, err := s.db.Exec(
		`CREATE VIRTUAL TABLE entries_fts USING fts5(text, content=entries, content_rowid=rowid)`,
	); err != nil {
		fmt.Fprintf(os.Stderr,
			"Warning: full-text index unavailable (%v); search falls back to substring matching\n", err)
		return nil
	}

	triggers := []string{
		`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
			INSERT INTO entries_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
		`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, text) VALUES('delete', old.rowid, old.text);
		END`,
		`CREATE TRIGGER entries_au AFTER UPDATE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			INSERT INTO entries_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS triggers: %w", err)
		}
	}
	s.fts = true
	return nil
}

// HasFullText reports whether the FTS5 index is available on this build.
func (s *Store) HasFullText() bool {
	return s.fts
}

// Put stores a document under its name, replacing any previous version
// wholesale. The document's retrieval entries are reindexed in the same
// transaction.
func (s *Store) Put(ctx context.Context, doc *types.Document, sourceURL string) (Record, error) {
	if doc.Name == "" {
		return Record{}, fmt.Errorf("document has no name")
	}

	data, err := types.MarshalJSONLD(doc)
	if err != nil {
		return Record{}, fmt.Errorf("encoding document: %w", err)
	}
	hash, err := doc.ContentHash()
	if err != nil {
		return Record{}, fmt.Errorf("hashing document: %w", err)
	}

	rec := Record{
		Name:        doc.Name,
		ContentHash: hash,
		SourceURL:   sourceURL,
		FetchedAt:   time.Now().UTC(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove old entries first so the FTS triggers see the deletes.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM entries WHERE doc_id IN (SELECT id FROM documents WHERE name = ?)`,
		doc.Name,
	)
	if err != nil {
		return Record{}, fmt.Errorf("deleting old entries: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (name, content_hash, source_url, fetched_at, jsonld)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			content_hash=excluded.content_hash, source_url=excluded.source_url,
			fetched_at=excluded.fetched_at, jsonld=excluded.jsonld`,
		rec.Name, rec.ContentHash, rec.SourceURL,
		rec.FetchedAt.Format(time.RFC3339Nano), string(data),
	)
	if err != nil {
		return Record{}, fmt.Errorf("upserting document: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE name = ?`, doc.Name,
	).Scan(&rec.ID); err != nil {
		return Record{}, fmt.Errorf("reading document id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (doc_id, label, text) VALUES (?, ?, ?)`)
	if err != nil {
		return Record{}, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, entry := range retrieval.BuildCorpus(doc) {
		if _, err := stmt.ExecContext(ctx, rec.ID, entry.Label, entry.Text); err != nil {
			return Record{}, fmt.Errorf("inserting entry %s: %w", entry.Label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("committing: %w", err)
	}
	return rec, nil
}

// Get loads a document by name.
func (s *Store) Get(ctx context.Context, name string) (*types.Document, Record, error) {
	var (
		rec       Record
		fetchedAt string
		jsonld    string
		sourceURL sql.NullString
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, content_hash, source_url, fetched_at, jsonld
		 FROM documents WHERE name = ?`, name,
	).Scan(&rec.ID, &rec.Name, &rec.ContentHash, &sourceURL, &fetchedAt, &jsonld)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, Record{}, fmt.Errorf("document %s not found", name)
		}
		return nil, Record{}, fmt.Errorf("looking up document: %w", err)
	}

	if sourceURL.Valid {
		rec.SourceURL = sourceURL.String
	}
	if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
		rec.FetchedAt = t
	}

	doc, err := types.UnmarshalJSONLD([]byte(jsonld))
	if err != nil {
		return nil, Record{}, fmt.Errorf("decoding document %s: %w", name, err)
	}
	return doc, rec, nil
}

// Delete removes a document and its entries. Deleting a document that is
// not in the catalog is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Explicit entry delete keeps the FTS index in sync; ON DELETE CASCADE
	// bypasses the entries_ad trigger-visible path on some builds.
	_, err = tx.ExecContext(ctx,
		`DELETE FROM entries WHERE doc_id IN (SELECT id FROM documents WHERE name = ?)`, name)
	if err != nil {
		return fmt.Errorf("deleting entries: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE name = ?`, name); err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return tx.Commit()
}

// List returns catalog records for all stored documents, sorted by name.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, content_hash, source_url, fetched_at
		 FROM documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec       Record
			fetchedAt string
			sourceURL sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.ContentHash, &sourceURL, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if sourceURL.Valid {
			rec.SourceURL = sourceURL.String
		}
		if t, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
			rec.FetchedAt = t
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
