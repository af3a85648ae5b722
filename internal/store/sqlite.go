package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS blocks (
	doc_id   TEXT NOT NULL,
	position INTEGER NOT NULL,
	block_id TEXT NOT NULL,
	content  TEXT NOT NULL,
	PRIMARY KEY (doc_id, position)
);
CREATE INDEX IF NOT EXISTS idx_blocks_doc ON blocks(doc_id);
`

// SQLiteStore implements DocumentStore on a local SQLite database, one row
// per block keyed by document ID and position.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if necessary) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy_timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Save replaces the stored block sequence for docID atomically.
func (s *SQLiteStore) Save(ctx context.Context, docID string, blocks []BlockRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM blocks WHERE doc_id = ?", docID); err != nil {
		return fmt.Errorf("failed to clear document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO blocks (doc_id, position, block_id, content) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, b := range blocks {
		if _, err := stmt.ExecContext(ctx, docID, i, b.ID, b.Content); err != nil {
			return fmt.Errorf("failed to insert block %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Load returns the ordered block sequence for docID, or ErrNotFound.
func (s *SQLiteStore) Load(ctx context.Context, docID string) ([]BlockRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT block_id, content FROM blocks WHERE doc_id = ? ORDER BY position", docID)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocks: %w", err)
	}
	defer rows.Close()

	var blocks []BlockRecord
	for rows.Next() {
		var b BlockRecord
		if err := rows.Scan(&b.ID, &b.Content); err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read blocks: %w", err)
	}
	if len(blocks) == 0 {
		return nil, ErrNotFound
	}
	return blocks, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
