package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Ledger = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			content_hash TEXT NOT NULL,
			mode TEXT NOT NULL,
			tags JSON,
			updated_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_files_hash ON files(content_hash);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Lookup(ctx context.Context, path string) (*FileRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT path, content_hash, mode, tags, updated_at FROM files WHERE path = ?
	`, path)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", path, err)
	}
	return rec, nil
}

// ListRecords returns every record ordered by path.
func (s *SQLiteStore) ListRecords(ctx context.Context) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT path, content_hash, mode, tags, updated_at FROM files ORDER BY path
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func (s *SQLiteStore) SaveRecords(ctx context.Context, records []FileRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO files (path, content_hash, mode, tags, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			content_hash=excluded.content_hash,
			mode=excluded.mode,
			tags=excluded.tags,
			updated_at=excluded.updated_at
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		tags, err := json.Marshal(rec.Tags)
		if err != nil {
			return err
		}
		updated := rec.UpdatedAt
		if updated.IsZero() {
			updated = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, rec.Path, rec.ContentHash, rec.Mode, tags, updated.Unix()); err != nil {
			return fmt.Errorf("failed to save %s: %w", rec.Path, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) RemoveRecords(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM files WHERE path = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range paths {
		if _, err := stmt.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return tx.Commit()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*FileRecord, error) {
	var (
		rec     FileRecord
		tags    []byte
		updated int64
	)
	if err := sc.Scan(&rec.Path, &rec.ContentHash, &rec.Mode, &tags, &updated); err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &rec.Tags); err != nil {
			return nil, fmt.Errorf("corrupt tags for %s: %w", rec.Path, err)
		}
	}
	rec.UpdatedAt = time.Unix(updated, 0)
	return &rec, nil
}
