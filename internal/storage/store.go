package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// FileRecord is the ledger entry for one rewritten source file.
type FileRecord struct {
	Path string
	// ContentHash is the hash of the file as written by the last run.
	ContentHash string
	// Mode is the tool identifier the tags were rendered for.
	Mode      string
	Tags      []string
	UpdatedAt time.Time
}

// Ledger remembers which files were already processed, so a run can skip
// files whose content has not changed since they were last written.
type Ledger interface {
	// Lookup returns the record for path, or nil when there is none.
	Lookup(ctx context.Context, path string) (*FileRecord, error)

	// SaveRecords upserts records in a single transaction.
	SaveRecords(ctx context.Context, records []FileRecord) error

	// RemoveRecords deletes the records of the given paths.
	RemoveRecords(ctx context.Context, paths []string) error

	Close() error
}

// HashContent returns the ledger hash of a file's content.
func HashContent(src []byte) string {
	sum := sha256.Sum256(src)
	return "sha256:" + hex.EncodeToString(sum[:])
}
