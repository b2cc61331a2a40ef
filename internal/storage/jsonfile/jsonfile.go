// Package jsonfile provides flat-file JSON implementations of the
// storage.LedgerStore and storage.AuditLog interfaces.
//
// Files are replaced atomically: data is written to a temp file in the
// same directory and renamed over the target, so a crash mid-write
// leaves the previous snapshot intact.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sejongbank/ledgerd/internal/models"
	"github.com/sejongbank/ledgerd/internal/storage"
)

// Ensure the interfaces are satisfied.
var (
	_ storage.LedgerStore = (*LedgerStore)(nil)
	_ storage.AuditLog    = (*AuditLog)(nil)
)

// LedgerStore persists the whole ledger as one JSON document.
type LedgerStore struct {
	path string
}

// NewLedgerStore creates a ledger store backed by the given path,
// creating parent directories as needed.
func NewLedgerStore(path string) (*LedgerStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return &LedgerStore{path: path}, nil
}

// Load reads the ledger file. A missing or malformed file yields an
// empty ledger; such data loss is logged but is not an error.
func (s *LedgerStore) Load(ctx context.Context) (*models.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewLedger(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}

	var wire storage.WireLedger
	if err := json.Unmarshal(data, &wire); err != nil {
		slog.Warn("ledger file is malformed, starting empty", "path", s.path, "error", err)
		return models.NewLedger(), nil
	}
	return storage.DecodeLedger(wire), nil
}

// Save overwrites the ledger file with the given snapshot.
func (s *LedgerStore) Save(ctx context.Context, ledger *models.Ledger) error {
	return writeJSON(s.path, storage.EncodeLedger(ledger))
}

// Close is a no-op; the store holds no open handles between calls.
func (s *LedgerStore) Close() error { return nil }

// AuditLog persists transfer records as a JSON array, appended on each
// successful transfer.
type AuditLog struct {
	path string
}

// NewAuditLog creates an audit log backed by the given path.
func NewAuditLog(path string) (*AuditLog, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}
	return &AuditLog{path: path}, nil
}

// Entries returns all recorded entries. Anything that is not a JSON
// array of entries normalizes to an empty list.
func (l *AuditLog) Entries(ctx context.Context) ([]models.AuditEntry, error) {
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read audit file: %w", err)
	}

	var entries []models.AuditEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		slog.Warn("audit file is malformed, starting empty", "path", l.path, "error", err)
		return nil, nil
	}
	return entries, nil
}

// Append reads the current entries, appends one, and writes the file
// back. Load-append-save matches the whole-file contract of the store;
// there is a single writer, so no interleaving can occur.
func (l *AuditLog) Append(ctx context.Context, entry models.AuditEntry) error {
	entries, err := l.Entries(ctx)
	if err != nil {
		return err
	}
	return writeJSON(l.path, append(entries, entry))
}

// Close is a no-op.
func (l *AuditLog) Close() error { return nil }

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// writeJSON writes v to path via a temp file and atomic rename.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
