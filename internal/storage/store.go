// Package storage provides abstractions for persistent ledger data.
package storage

import (
	"context"

	"github.com/sejongbank/ledgerd/internal/models"
)

// LedgerStore defines the interface for whole-ledger persistence.
// The ledger is loaded once at startup and written back wholesale after
// every successful mutation. This abstraction allows swapping backends
// (JSON file, SQLite) without changing the service layer.
type LedgerStore interface {
	// Load reads the complete ledger. An absent or malformed backing
	// resource yields an empty ledger, never an error past this
	// boundary.
	Load(ctx context.Context) (*models.Ledger, error)

	// Save overwrites the backing resource with the given ledger. The
	// replacement is atomic: a reader observes either the previous
	// snapshot or the new one, never a mix.
	Save(ctx context.Context, ledger *models.Ledger) error

	// Close releases any resources held by the store.
	Close() error
}

// AuditLog defines the interface for the append-only transfer log,
// kept separate from the ledger itself.
type AuditLog interface {
	// Entries returns all recorded entries in append order. Absent or
	// malformed backing data normalizes to an empty list.
	Entries(ctx context.Context) ([]models.AuditEntry, error)

	// Append records one completed transfer.
	Append(ctx context.Context, entry models.AuditEntry) error

	// Close releases any resources held by the log.
	Close() error
}
