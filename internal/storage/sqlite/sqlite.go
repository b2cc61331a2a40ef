// Package sqlite provides a SQLite-backed implementation of the
// storage.LedgerStore and storage.AuditLog interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/sejongbank/ledgerd/internal/models"
	"github.com/sejongbank/ledgerd/internal/storage"
)

// Ensure Store implements both storage contracts.
var (
	_ storage.LedgerStore = (*Store)(nil)
	_ storage.AuditLog    = (*Store)(nil)
)

// Store implements ledger and audit persistence over a single SQLite
// database. The ledger keeps whole-snapshot semantics: Save replaces
// the users and accounts tables inside one transaction.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads the full ledger, users in registration order and accounts
// in creation order. An empty database yields an empty ledger.
func (s *Store) Load(ctx context.Context) (*models.Ledger, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, password FROM users ORDER BY position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	ledger := models.NewLedger()
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(&u.ID, &u.Name, &u.Password); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		ledger.AddUser(u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	for _, u := range ledger.Users {
		acctRows, err := s.db.QueryContext(ctx,
			"SELECT number, balance FROM accounts WHERE user_id = ? ORDER BY position",
			u.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to query accounts: %w", err)
		}
		for acctRows.Next() {
			a := &models.Account{}
			if err := acctRows.Scan(&a.Number, &a.Balance); err != nil {
				acctRows.Close()
				return nil, fmt.Errorf("failed to scan account: %w", err)
			}
			u.AddAccount(a)
		}
		if err := acctRows.Err(); err != nil {
			acctRows.Close()
			return nil, fmt.Errorf("failed to iterate accounts: %w", err)
		}
		acctRows.Close()
	}

	return ledger, nil
}

// Save replaces the stored ledger with the given snapshot in one
// transaction, preserving user and account order via position columns.
func (s *Store) Save(ctx context.Context, ledger *models.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM accounts"); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
		return fmt.Errorf("failed to clear users: %w", err)
	}

	for i, u := range ledger.Users {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO users (id, name, password, position) VALUES (?, ?, ?, ?)",
			u.ID, u.Name, u.Password, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert user: %w", err)
		}
		for j, a := range u.Accounts {
			_, err := tx.ExecContext(ctx,
				"INSERT INTO accounts (number, user_id, balance, position) VALUES (?, ?, ?, ?)",
				a.Number, u.ID, a.Balance, j,
			)
			if err != nil {
				return fmt.Errorf("failed to insert account: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Entries returns all audit entries in append order.
func (s *Store) Entries(ctx context.Context) ([]models.AuditEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, sender_name, sender_account,
		       recipient_name, recipient_account, amount, timestamp
		FROM audit_entries ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []models.AuditEntry
	for rows.Next() {
		var e models.AuditEntry
		err := rows.Scan(
			&e.ID, &e.Type, &e.SenderName, &e.SenderAccount,
			&e.RecipientName, &e.RecipientAccount, &e.Amount, &e.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}

// Append records one completed transfer.
func (s *Store) Append(ctx context.Context, entry models.AuditEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_entries
			(id, type, sender_name, sender_account,
			 recipient_name, recipient_account, amount, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID, entry.Type, entry.SenderName, entry.SenderAccount,
		entry.RecipientName, entry.RecipientAccount, entry.Amount, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert audit entry: %w", err)
	}
	return nil
}
