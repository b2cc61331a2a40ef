// Command bank runs the interactive console bank over the configured
// storage backend.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/sejongbank/ledgerd/internal/config"
	"github.com/sejongbank/ledgerd/internal/service"
	"github.com/sejongbank/ledgerd/internal/shell"
	"github.com/sejongbank/ledgerd/internal/storage"
	"github.com/sejongbank/ledgerd/internal/storage/jsonfile"
	"github.com/sejongbank/ledgerd/internal/storage/sqlite"
	"github.com/sejongbank/ledgerd/pkg/logging"
)

func main() {
	// A missing .env is fine; the environment alone is enough.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, audit, err := openStorage(cfg)
	if err != nil {
		slog.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	defer audit.Close()
	slog.Info("storage initialized", "backend", cfg.Storage)

	ctx := context.Background()
	svc, err := service.New(ctx, store, audit, slog.Default())
	if err != nil {
		slog.Error("failed to start bank service", "error", err)
		os.Exit(1)
	}

	shell.New(svc, os.Stdin, os.Stdout).Run(ctx)
}

// openStorage builds the ledger store and audit log for the configured
// backend. The sqlite backend serves both contracts from one database.
func openStorage(cfg config.Config) (storage.LedgerStore, storage.AuditLog, error) {
	switch cfg.Storage {
	case config.BackendSQLite:
		db, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return db, db, nil
	default:
		store, err := jsonfile.NewLedgerStore(cfg.DataPath)
		if err != nil {
			return nil, nil, err
		}
		audit, err := jsonfile.NewAuditLog(cfg.AuditPath)
		if err != nil {
			return nil, nil, err
		}
		return store, audit, nil
	}
}
