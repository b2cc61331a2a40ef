// Package config reads application settings from the environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Storage backend names accepted in BANK_STORAGE.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	// Storage selects the persistence backend: json or sqlite.
	Storage string `mapstructure:"BANK_STORAGE"`

	// DataPath is the ledger JSON file (json backend).
	DataPath string `mapstructure:"BANK_DATA_PATH"`

	// AuditPath is the audit-log JSON file (json backend).
	AuditPath string `mapstructure:"BANK_AUDIT_PATH"`

	// DBPath is the SQLite database file (sqlite backend).
	DBPath string `mapstructure:"BANK_DB_PATH"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"LOG_LEVEL"`
}

// Load reads configuration from environment variables, applying
// defaults suitable for local use.
func Load() (Config, error) {
	viper.SetDefault("BANK_STORAGE", BackendJSON)
	viper.SetDefault("BANK_DATA_PATH", "./data/bank.json")
	viper.SetDefault("BANK_AUDIT_PATH", "./data/transaction_log.json")
	viper.SetDefault("BANK_DB_PATH", "./data/bank.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.AutomaticEnv()

	_ = viper.BindEnv("BANK_STORAGE")
	_ = viper.BindEnv("BANK_DATA_PATH")
	_ = viper.BindEnv("BANK_AUDIT_PATH")
	_ = viper.BindEnv("BANK_DB_PATH")
	_ = viper.BindEnv("LOG_LEVEL")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if config.Storage != BackendJSON && config.Storage != BackendSQLite {
		return Config{}, fmt.Errorf("BANK_STORAGE must be %q or %q, got %q",
			BackendJSON, BackendSQLite, config.Storage)
	}
	return config, nil
}
