package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fleetops/fuelflow/internal/config"
	"github.com/fleetops/fuelflow/internal/engine"
	"github.com/fleetops/fuelflow/internal/storage"
	"github.com/spf13/viper"
)

// databasePath resolves the database location from config, falling back to
// the standard data directory.
func databasePath() (string, error) {
	if dbPath := viper.GetString("database.path"); dbPath != "" {
		return config.ExpandPath(dbPath), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "fuelflow", "fuelflow.db"), nil
}

// openStorage opens the SQLite store at the configured path.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath, err := databasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
	}
	return store, nil
}

// engineConfig builds the engine configuration from viper, starting from
// the defaults.
func engineConfig() engine.Config {
	cfg := engine.DefaultConfig()

	if viper.IsSet("matching.odometer_tolerance") {
		cfg.Matching.OdometerTolerance = viper.GetInt64("matching.odometer_tolerance")
	}
	if viper.IsSet("matching.confidence_threshold") {
		cfg.Matching.ConfidenceThreshold = viper.GetFloat64("matching.confidence_threshold")
	}
	if viper.IsSet("import.workers") {
		cfg.Workers = viper.GetInt("import.workers")
	}

	return cfg
}

// statementFormat infers the statement format from the file extension.
func statementFormat(path string) engine.Format {
	if filepath.Ext(path) == ".xlsx" {
		return engine.FormatXLSX
	}
	return engine.FormatCSV
}
