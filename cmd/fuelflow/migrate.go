package main

import (
	"fmt"
	"log/slog"

	"github.com/fleetops/fuelflow/internal/cli"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

This command ensures your local database has all the required tables
and indexes for the application to function properly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath, err := databasePath()
			if err != nil {
				return err
			}

			slog.Info("Starting database migration", "database", dbPath)

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Database schema is up to date"))
			return nil
		},
	}
}
