// ABOUTME: CLI command for moving saved state between storage backends.
// ABOUTME: Copies the state blob from one backend to another in the data directory.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/nexusfit/internal/config"
	"github.com/harperreed/nexusfit/internal/storage"
)

var (
	migrateFrom  string
	migrateTo    string
	migrateForce bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy saved state between storage backends",
	Long: `Copy the saved profile, plan, and history from one storage backend to another.

BACKENDS:

  sqlite   nexusfit.db in the data directory (default, keeps revisions)
  kv       Badger key-value store in the data directory's kv/ folder
  file     a single nexus_fit_state.json file in the data directory

IMPORTANT:

  - The destination must be empty unless you pass --force
  - The source is left untouched
  - Afterwards set "backend" in the config file or NEXUSFIT_BACKEND

EXAMPLES:

  nexusfit migrate --from file --to sqlite
  nexusfit migrate --from sqlite --to kv --force`,
	Annotations: map[string]string{skipStoreAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if migrateFrom == migrateTo {
			return fmt.Errorf("source and destination are both %s", migrateFrom)
		}
		dir := dataDir()

		nonEmpty, err := storage.IsDirNonEmpty(dir)
		if err != nil {
			return fmt.Errorf("failed to check data directory: %w", err)
		}
		if !nonEmpty {
			return fmt.Errorf("data directory %s is empty, nothing to migrate", dir)
		}

		src, err := config.OpenBackend(migrateFrom, dir)
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		dst, err := config.OpenBackend(migrateTo, dir)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		if !migrateForce {
			_, err := dst.Load()
			if err == nil {
				return fmt.Errorf("destination %s already has data (use --force to overwrite)", migrateTo)
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("failed to check destination: %w", err)
			}
		}

		summary, err := storage.MigrateData(src, dst)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		color.Green("✓ Migrated %d bytes from %s to %s", summary.Bytes, migrateFrom, migrateTo)
		color.New(color.Faint).Printf("  Data directory: %s\n", dir)
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateFrom, "from", config.BackendFile, "source backend")
	migrateCmd.Flags().StringVar(&migrateTo, "to", config.BackendSQLite, "destination backend")
	migrateCmd.Flags().BoolVarP(&migrateForce, "force", "f", false, "overwrite existing destination data")
	rootCmd.AddCommand(migrateCmd)
}
