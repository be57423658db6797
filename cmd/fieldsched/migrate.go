package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezkam/fieldsched/internal/config"
	"github.com/rezkam/fieldsched/internal/domain"
	"github.com/rezkam/fieldsched/internal/infrastructure/persistence/postgres"
	"github.com/rezkam/fieldsched/internal/infrastructure/persistence/sqlite"
)

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return err
	}

	switch cfg.Storage.Type {
	case config.StorageSQLite:
		err = sqlite.Migrate(cmd.Context(), cfg.Storage.SQLitePath)
	case config.StoragePostgres:
		err = postgres.Migrate(cmd.Context(), cfg.Storage.DSN)
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%s storage has no schema to migrate\n", cfg.Storage.Type)
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "migrated %s (%s)\n", cfg.Storage.Type, storageTarget(cfg.Storage))
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ds, err := readDataset(args[0])
	if err != nil {
		return err
	}

	cfg, err := config.LoadCLIConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context(), cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Type, err)
	}
	defer store.Close()

	if err := store.Replace(cmd.Context(), ds); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d tasks, %d teams, %d employees into %s\n",
		len(ds.Tasks), len(ds.Teams), len(ds.Employees.Employees), cfg.Storage.Type)
	return nil
}

// readDataset decodes a dataset file in the backend's JSON shape.
func readDataset(path string) (domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	var ds domain.Dataset
	if err := json.NewDecoder(f).Decode(&ds); err != nil {
		return domain.Dataset{}, fmt.Errorf("failed to decode dataset %s: %w", path, err)
	}
	return ds.Normalized(), nil
}
