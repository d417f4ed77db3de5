// Package backend builds the configured storage.Repository.
package backend

import (
	"fmt"

	"expensetracker/internal/config"
	"expensetracker/internal/database"
	"expensetracker/internal/logger"
	"expensetracker/internal/storage"
	"expensetracker/internal/storage/filestore"
	"expensetracker/internal/storage/sqlstore"
)

// Open creates the repository selected by cfg.StorageBackend. SQL backends
// are migrated before use.
func Open(cfg *config.Config) (storage.Repository, error) {
	log := logger.Named("storage")

	switch cfg.StorageBackend {
	case config.BackendFile:
		store, err := filestore.New(cfg.DataFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		log.Infow("Initialized file backend", "data_file", cfg.DataFile)
		return store, nil

	case config.BackendSQLite, config.BackendPostgres:
		dbConfig, err := database.NewConfig(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load database configuration: %w", err)
		}

		dbManager, err := database.NewManager(dbConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create database manager: %w", err)
		}

		if err := dbManager.RunMigrations(); err != nil {
			_ = dbManager.Close()
			return nil, fmt.Errorf("failed to run database migrations: %w", err)
		}

		log.Infow("Initialized SQL backend", "driver", dbConfig.Driver)
		return sqlstore.New(dbManager.DB(), dbManager.Close), nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}
