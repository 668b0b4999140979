package db

import (
	"context"
	"fmt"

	"leavedesk-backend/internal/config"
	"leavedesk-backend/internal/ports"
)

// Open returns the key/value backend selected by cfg.StorageDriver.
func Open(ctx context.Context, cfg config.Config) (ports.KVStore, error) {
	switch cfg.StorageDriver {
	case config.StorageMemory:
		return NewMemory(), nil
	case config.StorageFile:
		return NewFile(cfg.StateFile)
	case config.StorageSQLite:
		return NewSQLite(ctx, cfg.SQLitePath)
	case config.StoragePostgres:
		return NewPostgres(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}
