// Package factory builds the configured storage backend.
package factory

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/scorelect/drillboard/internal/cache"
	"github.com/scorelect/drillboard/internal/config"
	"github.com/scorelect/drillboard/internal/storage"
	gormstorage "github.com/scorelect/drillboard/internal/storage/gorm"
	"github.com/scorelect/drillboard/internal/storage/memory"
	"github.com/scorelect/drillboard/internal/storage/postgres"
	sqlitestorage "github.com/scorelect/drillboard/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (storage.Backend, error) {
	deps := gormstorage.Dependencies{Cache: cache.NewDocuments(), Logger: log}
	switch cfg.Type {
	case "postgres":
		b, err := postgres.New(deps)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "sqlite":
		b, err := sqlitestorage.New(cfg.SQLite, deps)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "memory", "":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
