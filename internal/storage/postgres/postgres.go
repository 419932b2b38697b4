// Package postgres implements the storage.Backend interface on PostgreSQL,
// configured through the db.* keys.
package postgres

import (
	"fmt"

	"github.com/scorelect/drillboard/internal/database"
	gormstorage "github.com/scorelect/drillboard/internal/storage/gorm"
)

// MaxOpenConns caps the connection pool.
const MaxOpenConns = 10

// Backend wraps the GORM backend with a Postgres connection.
type Backend struct {
	*gormstorage.Backend
}

// New connects to Postgres. The connection is checked on Init.
func New(deps gormstorage.Dependencies) (*Backend, error) {
	if deps.DB == nil {
		db, err := database.GetPostgresDB()
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		deps.DB = db
	}
	return &Backend{Backend: gormstorage.New(deps)}, nil
}

// Init validates the connection and migrates the schema.
func (b *Backend) Init() error {
	sqlDB, err := b.DB().DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to validate connection: %w", err)
	}
	sqlDB.SetMaxOpenConns(MaxOpenConns)
	return b.Backend.Init()
}
