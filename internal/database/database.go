package database

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/scorelect/drillboard/internal/model"
)

// MemoryDSN is the shared-cache in-memory SQLite database.
const MemoryDSN = "file::memory:?cache=shared"

// Manager handles database connections and operations.
type Manager struct {
	DB      *gorm.DB
	SqlDB   *sql.DB
	IsValid bool
	Logger  zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{
		IsValid: false,
		Logger:  log,
	}
}

// ConnectPostgres opens the Postgres database configured under db.* and checks it responds.
func (m *Manager) ConnectPostgres() error {
	db, err := GetPostgresDB()
	if err != nil {
		m.Logger.Error().Err(err).Msg("Failed to connect to Postgres DB")
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	return m.use(db)
}

// ConnectSqlite opens a SQLite database at path, or in memory if path is empty.
func (m *Manager) ConnectSqlite(path string) error {
	db, err := GetSqliteDB(path)
	if err != nil {
		return fmt.Errorf("opening sqlite: %w", err)
	}
	if path == "" {
		m.Logger.Info().Msg("Using local SQLite DB in memory")
	} else {
		m.Logger.Info().Str("path", path).Msg("Using local SQLite DB")
	}
	return m.use(db)
}

func (m *Manager) use(db *gorm.DB) error {
	var err error
	m.DB = db

	// test connection
	m.SqlDB, err = m.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err = m.SqlDB.Ping(); err != nil {
		m.IsValid = false
		return fmt.Errorf("failed to validate connection: %w", err)
	}

	m.IsValid = true
	m.Logger.Info().Str("dialect", m.DB.Dialector.Name()).Msg("Connected to database")
	return nil
}

// Setup migrates the document tables.
func (m *Manager) Setup() error {
	return Migrate(m.DB, m.Logger)
}

// Migrate creates or updates the schema on db.
func Migrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("Migrating schema")
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	log.Info().Msg("Database setup complete")
	return nil
}

// Close closes the underlying connection pool.
func (m *Manager) Close() error {
	if m.SqlDB == nil {
		return nil
	}
	m.IsValid = false
	return m.SqlDB.Close()
}

// DumpMemoryToDisk vacuums the database to path.
func (m *Manager) DumpMemoryToDisk(path string) error {
	start := time.Now()
	if err := DumpMemoryDBToDisk(m.DB, path); err != nil {
		return err
	}
	m.Logger.Debug().Dur("duration", time.Since(start)).Msg("Dumped memory DB to disk")
	return nil
}

// PostgresDSN builds the connection string from the db.* keys.
func PostgresDSN() string {
	return fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=disable`,
		viper.GetString("db.host"),
		viper.GetString("db.port"),
		viper.GetString("db.username"),
		viper.GetString("db.password"),
		viper.GetString("db.database"),
	)
}

// GetPostgresDB returns a connection to the Postgres database using viper config.
func GetPostgresDB() (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  PostgresDSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

// GetSqliteDB returns a connection to a SQLite database.
// If path is empty, uses an in-memory database.
func GetSqliteDB(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = MemoryDSN
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// set PRAGMAS
	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA temp_store = MEMORY;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}

// DumpMemoryDBToDisk vacuums the in-memory database to a disk file.
func DumpMemoryDBToDisk(db *gorm.DB, sqliteFilePath string) error {
	if sqliteFilePath == "" {
		return fmt.Errorf("sqlite file path not set")
	}

	// remove existing file if it exists
	if exists, err := os.Stat(sqliteFilePath); err == nil && exists != nil {
		if err := os.Remove(sqliteFilePath); err != nil {
			return fmt.Errorf("error removing existing DB file: %w", err)
		}
	}

	err := db.Exec("VACUUM INTO 'file:" + sqliteFilePath + "';").Error
	if err != nil {
		return fmt.Errorf("error dumping memory DB to disk: %w", err)
	}

	return nil
}
