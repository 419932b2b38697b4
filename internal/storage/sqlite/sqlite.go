// Package sqlitestorage implements the storage.Backend interface on SQLite.
// With no path the database lives in memory and is dumped to disk
// periodically via VACUUM INTO.
package sqlitestorage

import (
	"fmt"
	"sync"
	"time"

	"github.com/scorelect/drillboard/internal/config"
	"github.com/scorelect/drillboard/internal/database"
	gormstorage "github.com/scorelect/drillboard/internal/storage/gorm"
)

// Backend wraps the GORM backend for SQLite-specific behavior.
type Backend struct {
	*gormstorage.Backend
	cfg      config.SQLiteConfig
	deps     gormstorage.Dependencies
	stopChan chan struct{}
	stopOnce sync.Once
	done     sync.WaitGroup
}

// New opens the database at cfg.Path, or in memory when the path is empty.
func New(cfg config.SQLiteConfig, deps gormstorage.Dependencies) (*Backend, error) {
	db, err := database.GetSqliteDB(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite DB: %w", err)
	}
	deps.DB = db

	return &Backend{
		Backend:  gormstorage.New(deps),
		cfg:      cfg,
		deps:     deps,
		stopChan: make(chan struct{}),
	}, nil
}

// Init initializes the embedded GORM backend and starts the dump goroutine.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}

	if b.dumps() {
		b.done.Add(1)
		go b.dumpLoop()
	}
	return nil
}

// Close stops the dump goroutine, writes a final dump and closes the database.
func (b *Backend) Close() error {
	b.stopOnce.Do(func() { close(b.stopChan) })
	b.done.Wait()

	if b.dumps() {
		if err := b.dump(); err != nil {
			b.deps.Logger.Error().Err(err).Msg("Final dump failed")
		}
	}
	return b.Backend.Close()
}

func (b *Backend) dumps() bool {
	return b.cfg.Path == "" && b.cfg.DumpPath != "" && b.cfg.DumpInterval > 0
}

func (b *Backend) dump() error {
	start := time.Now()
	if err := database.DumpMemoryDBToDisk(b.DB(), b.cfg.DumpPath); err != nil {
		return err
	}
	b.deps.Logger.Debug().Dur("duration", time.Since(start)).Str("path", b.cfg.DumpPath).Msg("Dumped to disk")
	return nil
}

// dumpLoop periodically dumps the in-memory SQLite database to disk.
// VACUUM INTO creates a point-in-time snapshot, so no pause mechanism is needed.
func (b *Backend) dumpLoop() {
	defer b.done.Done()
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()

	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.dump(); err != nil {
				b.deps.Logger.Error().Err(err).Msg("Error dumping to disk")
			}
		}
	}
}
