package factory

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorelect/drillboard/internal/config"
	"github.com/scorelect/drillboard/internal/storage/memory"
	sqlitestorage "github.com/scorelect/drillboard/internal/storage/sqlite"
)

func TestNewBackend_Memory(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{Type: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)
}

func TestNewBackend_DefaultsToMemory(t *testing.T) {
	b, err := NewBackend(config.StorageConfig{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &memory.Backend{}, b)
}

func TestNewBackend_Sqlite(t *testing.T) {
	cfg := config.StorageConfig{Type: "sqlite", SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "docs.db")}}

	b, err := NewBackend(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &sqlitestorage.Backend{}, b)
	require.NoError(t, b.Init())
	assert.NoError(t, b.Close())
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := NewBackend(config.StorageConfig{Type: "mongo"}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage type")
}
