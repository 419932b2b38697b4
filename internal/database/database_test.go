package database

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scorelect/drillboard/internal/model"
)

func TestPostgresDSN(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	viper.Set("db.host", "db.local")
	viper.Set("db.port", 6543)
	viper.Set("db.username", "coach")
	viper.Set("db.password", "secret")
	viper.Set("db.database", "drills")

	assert.Equal(t, "host=db.local port=6543 user=coach password=secret dbname=drills sslmode=disable", PostgresDSN())
}

func TestManager_ConnectSqliteAndSetup(t *testing.T) {
	m := NewManager(zerolog.Nop())
	assert.False(t, m.IsValid)

	require.NoError(t, m.ConnectSqlite(filepath.Join(t.TempDir(), "docs.db")))
	assert.True(t, m.IsValid)
	assert.Equal(t, "sqlite", m.DB.Dialector.Name())

	require.NoError(t, m.Setup())
	assert.True(t, m.DB.Migrator().HasTable(&model.DocumentRecord{}))

	require.NoError(t, m.Close())
	assert.False(t, m.IsValid)
}

func TestManager_CloseWithoutConnection(t *testing.T) {
	assert.NoError(t, NewManager(zerolog.Nop()).Close())
}

func TestDumpMemoryDBToDisk(t *testing.T) {
	db, err := GetSqliteDB(filepath.Join(t.TempDir(), "src.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db, zerolog.Nop()))

	out := filepath.Join(t.TempDir(), "dump.db")
	require.NoError(t, DumpMemoryDBToDisk(db, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	// an existing dump is replaced
	require.NoError(t, DumpMemoryDBToDisk(db, out))
}

func TestDumpMemoryDBToDisk_RequiresPath(t *testing.T) {
	db, err := GetSqliteDB(filepath.Join(t.TempDir(), "src.db"))
	require.NoError(t, err)
	assert.Error(t, DumpMemoryDBToDisk(db, ""))
}
