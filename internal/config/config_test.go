package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"db": { "host": "10.0.0.1", "port": "5433" }
	}`)

	err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", viper.GetString("logLevel"))
	assert.Equal(t, "10.0.0.1", viper.GetString("db.host"))
	assert.Equal(t, "5433", viper.GetString("db.port"))
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", viper.GetString("logLevel"))
	assert.Equal(t, "./drillboard-logs", viper.GetString("logsDir"))
	assert.Equal(t, "localhost", viper.GetString("db.host"))
	assert.Equal(t, "5432", viper.GetString("db.port"))
	assert.Equal(t, "postgres", viper.GetString("db.username"))
	assert.Equal(t, "postgres", viper.GetString("db.password"))
	assert.Equal(t, "drillboard", viper.GetString("db.database"))
	assert.Equal(t, "memory", viper.GetString("storage.type"))
	assert.Equal(t, false, viper.GetBool("influx.enabled"))
}

func TestLoad_MissingFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load("/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")

	var notFound viper.ConfigFileNotFoundError
	assert.ErrorAs(t, err, &notFound)

	// defaults are still registered
	assert.Equal(t, "memory", GetStorageConfig().Type)
}

func TestGetString(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testKey", "testValue")
	assert.Equal(t, "testValue", GetString("testKey"))
}

func TestGetInt(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testInt", 42)
	assert.Equal(t, 42, GetInt("testInt"))
}

func TestGetBool(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("testBool", true)
	assert.Equal(t, true, GetBool("testBool"))
}

func TestGetStorageConfig_Defaults(t *testing.T) {
	t.Cleanup(viper.Reset)
	require.NoError(t, Load(writeConfig(t, `{}`)))

	cfg := GetStorageConfig()
	assert.Equal(t, "memory", cfg.Type)
	assert.Equal(t, "./sessions", cfg.Memory.OutputDir)
	assert.Equal(t, false, cfg.Memory.CompressOutput)
	assert.Equal(t, "./drillboard.db", cfg.SQLite.Path)
	assert.Equal(t, 3*time.Minute, cfg.SQLite.DumpInterval)
}

func TestGetStorageConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"storage": {
			"type": "sqlite",
			"memory": { "outputDir": "/tmp/out", "compressOutput": true },
			"sqlite": { "path": "", "dumpPath": "/tmp/dump.db", "dumpInterval": "10m" }
		}
	}`)
	require.NoError(t, Load(dir))

	sc := GetStorageConfig()
	assert.Equal(t, "sqlite", sc.Type)
	assert.Equal(t, "/tmp/out", sc.Memory.OutputDir)
	assert.Equal(t, true, sc.Memory.CompressOutput)
	assert.Equal(t, "", sc.SQLite.Path)
	assert.Equal(t, "/tmp/dump.db", sc.SQLite.DumpPath)
	assert.Equal(t, 10*time.Minute, sc.SQLite.DumpInterval)
}

func TestGetExportConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))
	ec := GetExportConfig()
	assert.Equal(t, 2.0, ec.PixelRatio)
	assert.Equal(t, time.Duration(0), ec.SettleDelay)
	assert.Equal(t, "pdf", ec.Format)
	assert.Equal(t, "offscreen", ec.Stage)

	viper.Set("export.settleDelay", "500ms")
	viper.Set("export.pixelRatio", 3)
	ec = GetExportConfig()
	assert.Equal(t, 500*time.Millisecond, ec.SettleDelay)
	assert.Equal(t, 3.0, ec.PixelRatio)
}

func TestGetEditorConfig(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{"editor": {"minShapeSize": 0}}`)))
	ec := GetEditorConfig()
	assert.Equal(t, 0.0, ec.MinShapeSize)
	assert.Equal(t, 10.0, ec.HandleRadius)
	assert.Equal(t, 2.0, ec.HitTolerance)
}

func TestGetInfluxConfig_Override(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"influx": {
			"enabled": true,
			"host": "influx.local",
			"token": "secret",
			"bucket": "exports"
		}
	}`)
	require.NoError(t, Load(dir))

	ic := GetInfluxConfig()
	assert.True(t, ic.Enabled)
	assert.Equal(t, "influx.local", ic.Host)
	assert.Equal(t, "8086", ic.Port)
	assert.Equal(t, "http", ic.Protocol)
	assert.Equal(t, "secret", ic.Token)
	assert.Equal(t, "drillboard", ic.Org)
	assert.Equal(t, "exports", ic.Bucket)
}
