package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "drillboard.cfg.json"

// StorageConfig selects and configures the document store.
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage settings. An empty Path keeps the database
// in memory and dumps it to DumpPath every DumpInterval.
type SQLiteConfig struct {
	Path         string        `json:"path" mapstructure:"path"`
	DumpPath     string        `json:"dumpPath" mapstructure:"dumpPath"`
	DumpInterval time.Duration `json:"dumpInterval" mapstructure:"dumpInterval"`
}

// ExportConfig holds export pipeline settings.
type ExportConfig struct {
	PixelRatio  float64       `json:"pixelRatio" mapstructure:"pixelRatio"`
	SettleDelay time.Duration `json:"settleDelay" mapstructure:"settleDelay"`
	OutputDir   string        `json:"outputDir" mapstructure:"outputDir"`
	Format      string        `json:"format" mapstructure:"format"`
	// Stage is "offscreen" or "shared". SettleDelay only applies to the shared stage.
	Stage       string        `json:"stage" mapstructure:"stage"`
}

// EditorConfig holds interaction tuning.
type EditorConfig struct {
	MinShapeSize float64 `json:"minShapeSize" mapstructure:"minShapeSize"`
	HandleRadius float64 `json:"handleRadius" mapstructure:"handleRadius"`
	HitTolerance float64 `json:"hitTolerance" mapstructure:"hitTolerance"`
}

// InfluxConfig holds the export metrics sink settings.
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// SetDefaults registers the default value of every key.
func SetDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./drillboard-logs")

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./sessions")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.sqlite.path", "./drillboard.db")
	viper.SetDefault("storage.sqlite.dumpPath", "")
	viper.SetDefault("storage.sqlite.dumpInterval", "3m")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "drillboard")

	viper.SetDefault("export.pixelRatio", 2.0)
	viper.SetDefault("export.settleDelay", "0s")
	viper.SetDefault("export.outputDir", "./exports")
	viper.SetDefault("export.format", "pdf")
	viper.SetDefault("export.stage", "offscreen")

	viper.SetDefault("editor.minShapeSize", 2.0)
	viper.SetDefault("editor.handleRadius", 10.0)
	viper.SetDefault("editor.hitTolerance", 2.0)

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "drillboard")
	viper.SetDefault("influx.bucket", "export_performance")
	viper.SetDefault("influx.backupPath", "")
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	SetDefaults()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetStorageConfig returns the storage settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path:         viper.GetString("storage.sqlite.path"),
			DumpPath:     viper.GetString("storage.sqlite.dumpPath"),
			DumpInterval: viper.GetDuration("storage.sqlite.dumpInterval"),
		},
	}
}

// GetExportConfig returns the export settings.
func GetExportConfig() ExportConfig {
	return ExportConfig{
		PixelRatio:  viper.GetFloat64("export.pixelRatio"),
		SettleDelay: viper.GetDuration("export.settleDelay"),
		OutputDir:   viper.GetString("export.outputDir"),
		Format:      viper.GetString("export.format"),
		Stage:       viper.GetString("export.stage"),
	}
}

// GetEditorConfig returns the editor settings.
func GetEditorConfig() EditorConfig {
	return EditorConfig{
		MinShapeSize: viper.GetFloat64("editor.minShapeSize"),
		HandleRadius: viper.GetFloat64("editor.handleRadius"),
		HitTolerance: viper.GetFloat64("editor.hitTolerance"),
	}
}

// GetInfluxConfig returns the influx sink settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Protocol:   viper.GetString("influx.protocol"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}
