package shared

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Storage drivers accepted by [StorageConfig.Driver].
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Scan     ScanConfig     `toml:"scan"`
	Preview  PreviewConfig  `toml:"preview"`
}

// StorageConfig selects the persistence backend for the tag and history stores.
type StorageConfig struct {
	Driver      string `toml:"driver"`
	DataDir     string `toml:"data_dir"`
	TagsFile    string `toml:"tags_file"`
	HistoryFile string `toml:"history_file"`
	BadgerDir   string `toml:"badger_dir"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains application and rename log settings.
type LogConfig struct {
	Level      string `toml:"level"`
	RenamePath string `toml:"rename_path"`
	TUIPath    string `toml:"tui_path"`
}

// ScanConfig contains directory scan settings.
type ScanConfig struct {
	Extensions []string `toml:"extensions"`
}

// PreviewConfig contains thumbnail dimensions.
type PreviewConfig struct {
	Width  uint `toml:"width"`
	Height uint `toml:"height"`
}

// TagsPath returns the tag store file path for the file driver.
func (c *Config) TagsPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.TagsFile)
}

// HistoryPath returns the history store file path for the file driver.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.HistoryFile)
}

// BadgerPath returns the badger directory.
func (c *Config) BadgerPath() string {
	return filepath.Join(c.Storage.DataDir, c.Storage.BadgerDir)
}

// Validate checks the driver and scan settings.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverSQLite, DriverBadger:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if len(c.Scan.Extensions) == 0 {
		return fmt.Errorf("%w: scan.extensions must not be empty", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the embedded defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads a .env file into the process environment when one exists.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides config values from PHOTOTAG_* environment variables.
func ApplyEnv(c *Config) {
	if v := os.Getenv("PHOTOTAG_STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("PHOTOTAG_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("PHOTOTAG_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("PHOTOTAG_DATABASE"); v != "" {
		c.Database.Path = v
	}
}

// ConfigPath returns the config file path, honoring PHOTOTAG_CONFIG.
func ConfigPath(fallback string) string {
	if v := os.Getenv("PHOTOTAG_CONFIG"); v != "" {
		return v
	}
	return fallback
}
