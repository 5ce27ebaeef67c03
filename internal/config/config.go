package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Storage  StorageConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// StorageConfig holds object storage settings.
type StorageConfig struct {
	ObjectsDir string
}

// LogConfig holds logging settings. The TUI owns stdout, so logs go
// to a file.
type LogConfig struct {
	Path  string
	Level string
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "stockdeck")
}

// Load reads configuration from file and env. Env var overrides use prefix STOCKDECK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "stockdeck.db"))
	v.SetDefault("storage.objects_dir", filepath.Join(dataDir(), "objects"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "stockdeck.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("STOCKDECK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "stockdeck"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("STOCKDECK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("STOCKDECK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "stockdeck", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("storage.objects_dir", cfg.Storage.ObjectsDir)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
