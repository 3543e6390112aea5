// Package config provides configuration management for nearly.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	json "github.com/goccy/go-json"
)

const (
	// DefaultListenPort is the default HTTP port for the gate service.
	DefaultListenPort = 8094

	// DefaultHistoryLimit is the default page size for run listings.
	DefaultHistoryLimit = 50
)

// Config holds the application configuration.
type Config struct {
	// Service settings
	ListenPort int `json:"listen_port"`

	// Storage settings
	DBPath string `json:"db_path"`

	// Gate settings
	RulesPath string `json:"rules_path"`

	// Dispatch settings: QoS class name to concurrency limit.
	PoolLimits map[string]int64 `json:"pool_limits"`

	// Logging
	LogLevel string `json:"log_level"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// DataDir returns the data directory path (~/.nearly).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".nearly")
}

// DBPath returns the default database file path.
func DBPath() string {
	return filepath.Join(DataDir(), "nearly.db")
}

// SettingsPath returns the settings file path.
func SettingsPath() string {
	return filepath.Join(DataDir(), "settings.json")
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		ListenPort: DefaultListenPort,
		DBPath:     DBPath(),
		LogLevel:   "info",
	}
}

// Load reads the settings file and merges it over the defaults. A missing
// file is not an error; a malformed one falls back to defaults.
func Load() (*Config, error) {
	return LoadFrom(SettingsPath())
}

// LoadFrom is Load against an explicit settings path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), nil
	}
	if cfg.ListenPort <= 0 {
		cfg.ListenPort = DefaultListenPort
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DBPath()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	configOnce.Do(func() {
		var err error
		globalConfig, err = Load()
		if err != nil {
			globalConfig = Default()
		}
	})
	return globalConfig
}

// EffectiveListenPort returns the listen port, letting the NEARLY_PORT
// environment variable override the configured one.
func (c *Config) EffectiveListenPort() int {
	if port := os.Getenv("NEARLY_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil && p > 0 {
			return p
		}
	}
	return c.ListenPort
}

// GetListenPort returns the effective listen port of the global config.
func GetListenPort() int {
	return Get().EffectiveListenPort()
}
