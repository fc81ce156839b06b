// Package config provides configuration management for lookbook.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/thebtf/lookbook/pkg/models"
)

const (
	// DefaultWorkerPort is the default HTTP port for the worker service.
	DefaultWorkerPort = 38100

	// DefaultStoreBackend keeps history in process memory unless a
	// database is configured.
	DefaultStoreBackend = "memory"
)

// Config holds the application configuration.
type Config struct {
	// Worker settings
	WorkerPort       int `yaml:"worker_port"`
	RateLimitPerMin  int `yaml:"rate_limit_per_min"`
	RateLimitBurst   int `yaml:"rate_limit_burst"`
	RequestTimeoutMS int `yaml:"request_timeout_ms"`

	// History store settings. Backend is one of memory, sqlite, postgres.
	StoreBackend string `yaml:"store_backend"`
	SQLitePath   string `yaml:"sqlite_path"`
	PostgresDSN  string `yaml:"postgres_dsn"`
	MaxConns     int    `yaml:"max_conns"`

	// Engine thresholds. Absent blocks fall back to the tuned defaults.
	Scoring   *models.ScoringConfig   `yaml:"scoring"`
	WetSafety *models.WetSafetyConfig `yaml:"wet_safety"`
	Diversity *models.DiversityConfig `yaml:"diversity"`
	Rerank    *models.RerankConfig    `yaml:"rerank"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

// DataDir returns the data directory path (~/.lookbook).
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".lookbook")
}

// SettingsPath returns the settings file path, honoring LOOKBOOK_CONFIG.
func SettingsPath() string {
	if p := os.Getenv("LOOKBOOK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DataDir(), "settings.yaml")
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0750)
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		WorkerPort:       DefaultWorkerPort,
		RateLimitPerMin:  120,
		RateLimitBurst:   20,
		RequestTimeoutMS: 10000,
		StoreBackend:     DefaultStoreBackend,
		SQLitePath:       filepath.Join(DataDir(), "lookbook.db"),
		MaxConns:         4,
		Scoring:          models.DefaultScoringConfig(),
		WetSafety:        models.DefaultWetSafetyConfig(),
		Diversity:        models.DefaultDiversityConfig(),
		Rerank:           models.DefaultRerankConfig(),
	}
}

// Load loads configuration from the settings file, merging with
// defaults, then applies environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(SettingsPath())
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	applyEnv(cfg)
	return cfg, nil
}

// fillDefaults restores tuned values when the settings file zeroed an
// entire threshold block.
func (c *Config) fillDefaults() {
	if c.WorkerPort <= 0 {
		c.WorkerPort = DefaultWorkerPort
	}
	if c.StoreBackend == "" {
		c.StoreBackend = DefaultStoreBackend
	}
	if c.MaxConns <= 0 {
		c.MaxConns = 4
	}
	if c.Scoring == nil {
		c.Scoring = models.DefaultScoringConfig()
	}
	if c.WetSafety == nil {
		c.WetSafety = models.DefaultWetSafetyConfig()
	}
	if c.Diversity == nil {
		c.Diversity = models.DefaultDiversityConfig()
	}
	if c.Rerank == nil {
		c.Rerank = models.DefaultRerankConfig()
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LOOKBOOK_WORKER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			cfg.WorkerPort = p
		}
	}
	if v := os.Getenv("LOOKBOOK_STORE_BACKEND"); v != "" {
		cfg.StoreBackend = v
	}
	if v := os.Getenv("LOOKBOOK_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("LOOKBOOK_POSTGRES_DSN"); v != "" {
		cfg.PostgresDSN = v
	}
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
