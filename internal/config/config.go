// Package config loads the YAML application configuration with environment
// overrides for deployment-specific values and secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Oracle  OracleConfig  `yaml:"oracle"`
	Limits  LimitsConfig  `yaml:"limits"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bind_address"`
	EnableCORS   bool   `yaml:"enable_cors"`
	AllowOrigins string `yaml:"allow_origins"`
	BodyLimit    string `yaml:"body_limit"`
}

// StorageConfig contains table persistence settings.
type StorageConfig struct {
	DataDirectory          string `yaml:"data_directory"`
	SessionTTLMinutes      int    `yaml:"session_ttl_minutes"`
	CleanupIntervalMinutes int    `yaml:"cleanup_interval_minutes"`
}

// OracleConfig points at an OpenAI-compatible chat-completions endpoint.
// The API key is normally supplied via ORACLE_API_KEY rather than the file.
type OracleConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LimitsConfig bounds uploads.
type LimitsConfig struct {
	MaxUploadSize string `yaml:"max_upload_size"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8000,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			BodyLimit:    "50M",
		},
		Storage: StorageConfig{
			DataDirectory:          "./data",
			SessionTTLMinutes:      120,
			CleanupIntervalMinutes: 10,
		},
		Oracle: OracleConfig{
			BaseURL:        "https://openrouter.ai/api/v1",
			Model:          "google/gemini-flash-1.5",
			TimeoutSeconds: 60,
		},
		Limits: LimitsConfig{
			MaxUploadSize: "50M",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads the YAML config at path, falling back to defaults when the
// file is absent. Environment overrides are applied either way and relative
// storage paths resolve against the config file's directory.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// defaults only
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

func (c *Config) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}
	if key := os.Getenv("ORACLE_API_KEY"); key != "" {
		c.Oracle.APIKey = key
	}
	if base := os.Getenv("ORACLE_BASE_URL"); base != "" {
		c.Oracle.BaseURL = base
	}
	if model := os.Getenv("ORACLE_MODEL"); model != "" {
		c.Oracle.Model = model
	}
}

func (c *Config) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
}

// ServerAddr returns the listen address.
func (c *Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// SessionTTL returns the table retention period.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Storage.SessionTTLMinutes) * time.Minute
}

// CleanupInterval returns how often expired tables are purged.
func (c *Config) CleanupInterval() time.Duration {
	return time.Duration(c.Storage.CleanupIntervalMinutes) * time.Minute
}

// OracleTimeout returns the oracle HTTP timeout.
func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.Oracle.TimeoutSeconds) * time.Second
}
