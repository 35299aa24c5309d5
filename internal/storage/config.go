// Manages server configuration stored in config.yaml.

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config stores all server-wide configuration.
// Loaded from config.yaml in the data directory, created with defaults if missing.
type Config struct {
	// Git holds the author identity used for commits made by the server.
	Git GitConfig `yaml:"git"`

	// Renderer holds the connection settings for the fountain parser service.
	Renderer RendererConfig `yaml:"renderer"`

	// RateLimits defines rate limiting configuration.
	RateLimits RateLimits `yaml:"rate_limits"`
}

// GitConfig is the commit author identity.
type GitConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// RendererConfig configures the external fountain rendering service.
type RendererConfig struct {
	// URL is the base URL of the parser service.
	URL string `yaml:"url"`

	// TimeoutSeconds bounds each render call. 0 uses the default (5s).
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// RateLimits defines rate limiting configuration (requests per minute).
// 0 means unlimited.
type RateLimits struct {
	// WriteRatePerMin limits mutating operations (POST/PUT/DELETE).
	WriteRatePerMin int `yaml:"write_rate_per_min"`

	// ReadRatePerMin limits read operations.
	ReadRatePerMin int `yaml:"read_rate_per_min"`
}

// Validate checks that rate limit values are non-negative.
func (r *RateLimits) Validate() error {
	if r.WriteRatePerMin < 0 {
		return errors.New("write_rate_per_min must be non-negative")
	}
	if r.ReadRatePerMin < 0 {
		return errors.New("read_rate_per_min must be non-negative")
	}
	return nil
}

// DefaultConfig returns the configuration written on first start.
func DefaultConfig() *Config {
	return &Config{
		Git: GitConfig{
			AuthorName:  "scriptforge",
			AuthorEmail: "scriptforge@localhost",
		},
		Renderer: RendererConfig{
			URL:            "http://localhost:4000",
			TimeoutSeconds: 5,
		},
		RateLimits: RateLimits{
			WriteRatePerMin: 600,
			ReadRatePerMin:  6000,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Git.AuthorName == "" {
		return errors.New("git.author_name is required")
	}
	if c.Git.AuthorEmail == "" {
		return errors.New("git.author_email is required")
	}
	if c.Renderer.TimeoutSeconds < 0 {
		return errors.New("renderer.timeout_seconds must be non-negative")
	}
	return c.RateLimits.Validate()
}

// LoadConfig loads config.yaml from dataDir, creating it with defaults if missing.
func LoadConfig(dataDir string) (*Config, error) {
	path := filepath.Join(dataDir, "config.yaml")
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg := DefaultConfig()
		if err := cfg.Save(dataDir); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to config.yaml in dataDir.
func (c *Config) Save(dataDir string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	path := filepath.Join(dataDir, "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
