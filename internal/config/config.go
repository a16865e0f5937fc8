// Package config provides configuration management for familytree.
//
// A family tree directory can carry its own familytree.yaml next to the
// population files, so config is searched for there before the user and
// system locations. See SearchPaths for the full order.
//
// Environment variables override individual keys after the file is read.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"familytree/internal/domain"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidPolicy is returned for an unknown inference.partner_policy
	ErrInvalidPolicy = errors.New("invalid partner policy")
	// ErrInvalidFormat is returned for an unknown report.format
	ErrInvalidFormat = errors.New("invalid report format")
)

const (
	// DefaultDebounce is the watcher debounce when none is configured
	DefaultDebounce = 500 * time.Millisecond

	EnvConfigPath    = "FAMILYTREE_CONFIG"
	EnvLogLevel      = "FAMILYTREE_LOG_LEVEL"
	EnvPartnerPolicy = "FAMILYTREE_PARTNER_POLICY"

	// ConfigFileName is looked up in the working and population directories
	ConfigFileName = "familytree.yaml"
	// ConfigDirName is the directory under XDG, ~/.config and /etc
	ConfigDirName = "familytree"
)

// SearchPaths lists config candidates in priority order:
//  1. $FAMILYTREE_CONFIG
//  2. ./familytree.yaml
//  3. <dataDir>/familytree.yaml, when dataDir is set
//  4. $XDG_CONFIG_HOME/familytree/config.yaml
//  5. ~/.config/familytree/config.yaml
//  6. /etc/familytree/config.yaml
func SearchPaths(dataDir string) []string {
	var paths []string
	if env := os.Getenv(EnvConfigPath); env != "" {
		paths = append(paths, env)
	}
	paths = append(paths, ConfigFileName)
	if dataDir != "" && filepath.Clean(dataDir) != "." {
		paths = append(paths, filepath.Join(dataDir, ConfigFileName))
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing candidate of SearchPaths,
// or an empty string
func FindConfigPath(dataDir string) string {
	for _, path := range SearchPaths(dataDir) {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
		return path
	}
	return ""
}

// DefaultConfigPath returns where init writes a new config file
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, ConfigDirName, "config.yaml")
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config", ConfigDirName, "config.yaml")
	}
	return ConfigFileName
}

// Load finds and loads the config file, or returns defaults if none found.
// dataDir is the directory of the population being loaded; it may be empty.
func Load(dataDir string) (*Config, string, error) {
	path := FindConfigPath(dataDir)

	if path == "" {
		cfg := DefaultConfig()
		cfg.ApplyEnv()
		return cfg, "", cfg.Validate()
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Env == "" {
		c.Log.Env = "development"
	}
	if c.Inference.PartnerPolicy == "" {
		c.Inference.PartnerPolicy = domain.PartnerReciprocal
	}
	if c.Report.Format == "" {
		c.Report.Format = "text"
	}
}

// ApplyEnv overrides keys from environment variables
func (c *Config) ApplyEnv() {
	if level := os.Getenv(EnvLogLevel); level != "" {
		c.Log.Level = level
	}
	if policy := os.Getenv(EnvPartnerPolicy); policy != "" {
		c.Inference.PartnerPolicy = domain.PartnerPolicy(strings.ToLower(policy))
	}
}

// Validate checks enumerated settings
func (c *Config) Validate() error {
	if !c.Inference.PartnerPolicy.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, c.Inference.PartnerPolicy)
	}
	switch c.Report.Format {
	case "text", "yaml", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, c.Report.Format)
	}
	return nil
}

// WatchDebounce returns the configured debounce or the default
func (c *Config) WatchDebounce() time.Duration {
	if c.Watch.Debounce == nil {
		return DefaultDebounce
	}
	return c.Watch.Debounce.Duration()
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	return fmt.Sprintf("Partner policy: %s, Report: %s, Log: %s/%s",
		c.Inference.PartnerPolicy, c.Report.Format, c.Log.Level, c.Log.Env)
}
