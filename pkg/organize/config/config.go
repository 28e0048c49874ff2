// Package config loads and persists the tool's TOML configuration, including
// the named pattern profiles a run can select by name.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Profile is a named, reusable pattern rule.
type Profile struct {
	Name  string `toml:"name" json:"name"`
	Regex string `toml:"regex" json:"regex"`
}

// Config is the persisted application configuration.
type Config struct {
	// LastUsedDirectory is remembered across runs as the default root.
	LastUsedDirectory string `toml:"last_used_directory"`
	// ActiveProfile selects the pattern profile used when no explicit pattern
	// is given.
	ActiveProfile     string    `toml:"active_profile"`
	IncludeSubfolders bool      `toml:"include_subfolders"`
	Backup            bool      `toml:"backup"`
	Workers           int       `toml:"workers"`
	LogLevel          string    `toml:"log_level"`
	Profiles          []Profile `toml:"profiles"`
}

// Default returns the built-in configuration, including the stock profiles.
func Default() *Config {
	return &Config{
		ActiveProfile: "Default",
		Workers:       4,
		LogLevel:      "info",
		Profiles: []Profile{
			{Name: "Default", Regex: `^(.*)\..*$`},
			{Name: "Video files", Regex: `^(.*)\.(mkv|mp4|avi|mov|wmv|flv|webm|ogv|mpg|m4v|3gp|f4v|mpeg|vob|rm|rmvb|asf|dat|mts|m2ts|ts)$`},
			{Name: "Text files", Regex: `^(.*)\.(txt|doc|docx|odt|pdf)$`},
			{Name: "Image files", Regex: `^(.*)\.(jpg|jpeg|png|gif|bmp|svg|tiff)$`},
		},
	}
}

// Load reads the config at path. A missing file yields the defaults; fields a
// present file leaves unset fall back to them. Decoding starts from a zero
// Config because toml appends array tables to preset slices.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := &Config{}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	defaults := Default()
	if len(cfg.Profiles) == 0 {
		cfg.Profiles = defaults.Profiles
	}
	if cfg.ActiveProfile == "" {
		cfg.ActiveProfile = defaults.ActiveProfile
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaults.Workers
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = defaults.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to path, creating parent directories as needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the structural constraints the rest of the tool assumes.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative")
	}
	seen := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if p.Name == "" {
			return fmt.Errorf("config: profile with empty name")
		}
		if seen[p.Name] {
			return fmt.Errorf("config: duplicate profile %q", p.Name)
		}
		seen[p.Name] = true
	}
	return nil
}

// FindProfile returns the profile with the given name.
func (c *Config) FindProfile(name string) (Profile, bool) {
	for _, p := range c.Profiles {
		if p.Name == name {
			return p, true
		}
	}
	return Profile{}, false
}

// AddProfile appends a new profile, rejecting duplicate names.
func (c *Config) AddProfile(p Profile) error {
	if p.Name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if _, exists := c.FindProfile(p.Name); exists {
		return fmt.Errorf("profile %q already exists", p.Name)
	}
	c.Profiles = append(c.Profiles, p)
	return nil
}

// DefaultPath returns the per-user config location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config directory: %w", err)
	}
	return filepath.Join(dir, "organize", "config.toml"), nil
}
