// Package config loads editor settings from a TOML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Theme holds status and message row colors as lipgloss color strings.
type Theme struct {
	StatusFg  string `toml:"status_fg"`
	StatusBg  string `toml:"status_bg"`
	ModeFg    string `toml:"mode_fg"`
	ModeBg    string `toml:"mode_bg"`
	MessageFg string `toml:"message_fg"`
	ErrorFg   string `toml:"error_fg"`
	ErrorBg   string `toml:"error_bg"`
}

// Config holds application configuration.
type Config struct {
	TabWidth       int    `toml:"tab_width"`
	PollIntervalMS int    `toml:"poll_interval_ms"`
	LogFile        string `toml:"log_file"`
	LogLevel       string `toml:"log_level"`
	Theme          Theme  `toml:"theme"`
}

var logLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		TabWidth:       4,
		PollIntervalMS: 10,
		LogLevel:       "info",
		Theme: Theme{
			StatusFg:  "#AAAAAA",
			StatusBg:  "#333333",
			ModeFg:    "#FFFFFF",
			ModeBg:    "#7D56F4",
			MessageFg: "#FFFFFF",
			ErrorFg:   "#FFFFFF",
			ErrorBg:   "#C0392B",
		},
	}
}

// Path returns the default config location, ~/.config/revim/config.toml.
func Path() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "revim", "config.toml")
}

// Load reads the config at path on top of the defaults. A missing file is not
// an error. Environment overrides are applied before validation.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = Path()
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns every problem with the configuration joined together.
func (c *Config) Validate() error {
	var errs []error
	if c.TabWidth < 1 || c.TabWidth > 16 {
		errs = append(errs, fmt.Errorf("tab_width=%d must be between 1 and 16", c.TabWidth))
	}
	if c.PollIntervalMS < 1 || c.PollIntervalMS > 1000 {
		errs = append(errs, fmt.Errorf("poll_interval_ms=%d must be between 1 and 1000", c.PollIntervalMS))
	}
	if !logLevels[c.LogLevel] {
		errs = append(errs, fmt.Errorf("log_level=%q must be one of debug, info, warn, error", c.LogLevel))
	}
	return errors.Join(errs...)
}

func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"REVIM_LOG_FILE", func(v string) { cfg.LogFile = v }},
		{"REVIM_LOG_LEVEL", func(v string) { cfg.LogLevel = v }},
	} {
		if v := os.Getenv(setter.env); v != "" {
			setter.apply(v)
		}
	}
}

// Save writes cfg to path as TOML, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		return err
	}
	FixOwnership(path)
	return nil
}
