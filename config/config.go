// Package config loads the engine configuration from a YAML file,
// falling back to XDG-based defaults when no file exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/quaerolabs/quaero/core"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// BaseDir is the root of the corpus data tree. The corpus database
	// and article files live under base_dir/wiki_dumps/<lang>/.
	BaseDir string `yaml:"base_dir"`

	// Lang selects the corpus language subdirectory. Default "en".
	Lang string `yaml:"lang"`

	// StateDir holds the engine's cache/history/settings store.
	StateDir string `yaml:"state_dir"`

	// DefaultMode is used when no mode has been persisted yet.
	DefaultMode string `yaml:"default_mode"`

	// WebTimeout bounds each web search call, e.g. "10s".
	WebTimeout string `yaml:"web_timeout"`

	// WebMaxResults caps how many web results are folded into one answer.
	WebMaxResults int `yaml:"web_max_results,omitempty"`

	// BuildLimit caps how many article files a corpus build ingests.
	// Zero means no cap.
	BuildLimit int `yaml:"build_limit,omitempty"`
}

func defaults() *Config {
	return &Config{
		BaseDir:     filepath.Join(xdg.DataHome, "quaero"),
		Lang:        "en",
		StateDir:    filepath.Join(xdg.StateHome, "quaero"),
		DefaultMode: string(core.ModeHybrid),
		WebTimeout:  "10s",
	}
}

// DefaultConfigPath returns where Load looks when no path is given.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "quaero", "config.yaml")
}

// CorpusPath returns the corpus database location for the configured
// language.
func (c *Config) CorpusPath() string {
	return filepath.Join(c.BaseDir, "wiki_dumps", c.Lang, "wikipedia.db")
}

// ArticlesDir returns the per-article text file directory for the
// configured language.
func (c *Config) ArticlesDir() string {
	return filepath.Join(c.BaseDir, "wiki_dumps", c.Lang, "articles")
}

// WebTimeoutDuration parses the web timeout, defaulting to 10s.
func (c *Config) WebTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.WebTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Mode parses the configured default mode, defaulting to hybrid.
func (c *Config) Mode() core.Mode {
	mode, err := core.ParseMode(c.DefaultMode)
	if err != nil {
		return core.ModeHybrid
	}
	return mode
}

// Load reads the configuration at path. An empty path means the default
// location; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return defaults(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the engine cannot start with.
func (c *Config) Validate() error {
	if c.BaseDir == "" {
		return fmt.Errorf("base_dir is required")
	}
	if c.Lang == "" {
		return fmt.Errorf("lang is required")
	}
	if c.StateDir == "" {
		return fmt.Errorf("state_dir is required")
	}
	if c.DefaultMode != "" {
		if _, err := core.ParseMode(c.DefaultMode); err != nil {
			return fmt.Errorf("default_mode %q: %w", c.DefaultMode, err)
		}
	}
	if c.WebTimeout != "" {
		if _, err := time.ParseDuration(c.WebTimeout); err != nil {
			return fmt.Errorf("web_timeout %q: %w", c.WebTimeout, err)
		}
	}
	if c.WebMaxResults < 0 {
		return fmt.Errorf("web_max_results must not be negative")
	}
	if c.BuildLimit < 0 {
		return fmt.Errorf("build_limit must not be negative")
	}
	return nil
}
