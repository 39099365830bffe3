// Package config resolves refman settings from built-in defaults, the
// global config file and the environment, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matsen/refman/internal/fetch"
)

// Config is the resolved configuration.
type Config struct {
	DataDir   string        `json:"data_dir"`
	Editor    string        `json:"editor"`
	UserAgent string        `json:"user_agent"`
	MirrorURL string        `json:"mirror_url"`
	Timeout   time.Duration `json:"timeout"`
	RateLimit float64       `json:"rate_limit"`
	Reader    string        `json:"reader"`
}

const (
	// DefaultDataDir is the store root, relative to the working directory.
	DefaultDataDir = "refman_data"
	// DefaultEditor is used when neither the config nor $EDITOR name one.
	DefaultEditor = "nano"
)

// Environment variables that override the config file.
const (
	EnvDataDir   = "REFMAN_DATA"
	EnvEditor    = "EDITOR"
	EnvMirrorURL = "REFMAN_MIRROR_URL"
	EnvUserAgent = "REFMAN_USER_AGENT"
)

// ValidReaders lists the supported document reader values.
var ValidReaders = []string{"system", "skim", "zathura", "evince", "okular"}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:   DefaultDataDir,
		Editor:    DefaultEditor,
		UserAgent: fetch.DefaultUserAgent,
		Timeout:   fetch.DefaultTimeout,
		RateLimit: fetch.DefaultRateLimit,
		Reader:    "system",
	}
}

// Load resolves the configuration. The data directory is returned as an
// absolute path.
func Load() (*Config, error) {
	cfg := Default()

	global, err := LoadGlobalConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.apply(global); err != nil {
		return nil, err
	}

	cfg.DataDir = GetConfigValue(EnvDataDir, cfg.DataDir)
	cfg.Editor = GetConfigValue(EnvEditor, cfg.Editor)
	cfg.MirrorURL = GetConfigValue(EnvMirrorURL, cfg.MirrorURL)
	cfg.UserAgent = GetConfigValue(EnvUserAgent, cfg.UserAgent)

	abs, err := filepath.Abs(ExpandPath(cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}
	cfg.DataDir = abs

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(g *GlobalConfig) error {
	if g.DataDir != "" {
		c.DataDir = g.DataDir
	}
	if g.Editor != "" {
		c.Editor = g.Editor
	}
	if g.UserAgent != "" {
		c.UserAgent = g.UserAgent
	}
	if g.MirrorURL != "" {
		c.MirrorURL = g.MirrorURL
	}
	if g.Timeout != "" {
		d, err := time.ParseDuration(g.Timeout)
		if err != nil {
			return fmt.Errorf("parsing timeout %q: %w", g.Timeout, err)
		}
		c.Timeout = d
	}
	if g.RateLimit != 0 {
		c.RateLimit = g.RateLimit
	}
	if g.Reader != "" {
		c.Reader = g.Reader
	}
	return nil
}

// Validate checks the resolved values.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive, got %g", c.RateLimit)
	}
	return ValidateReader(c.Reader)
}

// ValidateReader checks that the reader value is valid.
func ValidateReader(reader string) error {
	if reader == "" {
		return nil // Empty defaults to "system"
	}

	for _, valid := range ValidReaders {
		if reader == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid reader: %s (valid: %v)", reader, ValidReaders)
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
