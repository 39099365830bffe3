package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in ~/.config/refman/config.yml.
type GlobalConfig struct {
	DataDir   string  `yaml:"data_dir,omitempty"`
	Editor    string  `yaml:"editor,omitempty"`
	UserAgent string  `yaml:"user_agent,omitempty"`
	MirrorURL string  `yaml:"mirror_url,omitempty"`
	Timeout   string  `yaml:"timeout,omitempty"`
	RateLimit float64 `yaml:"rate_limit,omitempty"`
	Reader    string  `yaml:"reader,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "refman"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/refman/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	if cfg.DataDir != "" {
		cfg.DataDir = ExpandPath(cfg.DataDir)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// SaveGlobalConfig writes cfg to the global config file, creating its
// directory, and replaces the cached copy.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	ResetGlobalConfigCache()
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GlobalKeys lists the settable keys of the global config file.
func GlobalKeys() []string {
	keys := make([]string, 0, len(globalSetters))
	for k := range globalSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

var globalSetters = map[string]func(*GlobalConfig, string) error{
	"data_dir": func(c *GlobalConfig, v string) error {
		c.DataDir = v
		return nil
	},
	"editor": func(c *GlobalConfig, v string) error {
		c.Editor = v
		return nil
	},
	"user_agent": func(c *GlobalConfig, v string) error {
		c.UserAgent = v
		return nil
	},
	"mirror_url": func(c *GlobalConfig, v string) error {
		c.MirrorURL = v
		return nil
	},
	"timeout": func(c *GlobalConfig, v string) error {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", v, err)
		}
		c.Timeout = v
		return nil
	},
	"rate_limit": func(c *GlobalConfig, v string) error {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			return fmt.Errorf("invalid rate_limit %q: must be a positive number", v)
		}
		c.RateLimit = r
		return nil
	},
	"reader": func(c *GlobalConfig, v string) error {
		if err := ValidateReader(v); err != nil {
			return err
		}
		c.Reader = v
		return nil
	},
}

// Set assigns a value to one key of the global config.
func (c *GlobalConfig) Set(key, value string) error {
	set, ok := globalSetters[key]
	if !ok {
		return fmt.Errorf("unknown config key: %s (valid: %v)", key, GlobalKeys())
	}
	return set(c, value)
}

// GetConfigValue returns the environment variable if set, otherwise the
// config value.
func GetConfigValue(envKey, cfgValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	return cfgValue
}
