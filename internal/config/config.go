// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/BurntSushi/toml"
)

// ErrMissingAPIKey is returned when no TVDB API key can be found.
var ErrMissingAPIKey = errors.New("TVDB API key not found: set TVDB_API_KEY or add tvdb_api_key to config.toml in the config directory")

const (
	appDirName     = ".epmatch"
	configFileName = "config.toml"
	cacheFileName  = "cache.json"
	lockFileName   = "run.lock"
)

// Config is the root configuration structure.
type Config struct {
	TVDBAPIKey string `toml:"tvdb_api_key"`
	PromptSize int64  `toml:"prompt_size"`
	LogLevel   string `toml:"log_level"`
	Pager      string `toml:"pager"`
}

// Dir returns the per-user configuration directory.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(home, appDirName)
}

// CachePath returns the location of the persisted episode cache.
func CachePath() string {
	return filepath.Join(Dir(), cacheFileName)
}

// LockPath returns the location of the single-instance run lock.
func LockPath() string {
	return filepath.Join(Dir(), lockFileName)
}

// Load reads the configuration file if present and applies the
// TVDB_API_KEY environment override. A missing config file is not an
// error; a missing API key is.
func Load() (*Config, error) {
	return loadFrom(filepath.Join(Dir(), configFileName))
}

func loadFrom(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		content := substituteEnvVars(string(data))
		if _, err := toml.Decode(content, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Environment takes precedence over the config file.
	if key := os.Getenv("TVDB_API_KEY"); key != "" {
		cfg.TVDBAPIKey = key
	}
	if cfg.TVDBAPIKey == "" {
		return nil, ErrMissingAPIKey
	}

	// Apply defaults
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Pager == "" {
		cfg.Pager = os.Getenv("PAGER")
	}
	if cfg.Pager == "" {
		cfg.Pager = "less"
	}

	return cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}
