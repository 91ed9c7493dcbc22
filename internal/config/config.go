package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "streetcause_admin.yaml"

	// DefaultAPIBaseURL is the production admin API.
	DefaultAPIBaseURL = "https://scapi.elitceler.com/api/v1"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Config represents the application configuration. Values come from the yaml
// config file when one exists, with environment variables taking precedence.
type Config struct {
	// APIBaseURL is the admin API to talk to.
	APIBaseURL string `yaml:"apiBaseURL" env:"STREETCAUSE_API_URL" validate:"required,url"`

	// HTTPTimeout bounds each API call. Zero means no timeout, matching the
	// dashboard's behavior of letting a hung request hang.
	HTTPTimeout time.Duration `yaml:"httpTimeout,omitempty" env:"STREETCAUSE_HTTP_TIMEOUT"`

	// CachePath is the snapshot database location. Empty selects the default
	// under the user's home directory; "off" disables the cache.
	CachePath string `yaml:"cachePath,omitempty" env:"STREETCAUSE_CACHE_PATH"`
}

// Load loads and validates the configuration. It looks for the config file in
// the current directory first, then in the user's home directory; a missing
// file is not an error and yields the defaults.
func Load() (*Config, error) {
	if path, ok := findConfigFile(); ok {
		return LoadFromPath(path)
	}
	return finish(&Config{APIBaseURL: DefaultAPIBaseURL})
}

// LoadFromPath loads and validates the configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{APIBaseURL: DefaultAPIBaseURL}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return finish(cfg)
}

// finish applies environment overrides and validates.
func finish(cfg *Config) (*Config, error) {
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment overrides: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration struct.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// CacheFile resolves the snapshot database path. The second return is false
// when caching is disabled.
func (c *Config) CacheFile() (string, bool) {
	switch c.CachePath {
	case "off":
		return "", false
	case "":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		return filepath.Join(homeDir, ".streetcause-admin", "cache.db"), true
	default:
		return c.CachePath, true
	}
}

// findConfigFile searches for the config file in the current directory and
// the user's home directory.
func findConfigFile() (string, bool) {
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, true
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", false
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, true
	}

	return "", false
}
