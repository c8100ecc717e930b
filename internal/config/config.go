// Package config resolves client configuration. The only setting that
// matters operationally is the banking service base URL; it is resolved
// in order: TELLER_API_URL environment override, config file, built-in
// local default.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is the local development backend.
const DefaultBaseURL = "http://localhost:8000"

// EnvBaseURL is the environment variable overriding every other source.
const EnvBaseURL = "TELLER_API_URL"

// Config holds the resolved client configuration
type Config struct {
	// BaseURL is the banking service endpoint, without trailing slash
	BaseURL string `yaml:"base_url"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// LogFormat is json or text
	LogFormat string `yaml:"log_format"`

	// LogFile receives structured logs; empty disables logging so the
	// terminal stays clean for the UI
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Path returns the config file location, honoring XDG_CONFIG_HOME.
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "teller", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "teller", "config.yaml")
}

// Load resolves the configuration. A missing config file is not an
// error; a malformed one is, so a typo cannot silently point the client
// at the wrong backend.
func Load() (Config, error) {
	// A local .env is a development convenience only.
	_ = godotenv.Load()

	return load(Path())
}

func load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fine, defaults apply
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if env := os.Getenv(EnvBaseURL); env != "" {
		cfg.BaseURL = env
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	return cfg, nil
}
