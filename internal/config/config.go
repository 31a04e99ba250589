// Package config loads fitctl configuration and carries it through the
// cobra command context.
//
// Sources, later overriding earlier: built-in defaults, the YAML config
// file (~/.fitctl/config.yaml by default), FITCTL_* environment variables,
// and command-line flags applied by the root command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the environment variable prefix.
// Example: FITCTL_SERVER_URL=https://api.example.com
const EnvPrefix = "FITCTL_"

// Config is the root configuration for fitctl.
type Config struct {
	Server ServerSection `koanf:"server"`
	Log    LogSection    `koanf:"log"`
	State  StateSection  `koanf:"state"`
}

// ServerSection configures the FitLog API endpoint.
type ServerSection struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// LogSection configures debug logging.
type LogSection struct {
	Level string `koanf:"level"`
}

// StateSection configures where session records are persisted.
type StateSection struct {
	// Dir is the state directory. Empty means ~/.fitctl.
	Dir string `koanf:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerSection{
			URL:     "http://localhost:3333",
			Timeout: 15 * time.Second,
		},
		Log: LogSection{Level: "warn"},
	}
}

// DefaultFile returns the default config file path, or "" when the home
// directory cannot be determined.
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".fitctl", "config.yaml")
}

// Load reads configuration from the given file path (skipped when the file
// does not exist) and the environment, merged over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	// FITCTL_SERVER_URL -> server.url
	envTransformer := func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "_", ".")
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformer), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
