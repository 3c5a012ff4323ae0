// Package settings manages the companion's settings file.
package settings

import (
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"
)

// Settings stores all application-wide configuration.
// Loaded from settings.yaml, created with defaults if missing.
type Settings struct {
	// DataDir is the application data directory; reference tables live in
	// its refdata/ subdirectory and automation rules in autoaction/.
	DataDir string `yaml:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// ProxyAddr is the host:port of the game proxy the companion attaches
	// to. Empty leaves the companion detached.
	ProxyAddr string `yaml:"proxy_addr,omitempty"`

	// PreloadOnStart loads every reference table in the background at
	// startup instead of on first use.
	PreloadOnStart bool `yaml:"preload_on_start"`
}

// Default returns the default settings.
func Default() Settings {
	return Settings{
		DataDir:        "./data",
		LogLevel:       "info",
		PreloadOnStart: true,
	}
}

// Validate checks that the settings are usable.
func (s *Settings) Validate() error {
	if s.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	switch s.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", s.LogLevel)
	}
	if s.ProxyAddr != "" {
		if _, _, err := net.SplitHostPort(s.ProxyAddr); err != nil {
			return fmt.Errorf("invalid proxy_addr: %w", err)
		}
	}
	return nil
}

// Load reads settings from path, returning defaults when the file is missing.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the -config flag
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Save writes settings to path.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
