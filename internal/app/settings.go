package app

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Settings is the optional TOML settings file. Every field can also be set
// by flag; flags take precedence.
type Settings struct {
	Port      int    `toml:"port"`
	LogFormat string `toml:"log_format"`
	LogLevel  string `toml:"log_level"`
	Seed      int64  `toml:"seed"`
}

// DefaultSettingsPath returns the conventional settings file location.
func DefaultSettingsPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pipesim", "settings.toml")
}

// LoadSettings reads the settings file at path. A missing file yields zero
// settings without error. Environment variables override file values:
// PIPESIM_PORT, PIPESIM_LOG_LEVEL and PIPESIM_SEED.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &s); err != nil {
			return Settings{}, err
		}
	}
	applyEnvOverrides(&s)
	return s, nil
}

func applyEnvOverrides(s *Settings) {
	if v := os.Getenv("PIPESIM_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			s.Port = port
		}
	}
	if v := os.Getenv("PIPESIM_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := os.Getenv("PIPESIM_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			s.Seed = seed
		}
	}
}
