package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ducker/internal/paths"
)

// Built-in defaults, lowest in the precedence chain
// (CLI flag > environment variable > config file > default).
const (
	DefaultFadeOutSeconds = 0.3
	DefaultFadeInSeconds  = 0.3
	DefaultVolume         = 75
	DefaultPollIntervalMS = 10
)

// Config represents the YAML config file. All fields are optional;
// pointer fields distinguish "absent" from zero values.
type Config struct {
	FadeOut        *float64          `yaml:"fade_out,omitempty"`
	FadeIn         *float64          `yaml:"fade_in,omitempty"`
	Volume         *int              `yaml:"volume,omitempty"`
	PollIntervalMS *int              `yaml:"poll_interval_ms,omitempty"`
	Sounds         map[string]string `yaml:"sounds,omitempty"`
}

// Load reads the config file from the explicit path if given, otherwise
// from the first existing default location. A missing file is not an
// error; an unreadable or malformed one is.
func Load(explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return loadFile(paths.ExpandPath(explicitPath))
	}

	for _, candidate := range paths.ConfigCandidates() {
		if _, err := os.Stat(candidate); err == nil {
			return loadFile(candidate)
		}
	}

	return &Config{}, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return &cfg, nil
}

// ResolveSound maps a sound alias through the config, falling back to
// treating the name as a direct path. Tilde is expanded either way.
func (c *Config) ResolveSound(name string) string {
	if path, ok := c.Sounds[name]; ok {
		return paths.ExpandPath(path)
	}
	return paths.ExpandPath(name)
}

// PollInterval returns the configured lock-poll interval in milliseconds,
// clamped to at least 1ms so the hand-off latency stays bounded.
func (c *Config) PollInterval() int {
	if c.PollIntervalMS == nil || *c.PollIntervalMS <= 0 {
		return DefaultPollIntervalMS
	}
	return *c.PollIntervalMS
}
