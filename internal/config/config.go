// Package config holds the reasoner's YAML-unmarshaled configuration,
// grounded on the nested-struct-with-yaml-tags style of the architectural
// teacher's internal/config/config.go (which uses gopkg.in/yaml.v3, never
// viper, for its own config type).
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration value. An absent config file is not
// an error (DefaultConfig is used); a present-but-malformed file is.
type Config struct {
	Reasoner ReasonerConfig `yaml:"reasoner"`
	Chat     ChatConfig     `yaml:"chat"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ReasonerConfig configures the cycle driver and fuzzy layer defaults.
type ReasonerConfig struct {
	Strategy     string `yaml:"strategy"`
	NMax         int    `yaml:"n_max"`
	SchemaCheck  bool   `yaml:"schema_check"`
	FuzzySystem  string `yaml:"fuzzy_system"`
	Trace        bool   `yaml:"trace"`
}

// ChatConfig configures the OpenAI-backed chat translator.
type ChatConfig struct {
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
	BaseURL string        `yaml:"base_url"`
}

// LoggingConfig configures the ambient obslog layer.
type LoggingConfig struct {
	Debug bool `yaml:"debug"`
}

// DefaultConfig returns the zero-config defaults: first-match strategy,
// N_MAX=100 (§4.4), schema-check off, min-max fuzzy system, and a
// conservative OpenAI timeout.
func DefaultConfig() Config {
	return Config{
		Reasoner: ReasonerConfig{
			Strategy:    "first-match",
			NMax:        100,
			SchemaCheck: false,
			FuzzySystem: "min-max",
		},
		Chat: ChatConfig{
			Model:   "gpt-4o-mini",
			Timeout: 30 * time.Second,
			BaseURL: "https://api.openai.com/v1",
		},
	}
}

// Load reads a YAML config file at path, overlaying it onto DefaultConfig.
// A missing file is not an error — DefaultConfig is returned unchanged. A
// present file that fails to parse is a fatal error per the caller's
// discretion (the CLI treats it as equivalent to a parse error, §7).
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %q: %w", path, err)
	}
	return cfg, nil
}
