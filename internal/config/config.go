// Package config holds all scribe configuration: routing policy knobs,
// history depth, collaborator credentials, autosave cadence, and logging.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all scribe configuration.
type Config struct {
	Review   ReviewConfig   `yaml:"review"`
	History  HistoryConfig  `yaml:"history"`
	LLM      LLMConfig      `yaml:"llm"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ReviewConfig tunes the review classification policy. Both values are
// deliberate policy knobs, not constants: the threshold is a UX tradeoff
// between friction and safety, and the floor only governs the inline
// inquire fallback.
type ReviewConfig struct {
	// Threshold is the inclusive changed-characters cut line. Rewrites
	// changing at most this many characters apply silently.
	Threshold int `yaml:"threshold"`
	// InlineAppendFloor is the minimum rune length for an inquire response
	// in single-block scope to be kept as an append.
	InlineAppendFloor int `yaml:"inline_append_floor"`
}

// HistoryConfig bounds the undo/redo stacks.
type HistoryConfig struct {
	Depth int `yaml:"depth"`
}

// LLMConfig configures the AI collaborator.
type LLMConfig struct {
	Provider string        `yaml:"provider"` // gemini, scripted
	APIKey   string        `yaml:"api_key"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

// AutosaveConfig configures the debounced persistence consumer.
type AutosaveConfig struct {
	Interval time.Duration `yaml:"interval"`
	Path     string        `yaml:"path"` // SQLite database path
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level       string `yaml:"level"` // debug, info, warn, error
	Development bool   `yaml:"development"`
}

// Default returns the reference configuration.
func Default() *Config {
	return &Config{
		Review: ReviewConfig{
			Threshold:         10,
			InlineAppendFloor: 3,
		},
		History: HistoryConfig{
			Depth: 5,
		},
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "gemini-2.5-flash",
			Timeout:  60 * time.Second,
		},
		Autosave: AutosaveConfig{
			Interval: 2 * time.Second,
			Path:     ".scribe/documents.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file, merges it over the defaults, then applies
// environment overrides. A missing file is not an error: defaults plus
// environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment win over file values for secrets
// and the most common knobs.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SCRIBE_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("SCRIBE_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("SCRIBE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate rejects configurations the core cannot honor.
func (c *Config) Validate() error {
	if c.Review.Threshold < 0 {
		return fmt.Errorf("review.threshold must be non-negative, got %d", c.Review.Threshold)
	}
	if c.Review.InlineAppendFloor < 0 {
		return fmt.Errorf("review.inline_append_floor must be non-negative, got %d", c.Review.InlineAppendFloor)
	}
	if c.History.Depth < 1 {
		return fmt.Errorf("history.depth must be at least 1, got %d", c.History.Depth)
	}
	if c.Autosave.Interval <= 0 {
		return fmt.Errorf("autosave.interval must be positive, got %v", c.Autosave.Interval)
	}
	return nil
}
