package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 10, cfg.Review.Threshold)
	assert.Equal(t, 3, cfg.Review.InlineAppendFloor)
	assert.Equal(t, 5, cfg.History.Depth)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Review.Threshold, cfg.Review.Threshold)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scribe.yaml")
	data := []byte("review:\n  threshold: 25\nhistory:\n  depth: 9\n")
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Review.Threshold)
	assert.Equal(t, 9, cfg.History.Depth)
	// Untouched sections keep defaults.
	assert.Equal(t, 2*time.Second, cfg.Autosave.Interval)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("SCRIBE_API_KEY", "env-key")
	t.Setenv("SCRIBE_MODEL", "env-model")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.LLM.APIKey)
	assert.Equal(t, "env-model", cfg.LLM.Model)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("review: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative threshold", func(c *Config) { c.Review.Threshold = -1 }},
		{"negative floor", func(c *Config) { c.Review.InlineAppendFloor = -1 }},
		{"zero history depth", func(c *Config) { c.History.Depth = 0 }},
		{"zero autosave interval", func(c *Config) { c.Autosave.Interval = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
