package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PORT", "")
	t.Setenv("POSTGRES_URL", "")

	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", c.Database.Type)
	assert.Equal(t, 20, c.Plans.MaxPerProject)
	assert.Equal(t, 4, c.Plans.MaxActivitiesPerDay)
	assert.Equal(t, 5, c.Plans.DetailedDaysThreshold)
	assert.Equal(t, "openai", c.Completion.Provider)
	assert.Equal(t, "sk-test", c.Completion.APIKey)
	assert.Equal(t, DefaultOpenAIModel, c.Completion.Model)
	assert.Equal(t, 90*time.Second, c.CompletionTimeout())
	assert.True(t, c.Log.Production)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("GEMINI_API_KEY", "gm-key")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
log:
  level: debug
  production: false
completion:
  provider: gemini
  model: gemini-1.5-flash
  timeout: 15s
plans:
  max-per-project: 3
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, c.File)
	assert.Equal(t, "debug", c.Log.Level)
	assert.False(t, c.Log.Production)
	assert.Equal(t, "gemini", c.Completion.Provider)
	assert.Equal(t, "gm-key", c.Completion.APIKey)
	assert.Equal(t, 15*time.Second, c.CompletionTimeout())
	assert.Equal(t, 3, c.Plans.MaxPerProject)
	assert.Equal(t, 100, c.Plans.MaxPageSize)
}

func TestLoad_ModelDefaultsPerProvider(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("POSTGRES_URL", "")

	cases := []struct {
		yml  string
		want string
	}{
		{"completion:\n  provider: gemini\n", DefaultGeminiModel},
		{"completion:\n  provider: Gemini\n", DefaultGeminiModel},
		{"completion:\n  provider: openai\n", DefaultOpenAIModel},
		{"completion:\n  provider: gemini\n  model: gemini-2.0-pro\n", "gemini-2.0-pro"},
	}
	for _, tc := range cases {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(tc.yml), 0o644))

		c, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, tc.want, c.Completion.Model, tc.yml)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "8088")
	t.Setenv("POSTGRES_URL", "postgres://u:p@localhost/trip")

	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8088", c.Server.HttpPort)
	assert.Equal(t, "postgres", c.Database.Type)
	assert.Equal(t, "postgres://u:p@localhost/trip", c.Database.DSN)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log: [unterminated"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file failed")
}

func TestDurations_FallBackOnGarbage(t *testing.T) {
	c := &AppConfig{}
	c.Completion.Timeout = "soon"
	c.Plans.CompareCacheTTL = "-1s"

	assert.Equal(t, 90*time.Second, c.CompletionTimeout())
	assert.Equal(t, 10*time.Minute, c.CompareCacheTTL())
}
