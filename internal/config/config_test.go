package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultListenPort, cfg.ListenPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoadFrom_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	content := `{
  "listen_port": 9100,
  "rules_path": "/etc/nearly/rules.yaml",
  "pool_limits": {"background": 2}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.ListenPort)
	assert.Equal(t, "/etc/nearly/rules.yaml", cfg.RulesPath)
	assert.EqualValues(t, 2, cfg.PoolLimits["background"])
	// Untouched fields keep their defaults.
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DBPath)
}

func TestLoadFrom_MalformedFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultListenPort, cfg.ListenPort)
}

func TestGetListenPort_EnvOverride(t *testing.T) {
	t.Setenv("NEARLY_PORT", "9200")
	assert.Equal(t, 9200, GetListenPort())

	t.Setenv("NEARLY_PORT", "not-a-port")
	assert.Equal(t, Get().ListenPort, GetListenPort())
}

func TestEffectiveListenPort_UsesInstancePort(t *testing.T) {
	// A non-global config keeps its own port rather than the global one.
	cfg := &Config{ListenPort: 9300}
	assert.Equal(t, 9300, cfg.EffectiveListenPort())

	t.Setenv("NEARLY_PORT", "9400")
	assert.Equal(t, 9400, cfg.EffectiveListenPort())
}
