package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.EnableAnalysis)
	assert.True(t, cfg.EnableHealthOracle)
	assert.False(t, cfg.StrictStateMatching)
	assert.NotEmpty(t, cfg.ExcludePathRegex)
	assert.NotEmpty(t, cfg.GenericFields)
}

func TestManagerLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctrloracle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("namespace: demo\nenable_analysis: true\n"), 0o644))

	m := NewManager()
	require.NoError(t, m.Load(path))

	cfg := m.Config()
	assert.Equal(t, "demo", cfg.Namespace)
	assert.True(t, cfg.EnableAnalysis)
	// defaults not present in the file survive
	assert.True(t, cfg.EnableHealthOracle)
}

func TestManagerLoadRejectsBadRegex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ctrloracle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exclude_path_regex:\n  - \"(unterminated\"\n"), 0o644))

	m := NewManager()
	err := m.Load(path)
	require.Error(t, err)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("CTRLORACLE_NAMESPACE", "envns")
	t.Setenv("VAULT_ADDR", "https://vault.example.com")

	cfg := DefaultConfig()
	require.NoError(t, NewLoader().LoadFromEnvironment(cfg))

	assert.Equal(t, "envns", cfg.Namespace)
	assert.Equal(t, "https://vault.example.com", cfg.Vault.Address)
}

func TestProfileManager(t *testing.T) {
	pm := NewProfileManager()

	names, err := pm.ListProfiles()
	require.NoError(t, err)
	assert.Contains(t, names, "strict")
	assert.Contains(t, names, "lenient")

	strict, err := pm.LoadProfile("strict")
	require.NoError(t, err)
	assert.True(t, strict.StrictStateMatching)
	assert.True(t, strict.EnableAnalysis)

	lenient, err := pm.LoadProfile("lenient")
	require.NoError(t, err)
	assert.False(t, lenient.StrictStateMatching)
	assert.False(t, lenient.EnableHealthOracle)
}
