package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"familytree/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "development", cfg.Log.Env)
	assert.Equal(t, domain.PartnerReciprocal, cfg.Inference.PartnerPolicy)
	assert.Equal(t, "text", cfg.Report.Format)
	assert.Equal(t, DefaultDebounce, cfg.WatchDebounce())
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	t.Run("unknown partner policy", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Inference.PartnerPolicy = "swap"
		assert.True(t, errors.Is(cfg.Validate(), ErrInvalidPolicy))
	})

	t.Run("unknown report format", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Report.Format = "xml"
		assert.True(t, errors.Is(cfg.Validate(), ErrInvalidFormat))
	})
}

func TestSaveAndLoad(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Inference.PartnerPolicy = domain.PartnerRedirect
	cfg.Inference.RederiveOnImport = true
	cfg.Report.Format = "yaml"
	debounce := Duration(2 * time.Second)
	cfg.Watch.Debounce = &debounce

	require.NoError(t, cfg.Save(configPath))

	loaded, path, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, path)
	assert.Equal(t, domain.PartnerRedirect, loaded.Inference.PartnerPolicy)
	assert.True(t, loaded.Inference.RederiveOnImport)
	assert.Equal(t, "yaml", loaded.Report.Format)
	assert.Equal(t, 2*time.Second, loaded.WatchDebounce())
}

func TestLoadFromPathAppliesDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log:\n  level: debug\n"), 0644))

	cfg, _, err := LoadFromPath(configPath)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, domain.PartnerReciprocal, cfg.Inference.PartnerPolicy)
	assert.Equal(t, "text", cfg.Report.Format)
}

func TestLoadFromPathErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadFromPath(filepath.Join(dir, "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("log: [unterminated"), 0644))
	_, _, err = LoadFromPath(bad)
	assert.ErrorContains(t, err, "parse config")

	invalid := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalid, []byte("inference:\n  partner_policy: swap\n"), 0644))
	_, _, err = LoadFromPath(invalid)
	assert.True(t, errors.Is(err, ErrInvalidPolicy))
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvPartnerPolicy, "REDIRECT")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, domain.PartnerRedirect, cfg.Inference.PartnerPolicy)
}

func TestFindConfigPath(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, DefaultConfig().Save(filepath.Join(tmpDir, ConfigFileName)))

	t.Chdir(tmpDir)
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	assert.NotEmpty(t, FindConfigPath(""), "should find config in working directory")

	t.Setenv(EnvConfigPath, "/nonexistent/path.yaml")
	assert.NotEmpty(t, FindConfigPath(""), "should fall back when env path doesn't exist")

	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	require.NoError(t, DefaultConfig().Save(explicit))
	t.Setenv(EnvConfigPath, explicit)
	assert.Equal(t, explicit, FindConfigPath(""))
}

func TestFindConfigPathBesidePopulation(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, "")
	t.Setenv(EnvPartnerPolicy, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	dataDir := t.TempDir()
	local := filepath.Join(dataDir, ConfigFileName)
	cfg := DefaultConfig()
	cfg.Inference.PartnerPolicy = domain.PartnerRedirect
	require.NoError(t, cfg.Save(local))

	assert.Equal(t, local, FindConfigPath(dataDir))

	loaded, path, err := Load(dataDir)
	require.NoError(t, err)
	assert.Equal(t, local, path)
	assert.Equal(t, domain.PartnerRedirect, loaded.Inference.PartnerPolicy)

	t.Run("working directory wins", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Save(ConfigFileName))
		found := FindConfigPath(dataDir)
		assert.NotEqual(t, local, found)
		assert.Equal(t, ConfigFileName, filepath.Base(found))
	})
}

func TestSearchPaths(t *testing.T) {
	t.Setenv(EnvConfigPath, "/explicit.yaml")
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	t.Setenv("HOME", "/home/someone")

	assert.Equal(t, []string{
		"/explicit.yaml",
		ConfigFileName,
		filepath.Join("/data", ConfigFileName),
		filepath.Join("/xdg", ConfigDirName, "config.yaml"),
		filepath.Join("/home/someone", ".config", ConfigDirName, "config.yaml"),
		filepath.Join("/etc", ConfigDirName, "config.yaml"),
	}, SearchPaths("/data"))

	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	assert.Equal(t, []string{
		ConfigFileName,
		filepath.Join("/etc", ConfigDirName, "config.yaml"),
	}, SearchPaths("."), "current directory is not listed twice")
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(EnvConfigPath, "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := os.Stat(filepath.Join("/etc", ConfigDirName, "config.yaml")); err == nil {
		t.Skip("system config present")
	}

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, DefaultConfig().Inference, cfg.Inference)
}

func TestDuration(t *testing.T) {
	d := Duration(5 * time.Minute)
	assert.Equal(t, 5*time.Minute, d.Duration())

	marshaled, err := d.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, "5m0s", marshaled)
}

func TestDefaultConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	assert.Equal(t, filepath.Join("/xdg", ConfigDirName, "config.yaml"), DefaultConfigPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/home/someone")
	assert.Equal(t, filepath.Join("/home/someone", ".config", ConfigDirName, "config.yaml"), DefaultConfigPath())

	t.Setenv("HOME", "")
	assert.Equal(t, ConfigFileName, DefaultConfigPath())
}
