package client

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withConfigPath points the global config at path for the duration of the test.
func withConfigPath(t *testing.T, path string) {
	t.Helper()

	oldGetConfigDir := getConfigDirFunc
	oldGetConfigPath := getConfigPathFunc
	getConfigDirFunc = func() (string, error) {
		return filepath.Dir(path), nil
	}
	getConfigPathFunc = func() (string, error) {
		return path, nil
	}
	t.Cleanup(func() {
		getConfigDirFunc = oldGetConfigDir
		getConfigPathFunc = oldGetConfigPath
	})
}

func writeConfig(t *testing.T, path string, cfg GlobalConfig) {
	t.Helper()
	data, _ := json.MarshalIndent(cfg, "", "  ")
	require.NoError(t, os.WriteFile(path, data, 0600))
}

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	require.NoError(t, err)
	assert.NotEmpty(t, dir)
	assert.True(t, filepath.IsAbs(dir))
	assert.True(t, strings.HasSuffix(dir, "supporthub"))
}

func TestGetConfigPath(t *testing.T) {
	path, err := GetConfigPath()
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	assert.True(t, filepath.IsAbs(path))
	assert.True(t, strings.HasSuffix(path, "config.json"))
}

func TestLoadGlobalConfig_FileNotExists(t *testing.T) {
	withConfigPath(t, filepath.Join(t.TempDir(), "config.json"))

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	assert.Nil(t, config)
}

func TestLoadGlobalConfig_ValidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	withConfigPath(t, configPath)

	testConfig := GlobalConfig{APIURL: "http://localhost:8080", Email: "jane@example.com"}
	writeConfig(t, configPath, testConfig)

	config, err := LoadGlobalConfig()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, testConfig, *config)
}

func TestLoadGlobalConfig_InvalidJSON(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	withConfigPath(t, configPath)

	require.NoError(t, os.WriteFile(configPath, []byte("{invalid json}"), 0600))

	config, err := LoadGlobalConfig()
	assert.Error(t, err)
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestSaveGlobalConfig_CreatesDirectory(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "supporthub")
	configPath := filepath.Join(configDir, "config.json")
	withConfigPath(t, configPath)

	err := SaveGlobalConfig(&GlobalConfig{APIURL: "http://localhost:8080"})
	require.NoError(t, err)

	assert.DirExists(t, configDir)
	assert.FileExists(t, configPath)
}

func TestSaveGlobalConfig_SetCorrectPermissions(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	withConfigPath(t, configPath)

	require.NoError(t, SaveGlobalConfig(&GlobalConfig{APIURL: "http://localhost:8080"}))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSaveGlobalConfig_NilConfig(t *testing.T) {
	err := SaveGlobalConfig(nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "config cannot be nil")
}

func TestDeleteGlobalConfig_FileExists(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	withConfigPath(t, configPath)

	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0600))

	require.NoError(t, DeleteGlobalConfig())
	assert.NoFileExists(t, configPath)
}

func TestDeleteGlobalConfig_FileNotExists(t *testing.T) {
	withConfigPath(t, filepath.Join(t.TempDir(), "nonexistent.json"))

	require.NoError(t, DeleteGlobalConfig())
}

func TestIsValidAPIURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"http://localhost:8080", true},
		{"https://support.example.com", true},
		{"localhost:8080", false},
		{"ftp://example.com", false},
		{"http://", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAPIURL(tt.url))
		})
	}
}

func TestGetURLSource(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	withConfigPath(t, configPath)

	t.Run("default", func(t *testing.T) {
		t.Setenv(envAPIURL, "")
		source, url := GetURLSource("")
		assert.Equal(t, SourceDefault, source)
		assert.Equal(t, defaultAPIURL, url)
	})

	writeConfig(t, configPath, GlobalConfig{APIURL: "http://global:8080"})

	t.Run("global config", func(t *testing.T) {
		t.Setenv(envAPIURL, "")
		source, url := GetURLSource("")
		assert.Equal(t, SourceGlobalConfig, source)
		assert.Equal(t, "http://global:8080", url)
	})

	t.Run("env overrides global config", func(t *testing.T) {
		t.Setenv(envAPIURL, "http://env:8080")
		source, url := GetURLSource("")
		assert.Equal(t, SourceEnv, source)
		assert.Equal(t, "http://env:8080", url)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		t.Setenv(envAPIURL, "http://env:8080")
		source, url := GetURLSource("http://flag:8080")
		assert.Equal(t, SourceFlag, source)
		assert.Equal(t, "http://flag:8080", url)
	})
}

func TestRunConfigSet(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	withConfigPath(t, configPath)

	t.Run("saves", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runConfigSet(&buf, "https://support.example.com", "jane@example.com"))
		assert.Equal(t, "Settings saved\n", buf.String())

		cfg, err := LoadGlobalConfig()
		require.NoError(t, err)
		assert.Equal(t, "https://support.example.com", cfg.APIURL)
		assert.Equal(t, "jane@example.com", defaultEmail())
	})

	t.Run("rejects bad url", func(t *testing.T) {
		err := runConfigSet(&bytes.Buffer{}, "support.example.com", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid API URL")
	})

	t.Run("rejects bad email", func(t *testing.T) {
		err := runConfigSet(&bytes.Buffer{}, "http://localhost:8080", "not-an-email")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid email address")
	})
}

func TestRunConfigShow(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.json")
	withConfigPath(t, configPath)
	writeConfig(t, configPath, GlobalConfig{APIURL: "http://global:8080", Email: "jane@example.com"})
	t.Setenv(envAPIURL, "")

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runConfigShow(&buf, "", false))
		assert.Contains(t, buf.String(), "API URL: http://global:8080")
		assert.Contains(t, buf.String(), "Source: global_config")
		assert.Contains(t, buf.String(), "Email: jane@example.com")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runConfigShow(&buf, "http://flag:8080", true))

		var out map[string]string
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "http://flag:8080", out["api_url"])
		assert.Equal(t, "flag", out["source"])
	})
}
