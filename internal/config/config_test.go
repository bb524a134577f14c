package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotation-desk/internal/api"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{"QUOTEDESK_HOME": "/tmp/qd"}))
	require.NoError(t, err)

	assert.Equal(t, api.DefaultBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout)
	assert.Equal(t, 3, cfg.APIMaxRetries)
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr())
	assert.Empty(t, cfg.JWTSecret)
	assert.Equal(t, "default", cfg.SettingsProfile)
	assert.Equal(t, "/tmp/qd", cfg.Home)
	assert.Empty(t, cfg.SettingsDatabaseURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"API_BASE_URL":    "https://crm.example.in/api",
		"API_TIMEOUT":     "45",
		"API_MAX_RETRIES": "0",
		"SERVER_PORT":     "9090",
		"SERVER_HOST":     "0.0.0.0",
		"JWT_SECRET":      "0123456789abcdef0123456789abcdef",
		"LOG_LEVEL":       "debug",
		"QUOTEDESK_HOME":  "/tmp/qd",
	}))
	require.NoError(t, err)

	assert.Equal(t, "https://crm.example.in/api", cfg.APIBaseURL)
	assert.Equal(t, 45*time.Second, cfg.APITimeout)
	assert.Equal(t, 0, cfg.RetryConfig().MaxRetries)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr())
	assert.Equal(t, "0123456789abcdef0123456789abcdef", cfg.JWTSecret)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFromEnv_Invalid(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{"API_TIMEOUT": "soon"}))
	assert.Error(t, err)
	_, err = FromEnv(envMap(map[string]string{"API_TIMEOUT": "-5s"}))
	assert.Error(t, err)
	_, err = FromEnv(envMap(map[string]string{"API_MAX_RETRIES": "-1"}))
	assert.Error(t, err)
	_, err = FromEnv(envMap(map[string]string{"JWT_SECRET": "short", "QUOTEDESK_HOME": "/tmp/qd"}))
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_ReadsDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SETTINGS_PROFILE=shopfront\n"), 0o600))
	t.Setenv("SETTINGS_PROFILE", "")
	os.Unsetenv("SETTINGS_PROFILE")
	t.Setenv("QUOTEDESK_HOME", t.TempDir())

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "shopfront", cfg.SettingsProfile)

	_, err = Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}
