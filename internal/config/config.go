// Package config gathers process configuration from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"quotation-desk/internal/api"
	"quotation-desk/internal/logging"
)

const minSecretLen = 32

// Config is everything the binaries need to wire the application.
type Config struct {
	APIBaseURL    string
	APITimeout    time.Duration
	APIMaxRetries int

	// ServerHost is the listen address of cmd/server; loopback unless set.
	ServerHost     string
	ServerPort     string
	AllowedOrigins string
	// JWTSecret signs browser session cookies. Empty means cmd/server picks a
	// random secret per process.
	JWTSecret string

	OpenAIAPIKey string
	OpenAIModel  string

	// SettingsDatabaseURL switches settings storage to PostgreSQL when set.
	SettingsDatabaseURL string
	SettingsProfile     string

	// Home holds the session token and file-backed settings.
	Home string

	Log logging.Config
}

// Load reads envFiles (default ".env", missing files are fine) and then the
// process environment, which wins.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		APIBaseURL:          orDefault(getenv("API_BASE_URL"), api.DefaultBaseURL),
		APITimeout:          30 * time.Second,
		APIMaxRetries:       api.DefaultRetryConfig().MaxRetries,
		ServerHost:          orDefault(getenv("SERVER_HOST"), "127.0.0.1"),
		ServerPort:          orDefault(getenv("SERVER_PORT"), "8080"),
		JWTSecret:           strings.TrimSpace(getenv("JWT_SECRET")),
		AllowedOrigins:      getenv("ALLOWED_ORIGINS"),
		OpenAIAPIKey:        getenv("OPENAI_API_KEY"),
		OpenAIModel:         orDefault(getenv("OPENAI_MODEL"), "gpt-4o-mini"),
		SettingsDatabaseURL: getenv("SETTINGS_DATABASE_URL"),
		SettingsProfile:     orDefault(getenv("SETTINGS_PROFILE"), "default"),
		Home:                getenv("QUOTEDESK_HOME"),
		Log: logging.Config{
			Level:  getenv("LOG_LEVEL"),
			Format: getenv("LOG_FORMAT"),
			Output: getenv("LOG_OUTPUT"),
		},
	}

	if v := strings.TrimSpace(getenv("API_TIMEOUT")); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("API_TIMEOUT: %w", err)
		}
		cfg.APITimeout = d
	}
	if v := strings.TrimSpace(getenv("API_MAX_RETRIES")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("API_MAX_RETRIES: want a non-negative integer, got %q", v)
		}
		cfg.APIMaxRetries = n
	}
	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < minSecretLen {
		return Config{}, fmt.Errorf("JWT_SECRET: want at least %d characters", minSecretLen)
	}
	if cfg.Home == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config dir: %w", err)
		}
		cfg.Home = filepath.Join(dir, "quotation-desk")
	}
	return cfg, nil
}

// parseDuration accepts Go durations ("45s") or plain seconds ("45").
func parseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("must be positive, got %q", v)
		}
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %q", v)
	}
	return d, nil
}

// RetryConfig returns the API retry policy implied by APIMaxRetries.
func (c Config) RetryConfig() api.RetryConfig {
	r := api.DefaultRetryConfig()
	r.MaxRetries = c.APIMaxRetries
	return r
}

// ListenAddr is the host:port cmd/server binds to.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.ServerHost, c.ServerPort)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
