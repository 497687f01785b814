// ABOUTME: nexusfit configuration management with backend selection.
// ABOUTME: Handles settings, environment overrides, and the storage backend factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harperreed/nexusfit/internal/storage"
)

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendKV     = "kv"
	BackendFile   = "file"
)

// Environment variables that override the config file.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	EnvGoogleAPIKey = "GOOGLE_API_KEY"
	EnvBackend      = "NEXUSFIT_BACKEND"
	EnvDataDir      = "NEXUSFIT_DATA_DIR"
)

// DefaultRequestTimeout bounds one plan generation request.
const DefaultRequestTimeout = 2 * time.Minute

// Config stores nexusfit configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "kv" or "file".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// SQLite puts nexusfit.db here, kv uses a kv/ folder, file writes nexus_fit_state.json.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/nexusfit.
	DataDir string `json:"data_dir,omitempty"`

	// APIKey is the Gemini API key. GEMINI_API_KEY or GOOGLE_API_KEY win over it.
	APIKey string `json:"api_key,omitempty"`

	PlanModel string `json:"plan_model,omitempty"`
	FastModel string `json:"fast_model,omitempty"`

	// RequestTimeout is a Go duration string such as "90s".
	RequestTimeout string `json:"request_timeout,omitempty"`

	// LogLevel is a zap level name: debug, info, warn (default) or error.
	LogLevel string `json:"log_level,omitempty"`

	// KeepRevisions is how many previous states the sqlite backend retains.
	// Zero keeps the storage default.
	KeepRevisions int `json:"keep_revisions,omitempty"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		return v
	}
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		return ExpandPath(v)
	}
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetAPIKey returns the API key, preferring the environment.
func (c *Config) GetAPIKey() string {
	for _, env := range []string{EnvGeminiAPIKey, EnvGoogleAPIKey} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return c.APIKey
}

// GetRequestTimeout parses RequestTimeout, defaulting to DefaultRequestTimeout.
func (c *Config) GetRequestTimeout() (time.Duration, error) {
	if c.RequestTimeout == "" {
		return DefaultRequestTimeout, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("parse request_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("request_timeout must be positive, got %s", d)
	}
	return d, nil
}

// GetLogLevel returns the configured log level, defaulting to "warn".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "warn"
	}
	return c.LogLevel
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir())
}

// OpenBackend opens the named backend rooted at dataDir.
func OpenBackend(backend, dataDir string) (storage.Repository, error) {
	switch backend {
	case BackendSQLite:
		return storage.Open(filepath.Join(dataDir, "nexusfit.db"))
	case BackendKV:
		return storage.OpenKV(filepath.Join(dataDir, "kv"))
	case BackendFile:
		return storage.NewFileStore(dataDir)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "nexusfit", "config.json")
}

// Load reads config from disk.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to disk. The file can hold an API key, so it is
// written owner-only.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
