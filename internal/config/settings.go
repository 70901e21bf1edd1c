package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keyword recompute mode constants
const (
	RecomputeModeSync  = "sync"
	RecomputeModeAsync = "async"
)

// StoreSettings configuration for the SQLite record store
type StoreSettings struct {
	Path string `mapstructure:"path"`
}

// SearchSettings configuration for employee searches
type SearchSettings struct {
	DefaultLimit    int `mapstructure:"default_limit"`
	MaxLimit        int `mapstructure:"max_limit"`
	PositionWorkers int `mapstructure:"position_workers"`
}

// KeywordsSettings configuration for employee keyword recomputation
type KeywordsSettings struct {
	RecomputeMode    string        `mapstructure:"recompute_mode"` // RecomputeModeSync or RecomputeModeAsync
	RecomputeWorkers int           `mapstructure:"recompute_workers"`
	RecomputeTimeout time.Duration `mapstructure:"recompute_timeout"`
	RecomputeRetries int           `mapstructure:"recompute_retries"`
}

// Settings application settings
type Settings struct {
	Transport string           `mapstructure:"transport"`
	Host      string           `mapstructure:"host"`
	Port      int              `mapstructure:"port"`
	LogLevel  string           `mapstructure:"log_level"`
	Store     StoreSettings    `mapstructure:"store"`
	Search    SearchSettings   `mapstructure:"search"`
	Keywords  KeywordsSettings `mapstructure:"keywords"`
}

// envPrefix prefixes every environment variable read by LoadSettings
const envPrefix = "STAFFING_MCP"

// settingKeys maps each nested setting to the CLI flag that overrides it
var settingKeys = map[string]string{
	"transport":                  "transport",
	"host":                       "host",
	"port":                       "port",
	"log_level":                  "log-level",
	"store.path":                 "store-path",
	"search.default_limit":       "search-default-limit",
	"search.max_limit":           "search-max-limit",
	"search.position_workers":    "search-position-workers",
	"keywords.recompute_mode":    "keywords-recompute-mode",
	"keywords.recompute_workers": "keywords-recompute-workers",
	"keywords.recompute_timeout": "keywords-recompute-timeout",
	"keywords.recompute_retries": "keywords-recompute-retries",
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("log_level", "info")
	v.SetDefault("store.path", defaultStorePath())

	v.SetDefault("search.default_limit", 10)
	v.SetDefault("search.max_limit", 100)
	v.SetDefault("search.position_workers", 4)

	v.SetDefault("keywords.recompute_mode", RecomputeModeSync)
	v.SetDefault("keywords.recompute_workers", 2)
	v.SetDefault("keywords.recompute_timeout", 30*time.Second)
	v.SetDefault("keywords.recompute_retries", 3)

	// Environment variables
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range settingKeys {
		// Bind specific env vars for nested config
		_ = v.BindEnv(key, envPrefix+"_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")))

		// Bind CLI flags if provided (highest priority)
		if flags != nil {
			if f := flags.Lookup(flag); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	settings.Transport = strings.ToLower(strings.TrimSpace(settings.Transport))
	settings.LogLevel = strings.ToLower(strings.TrimSpace(settings.LogLevel))
	settings.Keywords.RecomputeMode = strings.ToLower(strings.TrimSpace(settings.Keywords.RecomputeMode))

	// Expand home directory in store path
	settings.Store.Path = expandHomeDir(settings.Store.Path)

	return &settings, nil
}

// defaultStorePath returns the default SQLite database location
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".staffing-mcp", "staffing.db")
	}
	return filepath.Join(home, ".staffing-mcp", "staffing.db")
}

// expandHomeDir expands ~ to the user's home directory
func expandHomeDir(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}

// ValidateSettings checks for invalid or inconsistent configuration.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	if s.Transport == "sse" && (s.Port <= 0 || s.Port > 65535) {
		return fmt.Errorf("port must be between 1 and 65535, got: %d", s.Port)
	}

	if _, err := ParseLogLevel(s.LogLevel); err != nil {
		return err
	}

	if strings.TrimSpace(s.Store.Path) == "" {
		return errors.New("store-path cannot be empty")
	}

	if err := validateSearchSettings(&s.Search); err != nil {
		return err
	}

	return validateKeywordsSettings(&s.Keywords)
}

// validateSearchSettings validates the search configuration
func validateSearchSettings(s *SearchSettings) error {
	if s.MaxLimit <= 0 {
		return errors.New("search-max-limit must be positive")
	}

	if s.DefaultLimit <= 0 || s.DefaultLimit > s.MaxLimit {
		return fmt.Errorf("search-default-limit must be between 1 and search-max-limit (%d), got: %d", s.MaxLimit, s.DefaultLimit)
	}

	if s.PositionWorkers <= 0 {
		return errors.New("search-position-workers must be positive")
	}

	return nil
}

// validateKeywordsSettings validates the keyword recompute configuration
func validateKeywordsSettings(k *KeywordsSettings) error {
	switch k.RecomputeMode {
	case RecomputeModeSync, RecomputeModeAsync:
		// valid
	default:
		return errors.New("keywords-recompute-mode must be 'sync' or 'async', got: " + k.RecomputeMode)
	}

	if k.RecomputeWorkers <= 0 {
		return errors.New("keywords-recompute-workers must be positive")
	}

	if k.RecomputeTimeout <= 0 {
		return errors.New("keywords-recompute-timeout must be positive")
	}

	if k.RecomputeRetries < 0 {
		return errors.New("keywords-recompute-retries cannot be negative")
	}

	return nil
}
