package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func validSettings() *Settings {
	return &Settings{
		Transport: "stdio",
		Host:      "0.0.0.0",
		Port:      8080,
		LogLevel:  "info",
		Store:     StoreSettings{Path: "/tmp/staffing.db"},
		Search: SearchSettings{
			DefaultLimit:    10,
			MaxLimit:        100,
			PositionWorkers: 4,
		},
		Keywords: KeywordsSettings{
			RecomputeMode:    RecomputeModeSync,
			RecomputeWorkers: 2,
			RecomputeTimeout: 30 * time.Second,
			RecomputeRetries: 3,
		},
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	_ = os.Unsetenv("STAFFING_MCP_PORT")
	_ = os.Unsetenv("STAFFING_MCP_STORE_PATH")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", settings.Port)
	}
	if settings.Transport != "stdio" {
		t.Errorf("Expected default transport 'stdio', got '%s'", settings.Transport)
	}
	if settings.Host != "0.0.0.0" {
		t.Errorf("Expected default host '0.0.0.0', got '%s'", settings.Host)
	}
	if settings.LogLevel != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", settings.LogLevel)
	}
	if !strings.HasSuffix(settings.Store.Path, filepath.Join(".staffing-mcp", "staffing.db")) {
		t.Errorf("Expected default store path under .staffing-mcp, got '%s'", settings.Store.Path)
	}
	if settings.Search.DefaultLimit != 10 || settings.Search.MaxLimit != 100 || settings.Search.PositionWorkers != 4 {
		t.Errorf("Unexpected search defaults: %+v", settings.Search)
	}
	if settings.Keywords.RecomputeMode != RecomputeModeSync {
		t.Errorf("Expected default recompute mode '%s', got '%s'", RecomputeModeSync, settings.Keywords.RecomputeMode)
	}
	if settings.Keywords.RecomputeWorkers != 2 {
		t.Errorf("Expected default recompute workers 2, got %d", settings.Keywords.RecomputeWorkers)
	}
	if settings.Keywords.RecomputeTimeout != 30*time.Second {
		t.Errorf("Expected default recompute timeout 30s, got %v", settings.Keywords.RecomputeTimeout)
	}
	if settings.Keywords.RecomputeRetries != 3 {
		t.Errorf("Expected default recompute retries 3, got %d", settings.Keywords.RecomputeRetries)
	}
}

func TestLoadSettings_EnvVars(t *testing.T) {
	t.Setenv("STAFFING_MCP_PORT", "9090")
	t.Setenv("STAFFING_MCP_LOG_LEVEL", "DEBUG")
	t.Setenv("STAFFING_MCP_STORE_PATH", "/data/staffing.db")
	t.Setenv("STAFFING_MCP_SEARCH_MAX_LIMIT", "250")
	t.Setenv("STAFFING_MCP_SEARCH_POSITION_WORKERS", "1")
	t.Setenv("STAFFING_MCP_KEYWORDS_RECOMPUTE_MODE", "Async")
	t.Setenv("STAFFING_MCP_KEYWORDS_RECOMPUTE_TIMEOUT", "5s")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", settings.Port)
	}
	if settings.LogLevel != "debug" {
		t.Errorf("Expected normalized log level 'debug', got '%s'", settings.LogLevel)
	}
	if settings.Store.Path != "/data/staffing.db" {
		t.Errorf("Expected store path '/data/staffing.db', got '%s'", settings.Store.Path)
	}
	if settings.Search.MaxLimit != 250 {
		t.Errorf("Expected max limit 250, got %d", settings.Search.MaxLimit)
	}
	if settings.Search.PositionWorkers != 1 {
		t.Errorf("Expected position workers 1, got %d", settings.Search.PositionWorkers)
	}
	if settings.Keywords.RecomputeMode != RecomputeModeAsync {
		t.Errorf("Expected recompute mode 'async', got '%s'", settings.Keywords.RecomputeMode)
	}
	if settings.Keywords.RecomputeTimeout != 5*time.Second {
		t.Errorf("Expected recompute timeout 5s, got %v", settings.Keywords.RecomputeTimeout)
	}
}

func TestLoadSettings_EnvFile(t *testing.T) {
	content := []byte("host=127.0.0.2\nport=7000")
	tmpEnv := ".env"
	if err := os.WriteFile(tmpEnv, content, 0644); err != nil {
		t.Fatalf("Failed to create .env file: %v", err)
	}
	defer func() { _ = os.Remove(tmpEnv) }()

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.Host != "127.0.0.2" {
		t.Errorf("Expected host 127.0.0.2, got %s", settings.Host)
	}
	if settings.Port != 7000 {
		t.Errorf("Expected port 7000, got %d", settings.Port)
	}
}

func TestLoadSettings_InvalidConfig(t *testing.T) {
	t.Setenv("STAFFING_MCP_PORT", "not-a-number")

	_, err := LoadSettings()
	if err == nil {
		t.Fatal("Expected error for invalid port type")
	}
}

func TestLoadSettings_StorePathExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}
	t.Setenv("STAFFING_MCP_STORE_PATH", "~/staffing/test.db")

	settings, err := LoadSettings()
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	expected := filepath.Join(home, "staffing", "test.db")
	if settings.Store.Path != expected {
		t.Errorf("Expected store path '%s', got '%s'", expected, settings.Store.Path)
	}
}

func TestLoadSettingsWithFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("STAFFING_MCP_PORT", "9090")
	t.Setenv("STAFFING_MCP_TRANSPORT", "sse")
	t.Setenv("STAFFING_MCP_KEYWORDS_RECOMPUTE_MODE", "async")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.String("transport", "", "")
	flags.String("keywords-recompute-mode", "", "")
	_ = flags.Set("port", "7777")
	_ = flags.Set("transport", "stdio")
	_ = flags.Set("keywords-recompute-mode", "sync")

	settings, err := LoadSettingsWithFlags(flags)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.Port != 7777 {
		t.Errorf("Expected CLI port 7777, got %d", settings.Port)
	}
	if settings.Transport != "stdio" {
		t.Errorf("Expected CLI transport 'stdio', got '%s'", settings.Transport)
	}
	if settings.Keywords.RecomputeMode != RecomputeModeSync {
		t.Errorf("Expected CLI recompute mode 'sync', got '%s'", settings.Keywords.RecomputeMode)
	}
}

func TestLoadSettingsWithFlags_EnvOverridesDefault(t *testing.T) {
	t.Setenv("STAFFING_MCP_HOST", "192.168.1.1")

	settings, err := LoadSettingsWithFlags(nil)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.Host != "192.168.1.1" {
		t.Errorf("Expected env host '192.168.1.1', got '%s'", settings.Host)
	}
}

func TestLoadSettingsWithFlags_UnsetFlagsKeepDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("search-max-limit", 0, "")
	flags.Duration("keywords-recompute-timeout", 0, "")

	settings, err := LoadSettingsWithFlags(flags)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.Search.MaxLimit != 100 {
		t.Errorf("Expected default max limit 100, got %d", settings.Search.MaxLimit)
	}
	if settings.Keywords.RecomputeTimeout != 30*time.Second {
		t.Errorf("Expected default recompute timeout 30s, got %v", settings.Keywords.RecomputeTimeout)
	}
}

func TestLoadSettingsWithFlags_AllFlagTypes(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("transport", "", "")
	flags.String("host", "", "")
	flags.Int("port", 0, "")
	flags.String("log-level", "", "")
	flags.String("store-path", "", "")
	flags.Int("search-default-limit", 0, "")
	flags.Int("search-max-limit", 0, "")
	flags.Int("search-position-workers", 0, "")
	flags.String("keywords-recompute-mode", "", "")
	flags.Int("keywords-recompute-workers", 0, "")
	flags.Duration("keywords-recompute-timeout", 0, "")
	flags.Int("keywords-recompute-retries", 0, "")

	_ = flags.Set("transport", "sse")
	_ = flags.Set("host", "localhost")
	_ = flags.Set("port", "3000")
	_ = flags.Set("log-level", "warn")
	_ = flags.Set("store-path", "/srv/staffing.db")
	_ = flags.Set("search-default-limit", "5")
	_ = flags.Set("search-max-limit", "20")
	_ = flags.Set("search-position-workers", "8")
	_ = flags.Set("keywords-recompute-mode", "async")
	_ = flags.Set("keywords-recompute-workers", "6")
	_ = flags.Set("keywords-recompute-timeout", "1m")
	_ = flags.Set("keywords-recompute-retries", "0")

	settings, err := LoadSettingsWithFlags(flags)
	if err != nil {
		t.Fatalf("Failed to load settings: %v", err)
	}

	if settings.Transport != "sse" {
		t.Errorf("Expected transport 'sse', got '%s'", settings.Transport)
	}
	if settings.Host != "localhost" {
		t.Errorf("Expected host 'localhost', got '%s'", settings.Host)
	}
	if settings.Port != 3000 {
		t.Errorf("Expected port 3000, got %d", settings.Port)
	}
	if settings.LogLevel != "warn" {
		t.Errorf("Expected log level 'warn', got '%s'", settings.LogLevel)
	}
	if settings.Store.Path != "/srv/staffing.db" {
		t.Errorf("Expected store path '/srv/staffing.db', got '%s'", settings.Store.Path)
	}
	if settings.Search != (SearchSettings{DefaultLimit: 5, MaxLimit: 20, PositionWorkers: 8}) {
		t.Errorf("Unexpected search settings: %+v", settings.Search)
	}
	want := KeywordsSettings{
		RecomputeMode:    RecomputeModeAsync,
		RecomputeWorkers: 6,
		RecomputeTimeout: time.Minute,
		RecomputeRetries: 0,
	}
	if settings.Keywords != want {
		t.Errorf("Expected keywords settings %+v, got %+v", want, settings.Keywords)
	}
}

// --- ValidateSettings Tests ---

func TestValidateSettings_Valid(t *testing.T) {
	if err := ValidateSettings(validSettings()); err != nil {
		t.Errorf("Expected no error for valid settings, got: %v", err)
	}

	s := validSettings()
	s.Transport = "sse"
	s.Keywords.RecomputeMode = RecomputeModeAsync
	if err := ValidateSettings(s); err != nil {
		t.Errorf("Expected no error for valid sse/async settings, got: %v", err)
	}
}

func TestValidateSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr string
	}{
		{name: "transport", mutate: func(s *Settings) { s.Transport = "http" }, wantErr: "transport must be"},
		{name: "sse port", mutate: func(s *Settings) { s.Transport = "sse"; s.Port = 0 }, wantErr: "port must be"},
		{name: "log level", mutate: func(s *Settings) { s.LogLevel = "verbose" }, wantErr: "log-level"},
		{name: "store path", mutate: func(s *Settings) { s.Store.Path = "  " }, wantErr: "store-path"},
		{name: "max limit", mutate: func(s *Settings) { s.Search.MaxLimit = 0 }, wantErr: "search-max-limit"},
		{name: "default limit zero", mutate: func(s *Settings) { s.Search.DefaultLimit = 0 }, wantErr: "search-default-limit"},
		{name: "default limit above max", mutate: func(s *Settings) { s.Search.DefaultLimit = 101 }, wantErr: "search-default-limit"},
		{name: "position workers", mutate: func(s *Settings) { s.Search.PositionWorkers = 0 }, wantErr: "search-position-workers"},
		{name: "recompute mode", mutate: func(s *Settings) { s.Keywords.RecomputeMode = "later" }, wantErr: "keywords-recompute-mode"},
		{name: "recompute workers", mutate: func(s *Settings) { s.Keywords.RecomputeWorkers = 0 }, wantErr: "keywords-recompute-workers"},
		{name: "recompute timeout", mutate: func(s *Settings) { s.Keywords.RecomputeTimeout = 0 }, wantErr: "keywords-recompute-timeout"},
		{name: "recompute retries", mutate: func(s *Settings) { s.Keywords.RecomputeRetries = -1 }, wantErr: "keywords-recompute-retries"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)

			err := ValidateSettings(s)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing '%s', got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidateSettings_StdioIgnoresPort(t *testing.T) {
	s := validSettings()
	s.Port = 0
	if err := ValidateSettings(s); err != nil {
		t.Errorf("Expected port to be ignored for stdio, got: %v", err)
	}
}

func TestExpandHomeDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/test", filepath.Join(home, "test")},
		{"~", home},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := expandHomeDir(tt.input)
			if result != tt.expected {
				t.Errorf("expandHomeDir(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}
