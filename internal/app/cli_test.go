package app

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestRegisterFlags(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	expectedFlags := []string{
		"transport",
		"host",
		"port",
		"log-level",
		"store-path",
		"search-default-limit",
		"search-max-limit",
		"search-position-workers",
		"keywords-recompute-mode",
		"keywords-recompute-workers",
		"keywords-recompute-timeout",
		"keywords-recompute-retries",
	}

	for _, name := range expectedFlags {
		if flags.Lookup(name) == nil {
			t.Errorf("Expected flag %q to be registered", name)
		}
	}
}

func TestRegisterFlags_Shorthand(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	shorthandFlags := map[string]string{
		"transport":               "t",
		"host":                    "H",
		"port":                    "p",
		"log-level":               "l",
		"store-path":              "s",
		"keywords-recompute-mode": "m",
	}

	for name, shorthand := range shorthandFlags {
		flag := flags.Lookup(name)
		if flag == nil {
			t.Errorf("Flag %q not found", name)
			continue
		}
		if flag.Shorthand != shorthand {
			t.Errorf("Flag %q expected shorthand %q, got %q", name, shorthand, flag.Shorthand)
		}
	}
}

func TestRegisterFlags_SetValues(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)

	err := flags.Parse([]string{
		"--transport", "sse",
		"--host", "localhost",
		"--port", "9090",
		"-s", "/data/staffing.db",
		"--search-max-limit", "50",
		"-m", "async",
		"--keywords-recompute-timeout", "5s",
	})
	if err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	transport, _ := flags.GetString("transport")
	if transport != "sse" {
		t.Errorf("Expected transport 'sse', got '%s'", transport)
	}

	port, _ := flags.GetInt("port")
	if port != 9090 {
		t.Errorf("Expected port 9090, got %d", port)
	}

	storePath, _ := flags.GetString("store-path")
	if storePath != "/data/staffing.db" {
		t.Errorf("Expected store-path '/data/staffing.db', got '%s'", storePath)
	}

	maxLimit, _ := flags.GetInt("search-max-limit")
	if maxLimit != 50 {
		t.Errorf("Expected search-max-limit 50, got %d", maxLimit)
	}

	mode, _ := flags.GetString("keywords-recompute-mode")
	if mode != "async" {
		t.Errorf("Expected keywords-recompute-mode 'async', got '%s'", mode)
	}

	timeout, _ := flags.GetDuration("keywords-recompute-timeout")
	if timeout != 5*time.Second {
		t.Errorf("Expected keywords-recompute-timeout 5s, got %v", timeout)
	}
}
