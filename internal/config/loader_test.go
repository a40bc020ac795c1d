package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func baseEnvironment() map[string]string {
	return map[string]string{
		"EVENTDESK_BACKEND_URL":    "https://events.example.edu",
		"EVENTDESK_SESSION_SECRET": "super-secret",
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {
	t.Parallel()

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadFrom(baseEnvironment())
		if err != nil {
			t.Fatalf("LoadFrom returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SessionDSN != "file:eventdesk.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SessionDSN)
		}
		if cfg.RequestTimeout != 15*time.Second {
			t.Fatalf("unexpected default timeout: %v", cfg.RequestTimeout)
		}
		if cfg.CreateLeadDays != 0 || cfg.UpdateLeadDays != 3 {
			t.Fatalf("unexpected lead days: create=%d update=%d", cfg.CreateLeadDays, cfg.UpdateLeadDays)
		}
		if cfg.CatalogTTL != 5*time.Minute {
			t.Fatalf("unexpected catalog TTL: %v", cfg.CatalogTTL)
		}
		if cfg.RedisEnabled() {
			t.Fatalf("redis must be disabled without an address")
		}
	})

	t.Run("errors when required values are missing", func(t *testing.T) {
		t.Parallel()

		_, err := LoadFrom(map[string]string{})
		if err == nil {
			t.Fatalf("expected error when required values are missing")
		}
		for _, key := range []string{"EVENTDESK_BACKEND_URL", "EVENTDESK_SESSION_SECRET"} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s in error, got %v", key, err)
			}
		}
	})

	t.Run("parses overrides", func(t *testing.T) {
		t.Parallel()

		environ := baseEnvironment()
		environ["EVENTDESK_HTTP_PORT"] = "9090"
		environ["EVENTDESK_SESSION_DSN"] = "file:/tmp/custom.db"
		environ["EVENTDESK_REQUEST_TIMEOUT"] = "3s"
		environ["EVENTDESK_CREATE_LEAD_DAYS"] = "1"
		environ["EVENTDESK_UPDATE_LEAD_DAYS"] = "7"
		environ["EVENTDESK_REDIS_ADDR"] = "localhost:6379"
		environ["EVENTDESK_REDIS_DB"] = "2"

		cfg, err := LoadFrom(environ)
		if err != nil {
			t.Fatalf("LoadFrom returned error: %v", err)
		}
		if cfg.HTTPPort != 9090 || cfg.SessionDSN != "file:/tmp/custom.db" {
			t.Fatalf("unexpected overrides: %+v", cfg)
		}
		if cfg.RequestTimeout != 3*time.Second {
			t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout)
		}
		if cfg.CreateLeadDays != 1 || cfg.UpdateLeadDays != 7 {
			t.Fatalf("unexpected lead days: %+v", cfg)
		}
		if !cfg.RedisEnabled() || cfg.RedisDB != 2 {
			t.Fatalf("expected redis settings, got %+v", cfg)
		}
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		t.Parallel()

		environ := baseEnvironment()
		environ["EVENTDESK_HTTP_PORT"] = "0"
		environ["EVENTDESK_UPDATE_LEAD_DAYS"] = "-1"

		_, err := LoadFrom(environ)
		if err == nil {
			t.Fatalf("expected error for invalid values")
		}
		for _, key := range []string{"EVENTDESK_HTTP_PORT", "EVENTDESK_UPDATE_LEAD_DAYS"} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s in error, got %v", key, err)
			}
		}
	})

	t.Run("rejects unparsable values", func(t *testing.T) {
		t.Parallel()

		environ := baseEnvironment()
		environ["EVENTDESK_REQUEST_TIMEOUT"] = "soon"

		if _, err := LoadFrom(environ); err == nil {
			t.Fatalf("expected error for unparsable duration")
		}
	})
}

func TestLoadDotEnv(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("missing file must be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("EVENTDESK_TEST_DOTENV=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("EVENTDESK_TEST_DOTENV", "")
	os.Unsetenv("EVENTDESK_TEST_DOTENV")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv("EVENTDESK_TEST_DOTENV"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}
