package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saulo-duarte/aizzler/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("MissingFileUsesDefaults", func(t *testing.T) {
		s, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		if err != nil {
			t.Fatalf("Load returned error for missing file: %v", err)
		}
		if s.Server.Port != "8080" {
			t.Errorf("expected default port 8080, got %q", s.Server.Port)
		}
		if s.Database.Driver != "postgres" {
			t.Errorf("expected default driver postgres, got %q", s.Database.Driver)
		}
		if s.Gemini.Model != "gemini-2.0-flash" {
			t.Errorf("unexpected default model %q", s.Gemini.Model)
		}
		if s.Gemini.MaxOutputTokens != 8192 {
			t.Errorf("unexpected default max tokens %d", s.Gemini.MaxOutputTokens)
		}
		if s.Gemini.Temperature == nil || *s.Gemini.Temperature != 0.2 {
			t.Errorf("expected default temperature 0.2, got %v", s.Gemini.Temperature)
		}
	})

	t.Run("ZeroTemperatureIsKept", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		if err := os.WriteFile(path, []byte("gemini:\n  temperature: 0\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		s, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if s.Gemini.Temperature == nil || *s.Gemini.Temperature != 0 {
			t.Errorf("explicit zero temperature was overridden: %v", s.Gemini.Temperature)
		}
	})

	t.Run("FileThenEnvOverride", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		body := []byte("server:\n  port: \"9000\"\ndatabase:\n  driver: sqlite\n  dsn: file.db\ngemini:\n  model: from-file\n")
		if err := os.WriteFile(path, body, 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("GEMINI_MODEL", "from-env")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

		s, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if s.Server.Port != "9000" {
			t.Errorf("expected port from file, got %q", s.Server.Port)
		}
		if s.Database.Driver != "sqlite" || s.Database.DSN != "file.db" {
			t.Errorf("database settings not read from file: %+v", s.Database)
		}
		if s.Gemini.Model != "from-env" {
			t.Errorf("env should override file, got %q", s.Gemini.Model)
		}
		if len(s.Server.AllowedOrigins) != 2 || s.Server.AllowedOrigins[1] != "http://b.test" {
			t.Errorf("unexpected origins %v", s.Server.AllowedOrigins)
		}
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := config.Load(path); err == nil {
			t.Fatal("expected error for invalid YAML")
		}
	})
}

func TestDuration(t *testing.T) {
	if d := config.Duration("", time.Minute); d != time.Minute {
		t.Errorf("empty should fall back, got %v", d)
	}
	if d := config.Duration("garbage", time.Minute); d != time.Minute {
		t.Errorf("invalid should fall back, got %v", d)
	}
	if d := config.Duration("90s", time.Minute); d != 90*time.Second {
		t.Errorf("expected 90s, got %v", d)
	}
}
