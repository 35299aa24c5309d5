package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("CreatesDefaults", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg, err := LoadConfig(dir)
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if cfg.Git.AuthorName != "scriptforge" {
			t.Errorf("AuthorName = %q", cfg.Git.AuthorName)
		}
		if cfg.Renderer.URL != "http://localhost:4000" || cfg.Renderer.TimeoutSeconds != 5 {
			t.Errorf("Renderer = %+v", cfg.Renderer)
		}
		// The defaults are persisted for the next start.
		if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
			t.Errorf("config.yaml not written: %v", err)
		}
	})

	t.Run("PartialFileKeepsDefaults", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		data := []byte("renderer:\n  url: http://parser:9000\n")
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}

		cfg, err := LoadConfig(dir)
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if cfg.Renderer.URL != "http://parser:9000" {
			t.Errorf("URL = %q", cfg.Renderer.URL)
		}
		// Unset sections retain their defaults.
		if cfg.Git.AuthorName != "scriptforge" {
			t.Errorf("AuthorName = %q", cfg.Git.AuthorName)
		}
		if cfg.RateLimits.WriteRatePerMin != 600 {
			t.Errorf("WriteRatePerMin = %d", cfg.RateLimits.WriteRatePerMin)
		}
	})

	t.Run("InvalidValues", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		data := []byte("rate_limits:\n  write_rate_per_min: -1\n")
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0o600); err != nil {
			t.Fatalf("WriteFile() failed: %v", err)
		}
		if _, err := LoadConfig(dir); err == nil {
			t.Error("LoadConfig() succeeded with negative rate limit")
		}
	})

	t.Run("SaveRoundTrip", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		cfg := DefaultConfig()
		cfg.Git.AuthorName = "writer"
		cfg.Renderer.TimeoutSeconds = 10
		if err := cfg.Save(dir); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}

		loaded, err := LoadConfig(dir)
		if err != nil {
			t.Fatalf("LoadConfig() failed: %v", err)
		}
		if loaded.Git.AuthorName != "writer" || loaded.Renderer.TimeoutSeconds != 10 {
			t.Errorf("loaded = %+v", loaded)
		}
	})
}
