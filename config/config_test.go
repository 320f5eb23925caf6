package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "FASTAPI_URL", "SERPER_API_KEY", "CACHE_CAPACITY", "HISTORY_DB_PATH", "UI_CONFIG_PATH"} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.AppPort != 3000 {
		t.Errorf("expected default port 3000, got %d", cfg.AppPort)
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Errorf("expected default backend URL, got %q", cfg.BackendURL)
	}
	if cfg.CacheCapacity != 32 {
		t.Errorf("expected default cache capacity 32, got %d", cfg.CacheCapacity)
	}
}

func TestLoadTrimsTrailingSlash(t *testing.T) {
	t.Setenv("FASTAPI_URL", "http://backend:8000/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BackendURL != "http://backend:8000" {
		t.Errorf("trailing slash not trimmed: %q", cfg.BackendURL)
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_PORT")
	}
}

func TestLoadUIDefaults(t *testing.T) {
	cfg, err := LoadUI("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Layout != "split" || cfg.Theme.Accent == "" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadUIFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.yaml")
	data := []byte("layout: stacked\ntheme:\n  accent: \"#ff0000\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := LoadUI(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Layout != "stacked" {
		t.Errorf("expected stacked layout, got %q", cfg.Layout)
	}
	if cfg.Theme.Accent != "#ff0000" {
		t.Errorf("expected overridden accent, got %q", cfg.Theme.Accent)
	}
	if cfg.Theme.Background == "" {
		t.Error("unset fields should keep defaults")
	}
}

func TestLoadUIRejectsUnknownLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ui.yaml")
	if err := os.WriteFile(path, []byte("layout: sideways\n"), 0644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if _, err := LoadUI(path); err == nil {
		t.Fatal("expected error for unknown layout")
	}
}
