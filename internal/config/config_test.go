package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Review.DefaultSeverity != "all" {
		t.Errorf("expected DefaultSeverity=all, got %s", cfg.Review.DefaultSeverity)
	}
	if cfg.Review.ChunkSize != 2000 {
		t.Errorf("expected ChunkSize=2000, got %d", cfg.Review.ChunkSize)
	}
	if cfg.ValidatorTimeout() != 50*time.Millisecond {
		t.Errorf("expected validator timeout 50ms, got %v", cfg.ValidatorTimeout())
	}
	if cfg.WallClock() != 2*time.Second {
		t.Errorf("expected wall clock 2s, got %v", cfg.WallClock())
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("PINELINT_SEVERITY", "")
	t.Setenv("PINELINT_DOCS_PATH", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "pinelint.yaml")

	cfg := DefaultConfig()
	cfg.Review.DefaultSeverity = "error"
	cfg.Scan.Root = "/src"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Review.DefaultSeverity != "error" {
		t.Errorf("expected DefaultSeverity=error, got %s", loaded.Review.DefaultSeverity)
	}
	if loaded.Scan.Root != "/src" {
		t.Errorf("expected Scan.Root=/src, got %s", loaded.Scan.Root)
	}
}

func TestConfig_LoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("PINELINT_SEVERITY", "")

	loaded, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file should not error, got %v", err)
	}
	if loaded.Review.DefaultSeverity != "all" {
		t.Errorf("expected default severity all, got %s", loaded.Review.DefaultSeverity)
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PINELINT_SEVERITY", "warning")
	t.Setenv("PINELINT_SCAN_ROOT", "/override")
	t.Setenv("PINELINT_DEBUG", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Review.DefaultSeverity != "warning" {
		t.Errorf("expected env override severity=warning, got %s", cfg.Review.DefaultSeverity)
	}
	if cfg.Scan.Root != "/override" {
		t.Errorf("expected env override scan root, got %s", cfg.Scan.Root)
	}
	if !cfg.Logging.DebugMode {
		t.Error("expected PINELINT_DEBUG=true to enable debug mode")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}

	cfg.Review.DefaultSeverity = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid severity")
	}

	cfg = DefaultConfig()
	cfg.Review.ChunkSize = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive chunk size")
	}
}
