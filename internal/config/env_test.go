package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, dir, content string) {
	t.Helper()
	path := filepath.Join(dir, "vsibatch.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadEnvironment_MissingFileKeepsDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := LoadEnvironment(&cfg, t.TempDir()); err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	if cfg.MemoryGiB != 28 || cfg.Concurrency != 2 {
		t.Errorf("defaults changed: memory=%d concurrency=%d", cfg.MemoryGiB, cfg.Concurrency)
	}
}

func TestLoadEnvironment_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "concurrency: 4\nmemory_gib: 12\ninput_ext: .ndpi\n")

	cfg := DefaultConfig()
	if err := LoadEnvironment(&cfg, dir); err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Concurrency = %d, want 4", cfg.Concurrency)
	}
	if cfg.MemoryGiB != 12 {
		t.Errorf("MemoryGiB = %d, want 12", cfg.MemoryGiB)
	}
	if cfg.InputExt != ".ndpi" {
		t.Errorf("InputExt = %q, want .ndpi", cfg.InputExt)
	}
	// Keys absent from the file keep their defaults.
	if cfg.OutputExt != ".tif" {
		t.Errorf("OutputExt = %q, want .tif", cfg.OutputExt)
	}
}

func TestLoadEnvironment_EnvOverrides(t *testing.T) {
	t.Setenv("VSIBATCH_CONCURRENCY", "6")
	t.Setenv("VSIBATCH_MEMORY_GIB", "8")

	cfg := DefaultConfig()
	if err := LoadEnvironment(&cfg, t.TempDir()); err != nil {
		t.Fatalf("LoadEnvironment: %v", err)
	}
	if cfg.Concurrency != 6 {
		t.Errorf("Concurrency = %d, want 6 (env)", cfg.Concurrency)
	}
	if cfg.MemoryGiB != 8 {
		t.Errorf("MemoryGiB = %d, want 8 (env)", cfg.MemoryGiB)
	}
}

func TestLoadEnvironment_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "concurrency: [not closed\n")

	cfg := DefaultConfig()
	if err := LoadEnvironment(&cfg, dir); err == nil {
		t.Error("expected error for malformed config file")
	}
}
