package jnikit_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/swifdroid/jnikit"
)

func TestDefaultOptions(t *testing.T) {
	opts := jnikit.DefaultOptions()
	if opts.AttachAsDaemon {
		t.Error("expected non-daemon attachment by default")
	}
	if opts.NegativeCacheSize != 128 {
		t.Errorf("expected a negative cache of 128, got %d", opts.NegativeCacheSize)
	}
	if opts.LogTag != "jnikit" {
		t.Errorf("expected log tag 'jnikit', got %q", opts.LogTag)
	}
	if opts.LogLevel != "warn" {
		t.Errorf("expected log level 'warn', got %q", opts.LogLevel)
	}
	if len(opts.Preload) != 0 {
		t.Errorf("expected no preload by default, got %v", opts.Preload)
	}
}

func TestLoadOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jnikit.toml")
	config := `
attach_as_daemon = true
negative_cache_size = 256
preload = ["android/os/Build", "android/util/Log"]
log_level = "debug"
`
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	opts, err := jnikit.LoadOptions(path)
	if err != nil {
		t.Fatalf("LoadOptions failed: %v", err)
	}
	if !opts.AttachAsDaemon {
		t.Error("expected daemon attachment to be enabled")
	}
	if opts.NegativeCacheSize != 256 {
		t.Errorf("expected a negative cache of 256, got %d", opts.NegativeCacheSize)
	}
	if len(opts.Preload) != 2 || opts.Preload[0] != "android/os/Build" {
		t.Errorf("unexpected preload list: %v", opts.Preload)
	}
	if opts.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %q", opts.LogLevel)
	}
	// Keys absent from the file keep their defaults.
	if opts.LogTag != "jnikit" {
		t.Errorf("expected log tag 'jnikit', got %q", opts.LogTag)
	}
}

func TestLoadOptionsMissingFile(t *testing.T) {
	opts, err := jnikit.LoadOptions(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	// The returned options are still the usable defaults, so callers can
	// fall back without special-casing.
	if opts.NegativeCacheSize != jnikit.DefaultOptions().NegativeCacheSize {
		t.Errorf("expected defaults back, got %+v", opts)
	}
}

func TestLoadOptionsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jnikit.toml")
	if err := os.WriteFile(path, []byte("attach_as_daemon = {"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := jnikit.LoadOptions(path); err == nil {
		t.Fatal("expected an error for malformed TOML")
	}
}

func TestLoadOptionsRejectsNegativeCacheSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jnikit.toml")
	if err := os.WriteFile(path, []byte("negative_cache_size = -1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := jnikit.LoadOptions(path); err == nil {
		t.Fatal("expected an error for a negative cache size")
	}
}
