package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	if cfg.Settings != def.Settings || cfg.Driver != def.Driver {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if interval, err := cfg.WatchInterval(); err != nil || interval != time.Second {
		t.Fatalf("expected hot reload every 1s by default, got %s (%v)", interval, err)
	}
}

func TestWatchIntervalHonoursDisabledHotReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("hot_reload:\n  enabled: false\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := cfg.WatchInterval(); !errors.Is(err, ErrHotReloadDisabled) {
		t.Fatalf("expected ErrHotReloadDisabled, got %v", err)
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `settings: profiles/settings.json
driver:
  path: run/driver.bin
  readback_verify: false
logging:
  level: debug
  format: text
telemetry:
  enabled: true
  listen: 127.0.0.1:9000
hot_reload:
  enabled: true
  poll_interval: 250ms
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Settings != filepath.Join(dir, "profiles", "settings.json") {
		t.Fatalf("unexpected settings path %q", cfg.Settings)
	}
	if cfg.Driver.Path != filepath.Join(dir, "run", "driver.bin") {
		t.Fatalf("unexpected driver path %q", cfg.Driver.Path)
	}
	if cfg.Driver.ReadbackVerify {
		t.Fatalf("expected readback verification to be disabled")
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
	if !cfg.Telemetry.Enabled || cfg.Telemetry.Listen != "127.0.0.1:9000" {
		t.Fatalf("unexpected telemetry config: %+v", cfg.Telemetry)
	}
	if !cfg.HotReload.Enabled || cfg.PollInterval() != 250*time.Millisecond {
		t.Fatalf("unexpected hot reload config: %+v", cfg.HotReload)
	}
}

func TestLoadRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("hot_reload:\n  poll_interval: soon\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestDurationMarshalsAsString(t *testing.T) {
	out, err := Duration{1500 * time.Millisecond}.MarshalYAML()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if out != "1.5s" {
		t.Fatalf("expected 1.5s, got %v", out)
	}
}
