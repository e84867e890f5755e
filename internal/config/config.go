package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

const appDir = "accelconf"

// ErrHotReloadDisabled is returned by WatchInterval when hot_reload.enabled is false.
var ErrHotReloadDisabled = errors.New("hot reload is disabled in the configuration")

// Duration wraps time.Duration to support YAML unmarshalling from strings.
type Duration struct {
	time.Duration
}

// UnmarshalYAML parses duration strings like "5s" or "1m".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		return fmt.Errorf("duration value node is nil")
	}
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("decode duration: %w", err)
	}
	if raw == "" {
		d.Duration = 0
		return nil
	}
	dur, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", raw, err)
	}
	d.Duration = dur
	return nil
}

// MarshalYAML renders the duration as a string.
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// DriverConfig describes where the driver record is exchanged.
type DriverConfig struct {
	Path           string `yaml:"path"`
	ReadbackVerify bool   `yaml:"readback_verify,omitempty"`
}

// LokiConfig configures optional Loki integration for logging.
type LokiConfig struct {
	Enabled bool              `yaml:"enabled"`
	URL     string            `yaml:"url"`
	Labels  map[string]string `yaml:"labels"`
}

// LoggingConfig encapsulates runtime logging options.
type LoggingConfig struct {
	Level  string     `yaml:"level"`
	Format string     `yaml:"format,omitempty"`
	Loki   LokiConfig `yaml:"loki"`
}

// TelemetryConfig controls the metrics endpoint of the watch command.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider,omitempty"`
	Listen   string `yaml:"listen,omitempty"`
}

// HotReloadConfig controls re-applying the settings file when it changes.
type HotReloadConfig struct {
	Enabled      bool     `yaml:"enabled"`
	PollInterval Duration `yaml:"poll_interval,omitempty"`
}

// Config is the configuration of the accelconf command itself.
type Config struct {
	Settings  string          `yaml:"settings"`
	Driver    DriverConfig    `yaml:"driver"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	HotReload HotReloadConfig `yaml:"hot_reload"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Settings: filepath.Join(xdg.ConfigHome, appDir, "settings.yaml"),
		Driver: DriverConfig{
			Path:           filepath.Join(xdg.StateHome, appDir, "driver.bin"),
			ReadbackVerify: true,
		},
		Logging:   LoggingConfig{Level: "info"},
		Telemetry: TelemetryConfig{Listen: ":9464"},
		HotReload: HotReloadConfig{Enabled: true, PollInterval: Duration{time.Second}},
	}
}

// DefaultPath returns the location of the configuration file, preferring
// an existing file in the XDG search path.
func DefaultPath() string {
	if path, err := xdg.SearchConfigFile(filepath.Join(appDir, "config.yaml")); err == nil {
		return path
	}
	return filepath.Join(xdg.ConfigHome, appDir, "config.yaml")
}

// Load reads the configuration file on top of the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if !filepath.IsAbs(cfg.Settings) && cfg.Settings != "" {
		cfg.Settings = filepath.Join(filepath.Dir(path), cfg.Settings)
	}
	if !filepath.IsAbs(cfg.Driver.Path) && cfg.Driver.Path != "" {
		cfg.Driver.Path = filepath.Join(filepath.Dir(path), cfg.Driver.Path)
	}
	return cfg, nil
}

// PollInterval returns the hot reload polling interval.
func (c *Config) PollInterval() time.Duration {
	if c == nil || c.HotReload.PollInterval.Duration <= 0 {
		return time.Second
	}
	return c.HotReload.PollInterval.Duration
}

// WatchInterval returns the polling interval of the watch command, or
// ErrHotReloadDisabled when hot reload is switched off.
func (c *Config) WatchInterval() (time.Duration, error) {
	if c == nil || !c.HotReload.Enabled {
		return 0, ErrHotReloadDisabled
	}
	return c.PollInterval(), nil
}
