// Package config handles loading and saving kv configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config: ~/.config/kv/config.yaml
//   - State:  ~/.local/state/kv/ (export wizard answers)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const appName = "kv"

// UIConfig holds view preferences.
type UIConfig struct {
	// Expanded overrides the initial open/closed state of named sections,
	// e.g. {"grandfatherWives": true}.
	Expanded         map[string]bool `yaml:"expanded,omitempty"`
	ShowResultsPanel *bool           `yaml:"show_results_panel,omitempty"`
	// CardWidth is the minimum card width; cards grow to fit the longest
	// name up to the panel width.
	CardWidth        int             `yaml:"card_width,omitempty"`
}

// ExportConfig holds defaults for the export commands.
type ExportConfig struct {
	DefaultDir string `yaml:"default_dir,omitempty"`
	Title      string `yaml:"title,omitempty"`
}

// WatchConfig tunes live reload of an external record file. Durations are
// written like "2s" or "300ms". ForcePoll skips fsnotify, e.g. for records
// on network mounts.
type WatchConfig struct {
	Debounce     time.Duration `yaml:"debounce,omitempty"`
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
	ForcePoll    bool          `yaml:"force_poll,omitempty"`
}

// Config is the top-level configuration for kv.
type Config struct {
	// DataPath points at an external record file (.yaml, .json or .sqlite).
	// Empty means the record built into the binary.
	DataPath string       `yaml:"data_path,omitempty"`
	UI       UIConfig     `yaml:"ui,omitempty"`
	Export   ExportConfig `yaml:"export,omitempty"`
	Watch    WatchConfig  `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			Expanded:  make(map[string]bool),
			CardWidth: 48,
		},
		Export: ExportConfig{
			DefaultDir: "kv-export",
			Title:      "Family Tree Explorer",
		},
		Watch: WatchConfig{
			Debounce:     200 * time.Millisecond,
			PollInterval: 2 * time.Second,
		},
	}
}

// ResultsPanelEnabled reports whether the search results panel is shown.
// It defaults to on.
func (c Config) ResultsPanelEnabled() bool {
	return c.UI.ShowResultsPanel == nil || *c.UI.ShowResultsPanel
}

// ConfigDir returns the XDG config directory for kv.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for kv.
func StateDir() string {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, fallback, appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.UI.Expanded == nil {
		cfg.UI.Expanded = make(map[string]bool)
	}
	if cfg.UI.CardWidth <= 0 {
		cfg.UI.CardWidth = DefaultConfig().UI.CardWidth
	}
	cfg.DataPath = expandHome(cfg.DataPath)
	cfg.Export.DefaultDir = expandHome(cfg.Export.DefaultDir)

	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
