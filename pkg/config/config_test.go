package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DataPath != "" {
		t.Errorf("expected embedded record by default, got %q", cfg.DataPath)
	}
	if cfg.UI.CardWidth != 48 {
		t.Errorf("expected card width 48, got %d", cfg.UI.CardWidth)
	}
	if cfg.UI.Expanded == nil {
		t.Error("expected expanded map to be initialized")
	}
	if !cfg.ResultsPanelEnabled() {
		t.Error("results panel should default to on")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.Export.Title != "Family Tree Explorer" {
		t.Errorf("expected default config, got title %q", cfg.Export.Title)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
data_path: ~/family/record.yaml
ui:
  expanded:
    grandfatherWives: true
    siblings: false
  show_results_panel: false
  card_width: 50
export:
  default_dir: /tmp/out
  title: Our Family
watch:
  debounce: 300ms
  poll_interval: 5s
  force_poll: true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "family/record.yaml"); cfg.DataPath != want {
		t.Errorf("expected expanded data path %q, got %q", want, cfg.DataPath)
	}
	if !cfg.UI.Expanded["grandfatherWives"] || cfg.UI.Expanded["siblings"] {
		t.Errorf("unexpected expanded overrides: %v", cfg.UI.Expanded)
	}
	if cfg.ResultsPanelEnabled() {
		t.Error("results panel should be disabled")
	}
	if cfg.UI.CardWidth != 50 {
		t.Errorf("expected card width 50, got %d", cfg.UI.CardWidth)
	}
	if cfg.Export.DefaultDir != "/tmp/out" || cfg.Export.Title != "Our Family" {
		t.Errorf("unexpected export config: %+v", cfg.Export)
	}
	want := WatchConfig{Debounce: 300 * time.Millisecond, PollInterval: 5 * time.Second, ForcePoll: true}
	if cfg.Watch != want {
		t.Errorf("unexpected watch config: %+v", cfg.Watch)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("ui: [not: valid"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadFrom_ZeroCardWidthFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  card_width: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.UI.CardWidth != 48 {
		t.Errorf("expected fallback width 48, got %d", cfg.UI.CardWidth)
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	off := false
	cfg := DefaultConfig()
	cfg.DataPath = "/data/family.json"
	cfg.UI.Expanded["grandfatherWives"] = true
	cfg.UI.ShowResultsPanel = &off

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.DataPath != cfg.DataPath {
		t.Errorf("data path: got %q", got.DataPath)
	}
	if !got.UI.Expanded["grandfatherWives"] {
		t.Error("expanded override lost")
	}
	if got.ResultsPanelEnabled() {
		t.Error("results panel flag lost")
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	tests := []struct {
		input string
		want  string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"/abs/path", "/abs/path"},
		{"relative", "relative"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := expandHome(tt.input); got != tt.want {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	if got := ConfigDir(); got != "/custom/config/kv" {
		t.Errorf("expected /custom/config/kv, got %q", got)
	}
	if got := ConfigPath(); got != "/custom/config/kv/config.yaml" {
		t.Errorf("unexpected config path %q", got)
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")
	if got := StateDir(); got != "/custom/state/kv" {
		t.Errorf("expected /custom/state/kv, got %q", got)
	}
}
