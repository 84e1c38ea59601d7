package ui

import (
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	// Keep tests away from the user's config and from the real clipboard.
	dir, err := os.MkdirTemp("", "kv-ui-test")
	if err == nil {
		os.Setenv("XDG_CONFIG_HOME", dir)
		os.Setenv("XDG_STATE_HOME", dir)
	}
	clipboardWrite = func(string) error { return nil }

	code := m.Run()

	if dir != "" {
		os.RemoveAll(dir)
	}
	os.Exit(code)
}
