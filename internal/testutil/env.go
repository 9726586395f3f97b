// Package testutil provides utilities for testing whelk in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// SetupTestEnv points every path whelk derives from the environment at
// a fresh temp directory and strips inherited activation state, so
// tests never read or touch the developer's real shell setup.
//
// The xdg library resolves its base directories once at package init,
// which is why the WHELK_* overrides below are set explicitly instead
// of relying on a redirected HOME. Cleanup is handled by t.TempDir and
// t.Setenv.
//
// Returns the fake home directory.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	home := filepath.Join(tmpDir, "home")
	root := filepath.Join(tmpDir, "whelk")

	// Activation state inherited from the developer's shell would leak
	// into transition calculations.
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, "WHELK_") {
			t.Setenv(name, "")
			os.Unsetenv(name)
		}
	}
	for _, name := range []string{"SHELL", "ZDOTDIR", "XDG_CONFIG_HOME"} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}

	t.Setenv("HOME", home)
	t.Setenv("WHELK_CONFIG_FILE", filepath.Join(tmpDir, "config", "whelk.lua"))
	t.Setenv("WHELK_ROOT_PREFIX", root)

	for _, dir := range []string{home, filepath.Join(tmpDir, "config"), root} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return home
}
