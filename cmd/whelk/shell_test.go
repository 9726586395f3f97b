package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/whelk-sh/whelk/internal/prefix"
	"github.com/whelk-sh/whelk/internal/shell"
	"github.com/whelk-sh/whelk/internal/testutil"
)

// resetShellFlags clears the flag-bound package variables so values
// from one command execution cannot bleed into the next.
func resetShellFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		shellName, prefixPath, envName, stackEnv = "", "", "", false
		verbosity = 0
	}
	reset()
	t.Cleanup(reset)
}

// captureStdout runs fn with os.Stdout redirected into a pipe and
// returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("close pipe: %v", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read pipe: %v", err)
	}
	return string(out)
}

func TestEnvRef(t *testing.T) {
	tests := []struct {
		name      string
		prefixVal string
		nameVal   string
		args      []string
		want      string
	}{
		{"prefix flag wins", "/opt/env", "dev", []string{"pos"}, "/opt/env"},
		{"name over positional", "", "dev", []string{"pos"}, "dev"},
		{"positional alone", "", "", []string{"pos"}, "pos"},
		{"nothing given", "", "", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := envRef(tt.prefixVal, tt.nameVal, tt.args); got != tt.want {
				t.Errorf("envRef(%q, %q, %v) = %q, want %q", tt.prefixVal, tt.nameVal, tt.args, got, tt.want)
			}
		})
	}
}

func TestSetupLogging_Levels(t *testing.T) {
	t.Setenv(shell.EnvDebug, "")

	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		setupLogging(tt.verbosity)
		if got := zerolog.GlobalLevel(); got != tt.want {
			t.Errorf("verbosity %d: global level = %s, want %s", tt.verbosity, got, tt.want)
		}
	}
}

func TestSetupLogging_DebugEnv(t *testing.T) {
	t.Setenv(shell.EnvDebug, "1")

	setupLogging(0)
	if got := zerolog.GlobalLevel(); got != zerolog.DebugLevel {
		t.Errorf("global level = %s, want debug with %s set", got, shell.EnvDebug)
	}

	// An explicit higher verbosity still wins.
	setupLogging(3)
	if got := zerolog.GlobalLevel(); got != zerolog.TraceLevel {
		t.Errorf("global level = %s, want trace", got)
	}
}

func TestShellCommandWiring(t *testing.T) {
	want := []string{
		"init", "deinit", "reinit", "hook",
		"activate", "reactivate", "deactivate",
		"enable_long_path_support",
	}
	have := make(map[string]bool)
	for _, c := range shellCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("shell subcommand %q not registered", name)
		}
	}

	if shellCmd.RunE == nil {
		t.Error("bare shell command has no run function")
	}
	if f := shellCmd.PersistentFlags().Lookup("shell"); f == nil || f.Shorthand != "s" {
		t.Error("persistent --shell/-s flag not registered on the shell group")
	}
	if f := shellActivateCmd.Flags().Lookup("stack"); f == nil {
		t.Error("--stack flag not registered on activate")
	}
	if f := shellHookCmd.Flags().Lookup("prefix"); f != nil {
		t.Error("hook should not take a --prefix flag")
	}
}

func TestBuildShellService(t *testing.T) {
	testutil.SetupTestEnv(t)

	svc, err := buildShellService(context.Background())
	if err != nil {
		t.Fatalf("buildShellService() error = %v", err)
	}
	if svc == nil {
		t.Fatal("buildShellService() returned nil service")
	}
}

func TestBuildShellService_BadConfig(t *testing.T) {
	testutil.SetupTestEnv(t)
	cfgPath := os.Getenv("WHELK_CONFIG_FILE")
	if err := os.WriteFile(cfgPath, []byte("whelk = {"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := buildShellService(context.Background())
	if err == nil {
		t.Fatal("expected error for unparseable config")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("error = %v, want a parse failure", err)
	}
}

func TestBuildShellService_RelativeRootPrefix(t *testing.T) {
	testutil.SetupTestEnv(t)
	t.Setenv(prefix.EnvRootPrefix, "not/absolute")

	_, err := buildShellService(context.Background())
	var resErr *prefix.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("error = %v, want *prefix.ResolutionError", err)
	}
}

func TestShellInitCommand(t *testing.T) {
	home := testutil.SetupTestEnv(t)
	resetShellFlags(t)

	captureStdout(t, func() {
		rootCmd.SetArgs([]string{"shell", "init", "--shell", "zsh"})
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("whelk shell init: %v", err)
		}
	})

	data, err := os.ReadFile(filepath.Join(home, ".zshrc"))
	if err != nil {
		t.Fatalf("read .zshrc: %v", err)
	}
	if !strings.Contains(string(data), "# >>> whelk initialize >>>") {
		t.Error(".zshrc missing the managed block")
	}
}

func TestShellInitDeinitRoundTrip(t *testing.T) {
	home := testutil.SetupTestEnv(t)
	resetShellFlags(t)

	rc := filepath.Join(home, ".zshrc")
	if err := os.WriteFile(rc, []byte("# mine\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	captureStdout(t, func() {
		rootCmd.SetArgs([]string{"shell", "init", "--shell", "zsh"})
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("init: %v", err)
		}
		rootCmd.SetArgs([]string{"shell", "deinit", "--shell", "zsh"})
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("deinit: %v", err)
		}
	})

	data, err := os.ReadFile(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# mine\n" {
		t.Errorf(".zshrc = %q, want the original content restored", data)
	}
}

func TestShellHookCommand(t *testing.T) {
	testutil.SetupTestEnv(t)
	resetShellFlags(t)

	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"shell", "hook", "--shell", "bash"})
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("whelk shell hook: %v", err)
		}
	})

	if !strings.Contains(out, "whelk() {") {
		t.Errorf("hook output missing the wrapper function:\n%s", out)
	}
	if !strings.Contains(out, "--shell bash") {
		t.Errorf("hook output not bound to the bash dialect:\n%s", out)
	}
}

func TestShellActivateCommand(t *testing.T) {
	testutil.SetupTestEnv(t)
	resetShellFlags(t)
	root := os.Getenv("WHELK_ROOT_PREFIX")

	out := captureStdout(t, func() {
		rootCmd.SetArgs([]string{"shell", "activate", "--shell", "bash", "-n", "dev"})
		if err := rootCmd.Execute(); err != nil {
			t.Errorf("whelk shell activate: %v", err)
		}
	})

	envPath := filepath.Join(root, "envs", "dev")
	if !strings.Contains(out, "WHELK_PREFIX='"+envPath+"'") {
		t.Errorf("activation output missing the prefix export:\n%s", out)
	}
	if !strings.Contains(out, "WHELK_SHLVL='1'") {
		t.Errorf("activation output missing the depth export:\n%s", out)
	}
}

func TestShellRejectsUnknownDialect(t *testing.T) {
	testutil.SetupTestEnv(t)
	resetShellFlags(t)

	rootCmd.SetArgs([]string{"shell", "hook", "--shell", "ksh"})
	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected an error for an unsupported shell")
	}
	var unsupported *shell.UnsupportedShellError
	if !errors.As(err, &unsupported) {
		t.Fatalf("error = %v, want *shell.UnsupportedShellError", err)
	}
}
