package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/whelk-sh/whelk/internal/shell"
)

func TestDefaultShellExe(t *testing.T) {
	tests := []struct {
		osName string
		want   string
	}{
		{"windows", "cmd.exe"},
		{"darwin", "zsh"},
		{"linux", "bash"},
		{"freebsd", "bash"},
	}
	for _, tt := range tests {
		if got := defaultShellExe(tt.osName); got != tt.want {
			t.Errorf("defaultShellExe(%q) = %q, want %q", tt.osName, got, tt.want)
		}
	}
}

func TestShellService_ApplyTransition(t *testing.T) {
	s, _, _ := testService(t)

	environ := []string{"PATH=/usr/bin:/bin", "FOO=bar", "WHELK_OLD=x", "HOME=/home/u"}
	tr := &shell.Transition{
		Sets: []shell.EnvVar{
			{Name: "WHELK_SHLVL", Value: "1"},
			{Name: "FOO", Value: "baz"},
		},
		Unsets:      []string{"WHELK_OLD"},
		Path:        []string{"/env/bin", "/usr/bin", "/bin"},
		PathListSep: ":",
	}

	got := s.applyTransition(environ, tr)
	want := []string{
		"PATH=/env/bin:/usr/bin:/bin",
		"FOO=baz",
		"HOME=/home/u",
		"WHELK_SHLVL=1",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("applyTransition() = %v, want %v", got, want)
	}
}

func TestShellService_ApplyTransition_AppendsMissingPath(t *testing.T) {
	s, _, _ := testService(t)

	tr := &shell.Transition{
		Sets:        []shell.EnvVar{{Name: "WHELK_SHLVL", Value: "1"}},
		Path:        []string{"/env/bin"},
		PathListSep: ":",
	}
	got := s.applyTransition([]string{"FOO=bar"}, tr)
	want := []string{"FOO=bar", "WHELK_SHLVL=1", "PATH=/env/bin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("applyTransition() = %v, want %v", got, want)
	}
}

func TestShellService_ApplyTransition_WindowsPathCase(t *testing.T) {
	s, _, _ := testService(t)
	s.osName = "windows"

	tr := &shell.Transition{
		Path:        []string{`C:\env`, `C:\old`},
		PathListSep: ";",
	}
	got := s.applyTransition([]string{`Path=C:\old`}, tr)
	want := []string{`Path=C:\env;C:\old`}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("applyTransition() = %v, want %v", got, want)
	}
}

func TestShellService_ApplyTransition_NilPathUntouched(t *testing.T) {
	s, _, _ := testService(t)

	tr := &shell.Transition{
		Sets: []shell.EnvVar{{Name: "WHELK_DEFAULT_ENV", Value: "base"}},
	}
	got := s.applyTransition([]string{"PATH=/usr/bin"}, tr)
	want := []string{"PATH=/usr/bin", "WHELK_DEFAULT_ENV=base"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("applyTransition() = %v, want %v", got, want)
	}
}

func TestShellService_Launch_ActivatedEnvironment(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	s, _, root := testService(t)

	// The "shell" is a script that verifies the activation reached the
	// child and reports through its exit code.
	script := filepath.Join(t.TempDir(), "checkenv.sh")
	body := fmt.Sprintf(`#!/bin/sh
[ "$WHELK_SHLVL" = "1" ] || exit 9
[ "$WHELK_PREFIX" = "%s" ] || exit 8
case "$PATH" in
    %s/bin:*) ;;
    *) exit 7 ;;
esac
exit 0
`, root, root)
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatal(err)
	}

	code, err := s.Launch(context.Background(), LaunchRequest{Shell: script})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if code != 0 {
		t.Errorf("child reported missing activation, exit code %d", code)
	}
}

func TestShellService_Launch_PropagatesExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	s, _, _ := testService(t)

	script := filepath.Join(t.TempDir(), "fail.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 42\n"), 0755); err != nil {
		t.Fatal(err)
	}

	code, err := s.Launch(context.Background(), LaunchRequest{Shell: script})
	if err != nil {
		t.Fatalf("Launch() error = %v", err)
	}
	if code != 42 {
		t.Errorf("exit code = %d, want 42", code)
	}
}

func TestShellService_Launch_SpawnFailure(t *testing.T) {
	s, _, _ := testService(t)

	_, err := s.Launch(context.Background(), LaunchRequest{Shell: "/nonexistent/whelk-test-shell"})
	if err == nil {
		t.Fatal("expected spawn error, got nil")
	}
	if !strings.Contains(err.Error(), "launch") {
		t.Errorf("error does not name the operation: %v", err)
	}
}

func TestShellService_Launch_FallsBackToShellVar(t *testing.T) {
	s, _, _ := testService(t)
	s.getenv = func(name string) string {
		if name == "SHELL" {
			return "/nonexistent/whelk-env-shell"
		}
		return ""
	}

	_, err := s.Launch(context.Background(), LaunchRequest{})
	if err == nil {
		t.Fatal("expected spawn error, got nil")
	}
	if !strings.Contains(err.Error(), "/nonexistent/whelk-env-shell") {
		t.Errorf("$SHELL fallback not used: %v", err)
	}
}

func TestShellService_Launch_ContextCancelled(t *testing.T) {
	s, _, _ := testService(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Launch(ctx, LaunchRequest{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestShellService_EnableLongPaths(t *testing.T) {
	s, _, _ := testService(t)

	applies, err := s.EnableLongPaths(context.Background())
	if runtime.GOOS == "windows" {
		if !applies {
			t.Error("long path support should apply on windows")
		}
		return
	}
	if err != nil {
		t.Fatalf("EnableLongPaths() error = %v", err)
	}
	if applies {
		t.Error("long path support should not apply off windows")
	}
}
