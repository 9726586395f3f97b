package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/whelk-sh/whelk/internal/platform"
	"github.com/whelk-sh/whelk/internal/prefix"
	"github.com/whelk-sh/whelk/internal/shell"
)

// LaunchRequest contains parameters for spawning an activated subshell.
type LaunchRequest struct {
	// Shell is the executable to spawn. Empty falls back to $SHELL,
	// then to an OS default.
	Shell string
	// Prefix selects the environment to activate, default root.
	Prefix string
}

// Launch spawns an interactive shell with the target environment
// already activated in its inherited environment, and blocks until it
// exits. The child's exit code is returned with a nil error; a non-nil
// error means the shell could not be spawned at all. The transition's
// prompt edit is dropped; a spawned shell builds its prompt from its
// own startup files.
func (s *ShellService) Launch(ctx context.Context, req LaunchRequest) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	target, err := prefix.Resolve(s.settings.RootPrefix, req.Prefix)
	if err != nil {
		return 0, err
	}

	exe := req.Shell
	if exe == "" {
		exe = s.getenv("SHELL")
	}
	if exe == "" {
		exe = defaultShellExe(s.osName)
	}

	t := s.activator().Activate(s.readState(), target, false)

	cmd := exec.CommandContext(ctx, exe)
	cmd.Env = s.applyTransition(s.environ(), t)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	s.log.Debug().Str("shell", exe).Str("prefix", target).Msg("launching activated subshell")
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("launch %s: %w", exe, err)
	}
	return 0, nil
}

// defaultShellExe picks the shell to spawn when neither --shell nor
// $SHELL says otherwise.
func defaultShellExe(osName string) string {
	switch osName {
	case "windows":
		return "cmd.exe"
	case "darwin":
		return "zsh"
	default:
		return "bash"
	}
}

// applyTransition applies a transition to a copy of an os.Environ
// style list for handing to a child process. Existing entries keep
// their position; new variables are appended in emission order. The
// prompt edit is ignored here.
func (s *ShellService) applyTransition(environ []string, t *shell.Transition) []string {
	sets := make(map[string]string, len(t.Sets))
	order := make([]string, 0, len(t.Sets))
	for _, kv := range t.Sets {
		if _, ok := sets[kv.Name]; !ok {
			order = append(order, kv.Name)
		}
		sets[kv.Name] = kv.Value
	}
	unsets := make(map[string]struct{}, len(t.Unsets))
	for _, name := range t.Unsets {
		unsets[name] = struct{}{}
	}

	// Windows environments report PATH with varying case.
	isPath := func(name string) bool {
		if s.osName == "windows" {
			return strings.EqualFold(name, "PATH")
		}
		return name == "PATH"
	}

	out := make([]string, 0, len(environ)+len(order)+1)
	pathDone := t.Path == nil
	for _, kv := range environ {
		name, _, ok := strings.Cut(kv, "=")
		if !ok {
			out = append(out, kv)
			continue
		}
		if _, drop := unsets[name]; drop {
			continue
		}
		if t.Path != nil && isPath(name) {
			if !pathDone {
				out = append(out, name+"="+strings.Join(t.Path, t.PathListSep))
				pathDone = true
			}
			continue
		}
		if v, set := sets[name]; set {
			out = append(out, name+"="+v)
			delete(sets, name)
			continue
		}
		out = append(out, kv)
	}
	for _, name := range order {
		if v, set := sets[name]; set {
			out = append(out, name+"="+v)
		}
	}
	if !pathDone {
		out = append(out, "PATH="+strings.Join(t.Path, t.PathListSep))
	}
	return out
}

// EnableLongPaths opts the OS into long path support. On Windows this
// sets the LongPathsEnabled registry value; elsewhere it is a
// successful no-op. The returned bool reports whether the setting
// applies on this OS. A PrivilegeError means the invoking user may not
// write the machine policy.
func (s *ShellService) EnableLongPaths(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	applies, err := platform.EnableLongPaths()
	if err != nil {
		return applies, err
	}
	if applies {
		s.log.Debug().Msg("long path support enabled")
	}
	return applies, nil
}
