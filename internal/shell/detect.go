package shell

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// maxAncestorDepth limits the parent process walk. Interactive shells
// sit close above us even under wrappers like tmux or sudo.
const maxAncestorDepth = 8

// Detect determines the dialect of the shell the user is typing in.
//
// Methods, in order:
//  1. $SHELL environment variable (most reliable on Unix)
//  2. Parent process walk (covers Windows and shells started ad hoc)
//  3. The configured default dialect, if any
//
// When all methods fail, an UnsupportedShellError asking for an
// explicit --shell is returned.
func Detect(ctx context.Context, configuredDefault string) (*DetectionResult, error) {
	if shellPath := os.Getenv("SHELL"); shellPath != "" {
		if d, err := ParseDialect(filepath.Base(shellPath)); err == nil {
			return &DetectionResult{
				Dialect:    d,
				Method:     "$SHELL environment variable",
				ShellPath:  shellPath,
				Confidence: "high",
			}, nil
		}
	}

	if d, procName := detectFromAncestors(ctx); d.IsValid() {
		return &DetectionResult{
			Dialect:    d,
			Method:     "parent process",
			ShellPath:  procName,
			Confidence: "medium",
		}, nil
	}

	if configuredDefault != "" {
		if d, err := ParseDialect(configuredDefault); err == nil {
			return &DetectionResult{
				Dialect:    d,
				Method:     "configured default_shell",
				Confidence: "low",
			}, nil
		}
	}

	return nil, &UnsupportedShellError{}
}

// detectFromAncestors walks up the process tree looking for a known
// shell executable name.
func detectFromAncestors(ctx context.Context) (Dialect, string) {
	proc, err := process.NewProcessWithContext(ctx, int32(os.Getppid()))
	if err != nil {
		return "", ""
	}

	for depth := 0; depth < maxAncestorDepth; depth++ {
		name, err := proc.NameWithContext(ctx)
		if err != nil {
			return "", ""
		}
		// Login shells may report themselves with a leading dash.
		candidate := strings.TrimPrefix(name, "-")
		if d, perr := ParseDialect(candidate); perr == nil {
			return d, name
		}

		parent, err := proc.ParentWithContext(ctx)
		if err != nil || parent == nil {
			return "", ""
		}
		proc = parent
	}
	return "", ""
}
