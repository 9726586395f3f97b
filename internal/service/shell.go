// Package service implements the operations behind the whelk shell
// commands: startup file integration, activation code emission, and
// the activated-subshell launcher.
//
// The service itself is stateless across invocations. Activation state
// lives in the calling shell's environment variables and is re-read on
// every call; the only durable side effects are the managed startup
// file blocks and the hook scripts under the root prefix.
package service

import (
	"context"
	"os"
	"runtime"

	"github.com/rs/zerolog"

	"github.com/whelk-sh/whelk/internal/shell"
)

// Settings carries the effective configuration for one invocation.
// The CLI layer builds it from the loaded config file and flags; shell
// operations always run non-interactively, so nothing here can prompt.
type Settings struct {
	// ExePath is the absolute path of the whelk binary, embedded in
	// emitted hooks and startup snippets.
	ExePath string
	// RootPrefix is the root installation directory under which named
	// environments live.
	RootPrefix string
	// ChangePrompt enables prompt decoration in activation code.
	ChangePrompt bool
	// EnvPrompt is the prompt modifier template, "({name}) " style.
	EnvPrompt string
	// AutoStack activates implicitly stacked while the current depth
	// is below this value; zero disables auto-stacking.
	AutoStack int
	// DefaultShell is the configured fallback dialect for detection.
	DefaultShell string
}

// ShellService orchestrates shell integration. Construct with
// NewShellService; the zero value is not usable.
type ShellService struct {
	settings Settings
	clock    Clock
	log      zerolog.Logger

	// Process and OS access, overridable in tests.
	osName       string
	userHome     func() (string, error)
	getenv       func(string) string
	environ      func() []string
	autoRunSet   func(fragment string) (bool, error)
	autoRunClear func(fragment string) (bool, error)
}

// NewShellService creates a shell service bound to the real process
// environment.
func NewShellService(settings Settings, clock Clock, logger zerolog.Logger) *ShellService {
	return &ShellService{
		settings:     settings,
		clock:        clock,
		log:          logger,
		osName:       runtime.GOOS,
		userHome:     os.UserHomeDir,
		getenv:       os.Getenv,
		environ:      os.Environ,
		autoRunSet:   autoRunSet,
		autoRunClear: autoRunClear,
	}
}

// resolveDialect parses an explicit --shell value or falls back to
// detection against the live environment and process tree.
func (s *ShellService) resolveDialect(ctx context.Context, name string) (shell.Dialect, error) {
	if name != "" {
		return shell.ParseDialect(name)
	}
	det, err := shell.Detect(ctx, s.settings.DefaultShell)
	if err != nil {
		return "", err
	}
	s.log.Debug().
		Str("dialect", det.Dialect.String()).
		Str("method", det.Method).
		Str("confidence", det.Confidence).
		Msg("detected shell")
	return det.Dialect, nil
}

// readState parses the activation stack out of the inherited process
// environment.
func (s *ShellService) readState() *shell.State {
	sep := ":"
	if s.osName == "windows" {
		sep = ";"
	}
	return shell.ReadState(s.environ(), sep)
}

// activator builds the transition calculator for the current settings.
func (s *ShellService) activator() *shell.Activator {
	return &shell.Activator{
		RootPrefix:   s.settings.RootPrefix,
		OS:           s.osName,
		ChangePrompt: s.settings.ChangePrompt,
		EnvPrompt:    s.settings.EnvPrompt,
	}
}
