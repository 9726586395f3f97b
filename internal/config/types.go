package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/whelk-sh/whelk/internal/shell"
)

// MaxAutoStack bounds options.auto_stack. Deeper implicit stacks than
// this are a config mistake, not a use case.
const MaxAutoStack = 64

// MaxEnvPromptLength bounds options.env_prompt.
const MaxEnvPromptLength = 256

// Config is the parsed whelk configuration.
type Config struct {
	Options Options `json:"options"`
}

// Options holds the user-tunable behavior switches.
type Options struct {
	// AutoStack enables implicit --stack while the activation depth is
	// below this value. Zero disables it.
	AutoStack int `json:"auto_stack"`

	// ChangePrompt controls whether activation decorates the prompt.
	ChangePrompt bool `json:"change_prompt"`

	// EnvPrompt is the prompt modifier template. {name} expands to the
	// environment's display name, {prefix} to its full path.
	EnvPrompt string `json:"env_prompt"`

	// ShowBanner controls the startup banner. Shell operations force
	// it off regardless.
	ShowBanner bool `json:"show_banner"`

	// Confirm controls interactive confirmations. Shell operations
	// force it off regardless.
	Confirm bool `json:"confirm"`

	// DefaultShell is the dialect assumed when detection fails.
	DefaultShell string `json:"default_shell,omitempty"`

	// RootPrefix overrides the default root prefix location. The
	// WHELK_ROOT_PREFIX environment variable still wins over it.
	RootPrefix string `json:"root_prefix,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{Options: DefaultOptions()}
}

// DefaultOptions returns the built-in option defaults.
func DefaultOptions() Options {
	return Options{
		AutoStack:    0,
		ChangePrompt: true,
		EnvPrompt:    "({name}) ",
		ShowBanner:   true,
		Confirm:      true,
	}
}

// ValidationError reports a config value a user needs to fix.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// Validate checks the config for values whelk cannot work with.
func (c *Config) Validate() error {
	o := &c.Options

	if o.AutoStack < 0 {
		return &ValidationError{
			Field:   "options.auto_stack",
			Message: fmt.Sprintf("must not be negative (got %d)", o.AutoStack),
		}
	}
	if o.AutoStack > MaxAutoStack {
		return &ValidationError{
			Field:   "options.auto_stack",
			Message: fmt.Sprintf("too deep (%d), maximum is %d", o.AutoStack, MaxAutoStack),
		}
	}

	if len(o.EnvPrompt) > MaxEnvPromptLength {
		return &ValidationError{
			Field:   "options.env_prompt",
			Message: fmt.Sprintf("too long (%d chars, max %d)", len(o.EnvPrompt), MaxEnvPromptLength),
		}
	}

	if o.DefaultShell != "" {
		if _, err := shell.ParseDialect(o.DefaultShell); err != nil {
			return &ValidationError{
				Field:   "options.default_shell",
				Message: fmt.Sprintf("unknown shell %q", o.DefaultShell),
			}
		}
	}

	if o.RootPrefix != "" && !isUsablePrefix(o.RootPrefix) {
		return &ValidationError{
			Field:   "options.root_prefix",
			Message: fmt.Sprintf("must be an absolute or ~-relative path (got %q)", o.RootPrefix),
		}
	}

	return nil
}

// isUsablePrefix accepts absolute paths and home-relative paths; a
// path relative to the working directory would point somewhere
// different on every invocation.
func isUsablePrefix(path string) bool {
	return filepath.IsAbs(path) || path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`)
}
