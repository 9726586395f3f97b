package shell

import (
	"path/filepath"
	"strings"
)

// Dialect identifies a supported shell syntax.
type Dialect string

const (
	// DialectBash represents the Bash shell
	DialectBash Dialect = "bash"
	// DialectZsh represents the Z shell
	DialectZsh Dialect = "zsh"
	// DialectDash represents the Debian Almquist shell
	DialectDash Dialect = "dash"
	// DialectPosix represents a generic POSIX sh
	DialectPosix Dialect = "posix"
	// DialectFish represents the Fish shell
	DialectFish Dialect = "fish"
	// DialectTcsh represents the TENEX C shell
	DialectTcsh Dialect = "tcsh"
	// DialectXonsh represents the Python-based xonsh shell
	DialectXonsh Dialect = "xonsh"
	// DialectCmdExe represents the Windows command interpreter
	DialectCmdExe Dialect = "cmd.exe"
	// DialectPowershell represents PowerShell (Desktop and Core)
	DialectPowershell Dialect = "powershell"
)

// String returns the string representation of the dialect.
func (d Dialect) String() string {
	return string(d)
}

// IsValid returns true if the dialect is supported.
func (d Dialect) IsValid() bool {
	switch d {
	case DialectBash, DialectZsh, DialectDash, DialectPosix, DialectFish,
		DialectTcsh, DialectXonsh, DialectCmdExe, DialectPowershell:
		return true
	default:
		return false
	}
}

// SupportedDialects returns all supported dialects in a stable order.
func SupportedDialects() []Dialect {
	return []Dialect{
		DialectBash, DialectZsh, DialectDash, DialectPosix, DialectFish,
		DialectTcsh, DialectXonsh, DialectCmdExe, DialectPowershell,
	}
}

// dialectAliases maps alternative spellings and binary names to dialects.
var dialectAliases = map[string]Dialect{
	"sh":           DialectPosix,
	"ash":          DialectDash,
	"csh":          DialectTcsh,
	"pwsh":         DialectPowershell,
	"pwsh-preview": DialectPowershell,
}

// ParseDialect maps a user-supplied or detected shell name to a Dialect.
// Accepts common aliases ("sh", "csh", "pwsh", "cmd") and is case
// insensitive. Returns UnsupportedShellError for anything else.
func ParseDialect(name string) (Dialect, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if strings.TrimSuffix(normalized, ".exe") == "cmd" {
		return DialectCmdExe, nil
	}
	normalized = strings.TrimSuffix(normalized, ".exe")

	if d := Dialect(normalized); d.IsValid() {
		return d, nil
	}
	if d, ok := dialectAliases[normalized]; ok {
		return d, nil
	}
	return "", &UnsupportedShellError{Shell: name}
}

// supportedList renders the dialect list for error messages.
func supportedList() string {
	names := make([]string, 0, len(SupportedDialects()))
	for _, d := range SupportedDialects() {
		names = append(names, d.String())
	}
	return strings.Join(names, ", ")
}

// StartupFiles returns the ordered startup file candidates for this
// dialect on the given OS as absolute paths below homeDir, unless an
// environment override (ZDOTDIR for zsh, XDG_CONFIG_HOME for fish and
// xonsh) points elsewhere. Overrides are read through the env function
// so the table stays a pure function.
//
// An empty slice means the dialect keeps no editable startup file on
// that OS; cmd.exe starts up through the AutoRun registry value and a
// hook script under the root prefix instead.
func (d Dialect) StartupFiles(osName, homeDir string, env func(string) string) []string {
	switch d {
	case DialectBash:
		if osName == "linux" {
			return []string{filepath.Join(homeDir, ".bashrc")}
		}
		// macOS terminals run login shells; bash on Windows (MSYS,
		// Git Bash) also reads .bash_profile.
		return []string{filepath.Join(homeDir, ".bash_profile")}
	case DialectZsh:
		if dir := env("ZDOTDIR"); dir != "" {
			return []string{filepath.Join(dir, ".zshrc")}
		}
		return []string{filepath.Join(homeDir, ".zshrc")}
	case DialectDash, DialectPosix:
		return []string{filepath.Join(homeDir, ".profile")}
	case DialectFish:
		if dir := env("XDG_CONFIG_HOME"); dir != "" {
			return []string{filepath.Join(dir, "fish", "config.fish")}
		}
		return []string{filepath.Join(homeDir, ".config", "fish", "config.fish")}
	case DialectTcsh:
		return []string{filepath.Join(homeDir, ".tcshrc")}
	case DialectXonsh:
		if osName == "windows" {
			return []string{filepath.Join(homeDir, ".xonshrc")}
		}
		if dir := env("XDG_CONFIG_HOME"); dir != "" {
			return []string{
				filepath.Join(homeDir, ".xonshrc"),
				filepath.Join(dir, "xonsh", "rc.xsh"),
			}
		}
		return []string{
			filepath.Join(homeDir, ".xonshrc"),
			filepath.Join(homeDir, ".config", "xonsh", "rc.xsh"),
		}
	case DialectPowershell:
		if osName == "windows" {
			return []string{
				filepath.Join(homeDir, "Documents", "PowerShell", "profile.ps1"),
				filepath.Join(homeDir, "Documents", "WindowsPowerShell", "profile.ps1"),
			}
		}
		return []string{filepath.Join(homeDir, ".config", "powershell", "profile.ps1")}
	case DialectCmdExe:
		return nil
	default:
		return nil
	}
}

// CommentToken returns the line comment prefix for the dialect.
func (d Dialect) CommentToken() string {
	if d == DialectCmdExe {
		return "@REM"
	}
	return "#"
}

// ScriptExtension returns the hook script file extension for the
// dialect, without the dot.
func (d Dialect) ScriptExtension() string {
	switch d {
	case DialectFish:
		return "fish"
	case DialectTcsh:
		return "csh"
	case DialectXonsh:
		return "xsh"
	case DialectCmdExe:
		return "bat"
	case DialectPowershell:
		return "ps1"
	default:
		return "sh"
	}
}
