package shell

import (
	"embed"
	"fmt"
	"strings"

	"github.com/whelk-sh/whelk/internal/prefix"
)

//go:embed scripts
var hookScripts embed.FS

// Placeholders substituted into embedded hook scripts.
const (
	placeholderDialect = "__WHELK_DIALECT__"
	placeholderExe     = "__WHELK_EXE__"
	placeholderRoot    = "__WHELK_ROOT_PREFIX__"
)

// BlockMarkers returns the managed block delimiters for a dialect,
// rendered with its comment token.
func BlockMarkers(d Dialect) (start, end string) {
	c := d.CommentToken()
	return c + " >>> whelk initialize >>>", c + " <<< whelk initialize <<<"
}

// Emitter generates shell source for one dialect: the hook definitions,
// the startup file snippet, and rendered environment transitions.
// Output is deterministic for fixed inputs; reinit relies on that to
// detect stale blocks.
type Emitter struct {
	dialect    Dialect
	exePath    string
	rootPrefix string
}

// NewEmitter creates an emitter for the dialect.
func NewEmitter(d Dialect, exePath, rootPrefix string) (*Emitter, error) {
	if !d.IsValid() {
		return nil, &UnsupportedShellError{Shell: d.String()}
	}
	return &Emitter{dialect: d, exePath: exePath, rootPrefix: rootPrefix}, nil
}

// Dialect returns the emitter's dialect.
func (e *Emitter) Dialect() Dialect {
	return e.dialect
}

// Hook returns the shell source defining the whelk hook: exports of
// WHELK_EXE and WHELK_ROOT_PREFIX followed by the dialect's function
// or alias definitions. Shells load this through eval/source at
// startup; afterwards `whelk activate ...` works as a shell command.
func (e *Emitter) Hook() (string, error) {
	body, err := hookScripts.ReadFile("scripts/hook." + e.dialect.ScriptExtension())
	if err != nil {
		return "", fmt.Errorf("load hook script for %s: %w", e.dialect, err)
	}
	text := strings.ReplaceAll(string(body), placeholderDialect, e.dialect.String())

	if e.dialect == DialectCmdExe {
		// The batch hook sets the variables itself; it doubles as the
		// managed file content.
		text = strings.ReplaceAll(text, placeholderExe, e.exePath)
		return strings.ReplaceAll(text, placeholderRoot, e.rootPrefix), nil
	}

	r := e.dialect.renderer()
	header := r.setEnv(e.dialect, EnvExe, e.exePath) + "\n" +
		r.setEnv(e.dialect, prefix.EnvRootPrefix, e.rootPrefix) + "\n"
	return header + "\n" + text, nil
}

// DispatcherScript returns the cmd.exe dispatcher written next to the
// hook under <root>\condabin. Only meaningful for DialectCmdExe.
func (e *Emitter) DispatcherScript() (string, error) {
	if e.dialect != DialectCmdExe {
		return "", &UnsupportedShellError{Shell: e.dialect.String()}
	}
	body, err := hookScripts.ReadFile("scripts/dispatch.bat")
	if err != nil {
		return "", fmt.Errorf("load cmd.exe dispatcher: %w", err)
	}
	return string(body), nil
}

// RCSnippet returns the body of the managed startup file block: export
// the binary location, then load the hook, degrading to a plain alias
// when the binary is missing so a broken install cannot take the shell
// down with it.
func (e *Emitter) RCSnippet() (string, error) {
	managed := e.dialect.CommentToken() + " !! Contents within this block are managed by 'whelk shell init' !!"
	exe := e.dialect.Quote(e.exePath)
	root := e.dialect.Quote(e.rootPrefix)

	switch e.dialect {
	case DialectBash, DialectZsh, DialectDash, DialectPosix:
		// dash and posix share ~/.profile as their startup file, so
		// they must produce identical snippet bytes or a reinit under
		// the other name would rewrite the block.
		hookDialect := e.dialect
		if hookDialect == DialectDash {
			hookDialect = DialectPosix
		}
		return managed + "\n" + fmt.Sprintf(`export %s=%s
export %s=%s
__whelk_setup="$("$%s" shell hook --shell %s 2> /dev/null)"
if [ $? -eq 0 ]; then
    eval "$__whelk_setup"
else
    alias whelk="$%s"
fi
unset __whelk_setup`,
			EnvExe, exe,
			prefix.EnvRootPrefix, root,
			EnvExe, hookDialect,
			EnvExe), nil

	case DialectFish:
		return managed + "\n" + fmt.Sprintf(`set -gx %s %s
set -gx %s %s
if test -x "$%s"
    "$%s" shell hook --shell fish | source
else
    alias whelk "$%s"
end`,
			EnvExe, exe,
			prefix.EnvRootPrefix, root,
			EnvExe, EnvExe, EnvExe), nil

	case DialectTcsh:
		// tcsh cannot eval multi-line command substitution, so the
		// hook lives in a file under the root prefix written by init.
		return managed + "\n" + fmt.Sprintf(`setenv %s %s;
setenv %s %s;
if ( -f "$%s/etc/profile.d/whelk.csh" ) source "$%s/etc/profile.d/whelk.csh";`,
			EnvExe, exe,
			prefix.EnvRootPrefix, root,
			prefix.EnvRootPrefix, prefix.EnvRootPrefix), nil

	case DialectXonsh:
		return managed + "\n" + fmt.Sprintf(`$%s = %s
$%s = %s
from os.path import exists as _whelk_exists
if _whelk_exists($%s):
    execx($(@($%s) shell hook --shell xonsh))`,
			EnvExe, exe,
			prefix.EnvRootPrefix, root,
			EnvExe, EnvExe), nil

	case DialectPowershell:
		return managed + "\n" + fmt.Sprintf(`$Env:%s = %s
$Env:%s = %s
if (Test-Path $Env:%s) {
    (& $Env:%s shell hook --shell powershell) | Out-String | Invoke-Expression
}`,
			EnvExe, exe,
			prefix.EnvRootPrefix, root,
			EnvExe, EnvExe), nil

	case DialectCmdExe:
		// The managed file for cmd.exe is the hook itself.
		return e.Hook()

	default:
		return "", &UnsupportedShellError{Shell: e.dialect.String()}
	}
}

// Render turns a transition into shell source for the dialect. An
// empty transition renders to an empty string, which every dialect
// evaluates as a no-op.
func (e *Emitter) Render(t *Transition) string {
	if t.Empty() {
		return ""
	}

	r := e.dialect.renderer()
	var lines []string

	if t.Path != nil {
		lines = append(lines, r.setPath(e.dialect, t.Path, t.PathListSep))
	}
	for _, kv := range t.Sets {
		lines = append(lines, r.setEnv(e.dialect, kv.Name, kv.Value))
	}
	for _, name := range t.Unsets {
		lines = append(lines, r.unsetEnv(name))
	}
	if t.Prompt != nil {
		lines = append(lines, r.promptEdit(e.dialect, t.Prompt)...)
	}

	// Dialects that render prompts in their hook may produce no lines
	// for a prompt-only transition.
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderer abstracts statement syntax per dialect family. Methods take
// raw values and quote them in family-appropriate ways.
type renderer interface {
	setEnv(d Dialect, name, value string) string
	unsetEnv(name string) string
	setPath(d Dialect, elems []string, sep string) string
	promptEdit(d Dialect, ch *PromptChange) []string
}

// renderer returns the statement renderer for the dialect.
func (d Dialect) renderer() renderer {
	switch d {
	case DialectFish:
		return fishRenderer{}
	case DialectTcsh:
		return cshRenderer{}
	case DialectXonsh:
		return xonshRenderer{}
	case DialectCmdExe:
		return cmdRenderer{}
	case DialectPowershell:
		return pwshRenderer{}
	default:
		return posixRenderer{}
	}
}

type posixRenderer struct{}

func (posixRenderer) setEnv(d Dialect, name, value string) string {
	return "export " + name + "=" + d.Quote(value)
}

func (posixRenderer) unsetEnv(name string) string {
	return "unset " + name
}

func (posixRenderer) setPath(d Dialect, elems []string, sep string) string {
	return "export PATH=" + d.Quote(strings.Join(elems, sep))
}

func (posixRenderer) promptEdit(d Dialect, ch *PromptChange) []string {
	// PS1 is a shell variable, so the edit happens in shell text:
	// strip the old modifier if present, prepend the new one.
	switch {
	case ch.Old == "":
		return []string{`PS1=` + d.Quote(ch.New) + `"${PS1:-}"`}
	case ch.New == "":
		return []string{`PS1="${PS1#` + d.Quote(ch.Old) + `}"`}
	default:
		return []string{`PS1=` + d.Quote(ch.New) + `"${PS1#` + d.Quote(ch.Old) + `}"`}
	}
}

type fishRenderer struct{}

func (fishRenderer) setEnv(d Dialect, name, value string) string {
	return "set -gx " + name + " " + d.Quote(value)
}

func (fishRenderer) unsetEnv(name string) string {
	return "set -e " + name
}

func (fishRenderer) setPath(d Dialect, elems []string, _ string) string {
	quoted := make([]string, 0, len(elems))
	for _, el := range elems {
		quoted = append(quoted, d.Quote(el))
	}
	return "set -gx PATH " + strings.Join(quoted, " ")
}

func (fishRenderer) promptEdit(Dialect, *PromptChange) []string {
	// The fish hook decorates fish_prompt from WHELK_PROMPT_MODIFIER.
	return nil
}

type cshRenderer struct{}

// csh statements carry a trailing semicolon so that backtick eval,
// which folds newlines into spaces, still sees statement boundaries.

func (cshRenderer) setEnv(d Dialect, name, value string) string {
	return "setenv " + name + " " + d.Quote(value) + ";"
}

func (cshRenderer) unsetEnv(name string) string {
	return "unsetenv " + name + ";"
}

func (cshRenderer) setPath(d Dialect, elems []string, sep string) string {
	return "setenv PATH " + d.Quote(strings.Join(elems, sep)) + ";"
}

func (cshRenderer) promptEdit(d Dialect, ch *PromptChange) []string {
	// tcsh has no prefix-strip expansion; :s does a literal first
	// replacement. Modifiers containing % would break the delimiter,
	// which no sane env_prompt does.
	switch {
	case ch.Old == "":
		return []string{`if ( $?prompt ) set prompt = ` + d.Quote(ch.New) + `"$prompt";`}
	case ch.New == "":
		return []string{`if ( $?prompt ) set prompt = "$prompt:s%` + ch.Old + `%%";`}
	default:
		return []string{`if ( $?prompt ) set prompt = "$prompt:s%` + ch.Old + `%` + ch.New + `%";`}
	}
}

type xonshRenderer struct{}

func (xonshRenderer) setEnv(d Dialect, name, value string) string {
	return "$" + name + " = " + d.Quote(value)
}

func (xonshRenderer) unsetEnv(name string) string {
	return "del $" + name
}

func (xonshRenderer) setPath(d Dialect, elems []string, _ string) string {
	quoted := make([]string, 0, len(elems))
	for _, el := range elems {
		quoted = append(quoted, d.Quote(el))
	}
	return "$PATH = [" + strings.Join(quoted, ", ") + "]"
}

func (xonshRenderer) promptEdit(Dialect, *PromptChange) []string {
	// The xonsh hook exposes WHELK_PROMPT_MODIFIER as a prompt field.
	return nil
}

type cmdRenderer struct{}

func (cmdRenderer) setEnv(_ Dialect, name, value string) string {
	// SET consumes everything between the outer quotes literally.
	return `@SET "` + name + `=` + value + `"`
}

func (cmdRenderer) unsetEnv(name string) string {
	return `@SET "` + name + `="`
}

func (cmdRenderer) setPath(_ Dialect, elems []string, sep string) string {
	return `@SET "PATH=` + strings.Join(elems, sep) + `"`
}

func (cmdRenderer) promptEdit(_ Dialect, ch *PromptChange) []string {
	// %PROMPT:old=% substitutes the old modifier away before the new
	// one is prepended.
	switch {
	case ch.Old == "":
		return []string{`@SET "PROMPT=` + ch.New + `%PROMPT%"`}
	case ch.New == "":
		return []string{`@SET "PROMPT=%PROMPT:` + ch.Old + `=%"`}
	default:
		return []string{`@SET "PROMPT=` + ch.New + `%PROMPT:` + ch.Old + `=%"`}
	}
}

type pwshRenderer struct{}

func (pwshRenderer) setEnv(d Dialect, name, value string) string {
	return "$Env:" + name + " = " + d.Quote(value)
}

func (pwshRenderer) unsetEnv(name string) string {
	return "Remove-Item Env:" + name
}

func (pwshRenderer) setPath(d Dialect, elems []string, sep string) string {
	return "$Env:PATH = " + d.Quote(strings.Join(elems, sep))
}

func (pwshRenderer) promptEdit(Dialect, *PromptChange) []string {
	// The PowerShell hook wraps the prompt function around
	// WHELK_PROMPT_MODIFIER.
	return nil
}
