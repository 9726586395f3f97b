package config

import (
	"context"
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/whelk-sh/whelk/internal/platform"
)

// Parser parses whelk's Lua configuration with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a config parser. A nil detector skips platform
// table injection; configs using platform conditionals then fail to
// parse, which tests exploit.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua syntax error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseError is a config parsing error with a user-facing message and
// the raw Lua detail behind it.
type ParseError struct {
	Message string
	Detail  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global whelk table out of an executed Lua
// state. Fields of unexpected type are ignored rather than fatal; a
// typo in one option must not take every option down.
func extractConfig(L *lua.LState) (*Config, error) {
	whelkTable := L.GetGlobal(luaGlobalWhelk)
	if whelkTable.Type() != lua.LTTable {
		return nil, &ParseError{
			Message: "missing or invalid 'whelk' table",
			Detail:  fmt.Sprintf("expected table, got %s", whelkTable.Type()),
		}
	}

	cfg := DefaultConfig()
	table := whelkTable.(*lua.LTable)

	if optionsVal := table.RawGetString(luaFieldOptions); optionsVal.Type() == lua.LTTable {
		extractOptions(optionsVal.(*lua.LTable), &cfg.Options)
	}

	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return cfg, nil
}

// extractOptions overrides defaults with the fields present in the
// options table.
func extractOptions(table *lua.LTable, opts *Options) {
	if v := table.RawGetString(luaFieldAutoStack); v.Type() == lua.LTNumber {
		opts.AutoStack = int(lua.LVAsNumber(v))
	}
	if v := table.RawGetString(luaFieldChangePrompt); v.Type() == lua.LTBool {
		opts.ChangePrompt = bool(v.(lua.LBool))
	}
	if v := table.RawGetString(luaFieldEnvPrompt); v.Type() == lua.LTString {
		opts.EnvPrompt = v.String()
	}
	if v := table.RawGetString(luaFieldShowBanner); v.Type() == lua.LTBool {
		opts.ShowBanner = bool(v.(lua.LBool))
	}
	if v := table.RawGetString(luaFieldConfirm); v.Type() == lua.LTBool {
		opts.Confirm = bool(v.(lua.LBool))
	}
	if v := table.RawGetString(luaFieldDefaultShell); v.Type() == lua.LTString {
		opts.DefaultShell = v.String()
	}
	if v := table.RawGetString(luaFieldRootPrefix); v.Type() == lua.LTString {
		opts.RootPrefix = v.String()
	}
}

// FormatError formats a config error for user display. Verbose mode
// keeps the raw Lua detail; otherwise the stack traceback is trimmed.
func FormatError(err error, verbose bool) string {
	if parseErr, ok := err.(*ParseError); ok {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
