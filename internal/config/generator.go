package config

import (
	"bytes"
	"fmt"
	"strings"
)

// Generator renders Lua configuration code from Go structs.
type Generator struct {
	indent string
}

// NewGenerator creates a Lua config generator.
func NewGenerator() *Generator {
	return &Generator{
		indent: "  ",
	}
}

// Generate renders a Config as parseable Lua. Every option is written
// explicitly, so the output round-trips through the parser unchanged.
func (g *Generator) Generate(cfg *Config) (string, error) {
	var buf bytes.Buffer

	buf.WriteString("whelk = {\n")
	buf.WriteString(g.indent)
	buf.WriteString("options = {\n")

	o := cfg.Options
	g.writeField(&buf, luaFieldAutoStack, fmt.Sprintf("%d", o.AutoStack))
	g.writeField(&buf, luaFieldChangePrompt, luaBool(o.ChangePrompt))
	g.writeField(&buf, luaFieldEnvPrompt, g.quoteLuaString(o.EnvPrompt))
	g.writeField(&buf, luaFieldShowBanner, luaBool(o.ShowBanner))
	g.writeField(&buf, luaFieldConfirm, luaBool(o.Confirm))
	if o.DefaultShell != "" {
		g.writeField(&buf, luaFieldDefaultShell, g.quoteLuaString(o.DefaultShell))
	}
	if o.RootPrefix != "" {
		g.writeField(&buf, luaFieldRootPrefix, g.quoteLuaString(o.RootPrefix))
	}

	buf.WriteString(g.indent)
	buf.WriteString("},\n")
	buf.WriteString("}\n")

	return buf.String(), nil
}

// DefaultFileContent renders the starter whelk.lua written when no
// config exists yet: the defaults, commented so users know what each
// knob does without hunting for docs.
func (g *Generator) DefaultFileContent() string {
	var buf bytes.Buffer

	buf.WriteString("-- whelk configuration\n")
	buf.WriteString("-- Every option below shows its default; edit and uncomment to change.\n")
	buf.WriteString("\n")
	buf.WriteString("whelk = {\n")
	buf.WriteString(g.indent)
	buf.WriteString("options = {\n")

	g.writeCommented(&buf,
		"Stack environments implicitly while the activation depth is",
		"below this value. 0 disables implicit stacking.")
	g.writeDisabledField(&buf, luaFieldAutoStack, "0")

	g.writeCommented(&buf, "Prepend the active environment's name to the prompt.")
	g.writeDisabledField(&buf, luaFieldChangePrompt, "true")

	g.writeCommented(&buf,
		"Prompt decoration template; {name} is the environment name,",
		"{prefix} its full path.")
	g.writeDisabledField(&buf, luaFieldEnvPrompt, `"({name}) "`)

	g.writeCommented(&buf, "Print the banner on interactive use.")
	g.writeDisabledField(&buf, luaFieldShowBanner, "true")

	g.writeCommented(&buf, "Ask before acting on the root environment.")
	g.writeDisabledField(&buf, luaFieldConfirm, "true")

	g.writeCommented(&buf, "Shell the tool assumes when detection fails.")
	g.writeDisabledField(&buf, luaFieldDefaultShell, `"bash"`)

	g.writeCommented(&buf,
		"Where environments live. The WHELK_ROOT_PREFIX environment",
		"variable overrides this.")
	g.writeDisabledField(&buf, luaFieldRootPrefix, `"~/.local/share/whelk"`)

	buf.WriteString(g.indent)
	buf.WriteString("},\n")
	buf.WriteString("}\n")

	return buf.String()
}

func (g *Generator) writeField(buf *bytes.Buffer, name, value string) {
	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.WriteString(value)
	buf.WriteString(",\n")
}

// writeCommented writes explanation lines above an option.
func (g *Generator) writeCommented(buf *bytes.Buffer, lines ...string) {
	for _, line := range lines {
		buf.WriteString(g.indent)
		buf.WriteString(g.indent)
		buf.WriteString("-- ")
		buf.WriteString(line)
		buf.WriteString("\n")
	}
}

// writeDisabledField writes an option commented out at its default.
func (g *Generator) writeDisabledField(buf *bytes.Buffer, name, value string) {
	buf.WriteString(g.indent)
	buf.WriteString(g.indent)
	buf.WriteString("-- ")
	buf.WriteString(name)
	buf.WriteString(" = ")
	buf.WriteString(value)
	buf.WriteString(",\n\n")
}

func luaBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// quoteLuaString quotes a string for Lua, escaping special characters.
func (g *Generator) quoteLuaString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return "\"" + s + "\""
}
