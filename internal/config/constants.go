package config

// Lua schema field names and globals
const (
	luaGlobalWhelk       = "whelk"
	luaFieldOptions      = "options"
	luaFieldAutoStack    = "auto_stack"
	luaFieldChangePrompt = "change_prompt"
	luaFieldEnvPrompt    = "env_prompt"
	luaFieldShowBanner   = "show_banner"
	luaFieldConfirm      = "confirm"
	luaFieldDefaultShell = "default_shell"
	luaFieldRootPrefix   = "root_prefix"
)
