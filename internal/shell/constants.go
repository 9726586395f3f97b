package shell

// Environment variable names that carry activation state between the
// whelk binary and the live shell. The shell's exported environment is
// the only place this state lives; every whelk invocation reads it
// fresh from the inherited environment.
const (
	// EnvExe holds the absolute path of the whelk binary, exported by
	// the startup snippet so hook functions survive PATH changes.
	EnvExe = "WHELK_EXE"

	// EnvShlvl is the activation stack depth. Absent or "0" means
	// nothing is active.
	EnvShlvl = "WHELK_SHLVL"

	// EnvPrefix is the absolute prefix of the top activation frame.
	EnvPrefix = "WHELK_PREFIX"

	// EnvDefaultEnv is the display name of the top frame (base, a bare
	// environment name, or a full path).
	EnvDefaultEnv = "WHELK_DEFAULT_ENV"

	// EnvPromptModifier is the prompt decoration for the top frame,
	// e.g. "(myenv) ". Empty or absent when prompt changes are off.
	EnvPromptModifier = "WHELK_PROMPT_MODIFIER"

	// EnvPrefixN is the name prefix for saved frame prefixes:
	// WHELK_PREFIX_1 holds the prefix of frame 1 while a deeper frame
	// is on top of it.
	EnvPrefixN = "WHELK_PREFIX_"

	// EnvStackedN is the name prefix for stack markers:
	// WHELK_STACKED_2=true records that frame 2 was activated on top
	// of frame 1 without removing frame 1's PATH entries.
	EnvStackedN = "WHELK_STACKED_"

	// EnvDebug enables debug logging when set.
	EnvDebug = "WHELK_DEBUG"
)
