// Package shell implements the dialect layer of whelk's shell integration.
//
// This package handles:
//   - Modeling the supported shell dialects (bash, zsh, dash, posix, fish,
//     tcsh, xonsh, cmd.exe, powershell)
//   - Detecting the user's shell from the environment and process tree
//   - Reading the activation state a shell process inherited
//   - Computing activation, reactivation and deactivation transitions
//   - Rendering transitions and hook scripts as dialect-correct source text
//
// # Dialects
//
// A Dialect knows everything syntax-shaped about one shell family: how to
// quote a value, which comment token opens a line, which startup files the
// shell reads, and which file extension its scripts carry. Dialects are
// plain string constants so they marshal cleanly through flags and logs.
//
//	d, err := shell.ParseDialect("pwsh")   // DialectPowershell
//	d.Quote(`it's`)                        // 'it''s'
//
// # Activation State
//
// whelk never persists which environment a shell has active. The shell's
// own environment variables are the store: WHELK_SHLVL carries the stack
// depth, WHELK_PREFIX the top of the stack, and WHELK_PREFIX_<i> the frames
// underneath. ReadState parses those variables into a State, an Activator
// computes a Transition (variables to set and unset, the new PATH, an
// optional prompt edit), and an Emitter renders the Transition in the
// dialect the calling shell understands.
//
// The whole pipeline is pure with respect to the filesystem. Only the
// calling shell, by eval'ing the rendered text, changes anything.
//
// # Shell Detection
//
// Detection tries three methods in order:
//  1. $SHELL environment variable (high confidence)
//  2. Walking parent processes for a known shell name (medium)
//  3. The configured default shell (low)
//
// # Hook Scripts
//
// Each dialect ships an embedded hook template defining the `whelk` shell
// function. The function intercepts activate, reactivate and deactivate,
// runs the real binary, and applies the emitted transition to the calling
// shell. Every other subcommand passes through to the binary untouched.
package shell
