// Package config loads and generates whelk's Lua configuration.
//
// # Overview
//
// whelk reads one optional file, whelk.lua, found via WHELK_CONFIG_FILE
// or under the XDG config home. The file is a declarative Lua script
// defining a global `whelk` table; its `options` sub-table tunes
// activation behavior (prompt decoration, implicit stacking, default
// shell, root prefix location). A missing file is not an error: every
// option has a default and Load returns them unchanged.
//
// # Sandboxing
//
// User Lua code runs in a restricted gopher-lua VM. System command
// execution (os.*), filesystem access (io.*), external code loading
// (require, dofile, loadfile, load, loadstring) and the debug library
// are removed before the script runs. string, table, math and the
// basic utilities stay available, which is all a declarative config
// needs.
//
// # Platform Conditionals
//
// The platform package injects a read-only `platform` table, so
// configs can branch per machine:
//
//	whelk = {
//	  options = {
//	    default_shell = platform.is_windows and "powershell" or "zsh",
//	    auto_stack = platform.when(platform.is_linux, 1) or 0,
//	  },
//	}
//
// # Usage
//
//	cfg, err := config.Load(ctx, detector, config.Locate())
//	if err != nil {
//	    return err
//	}
//	if cfg.Options.ChangePrompt {
//	    ...
//	}
//
// Generation runs the other way: Generator renders a Config back to
// parseable Lua, and DefaultFileContent produces the commented starter
// file that `whelk shell init` writes when no config exists yet.
package config
