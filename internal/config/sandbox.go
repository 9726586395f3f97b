package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips a Lua VM down to declarative use. Config files
// must not execute commands (os.execute), touch the filesystem
// (io.open, io.popen), or load external code (require, dofile,
// loadfile). The debug library goes too since it can reach around the
// sandbox.
//
// string, table, math and the basic utilities (type, tostring,
// tonumber, pairs, ipairs) stay available.
func sandboxLuaVM(L *lua.LState) {
	L.SetGlobal("os", lua.LNil)
	L.SetGlobal("io", lua.LNil)

	L.SetGlobal("require", lua.LNil)
	L.SetGlobal("dofile", lua.LNil)
	L.SetGlobal("loadfile", lua.LNil)
	L.SetGlobal("load", lua.LNil)
	L.SetGlobal("loadstring", lua.LNil)

	L.SetGlobal("debug", lua.LNil)
}

// newSandboxedVM creates the Lua state config parsing runs in.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
