package loader

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/conceptc/engine/keywords"
)

// Plugins owns the sandboxed Lua VM behind plugin keywords. Handlers
// registered from Lua share the VM, so calls into it are serialized.
type Plugins struct {
	mu    sync.Mutex
	L     *lua.LState
	names []string
}

// LoadPlugins runs each Lua script in a fresh sandbox. Scripts register
// keywords into tbl with Modifier("Name", fn) and Condition("Name", fn).
// Registering a keyword that is already taken is a load error.
func LoadPlugins(tbl *keywords.Table, paths ...string) (*Plugins, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)

	p := &Plugins{L: L}
	registerAPI(L, p, tbl)

	for _, path := range paths {
		if err := L.DoFile(path); err != nil {
			L.Close()
			return nil, fmt.Errorf("executing plugin %s: %w", path, err)
		}
	}
	return p, nil
}

// Names returns the registered keywords in registration order.
func (p *Plugins) Names() []string {
	return p.names
}

// Close releases the VM. Handlers must not be called afterwards.
func (p *Plugins) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.L.Close()
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes globals that reach the filesystem or break determinism.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	if mathTbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		mathTbl.RawSetString("random", lua.LNil)
		mathTbl.RawSetString("randomseed", lua.LNil)
	}
}
