package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/conceptc/engine/keywords"
	"github.com/nathoo/conceptc/engine/literal"
	"github.com/nathoo/conceptc/engine/scan"
	"github.com/nathoo/conceptc/types"
)

// registerAPI registers the plugin constructors and helpers as globals.
func registerAPI(L *lua.LState, p *Plugins, tbl *keywords.Table) {
	registerConstructors(L, p, tbl)
	registerConditionHelpers(L)
	registerArgHelpers(L)
}

func registerConstructors(L *lua.LState, p *Plugins, tbl *keywords.Table) {
	// Modifier("Name", function(args, action) ... end)
	// action has danger_multiplier, delta_danger, min_duration and
	// max_duration fields; changes are copied back. Returning a string
	// reports it as a warning and discards the changes.
	L.SetGlobal("Modifier", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		if !tbl.RegisterModifier(name, &luaModifier{p: p, name: name, fn: fn}) {
			L.RaiseError("keyword %q is already registered", name)
		}
		p.names = append(p.names, name)
		return 0
	}))

	// Condition("Name", function(args) return RequireAge(5) end)
	// Returning nil, "message" reports a warning and adds no condition.
	L.SetGlobal("Condition", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)
		if !tbl.RegisterCondition(name, &luaCondition{p: p, name: name, fn: fn}) {
			L.RaiseError("keyword %q is already registered", name)
		}
		p.names = append(p.names, name)
		return 0
	}))
}

func registerConditionHelpers(L *lua.LState) {
	// RequireAge(5)
	L.SetGlobal("RequireAge", L.NewFunction(func(L *lua.LState) int {
		age := L.CheckInt(1)
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString(types.RequireAge))
		tbl.RawSetString("min_age", lua.LNumber(age))
		L.Push(tbl)
		return 1
	}))

	// RequireCategory("Nature", "Fire") or RequireCategory({"Nature", "Fire"})
	L.SetGlobal("RequireCategory", L.NewFunction(func(L *lua.LState) int {
		cats := L.NewTable()
		if list, ok := L.Get(1).(*lua.LTable); ok {
			list.ForEach(func(_, v lua.LValue) {
				if s, ok := v.(lua.LString); ok {
					cats.Append(s)
				}
			})
		} else {
			for i := 1; i <= L.GetTop(); i++ {
				cats.Append(lua.LString(L.CheckString(i)))
			}
		}
		tbl := L.NewTable()
		tbl.RawSetString("kind", lua.LString(types.RequireCategory))
		tbl.RawSetString("categories", cats)
		L.Push(tbl)
		return 1
	}))
}

func registerArgHelpers(L *lua.LState) {
	// split("a, b, ,c") -> {"a", "b", "c"}
	L.SetGlobal("split", L.NewFunction(func(L *lua.LState) int {
		out := L.NewTable()
		for _, s := range scan.SplitList(L.CheckString(1)) {
			out.Append(lua.LString(s))
		}
		L.Push(out)
		return 1
	}))

	// number("0.5") -> 0.5, or nil and a message
	L.SetGlobal("number", L.NewFunction(func(L *lua.LState) int {
		f, err := literal.ParseFloat(L.CheckString(1))
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		L.Push(lua.LNumber(f))
		return 1
	}))
}
