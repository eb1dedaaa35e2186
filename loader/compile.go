package loader

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/conceptc/engine/keywords"
	"github.com/nathoo/conceptc/types"
)

// luaModifier is a keywords.ModifierHandler backed by a Lua function.
type luaModifier struct {
	p    *Plugins
	name string
	fn   *lua.LFunction
}

func (m *luaModifier) Apply(args string, a *types.Action, ctx keywords.Context) {
	m.p.mu.Lock()
	defer m.p.mu.Unlock()
	L := m.p.L

	tbl := actionTable(L, a)
	if err := L.CallByParam(lua.P{Fn: m.fn, NRet: 1, Protect: true}, lua.LString(args), tbl); err != nil {
		ctx.Errorf("%s(): %v", m.name, err)
		return
	}
	ret := L.Get(-1)
	L.Pop(1)

	if msg, ok := ret.(lua.LString); ok {
		ctx.Warnf("%s(): %s", m.name, string(msg))
		return
	}
	readAction(tbl, a)
}

// luaCondition is a keywords.ConditionHandler backed by a Lua function.
type luaCondition struct {
	p    *Plugins
	name string
	fn   *lua.LFunction
}

func (c *luaCondition) Parse(args string, ctx keywords.Context) (types.Condition, bool) {
	c.p.mu.Lock()
	defer c.p.mu.Unlock()
	L := c.p.L

	if err := L.CallByParam(lua.P{Fn: c.fn, NRet: 2, Protect: true}, lua.LString(args)); err != nil {
		ctx.Errorf("%s(): %v", c.name, err)
		return types.Condition{}, false
	}
	ret, msg := L.Get(-2), L.Get(-1)
	L.Pop(2)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		if s, ok := msg.(lua.LString); ok {
			ctx.Warnf("%s(): %s", c.name, string(s))
		} else {
			ctx.Warnf("%s(): no condition returned", c.name)
		}
		return types.Condition{}, false
	}
	return compileCondition(tbl, c.name, ctx)
}

// actionTable exposes the numeric fields of a to Lua.
func actionTable(L *lua.LState, a *types.Action) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("danger_multiplier", lua.LNumber(a.DangerMultiplier))
	tbl.RawSetString("delta_danger", lua.LNumber(a.DeltaDanger))
	tbl.RawSetString("min_duration", lua.LNumber(a.Duration.Min))
	tbl.RawSetString("max_duration", lua.LNumber(a.Duration.Max))
	return tbl
}

// readAction copies numeric fields back from tbl, ignoring fields that
// are missing, non-numeric, or not finite.
func readAction(tbl *lua.LTable, a *types.Action) {
	if f, ok := getNumber(tbl, "danger_multiplier"); ok {
		a.DangerMultiplier = f
	}
	if f, ok := getNumber(tbl, "delta_danger"); ok {
		a.DeltaDanger = f
	}
	if f, ok := getNumber(tbl, "min_duration"); ok {
		a.Duration.Min = clampInt(f)
	}
	if f, ok := getNumber(tbl, "max_duration"); ok {
		a.Duration.Max = clampInt(f)
	}
}

// clampInt truncates f toward zero, saturating at the int range.
func clampInt(f float64) int {
	switch {
	case f >= math.MaxInt:
		return math.MaxInt
	case f <= math.MinInt:
		return math.MinInt
	}
	return int(f)
}

// compileCondition converts a RequireAge/RequireCategory helper table.
func compileCondition(tbl *lua.LTable, name string, ctx keywords.Context) (types.Condition, bool) {
	switch kind := types.ConditionKind(getString(tbl, "kind")); kind {
	case types.RequireAge:
		age, ok := getNumber(tbl, "min_age")
		if !ok {
			ctx.Warnf("%s(): RequireAge without an age", name)
			return types.Condition{}, false
		}
		return types.Condition{Kind: kind, MinAge: int(age)}, true

	case types.RequireCategory:
		var ids []types.TagID
		if cats := getTable(tbl, "categories"); cats != nil {
			cats.ForEach(func(_, v lua.LValue) {
				if s, ok := v.(lua.LString); ok {
					if id := ctx.Resolve(string(s)); id != types.NoTag {
						ids = append(ids, id)
					}
				}
			})
		}
		if len(ids) == 0 {
			ctx.Warnf("%s(): no categories could be resolved to tags.", name)
			return types.Condition{}, false
		}
		return types.Condition{Kind: kind, Categories: ids}, true

	default:
		ctx.Errorf("%s(): unknown condition kind %q", name, kind)
		return types.Condition{}, false
	}
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	if s, ok := tbl.RawGetString(key).(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getNumber returns a finite numeric field from a Lua table.
func getNumber(tbl *lua.LTable, key string) (float64, bool) {
	n, ok := tbl.RawGetString(key).(lua.LNumber)
	if !ok {
		return 0, false
	}
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	if t, ok := tbl.RawGetString(key).(*lua.LTable); ok {
		return t
	}
	return nil
}
