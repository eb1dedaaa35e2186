// Package keywords holds the two pluggable call tables used inside
// `action(...)`: modifiers, which adjust an action's risk accumulators, and
// conditions, which gate its availability. New keywords are added by
// registering a handler; the document parser never changes.
package keywords

import (
	"math"
	"sort"
	"strings"

	"github.com/nathoo/conceptc/engine/literal"
	"github.com/nathoo/conceptc/engine/scan"
	"github.com/nathoo/conceptc/types"
)

// Context is what a handler may use while parsing one call. Diagnostics
// reported through it carry the line of the call being parsed.
type Context interface {
	Resolve(name string) types.TagID
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ModifierHandler applies an in-place numeric effect to an action.
// Invalid arguments are reported through ctx and leave the action as is.
type ModifierHandler interface {
	Apply(args string, action *types.Action, ctx Context)
}

// ConditionHandler builds a condition from a call's arguments. It returns
// false, after reporting through ctx, when the arguments are invalid.
type ConditionHandler interface {
	Parse(args string, ctx Context) (types.Condition, bool)
}

// ModifierFunc adapts a function to a ModifierHandler.
type ModifierFunc func(args string, action *types.Action, ctx Context)

// Apply calls f.
func (f ModifierFunc) Apply(args string, action *types.Action, ctx Context) { f(args, action, ctx) }

// ConditionFunc adapts a function to a ConditionHandler.
type ConditionFunc func(args string, ctx Context) (types.Condition, bool)

// Parse calls f.
func (f ConditionFunc) Parse(args string, ctx Context) (types.Condition, bool) { return f(args, ctx) }

// Table maps case-insensitive keywords to handlers.
type Table struct {
	modifiers  map[string]ModifierHandler
	conditions map[string]ConditionHandler
	names      map[string]string // lower-case key → keyword as registered
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		modifiers:  map[string]ModifierHandler{},
		conditions: map[string]ConditionHandler{},
		names:      map[string]string{},
	}
}

// Default returns a table with the built-in keywords registered.
func Default() *Table {
	t := NewTable()
	t.RegisterModifier("IncreaseDanger", ModifierFunc(increaseDanger))
	t.RegisterModifier("DangerMultiplier", ModifierFunc(dangerMultiplier))
	t.RegisterCondition("RequireAge", ConditionFunc(requireAge))
	t.RegisterCondition("RequireCategory", ConditionFunc(requireCategory))
	return t
}

// RegisterModifier adds a modifier keyword. The first registration of a
// keyword wins; it reports false if the keyword is already taken in
// either table.
func (t *Table) RegisterModifier(keyword string, h ModifierHandler) bool {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" || t.taken(k) {
		return false
	}
	t.modifiers[k] = h
	t.names[k] = strings.TrimSpace(keyword)
	return true
}

// RegisterCondition adds a condition keyword with the same rules as
// RegisterModifier.
func (t *Table) RegisterCondition(keyword string, h ConditionHandler) bool {
	k := strings.ToLower(strings.TrimSpace(keyword))
	if k == "" || t.taken(k) {
		return false
	}
	t.conditions[k] = h
	t.names[k] = strings.TrimSpace(keyword)
	return true
}

func (t *Table) taken(k string) bool {
	_, ok := t.names[k]
	return ok
}

// Modifier looks up a modifier keyword.
func (t *Table) Modifier(keyword string) (ModifierHandler, bool) {
	h, ok := t.modifiers[strings.ToLower(strings.TrimSpace(keyword))]
	return h, ok
}

// Condition looks up a condition keyword.
func (t *Table) Condition(keyword string) (ConditionHandler, bool) {
	h, ok := t.conditions[strings.ToLower(strings.TrimSpace(keyword))]
	return h, ok
}

// Keywords returns every registered keyword, sorted.
func (t *Table) Keywords() []string {
	out := make([]string, 0, len(t.names))
	for _, name := range t.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func increaseDanger(args string, action *types.Action, ctx Context) {
	parts := scan.SplitList(args)
	if len(parts) < 1 {
		ctx.Warnf("IncreaseDanger() requires a single float parameter.")
		return
	}
	v, err := literal.ParseFloat(parts[0])
	if err != nil {
		ctx.Warnf("IncreaseDanger(): %v.", err)
		return
	}
	sum := action.DeltaDanger + v
	if math.IsInf(sum, 0) || math.IsNaN(sum) {
		ctx.Warnf("IncreaseDanger(%s): danger overflows, ignoring.", parts[0])
		return
	}
	action.DeltaDanger = sum
}

func dangerMultiplier(args string, action *types.Action, ctx Context) {
	parts := scan.SplitList(args)
	if len(parts) < 1 {
		ctx.Warnf("DangerMultiplier() requires a single float parameter.")
		return
	}
	v, err := literal.ParseFloat(parts[0])
	if err != nil {
		ctx.Warnf("DangerMultiplier(): %v.", err)
		return
	}
	product := action.DangerMultiplier * v
	if math.IsInf(product, 0) || math.IsNaN(product) {
		ctx.Warnf("DangerMultiplier(%s): multiplier overflows, ignoring.", parts[0])
		return
	}
	action.DangerMultiplier = product
}

func requireAge(args string, ctx Context) (types.Condition, bool) {
	parts := scan.SplitList(args)
	if len(parts) < 1 {
		ctx.Warnf("RequireAge() requires an integer parameter.")
		return types.Condition{}, false
	}
	age, err := literal.ParseInt(parts[0])
	if err != nil {
		ctx.Warnf("RequireAge(): %v.", err)
		return types.Condition{}, false
	}
	return types.Condition{Kind: types.RequireAge, MinAge: age}, true
}

func requireCategory(args string, ctx Context) (types.Condition, bool) {
	names := scan.SplitList(args)
	if len(names) == 0 {
		ctx.Warnf("RequireCategory() requires at least one category name.")
		return types.Condition{}, false
	}

	var ids []types.TagID
	for _, name := range names {
		if id := ctx.Resolve(name); id != types.NoTag {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		ctx.Warnf("RequireCategory(): no categories could be resolved to tags.")
		return types.Condition{}, false
	}
	return types.Condition{Kind: types.RequireCategory, Categories: ids}, true
}
