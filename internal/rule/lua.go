// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package rule

import (
	"fmt"
	"slices"

	"github.com/samber/oops"
	lua "github.com/yuin/gopher-lua"

	"github.com/holomush/propcore/internal/collection"
	"github.com/holomush/propcore/internal/property"
)

// Lua runs a script whenever one of its watched properties changes. The
// script sees three globals:
//
//	get(name)            current value (numbers, strings, booleans, {x=, y=} pairs)
//	set(name, value)     write through the normal property pipeline
//	readonly(name, flag) change a property's read-only flag
//
// The script also runs once at initialization. Only the base, table, string
// and math libraries are available.
type Lua struct {
	collection.RuleBase
	watch  []string
	source string

	state   *lua.LState
	chunk   *lua.LFunction
	callErr error
}

// NewLua creates a detached scripted rule.
func NewLua(watch []string, source string) *Lua {
	return &Lua{watch: slices.Clone(watch), source: source}
}

func (r *Lua) Type() string { return TypeLua }

func (r *Lua) Clone() collection.Rule {
	return NewLua(r.watch, r.source)
}

// Initialize implements collection.Rule.
func (r *Lua) Initialize(owner *collection.Collection) error {
	if err := r.Attach(owner, r.Type()); err != nil {
		return err
	}

	watched := make([]property.Property, 0, len(r.watch))
	for _, name := range r.watch {
		p, err := collection.As[property.Property](owner, name)
		if err != nil {
			return err
		}
		watched = append(watched, p)
	}

	L, err := newSandbox()
	if err != nil {
		return oops.Code(collection.CodeScriptFailed).With("rule", r.Type()).Wrap(err)
	}
	chunk, err := L.LoadString(r.source)
	if err != nil {
		L.Close()
		return oops.Code(collection.CodeScriptFailed).
			With("rule", r.Type()).
			Wrapf(err, "compile lua rule")
	}
	r.state, r.chunk = L, chunk
	r.registerHost()

	for _, p := range watched {
		p.OnValueChanged(func(property.Property) error { return r.run() })
	}
	return r.run()
}

// Close releases the Lua state.
func (r *Lua) Close() error {
	if r.state != nil {
		r.state.Close()
		r.state = nil
	}
	return nil
}

func (r *Lua) run() error {
	if r.state == nil {
		return nil
	}
	recordSync(r.Owner(), r.Type())

	prev := r.callErr
	r.callErr = nil
	defer func() { r.callErr = prev }()

	err := r.state.CallByParam(lua.P{Fn: r.chunk, NRet: 0, Protect: true})
	if r.callErr != nil {
		return r.callErr
	}
	if err != nil {
		return oops.Code(collection.CodeScriptFailed).
			With("rule", r.Type()).
			Wrapf(err, "run lua rule")
	}
	return nil
}

func (r *Lua) registerHost() {
	L := r.state
	L.SetGlobal("get", L.NewFunction(func(L *lua.LState) int {
		p, ok := r.Owner().Get(L.CheckString(1))
		if !ok {
			L.ArgError(1, "unknown property")
			return 0
		}
		L.Push(toLua(L, p.Value()))
		return 1
	}))

	L.SetGlobal("set", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		value, ok := fromLua(L.CheckAny(2))
		if !ok {
			L.ArgError(2, "unsupported value type "+L.Get(2).Type().String())
			return 0
		}
		r.fail(L, r.Owner().Cascade(r.Type(), func() error {
			p, err := collection.As[property.Property](r.Owner(), name)
			if err != nil {
				return err
			}
			return p.SetValue(value)
		}))
		return 0
	}))

	L.SetGlobal("readonly", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		flag := L.CheckBool(2)
		r.fail(L, r.Owner().Cascade(r.Type(), func() error {
			p, err := collection.As[property.Property](r.Owner(), name)
			if err != nil {
				return err
			}
			return p.SetReadOnly(flag)
		}))
		return 0
	}))
}

// fail aborts the running script with err, keeping the original error so
// run can return it unchanged.
func (r *Lua) fail(L *lua.LState, err error) {
	if err == nil {
		return
	}
	r.callErr = err
	L.RaiseError("%s", err.Error())
}

func toLua(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case bool:
		return lua.LBool(x)
	case int:
		return lua.LNumber(x)
	case float64:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	case property.Pair[float64]:
		tbl := L.NewTable()
		tbl.RawSetString("x", lua.LNumber(x.X))
		tbl.RawSetString("y", lua.LNumber(x.Y))
		return tbl
	case fmt.Stringer:
		return lua.LString(x.String())
	default:
		return lua.LNil
	}
}

func fromLua(v lua.LValue) (any, bool) {
	switch x := v.(type) {
	case lua.LBool:
		return bool(x), true
	case lua.LNumber:
		return float64(x), true
	case lua.LString:
		return string(x), true
	case *lua.LTable:
		lx, okX := x.RawGetString("x").(lua.LNumber)
		ly, okY := x.RawGetString("y").(lua.LNumber)
		if !okX || !okY {
			return nil, false
		}
		return property.Pair[float64]{X: float64(lx), Y: float64(ly)}, true
	}
	if v == lua.LNil {
		return nil, true
	}
	return nil, false
}

// sandboxLibraries are the only libraries opened in rule scripts.
var sandboxLibraries = []struct {
	name string
	fn   lua.LGFunction
}{
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedBaseFunctions reach the filesystem or compile arbitrary code.
var blockedBaseFunctions = []string{"dofile", "loadfile", "loadstring", "load", "require"}

func newSandbox() (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range sandboxLibraries {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("open lua library %s: %w", lib.name, err)
		}
	}
	for _, fn := range blockedBaseFunctions {
		L.SetGlobal(fn, lua.LNil)
	}
	return L, nil
}
