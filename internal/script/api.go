package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/inkwell/internal/editor"
	"github.com/dshills/inkwell/internal/format"
)

// api returns the inkwell table functions for ed.
func api(ed *editor.Editor) map[string]lua.LGFunction {
	return map[string]lua.LGFunction{
		"load": func(L *lua.LState) int {
			check(L, ed.Load(L.CheckString(1)))
			return 0
		},
		"select": func(L *lua.LState) int {
			from := L.CheckInt(1)
			to := L.OptInt(2, from)
			check(L, ed.SelectText(from, to))
			return 0
		},
		"select_text": func(L *lua.LState) int {
			check(L, ed.SelectString(L.CheckString(1)))
			return 0
		},
		"apply": func(L *lua.LState) int {
			opts := format.Options{Style: L.CheckString(1), Toggle: true}
			switch v := L.Get(2).(type) {
			case lua.LString:
				opts.Href = string(v)
			case *lua.LTable:
				if href, ok := v.RawGetString("href").(lua.LString); ok {
					opts.Href = string(href)
				}
				if toggle, ok := v.RawGetString("toggle").(lua.LBool); ok {
					opts.Toggle = bool(toggle)
				}
			}
			applied, err := ed.Apply(opts)
			check(L, err)
			L.Push(lua.LBool(applied))
			return 1
		},
		"can": func(L *lua.LState) int {
			L.Push(lua.LBool(ed.Can(L.CheckString(1))))
			return 1
		},
		"active": func(L *lua.LState) int {
			L.Push(lua.LBool(ed.Active(L.CheckString(1))))
			return 1
		},
		"paste": func(L *lua.LState) int {
			check(L, ed.Paste(L.CheckString(1)))
			return 0
		},
		"undo": func(L *lua.LState) int {
			check(L, ed.Undo())
			return 0
		},
		"redo": func(L *lua.LState) int {
			check(L, ed.Redo())
			return 0
		},
		"html": func(L *lua.LState) int {
			s, err := ed.HTML()
			check(L, err)
			L.Push(lua.LString(s))
			return 1
		},
		"text": func(L *lua.LState) int {
			L.Push(lua.LString(ed.Text()))
			return 1
		},
		"selection": func(L *lua.LState) int {
			from, to, ok := ed.Selection()
			if !ok {
				L.Push(lua.LNil)
				return 1
			}
			L.Push(lua.LNumber(from))
			L.Push(lua.LNumber(to))
			return 2
		},
	}
}

// check raises err as a Lua error.
func check(L *lua.LState, err error) {
	if err != nil {
		L.RaiseError("%s", err.Error())
	}
}
