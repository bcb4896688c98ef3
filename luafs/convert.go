package luafs

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/swapfs/swapfs/capability"
	lua "github.com/yuin/gopher-lua"
)

// fromLua converts a Lua value into plain Go values.
// Tables with a non-empty array part become []any, all others map[string]any.
func fromLua(v lua.LValue) any {
	switch v.Type() {
	case lua.LTNil:
		return nil
	case lua.LTBool:
		return lua.LVAsBool(v)
	case lua.LTNumber:
		return float64(v.(lua.LNumber))
	case lua.LTString:
		return v.String()
	case lua.LTTable:
		table := v.(*lua.LTable)
		if n := table.MaxN(); n > 0 {
			list := make([]any, 0, n)
			for i := 1; i <= n; i++ {
				list = append(list, fromLua(table.RawGetInt(i)))
			}
			return list
		}

		obj := make(map[string]any)
		table.ForEach(func(k, val lua.LValue) {
			obj[k.String()] = fromLua(val)
		})
		return obj
	default:
		return v.String()
	}
}

// jsonValue interprets the result of a json function: a table is converted
// directly, a string is decoded as JSON text.
func jsonValue(v lua.LValue) (any, error) {
	if s, ok := v.(lua.LString); ok {
		var out any
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, err
		}
		return out, nil
	}

	return fromLua(v), nil
}

func getBool(table *lua.LTable, key string) bool {
	return lua.LVAsBool(table.RawGetString(key))
}

// entryFromLua accepts either a bare name (a file) or a table
// { name = "...", isDirectory = bool, isFile = bool, isSymlink = bool }.
func entryFromLua(v lua.LValue) (capability.DirEntry, error) {
	switch value := v.(type) {
	case lua.LString:
		return capability.DirEntry{Name: string(value), IsFile: true}, nil
	case *lua.LTable:
		name := value.RawGetString("name")
		if name.Type() != lua.LTString || name.String() == "" {
			return capability.DirEntry{}, fmt.Errorf("directory entry must have a name")
		}

		return capability.DirEntry{
			Name:        name.String(),
			IsDirectory: getBool(value, "isDirectory"),
			IsFile:      getBool(value, "isFile"),
			IsSymlink:   getBool(value, "isSymlink"),
		}, nil
	default:
		return capability.DirEntry{}, fmt.Errorf("directory entry must be a string or a table, got %s", v.Type())
	}
}

func sizeFromLua(v lua.LValue) (int64, error) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("size must be a number, got %s", v.Type())
	}

	f := float64(n)
	if f < 0 || f != math.Trunc(f) {
		return 0, fmt.Errorf("size must be a non-negative integer, got %v", f)
	}

	return int64(f), nil
}
