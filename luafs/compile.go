package luafs

import (
	"fmt"
	"sync"

	"github.com/spf13/afero"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// protoCache holds compiled prototypes keyed by path and modification time.
var protoCache sync.Map

// compileFile parses and compiles the script at path, reusing a cached
// prototype when the file has not changed since it was last compiled.
func compileFile(fs afero.Fs, path string) (*lua.FunctionProto, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s@%d", path, info.ModTime().UnixNano())
	if cached, ok := protoCache.Load(key); ok {
		return cached.(*lua.FunctionProto), nil
	}

	file, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	protoCache.Store(key, proto)
	return proto, nil
}

// run executes a compiled prototype in state.
func run(state *lua.LState, proto *lua.FunctionProto) error {
	state.Push(state.NewFunctionFromProto(proto))
	return state.PCall(0, lua.MultRet, nil)
}
