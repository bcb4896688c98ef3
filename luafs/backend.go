// Package luafs provides a filesystem backend implemented by a Lua script.
//
// A script defines any subset of global functions named after the
// operations (text, json, bytes, arrayBuffer, write, isFile, isDirectory,
// createDirectory, delete, deleteAll, list, size, copy, copyAll, move).
// Operations without a function are reported as unsupported through
// Supports, so a facade fails them at call time. A nil result from a read
// means the path does not exist; a Lua error is a backend failure.
package luafs

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"
	"strings"
	"sync"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/swapfs/swapfs/capability"
	lua "github.com/yuin/gopher-lua"
)

// Extension is the file extension of backend scripts.
const Extension = ".lua"

// ErrNoOperations is returned when a script defines none of the operation functions.
var ErrNoOperations = errors.New("script defines no filesystem operations")

// Backend dispatches operations to the functions of a Lua script.
// Calls are serialized; a Lua state is single-threaded.
type Backend struct {
	name  string
	mu    sync.Mutex
	state *lua.LState
}

// Load reads and runs the script at path from fs.
func Load(fs afero.Fs, path string) (*Backend, error) {
	proto, err := compileFile(fs, path)
	if err != nil {
		return nil, err
	}

	state := newState()
	if err := run(state, proto); err != nil {
		state.Close()
		return nil, err
	}

	return newBackend(nameOf(path), state)
}

// LoadString runs the script source under the given name.
func LoadString(name, source string) (*Backend, error) {
	state := newState()
	if err := state.DoString(source); err != nil {
		state.Close()
		return nil, err
	}

	return newBackend(name, state)
}

func newState() *lua.LState {
	state := lua.NewState()
	libs.Preload(state)
	return state
}

// LuaVersion returns the Lua language version scripts run on, e.g. "Lua 5.1".
func LuaVersion() string {
	state := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer state.Close()

	lua.OpenBase(state)
	return state.GetGlobal("_VERSION").String()
}

func newBackend(name string, state *lua.LState) (*Backend, error) {
	b := &Backend{name: name, state: state}

	if len(b.Functions()) == 0 {
		state.Close()
		return nil, fmt.Errorf("%s: %w", name, ErrNoOperations)
	}

	return b, nil
}

func nameOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), Extension)
}

// Name returns the script name.
func (b *Backend) Name() string {
	return b.name
}

// String implements fmt.Stringer.
func (b *Backend) String() string {
	return "luafs(" + b.name + ")"
}

// Close releases the Lua state.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.Close()
}

// Supports reports whether the script defines a function for op.
func (b *Backend) Supports(op capability.Op) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state.GetGlobal(string(op)).Type() == lua.LTFunction
}

// Functions returns the operations the script defines.
func (b *Backend) Functions() []capability.Op {
	return lo.Filter(capability.Ops(), func(op capability.Op, _ int) bool {
		return b.Supports(op)
	})
}

// call invokes the global function for op and returns its first result.
func (b *Backend) call(ctx context.Context, op capability.Op, args ...lua.LValue) (lua.LValue, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fn := b.state.GetGlobal(string(op))
	if fn.Type() != lua.LTFunction {
		return lua.LNil, fmt.Errorf("%s: function %s is not defined", b.name, op)
	}

	b.state.SetContext(ctx)
	defer b.state.RemoveContext()

	err := b.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return lua.LNil, fmt.Errorf("%s: %s: %w", b.name, op, err)
	}

	ret := b.state.Get(-1)
	b.state.Pop(1)
	return ret, nil
}

func (b *Backend) unexpected(op capability.Op, v lua.LValue, want string) error {
	return fmt.Errorf("%s: %s returned %s, expected %s", b.name, op, v.Type(), want)
}

func (b *Backend) readString(ctx context.Context, op capability.Op, path string) (mo.Option[string], error) {
	ret, err := b.call(ctx, op, lua.LString(path))
	if err != nil {
		return mo.None[string](), err
	}

	switch v := ret.(type) {
	case *lua.LNilType:
		return mo.None[string](), nil
	case lua.LString:
		return mo.Some(string(v)), nil
	default:
		return mo.None[string](), b.unexpected(op, ret, "string or nil")
	}
}

// Text calls text(path).
func (b *Backend) Text(ctx context.Context, path string) (mo.Option[string], error) {
	return b.readString(ctx, capability.OpText, path)
}

// JSON calls json(path), which may return a table or JSON text.
func (b *Backend) JSON(ctx context.Context, path string) (mo.Option[any], error) {
	ret, err := b.call(ctx, capability.OpJSON, lua.LString(path))
	if err != nil {
		return mo.None[any](), err
	}

	if ret == lua.LNil {
		return mo.None[any](), nil
	}

	v, err := jsonValue(ret)
	if err != nil {
		return mo.None[any](), fmt.Errorf("%s: json: %w", b.name, err)
	}

	return mo.Some(v), nil
}

func (b *Backend) readBytes(ctx context.Context, op capability.Op, path string) (mo.Option[[]byte], error) {
	s, err := b.readString(ctx, op, path)
	if err != nil {
		return mo.None[[]byte](), err
	}

	raw, ok := s.Get()
	if !ok {
		return mo.None[[]byte](), nil
	}

	return mo.Some([]byte(raw)), nil
}

// Bytes calls bytes(path); Lua strings carry arbitrary bytes.
func (b *Backend) Bytes(ctx context.Context, path string) (mo.Option[[]byte], error) {
	return b.readBytes(ctx, capability.OpBytes, path)
}

// ArrayBuffer calls arrayBuffer(path).
//
// Deprecated: scripts should define bytes.
func (b *Backend) ArrayBuffer(ctx context.Context, path string) (mo.Option[[]byte], error) {
	return b.readBytes(ctx, capability.OpArrayBuffer, path)
}

// Write calls write(path, data).
func (b *Backend) Write(ctx context.Context, path string, data []byte) error {
	_, err := b.call(ctx, capability.OpWrite, lua.LString(path), lua.LString(data))
	return err
}

// IsFile calls isFile(path).
func (b *Backend) IsFile(ctx context.Context, path string) (bool, error) {
	ret, err := b.call(ctx, capability.OpIsFile, lua.LString(path))
	if err != nil {
		return false, err
	}

	return lua.LVAsBool(ret), nil
}

// IsDirectory calls isDirectory(path).
func (b *Backend) IsDirectory(ctx context.Context, path string) (bool, error) {
	ret, err := b.call(ctx, capability.OpIsDirectory, lua.LString(path))
	if err != nil {
		return false, err
	}

	return lua.LVAsBool(ret), nil
}

// CreateDirectory calls createDirectory(path).
func (b *Backend) CreateDirectory(ctx context.Context, path string) error {
	_, err := b.call(ctx, capability.OpCreateDirectory, lua.LString(path))
	return err
}

// Delete calls delete(path).
func (b *Backend) Delete(ctx context.Context, path string) error {
	_, err := b.call(ctx, capability.OpDelete, lua.LString(path))
	return err
}

// DeleteAll calls deleteAll(path).
func (b *Backend) DeleteAll(ctx context.Context, path string) error {
	_, err := b.call(ctx, capability.OpDeleteAll, lua.LString(path))
	return err
}

// List calls list(path), which returns an array of names or entry tables.
// The script runs once; the returned sequence walks its result.
func (b *Backend) List(ctx context.Context, path string) (iter.Seq2[capability.DirEntry, error], error) {
	ret, err := b.call(ctx, capability.OpList, lua.LString(path))
	if err != nil {
		return nil, err
	}

	table, ok := ret.(*lua.LTable)
	if !ok {
		return nil, b.unexpected(capability.OpList, ret, "table")
	}

	values := make([]lua.LValue, 0, table.MaxN())
	for i := 1; i <= table.MaxN(); i++ {
		values = append(values, table.RawGetInt(i))
	}

	return func(yield func(capability.DirEntry, error) bool) {
		for _, v := range values {
			entry, err := entryFromLua(v)
			if err != nil {
				yield(capability.DirEntry{}, fmt.Errorf("%s: list: %w", b.name, err))
				return
			}

			if !yield(entry, nil) {
				return
			}
		}
	}, nil
}

// Size calls size(path).
func (b *Backend) Size(ctx context.Context, path string) (mo.Option[int64], error) {
	ret, err := b.call(ctx, capability.OpSize, lua.LString(path))
	if err != nil {
		return mo.None[int64](), err
	}

	if ret == lua.LNil {
		return mo.None[int64](), nil
	}

	n, err := sizeFromLua(ret)
	if err != nil {
		return mo.None[int64](), fmt.Errorf("%s: %w", b.name, err)
	}

	return mo.Some(n), nil
}

// Copy calls copy(src, dst).
func (b *Backend) Copy(ctx context.Context, src, dst string) error {
	_, err := b.call(ctx, capability.OpCopy, lua.LString(src), lua.LString(dst))
	return err
}

// CopyAll calls copyAll(src, dst).
func (b *Backend) CopyAll(ctx context.Context, src, dst string) error {
	_, err := b.call(ctx, capability.OpCopyAll, lua.LString(src), lua.LString(dst))
	return err
}

// Move calls move(src, dst).
func (b *Backend) Move(ctx context.Context, src, dst string) error {
	_, err := b.call(ctx, capability.OpMove, lua.LString(src), lua.LString(dst))
	return err
}

var (
	_ capability.FS     = (*Backend)(nil)
	_ capability.Prober = (*Backend)(nil)
)
