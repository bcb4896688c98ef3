package luafs

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/swapfs/swapfs/capability"
)

const memoryScript = `
local files = { ["/hello.txt"] = "hello", ["/doc.json"] = '{"a":[1,2]}' }

function text(path)
	return files[path]
end

function bytes(path)
	return files[path]
end

function json(path)
	if path == "/table" then
		return { name = "swapfs", list = { "x", "y" } }
	end
	return files[path]
end

function write(path, data)
	if path == "/readonly" then
		error("read-only path")
	end
	files[path] = data
end

function isFile(path)
	return files[path] ~= nil
end

function size(path)
	local content = files[path]
	if content == nil then
		return nil
	end
	return #content
end

function list(path)
	return {
		"plain.txt",
		{ name = "dir", isDirectory = true },
		{ name = "link", isSymlink = true },
	}
end
`

func TestLoadString(t *testing.T) {
	ctx := context.Background()

	Convey("Given a script implementing a subset of operations", t, func() {
		b, err := LoadString("memory", memoryScript)
		So(err, ShouldBeNil)
		defer b.Close()

		Convey("Supports should reflect the defined functions", func() {
			So(b.Supports(capability.OpText), ShouldBeTrue)
			So(b.Supports(capability.OpMove), ShouldBeFalse)
			So(b.Functions(), ShouldResemble, []capability.Op{
				capability.OpText, capability.OpJSON, capability.OpBytes,
				capability.OpWrite, capability.OpIsFile, capability.OpList, capability.OpSize,
			})
			So(capability.Has(b, capability.OpMove), ShouldBeFalse)
			So(capability.Has(b, capability.OpWrite), ShouldBeTrue)
		})

		Convey("Text should return script values and nil as absent", func() {
			text, err := b.Text(ctx, "/hello.txt")
			So(err, ShouldBeNil)
			So(text.MustGet(), ShouldEqual, "hello")

			text, err = b.Text(ctx, "/missing")
			So(err, ShouldBeNil)
			So(text.IsAbsent(), ShouldBeTrue)
		})

		Convey("Write should be visible to later reads", func() {
			So(b.Write(ctx, "/new.txt", []byte("fresh")), ShouldBeNil)

			raw, err := b.Bytes(ctx, "/new.txt")
			So(err, ShouldBeNil)
			So(raw.MustGet(), ShouldResemble, []byte("fresh"))

			size, err := b.Size(ctx, "/new.txt")
			So(err, ShouldBeNil)
			So(size.MustGet(), ShouldEqual, int64(5))
		})

		Convey("Lua errors should surface as failures", func() {
			err := b.Write(ctx, "/readonly", []byte("x"))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "read-only path")
		})

		Convey("JSON should accept JSON text and tables", func() {
			doc, err := b.JSON(ctx, "/doc.json")
			So(err, ShouldBeNil)
			So(doc.MustGet(), ShouldResemble, map[string]any{"a": []any{1.0, 2.0}})

			doc, err = b.JSON(ctx, "/table")
			So(err, ShouldBeNil)
			So(doc.MustGet(), ShouldResemble, map[string]any{"name": "swapfs", "list": []any{"x", "y"}})

			doc, err = b.JSON(ctx, "/missing")
			So(err, ShouldBeNil)
			So(doc.IsAbsent(), ShouldBeTrue)
		})

		Convey("IsFile should coerce nil to false", func() {
			ok, err := b.IsFile(ctx, "/missing")
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("List should accept names and entry tables", func() {
			seq, err := b.List(ctx, "/")
			So(err, ShouldBeNil)

			var entries []capability.DirEntry
			for e, err := range seq {
				So(err, ShouldBeNil)
				entries = append(entries, e)
			}

			So(entries, ShouldResemble, []capability.DirEntry{
				{Name: "plain.txt", IsFile: true},
				{Name: "dir", IsDirectory: true},
				{Name: "link", IsSymlink: true},
			})
		})

		Convey("Calling an undefined function directly should fail", func() {
			So(b.Move(ctx, "/a", "/b"), ShouldNotBeNil)
		})
	})

	Convey("A script with no operations should be rejected", t, func() {
		_, err := LoadString("empty", "local x = 1")
		So(errors.Is(err, ErrNoOperations), ShouldBeTrue)
	})

	Convey("A script with a syntax error should be rejected", t, func() {
		_, err := LoadString("broken", "function text(")
		So(err, ShouldNotBeNil)
	})

	Convey("Wrong result types should be reported", t, func() {
		b, err := LoadString("wrong", `
function text(path) return 42 end
function size(path) return "big" end
function list(path) return "nope" end
`)
		So(err, ShouldBeNil)
		defer b.Close()

		_, err = b.Text(ctx, "/x")
		So(err, ShouldNotBeNil)

		_, err = b.Size(ctx, "/x")
		So(err, ShouldNotBeNil)

		_, err = b.List(ctx, "/x")
		So(err, ShouldNotBeNil)
	})

	Convey("A cancelled context should stop a running script", t, func() {
		b, err := LoadString("spin", `function text(path) while true do end end`)
		So(err, ShouldBeNil)
		defer b.Close()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err = b.Text(cancelled, "/x")
		So(err, ShouldNotBeNil)
	})
}

func TestLoad(t *testing.T) {
	Convey("Load should read scripts through afero", t, func() {
		fs := afero.NewMemMapFs()
		So(afero.WriteFile(fs, "/scripts/echo.lua", []byte(`function text(path) return "echo:" .. path end`), 0o644), ShouldBeNil)

		b, err := Load(fs, "/scripts/echo.lua")
		So(err, ShouldBeNil)
		defer b.Close()

		So(b.Name(), ShouldEqual, "echo")
		So(b.String(), ShouldEqual, "luafs(echo)")

		text, err := b.Text(context.Background(), "a")
		So(err, ShouldBeNil)
		So(text.MustGet(), ShouldEqual, "echo:a")

		Convey("A second load should reuse the compiled script", func() {
			again, err := Load(fs, "/scripts/echo.lua")
			So(err, ShouldBeNil)
			defer again.Close()

			count := 0
			protoCache.Range(func(_, _ any) bool {
				count++
				return true
			})
			So(count, ShouldBeGreaterThanOrEqualTo, 1)
		})

		Convey("A missing script should fail", func() {
			_, err := Load(fs, "/scripts/missing.lua")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestEntryFromLua(t *testing.T) {
	Convey("entryFromLua should require a name", t, func() {
		b := lo.Must(LoadString("names", `function list(path) return { { isFile = true } } end`))
		defer b.Close()

		seq, err := b.List(context.Background(), "/")
		So(err, ShouldBeNil)

		for _, err := range seq {
			So(err, ShouldNotBeNil)
		}
	})
}

func TestLuaVersion(t *testing.T) {
	Convey("LuaVersion should name the language scripts run on", t, func() {
		So(LuaVersion(), ShouldStartWith, "Lua 5.")
	})
}
