package aferofs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/afero"
	"github.com/swapfs/swapfs/capability"
)

func names(entries []capability.DirEntry) []string {
	return lo.Map(entries, func(e capability.DirEntry, _ int) string {
		return e.Name
	})
}

func TestReads(t *testing.T) {
	ctx := context.Background()

	Convey("Given an in-memory backend with a few files", t, func() {
		b := Memory()
		So(afero.WriteFile(b.Fs(), "/data/hello.txt", []byte("hello"), 0o644), ShouldBeNil)
		So(afero.WriteFile(b.Fs(), "/data/doc.json", []byte(`{"name":"swapfs","tags":["a","b"],"n":2}`), 0o644), ShouldBeNil)
		So(afero.WriteFile(b.Fs(), "/data/broken.json", []byte(`{"name":`), 0o644), ShouldBeNil)

		Convey("Text should return the content", func() {
			text, err := b.Text(ctx, "/data/hello.txt")
			So(err, ShouldBeNil)
			So(text.MustGet(), ShouldEqual, "hello")
		})

		Convey("Reads of a missing file should be absent, not errors", func() {
			text, err := b.Text(ctx, "/data/missing.txt")
			So(err, ShouldBeNil)
			So(text.IsAbsent(), ShouldBeTrue)

			doc, err := b.JSON(ctx, "/data/missing.json")
			So(err, ShouldBeNil)
			So(doc.IsAbsent(), ShouldBeTrue)

			raw, err := b.Bytes(ctx, "/nowhere/at/all")
			So(err, ShouldBeNil)
			So(raw.IsAbsent(), ShouldBeTrue)

			size, err := b.Size(ctx, "/data/missing.txt")
			So(err, ShouldBeNil)
			So(size.IsAbsent(), ShouldBeTrue)
		})

		Convey("Reading a directory should fail", func() {
			_, err := b.Text(ctx, "/data")
			So(errors.Is(err, ErrIsDirectory), ShouldBeTrue)
		})

		Convey("JSON should decode generic values", func() {
			doc, err := b.JSON(ctx, "/data/doc.json")
			So(err, ShouldBeNil)
			So(doc.MustGet(), ShouldResemble, map[string]any{
				"name": "swapfs",
				"tags": []any{"a", "b"},
				"n":    2.0,
			})
		})

		Convey("Malformed JSON should fail", func() {
			_, err := b.JSON(ctx, "/data/broken.json")
			So(err, ShouldNotBeNil)

			var pathErr *fs.PathError
			So(errors.As(err, &pathErr), ShouldBeTrue)
			So(pathErr.Path, ShouldEqual, "/data/broken.json")
		})

		Convey("Bytes and ArrayBuffer should agree", func() {
			raw, err := b.Bytes(ctx, "/data/hello.txt")
			So(err, ShouldBeNil)
			legacy, err := b.ArrayBuffer(ctx, "/data/hello.txt")
			So(err, ShouldBeNil)
			So(legacy.MustGet(), ShouldResemble, raw.MustGet())
		})

		Convey("Size should report bytes", func() {
			size, err := b.Size(ctx, "/data/hello.txt")
			So(err, ShouldBeNil)
			So(size.MustGet(), ShouldEqual, 5)
		})

		Convey("IsFile and IsDirectory should distinguish kinds", func() {
			isFile, err := b.IsFile(ctx, "/data/hello.txt")
			So(err, ShouldBeNil)
			So(isFile, ShouldBeTrue)

			isDir, err := b.IsDirectory(ctx, "/data/hello.txt")
			So(err, ShouldBeNil)
			So(isDir, ShouldBeFalse)

			isDir, err = b.IsDirectory(ctx, "/data")
			So(err, ShouldBeNil)
			So(isDir, ShouldBeTrue)

			isFile, err = b.IsFile(ctx, "/missing")
			So(err, ShouldBeNil)
			So(isFile, ShouldBeFalse)
		})

		Convey("A cancelled context should stop the call", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := b.Text(cancelled, "/data/hello.txt")
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})
}

func TestWrites(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty in-memory backend", t, func() {
		b := Memory()

		Convey("Write should create parent directories", func() {
			So(b.Write(ctx, "/a/b/c.txt", []byte("x")), ShouldBeNil)

			isDir, _ := b.IsDirectory(ctx, "/a/b")
			So(isDir, ShouldBeTrue)

			text, _ := b.Text(ctx, "/a/b/c.txt")
			So(text.MustGet(), ShouldEqual, "x")

			Convey("And overwrite existing content", func() {
				So(b.Write(ctx, "/a/b/c.txt", []byte("yz")), ShouldBeNil)
				text, _ := b.Text(ctx, "/a/b/c.txt")
				So(text.MustGet(), ShouldEqual, "yz")
			})
		})

		Convey("CreateDirectory should be recursive and idempotent", func() {
			So(b.CreateDirectory(ctx, "/x/y/z"), ShouldBeNil)
			So(b.CreateDirectory(ctx, "/x/y/z"), ShouldBeNil)

			isDir, _ := b.IsDirectory(ctx, "/x/y/z")
			So(isDir, ShouldBeTrue)
		})

		Convey("Delete", func() {
			So(b.Write(ctx, "/d/f.txt", []byte("x")), ShouldBeNil)

			Convey("Should refuse a non-empty directory", func() {
				err := b.Delete(ctx, "/d")
				So(errors.Is(err, ErrDirectoryNotEmpty), ShouldBeTrue)
			})

			Convey("Should remove a file and then the emptied directory", func() {
				So(b.Delete(ctx, "/d/f.txt"), ShouldBeNil)
				So(b.Delete(ctx, "/d"), ShouldBeNil)

				isDir, _ := b.IsDirectory(ctx, "/d")
				So(isDir, ShouldBeFalse)
			})

			Convey("Should fail on a missing path", func() {
				err := b.Delete(ctx, "/nope")
				So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("DeleteAll should remove a tree and accept a missing path", func() {
			So(b.Write(ctx, "/t/1/a.txt", []byte("a")), ShouldBeNil)
			So(b.Write(ctx, "/t/2/b.txt", []byte("b")), ShouldBeNil)

			So(b.DeleteAll(ctx, "/t"), ShouldBeNil)
			isDir, _ := b.IsDirectory(ctx, "/t")
			So(isDir, ShouldBeFalse)

			So(b.DeleteAll(ctx, "/t"), ShouldBeNil)
		})
	})
}

func TestCopyMove(t *testing.T) {
	ctx := context.Background()

	Convey("Given a backend with a small tree", t, func() {
		b := Memory()
		So(b.Write(ctx, "/src/a.txt", []byte("a")), ShouldBeNil)
		So(b.Write(ctx, "/src/sub/b.txt", []byte("bb")), ShouldBeNil)

		Convey("Copy should duplicate a file", func() {
			So(b.Copy(ctx, "/src/a.txt", "/dst/a.txt"), ShouldBeNil)

			text, _ := b.Text(ctx, "/dst/a.txt")
			So(text.MustGet(), ShouldEqual, "a")

			text, _ = b.Text(ctx, "/src/a.txt")
			So(text.MustGet(), ShouldEqual, "a")
		})

		Convey("Copy should refuse a directory", func() {
			So(errors.Is(b.Copy(ctx, "/src", "/dst"), ErrIsDirectory), ShouldBeTrue)
		})

		Convey("Copy should fail for a missing source", func() {
			So(errors.Is(b.Copy(ctx, "/none", "/dst"), fs.ErrNotExist), ShouldBeTrue)
		})

		Convey("CopyAll should copy the whole tree", func() {
			So(b.CopyAll(ctx, "/src", "/copy"), ShouldBeNil)

			text, _ := b.Text(ctx, "/copy/sub/b.txt")
			So(text.MustGet(), ShouldEqual, "bb")
			text, _ = b.Text(ctx, "/copy/a.txt")
			So(text.MustGet(), ShouldEqual, "a")
		})

		Convey("CopyAll should copy a single file", func() {
			So(b.CopyAll(ctx, "/src/a.txt", "/single.txt"), ShouldBeNil)
			isFile, _ := b.IsFile(ctx, "/single.txt")
			So(isFile, ShouldBeTrue)
		})

		Convey("CopyAll should refuse to copy into itself", func() {
			So(errors.Is(b.CopyAll(ctx, "/src", "/src/sub/again"), ErrCopyIntoSelf), ShouldBeTrue)
		})

		Convey("Copying a file onto itself should fail and keep the content", func() {
			So(errors.Is(b.Copy(ctx, "/src/a.txt", "/src/a.txt"), ErrSameFile), ShouldBeTrue)
			So(errors.Is(b.Copy(ctx, "/src/a.txt", "/src/sub/../a.txt"), ErrSameFile), ShouldBeTrue)
			So(errors.Is(b.CopyAll(ctx, "/src/a.txt", "/src/a.txt"), ErrSameFile), ShouldBeTrue)

			text, _ := b.Text(ctx, "/src/a.txt")
			So(text.MustGet(), ShouldEqual, "a")
		})

		Convey("CopyAll should stop on a cancelled context", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			So(errors.Is(b.CopyAll(cancelled, "/src", "/copy"), context.Canceled), ShouldBeTrue)
			isDir, _ := b.IsDirectory(ctx, "/copy")
			So(isDir, ShouldBeFalse)
		})

		Convey("Move should rename a file", func() {
			So(b.Move(ctx, "/src/a.txt", "/moved/a.txt"), ShouldBeNil)

			isFile, _ := b.IsFile(ctx, "/src/a.txt")
			So(isFile, ShouldBeFalse)
			text, _ := b.Text(ctx, "/moved/a.txt")
			So(text.MustGet(), ShouldEqual, "a")
		})

		Convey("Move should refuse a directory", func() {
			So(errors.Is(b.Move(ctx, "/src", "/elsewhere"), ErrIsDirectory), ShouldBeTrue)
		})
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	Convey("Given a directory with more entries than one batch", t, func() {
		b := Memory()
		for i := 0; i < listBatch+6; i++ {
			So(b.Write(ctx, filepath.Join("/many", fmt.Sprintf("f%03d.txt", i)), nil), ShouldBeNil)
		}
		So(b.CreateDirectory(ctx, "/many/sub"), ShouldBeNil)

		Convey("List should yield every entry", func() {
			seq, err := b.List(ctx, "/many")
			So(err, ShouldBeNil)

			entries, err := Collect(seq)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, listBatch+7)

			dirs := lo.Filter(entries, func(e capability.DirEntry, _ int) bool { return e.IsDirectory })
			So(names(dirs), ShouldResemble, []string{"sub"})
			So(dirs[0].IsFile, ShouldBeFalse)
		})

		Convey("Stopping early should be allowed", func() {
			seq, err := b.List(ctx, "/many")
			So(err, ShouldBeNil)

			count := 0
			for range seq {
				count++
				if count == 3 {
					break
				}
			}
			So(count, ShouldEqual, 3)
		})
	})

	Convey("List should fail up front", t, func() {
		b := Memory()
		So(b.Write(ctx, "/file.txt", []byte("x")), ShouldBeNil)

		Convey("For a missing directory", func() {
			_, err := b.List(ctx, "/missing")
			So(errors.Is(err, fs.ErrNotExist), ShouldBeTrue)
		})

		Convey("For a file", func() {
			_, err := b.List(ctx, "/file.txt")
			So(errors.Is(err, ErrNotDirectory), ShouldBeTrue)
		})
	})
}

func TestListSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	Convey("List should report symlinks on the OS filesystem", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "target.txt"), []byte("x"), 0o644), ShouldBeNil)
		So(os.Symlink(filepath.Join(dir, "target.txt"), filepath.Join(dir, "link.txt")), ShouldBeNil)

		b := New(afero.NewBasePathFs(afero.NewOsFs(), dir))
		seq, err := b.List(context.Background(), "/")
		So(err, ShouldBeNil)

		entries, err := Collect(seq)
		So(err, ShouldBeNil)

		link, ok := lo.Find(entries, func(e capability.DirEntry) bool { return e.Name == "link.txt" })
		So(ok, ShouldBeTrue)
		So(link.IsSymlink, ShouldBeTrue)
		So(link.IsFile, ShouldBeFalse)
	})
}

func TestCopyOntoLink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	Convey("Copying a file onto a link to itself should fail on the OS filesystem", t, func() {
		dir := t.TempDir()
		So(os.WriteFile(filepath.Join(dir, "target.txt"), []byte("precious"), 0o644), ShouldBeNil)
		So(os.Symlink(filepath.Join(dir, "target.txt"), filepath.Join(dir, "link.txt")), ShouldBeNil)

		b := New(afero.NewBasePathFs(afero.NewOsFs(), dir))
		err := b.Copy(context.Background(), "/target.txt", "/link.txt")
		So(errors.Is(err, ErrSameFile), ShouldBeTrue)

		data, err := os.ReadFile(filepath.Join(dir, "target.txt"))
		So(err, ShouldBeNil)
		So(string(data), ShouldEqual, "precious")
	})
}

func TestLayers(t *testing.T) {
	ctx := context.Background()

	Convey("Given a base filesystem with a file", t, func() {
		base := afero.NewMemMapFs()
		So(afero.WriteFile(base, "/root/keep.txt", []byte("keep"), 0o644), ShouldBeNil)

		Convey("ReadOnly should reject writes", func() {
			b := New(Compose(base, ReadOnly()))
			So(b.Write(ctx, "/root/new.txt", []byte("x")), ShouldNotBeNil)

			text, err := b.Text(ctx, "/root/keep.txt")
			So(err, ShouldBeNil)
			So(text.MustGet(), ShouldEqual, "keep")
		})

		Convey("Rooted should confine paths", func() {
			b := New(Compose(base, Rooted("/root")))
			text, err := b.Text(ctx, "/keep.txt")
			So(err, ShouldBeNil)
			So(text.MustGet(), ShouldEqual, "keep")

			So(b.Write(ctx, "/inside.txt", []byte("in")), ShouldBeNil)
			ok, _ := afero.Exists(base, "/root/inside.txt")
			So(ok, ShouldBeTrue)
		})

		Convey("DryRun should keep writes away from the base", func() {
			b := New(Compose(base, DryRun()))
			So(b.Write(ctx, "/root/keep.txt", []byte("changed")), ShouldBeNil)

			text, _ := b.Text(ctx, "/root/keep.txt")
			So(text.MustGet(), ShouldEqual, "changed")

			original, _ := afero.ReadFile(base, "/root/keep.txt")
			So(string(original), ShouldEqual, "keep")
		})
	})
}
