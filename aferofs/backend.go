// Package aferofs implements every filesystem operation on top of an afero.Fs.
//
// It is the default backend of the application: the OS filesystem in
// production, an in-memory filesystem in tests, and sandboxed, read-only or
// dry-run variants composed with Layer.
package aferofs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/mo"
	"github.com/spf13/afero"
	"github.com/swapfs/swapfs/capability"
)

const (
	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

var (
	// ErrIsDirectory is returned when a file operation targets a directory.
	ErrIsDirectory = errors.New("is a directory")
	// ErrNotDirectory is returned when a directory operation targets a file.
	ErrNotDirectory = errors.New("not a directory")
	// ErrDirectoryNotEmpty is returned by Delete for a directory with entries.
	ErrDirectoryNotEmpty = errors.New("directory not empty")
	// ErrCopyIntoSelf is returned by CopyAll when the destination lies inside the source.
	ErrCopyIntoSelf = errors.New("cannot copy a directory into itself")
	// ErrSameFile is returned by Copy when source and destination are the same file.
	ErrSameFile = errors.New("source and destination are the same file")
)

// Backend implements capability.FS over an afero.Fs.
type Backend struct {
	fs afero.Afero
}

// New returns a Backend over fs.
func New(fs afero.Fs) *Backend {
	return &Backend{fs: afero.Afero{Fs: fs}}
}

// OS returns a Backend over the native filesystem.
func OS() *Backend {
	return New(afero.NewOsFs())
}

// Memory returns a Backend over an empty in-memory filesystem.
func Memory() *Backend {
	return New(afero.NewMemMapFs())
}

// Fs returns the underlying filesystem.
func (b *Backend) Fs() afero.Fs {
	return b.fs.Fs
}

// Name returns the name of the underlying filesystem.
func (b *Backend) Name() string {
	return b.fs.Name()
}

// String implements fmt.Stringer.
func (b *Backend) String() string {
	return "aferofs(" + b.Name() + ")"
}

// stat returns mo.None for a missing path.
func (b *Backend) stat(path string) (mo.Option[os.FileInfo], error) {
	info, err := b.fs.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mo.None[os.FileInfo](), nil
		}
		return mo.None[os.FileInfo](), err
	}

	return mo.Some(info), nil
}

// readFile returns mo.None for a missing path.
func (b *Backend) readFile(ctx context.Context, op, path string) (mo.Option[[]byte], error) {
	if err := ctx.Err(); err != nil {
		return mo.None[[]byte](), err
	}

	info, err := b.stat(path)
	if err != nil {
		return mo.None[[]byte](), err
	}

	fi, ok := info.Get()
	if !ok {
		return mo.None[[]byte](), nil
	}

	if fi.IsDir() {
		return mo.None[[]byte](), &fs.PathError{Op: op, Path: path, Err: ErrIsDirectory}
	}

	data, err := b.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mo.None[[]byte](), nil
		}
		return mo.None[[]byte](), err
	}

	return mo.Some(data), nil
}

// Text reads path as text.
func (b *Backend) Text(ctx context.Context, path string) (mo.Option[string], error) {
	data, err := b.readFile(ctx, "text", path)
	if err != nil {
		return mo.None[string](), err
	}

	raw, ok := data.Get()
	if !ok {
		return mo.None[string](), nil
	}

	return mo.Some(string(raw)), nil
}

// JSON reads path and decodes it into generic JSON values.
func (b *Backend) JSON(ctx context.Context, path string) (mo.Option[any], error) {
	data, err := b.readFile(ctx, "json", path)
	if err != nil {
		return mo.None[any](), err
	}

	raw, ok := data.Get()
	if !ok {
		return mo.None[any](), nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return mo.None[any](), &fs.PathError{Op: "json", Path: path, Err: err}
	}

	return mo.Some(v), nil
}

// Bytes reads path as raw bytes.
func (b *Backend) Bytes(ctx context.Context, path string) (mo.Option[[]byte], error) {
	return b.readFile(ctx, "bytes", path)
}

// ArrayBuffer reads path as raw bytes.
//
// Deprecated: use Bytes.
func (b *Backend) ArrayBuffer(ctx context.Context, path string) (mo.Option[[]byte], error) {
	return b.readFile(ctx, "arrayBuffer", path)
}

// Write replaces the content of path with data, creating parent directories.
func (b *Backend) Write(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := b.fs.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}

	return b.fs.WriteFile(path, data, filePerm)
}

// IsFile reports whether path is a regular file.
func (b *Backend) IsFile(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := b.stat(path)
	if err != nil {
		return false, err
	}

	return info.IsPresent() && info.MustGet().Mode().IsRegular(), nil
}

// IsDirectory reports whether path is a directory.
func (b *Backend) IsDirectory(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	info, err := b.stat(path)
	if err != nil {
		return false, err
	}

	return info.IsPresent() && info.MustGet().IsDir(), nil
}

// CreateDirectory creates path and any missing parents.
func (b *Backend) CreateDirectory(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.fs.MkdirAll(path, dirPerm)
}

// Delete removes a file or an empty directory.
func (b *Backend) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := b.fs.Stat(path)
	if err != nil {
		return err
	}

	if info.IsDir() {
		empty, err := b.fs.IsEmpty(path)
		if err != nil {
			return err
		}
		if !empty {
			return &fs.PathError{Op: "delete", Path: path, Err: ErrDirectoryNotEmpty}
		}
	}

	return b.fs.Remove(path)
}

// DeleteAll removes path and everything below it. A missing path is not an error.
func (b *Backend) DeleteAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.fs.RemoveAll(path)
}

// Size returns the size of path in bytes.
func (b *Backend) Size(ctx context.Context, path string) (mo.Option[int64], error) {
	if err := ctx.Err(); err != nil {
		return mo.None[int64](), err
	}

	info, err := b.stat(path)
	if err != nil {
		return mo.None[int64](), err
	}

	fi, ok := info.Get()
	if !ok {
		return mo.None[int64](), nil
	}

	return mo.Some(fi.Size()), nil
}

// Copy copies the regular file src to dst, creating parent directories of dst.
func (b *Backend) Copy(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := b.fs.Stat(src)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return &fs.PathError{Op: "copy", Path: src, Err: ErrIsDirectory}
	}

	if b.sameFile(src, dst, info) {
		return &fs.PathError{Op: "copy", Path: dst, Err: ErrSameFile}
	}

	return b.copyFile(src, dst, info.Mode().Perm())
}

// sameFile reports whether dst names the file src, whose info is given.
// Opening dst for writing would truncate src before it is read.
func (b *Backend) sameFile(src, dst string, info os.FileInfo) bool {
	if filepath.Clean(src) == filepath.Clean(dst) {
		return true
	}

	target, err := b.fs.Stat(dst)
	return err == nil && os.SameFile(info, target)
}

// CopyAll copies src to dst. Directories are copied recursively.
func (b *Backend) CopyAll(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := b.fs.Stat(src)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return b.Copy(ctx, src, dst)
	}

	if rel, err := filepath.Rel(src, dst); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &fs.PathError{Op: "copyAll", Path: dst, Err: ErrCopyIntoSelf}
	}

	return b.fs.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		if info.IsDir() {
			return b.fs.MkdirAll(target, dirPerm)
		}

		return b.copyFile(path, target, info.Mode().Perm())
	})
}

func (b *Backend) copyFile(src, dst string, perm os.FileMode) error {
	in, err := b.fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := b.fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return err
	}

	out, err := b.fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}

	return out.Close()
}

// Move renames the file src to dst, creating parent directories of dst.
func (b *Backend) Move(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := b.fs.Stat(src)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return &fs.PathError{Op: "move", Path: src, Err: ErrIsDirectory}
	}

	if err := b.fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return err
	}

	return b.fs.Rename(src, dst)
}

var _ capability.FS = (*Backend)(nil)
