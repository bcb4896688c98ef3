package facade

import (
	"context"
	"iter"

	"github.com/samber/mo"
	"github.com/swapfs/swapfs/capability"
)

// Text reads path as text. A missing file yields mo.None.
func (f *Facade) Text(ctx context.Context, path string) (mo.Option[string], error) {
	impl, err := f.resolve(capability.OpText, path)
	if err != nil {
		return mo.None[string](), err
	}

	return impl.(capability.Texter).Text(ctx, path)
}

// JSON reads and decodes path as JSON. A missing file yields mo.None.
func (f *Facade) JSON(ctx context.Context, path string) (mo.Option[any], error) {
	impl, err := f.resolve(capability.OpJSON, path)
	if err != nil {
		return mo.None[any](), err
	}

	return impl.(capability.JSONReader).JSON(ctx, path)
}

// Bytes reads path as raw bytes. A missing file yields mo.None.
func (f *Facade) Bytes(ctx context.Context, path string) (mo.Option[[]byte], error) {
	impl, err := f.resolve(capability.OpBytes, path)
	if err != nil {
		return mo.None[[]byte](), err
	}

	return impl.(capability.ByteReader).Bytes(ctx, path)
}

// ArrayBuffer reads path as raw bytes.
//
// Deprecated: use Bytes.
func (f *Facade) ArrayBuffer(ctx context.Context, path string) (mo.Option[[]byte], error) {
	impl, err := f.resolve(capability.OpArrayBuffer, path)
	if err != nil {
		return mo.None[[]byte](), err
	}

	return impl.(capability.ArrayBufferReader).ArrayBuffer(ctx, path)
}

// Write writes data to path.
func (f *Facade) Write(ctx context.Context, path string, data []byte) error {
	impl, err := f.resolve(capability.OpWrite, path, data)
	if err != nil {
		return err
	}

	return impl.(capability.Writer).Write(ctx, path, data)
}

// IsFile reports whether path is a regular file.
func (f *Facade) IsFile(ctx context.Context, path string) (bool, error) {
	impl, err := f.resolve(capability.OpIsFile, path)
	if err != nil {
		return false, err
	}

	return impl.(capability.FileChecker).IsFile(ctx, path)
}

// IsDirectory reports whether path is a directory.
func (f *Facade) IsDirectory(ctx context.Context, path string) (bool, error) {
	impl, err := f.resolve(capability.OpIsDirectory, path)
	if err != nil {
		return false, err
	}

	return impl.(capability.DirectoryChecker).IsDirectory(ctx, path)
}

// CreateDirectory creates the directory at path.
func (f *Facade) CreateDirectory(ctx context.Context, path string) error {
	impl, err := f.resolve(capability.OpCreateDirectory, path)
	if err != nil {
		return err
	}

	return impl.(capability.DirectoryCreator).CreateDirectory(ctx, path)
}

// Delete removes a file or an empty directory.
func (f *Facade) Delete(ctx context.Context, path string) error {
	impl, err := f.resolve(capability.OpDelete, path)
	if err != nil {
		return err
	}

	return impl.(capability.Deleter).Delete(ctx, path)
}

// DeleteAll removes path and everything below it.
func (f *Facade) DeleteAll(ctx context.Context, path string) error {
	impl, err := f.resolve(capability.OpDeleteAll, path)
	if err != nil {
		return err
	}

	return impl.(capability.RecursiveDeleter).DeleteAll(ctx, path)
}

// List lists the entries of the directory at path lazily.
func (f *Facade) List(ctx context.Context, path string) (iter.Seq2[capability.DirEntry, error], error) {
	impl, err := f.resolve(capability.OpList, path)
	if err != nil {
		return nil, err
	}

	return impl.(capability.Lister).List(ctx, path)
}

// Size returns the size of the file at path in bytes. A missing file yields mo.None.
func (f *Facade) Size(ctx context.Context, path string) (mo.Option[int64], error) {
	impl, err := f.resolve(capability.OpSize, path)
	if err != nil {
		return mo.None[int64](), err
	}

	return impl.(capability.Sizer).Size(ctx, path)
}

// Copy copies the file at src to dst.
func (f *Facade) Copy(ctx context.Context, src, dst string) error {
	impl, err := f.resolve(capability.OpCopy, src, dst)
	if err != nil {
		return err
	}

	return impl.(capability.Copier).Copy(ctx, src, dst)
}

// CopyAll copies src to dst, recursing into directories.
func (f *Facade) CopyAll(ctx context.Context, src, dst string) error {
	impl, err := f.resolve(capability.OpCopyAll, src, dst)
	if err != nil {
		return err
	}

	return impl.(capability.RecursiveCopier).CopyAll(ctx, src, dst)
}

// Move moves the file at src to dst.
func (f *Facade) Move(ctx context.Context, src, dst string) error {
	impl, err := f.resolve(capability.OpMove, src, dst)
	if err != nil {
		return err
	}

	return impl.(capability.Mover).Move(ctx, src, dst)
}

var _ capability.FS = (*Facade)(nil)
