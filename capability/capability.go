// Package capability describes the filesystem operations a backend may implement.
//
// Every operation is optional. A backend is any value implementing some subset
// of the small interfaces below; callers discover support at call time with [Has].
package capability

import (
	"context"
	"iter"

	"github.com/samber/mo"
)

// Impl is a filesystem implementation conforming, fully or partially, to the operations in this package.
type Impl = any

// Op names a single filesystem operation.
type Op string

// Operation names, as they appear in call logs.
const (
	OpText            Op = "text"
	OpJSON            Op = "json"
	OpBytes           Op = "bytes"
	OpArrayBuffer     Op = "arrayBuffer"
	OpWrite           Op = "write"
	OpIsFile          Op = "isFile"
	OpIsDirectory     Op = "isDirectory"
	OpCreateDirectory Op = "createDirectory"
	OpDelete          Op = "delete"
	OpDeleteAll       Op = "deleteAll"
	OpList            Op = "list"
	OpSize            Op = "size"
	OpCopy            Op = "copy"
	OpCopyAll         Op = "copyAll"
	OpMove            Op = "move"
)

// Ops returns every operation in declaration order.
func Ops() []Op {
	return []Op{
		OpText, OpJSON, OpBytes, OpArrayBuffer,
		OpWrite, OpIsFile, OpIsDirectory, OpCreateDirectory,
		OpDelete, OpDeleteAll, OpList, OpSize,
		OpCopy, OpCopyAll, OpMove,
	}
}

// String implements fmt.Stringer.
func (o Op) String() string {
	return string(o)
}

// DirEntry is a single entry produced by listing a directory.
type DirEntry struct {
	Name        string `json:"name"`
	IsDirectory bool   `json:"isDirectory"`
	IsFile      bool   `json:"isFile"`
	IsSymlink   bool   `json:"isSymlink"`
}

// Texter reads a file as text. A missing file yields mo.None.
type Texter interface {
	Text(ctx context.Context, path string) (mo.Option[string], error)
}

// JSONReader reads and decodes a JSON file. A missing file yields mo.None.
type JSONReader interface {
	JSON(ctx context.Context, path string) (mo.Option[any], error)
}

// ByteReader reads a file as raw bytes. A missing file yields mo.None.
type ByteReader interface {
	Bytes(ctx context.Context, path string) (mo.Option[[]byte], error)
}

// ArrayBufferReader is the legacy name of ByteReader.
//
// Deprecated: implement ByteReader.
type ArrayBufferReader interface {
	ArrayBuffer(ctx context.Context, path string) (mo.Option[[]byte], error)
}

// Writer writes data to a file, replacing its content.
type Writer interface {
	Write(ctx context.Context, path string, data []byte) error
}

// FileChecker reports whether path is a regular file. A missing path is not an error.
type FileChecker interface {
	IsFile(ctx context.Context, path string) (bool, error)
}

// DirectoryChecker reports whether path is a directory. A missing path is not an error.
type DirectoryChecker interface {
	IsDirectory(ctx context.Context, path string) (bool, error)
}

// DirectoryCreator creates a directory.
type DirectoryCreator interface {
	CreateDirectory(ctx context.Context, path string) error
}

// Deleter removes a file or an empty directory.
type Deleter interface {
	Delete(ctx context.Context, path string) error
}

// RecursiveDeleter removes a file or a directory with all of its contents.
type RecursiveDeleter interface {
	DeleteAll(ctx context.Context, path string) error
}

// Lister lists a directory lazily.
// Failures may be returned up front or yielded by the sequence.
type Lister interface {
	List(ctx context.Context, path string) (iter.Seq2[DirEntry, error], error)
}

// Sizer reports the size of a file in bytes. A missing file yields mo.None.
type Sizer interface {
	Size(ctx context.Context, path string) (mo.Option[int64], error)
}

// Copier copies a single file.
type Copier interface {
	Copy(ctx context.Context, src, dst string) error
}

// RecursiveCopier copies a file or a directory tree.
type RecursiveCopier interface {
	CopyAll(ctx context.Context, src, dst string) error
}

// Mover moves a file. Moving a directory is a failure.
type Mover interface {
	Move(ctx context.Context, src, dst string) error
}

// FS is implemented by backends supporting every operation.
type FS interface {
	Texter
	JSONReader
	ByteReader
	ArrayBufferReader
	Writer
	FileChecker
	DirectoryChecker
	DirectoryCreator
	Deleter
	RecursiveDeleter
	Lister
	Sizer
	Copier
	RecursiveCopier
	Mover
}

// Prober is implemented by backends whose operations are only known at run time,
// such as scripted backends. Has consults it after the static check succeeds.
type Prober interface {
	Supports(op Op) bool
}
