package filesystem

import (
	"io"
	"os"
)

// GacheFs adapts API to the gache.FileSystem interface, so persisted
// caches follow the active backend.
type GacheFs struct{}

// OpenFile opens a file on the current backend.
func (GacheFs) OpenFile(name string, flag int, perm os.FileMode) (io.ReadWriteCloser, error) {
	return API().OpenFile(name, flag, perm)
}

// MkdirAll creates a directory on the current backend.
func (GacheFs) MkdirAll(path string, perm os.FileMode) error {
	return API().MkdirAll(path, perm)
}
