package aferofs

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"iter"
	"os"

	"github.com/swapfs/swapfs/capability"
)

// listBatch is the number of entries read from a directory at a time.
const listBatch = 64

// List lists the directory at path. Entries are read lazily in batches while
// the sequence is consumed; read failures after the first batch are yielded.
func (b *Backend) List(ctx context.Context, path string) (iter.Seq2[capability.DirEntry, error], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := b.fs.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, &fs.PathError{Op: "list", Path: path, Err: ErrNotDirectory}
	}

	return func(yield func(capability.DirEntry, error) bool) {
		dir, err := b.fs.Open(path)
		if err != nil {
			yield(capability.DirEntry{}, err)
			return
		}
		defer dir.Close()

		for {
			if err := ctx.Err(); err != nil {
				yield(capability.DirEntry{}, err)
				return
			}

			infos, err := dir.Readdir(listBatch)
			for _, fi := range infos {
				if !yield(entryOf(fi), nil) {
					return
				}
			}

			if errors.Is(err, io.EOF) || (err == nil && len(infos) == 0) {
				return
			}
			if err != nil {
				yield(capability.DirEntry{}, err)
				return
			}
		}
	}, nil
}

func entryOf(fi os.FileInfo) capability.DirEntry {
	mode := fi.Mode()
	return capability.DirEntry{
		Name:        fi.Name(),
		IsDirectory: mode.IsDir(),
		IsFile:      mode.IsRegular(),
		IsSymlink:   mode&os.ModeSymlink != 0,
	}
}

// Collect drains a listing into a slice, stopping at the first error.
func Collect(entries iter.Seq2[capability.DirEntry, error]) ([]capability.DirEntry, error) {
	var out []capability.DirEntry
	for e, err := range entries {
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, nil
}
