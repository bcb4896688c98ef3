package facade

import (
	"context"
	"errors"
	"iter"

	"github.com/samber/mo"
	"github.com/swapfs/swapfs/capability"
)

// call is one invocation observed by spyFS.
type call struct {
	op   capability.Op
	args []any
}

// spyFS implements every operation, records the calls it receives and
// returns canned results.
type spyFS struct {
	calls   []call
	text    mo.Option[string]
	json    mo.Option[any]
	bytes   mo.Option[[]byte]
	size    mo.Option[int64]
	isFile  bool
	isDir   bool
	entries []capability.DirEntry
	err     error
}

func (s *spyFS) record(op capability.Op, args ...any) {
	s.calls = append(s.calls, call{op: op, args: args})
}

func (s *spyFS) Text(_ context.Context, path string) (mo.Option[string], error) {
	s.record(capability.OpText, path)
	return s.text, s.err
}

func (s *spyFS) JSON(_ context.Context, path string) (mo.Option[any], error) {
	s.record(capability.OpJSON, path)
	return s.json, s.err
}

func (s *spyFS) Bytes(_ context.Context, path string) (mo.Option[[]byte], error) {
	s.record(capability.OpBytes, path)
	return s.bytes, s.err
}

func (s *spyFS) ArrayBuffer(_ context.Context, path string) (mo.Option[[]byte], error) {
	s.record(capability.OpArrayBuffer, path)
	return s.bytes, s.err
}

func (s *spyFS) Write(_ context.Context, path string, data []byte) error {
	s.record(capability.OpWrite, path, data)
	return s.err
}

func (s *spyFS) IsFile(_ context.Context, path string) (bool, error) {
	s.record(capability.OpIsFile, path)
	return s.isFile, s.err
}

func (s *spyFS) IsDirectory(_ context.Context, path string) (bool, error) {
	s.record(capability.OpIsDirectory, path)
	return s.isDir, s.err
}

func (s *spyFS) CreateDirectory(_ context.Context, path string) error {
	s.record(capability.OpCreateDirectory, path)
	return s.err
}

func (s *spyFS) Delete(_ context.Context, path string) error {
	s.record(capability.OpDelete, path)
	return s.err
}

func (s *spyFS) DeleteAll(_ context.Context, path string) error {
	s.record(capability.OpDeleteAll, path)
	return s.err
}

func (s *spyFS) List(_ context.Context, path string) (iter.Seq2[capability.DirEntry, error], error) {
	s.record(capability.OpList, path)
	if s.err != nil {
		return nil, s.err
	}

	return func(yield func(capability.DirEntry, error) bool) {
		for _, e := range s.entries {
			if !yield(e, nil) {
				return
			}
		}
	}, nil
}

func (s *spyFS) Size(_ context.Context, path string) (mo.Option[int64], error) {
	s.record(capability.OpSize, path)
	return s.size, s.err
}

func (s *spyFS) Copy(_ context.Context, src, dst string) error {
	s.record(capability.OpCopy, src, dst)
	return s.err
}

func (s *spyFS) CopyAll(_ context.Context, src, dst string) error {
	s.record(capability.OpCopyAll, src, dst)
	return s.err
}

func (s *spyFS) Move(_ context.Context, src, dst string) error {
	s.record(capability.OpMove, src, dst)
	return s.err
}

var _ capability.FS = (*spyFS)(nil)

// textFS implements only Text.
type textFS struct {
	prefix string
}

func (t textFS) Text(_ context.Context, path string) (mo.Option[string], error) {
	return mo.Some(t.prefix + path), nil
}

var errBackend = errors.New("disk on fire")
