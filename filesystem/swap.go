package filesystem

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/swapfs/swapfs/aferofs"
	"github.com/swapfs/swapfs/capability"
	"github.com/swapfs/swapfs/luafs"
)

// ErrScriptWithLayers is returned when a script backend is combined with
// layers that only apply to afero filesystems.
var ErrScriptWithLayers = errors.New("a script backend cannot be combined with --mem, --root, --read-only or --dry-run")

// Variant describes an implementation to swap in for the default backend.
// Layers compose in the order Memory, Root, ReadOnly, DryRun.
type Variant struct {
	// Memory starts from an empty in-memory filesystem instead of API.
	Memory bool
	// Root confines every path to a directory.
	Root string
	// ReadOnly rejects every modification.
	ReadOnly bool
	// DryRun keeps modifications in memory.
	DryRun bool
	// Script is the path of a Lua backend script, read through API.
	Script string
}

// IsZero reports whether v describes the default backend.
func (v Variant) IsZero() bool {
	return v == Variant{}
}

func (v Variant) layers() []aferofs.Layer {
	var layers []aferofs.Layer

	if v.Root != "" {
		layers = append(layers, aferofs.Rooted(v.Root))
	}

	if v.ReadOnly {
		layers = append(layers, aferofs.ReadOnly())
	}

	if v.DryRun {
		layers = append(layers, aferofs.DryRun())
	}

	return layers
}

// Build constructs the implementation v describes.
func (v Variant) Build() (capability.Impl, error) {
	if v.Script != "" {
		if v.Memory || len(v.layers()) > 0 {
			return nil, ErrScriptWithLayers
		}

		return luafs.Load(API().Fs, v.Script)
	}

	var base afero.Fs = API().Fs
	if v.Memory {
		base = afero.NewMemMapFs()
	}

	return aferofs.New(aferofs.Compose(base, v.layers()...)), nil
}

// Swap builds v and installs it into Facade with a single SetImpl.
// The returned release function resets the facade and frees the
// implementation. A zero Variant leaves the facade untouched.
func Swap(v Variant) (release func(), err error) {
	if v.IsZero() {
		return func() {}, nil
	}

	impl, err := v.Build()
	if err != nil {
		return nil, fmt.Errorf("build backend: %w", err)
	}

	f := Facade()
	if err := f.SetImpl(impl); err != nil {
		closeImpl(impl)
		return nil, err
	}

	return func() {
		f.ResetImpl()
		closeImpl(impl)
	}, nil
}

func closeImpl(impl capability.Impl) {
	if script, ok := impl.(*luafs.Backend); ok {
		script.Close()
	}
}
