package aferofs

import "github.com/spf13/afero"

// Layer wraps a filesystem with additional behavior.
type Layer func(afero.Fs) afero.Fs

// Compose applies layers to base in order; the last layer is outermost.
func Compose(base afero.Fs, layers ...Layer) afero.Fs {
	fs := base
	for _, layer := range layers {
		fs = layer(fs)
	}
	return fs
}

// Rooted confines every path to dir.
func Rooted(dir string) Layer {
	return func(fs afero.Fs) afero.Fs {
		return afero.NewBasePathFs(fs, dir)
	}
}

// ReadOnly rejects every modification.
func ReadOnly() Layer {
	return func(fs afero.Fs) afero.Fs {
		return afero.NewReadOnlyFs(fs)
	}
}

// DryRun keeps modifications in memory, leaving the wrapped filesystem untouched.
func DryRun() Layer {
	return func(fs afero.Fs) afero.Fs {
		return afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(fs), afero.NewMemMapFs())
	}
}
