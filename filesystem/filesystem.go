// Package filesystem provides the process-wide filesystem of the application.
//
// API exposes the raw afero filesystem used for configuration, logs and the
// journal. Facade exposes the swappable facade every user-facing operation
// goes through. Both follow the same backend, so tests switch everything to
// memory with SetMemMapFs.
package filesystem

import (
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/swapfs/swapfs/aferofs"
	"github.com/swapfs/swapfs/facade"
)

var (
	backend = afero.Afero{Fs: afero.NewOsFs()}
	active  = newFacade(backend.Fs)
)

func newFacade(fs afero.Fs) *facade.Facade {
	return lo.Must(facade.New(aferofs.New(fs), facade.WithLogger(logrus.StandardLogger())))
}

func set(fs afero.Fs) {
	backend = afero.Afero{Fs: fs}
	active = newFacade(fs)
}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// Facade returns the default facade. Its base implementation is an
// aferofs.Backend over API.
func Facade() *facade.Facade {
	return active
}

// SetOsFs restores the native operating system backend.
// The default facade is rebuilt, dropping any swap and open call logs.
func SetOsFs() {
	set(afero.NewOsFs())
}

// SetMemMapFs switches to a volatile in-memory backend for tests.
// The default facade is rebuilt, dropping any swap and open call logs.
func SetMemMapFs() {
	set(afero.NewMemMapFs())
}
