// Package facade forwards filesystem operations to a swappable implementation.
//
// A Facade owns a base implementation fixed at construction and at most one
// substitute set with SetImpl. Every call is recorded into all open logs before
// it is dispatched, and dispatch fails with NoSuchMethodError when the active
// implementation does not expose the operation.
package facade

import (
	"fmt"
	"io"
	"reflect"
	"sync"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/swapfs/swapfs/calllog"
	"github.com/swapfs/swapfs/capability"
)

// Control operation names, as they appear in call logs.
const (
	MethodSetImpl   = "setImpl"
	MethodResetImpl = "resetImpl"
)

// Facade dispatches filesystem operations to the active implementation.
// A Facade is safe for concurrent use.
type Facade struct {
	base    capability.Impl
	mu      sync.RWMutex
	swapped mo.Option[capability.Impl]
	logs    *calllog.Registry
	logger  logrus.FieldLogger
}

// Option configures a Facade.
type Option func(*Facade)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(f *Facade) {
		f.logger = logger
	}
}

// WithRegistry sets the registry calls are recorded into.
func WithRegistry(r *calllog.Registry) Option {
	return func(f *Facade) {
		f.logs = r
	}
}

// New returns a Facade using base as its base implementation.
func New(base capability.Impl, opts ...Option) (*Facade, error) {
	if base == nil {
		return nil, fmt.Errorf("%w: nil base implementation", ErrInvalidArgument)
	}

	f := &Facade{
		base:    base,
		swapped: mo.None[capability.Impl](),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logs == nil {
		f.logs = calllog.NewRegistry()
	}

	if f.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		f.logger = discard
	}

	return f, nil
}

// IsBaseImpl reports whether the base implementation is active.
func (f *Facade) IsBaseImpl() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.swapped.IsAbsent()
}

// SetImpl makes impl the active implementation.
// Only one substitute may be active at a time; call ResetImpl before setting another.
func (f *Facade) SetImpl(impl capability.Impl) error {
	f.logs.Record(MethodSetImpl, impl)

	if impl == nil {
		return fmt.Errorf("%w: nil implementation", ErrInvalidArgument)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.swapped.IsPresent() {
		return ErrImplementationAlreadySet
	}

	if sameImpl(impl, f.base) {
		return nil
	}

	f.swapped = mo.Some(impl)
	f.logger.WithField("impl", fmt.Sprintf("%T", impl)).Debug("implementation set")
	return nil
}

// ResetImpl makes the base implementation active again. It is safe to call without a swap in effect.
func (f *Facade) ResetImpl() {
	f.logs.Record(MethodResetImpl)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.swapped.IsPresent() {
		f.logger.Debug("implementation reset")
	}
	f.swapped = mo.None[capability.Impl]()
}

// LogStart opens a call log under name.
func (f *Facade) LogStart(name string) error {
	return f.logs.Start(name)
}

// LogEnd closes the call log under name and returns its records in invocation order.
func (f *Facade) LogEnd(name string) ([]calllog.Record, error) {
	return f.logs.End(name)
}

// Supports reports whether the active implementation exposes op. It is not recorded.
func (f *Facade) Supports(op capability.Op) bool {
	return capability.Has(f.active(), op)
}

// Supported returns the operations the active implementation exposes. It is not recorded.
func (f *Facade) Supported() []capability.Op {
	return capability.Supported(f.active())
}

func (f *Facade) active() capability.Impl {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.swapped.OrElse(f.base)
}

// resolve records the call and returns the active implementation if it exposes op.
func (f *Facade) resolve(op capability.Op, args ...any) (capability.Impl, error) {
	f.logs.Record(string(op), args...)

	impl := f.active()
	if !capability.Has(impl, op) {
		f.logger.WithField("op", op).Debug("operation not supported by active implementation")
		return nil, &NoSuchMethodError{Op: op}
	}

	f.logger.WithField("op", op).Trace("dispatch")
	return impl, nil
}

// sameImpl reports whether a and b are the same implementation.
// Pointers compare by address; uncomparable values are never the same.
func sameImpl(a, b capability.Impl) (same bool) {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}

	// a struct type may be comparable while holding an uncomparable interface value
	defer func() {
		if recover() != nil {
			same = false
		}
	}()

	return a == b
}
