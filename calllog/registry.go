package calllog

import (
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

var (
	// ErrInvalidArgument is returned when a log name is empty.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDuplicateLog is returned when starting a log that is already open.
	ErrDuplicateLog = errors.New("log already started")
	// ErrUnknownLog is returned when ending a log that is not open.
	ErrUnknownLog = errors.New("log not started")
)

// Registry is a named set of open logs. Every recorded call fans out to all of them.
// A Registry is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	logs  map[string][]Record
	clock func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock sets the clock used to timestamp records.
func WithClock(clock func() time.Time) Option {
	return func(r *Registry) {
		r.clock = clock
	}
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		logs:  make(map[string][]Record),
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Start opens an empty log under name.
func (r *Registry) Start(name string) error {
	if name == "" {
		return ErrInvalidArgument
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.logs[name]; exists {
		return ErrDuplicateLog
	}

	r.logs[name] = []Record{}
	return nil
}

// End closes the log under name and hands its records to the caller, in invocation order.
func (r *Registry) End(name string) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, exists := r.logs[name]
	if !exists {
		return nil, ErrUnknownLog
	}

	delete(r.logs, name)
	return records, nil
}

// Record appends a call to every open log.
func (r *Registry) Record(method string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.logs) == 0 {
		return
	}

	timestamp := r.clock().UnixMilli()
	for name, records := range r.logs {
		r.logs[name] = append(records, Record{
			Method:    method,
			Args:      copyArgs(args),
			Timestamp: timestamp,
		})
	}
}

// copyArgs returns args with byte slices copied, so a record never
// aliases caller buffers or another log's record.
func copyArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		if data, ok := arg.([]byte); ok {
			arg = slices.Clone(data)
		}
		out[i] = arg
	}
	return out
}

// Names returns the names of all open logs, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := lo.Keys(r.logs)
	slices.Sort(names)
	return names
}

// Len returns the number of open logs.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.logs)
}
