package facade

import (
	"errors"
	"fmt"

	"github.com/swapfs/swapfs/calllog"
	"github.com/swapfs/swapfs/capability"
)

var (
	// ErrInvalidArgument is returned for a malformed control-call argument.
	ErrInvalidArgument = calllog.ErrInvalidArgument
	// ErrDuplicateLog is returned by LogStart for a name that is already open.
	ErrDuplicateLog = calllog.ErrDuplicateLog
	// ErrUnknownLog is returned by LogEnd for a name that is not open.
	ErrUnknownLog = calllog.ErrUnknownLog
	// ErrImplementationAlreadySet is returned by SetImpl while a swap is in effect.
	ErrImplementationAlreadySet = errors.New("implementation already set")
	// ErrNoSuchMethod is matched by every NoSuchMethodError.
	ErrNoSuchMethod = errors.New("no such method")
)

// NoSuchMethodError is returned when the active implementation does not expose an operation.
type NoSuchMethodError struct {
	Op capability.Op
}

func (e *NoSuchMethodError) Error() string {
	return fmt.Sprintf("no such method: %s", e.Op)
}

// Is makes NoSuchMethodError match ErrNoSuchMethod and errors.ErrUnsupported.
func (e *NoSuchMethodError) Is(target error) bool {
	return target == ErrNoSuchMethod || target == errors.ErrUnsupported
}
