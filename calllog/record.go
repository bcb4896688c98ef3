// Package calllog keeps named logs of filesystem operation invocations.
package calllog

import (
	"fmt"
	"strings"
	"time"
)

// Record captures a single invocation. Records are never modified after creation.
type Record struct {
	// Method is the name of the invoked operation.
	Method string `json:"method" jsonschema:"description=Name of the invoked operation"`
	// Args are the invocation arguments in call order.
	Args []any `json:"args" jsonschema:"description=Arguments in call order"`
	// Timestamp is the clock reading at invocation, in Unix milliseconds.
	Timestamp int64 `json:"timestamp" jsonschema:"description=Unix milliseconds at invocation"`
}

// Time returns the timestamp as time.Time.
func (r Record) Time() time.Time {
	return time.UnixMilli(r.Timestamp)
}

// String renders the record as a call expression, e.g. write("a.txt", 3 bytes).
func (r Record) String() string {
	args := make([]string, len(r.Args))
	for i, arg := range r.Args {
		args[i] = Describe(arg)
	}

	return fmt.Sprintf("%s(%s)", r.Method, strings.Join(args, ", "))
}

// Describe renders a recorded argument the way String shows it.
func Describe(arg any) string {
	switch v := arg.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case []byte:
		if len(v) == 1 {
			return "1 byte"
		}
		return fmt.Sprintf("%d bytes", len(v))
	case fmt.Stringer:
		return v.String()
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%T", v)
	}
}
