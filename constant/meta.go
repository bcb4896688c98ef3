// Package constant defines immutable application-level identifiers.
package constant

const (
	// App is the canonical application identifier used for paths, the
	// config file name and the environment variable prefix.
	App = "swapfs"

	// Version is the current application semantic version string.
	Version = "0.1.0"
)

// Build metadata, set with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
