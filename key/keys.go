// Package key defines the configuration keys of the application.
package key

// Backend selection. These keys describe the implementation swapped in
// before a command runs.
const (
	BackendDefault  = "backend.default"
	BackendRoot     = "backend.root"
	BackendReadOnly = "backend.read_only"
	BackendDryRun   = "backend.dry_run"
	BackendScript   = "backend.script"
)

// Journal of recorded call logs.
const (
	JournalLifetime = "journal.lifetime"
	JournalRecord   = "journal.record"
)

// Command behavior.
const (
	RmConfirm    = "rm.confirm"
	LsShowHidden = "ls.show_hidden"
)

// Iconography.
const (
	IconsVariant = "icons.variant"
)

// Logging.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI output.
const (
	CliColored = "cli.colored"
)
