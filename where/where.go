// Package where resolves application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/swapfs/swapfs/constant"
	"github.com/swapfs/swapfs/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "SWAPFS_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config returns the configuration directory. It follows XDG_CONFIG_HOME on
// Linux and the platform equivalent elsewhere, unless SWAPFS_CONFIG_PATH is set.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.App))
}

// Cache returns the cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.App))
}

// Logs returns the directory of log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Scripts returns the directory of Lua backend scripts.
func Scripts() string {
	return ensureDir(filepath.Join(Config(), "scripts"))
}

// Journal returns the path of the persisted call-log journal.
func Journal() string {
	return filepath.Join(Config(), "journal.json")
}

// Temp returns a directory for transient files.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.App))
}
