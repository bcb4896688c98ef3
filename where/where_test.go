package where

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/swapfs/swapfs/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Path functions", t, func() {
		for name, fn := range map[string]func() string{
			"Config":  Config,
			"Cache":   Cache,
			"Logs":    Logs,
			"Scripts": Scripts,
			"Temp":    Temp,
		} {
			Convey(name+"()", func() {
				path := fn()
				So(path, ShouldNotBeEmpty)
				So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
			})
		}

		Convey("Journal() should live in the config directory", func() {
			So(filepath.Dir(Journal()), ShouldEqual, Config())
		})

		Convey("The config path should be overridable", func() {
			lo.Must0(os.Setenv(EnvConfigPath, "/custom/swapfs"))
			defer os.Unsetenv(EnvConfigPath)

			So(Config(), ShouldEqual, "/custom/swapfs")
			So(Scripts(), ShouldEqual, filepath.Join("/custom/swapfs", "scripts"))
		})
	})
}
