package open

import (
	"os"
	"runtime"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/swapfs/swapfs/constant"
)

func TestCommand(t *testing.T) {
	Convey("Given the current platform", t, func() {
		supported := lo.Contains([]string{constant.Windows, constant.Darwin, constant.Linux, constant.Android}, runtime.GOOS)

		Convey("command should build a handler invocation", func() {
			cmd, ok := command("/tmp/x.lua")
			So(ok, ShouldEqual, supported)
			if ok {
				So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "/tmp/x.lua")
			}
		})

		Convey("commandWith should pass the path last", func() {
			cmd, ok := commandWith("/tmp/x.lua", "vim")
			So(ok, ShouldEqual, supported)
			if ok {
				So(cmd.Args[len(cmd.Args)-1], ShouldEqual, "/tmp/x.lua")
			}
		})
	})

	Convey("Edit should run $EDITOR", t, func() {
		lo.Must0(os.Setenv(EnvEditor, "true"))
		defer os.Unsetenv(EnvEditor)

		if runtime.GOOS == constant.Windows {
			SkipSo(Edit("x"), ShouldBeNil)
			return
		}

		So(Edit("/tmp/x.lua"), ShouldBeNil)
	})
}
