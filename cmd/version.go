package cmd

import (
	"encoding/json"
	"runtime"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/swapfs/swapfs/capability"
	"github.com/swapfs/swapfs/color"
	"github.com/swapfs/swapfs/constant"
	"github.com/swapfs/swapfs/filesystem"
	"github.com/swapfs/swapfs/key"
	"github.com/swapfs/swapfs/luafs"
	"github.com/swapfs/swapfs/style"
)

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolP("short", "s", false, "Only print the version number")
	versionCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	versionCmd.MarkFlagsMutuallyExclusive("short", "json")
}

type versionInfo struct {
	App      string   `json:"app"`
	Version  string   `json:"version"`
	OS       string   `json:"os"`
	Arch     string   `json:"arch"`
	BuiltAt  string   `json:"builtAt"`
	BuiltBy  string   `json:"builtBy"`
	Revision string   `json:"revision"`
	Lua      string   `json:"lua"`
	Backend  string   `json:"backend"`
	Ops      []string `json:"ops"`
}

func currentVersion() versionInfo {
	return versionInfo{
		App:      constant.App,
		Version:  constant.Version,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		BuiltAt:  strings.TrimSpace(constant.BuiltAt),
		BuiltBy:  constant.BuiltBy,
		Revision: constant.Revision,
		Lua:      luafs.LuaVersion(),
		Backend:  viper.GetString(key.BackendDefault),
		Ops: lo.Map(filesystem.Facade().Supported(), func(op capability.Op, _ int) string {
			return op.String()
		}),
	}
}

var versionTemplate = template.Must(template.New("version").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"bold":    style.Bold,
	"magenta": style.Fg(color.Purple),
}).Parse(`{{ magenta "▇▇▇" }} {{ magenta .App }}

  {{ faint "Version" }}         {{ bold .Version }}
  {{ faint "Git Commit" }}      {{ bold .Revision }}
  {{ faint "Build Date" }}      {{ bold .BuiltAt }}
  {{ faint "Built By" }}        {{ bold .BuiltBy }}
  {{ faint "Platform" }}        {{ bold .OS }}/{{ bold .Arch }}
  {{ faint "Scripts" }}         {{ bold .Lua }}
  {{ faint "Default backend" }} {{ bold .Backend }} {{ faint (printf "(%d operations)" (len .Ops)) }}
`))

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version, build and backend information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if lo.Must(cmd.Flags().GetBool("short")) {
			cmd.Println(constant.Version)
			return nil
		}

		info := currentVersion()
		if lo.Must(cmd.Flags().GetBool("json")) {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(info)
		}

		return versionTemplate.Execute(cmd.OutOrStdout(), info)
	},
}
