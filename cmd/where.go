package cmd

import (
	"encoding/json"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/swapfs/swapfs/color"
	"github.com/swapfs/swapfs/filesystem"
	"github.com/swapfs/swapfs/journal"
	"github.com/swapfs/swapfs/style"
	"github.com/swapfs/swapfs/util"
	"github.com/swapfs/swapfs/where"
)

type whereTarget struct {
	name     string
	where    func() string
	argLong  string
	argShort mo.Option[string]
	hidden   bool
	// summary describes what the location holds, if it says anything useful.
	summary func() mo.Option[string]
}

var wherePaths = []*whereTarget{
	{"Config", where.Config, "config", mo.Some("c"), false, summarizeConfig},
	{"Scripts", where.Scripts, "scripts", mo.Some("s"), false, summarizeScripts},
	{"Journal", where.Journal, "journal", mo.Some("j"), false, summarizeJournal},
	{"Logs", where.Logs, "logs", mo.Some("l"), false, noSummary},
	{"Cache", where.Cache, "cache", mo.None[string](), true, noSummary},
	{"Temp", where.Temp, "temp", mo.None[string](), true, noSummary},
}

func noSummary() mo.Option[string] {
	return mo.None[string]()
}

func summarizeConfig() mo.Option[string] {
	if exists := lo.Must(filesystem.API().Exists(configFilePath())); !exists {
		return mo.Some("no config file, using defaults")
	}
	return mo.None[string]()
}

func summarizeScripts() mo.Option[string] {
	paths, err := scripts()
	if err != nil {
		return mo.None[string]()
	}
	return mo.Some(util.Quantify(len(paths), "script", "scripts"))
}

func summarizeJournal() mo.Option[string] {
	names, err := journal.Names()
	if err != nil {
		return mo.None[string]()
	}
	return mo.Some(util.Quantify(len(names), "recorded log", "recorded logs"))
}

func init() {
	rootCmd.AddCommand(whereCmd)

	for _, n := range wherePaths {
		if short, ok := n.argShort.Get(); ok {
			whereCmd.Flags().BoolP(n.argLong, short, false, n.name+" path")
		} else {
			whereCmd.Flags().Bool(n.argLong, false, n.name+" path")
		}

		if n.hidden {
			lo.Must0(whereCmd.Flags().MarkHidden(n.argLong))
		}
	}

	whereCmd.Flags().Bool("json", false, "Print every path as JSON")

	whereCmd.MarkFlagsMutuallyExclusive(append(lo.Map(wherePaths, func(t *whereTarget, _ int) string {
		return t.argLong
	}), "json")...)
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where swapfs keeps its config, scripts and journal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, n := range wherePaths {
			if lo.Must(cmd.Flags().GetBool(n.argLong)) {
				cmd.Println(n.where())
				return nil
			}
		}

		visible := lo.Filter(wherePaths, func(t *whereTarget, _ int) bool {
			return !t.hidden
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(lo.SliceToMap(visible, func(t *whereTarget) (string, string) {
				return t.argLong, t.where()
			}))
		}

		headerStyle := style.New().Bold(true).Foreground(color.HiPurple).Render
		for i, n := range visible {
			cmd.Printf("%s %s\n", headerStyle(n.name+"?"), style.Fg(color.Yellow)("--"+n.argLong))
			cmd.Println(n.where())

			if summary, ok := n.summary().Get(); ok {
				cmd.Println(style.Faint(summary))
			}

			if i < len(visible)-1 {
				cmd.Println()
			}
		}

		return nil
	},
}
