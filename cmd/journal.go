package cmd

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/swapfs/swapfs/calllog"
	"github.com/swapfs/swapfs/color"
	"github.com/swapfs/swapfs/icon"
	"github.com/swapfs/swapfs/journal"
	"github.com/swapfs/swapfs/style"
	"github.com/swapfs/swapfs/util"
)

func completionJournal(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	return journal.Suggest(toComplete), cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.AddCommand(journalCmd)
}

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect recorded call logs",
	Long: `Inspect recorded call logs.
Record a log by passing --record NAME to any filesystem command.`,
}

func init() {
	journalCmd.AddCommand(journalListCmd)
	journalListCmd.Flags().BoolP("json", "j", false, "Print entries as JSON")
}

var journalListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List recorded logs, most recent first",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		names, err := journal.Names()
		if err != nil {
			return err
		}

		saved, err := journal.Get()
		if err != nil {
			return err
		}

		entries := lo.Map(names, func(name string, _ int) *journal.Entry {
			return saved[name]
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(entries)
		}

		if len(entries) == 0 {
			cmd.Println(style.Faint("No recorded logs"))
			return nil
		}

		for _, e := range entries {
			cmd.Printf(
				"%s %s %s %s\n",
				icon.Get(icon.Journal),
				style.Fg(color.Purple)(e.Name),
				style.Faint(e.Saved.Local().Format(time.DateTime)),
				style.Fg(color.Yellow)(util.Quantify(e.Calls(), "call", "calls")),
			)
		}

		return nil
	},
}

func init() {
	journalCmd.AddCommand(journalShowCmd)
	journalShowCmd.Flags().BoolP("json", "j", false, "Print the entry as JSON")
}

var journalShowCmd = &cobra.Command{
	Use:               "show [name]",
	Short:             "Show the calls of a recorded log",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionJournal,
	RunE: func(cmd *cobra.Command, args []string) error {
		entry, err := loadEntry(args[0])
		if err != nil {
			return err
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(entry)
		}

		width := 80
		if w, _, err := util.TerminalSize(); err == nil {
			width = w
		}

		cmd.Println(style.Bold(entry.Name) + " " + style.Faint(entry.Backend))
		for i, r := range entry.Records {
			cmd.Println(formatRecord(i, r, width))
		}

		return nil
	},
}

func formatRecord(i int, r calllog.Record, width int) string {
	prefix := fmt.Sprintf("%3d %s ", i+1, r.Time().Local().Format("15:04:05.000"))
	call := r.String()

	if r.Method == "setImpl" || r.Method == "resetImpl" {
		call = style.Fg(color.Yellow)(call)
	}

	return style.Faint(prefix) + truncate.StringWithTail(call, uint(util.Max(width-len(prefix), 10)), "…")
}

func loadEntry(name string) (*journal.Entry, error) {
	entry, err := journal.Load(name)
	if err != nil {
		return nil, err
	}

	e, ok := entry.Get()
	if !ok {
		msg := fmt.Sprintf("no recorded log named %s", style.Fg(color.Red)(name))
		if suggestions := journal.Suggest(name); len(suggestions) > 0 {
			msg += fmt.Sprintf(", did you mean %s?", style.Fg(color.Yellow)(suggestions[0]))
		}
		return nil, fmt.Errorf("%w: %s", journal.ErrNotFound, msg)
	}

	return e, nil
}

func init() {
	journalCmd.AddCommand(journalRmCmd)
	journalRmCmd.Flags().BoolP("all", "a", false, "Remove every recorded log")
}

var journalRmCmd = &cobra.Command{
	Use:               "rm [name...]",
	Short:             "Remove recorded logs",
	Aliases:           []string{"remove"},
	ValidArgsFunction: completionJournal,
	RunE: func(cmd *cobra.Command, args []string) error {
		if lo.Must(cmd.Flags().GetBool("all")) {
			names, err := journal.Names()
			if err != nil {
				return err
			}
			args = names
		}

		for _, name := range args {
			if err := journal.Remove(name); err != nil {
				return err
			}
		}

		success(cmd, "removed %s", util.Quantify(len(args), "log", "logs"))
		return nil
	},
}

func init() {
	journalCmd.AddCommand(journalSchemaCmd)
}

var journalSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of journal entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "entry", "record":
				return t.PkgPath()[strings.LastIndex(t.PkgPath(), "/")+1:] + "." + name
			}

			return name
		}

		return json.NewEncoder(cmd.OutOrStdout()).Encode(reflector.Reflect(&journal.Entry{}))
	},
}
