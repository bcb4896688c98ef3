package cmd

import (
	"context"
	"encoding/json"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/swapfs/swapfs/capability"
	"github.com/swapfs/swapfs/facade"
	"github.com/swapfs/swapfs/icon"
	"github.com/swapfs/swapfs/key"
	"github.com/swapfs/swapfs/style"
	"github.com/swapfs/swapfs/util"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(lsCmd)
	lsCmd.Flags().BoolP("all", "a", false, "Show entries starting with a dot")
	lo.Must0(viper.BindPFlag(key.LsShowHidden, lsCmd.Flags().Lookup("all")))

	lsCmd.Flags().StringP("filter", "f", "", "Only show entries fuzzily matching this pattern")
	lsCmd.Flags().BoolP("long", "l", false, "Show sizes")
	lsCmd.Flags().BoolP("json", "j", false, "Print entries as JSON")
}

var lsCmd = &cobra.Command{
	Use:     "ls [path]",
	Short:   "List a directory",
	Aliases: []string{"list"},
	Args:    cobra.MaximumNArgs(1),
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) == 1 {
			dir = args[0]
		}

		seq, err := f.List(ctx, dir)
		if err != nil {
			return err
		}

		var (
			showHidden = viper.GetBool(key.LsShowHidden)
			filter     = lo.Must(cmd.Flags().GetString("filter"))
			entries    []capability.DirEntry
		)

		for entry, err := range seq {
			if err != nil {
				return err
			}

			if !showHidden && strings.HasPrefix(entry.Name, ".") {
				continue
			}

			if filter != "" && !fuzzy.MatchFold(filter, entry.Name) {
				continue
			}

			entries = append(entries, entry)
		}

		slices.SortFunc(entries, func(a, b capability.DirEntry) int {
			if a.IsDirectory != b.IsDirectory {
				if a.IsDirectory {
					return -1
				}
				return 1
			}
			return strings.Compare(a.Name, b.Name)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			if entries == nil {
				entries = []capability.DirEntry{}
			}
			return json.NewEncoder(cmd.OutOrStdout()).Encode(entries)
		}

		long := lo.Must(cmd.Flags().GetBool("long")) && f.Supports(capability.OpSize)
		width := lo.Max(lo.Map(entries, func(e capability.DirEntry, _ int) int {
			return nameWidth(e)
		}))

		for _, entry := range entries {
			line := entryIcon(entry) + " " + styleEntry(entry)

			if long && entry.IsFile {
				size, err := f.Size(ctx, path.Join(dir, entry.Name))
				if err != nil {
					return err
				}

				if n, ok := size.Get(); ok {
					line += strings.Repeat(" ", util.Max(width-nameWidth(entry), 0)+2) + style.Faint(util.HumanSize(n))
				}
			}

			cmd.Println(line)
		}

		return nil
	}),
}

// nameWidth returns the number of terminal cells the styled name occupies.
func nameWidth(e capability.DirEntry) int {
	return lipgloss.Width(styleEntry(e))
}

func entryIcon(e capability.DirEntry) string {
	switch {
	case e.IsSymlink:
		return icon.Get(icon.Symlink)
	case e.IsDirectory:
		return icon.Get(icon.Folder)
	default:
		return icon.Get(icon.File)
	}
}

func styleEntry(e capability.DirEntry) string {
	switch {
	case e.IsSymlink:
		return style.Symlink(e.Name)
	case e.IsDirectory:
		return style.Directory(e.Name + "/")
	default:
		return style.File(e.Name)
	}
}
