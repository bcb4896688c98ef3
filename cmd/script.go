package cmd

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/swapfs/swapfs/capability"
	"github.com/swapfs/swapfs/constant"
	"github.com/swapfs/swapfs/filesystem"
	"github.com/swapfs/swapfs/icon"
	"github.com/swapfs/swapfs/luafs"
	"github.com/swapfs/swapfs/open"
	"github.com/swapfs/swapfs/style"
	"github.com/swapfs/swapfs/util"
	"github.com/swapfs/swapfs/where"
)

func completionScripts(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(lo.Must(scripts()), func(path string, _ int) string {
		return util.FileStem(path)
	}), cobra.ShellCompDirectiveDefault
}

func completionOps(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Map(capability.Ops(), func(op capability.Op, _ int) string {
		return op.String()
	}), cobra.ShellCompDirectiveNoFileComp
}

// scripts returns the paths of the scripts in where.Scripts.
func scripts() ([]string, error) {
	files, err := filesystem.API().ReadDir(where.Scripts())
	if err != nil {
		return nil, err
	}

	return lo.FilterMap(files, func(file os.FileInfo, _ int) (string, bool) {
		if file.IsDir() || filepath.Ext(file.Name()) != luafs.Extension {
			return "", false
		}
		return filepath.Join(where.Scripts(), file.Name()), true
	}), nil
}

func init() {
	rootCmd.AddCommand(scriptCmd)
}

var scriptCmd = &cobra.Command{
	Use:   "script",
	Short: "Manage Lua backend scripts",
	Long: `Manage Lua backend scripts.
A script defines global functions named after operations. Use it with --script NAME.`,
}

func init() {
	scriptCmd.AddCommand(scriptListCmd)
}

var scriptListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List scripts and the operations they define",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		paths, err := scripts()
		if err != nil {
			return err
		}

		if len(paths) == 0 {
			cmd.Println(style.Faint("No scripts in " + where.Scripts()))
			return nil
		}

		for _, path := range paths {
			b, err := luafs.Load(filesystem.API().Fs, path)
			if err != nil {
				cmd.Printf("%s %s %s\n", icon.Get(icon.Fail), util.FileStem(path), style.Faint(err.Error()))
				continue
			}

			ops := lo.Map(b.Functions(), func(op capability.Op, _ int) string {
				return op.String()
			})
			b.Close()

			cmd.Printf("%s %s %s\n", icon.Get(icon.Script), style.Bold(util.FileStem(path)), style.Faint(strings.Join(ops, ", ")))
		}

		return nil
	},
}

func init() {
	scriptCmd.AddCommand(scriptEditCmd)
	scriptEditCmd.Flags().StringP("with", "w", "", "Application to open the script with")
}

var scriptEditCmd = &cobra.Command{
	Use:               "edit [name]",
	Short:             "Open a script in $EDITOR",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionScripts,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := resolveScript(args[0])
		if exists := lo.Must(filesystem.API().Exists(path)); !exists {
			return fmt.Errorf("no script at %s, create it with \"%s script new %s\"", path, constant.App, args[0])
		}

		if app := lo.Must(cmd.Flags().GetString("with")); app != "" {
			return open.RunWith(path, app)
		}

		return open.Edit(path)
	},
}

func init() {
	scriptCmd.AddCommand(scriptNewCmd)
	scriptNewCmd.Flags().StringP("author", "a", "", "Author of the script")
	scriptNewCmd.Flags().StringSliceP("ops", "o", []string{}, "Operations to stub out, all by default")
	lo.Must0(scriptNewCmd.RegisterFlagCompletionFunc("ops", completionOps))
}

var scriptNewCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Scaffold a Lua backend script",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ops, err := parseOps(lo.Must(cmd.Flags().GetStringSlice("ops")))
		if err != nil {
			return err
		}

		author := lo.Must(cmd.Flags().GetString("author"))
		if author == "" {
			author = "Anonymous"
			if usr, err := user.Current(); err == nil {
				author = usr.Username
			}
		}

		s := struct {
			Name      string
			Author    string
			Functions []string
		}{
			Name:   args[0],
			Author: author,
			Functions: lo.Map(ops, func(op capability.Op, _ int) string {
				return constant.ScriptFunctions[op.String()]
			}),
		}

		tmpl, err := template.New("script").Funcs(template.FuncMap{
			"repeat": strings.Repeat,
			"plus":   func(a, b int) int { return a + b },
			"max":    util.Max[int],
		}).Parse(constant.ScriptTemplate)
		if err != nil {
			return err
		}

		target := filepath.Join(where.Scripts(), util.SanitizeFilename(s.Name)+luafs.Extension)
		if exists := lo.Must(filesystem.API().Exists(target)); exists {
			return fmt.Errorf("script %s already exists", target)
		}

		f, err := filesystem.API().Create(target)
		if err != nil {
			return err
		}
		defer util.Ignore(f.Close)

		if err := tmpl.Execute(f, s); err != nil {
			return err
		}

		cmd.Println(target)
		return nil
	},
}

func parseOps(names []string) ([]capability.Op, error) {
	if len(names) == 0 {
		return capability.Ops(), nil
	}

	ops := make([]capability.Op, 0, len(names))
	for _, name := range names {
		op, ok := capability.Parse(name)
		if !ok {
			return nil, fmt.Errorf("unknown operation %q", name)
		}
		ops = append(ops, op)
	}

	return lo.Uniq(ops), nil
}
