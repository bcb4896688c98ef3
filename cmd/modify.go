package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/swapfs/swapfs/color"
	"github.com/swapfs/swapfs/facade"
	"github.com/swapfs/swapfs/icon"
	"github.com/swapfs/swapfs/key"
	"github.com/swapfs/swapfs/style"
	"github.com/swapfs/swapfs/util"
)

func success(cmd *cobra.Command, format string, args ...any) {
	cmd.Printf("%s %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), fmt.Sprintf(format, args...))
}

func init() {
	rootCmd.AddCommand(writeCmd)
}

var writeCmd = &cobra.Command{
	Use:   "write [path] [content]",
	Short: "Write content to a file",
	Long: `Write content to a file, creating parent directories.
Reads the content from standard input when it is not given.`,
	Args:    cobra.RangeArgs(1, 2),
	Example: "  swapfs write notes.txt 'hello'\n  echo hello | swapfs --dry-run write notes.txt",
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		var data []byte
		if len(args) == 2 {
			data = []byte(args[1])
		} else {
			var err error
			if data, err = io.ReadAll(cmd.InOrStdin()); err != nil {
				return err
			}
		}

		if err := f.Write(ctx, args[0], data); err != nil {
			return err
		}

		success(cmd, "wrote %s to %s", util.HumanSize(int64(len(data))), style.Fg(color.Purple)(args[0]))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(mkdirCmd)
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir [path...]",
	Short: "Create directories and their parents",
	Args:  cobra.MinimumNArgs(1),
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		for _, path := range args {
			if err := f.CreateDirectory(ctx, path); err != nil {
				return err
			}
		}

		success(cmd, "created %s", util.Quantify(len(args), "directory", "directories"))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(rmCmd)
	rmCmd.Flags().BoolP("recursive", "r", false, "Delete directories and their contents")
	rmCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

var rmCmd = &cobra.Command{
	Use:     "rm [path...]",
	Short:   "Delete files or directories",
	Aliases: []string{"delete"},
	Args:    cobra.MinimumNArgs(1),
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		recursive := lo.Must(cmd.Flags().GetBool("recursive"))

		if recursive && confirmRequired(cmd) {
			var confirmed bool
			err := survey.AskOne(&survey.Confirm{
				Message: fmt.Sprintf("Delete %s recursively?", util.Quantify(len(args), "path", "paths")),
				Default: false,
			}, &confirmed)
			if err != nil {
				return err
			}

			if !confirmed {
				return nil
			}
		}

		for _, path := range args {
			var err error
			if recursive {
				err = f.DeleteAll(ctx, path)
			} else {
				err = f.Delete(ctx, path)
			}

			if err != nil {
				return err
			}
		}

		success(cmd, "deleted %s", util.Quantify(len(args), "path", "paths"))
		return nil
	}),
}

// confirmRequired reports whether rm should ask before deleting.
// --yes skips the prompt; otherwise rm.confirm decides.
func confirmRequired(cmd *cobra.Command) bool {
	if cmd.Flags().Changed("yes") {
		return !lo.Must(cmd.Flags().GetBool("yes"))
	}
	return viper.GetBool(key.RmConfirm)
}

func init() {
	rootCmd.AddCommand(cpCmd)
	cpCmd.Flags().BoolP("recursive", "r", false, "Copy directories and their contents")
}

var cpCmd = &cobra.Command{
	Use:     "cp [src] [dst]",
	Short:   "Copy a file or a directory tree",
	Aliases: []string{"copy"},
	Args:    cobra.ExactArgs(2),
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		var err error
		if lo.Must(cmd.Flags().GetBool("recursive")) {
			err = f.CopyAll(ctx, args[0], args[1])
		} else {
			err = f.Copy(ctx, args[0], args[1])
		}

		if err != nil {
			return err
		}

		success(cmd, "copied %s to %s", style.Fg(color.Purple)(args[0]), style.Fg(color.Purple)(args[1]))
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(mvCmd)
}

var mvCmd = &cobra.Command{
	Use:     "mv [src] [dst]",
	Short:   "Move a file",
	Aliases: []string{"move"},
	Args:    cobra.ExactArgs(2),
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		if err := f.Move(ctx, args[0], args[1]); err != nil {
			return err
		}

		success(cmd, "moved %s to %s", style.Fg(color.Purple)(args[0]), style.Fg(color.Purple)(args[1]))
		return nil
	}),
}
