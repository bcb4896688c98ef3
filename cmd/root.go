// Package cmd implements the command-line interface of swapfs.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/swapfs/swapfs/color"
	"github.com/swapfs/swapfs/constant"
	"github.com/swapfs/swapfs/icon"
	"github.com/swapfs/swapfs/key"
	"github.com/swapfs/swapfs/log"
	"github.com/swapfs/swapfs/style"
	"github.com/swapfs/swapfs/util"
	"github.com/swapfs/swapfs/where"
)

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Icon variant (emoji, kaomoji, plain, squares, nerd)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().Bool("mem", false, "Run on an empty in-memory filesystem")

	rootCmd.PersistentFlags().String("root", "", "Confine every path to a directory")
	lo.Must0(viper.BindPFlag(key.BackendRoot, rootCmd.PersistentFlags().Lookup("root")))

	rootCmd.PersistentFlags().Bool("read-only", false, "Reject every modification")
	lo.Must0(viper.BindPFlag(key.BackendReadOnly, rootCmd.PersistentFlags().Lookup("read-only")))

	rootCmd.PersistentFlags().Bool("dry-run", false, "Keep modifications in memory")
	lo.Must0(viper.BindPFlag(key.BackendDryRun, rootCmd.PersistentFlags().Lookup("dry-run")))

	rootCmd.PersistentFlags().StringP("script", "s", "", "Lua script implementing the backend")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("script", completionScripts))
	lo.Must0(viper.BindPFlag(key.BackendScript, rootCmd.PersistentFlags().Lookup("script")))

	rootCmd.PersistentFlags().StringP("record", "R", "", "Record every call into the journal under this name")
	lo.Must0(viper.BindPFlag(key.JournalRecord, rootCmd.PersistentFlags().Lookup("record")))

	go func() {
		_ = util.Delete(where.Temp())
	}()
}

var rootCmd = &cobra.Command{
	Use:           constant.App,
	Short:         "Filesystem operations through a swappable backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: style.New().Bold(true).Foreground(color.HiPurple).Render(constant.App) + "\n" +
		style.New().Italic(true).Foreground(color.HiBlue).Render("    - Filesystem operations through a swappable, recordable backend"),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("version") {
			return versionCmd.RunE(versionCmd, args)
		}

		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		handleErr(err)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
