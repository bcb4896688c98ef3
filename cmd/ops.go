package cmd

import (
	"context"
	"encoding/json"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/swapfs/swapfs/capability"
	"github.com/swapfs/swapfs/color"
	"github.com/swapfs/swapfs/facade"
	"github.com/swapfs/swapfs/icon"
	"github.com/swapfs/swapfs/style"
)

func init() {
	rootCmd.AddCommand(opsCmd)
	opsCmd.Flags().BoolP("json", "j", false, "Print supported operations as JSON")
	opsCmd.Flags().BoolP("supported", "S", false, "Only show supported operations")
}

var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "Show which operations the backend supports",
	Example: "  swapfs ops\n" +
		"  swapfs --script archive ops --supported",
	Args: cobra.NoArgs,
	RunE: withFacade(func(_ context.Context, f *facade.Facade, cmd *cobra.Command, _ []string) error {
		supported := f.Supported()

		if lo.Must(cmd.Flags().GetBool("json")) {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(supported)
		}

		onlySupported := lo.Must(cmd.Flags().GetBool("supported"))
		for _, op := range capability.Ops() {
			ok := lo.Contains(supported, op)
			if !ok && onlySupported {
				continue
			}

			if ok {
				cmd.Println(style.Fg(color.Green)(icon.Get(icon.Mark)) + " " + style.Op(op.String()))
			} else {
				cmd.Println(style.Fg(color.Red)(icon.Get(icon.Cross)) + " " + style.Faint(op.String()))
			}
		}

		return nil
	}),
}
