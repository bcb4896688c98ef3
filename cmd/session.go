package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/swapfs/swapfs/facade"
	"github.com/swapfs/swapfs/filesystem"
	"github.com/swapfs/swapfs/journal"
	"github.com/swapfs/swapfs/key"
	"github.com/swapfs/swapfs/log"
	"github.com/swapfs/swapfs/luafs"
	"github.com/swapfs/swapfs/where"
)

// Backend names accepted by backend.default.
const (
	backendOS  = "os"
	backendMem = "mem"
)

// facadeRunner is the body of a command operating through the facade.
type facadeRunner func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error

// withFacade wraps a command body with the backend swap and call recording
// requested by flags and configuration.
//
// The swap happens once, before the body. When recording, the log starts
// before the swap, so the journal shows setImpl and resetImpl around the
// calls, and is saved even when the body fails.
func withFacade(run facadeRunner) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		variant, err := variantFromConfig(cmd)
		if err != nil {
			return err
		}

		f := filesystem.Facade()

		record := viper.GetString(key.JournalRecord)
		if record != "" {
			if err := f.LogStart(record); err != nil {
				return err
			}

			defer func() {
				err = errors.Join(err, saveRecording(f, record, variant))
			}()
		}

		release, err := filesystem.Swap(variant)
		if err != nil {
			return err
		}
		defer release()

		log.Debugf("running %s on %+v", cmd.Name(), variant)

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}

		ctx, stop := signal.NotifyContext(parent, os.Interrupt)
		defer stop()

		return run(ctx, f, cmd, args)
	}
}

func saveRecording(f *facade.Facade, name string, variant filesystem.Variant) error {
	records, err := f.LogEnd(name)
	if err != nil {
		return err
	}

	if err := journal.Save(name, describeVariant(variant), records); err != nil {
		return fmt.Errorf("save journal: %w", err)
	}

	log.Infof("recorded %d calls as %s", len(records), name)
	return nil
}

func variantFromConfig(cmd *cobra.Command) (filesystem.Variant, error) {
	mem := lo.Must(cmd.Flags().GetBool("mem"))

	switch backend := viper.GetString(key.BackendDefault); backend {
	case backendOS:
	case backendMem:
		mem = true
	default:
		return filesystem.Variant{}, fmt.Errorf("unknown backend %q, expected %s or %s", backend, backendOS, backendMem)
	}

	return filesystem.Variant{
		Memory:   mem,
		Root:     viper.GetString(key.BackendRoot),
		ReadOnly: viper.GetBool(key.BackendReadOnly),
		DryRun:   viper.GetBool(key.BackendDryRun),
		Script:   resolveScript(viper.GetString(key.BackendScript)),
	}, nil
}

// resolveScript looks a bare script name up in the scripts directory.
func resolveScript(script string) string {
	if script == "" || strings.ContainsRune(script, filepath.Separator) {
		return script
	}

	if !strings.HasSuffix(script, luafs.Extension) {
		script += luafs.Extension
	}

	if exists, _ := filesystem.API().Exists(script); exists {
		return script
	}

	return filepath.Join(where.Scripts(), script)
}

func describeVariant(v filesystem.Variant) string {
	if v.IsZero() {
		return backendOS
	}

	if v.Script != "" {
		return "script " + v.Script
	}

	var parts []string
	if v.Memory {
		parts = append(parts, backendMem)
	}
	if v.Root != "" {
		parts = append(parts, "root "+v.Root)
	}
	if v.ReadOnly {
		parts = append(parts, "read-only")
	}
	if v.DryRun {
		parts = append(parts, "dry-run")
	}

	return strings.Join(parts, ", ")
}
