package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/swapfs/swapfs/color"
	"github.com/swapfs/swapfs/config"
	"github.com/swapfs/swapfs/constant"
	"github.com/swapfs/swapfs/filesystem"
	"github.com/swapfs/swapfs/icon"
	"github.com/swapfs/swapfs/key"
	"github.com/swapfs/swapfs/style"
	"github.com/swapfs/swapfs/util"
	"github.com/swapfs/swapfs/where"
)

func errUnknownKey(key string) error {
	closest := lo.MinBy(lo.Keys(config.Default), func(a string, b string) bool {
		return levenshtein.Distance(key, a) < levenshtein.Distance(key, b)
	})

	return fmt.Errorf(
		"unknown key %s, did you mean %s?",
		style.Fg(color.Red)(key),
		style.Fg(color.Yellow)(closest),
	)
}

func completionConfigKeys(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return lo.Keys(config.Default), cobra.ShellCompDirectiveNoFileComp
}

func configFilePath() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

// configValidators check values before config set persists them.
// Empty strings are accepted where they mean "unset".
var configValidators = map[string]func(value any) error{
	key.BackendDefault: func(value any) error {
		switch value {
		case backendOS, backendMem:
			return nil
		}
		return fmt.Errorf("invalid backend %q, expected %s or %s", value, backendOS, backendMem)
	},
	key.BackendRoot: func(value any) error {
		root := value.(string)
		if root == "" {
			return nil
		}

		if isDir, err := filesystem.API().IsDir(root); err != nil || !isDir {
			return fmt.Errorf("root %s is not a directory", root)
		}
		return nil
	},
	key.BackendScript: func(value any) error {
		script := value.(string)
		if script == "" {
			return nil
		}

		path := resolveScript(script)
		if exists := lo.Must(filesystem.API().Exists(path)); !exists {
			return fmt.Errorf("no script at %s, create it with \"%s script new %s\"", path, constant.App, script)
		}
		return nil
	},
	key.JournalLifetime: func(value any) error {
		if _, err := time.ParseDuration(value.(string)); err != nil {
			return fmt.Errorf("invalid lifetime: %w", err)
		}
		return nil
	},
	key.IconsVariant: func(value any) error {
		if !lo.Contains(icon.AvailableVariants(), value.(string)) {
			return fmt.Errorf("invalid icons variant %q, available: %v", value, icon.AvailableVariants())
		}
		return nil
	},
	key.LogsLevel: func(value any) error {
		_, err := logrus.ParseLevel(value.(string))
		return err
	},
}

// parseConfigValue converts raw to the type of the default value of field.
func parseConfigValue(field config.Field, raw []string) (any, error) {
	switch field.Value.(type) {
	case string:
		return raw[0], nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid integer value: %s", raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value: %s", raw[0])
		}
		return b, nil
	case []string:
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported type %T of %s", field.Value, field.Key)
	}
}

// writeConfig persists viper's settings, creating the config file if needed.
func writeConfig() error {
	err := viper.WriteConfig()
	if errors.As(err, new(viper.ConfigFileNotFoundError)) {
		return viper.SafeWriteConfig()
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage configuration.
Backend keys select the implementation every filesystem command swaps in.`,
}

func init() {
	configCmd.AddCommand(configInfoCmd)
	configInfoCmd.Flags().StringSliceP("key", "k", []string{}, "Only show these keys")
	configInfoCmd.Flags().BoolP("json", "j", false, "Print as JSON")
	lo.Must0(configInfoCmd.RegisterFlagCompletionFunc("key", completionConfigKeys))
}

var configInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show descriptions and values of configuration fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		fields := lo.Values(config.Default)

		if keys := lo.Must(cmd.Flags().GetStringSlice("key")); len(keys) > 0 {
			fields = make([]config.Field, 0, len(keys))
			for _, k := range keys {
				field, ok := config.Default[k]
				if !ok {
					return errUnknownKey(k)
				}
				fields = append(fields, field)
			}
		}

		sort.Slice(fields, func(i, j int) bool {
			return fields[i].Key < fields[j].Key
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(lo.ToSlicePtr(fields))
		}

		for i, field := range fields {
			cmd.Print(field.Pretty())

			if i < len(fields)-1 {
				cmd.Print("\n\n")
			}
		}
		cmd.Println()

		return nil
	},
}

func init() {
	configCmd.AddCommand(configSetCmd)
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value...]",
	Short: "Set a configuration value",
	Long: `Set a configuration value.
Backend keys are checked first: backend.default must be os or mem,
backend.root an existing directory and backend.script a script that resolves.`,
	Example:           "  swapfs config set backend.default mem\n  swapfs config set backend.script archive",
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: completionConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		k := args[0]
		field, ok := config.Default[k]
		if !ok {
			return errUnknownKey(k)
		}

		value, err := parseConfigValue(field, args[1:])
		if err != nil {
			return err
		}

		if validate, ok := configValidators[k]; ok {
			if err := validate(value); err != nil {
				return err
			}
		}

		viper.Set(k, value)
		if err := writeConfig(); err != nil {
			return err
		}

		success(cmd, "set %s to %s", style.Fg(color.Purple)(k), style.Fg(color.Yellow)(fmt.Sprint(value)))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
}

var configGetCmd = &cobra.Command{
	Use:               "get [key]",
	Short:             "Print a configuration value",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := config.Default[args[0]]; !ok {
			return errUnknownKey(args[0])
		}

		cmd.Println(viper.Get(args[0]))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configWriteCmd)
	configWriteCmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current configuration to the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := configFilePath()

		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
		}

		if err := viper.SafeWriteConfig(); err != nil {
			return err
		}

		success(cmd, "wrote config to %s", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configDeleteCmd)
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Short:   "Delete the config file",
	Aliases: []string{"remove"},
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := filesystem.API().Remove(configFilePath()); err != nil {
			return err
		}

		success(cmd, "deleted config")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configResetCmd)
	configResetCmd.Flags().BoolP("all", "a", false, "Reset every key")
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key...]",
	Short:             "Reset configuration values to their defaults",
	ValidArgsFunction: completionConfigKeys,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := args
		if lo.Must(cmd.Flags().GetBool("all")) {
			keys = lo.Keys(config.Default)
		} else if len(keys) == 0 {
			return errors.New("either a key or --all must be given")
		}

		for _, k := range keys {
			field, ok := config.Default[k]
			if !ok {
				return errUnknownKey(k)
			}
			viper.Set(k, field.Value)
		}

		if err := writeConfig(); err != nil {
			return err
		}

		success(cmd, "reset %s to defaults", util.Quantify(len(keys), "key", "keys"))
		return nil
	},
}
