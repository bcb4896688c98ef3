package cmd

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/swapfs/swapfs/color"
	"github.com/swapfs/swapfs/facade"
	"github.com/swapfs/swapfs/style"
	"github.com/swapfs/swapfs/util"
)

func errNotFound(path string) error {
	return &fs.PathError{Op: "read", Path: path, Err: fs.ErrNotExist}
}

func init() {
	rootCmd.AddCommand(catCmd)
}

var catCmd = &cobra.Command{
	Use:     "cat [path...]",
	Short:   "Print files as text",
	Args:    cobra.MinimumNArgs(1),
	Example: "  swapfs cat notes.txt\n  swapfs --script archive cat /index",
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		for _, path := range args {
			text, err := f.Text(ctx, path)
			if err != nil {
				return err
			}

			content, ok := text.Get()
			if !ok {
				return errNotFound(path)
			}

			cmd.Print(content)
		}

		return nil
	}),
}

func init() {
	rootCmd.AddCommand(jsonCmd)
	jsonCmd.Flags().BoolP("compact", "c", false, "Print on a single line")
}

var jsonCmd = &cobra.Command{
	Use:   "json [path]",
	Short: "Parse a file as JSON and print it",
	Args:  cobra.ExactArgs(1),
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		doc, err := f.JSON(ctx, args[0])
		if err != nil {
			return err
		}

		value, ok := doc.Get()
		if !ok {
			return errNotFound(args[0])
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		if !lo.Must(cmd.Flags().GetBool("compact")) {
			encoder.SetIndent("", "  ")
		}

		return encoder.Encode(value)
	}),
}

func init() {
	rootCmd.AddCommand(bytesCmd)
	bytesCmd.Flags().BoolP("hex", "x", false, "Print a hex dump")
	bytesCmd.Flags().Bool("array-buffer", false, "Read through the deprecated arrayBuffer operation")
	lo.Must0(bytesCmd.Flags().MarkHidden("array-buffer"))
}

var bytesCmd = &cobra.Command{
	Use:   "bytes [path]",
	Short: "Print the raw bytes of a file",
	Args:  cobra.ExactArgs(1),
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		read := f.Bytes
		if lo.Must(cmd.Flags().GetBool("array-buffer")) {
			read = f.ArrayBuffer
		}

		raw, err := read(ctx, args[0])
		if err != nil {
			return err
		}

		data, ok := raw.Get()
		if !ok {
			return errNotFound(args[0])
		}

		if lo.Must(cmd.Flags().GetBool("hex")) {
			cmd.Print(hex.Dump(data))
			return nil
		}

		_, err = cmd.OutOrStdout().Write(data)
		return err
	}),
}

func init() {
	rootCmd.AddCommand(statCmd)
	statCmd.Flags().BoolP("json", "j", false, "Print as JSON")
}

type statOutput struct {
	Path        string `json:"path"`
	Exists      bool   `json:"exists"`
	IsFile      bool   `json:"isFile"`
	IsDirectory bool   `json:"isDirectory"`
	Size        *int64 `json:"size,omitempty"`
}

var statCmd = &cobra.Command{
	Use:   "stat [path]",
	Short: "Show what a path is and how large it is",
	Long: `Show what a path is and how large it is.
Operations the backend does not support are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: withFacade(func(ctx context.Context, f *facade.Facade, cmd *cobra.Command, args []string) error {
		out := statOutput{Path: args[0]}

		var err error
		if out.IsFile, err = optional(f.IsFile(ctx, args[0])); err != nil {
			return err
		}

		if out.IsDirectory, err = optional(f.IsDirectory(ctx, args[0])); err != nil {
			return err
		}

		size, err := f.Size(ctx, args[0])
		if err != nil && !errors.Is(err, facade.ErrNoSuchMethod) {
			return err
		}

		if n, ok := size.Get(); ok {
			out.Size = &n
		}

		out.Exists = out.IsFile || out.IsDirectory || out.Size != nil

		if lo.Must(cmd.Flags().GetBool("json")) {
			return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
		}

		cmd.Printf("%s %s\n", style.Fg(color.Blue)("Path:"), out.Path)
		cmd.Printf("%s %s\n", style.Fg(color.Blue)("Type:"), describeStat(out))
		if out.Size != nil {
			cmd.Printf("%s %s\n", style.Fg(color.Blue)("Size:"), util.HumanSize(*out.Size))
		}

		return nil
	}),
}

// optional treats an unsupported check as false.
func optional(ok bool, err error) (bool, error) {
	if errors.Is(err, facade.ErrNoSuchMethod) {
		return false, nil
	}
	return ok, err
}

func describeStat(s statOutput) string {
	switch {
	case s.IsDirectory:
		return style.Directory("directory")
	case s.IsFile:
		return style.File("file")
	case s.Exists:
		return style.Faint("exists")
	default:
		return style.Fg(color.Red)("missing")
	}
}
