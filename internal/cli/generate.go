package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/config"
	"github.com/SmitUplenchwar2687/Rewind/internal/generate"
)

func newGenerateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate sample timelines and config",
		Long: `Generates sample data for testing and experimentation.

Use "generate timeline" to create a synthetic input timeline.
Use "generate config" to create an example config JSON file.`,
	}

	cmd.AddCommand(newGenerateTimelineCmd(a), newGenerateConfigCmd())
	return cmd
}

func newGenerateTimelineCmd(a *app) *cobra.Command {
	var (
		output  string
		format  string
		saveAs  string
		opts    = generate.DefaultOptions()
		storage storageOptions
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Generate a synthetic input timeline",
		Long: `Records a synthetic input session and writes the resulting timeline.

Patterns:
  typing      Keyboard presses and releases
  pointer     Pointer motion with clicks and scrolls
  controller  Stick sweeps and controller button taps
  mixed       A random pattern on every active tick

Every held key or button is released on the last tick, so the timeline
leaves the host in a neutral state.`,
		Example: `  rewind generate timeline --output sample.json
  rewind generate timeline --output pad.cbor --pattern controller --devices 2
  rewind generate timeline --ticks 3600 --seed 42 --save soak --storage sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := codec.FormatFromPath(output)
			if cmd.Flags().Changed("format") {
				parsed, err := codec.ParseFormat(format)
				if err != nil {
					return err
				}
				f = parsed
			}
			if !isPattern(opts.Pattern) {
				a.log.WithField("pattern", opts.Pattern).Warn("unknown pattern, using mixed")
				opts.Pattern = generate.PatternMixed
			}

			tl, err := generate.Timeline(opts)
			if err != nil {
				return err
			}
			data, err := codec.EncodeFormat(tl, f)
			if err != nil {
				return err
			}

			dest := output
			if saveAs != "" {
				store, err := storage.open(cmd, a)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Save(context.Background(), saveAs, data); err != nil {
					return err
				}
				dest = saveAs
			} else if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(err, "writing timeline")
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Generated %d events in %d slots to %s\n", tl.EventCount(), tl.Len(), dest)
			fmt.Fprintf(out, "  Ticks:      %d\n", opts.Ticks)
			fmt.Fprintf(out, "  Pattern:    %s\n", opts.Pattern)
			fmt.Fprintf(out, "  Format:     %s\n", f)
			fmt.Fprintf(out, "  Terminated: %t\n", tl.Terminated)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "timeline.json", "output file path")
	cmd.Flags().StringVar(&format, "format", "", "output format (json, cbor); defaults to the output extension")
	cmd.Flags().StringVar(&saveAs, "save", "", "save into storage under this name instead of writing a file")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", opts.Ticks, "number of host updates to record")
	cmd.Flags().StringVar(&opts.Pattern, "pattern", opts.Pattern, "input pattern ("+strings.Join(generate.Patterns, ", ")+")")
	cmd.Flags().Float64Var(&opts.Activity, "activity", opts.Activity, "fraction of ticks that carry input, in (0, 1]")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (0 = time based)")
	cmd.Flags().BoolVar(&opts.Terminate, "terminate", opts.Terminate, "end the timeline with a host exit")
	cmd.Flags().IntVar(&opts.Devices, "devices", opts.Devices, "number of controllers for the controller pattern")
	storage.addFlags(cmd)

	return cmd
}

func newGenerateConfigCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Generate an example config JSON file",
		Example: `  rewind generate config --output rewind.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = "rewind.json"
			}
			if err := config.WriteExample(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated example config at %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "rewind.json", "output file path")
	return cmd
}

func isPattern(p string) bool {
	for _, known := range generate.Patterns {
		if p == known {
			return true
		}
	}
	return false
}
