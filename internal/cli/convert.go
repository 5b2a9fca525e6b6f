package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		src  sourceOptions
		to   string
		save bool
	)

	cmd := &cobra.Command{
		Use:   "convert <in> <out>",
		Short: "Re-encode a timeline as JSON or CBOR",
		Long: `Decodes a timeline in either encoding and writes it back out.

The output format comes from --to, or from the output file extension
(.cbor for CBOR, anything else JSON). With --save the output argument is
a timeline name in storage instead of a file path.`,
		Example: `  rewind convert run.json run.cbor
  rewind convert run.cbor run.json
  rewind convert boss boss-compact --stored --save --to cbor`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, outPath := args[0], args[1]

			format := codec.FormatFromPath(outPath)
			if cmd.Flags().Changed("to") {
				f, err := codec.ParseFormat(to)
				if err != nil {
					return err
				}
				format = f
			}

			data, err := src.read(cmd, a, in)
			if err != nil {
				return err
			}
			tl, err := codec.Decode(data)
			if err != nil {
				return err
			}
			encoded, err := codec.EncodeFormat(tl, format)
			if err != nil {
				return err
			}

			if save {
				store, err := src.storage.open(cmd, a)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.Save(context.Background(), outPath, encoded); err != nil {
					return err
				}
			} else if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
				return errors.Wrap(err, "writing timeline")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Converted %s to %s (%s, %d -> %d bytes, %d slots)\n",
				in, outPath, format, len(data), len(encoded), tl.Len())
			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringVar(&to, "to", "", "output format (json, cbor); defaults to the output extension")
	cmd.Flags().BoolVar(&save, "save", false, "save the output into storage under the given name")

	return cmd
}
