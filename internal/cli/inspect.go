package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

type timelineSummary struct {
	Source     string                `json:"source"`
	Format     codec.Format          `json:"format"`
	Bytes      int                   `json:"bytes"`
	Slots      int                   `json:"slots"`
	Events     int                   `json:"events"`
	FirstFrame timeline.FrameIndex   `json:"first_frame"`
	LastFrame  timeline.FrameIndex   `json:"last_frame"`
	Terminated bool                  `json:"terminated"`
	Empty      bool                  `json:"empty"`
	Kinds      map[timeline.Kind]int `json:"kinds"`
}

func summarize(source string, data []byte, tl timeline.Timeline) timelineSummary {
	f, _ := codec.DetectFormat(data)
	first, last, _ := tl.FrameRange()
	return timelineSummary{
		Source:     source,
		Format:     f,
		Bytes:      len(data),
		Slots:      tl.Len(),
		Events:     tl.EventCount(),
		FirstFrame: first,
		LastFrame:  last,
		Terminated: tl.Terminated,
		Empty:      tl.Empty(),
		Kinds:      tl.CountByKind(),
	}
}

func newInspectCmd(a *app) *cobra.Command {
	var (
		src        sourceOptions
		showEvents bool
		outputJSON bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <file|name>",
		Short: "Summarize a recorded timeline",
		Long: `Decodes a timeline and prints its slot and event counts, frame range,
termination flag and per-kind totals. Use --events to list every slot.`,
		Example: `  rewind inspect timelines/boss.json
  rewind inspect boss --stored --storage sqlite
  rewind inspect run.cbor --events
  rewind inspect run.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := src.read(cmd, a, args[0])
			if err != nil {
				return err
			}
			tl, err := codec.Decode(data)
			if err != nil {
				return err
			}
			if err := tl.Lint(); err != nil {
				a.log.WithField("source", args[0]).Warn(err.Error())
			}

			summary := summarize(args[0], data, tl)
			out := cmd.OutOrStdout()
			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(out, summary)
			if showEvents {
				fmt.Fprintln(out)
				for _, s := range tl.Slots {
					for _, ev := range s.Events {
						fmt.Fprintf(out, "  %8d  %s\n", s.Frame, ev)
					}
				}
			}
			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().BoolVar(&showEvents, "events", false, "list every recorded event")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output the summary as JSON")

	return cmd
}

func printSummary(w io.Writer, s timelineSummary) {
	fmt.Fprintf(w, "Timeline %s\n", s.Source)
	fmt.Fprintf(w, "  Format:      %s (%d bytes)\n", s.Format, s.Bytes)
	fmt.Fprintf(w, "  Slots:       %d\n", s.Slots)
	fmt.Fprintf(w, "  Events:      %d\n", s.Events)
	if s.Slots > 0 {
		fmt.Fprintf(w, "  Frames:      %d..%d\n", s.FirstFrame, s.LastFrame)
	}
	fmt.Fprintf(w, "  Terminated:  %t\n", s.Terminated)
	for _, k := range timeline.Kinds {
		if n := s.Kinds[k]; n > 0 {
			fmt.Fprintf(w, "    %-18s %d\n", k, n)
		}
	}
}
