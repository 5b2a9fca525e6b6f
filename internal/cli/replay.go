package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Rewind/internal/codec"
	"github.com/SmitUplenchwar2687/Rewind/internal/host"
	"github.com/SmitUplenchwar2687/Rewind/internal/playback"
	"github.com/SmitUplenchwar2687/Rewind/internal/timeline"
)

type replayInjection struct {
	Frame timeline.FrameIndex `json:"frame"`
	Event codec.Event         `json:"event"`
	text  string
}

type replaySummary struct {
	Slots      int                  `json:"slots"`
	Events     int                  `json:"events"`
	Ticks      int                  `json:"ticks"`
	StartFrame timeline.FrameIndex  `json:"start_frame"`
	Emitted    int                  `json:"emitted"`
	Finished   bool                 `json:"finished"`
	ExitFrame  *timeline.FrameIndex `json:"exit_frame,omitempty"`
}

type replayResult struct {
	Injections []replayInjection `json:"injections"`
	Summary    replaySummary     `json:"summary"`
}

// maxDryRunTicks bounds a dry run: about three days of updates at 60Hz.
const maxDryRunTicks = 1 << 24

// dryRun plays tl into a synthetic host whose clock starts at start and
// records what the host receives. maxTicks <= 0 runs one tick past the
// last recorded frame.
func dryRun(tl timeline.Timeline, start timeline.FrameIndex, maxTicks int, log logrus.FieldLogger) (replayResult, error) {
	if maxTicks > maxDryRunTicks {
		return replayResult{}, errors.Errorf("--max-ticks %d exceeds the dry-run limit of %d", maxTicks, maxDryRunTicks)
	}
	if maxTicks <= 0 {
		last := tl.LastFrame()
		if last > maxDryRunTicks-2 {
			return replayResult{}, errors.Errorf("last frame %d is beyond the dry-run limit of %d ticks, pass --max-ticks to replay a prefix", last, maxDryRunTicks)
		}
		maxTicks = int(last) + 2
	}

	h := host.NewSynthetic(start)
	p := playback.New(h, h, h, playback.WithLogger(log))
	if err := p.LoadTimeline(tl); err != nil {
		return replayResult{}, err
	}
	if err := p.Start(); err != nil {
		return replayResult{}, err
	}

	ticks := 0
	for ticks < maxTicks && p.State() != playback.StateFinished {
		p.Tick()
		h.Step()
		ticks++
	}

	res := replayResult{
		Injections: make([]replayInjection, 0, p.Emitted()),
		Summary: replaySummary{
			Slots:      tl.Len(),
			Events:     tl.EventCount(),
			Ticks:      ticks,
			StartFrame: start,
			Emitted:    p.Emitted(),
			Finished:   p.State() == playback.StateFinished,
		},
	}
	for _, inj := range h.Injected() {
		we, err := codec.EventFromInput(inj.Event)
		if err != nil {
			return replayResult{}, errors.Wrapf(err, "frame %d", inj.Frame)
		}
		res.Injections = append(res.Injections, replayInjection{Frame: inj.Frame, Event: we, text: fmt.Sprint(inj.Event)})
	}
	if exits := h.ExitRequests(); len(exits) > 0 {
		f := exits[0]
		res.Summary.ExitFrame = &f
	}
	return res, nil
}

func newReplayCmd(a *app) *cobra.Command {
	var (
		src        sourceOptions
		start      uint64
		maxTicks   int
		outputJSON bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "replay <file|name>",
		Short: "Dry-run a timeline against a simulated host",
		Long: `Replays a timeline into an in-memory host and reports every injected
event with the host frame it arrived on.

The simulated host clock starts at --start, so the output shows how the
same timeline lines up when playback begins at an arbitrary frame.
Without --max-ticks the run stops one tick after the last recorded frame.`,
		Example: `  rewind replay timelines/boss.json
  rewind replay boss --stored --start 1000
  rewind replay run.cbor --json
  rewind replay run.json --max-ticks 30 --quiet`,
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

			res, err := dryRun(tl, timeline.FrameIndex(start), maxTicks, a.log)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if outputJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}

			fmt.Fprintf(out, "Replaying %s from host frame %d...\n\n", args[0], start)
			if !quiet {
				for _, inj := range res.Injections {
					fmt.Fprintf(out, "  frame %8d  %s\n", inj.Frame, inj.text)
				}
			}
			printReplaySummary(out, res.Summary)
			return nil
		},
	}

	src.addFlags(cmd)
	cmd.Flags().Uint64Var(&start, "start", 0, "host frame at which playback starts")
	cmd.Flags().IntVar(&maxTicks, "max-ticks", 0, "stop after this many ticks (0 = one past the last frame)")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "output injections and summary as JSON")
	cmd.Flags().BoolVar(&quiet, "quiet", false, "print only the summary")

	return cmd
}

func printReplaySummary(w io.Writer, s replaySummary) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Replay Summary ---")
	fmt.Fprintf(w, "  Slots:        %d\n", s.Slots)
	fmt.Fprintf(w, "  Events:       %d\n", s.Events)
	fmt.Fprintf(w, "  Emitted:      %d\n", s.Emitted)
	fmt.Fprintf(w, "  Ticks:        %d\n", s.Ticks)
	if s.ExitFrame != nil {
		fmt.Fprintf(w, "  Exit frame:   %d\n", *s.ExitFrame)
	}
	fmt.Fprintf(w, "  Finished:     %t\n", s.Finished)
}
