package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subtity/internal/media"
	"github.com/mgpai22/subtity/internal/player"
	"github.com/mgpai22/subtity/internal/subtitle"
)

// accepts clock notation (1:02.5, 00:01:02,500) or plain seconds
func parseClock(text string) (float64, error) {
	if strings.Contains(text, ":") {
		return subtitle.ParseTimestamp(text)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", subtitle.ErrMalformedTimestamp, text)
	}
	return v, nil
}

func newExportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the active document in another format",
		Long: `Write the active document as srt, webvtt, ssa, lrc or subti.

Examples:
  subtity export --format webvtt -o movie.vtt
  subtity export --format lrc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			outputPath, _ := cmd.Flags().GetString("output")

			text, err := a.store.Export(format)
			if err != nil {
				return err
			}

			if outputPath == "" {
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			}
			if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			a.logger.Infow("Exported document", "format", format, "output", outputPath)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "srt", "Output format (srt, webvtt, ssa, lrc, subti)")
	cmd.Flags().StringP("output", "o", "", "Output file path (default: stdout)")
	return cmd
}

func newCueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cue [time]",
		Short: "Print the lines visible at a playback time",
		Long: `Print the lines of the active document visible at a playback time.
The session offset and speed are applied.

Examples:
  subtity cue 62.5
  subtity cue 1:02.5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := parseClock(args[0])
			if err != nil {
				return err
			}
			if _, err := a.current(); err != nil {
				return err
			}

			a.store.SetUp(player.ModeContainer, nil)
			lines, ok := a.store.Update(at)
			if !ok {
				return fmt.Errorf("subtitles are switched off, run `subtity toggle on`")
			}
			for _, line := range lines {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

// clock advancing with wall time from a start position
type wallClock struct {
	started time.Time
	from    float64
	source  string
}

func (c *wallClock) CurrentTime() float64 {
	return c.from + time.Since(c.started).Seconds()
}

func (c *wallClock) SourceRef() string {
	return c.source
}

func newPlayCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the active document in the terminal",
		Long: `Play the active document in real time, printing each cue as it
becomes visible. Stops at --to, which defaults to the duration of the
movie file when it can be probed and to the end of the last cue otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromStr, _ := cmd.Flags().GetString("from")
			toStr, _ := cmd.Flags().GetString("to")
			tick, _ := cmd.Flags().GetFloat64("tick")
			width, _ := cmd.Flags().GetInt("width")

			doc, err := a.current()
			if err != nil {
				return err
			}

			from, err := parseClock(fromStr)
			if err != nil {
				return err
			}
			to := 0.0
			if toStr != "" {
				if to, err = parseClock(toStr); err != nil {
					return err
				}
			} else {
				to = a.playbackEnd(cmd.Context(), doc)
			}
			if to <= from {
				return fmt.Errorf("nothing to play between %v and %v", from, to)
			}
			if !cmd.Flags().Changed("tick") {
				tick = a.cfg.Playback.Tick
			}
			if tick <= 0 {
				return fmt.Errorf("tick must be positive, got %v", tick)
			}

			a.store.SetUp(player.ModeContainer, newTerminalRenderer(cmd.OutOrStdout(), width))
			clock := &wallClock{started: time.Now(), from: from, source: doc.MovieRef}

			a.logger.Debugw("Playing",
				"title", doc.Title,
				"from", from,
				"to", to,
				"tick", tick,
			)
			return play(cmd.Context(), a.store, clock, to, time.Duration(tick*float64(time.Second)))
		},
	}

	cmd.Flags().String("from", "0", "Start position (seconds or H:MM:SS.ff)")
	cmd.Flags().String("to", "", "Stop position (default: movie duration or last cue)")
	cmd.Flags().Float64("tick", 0.25, "Seconds between updates")
	cmd.Flags().Int("width", 60, "Render width in columns")
	return cmd
}

func play(ctx context.Context, store *player.Store, clock player.Clock, to float64, tick time.Duration) error {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		store.Tick(clock)
		if clock.CurrentTime() >= to {
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// movie duration, else the last finite cue end
func (a *app) playbackEnd(ctx context.Context, doc *subtitle.Document) float64 {
	if doc.MovieRef != "" && media.IsMediaFile(doc.MovieRef) {
		d, err := media.Duration(ctx, doc.MovieRef)
		if err == nil {
			return d
		}
		a.logger.Debugw("could not probe movie duration", "movie", doc.MovieRef, "error", err)
	}

	end := 0.0
	for _, c := range doc.Cues {
		switch {
		case !math.IsInf(c.End, 1) && c.End > end:
			end = c.End
		case math.IsInf(c.End, 1) && c.Start+5 > end:
			end = c.Start + 5
		}
	}
	return end
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "toggle [on|off]",
		Short:     "Switch subtitle display on or off",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			var on bool
			if len(args) == 0 {
				on = a.store.ToggleActivation()
			} else {
				switch args[0] {
				case "on":
					on = true
				case "off":
					on = false
				default:
					return fmt.Errorf("expected on or off, got %q", args[0])
				}
				a.store.SetActivated(on)
			}

			state := "off"
			if on {
				state = "on"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subtitles %s\n", state)
			return nil
		},
	}
}
