package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/mgpai22/subtity/internal/subtitle"
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add [subtitle_file]",
		Short: "Parse a subtitle file and add it to the library",
		Long: `Parse a subtitle file and add it to the library under a unique title.

The format is taken from the file extension unless --format is given.

Examples:
  subtity add movie.srt
  subtity add lyrics.txt --format lrc --title "Song" --movie song.mp3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			title, _ := cmd.Flags().GetString("title")
			formatStr, _ := cmd.Flags().GetString("format")
			movie, _ := cmd.Flags().GetString("movie")

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read subtitle file: %w", err)
			}

			if formatStr == "" {
				formatStr = filepath.Ext(path)
			}
			format, ok := subtitle.NormalizeFormat(formatStr)
			if !ok {
				return fmt.Errorf("%w: %q", subtitle.ErrUnrecognizedFormat, formatStr)
			}
			if title == "" {
				title = filepath.Base(path)
			}

			doc, err := a.addDocument(cmd.Context(), title, string(data), format, movie)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s, %d cues)\n", doc.Title, doc.Format, doc.Count)
			return nil
		},
	}

	cmd.Flags().String("title", "", "Document title (default: file name)")
	cmd.Flags().StringP("format", "f", "", "Subtitle format (default: from extension)")
	cmd.Flags().String("movie", "", "Media file the subtitles belong to")
	return cmd
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List documents in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := a.store.Documents()
			out := cmd.OutOrStdout()
			if len(docs) == 0 {
				fmt.Fprintln(out, "No documents. Add one with `subtity add FILE`.")
				return nil
			}

			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("  %-30s %-7s %5s  %s", "TITLE", "FORMAT", "CUES", "MOVIE")))
			for _, doc := range docs {
				line := fmt.Sprintf("%-30s %-7s %5d  %s", doc.Title, doc.Format, doc.Count, doc.MovieRef)
				if doc.Active {
					fmt.Fprintln(out, activeStyle.Render("* "+line))
				} else {
					fmt.Fprintln(out, "  "+line)
				}
			}
			return nil
		},
	}
}

func newUseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use [title]",
		Short: "Make a document active for playback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			if !a.store.Use(title) {
				return fmt.Errorf("no document titled %q", title)
			}

			offset := a.cfg.Playback.Offset
			if cmd.Flags().Changed("offset") {
				offset, _ = cmd.Flags().GetFloat64("offset")
			}
			speed := a.cfg.Playback.Speed
			if cmd.Flags().Changed("speed") {
				speed, _ = cmd.Flags().GetFloat64("speed")
			}
			if speed <= 0 {
				return fmt.Errorf("speed must be positive, got %v", speed)
			}
			a.store.SetOffset(offset)
			a.store.SetSpeed(speed)

			fmt.Fprintf(cmd.OutOrStdout(), "Using %s (offset %gs, speed %gx)\n", title, offset, speed)
			return nil
		},
	}

	cmd.Flags().Float64("offset", 0, "Seconds to shift the subtitles (positive shows them later)")
	cmd.Flags().Float64("speed", 1, "Playback speed multiplier")
	return cmd
}

func newRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove [title]",
		Aliases: []string{"rm"},
		Short:   "Remove a document from the library",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := args[0]
			if _, ok := a.store.Remove(title); !ok {
				return fmt.Errorf("no document titled %q", title)
			}
			if err := a.lib.Delete(cmd.Context(), title); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", title)
			return nil
		},
	}
}

// documents title for a translated or extracted copy
func derivedTitle(base, suffix string) string {
	ext := filepath.Ext(base)
	if _, ok := subtitle.NormalizeFormat(ext); ok {
		base = strings.TrimSuffix(base, ext)
	}
	return base + "." + suffix
}
