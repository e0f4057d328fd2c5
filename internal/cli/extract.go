package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subtity/internal/media"
	"github.com/mgpai22/subtity/internal/subtitle"
)

func newExtractCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [video_file]",
		Short: "Pull an embedded subtitle stream out of a video",
		Long: `Extract an embedded subtitle stream from a video with ffmpeg and add
it to the library, linked to the video.

Examples:
  subtity extract movie.mkv --list
  subtity extract movie.mkv --stream 1 --format webvtt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			videoPath := args[0]
			stream, _ := cmd.Flags().GetInt("stream")
			formatStr, _ := cmd.Flags().GetString("format")
			title, _ := cmd.Flags().GetString("title")
			list, _ := cmd.Flags().GetBool("list")

			if _, err := os.Stat(videoPath); os.IsNotExist(err) {
				return fmt.Errorf("video file not found: %s", videoPath)
			}

			if list {
				streams, err := media.SubtitleStreams(cmd.Context(), videoPath)
				if err != nil {
					return err
				}
				printStreams(cmd, streams)
				return nil
			}

			format, ok := subtitle.NormalizeFormat(formatStr)
			if !ok {
				return fmt.Errorf("%w: %s", subtitle.ErrUnrecognizedFormat, formatStr)
			}
			if title == "" {
				base := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))
				title = fmt.Sprintf("%s.%d%s", base, stream, format.Extension())
			}

			a.logger.Infow("Extracting subtitles",
				"video", videoPath,
				"stream", stream,
				"format", format,
			)
			text, err := media.ExtractText(cmd.Context(), videoPath, stream, format)
			if err != nil {
				return err
			}

			doc, err := a.addDocument(cmd.Context(), title, text, format, videoPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d cues)\n", doc.Title, doc.Count)
			return nil
		},
	}

	cmd.Flags().Int("stream", 0, "Subtitle stream index (see --list)")
	cmd.Flags().StringP("format", "f", "srt", "Format to convert the stream to (srt, webvtt, ssa)")
	cmd.Flags().String("title", "", "Title for the extracted document")
	cmd.Flags().Bool("list", false, "List subtitle streams instead of extracting")
	return cmd
}

func printStreams(cmd *cobra.Command, streams []media.Stream) {
	out := cmd.OutOrStdout()
	if len(streams) == 0 {
		fmt.Fprintln(out, "No subtitle streams")
		return
	}
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-4s %-10s %-8s %s", "#", "CODEC", "LANG", "TITLE")))
	for _, s := range streams {
		fmt.Fprintf(out, "%-4d %-10s %-8s %s\n", s.Index, s.Codec, s.Language, s.Title)
	}
}
