package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgpai22/subtity/internal/config"
	"github.com/mgpai22/subtity/internal/media"
	"github.com/mgpai22/subtity/internal/subtitle"
	"github.com/mgpai22/subtity/internal/transcribe"
)

func newTranscribeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe [media_file]",
		Short: "Create subtitles for a media file with speech recognition",
		Long: `Transcribe the speech of an audio or video file and add the result to
the library as an srt document linked to the media file.

The audio is extracted with ffmpeg, cut into chunks and transcribed in
parallel. Cues are wrapped to two lines and kept between 1 and 7 seconds.

Examples:
  subtity transcribe movie.mp4
  subtity transcribe podcast.mp3 --provider openai --language en
  subtity transcribe interview.mkv --transcript-language English`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mediaPath := args[0]
			providerStr, _ := cmd.Flags().GetString("provider")
			model, _ := cmd.Flags().GetString("model")
			apiKey, _ := cmd.Flags().GetString("api-key")
			language, _ := cmd.Flags().GetString("language")
			transcriptLang, _ := cmd.Flags().GetString("transcript-language")
			prompt, _ := cmd.Flags().GetString("prompt")
			chunkSize, _ := cmd.Flags().GetFloat64("chunk-size")
			concurrency, _ := cmd.Flags().GetInt("concurrency")
			title, _ := cmd.Flags().GetString("title")
			maxLine, _ := cmd.Flags().GetInt("max-line-length")

			if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
				return fmt.Errorf("media file not found: %s", mediaPath)
			}
			if !media.IsMediaFile(mediaPath) {
				return fmt.Errorf("not an audio or video file: %s", mediaPath)
			}

			if apiKey == "" {
				apiKey = config.APIKeyFromEnv(providerStr)
			}
			if apiKey == "" {
				return fmt.Errorf("no API key for %s, use --api-key or set the environment variable", providerStr)
			}

			transcriber, err := transcribe.Factory(cmd.Context(), transcribe.Provider(providerStr), apiKey, transcribe.Options{
				Language:           language,
				TranscriptLanguage: transcriptLang,
				Model:              model,
				Prompt:             prompt,
			})
			if err != nil {
				return fmt.Errorf("failed to create transcriber: %w", err)
			}

			if title == "" {
				base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))
				title = base + subtitle.FormatSRT.Extension()
			}

			tmpDir, err := os.MkdirTemp("", "subtity-transcribe-")
			if err != nil {
				return fmt.Errorf("failed to create temp dir: %w", err)
			}
			defer os.RemoveAll(tmpDir)

			start := time.Now()
			audioPath := filepath.Join(tmpDir, "audio.mp3")
			a.logger.Infow("Extracting audio", "media", mediaPath)
			if err := media.ExtractAudio(cmd.Context(), mediaPath, audioPath, media.DefaultAudioOptions()); err != nil {
				return err
			}

			chunks, err := media.SplitAudio(cmd.Context(), audioPath, chunkSize, filepath.Join(tmpDir, "chunks"), 0)
			if err != nil {
				return err
			}
			a.logger.Infow("Transcribing",
				"provider", providerStr,
				"chunks", len(chunks),
				"concurrency", concurrency,
			)

			cues, err := transcribe.Chunks(cmd.Context(), transcriber, chunks, concurrency)
			if err != nil {
				return err
			}
			shape := subtitle.DefaultShapeOptions()
			shape.MaxCharsPerLine = maxLine
			cues = subtitle.Shape(cues, shape)

			text, err := transcribe.SRT(cues)
			if err != nil {
				return err
			}

			doc, err := a.addDocument(cmd.Context(), title, text, subtitle.FormatSRT, mediaPath)
			if err != nil {
				return err
			}

			a.logger.Infow("Transcription complete",
				"title", doc.Title,
				"cues", doc.Count,
				"duration", time.Since(start).Round(time.Millisecond),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%d cues)\n", doc.Title, doc.Count)
			return nil
		},
	}

	cmd.Flags().String("provider", string(transcribe.ProviderGemini), "Transcription provider: gemini, openai")
	cmd.Flags().String("model", "", "Model name (default: provider's default)")
	cmd.Flags().StringP("api-key", "k", "", "API key for the provider")
	cmd.Flags().StringP("language", "l", "", "Spoken language of the media")
	cmd.Flags().String("transcript-language", "native", "Language of the subtitles")
	cmd.Flags().String("prompt", "", "Additional instructions for the model")
	cmd.Flags().Float64("chunk-size", 600, "Seconds of audio per request")
	cmd.Flags().Int("concurrency", transcribe.DefaultConcurrency, "Chunks transcribed in parallel")
	cmd.Flags().String("title", "", "Title for the document (default: media name + .srt)")
	cmd.Flags().Int("max-line-length", 42, "Characters per subtitle line before wrapping")
	return cmd
}
