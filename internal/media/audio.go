package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/sync/errgroup"
)

// slice of an audio file, times in seconds of the source
type Chunk struct {
	Path  string
	Index int
	Start float64
	End   float64
}

// settings for the speech track handed to transcription
type AudioOptions struct {
	SampleRate int
	Channels   int
	Bitrate    string
}

// mono 16 kHz mp3, small enough for upload limits
func DefaultAudioOptions() AudioOptions {
	return AudioOptions{
		SampleRate: 16000,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// writes the audio of inputPath as mp3 to outputPath, dropping any video
func ExtractAudio(ctx context.Context, inputPath, outputPath string, opts AudioOptions) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := FFmpegPath()
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err = ffmpeg.Input(inputPath).
		Output(outputPath, audioArgs(opts)).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("audio extraction failed: %w", err)
	}
	return nil
}

func audioArgs(opts AudioOptions) ffmpeg.KwArgs {
	def := DefaultAudioOptions()
	if opts.SampleRate <= 0 {
		opts.SampleRate = def.SampleRate
	}
	if opts.Channels <= 0 {
		opts.Channels = def.Channels
	}
	if opts.Bitrate == "" {
		opts.Bitrate = def.Bitrate
	}
	return ffmpeg.KwArgs{
		"vn":     "",
		"ar":     opts.SampleRate,
		"ac":     opts.Channels,
		"acodec": "libmp3lame",
		"b:a":    opts.Bitrate,
	}
}

// chunk boundaries covering total seconds in steps of size
func planChunks(audioPath, outputDir string, total, size float64) []Chunk {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	ext := filepath.Ext(audioPath)

	var chunks []Chunk
	for i := 0; ; i++ {
		start := float64(i) * size
		if start >= total {
			break
		}
		end := start + size
		if end > total {
			end = total
		}
		chunks = append(chunks, Chunk{
			Path:  filepath.Join(outputDir, fmt.Sprintf("%s_chunk_%03d%s", base, i, ext)),
			Index: i,
			Start: start,
			End:   end,
		})
	}
	return chunks
}

// cuts audioPath into pieces of size seconds inside outputDir.
// At most concurrency ffmpeg processes run at once.
func SplitAudio(
	ctx context.Context,
	audioPath string,
	size float64,
	outputDir string,
	concurrency int,
) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %v", size)
	}
	if concurrency <= 0 {
		concurrency = 10
	}

	total, err := Duration(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get audio duration: %w", err)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := FFmpegPath()
	if err != nil {
		return nil, err
	}

	chunks := planChunks(audioPath, outputDir, total, size)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, c := range chunks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := ffmpeg.Input(audioPath).
				Output(c.Path, ffmpeg.KwArgs{
					"ss": c.Start,
					"t":  c.End - c.Start,
					"c":  "copy",
				}).
				OverWriteOutput().
				SetFfmpegPath(ffmpegPath).
				Run()
			if err != nil {
				return fmt.Errorf("failed to create chunk %d: %w", c.Index, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chunks, nil
}

// removes chunk files, returning the last failure
func RemoveChunks(chunks []Chunk) error {
	var lastErr error
	for _, c := range chunks {
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			lastErr = err
		}
	}
	return lastErr
}
