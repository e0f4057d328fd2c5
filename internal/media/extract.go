package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/mgpai22/subtity/internal/subtitle"
)

// ffmpeg subtitle encoder for an output format
func subtitleCodec(format subtitle.Format) (string, error) {
	switch format {
	case subtitle.FormatSRT:
		return "srt", nil
	case subtitle.FormatWebVTT:
		return "webvtt", nil
	case subtitle.FormatSSA:
		return "ass", nil
	default:
		return "", fmt.Errorf("ffmpeg cannot write %s subtitles", format)
	}
}

// copies subtitle stream n of videoPath into outputPath, converted to format
func ExtractSubtitles(
	ctx context.Context,
	videoPath string,
	stream int,
	format subtitle.Format,
	outputPath string,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if stream < 0 {
		return fmt.Errorf("invalid subtitle stream %d", stream)
	}

	codec, err := subtitleCodec(format)
	if err != nil {
		return err
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

	err = ffmpeg.Input(videoPath).
		Output(outputPath, ffmpeg.KwArgs{
			"map": fmt.Sprintf("0:s:%d", stream),
			"c:s": codec,
		}).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}
	return nil
}

// extracts stream n through a temporary file and returns its text
func ExtractText(
	ctx context.Context,
	videoPath string,
	stream int,
	format subtitle.Format,
) (string, error) {
	tmpDir, err := os.MkdirTemp("", "subtity-extract-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outputPath := filepath.Join(tmpDir, "stream"+format.Extension())
	if err := ExtractSubtitles(ctx, videoPath, stream, format, outputPath); err != nil {
		return "", err
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted subtitles: %w", err)
	}
	return string(data), nil
}
