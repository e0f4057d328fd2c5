package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// embedded subtitle stream reported by ffprobe
type Stream struct {
	// position among the subtitle streams, as used by -map 0:s:N
	Index    int
	Codec    string
	Language string
	Title    string
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecName string            `json:"codec_name"`
		Tags      map[string]string `json:"tags"`
	} `json:"streams"`
}

func runProbe(ctx context.Context, args ...string) (*ffprobeOutput, error) {
	ffprobePath, err := FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath, append([]string{"-v", "quiet", "-print_format", "json"}, args...)...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseProbe(out.Bytes())
}

func parseProbe(data []byte) (*ffprobeOutput, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &probe, nil
}

// duration of a media file in seconds
func Duration(ctx context.Context, path string) (float64, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, fmt.Errorf("file not found: %s", path)
	}

	probe, err := runProbe(ctx, "-show_format", path)
	if err != nil {
		return 0, err
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(probe.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return seconds, nil
}

// subtitle streams of a container in ffprobe order
func SubtitleStreams(ctx context.Context, path string) ([]Stream, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s", path)
	}

	probe, err := runProbe(ctx, "-show_streams", "-select_streams", "s", path)
	if err != nil {
		return nil, err
	}
	return probe.subtitleStreams(), nil
}

func (p *ffprobeOutput) subtitleStreams() []Stream {
	streams := make([]Stream, 0, len(p.Streams))
	for i, s := range p.Streams {
		streams = append(streams, Stream{
			Index:    i,
			Codec:    s.CodecName,
			Language: s.Tags["language"],
			Title:    s.Tags["title"],
		})
	}
	return streams
}

var videoExts = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
}

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
	".m4a":  true,
	".wma":  true,
	".aiff": true,
}

// checks if the file is a video based on extension
func IsVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// checks if the file is audio or video, lrc files usually point at audio
func IsMediaFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return videoExts[ext] || audioExts[ext]
}
