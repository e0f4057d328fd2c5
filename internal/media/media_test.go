package media

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/subtity/internal/subtitle"
)

func TestResolve(t *testing.T) {
	env := map[string]string{"SUBTITY_FFPROBE_PATH": "/opt/ffprobe"}
	getenv := func(k string) string { return env[k] }
	lookPath := func(name string) (string, error) {
		if name == "ffmpeg" {
			return "/usr/bin/ffmpeg", nil
		}
		return "", exec.ErrNotFound
	}

	paths, err := resolve(getenv, lookPath)
	require.NoError(t, err)
	assert.Equal(t, BinaryPaths{FFmpeg: "/usr/bin/ffmpeg", FFprobe: "/opt/ffprobe"}, paths)
}

func TestResolveMissing(t *testing.T) {
	getenv := func(string) string { return "" }
	lookPath := func(string) (string, error) { return "", exec.ErrNotFound }

	_, err := resolve(getenv, lookPath)
	assert.True(t, errors.Is(err, ErrBinaryNotFound))
}

func TestParseProbe(t *testing.T) {
	data := []byte(`{
		"streams": [
			{"codec_name": "subrip", "tags": {"language": "eng"}},
			{"codec_name": "ass", "tags": {"language": "jpn", "title": "Signs"}}
		],
		"format": {"duration": "1325.120000"}
	}`)

	probe, err := parseProbe(data)
	require.NoError(t, err)
	assert.Equal(t, "1325.120000", probe.Format.Duration)

	streams := probe.subtitleStreams()
	require.Len(t, streams, 2)
	assert.Equal(t, Stream{Index: 1, Codec: "ass", Language: "jpn", Title: "Signs"}, streams[1])

	_, err = parseProbe([]byte("not json"))
	assert.Error(t, err)
}

func TestSubtitleCodec(t *testing.T) {
	codec, err := subtitleCodec(subtitle.FormatSSA)
	require.NoError(t, err)
	assert.Equal(t, "ass", codec)

	_, err = subtitleCodec(subtitle.FormatLRC)
	assert.Error(t, err)
}

func TestMediaFileDetection(t *testing.T) {
	assert.True(t, IsVideoFile("movie.MKV"))
	assert.False(t, IsVideoFile("song.mp3"))
	assert.True(t, IsMediaFile("song.mp3"))
	assert.False(t, IsMediaFile("notes.srt"))
}

func TestExtractSubtitlesMissingInput(t *testing.T) {
	err := ExtractSubtitles(context.Background(), filepath.Join(t.TempDir(), "none.mkv"), 0, subtitle.FormatSRT, "out.srt")
	assert.ErrorContains(t, err, "video file not found")
}

func TestDurationMissingFile(t *testing.T) {
	_, err := Duration(context.Background(), filepath.Join(t.TempDir(), "none.mp4"))
	assert.ErrorContains(t, err, "file not found")
}

func TestPlanChunks(t *testing.T) {
	chunks := planChunks("/in/talk.mp3", "/tmp/out", 250, 100)
	require.Len(t, chunks, 3)
	assert.Equal(t, Chunk{Path: filepath.Join("/tmp/out", "talk_chunk_002.mp3"), Index: 2, Start: 200, End: 250}, chunks[2])
	assert.InDelta(t, 100, chunks[1].Start, 1e-9)

	assert.Empty(t, planChunks("/in/talk.mp3", "/tmp/out", 0, 100))
}

func TestAudioArgsDefaults(t *testing.T) {
	args := audioArgs(AudioOptions{})
	assert.Equal(t, 16000, args["ar"])
	assert.Equal(t, 1, args["ac"])
	assert.Equal(t, "64k", args["b:a"])

	args = audioArgs(AudioOptions{SampleRate: 44100, Channels: 2, Bitrate: "128k"})
	assert.Equal(t, 44100, args["ar"])
	assert.Equal(t, "128k", args["b:a"])
}

func TestSplitAudioRejectsBadSize(t *testing.T) {
	_, err := SplitAudio(context.Background(), "missing.mp3", 0, t.TempDir(), 1)
	assert.Error(t, err)
}
