package transcribe

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mgpai22/subtity/internal/media"
	"github.com/mgpai22/subtity/internal/subtitle"
)

const DefaultConcurrency = 3

// transcribes chunks in parallel and merges the cues on the source timeline
func Chunks(
	ctx context.Context,
	t Transcriber,
	chunks []media.Chunk,
	concurrency int,
) ([]subtitle.Cue, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	parts := make([][]subtitle.Cue, len(chunks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, c := range chunks {
		g.Go(func() error {
			cues, err := t.Transcribe(ctx, c.Path)
			if err != nil {
				return fmt.Errorf("chunk %d failed: %w", c.Index, err)
			}
			for j := range cues {
				cues[j].Start += c.Start
				cues[j].End += c.Start
			}
			parts[i] = cues
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []subtitle.Cue
	for _, p := range parts {
		merged = append(merged, p...)
	}
	return merged, nil
}

// srt text for transcribed cues
func SRT(cues []subtitle.Cue) (string, error) {
	return subtitle.Export(subtitle.FormatSRT, &subtitle.Document{
		Format: subtitle.FormatSRT,
		Cues:   cues,
		Count:  len(cues),
	})
}
