package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mgpai22/subtity/internal/subtitle"
)

// cue separator understood by the prompt
const lineBreak = `\N`

// one item per cue, lines joined with \N
func Items(doc *subtitle.Document) []TranslationItem {
	items := make([]TranslationItem, 0, len(doc.Cues))
	for i, cue := range doc.Cues {
		if len(cue.Lines) == 0 {
			continue
		}
		items = append(items, TranslationItem{
			Index: i,
			Text:  strings.Join(cue.Lines, lineBreak),
		})
	}
	return items
}

// copy of doc titled title with the translated text in place.
// With overlay the original lines stay below the translation.
// Cues without a result keep their original lines.
func Apply(doc *subtitle.Document, results []TranslationResult, title string, overlay bool) *subtitle.Document {
	out := doc.Clone()
	out.Title = title
	out.Active = false
	out.Tracks = nil
	out.Languages = nil
	out.Language = ""

	for _, r := range results {
		if r.Index < 0 || r.Index >= len(out.Cues) || strings.TrimSpace(r.Text) == "" {
			continue
		}
		var lines []string
		for _, line := range strings.Split(r.Text, lineBreak) {
			lines = append(lines, strings.TrimSpace(line))
		}
		if overlay {
			lines = append(lines, out.Cues[r.Index].Lines...)
		}
		out.Cues[r.Index].Lines = lines
	}
	return out
}

// translates every cue of doc and returns the translated copy
func Document(
	ctx context.Context,
	t Translator,
	doc *subtitle.Document,
	title string,
	overlay bool,
	opts Options,
) (*subtitle.Document, error) {
	results, err := Translate(ctx, t, Items(doc), opts)
	if err != nil {
		return nil, fmt.Errorf("translate %q: %w", doc.Title, err)
	}
	return Apply(doc, results, title, overlay), nil
}
