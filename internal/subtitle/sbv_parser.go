package subtitle

import (
	"fmt"
	"strings"
)

// parses YouTube SubViewer text.
// A range line starts a cue, following lines are text until a blank line;
// after a blank line the next non-blank line is expected to be a range.
func ParseSBV(text, title, movieRef string) (*Document, error) {
	doc := newDocument(FormatSBV, title, movieRef, text)

	expectRange := true
	inText := false

	for i, line := range splitLines(text) {
		if isBlank(line) {
			expectRange = true
			inText = false
			continue
		}

		if expectRange {
			start, end, err := ParseRange(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			doc.Cues = append(doc.Cues, Cue{Start: start, End: end})
			expectRange = false
			inText = true
			continue
		}

		if inText {
			last := &doc.Cues[len(doc.Cues)-1]
			last.Lines = append(last.Lines, strings.TrimRight(line, " \t"))
		}
	}

	return doc.finish(), nil
}
