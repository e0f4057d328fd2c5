package subtitle

import (
	"fmt"
	"strings"
)

// parses SubRip text
func ParseSRT(text, title, movieRef string) (*Document, error) {
	return parseArrowBlocks(FormatSRT, text, title, movieRef, false)
}

// parses WebVTT text; NOTE comment lines are ignored
func ParseWebVTT(text, title, movieRef string) (*Document, error) {
	return parseArrowBlocks(FormatWebVTT, text, title, movieRef, true)
}

// srt and webvtt share the same block structure: a range line opens a
// cue, text lines follow and a blank line closes the cue once it holds
// text. Blank lines directly after the range line are tolerated.
func parseArrowBlocks(
	format Format,
	text, title, movieRef string,
	skipNotes bool,
) (*Document, error) {
	doc := newDocument(format, title, movieRef, text)
	lines := splitLines(text)

	var current *Cue
	flush := func() {
		if current != nil {
			doc.Cues = append(doc.Cues, *current)
			current = nil
		}
	}

	for i, line := range lines {
		if skipNotes && isNoteLine(line) {
			continue
		}

		if strings.Contains(line, "-->") {
			flush()
			start, end, err := ParseRange(line)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", i+1, err)
			}
			current = &Cue{Start: start, End: end}
			continue
		}

		if isBlank(line) {
			if current != nil && len(current.Lines) > 0 {
				flush()
			}
			continue
		}

		if current == nil {
			continue
		}

		// a sequence number right before the next range line belongs
		// to the next block even when this cue never got text
		if isSequenceNumber(line) && i+1 < len(lines) && strings.Contains(lines[i+1], "-->") {
			flush()
			continue
		}

		current.Lines = append(current.Lines, strings.TrimRight(line, " \t"))
	}
	flush()

	return doc.finish(), nil
}

func isNoteLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "NOTE ") || trimmed == "NOTE"
}

func isSequenceNumber(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
