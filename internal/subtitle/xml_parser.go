package subtitle

import (
	"fmt"
	"strings"
)

// parses the simple <video> xml caption layout, one <title> element per
// cue holding <start>, <end> and <text>. Times may use ';' before the
// fraction.
func ParseXML(text, title, movieRef string) (*Document, error) {
	video, ok := between(text, "<video>", "<video/>")
	if !ok {
		video, ok = between(text, "<video>", "</video>")
		if !ok {
			return nil, fmt.Errorf("%w: missing <video>", ErrMalformedDocument)
		}
	}

	doc := newDocument(FormatXML, title, movieRef, text)

	segments := strings.Split(video, "</title>")
	for i, segment := range segments[:len(segments)-1] {
		startText, _ := between(segment, "<start>", "</start>")
		endText, _ := between(segment, "<end>", "</end>")

		start, err := ParseTimestamp(strings.ReplaceAll(startText, ";", "."))
		if err != nil {
			return nil, fmt.Errorf("entry %d start: %w", i+1, err)
		}
		end, err := ParseTimestamp(strings.ReplaceAll(endText, ";", "."))
		if err != nil {
			return nil, fmt.Errorf("entry %d end: %w", i+1, err)
		}

		body, _ := between(segment, "<text>", "</text>")
		var lines []string
		for _, line := range strings.Split(body, "<br/>") {
			if line = strings.TrimSpace(line); line != "" {
				lines = append(lines, line)
			}
		}

		doc.Cues = append(doc.Cues, Cue{Start: start, End: end, Lines: lines})
	}

	return doc.finish(), nil
}
