package subtitle

import (
	"fmt"
	"strings"
)

var lrcTags = map[string]string{
	"au": "author",
	"ar": "artist",
	"al": "album",
	"ti": "title",
}

// parses LRC lyrics. Every timestamp closes the previous cue and opens a
// new one; the last cue never ends.
func ParseLRC(text, title, movieRef string) (*Document, error) {
	doc := newDocument(FormatLRC, title, movieRef, text)

	for i, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "[") {
			continue
		}
		descriptor, body, ok := strings.Cut(line[1:], "]")
		if !ok || descriptor == "" {
			continue
		}

		if descriptor[0] < '0' || descriptor[0] > '9' {
			key, value, _ := strings.Cut(descriptor, ":")
			key = strings.TrimSpace(key)
			if mapped, ok := lrcTags[strings.ToLower(key)]; ok {
				key = mapped
			}
			doc.Meta[key] = strings.TrimSpace(value)
			continue
		}

		at, err := ParseTimestamp(descriptor)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if n := len(doc.Cues); n > 0 {
			doc.Cues[n-1].End = at
		}

		var lines []string
		if body = strings.TrimSpace(body); body != "" {
			lines = []string{body}
		}
		doc.Cues = append(doc.Cues, Cue{Start: at, End: Unbounded, Lines: lines})
	}

	return doc.finish(), nil
}
