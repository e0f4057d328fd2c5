package subtitle

import (
	"fmt"
	"strings"
)

const subtiDelimiter = "=="

// parses the subti format: a key=value header, then blocks separated by
// "==" holding a speaker line, a start=>end line and the text lines.
func ParseSubti(text, title, movieRef string) (*Document, error) {
	doc := newDocument(FormatSubti, title, movieRef, text)

	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	sections := strings.Split(normalized, subtiDelimiter)

	for _, line := range strings.Split(sections[0], "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		doc.Meta[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}

	for i, section := range sections[1:] {
		if strings.TrimSpace(section) == "" {
			continue
		}
		section = strings.TrimPrefix(section, "\n")
		lines := strings.Split(section, "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		if len(lines) < 2 {
			return nil, fmt.Errorf("section %d: %w: missing range line", i+1, ErrMalformedTimestamp)
		}

		start, end, err := ParseRange(lines[1])
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i+1, err)
		}

		doc.Cues = append(doc.Cues, Cue{
			Start: start,
			End:   end,
			Lines: append([]string(nil), lines[2:]...),
		})
		doc.Names = append(doc.Names, strings.TrimSpace(lines[0]))
	}

	return doc.finish(), nil
}
