package subtitle

import (
	"fmt"
	"strings"
)

// parses iTunes Timed Text.
// The body is cut into <p> elements; the timing comes from the attribute
// block of each element, with dur added to begin when no end is given.
func ParseITT(text, title, movieRef string) (*Document, error) {
	body, ok := between(text, "<body", "</body>")
	if !ok {
		return nil, fmt.Errorf("%w: missing <body>", ErrMalformedDocument)
	}

	doc := newDocument(FormatITT, title, movieRef, text)

	for i, part := range strings.Split(body, "<p ") {
		if i == 0 {
			continue
		}

		attrBlock, content, found := strings.Cut(part, ">")
		if !found {
			continue
		}
		content, _, _ = strings.Cut(content, "</p>")

		start, end, err := timedAttributes(parseAttributes(attrBlock))
		if err != nil {
			return nil, fmt.Errorf("paragraph %d: %w", i, err)
		}

		doc.Cues = append(doc.Cues, Cue{
			Start: start,
			End:   end,
			Lines: stripTags(content),
		})
	}

	return doc.finish(), nil
}

// begin/start plus end or dur, as used by itt and ttml
func timedAttributes(attrs map[string]string) (float64, float64, error) {
	beginText, ok := firstAttr(attrs, "begin", "start")
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing begin", ErrMalformedTimestamp)
	}
	start, err := parseMediaTime(beginText)
	if err != nil {
		return 0, 0, err
	}

	if durText, ok := attrs["dur"]; ok {
		dur, err := parseMediaTime(durText)
		if err != nil {
			return 0, 0, err
		}
		return start, start + dur, nil
	}

	endText, ok := firstAttr(attrs, "end", "stop")
	if !ok {
		return 0, 0, fmt.Errorf("%w: missing end or dur", ErrMalformedTimestamp)
	}
	end, err := parseMediaTime(endText)
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}
