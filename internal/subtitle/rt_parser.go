package subtitle

import (
	"fmt"
	"strings"
)

// parses RealText.
//
// Each <time begin=... end=.../> tag starts a cue whose text follows the
// <clear/> tag. A tag without end writes its begin into the previous cue
// by index, overriding any end that cue declared. A last cue without end
// lasts for the window duration, or forever when there is none.
func ParseRT(text, title, movieRef string) (*Document, error) {
	doc := newDocument(FormatRT, title, movieRef, text)

	segments := strings.Split(text, "<time ")
	header := segments[0]

	openEnded := false
	for i, segment := range segments[1:] {
		attrBlock, rest, ok := strings.Cut(segment, ">")
		if !ok {
			continue
		}
		attrs := parseAttributes(strings.TrimSuffix(strings.TrimSpace(attrBlock), "/"))

		beginText, ok := firstAttr(attrs, "begin")
		if !ok {
			return nil, fmt.Errorf("time tag %d: %w: missing begin", i+1, ErrMalformedTimestamp)
		}
		begin, err := parseMediaTime(beginText)
		if err != nil {
			return nil, fmt.Errorf("time tag %d: %w", i+1, err)
		}

		end := Unbounded
		endText, hasEnd := firstAttr(attrs, "end")
		if hasEnd {
			end, err = parseMediaTime(endText)
			if err != nil {
				return nil, fmt.Errorf("time tag %d: %w", i+1, err)
			}
		} else if n := len(doc.Cues); n > 0 && begin >= doc.Cues[n-1].Start {
			doc.Cues[n-1].End = begin
		}
		openEnded = !hasEnd

		if _, after, found := strings.Cut(rest, "<clear/>"); found {
			rest = after
		}
		for _, suffix := range []string{"</window>", "</font>"} {
			rest = strings.TrimSpace(rest)
			rest = strings.TrimSuffix(rest, suffix)
		}

		doc.Cues = append(doc.Cues, Cue{Start: begin, End: end, Lines: stripTags(rest)})
	}

	if n := len(doc.Cues); openEnded && n > 0 {
		if windowTag, ok := between(header, "<window", ">"); ok {
			if d, ok := firstAttr(parseAttributes(windowTag), "duration", "dur"); ok {
				if duration, err := parseMediaTime(d); err == nil && duration >= doc.Cues[n-1].Start {
					doc.Cues[n-1].End = duration
				}
			}
		}
	}

	return doc.finish(), nil
}
