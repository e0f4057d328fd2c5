package subtitle

import (
	"fmt"
	"strings"
)

// parses Universal Subtitle Format.
//
// Entries that start inside an already recorded cue are folded into that
// cue: their lines are appended instead of creating an overlapping cue.
func ParseUSF(text, title, movieRef string) (*Document, error) {
	list, ok := between(text, "<subtitles>", "</subtitles>")
	if !ok {
		return nil, fmt.Errorf("%w: missing <subtitles>", ErrMalformedDocument)
	}

	doc := newDocument(FormatUSF, title, movieRef, text)
	if meta, ok := between(text, "<metadata>", "</metadata>"); ok {
		readUSFMetadata(meta, doc.Meta)
	}

	for i, entry := range strings.Split(list, "<subtitle ") {
		if i == 0 {
			continue
		}

		attrBlock, _, _ := strings.Cut(entry, ">")
		attrs := parseAttributes(attrBlock)

		startText, ok := firstAttr(attrs, "start")
		if !ok {
			return nil, fmt.Errorf("subtitle %d: %w: missing start", i, ErrMalformedTimestamp)
		}
		start, err := ParseTimestamp(startText)
		if err != nil {
			return nil, fmt.Errorf("subtitle %d: %w", i, err)
		}
		end, err := usfEnd(attrs, start)
		if err != nil {
			return nil, fmt.Errorf("subtitle %d: %w", i, err)
		}

		lines := usfBody(entry)

		if j := containingCue(doc.Cues, start); j >= 0 {
			doc.Cues[j].Lines = append(doc.Cues[j].Lines, lines...)
			continue
		}
		doc.Cues = append(doc.Cues, Cue{Start: start, End: end, Lines: lines})
	}

	return doc.finish(), nil
}

func usfEnd(attrs map[string]string, start float64) (float64, error) {
	if endText, ok := firstAttr(attrs, "stop", "end"); ok {
		return ParseTimestamp(endText)
	}
	if durText, ok := firstAttr(attrs, "duration"); ok {
		dur, err := ParseTimestamp(durText)
		if err != nil {
			return 0, err
		}
		return start + dur, nil
	}
	return 0, fmt.Errorf("%w: missing stop", ErrMalformedTimestamp)
}

// text of the <text> or <karaoke> element with inline markup removed
func usfBody(entry string) []string {
	for _, tag := range []string{"text", "karaoke"} {
		inner, ok := between(entry, "<"+tag+" ", "</"+tag+">")
		if !ok {
			inner, ok = between(entry, "<"+tag+">", "</"+tag+">")
			if !ok {
				continue
			}
			return stripTags(inner)
		}
		_, content, _ := strings.Cut(inner, ">")
		return stripTags(content)
	}
	return nil
}

func containingCue(cues []Cue, t float64) int {
	for i, c := range cues {
		if c.Contains(t) {
			return i
		}
	}
	return -1
}

func readUSFMetadata(meta string, out map[string]string) {
	if v, ok := between(meta, "<title>", "</title>"); ok {
		out["title"] = strings.TrimSpace(v)
	}
	if v, ok := between(meta, "<date>", "</date>"); ok {
		out["date"] = strings.TrimSpace(v)
	}
	if author, ok := between(meta, "<author>", "</author>"); ok {
		if v, ok := between(author, "<name>", "</name>"); ok {
			out["author"] = strings.TrimSpace(v)
		}
		if v, ok := between(author, "<url>", "</url>"); ok {
			out["authorUrl"] = strings.TrimSpace(v)
		}
		if v, ok := between(author, "<email>", "</email>"); ok {
			out["authorEmail"] = strings.TrimSpace(v)
		}
	}
	if lang, ok := between(meta, "<language", "</language>"); ok {
		if _, v, found := strings.Cut(lang, ">"); found {
			out["language"] = strings.TrimSpace(v)
		}
	}
}
