package subtitle

import (
	"fmt"
	"strings"
)

const defaultTrackLanguage = "en"

type timeRange struct {
	start, end float64
}

// parses DFXP / TTML.
//
// Every <div> is one language track selected by xml:lang. All tracks share
// the timing of the first div; the cues are materialized from the first
// language seen and can be switched with SelectLanguage.
func ParseDFXP(text, title, movieRef string) (*Document, error) {
	body, ok := between(text, "<body", "</body>")
	if !ok {
		return nil, fmt.Errorf("%w: missing <body>", ErrMalformedDocument)
	}
	if _, rest, found := strings.Cut(body, ">"); found {
		body = rest
	}

	doc := newDocument(FormatDFXP, title, movieRef, text)
	doc.Tracks = make(map[string][][]string)

	var shared []timeRange
	for d, block := range strings.Split(body, "</div>") {
		if !strings.Contains(block, "<p") {
			continue
		}

		lang := defaultTrackLanguage
		if open, ok := between(block, "<div", ">"); ok {
			if v, ok := firstAttr(parseAttributes(open), "xml:lang", "lang"); ok {
				lang = v
			}
		}
		if _, seen := doc.Tracks[lang]; !seen {
			doc.Languages = append(doc.Languages, lang)
		}

		first := len(shared) == 0
		for p, para := range strings.Split(block, "<p")[1:] {
			if para != "" && para[0] != ' ' && para[0] != '>' && para[0] != '\n' && para[0] != '\t' {
				continue // <pre>, <param> and the like
			}
			attrBlock, content, found := strings.Cut(para, ">")
			if !found {
				continue
			}
			content, _, _ = strings.Cut(content, "</p>")

			if first || p >= len(shared) {
				start, end, err := timedAttributes(parseAttributes(attrBlock))
				if err != nil {
					return nil, fmt.Errorf("div %d paragraph %d: %w", d+1, p+1, err)
				}
				shared = append(shared, timeRange{start, end})
			}
			doc.Tracks[lang] = append(doc.Tracks[lang], stripTags(content))
		}
	}

	for _, r := range shared {
		doc.Cues = append(doc.Cues, Cue{Start: r.start, End: r.end})
	}
	if len(doc.Languages) > 0 {
		if err := doc.SelectLanguage(doc.Languages[0]); err != nil {
			return nil, err
		}
	}

	return doc.finish(), nil
}
