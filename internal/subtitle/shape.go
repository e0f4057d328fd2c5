package subtitle

import (
	"math"
	"strings"
	"unicode/utf8"
)

// limits applied when turning free-running speech segments into cues
type ShapeOptions struct {
	MaxCharsPerLine int
	MaxLines        int
	MinDuration     float64
	MaxDuration     float64
}

func DefaultShapeOptions() ShapeOptions {
	return ShapeOptions{
		MaxCharsPerLine: 42,
		MaxLines:        2,
		MinDuration:     1,
		MaxDuration:     7,
	}
}

func (o ShapeOptions) withDefaults() ShapeOptions {
	def := DefaultShapeOptions()
	if o.MaxCharsPerLine <= 0 {
		o.MaxCharsPerLine = def.MaxCharsPerLine
	}
	if o.MaxLines <= 0 {
		o.MaxLines = def.MaxLines
	}
	if o.MaxDuration <= 0 {
		o.MaxDuration = def.MaxDuration
	}
	if o.MinDuration < 0 {
		o.MinDuration = 0
	}
	return o
}

// re-flows cues so each one fits the line and duration limits.
// Long cues are split on word boundaries with their time shared evenly,
// short cues are stretched to MinDuration without overlapping the next one.
func Shape(cues []Cue, opts ShapeOptions) []Cue {
	opts = opts.withDefaults()

	out := make([]Cue, 0, len(cues))
	for _, c := range cues {
		words := strings.Fields(strings.Join(c.Lines, " "))
		if len(words) == 0 {
			continue
		}
		out = append(out, splitCue(c.Start, c.End, words, opts)...)
	}

	for i := range out {
		c := &out[i]
		if math.IsInf(c.End, 1) || c.End-c.Start >= opts.MinDuration {
			continue
		}
		end := c.Start + opts.MinDuration
		if i+1 < len(out) && out[i+1].Start < end {
			end = math.Max(c.End, out[i+1].Start)
		}
		c.End = end
	}
	return out
}

func splitCue(start, end float64, words []string, opts ShapeOptions) []Cue {
	text := strings.Join(words, " ")
	maxChars := opts.MaxCharsPerLine * opts.MaxLines
	duration := end - start

	parts := (utf8.RuneCountInString(text) + maxChars - 1) / maxChars
	if !math.IsInf(end, 1) {
		if byTime := int(duration/opts.MaxDuration) + 1; byTime > parts {
			parts = byTime
		}
	}
	if parts > len(words) {
		parts = len(words)
	}
	if parts <= 1 {
		return []Cue{{Start: start, End: end, Lines: wrapText(text, opts.MaxCharsPerLine)}}
	}

	perPart := (len(words) + parts - 1) / parts
	step := 0.0
	if !math.IsInf(end, 1) {
		step = duration / float64(parts)
	}

	var cues []Cue
	at := start
	for len(words) > 0 {
		n := min(perPart, len(words))
		chunk := strings.Join(words[:n], " ")
		words = words[n:]

		next := at + step
		if len(words) == 0 || math.IsInf(end, 1) {
			next = end
		}
		cues = append(cues, Cue{Start: at, End: next, Lines: wrapText(chunk, opts.MaxCharsPerLine)})
		at = next
	}
	return cues
}

// breaks text into two balanced lines when it exceeds maxChars
func wrapText(text string, maxChars int) []string {
	count := utf8.RuneCountInString(text)
	if count <= maxChars {
		return []string{text}
	}

	words := strings.Fields(text)
	if len(words) < 2 {
		return []string{text}
	}

	middle := count / 2
	best, bestDiff := 0, count
	length := 0
	for i, w := range words[:len(words)-1] {
		length += utf8.RuneCountInString(w)
		if i > 0 {
			length++
		}
		diff := length - middle
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = i+1, diff
		}
	}
	return []string{
		strings.Join(words[:best], " "),
		strings.Join(words[best:], " "),
	}
}
