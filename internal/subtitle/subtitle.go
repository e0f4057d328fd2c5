package subtitle

import (
	"math"
	"strings"
)

// end time of a cue that stays on screen until the end of playback
var Unbounded = math.Inf(1)

// single timed caption entry, times in seconds
type Cue struct {
	Start float64
	End   float64
	Lines []string
}

// reports whether t falls inside the cue range, bounds included
func (c Cue) Contains(t float64) bool {
	return t >= c.Start && t <= c.End
}

// lines joined with newlines
func (c Cue) Text() string {
	return strings.Join(c.Lines, "\n")
}

// normalized representation of one parsed subtitle file
type Document struct {
	Title    string
	MovieRef string
	Format   Format
	RawText  string

	Cues  []Cue
	Count int
	Meta  map[string]string

	// speaker per cue, parallel to Cues, empty when the source has none
	Names []string

	// dfxp language buckets, each one a list of line groups indexed like Cues
	Tracks    map[string][][]string
	Languages []string
	Language  string

	Active bool
}

func newDocument(format Format, title, movieRef, text string) *Document {
	return &Document{
		Title:    title,
		MovieRef: movieRef,
		Format:   format,
		RawText:  text,
		Meta:     make(map[string]string),
	}
}

// speaker name for cue i, empty when unknown
func (d *Document) Name(i int) string {
	if i < 0 || i >= len(d.Names) {
		return ""
	}
	return d.Names[i]
}

// deep copy so callers can hand documents out without sharing slices
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := *d
	out.Cues = cloneCues(d.Cues)
	out.Meta = make(map[string]string, len(d.Meta))
	for k, v := range d.Meta {
		out.Meta[k] = v
	}
	out.Names = append([]string(nil), d.Names...)
	out.Languages = append([]string(nil), d.Languages...)
	if d.Tracks != nil {
		out.Tracks = make(map[string][][]string, len(d.Tracks))
		for lang, groups := range d.Tracks {
			cp := make([][]string, len(groups))
			for i, g := range groups {
				cp[i] = append([]string(nil), g...)
			}
			out.Tracks[lang] = cp
		}
	}
	return &out
}

// rematerializes cue lines from another language track
func (d *Document) SelectLanguage(lang string) error {
	groups, ok := d.Tracks[lang]
	if !ok {
		return ErrUnknownLanguage
	}
	for i := range d.Cues {
		if i < len(groups) {
			d.Cues[i].Lines = append([]string(nil), groups[i]...)
		} else {
			d.Cues[i].Lines = nil
		}
	}
	d.Language = lang
	return nil
}

func (d *Document) finish() *Document {
	d.Count = len(d.Cues)
	return d
}

func cloneCues(cues []Cue) []Cue {
	out := make([]Cue, len(cues))
	for i, c := range cues {
		out[i] = Cue{Start: c.Start, End: c.End, Lines: append([]string(nil), c.Lines...)}
	}
	return out
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT    Format = "srt"
	FormatWebVTT Format = "webvtt"
	FormatSBV    Format = "sbv"
	FormatSSA    Format = "ssa"
	FormatITT    Format = "itt"
	FormatUSF    Format = "usf"
	FormatSubti  Format = "subti"
	FormatLRC    Format = "lrc"
	FormatRT     Format = "rt"
	FormatXML    Format = "xml"
	FormatDFXP   Format = "dfxp"
)

// every parseable format, in the order they are documented
var Formats = []Format{
	FormatSRT, FormatWebVTT, FormatSBV, FormatSSA, FormatITT, FormatUSF,
	FormatSubti, FormatLRC, FormatRT, FormatXML, FormatDFXP,
}

// maps a file extension or format token to a Format.
// Matching is case-insensitive and the leading dot is optional.
func NormalizeFormat(token string) (Format, bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	token = strings.TrimPrefix(token, ".")
	switch token {
	case "srt":
		return FormatSRT, true
	case "webvtt", "vtt":
		return FormatWebVTT, true
	case "sbv":
		return FormatSBV, true
	case "ssa", "ass":
		return FormatSSA, true
	case "itt":
		return FormatITT, true
	case "usf":
		return FormatUSF, true
	case "subti":
		return FormatSubti, true
	case "lrc":
		return FormatLRC, true
	case "rt":
		return FormatRT, true
	case "xml":
		return FormatXML, true
	case "dfxp", "ttml":
		return FormatDFXP, true
	default:
		return "", false
	}
}

// file extension for a format
func (f Format) Extension() string {
	switch f {
	case FormatWebVTT:
		return ".vtt"
	case "":
		return ".srt"
	default:
		return "." + string(f)
	}
}
