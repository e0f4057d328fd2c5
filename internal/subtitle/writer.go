package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// renders a document into the text of one subtitle format
type Writer interface {
	Serialize(doc *Document) string
}

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

// SubStation Alpha format
type SSAWriter struct{}

// LRC lyrics format
type LRCWriter struct{}

// subti format
type SubtiWriter struct{}

var lrcExportTags = map[string]string{
	"author": "au",
	"artist": "ar",
	"album":  "al",
	"title":  "ti",
}

// writer for an export format. Formats that can be parsed but not written
// return ErrExportUnsupported.
func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatWebVTT:
		return &VTTWriter{}, nil
	case FormatSSA:
		return &SSAWriter{}, nil
	case FormatLRC:
		return &LRCWriter{}, nil
	case FormatSubti:
		return &SubtiWriter{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrExportUnsupported, format)
	}
}

// serializes doc into format
func Export(format Format, doc *Document) (string, error) {
	w, err := NewWriter(format)
	if err != nil {
		return "", err
	}
	return w.Serialize(doc), nil
}

// serializes doc into format and writes it to path
func WriteFile(format Format, doc *Document, path string) error {
	text, err := Export(format, doc)
	if err != nil {
		return err
	}
	if err := ensureDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(text), 0644)
}

func (w *SRTWriter) Serialize(doc *Document) string {
	var sb strings.Builder
	for i, cue := range doc.Cues {
		// index (1-based)
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", formatClock(cue.Start, ","), formatClock(cue.End, ","))
		writeLines(&sb, cue.Lines)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (w *VTTWriter) Serialize(doc *Document) string {
	var sb strings.Builder
	sb.WriteString("WEBVTT\n\n")
	for i, cue := range doc.Cues {
		fmt.Fprintf(&sb, "%d\n", i+1)
		fmt.Fprintf(&sb, "%s --> %s\n", formatClock(cue.Start, "."), formatClock(cue.End, "."))
		writeLines(&sb, cue.Lines)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (w *SSAWriter) Serialize(doc *Document) string {
	var sb strings.Builder

	sb.WriteString("[Script Info]\n")
	for _, key := range sortedKeys(doc.Meta) {
		fmt.Fprintf(&sb, "%s: %s\n", key, doc.Meta[key])
	}
	sb.WriteString("\n")

	sb.WriteString("[Events]\n")
	sb.WriteString("Format: Start, End, Name, Text\n")
	for i, cue := range doc.Cues {
		name := doc.Name(i)
		if name == "" {
			name = "Unknown"
		}
		fmt.Fprintf(&sb, "Dialogue: %s,%s,%s,%s\n",
			FormatTimestamp(cue.Start, ":", "."),
			FormatTimestamp(cue.End, ":", "."),
			name,
			strings.Join(cue.Lines, `\N`))
	}

	return sb.String()
}

func (w *LRCWriter) Serialize(doc *Document) string {
	var sb strings.Builder
	for _, key := range sortedKeys(doc.Meta) {
		tag := key
		if mapped, ok := lrcExportTags[strings.ToLower(key)]; ok {
			tag = mapped
		}
		fmt.Fprintf(&sb, "[%s:%s]\n", tag, doc.Meta[key])
	}
	for _, cue := range doc.Cues {
		fmt.Fprintf(&sb, "[%s]%s\n", formatLyricClock(cue.Start), strings.Join(cue.Lines, " "))
	}
	return sb.String()
}

// Subti has no escape for its "==" delimiter, so any "==" inside meta,
// names or text is written as "= =" to keep the output parseable.
func (w *SubtiWriter) Serialize(doc *Document) string {
	var sb strings.Builder
	for _, key := range sortedKeys(doc.Meta) {
		fmt.Fprintf(&sb, "%s = %s\n", breakDelimiter(key), breakDelimiter(doc.Meta[key]))
	}
	sb.WriteString(subtiDelimiter + "\n")
	for i, cue := range doc.Cues {
		sb.WriteString(breakDelimiter(doc.Name(i)))
		sb.WriteString("\n")
		fmt.Fprintf(&sb, "%s=>%s\n",
			FormatTimestamp(cue.Start, ":", "."),
			FormatTimestamp(cue.End, ":", "."))
		for _, line := range cue.Lines {
			sb.WriteString(breakDelimiter(line))
			sb.WriteString("\n")
		}
		sb.WriteString(subtiDelimiter + "\n")
	}
	return sb.String()
}

func breakDelimiter(s string) string {
	for strings.Contains(s, subtiDelimiter) {
		s = strings.ReplaceAll(s, subtiDelimiter, "= =")
	}
	return s
}

func writeLines(sb *strings.Builder, lines []string) {
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}

// map order is random, keep output stable
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}
