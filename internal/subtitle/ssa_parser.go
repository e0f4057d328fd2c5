package subtitle

import (
	"fmt"
	"strings"
)

// SubStation Alpha / Advanced SubStation Alpha.
//
// Script Info lines become metadata. In Events the most recent Format line
// decides where Start, End, Name and Text sit in a Dialogue line, so the
// field order is never assumed.
func ParseSSA(text, title, movieRef string) (*Document, error) {
	doc := newDocument(FormatSSA, title, movieRef, text)

	section := ""
	var columns []string

	for lineNum, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "[") {
			end := strings.Index(trimmed, "]")
			if end > 0 {
				section = strings.ToLower(strings.TrimSpace(trimmed[1:end]))
				continue
			}
		}

		switch section {
		case "script info":
			if strings.HasPrefix(trimmed, ";") {
				continue
			}
			key, value, ok := strings.Cut(trimmed, ":")
			if !ok {
				continue
			}
			doc.Meta[strings.ReplaceAll(key, " ", "")] = strings.TrimSpace(value)

		case "events":
			subject, body, ok := strings.Cut(trimmed, ":")
			if !ok {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(subject)) {
			case "format":
				columns = splitFormatColumns(body)
			case "dialogue":
				if len(columns) == 0 {
					return nil, fmt.Errorf(
						"line %d: Dialogue before Format line",
						lineNum+1,
					)
				}
				cue, name, err := parseDialogue(columns, body)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum+1, err)
				}
				doc.Cues = append(doc.Cues, cue)
				doc.Names = append(doc.Names, name)
			}
		}
	}

	return doc.finish(), nil
}

func splitFormatColumns(body string) []string {
	columns := strings.Split(body, ",")
	for i, col := range columns {
		columns[i] = strings.ToLower(strings.TrimSpace(col))
	}
	return columns
}

func columnIndex(columns []string, name string) int {
	for i, col := range columns {
		if col == name {
			return i
		}
	}
	return -1
}

func parseDialogue(columns []string, body string) (Cue, string, error) {
	fields := splitASSFields(strings.TrimSpace(body), len(columns))

	startIdx := columnIndex(columns, "start")
	endIdx := columnIndex(columns, "end")
	textIdx := columnIndex(columns, "text")
	if startIdx < 0 || endIdx < 0 || textIdx < 0 {
		return Cue{}, "", fmt.Errorf("Format line lacks Start, End or Text")
	}
	if len(fields) <= startIdx || len(fields) <= endIdx || len(fields) <= textIdx {
		return Cue{}, "", fmt.Errorf(
			"expected %d fields, got %d",
			len(columns),
			len(fields),
		)
	}

	start, err := ParseTimestamp(fields[startIdx])
	if err != nil {
		return Cue{}, "", fmt.Errorf("start: %w", err)
	}
	end, err := ParseTimestamp(fields[endIdx])
	if err != nil {
		return Cue{}, "", fmt.Errorf("end: %w", err)
	}

	name := ""
	if nameIdx := columnIndex(columns, "name"); nameIdx >= 0 && nameIdx < len(fields) {
		name = strings.TrimSpace(fields[nameIdx])
	}

	return Cue{Start: start, End: end, Lines: dialogueLines(fields[textIdx])}, name, nil
}

// splits into at most numFields parts so the trailing free text keeps its commas
func splitASSFields(content string, numFields int) []string {
	if numFields <= 0 {
		return nil
	}

	parts := make([]string, 0, numFields)
	remaining := content

	for i := 0; i < numFields-1; i++ {
		idx := strings.Index(remaining, ",")
		if idx == -1 {
			parts = append(parts, remaining)
			return parts
		}
		parts = append(parts, remaining[:idx])
		remaining = remaining[idx+1:]
	}

	return append(parts, remaining)
}

// drops {\override} blocks and turns \N and \n into line breaks
func dialogueLines(text string) []string {
	var sb strings.Builder
	depth := 0
	for _, r := range text {
		switch {
		case r == '{':
			depth++
		case r == '}' && depth > 0:
			depth--
		case depth == 0:
			sb.WriteRune(r)
		}
	}

	cleaned := strings.NewReplacer(`\N`, "\n", `\n`, "\n", `\h`, " ").Replace(sb.String())
	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		lines = append(lines, strings.TrimSpace(line))
	}
	return lines
}
