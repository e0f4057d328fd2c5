package subtitle

import (
	"html"
	"strings"
	"unicode"
)

// extracts visible text from a fragment of inline markup.
//
// The scanner has two states. Outside a tag every rune is copied, with runs
// of source whitespace collapsed to one space. A '<' switches to the inside
// state only when it is immediately followed by a letter or '/', so a bare
// "< " stays literal text. Inside a tag everything up to the next '>' is
// dropped; a <br> tag emits a line break. Entities are decoded afterwards.
func stripTags(fragment string) []string {
	var (
		out    strings.Builder
		tag    strings.Builder
		inTag  bool
		spaced bool
	)

	runes := []rune(fragment)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if inTag {
			if r == '>' {
				inTag = false
				if isBreakTag(tag.String()) {
					out.WriteRune('\n')
					spaced = true
				}
				tag.Reset()
				continue
			}
			tag.WriteRune(r)
			continue
		}

		if r == '<' && i+1 < len(runes) && (unicode.IsLetter(runes[i+1]) || runes[i+1] == '/') {
			inTag = true
			continue
		}

		if unicode.IsSpace(r) {
			if !spaced {
				out.WriteRune(' ')
				spaced = true
			}
			continue
		}
		out.WriteRune(r)
		spaced = false
	}

	return splitTextLines(html.UnescapeString(out.String()))
}

func isBreakTag(tag string) bool {
	name := strings.ToLower(strings.TrimSpace(tag))
	name = strings.TrimSuffix(name, "/")
	name = strings.TrimSpace(name)
	return name == "br"
}

// trimmed, non-empty lines
func splitTextLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// attribute values of a tag's leading block, keyed by lower-cased name.
// Values may be double-quoted, single-quoted or bare.
func parseAttributes(block string) map[string]string {
	attrs := make(map[string]string)
	i := 0
	n := len(block)
	for i < n {
		for i < n && (block[i] == ' ' || block[i] == '\t' || block[i] == '\n' || block[i] == '\r') {
			i++
		}
		start := i
		for i < n && block[i] != '=' && block[i] != ' ' && block[i] != '>' && block[i] != '/' {
			i++
		}
		name := strings.ToLower(block[start:i])
		if i >= n || block[i] != '=' {
			if i < n {
				i++
			}
			continue
		}
		i++ // '='

		var value string
		if i < n && (block[i] == '"' || block[i] == '\'') {
			quote := block[i]
			i++
			end := strings.IndexByte(block[i:], quote)
			if end < 0 {
				value = block[i:]
				i = n
			} else {
				value = block[i : i+end]
				i += end + 1
			}
		} else {
			start := i
			for i < n && block[i] != ' ' && block[i] != '>' && !(block[i] == '/' && i+1 < n && block[i+1] == '>') {
				i++
			}
			value = block[start:i]
		}
		if name != "" {
			attrs[name] = value
		}
	}
	return attrs
}

// text between the first open marker and the following close marker
func between(text, open, close string) (string, bool) {
	i := strings.Index(text, open)
	if i < 0 {
		return "", false
	}
	rest := text[i+len(open):]
	j := strings.Index(rest, close)
	if j < 0 {
		return rest, false
	}
	return rest[:j], true
}

// first attribute present among names
func firstAttr(attrs map[string]string, names ...string) (string, bool) {
	for _, name := range names {
		if v, ok := attrs[name]; ok && strings.TrimSpace(v) != "" {
			return v, true
		}
	}
	return "", false
}

// normalizes line endings and splits into lines
func splitLines(text string) []string {
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
