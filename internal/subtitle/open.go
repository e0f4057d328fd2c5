package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// turns raw file content into a document
type ParseFunc func(text, title, movieRef string) (*Document, error)

var parsers = map[Format]ParseFunc{
	FormatSRT:    ParseSRT,
	FormatWebVTT: ParseWebVTT,
	FormatSBV:    ParseSBV,
	FormatSSA:    ParseSSA,
	FormatITT:    ParseITT,
	FormatUSF:    ParseUSF,
	FormatSubti:  ParseSubti,
	FormatLRC:    ParseLRC,
	FormatRT:     ParseRT,
	FormatXML:    ParseXML,
	FormatDFXP:   ParseDFXP,
}

// parses text with the parser selected by the format token.
// The returned document is complete; on error nothing is returned.
func Parse(format, title, movieRef, text string) (*Document, error) {
	f, ok := NormalizeFormat(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedFormat, format)
	}
	doc, err := parsers[f](text, title, movieRef)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", f, err)
	}
	return doc, nil
}

// reads a subtitle file and parses it according to its extension.
// The title defaults to the file name.
func Open(path string) (*Document, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := NormalizeFormat(ext); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnrecognizedFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subtitle file: %w", err)
	}

	return Parse(ext, filepath.Base(path), "", string(data))
}
