package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTranslationResults(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantCount int
		wantErr   bool
	}{
		{
			name:      "plain valid array",
			input:     `[{"index": 0, "text": "こんにちは"}, {"index": 1, "text": "さようなら"}]`,
			wantCount: 2,
		},
		{
			name: "preamble with valid array",
			input: `Here is the translation:
			[{"index": 0, "text": "Bonjour"}, {"index": 1, "text": "Au revoir"}]`,
			wantCount: 2,
		},
		{
			name:      "valid array with trailing text",
			input:     `[{"index": 0, "text": "Hola"}] I hope this helps!`,
			wantCount: 1,
		},
		{
			name:      "wrapper object with results key",
			input:     `{"results": [{"index": 0, "text": "Translated"}]}`,
			wantCount: 1,
		},
		{
			name:      "wrapper object with unknown key",
			input:     `{"output": [{"index": 0, "text": "Переведено"}]}`,
			wantCount: 1,
		},
		{name: "empty array", input: `[]`, wantErr: true},
		{name: "no JSON at all", input: `This is just plain text.`, wantErr: true},
		{name: "invalid JSON", input: `[{"index": 0, "text": "incomplete"`, wantErr: true},
		{name: "array with empty text", input: `[{"index": 0, "text": ""}]`, wantErr: true},
		{
			name:      "line break escape in text",
			input:     `[{"index": 0, "text": "first line\Nsecond line"}]`,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := extractTranslationResults(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, results, tt.wantCount)
		})
	}
}

func TestExtractKeepsLineBreakLiteral(t *testing.T) {
	results, err := extractTranslationResults(`[{"index": 0, "text": "a\Nb"}]`)
	require.NoError(t, err)
	assert.Equal(t, `a\Nb`, results[0].Text)
}

func TestCleanJSONResponse(t *testing.T) {
	tests := map[string]string{
		`[{"index": 0, "text": "hello"}]`:                   `[{"index": 0, "text": "hello"}]`,
		"```json\n[{\"index\": 0, \"text\": \"hello\"}]\n```": `[{"index": 0, "text": "hello"}]`,
		"```\n[{\"index\": 0}]\n```":                          `[{"index": 0}]`,
		"  \n\n```json\n[{\"index\": 0}]\n```\n\n  ":          `[{"index": 0}]`,
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanJSONResponse(in))
	}
}

func TestParseResults(t *testing.T) {
	_, err := parseResults("Test", "", 1)
	assert.ErrorContains(t, err, "no text in Test response")

	_, err = parseResults("Test", `[{"index": 0, "text": "a"}]`, 2)
	assert.ErrorContains(t, err, "expected 2 results, got 1")

	results, err := parseResults("Test", "```json\n[{\"index\": 3, \"text\": \"a\"}]\n```", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, results[0].Index)
}

func TestValidateResults(t *testing.T) {
	assert.False(t, validateResults(nil))
	assert.False(t, validateResults([]TranslationResult{{Index: 0}}))
	assert.True(t, validateResults([]TranslationResult{{Index: 0}, {Index: 1, Text: "ok"}}))
}
