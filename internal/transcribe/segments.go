package transcribe

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mgpai22/subtity/internal/subtitle"
)

// timed phrase as returned by the models
type segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response from the OpenAI audio endpoints
type verboseResponse struct {
	Text     string    `json:"text"`
	Segments []segment `json:"segments"`
	Duration float64   `json:"duration"`
}

var codeFence = regexp.MustCompile("```(?:json)?\\s*")

// segments to cues, blank text dropped and inverted ranges clamped
func toCues(segments []segment) []subtitle.Cue {
	cues := make([]subtitle.Cue, 0, len(segments))
	for _, s := range segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		end := s.End
		if end < s.Start {
			end = s.Start
		}
		cues = append(cues, subtitle.Cue{
			Start: s.Start,
			End:   end,
			Lines: strings.Split(text, "\n"),
		})
	}
	return cues
}

// parses the JSON array a chat model answered with
func parseSegments(text string) ([]subtitle.Cue, error) {
	text = strings.TrimSpace(codeFence.ReplaceAllString(text, ""))
	text = strings.TrimSpace(strings.ReplaceAll(text, "```", ""))
	if text == "" {
		return nil, fmt.Errorf("empty transcription response")
	}

	var segments []segment
	if err := json.Unmarshal([]byte(text), &segments); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w (response: %s)", err, truncate(text, 200))
	}
	return toCues(segments), nil
}

// parses verbose_json, falling back to one cue spanning the audio
func parseVerbose(raw string, fallback float64) ([]subtitle.Cue, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty response")
	}

	var resp verboseResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse verbose_json response: %w", err)
	}

	if len(resp.Segments) == 0 {
		if strings.TrimSpace(resp.Text) == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		end := fallback
		if resp.Duration > 0 {
			end = resp.Duration
		}
		return toCues([]segment{{Start: 0, End: end, Text: resp.Text}}), nil
	}
	return toCues(resp.Segments), nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
