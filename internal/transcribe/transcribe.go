package transcribe

import (
	"context"
	"fmt"

	"github.com/mgpai22/subtity/internal/subtitle"
)

// turns speech in an audio file into timed cues
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) ([]subtitle.Cue, error)
}

// transcription service provider
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderOpenAI Provider = "openai"
)

type Options struct {
	Language           string // spoken language of the audio
	TranscriptLanguage string // language of the cues, "native" keeps the spoken one
	Model              string
	Prompt             string
}

// creates Transcriber based on provider
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiTranscriber(ctx, apiKey, opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", provider)
	}
}
