package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mgpai22/subtity/internal/subtitle"
)

// upper-cases every item and records batch sizes
type fakeTranslator struct {
	mu        sync.Mutex
	batches   []int
	inFlight  atomic.Int32
	maxFlight atomic.Int32
	failOn    int
	delay     time.Duration
}

func (f *fakeTranslator) TranslateBatch(ctx context.Context, items []TranslationItem) ([]TranslationResult, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxFlight.Load()
		if n <= m || f.maxFlight.CompareAndSwap(m, n) {
			break
		}
	}

	f.mu.Lock()
	f.batches = append(f.batches, len(items))
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.failOn >= 0 {
		for _, it := range items {
			if it.Index == f.failOn {
				return nil, errors.New("boom")
			}
		}
	}

	out := make([]TranslationResult, len(items))
	for i, it := range items {
		out[i] = TranslationResult{Index: it.Index, Text: strings.ToUpper(it.Text)}
	}
	return out, nil
}

func makeItems(n int) []TranslationItem {
	items := make([]TranslationItem, n)
	for i := range items {
		items[i] = TranslationItem{Index: i, Text: fmt.Sprintf("line %d", i)}
	}
	return items
}

func TestFactory(t *testing.T) {
	ctx := context.Background()

	tr, err := Factory(ctx, ProviderGemini, "fake-key", Options{TargetLanguage: "Japanese"})
	require.NoError(t, err)
	assert.IsType(t, &GeminiTranslator{}, tr)

	tr, err = Factory(ctx, ProviderOpenAI, "fake-key", Options{TargetLanguage: "Spanish"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAITranslator{}, tr)

	tr, err = Factory(ctx, ProviderAnthropic, "fake-key", Options{TargetLanguage: "French"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicTranslator{}, tr)
}

func TestFactoryErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Factory(ctx, ProviderGemini, "fake-key", Options{})
	assert.Error(t, err, "missing target language")

	_, err = Factory(ctx, Provider("unknown"), "fake-key", Options{TargetLanguage: "French"})
	assert.Error(t, err)

	_, err = Factory(ctx, ProviderOpenAI, "", Options{TargetLanguage: "French"})
	assert.Error(t, err, "missing API key")
}

func TestTranslate_BatchesAndOrders(t *testing.T) {
	f := &fakeTranslator{failOn: -1}

	results, err := Translate(context.Background(), f, makeItems(7), Options{BatchSize: 3, Concurrency: 2})
	require.NoError(t, err)
	require.Len(t, results, 7)
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.Equal(t, fmt.Sprintf("LINE %d", i), r.Text)
	}
	assert.ElementsMatch(t, []int{3, 3, 1}, f.batches)
}

func TestTranslate_RespectsConcurrency(t *testing.T) {
	f := &fakeTranslator{failOn: -1, delay: 20 * time.Millisecond}

	_, err := Translate(context.Background(), f, makeItems(10), Options{BatchSize: 1, Concurrency: 2})
	require.NoError(t, err)
	assert.LessOrEqual(t, f.maxFlight.Load(), int32(2))
}

func TestTranslate_FirstErrorWins(t *testing.T) {
	f := &fakeTranslator{failOn: 4}

	_, err := Translate(context.Background(), f, makeItems(6), Options{BatchSize: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batch 2 failed")
}

func TestTranslate_Empty(t *testing.T) {
	results, err := Translate(context.Background(), &fakeTranslator{failOn: -1}, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTranslate_RateLimited(t *testing.T) {
	f := &fakeTranslator{failOn: -1}
	start := time.Now()

	_, err := Translate(context.Background(), f, makeItems(3), Options{BatchSize: 1, RequestsPerSecond: 20})
	require.NoError(t, err)
	// burst of one: the second and third request wait 50ms each
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestDocument(t *testing.T) {
	doc, err := subtitle.ParseSRT("1\n00:00:01,000 --> 00:00:02,000\nhello\nthere\n\n2\n00:00:03,000 --> 00:00:04,000\nbye\n", "movie", "movie.mp4")
	require.NoError(t, err)

	items := Items(doc)
	require.Len(t, items, 2)
	assert.Equal(t, `hello\Nthere`, items[0].Text)

	out, err := Document(context.Background(), &fakeTranslator{failOn: -1}, doc, "movie.es", false, Options{})
	require.NoError(t, err)
	assert.Equal(t, "movie.es", out.Title)
	assert.Equal(t, "movie.mp4", out.MovieRef)
	assert.Equal(t, []string{"HELLO", "THERE"}, out.Cues[0].Lines)
	assert.Equal(t, []string{"BYE"}, out.Cues[1].Lines)
	assert.Equal(t, []string{"hello", "there"}, doc.Cues[0].Lines, "source untouched")
}

func TestApplyIgnoresUnknownIndices(t *testing.T) {
	doc, err := subtitle.ParseSRT("1\n00:00:01,000 --> 00:00:02,000\nhi\n", "m", "")
	require.NoError(t, err)

	out := Apply(doc, []TranslationResult{{Index: 5, Text: "x"}, {Index: 0, Text: " "}}, "m.fr", false)
	assert.Equal(t, []string{"hi"}, out.Cues[0].Lines)
}

func TestApplyOverlay(t *testing.T) {
	doc, err := subtitle.ParseSRT("1\n00:00:01,000 --> 00:00:02,000\nhi\n", "m", "")
	require.NoError(t, err)

	out := Apply(doc, []TranslationResult{{Index: 0, Text: "salut"}}, "m.fr", true)
	assert.Equal(t, []string{"salut", "hi"}, out.Cues[0].Lines)
}

func TestBuildPrompt(t *testing.T) {
	items := []TranslationItem{
		{Index: 0, Text: "Hello world"},
		{Index: 1, Text: "Goodbye"},
	}

	prompt := BuildPrompt(Options{InputLanguage: "English", TargetLanguage: "Japanese"}, items)
	assert.Contains(t, prompt, "English subtitle texts")
	assert.Contains(t, prompt, "to Japanese")
	assert.Contains(t, prompt, "Hello world")
	assert.Contains(t, prompt, `"index": 0`)

	prompt = BuildPrompt(Options{TargetLanguage: "Spanish", Prompt: "keep names"}, items[:1])
	assert.NotContains(t, prompt, "English")
	assert.Contains(t, prompt, "to Spanish")
	assert.Contains(t, prompt, "Additional instructions: keep names")
}
