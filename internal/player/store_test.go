package player

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mgpai22/subtity/internal/logging"
	"github.com/mgpai22/subtity/internal/subtitle"
)

const twoCues = `1
00:00:01,000 --> 00:00:03,000
first

2
00:00:05,000 --> 00:00:07,000
second
`

const overlapping = `1
00:00:00,000 --> 00:00:10,000
early

2
00:00:05,000 --> 00:00:15,000
late
`

type recordingRenderer struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *recordingRenderer) Render(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *recordingRenderer) last() Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames[len(r.frames)-1]
}

type fixedClock struct {
	at  float64
	src string
}

func (c fixedClock) CurrentTime() float64 { return c.at }
func (c fixedClock) SourceRef() string    { return c.src }

type countingMetrics struct {
	calls int
}

func (m *countingMetrics) LineHeight(family string, size float64) float64 {
	m.calls++
	return size * 2
}

func newPlayingStore(t *testing.T, text string) (*Store, *recordingRenderer) {
	t.Helper()
	s := NewStore()
	doc, err := s.Add("movie", text, "srt", "movie.mp4")
	require.NoError(t, err)
	require.NotNil(t, doc)
	require.True(t, s.Use("movie"))

	r := &recordingRenderer{}
	s.SetUp(ModeContainer, r)
	return s, r
}

func TestStore_AddAndGet(t *testing.T) {
	s := NewStore()

	doc, err := s.Add("movie", twoCues, "srt", "movie.mp4")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 2, doc.Count)
	assert.Equal(t, "movie.mp4", doc.MovieRef)

	got, ok := s.Get("movie")
	require.True(t, ok)
	assert.Equal(t, subtitle.FormatSRT, got.Format)
	assert.False(t, got.Active)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestStore_AddDuplicateLeavesStoreUnchanged(t *testing.T) {
	s := NewStore()
	_, err := s.Add("movie", twoCues, "srt", "")
	require.NoError(t, err)
	require.True(t, s.Use("movie"))
	before := s.Session()

	_, err = s.Add("movie", overlapping, "srt", "other.mp4")
	assert.ErrorIs(t, err, ErrDuplicateTitle)

	docs := s.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, 2, docs[0].Count)
	assert.Equal(t, []string{"first"}, docs[0].Cues[0].Lines)
	assert.Equal(t, before, s.Session())
}

func TestStore_AddEmptyTitle(t *testing.T) {
	s := NewStore()
	_, err := s.Add("  ", twoCues, "srt", "")
	assert.ErrorIs(t, err, ErrEmptyTitle)
	assert.Empty(t, s.Documents())
}

func TestStore_AddUnknownFormatIsIgnored(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	s := NewStore(WithLogger(logging.FromCore(core)))

	doc, err := s.Add("notes", "whatever", "docx", "")
	assert.NoError(t, err)
	assert.Nil(t, doc)
	assert.Empty(t, s.Documents())
	assert.Equal(t, 1, logs.FilterMessage("ignoring document with unrecognized format").Len())
}

func TestStore_AddParseErrorLeavesStoreUnchanged(t *testing.T) {
	s := NewStore()
	_, err := s.Add("bad", "1\n00:00:xx,000 --> 00:00:02,000\nhi\n", "srt", "")
	assert.ErrorIs(t, err, subtitle.ErrMalformedTimestamp)
	assert.Empty(t, s.Documents())

	// the title stays free
	_, err = s.Add("bad", twoCues, "srt", "")
	assert.NoError(t, err)
}

func TestStore_Use(t *testing.T) {
	s := NewStore()
	_, err := s.Add("a", twoCues, "srt", "")
	require.NoError(t, err)
	_, err = s.Add("b", overlapping, "srt", "")
	require.NoError(t, err)

	assert.False(t, s.Use("missing"))
	assert.Nil(t, s.Current())

	require.True(t, s.Use("a"))
	s.SetOffset(2)
	s.SetSpeed(1.5)

	require.True(t, s.Use("b"))
	session := s.Session()
	assert.Equal(t, "b", session.ActiveTitle)
	assert.Equal(t, 0.0, session.Offset)
	assert.Equal(t, 1.0, session.Speed)
	assert.Len(t, session.Cues, 2)
	assert.Equal(t, []string{"late"}, session.Cues[1].Lines)

	a, _ := s.Get("a")
	b, _ := s.Get("b")
	assert.False(t, a.Active)
	assert.True(t, b.Active)
	assert.Equal(t, "b", s.Current().Title)
}

func TestStore_UseUnknownKeepsSession(t *testing.T) {
	s, _ := newPlayingStore(t, twoCues)
	s.SetOffset(3)

	assert.False(t, s.Use("nope"))
	assert.Equal(t, 3.0, s.Session().Offset)
	assert.Equal(t, "movie", s.Session().ActiveTitle)
}

func TestStore_Remove(t *testing.T) {
	s := NewStore()
	_, err := s.Add("a", twoCues, "srt", "")
	require.NoError(t, err)

	_, ok := s.Remove("missing")
	assert.False(t, ok)

	removed, ok := s.Remove("a")
	require.True(t, ok)
	assert.Equal(t, "a", removed.Title)
	assert.Empty(t, s.Documents())
}

func TestStore_RemoveActiveThenUpdateIsNoop(t *testing.T) {
	s, r := newPlayingStore(t, twoCues)

	_, ok := s.Remove("movie")
	require.True(t, ok)

	lines, rendered := s.Update(2)
	assert.False(t, rendered)
	assert.Nil(t, lines)
	assert.Empty(t, r.frames)
	assert.Equal(t, "", s.Session().ActiveTitle)
	assert.False(t, s.Session().Activated)
}

func TestStore_UpdateResolvesCue(t *testing.T) {
	s, r := newPlayingStore(t, twoCues)

	lines, ok := s.Update(2)
	require.True(t, ok)
	assert.Equal(t, []string{"first"}, lines)
	assert.Equal(t, 0, r.last().Index)

	lines, ok = s.Update(4)
	require.True(t, ok)
	assert.Nil(t, lines)
	assert.Equal(t, -1, r.last().Index)

	lines, _ = s.Update(6)
	assert.Equal(t, []string{"second"}, lines)
}

func TestStore_UpdateOverlapPicksLaterCue(t *testing.T) {
	s, _ := newPlayingStore(t, overlapping)

	lines, ok := s.Update(7)
	require.True(t, ok)
	assert.Equal(t, []string{"late"}, lines)

	lines, _ = s.Update(2)
	assert.Equal(t, []string{"early"}, lines)
}

func TestStore_UpdateAppliesSpeedAndOffset(t *testing.T) {
	s, r := newPlayingStore(t, twoCues)
	s.SetSpeed(2)
	s.SetOffset(1)

	// 3*2 - 1 = 5
	lines, ok := s.Update(3)
	require.True(t, ok)
	assert.Equal(t, []string{"second"}, lines)
	assert.Equal(t, 5.0, r.last().Time)
}

func TestStore_UpdateRequiresModeAndActivation(t *testing.T) {
	s := NewStore()
	_, err := s.Add("movie", twoCues, "srt", "")
	require.NoError(t, err)

	_, ok := s.Update(2)
	assert.False(t, ok, "nothing active")

	require.True(t, s.Use("movie"))
	_, ok = s.Update(2)
	assert.False(t, ok, "no display mode")

	s.SetUp(ModeCanvas, nil)
	_, ok = s.Update(2)
	assert.True(t, ok)

	assert.False(t, s.ToggleActivation())
	_, ok = s.Update(2)
	assert.False(t, ok, "deactivated")

	s.SetActivated(true)
	_, ok = s.Update(2)
	assert.True(t, ok)
}

func TestStore_Tick(t *testing.T) {
	s, _ := newPlayingStore(t, twoCues)

	lines, ok := s.Tick(fixedClock{at: 2, src: "movie.mp4"})
	require.True(t, ok)
	assert.Equal(t, []string{"first"}, lines)

	_, ok = s.Tick(fixedClock{at: 2, src: "other.mp4"})
	assert.False(t, ok)

	lines, ok = s.Tick(fixedClock{at: 6})
	require.True(t, ok)
	assert.Equal(t, []string{"second"}, lines)
}

func TestStore_SetStyle(t *testing.T) {
	metrics := &countingMetrics{}
	s := NewStore(WithFontMetrics(metrics))
	before := metrics.calls

	require.NoError(t, s.Set("color", "red"))
	assert.Equal(t, before, metrics.calls, "color does not change line height")

	require.NoError(t, s.Set("size", "30"))
	assert.Equal(t, 60.0, s.Session().Style.LineHeight)

	require.NoError(t, s.Set("shawX", "4"))
	assert.Equal(t, 4.0, s.Session().Style.ShadowX)

	assert.ErrorIs(t, s.Set("sparkle", "on"), ErrUnknownStyle)
	assert.Error(t, s.Set("size", "big"))
}

func TestStore_ResetRestoresDefaults(t *testing.T) {
	custom := DefaultStyle()
	custom.Family = "Courier"
	s := NewStore(WithDefaultStyle(custom))
	_, err := s.Add("movie", twoCues, "srt", "")
	require.NoError(t, err)
	require.True(t, s.Use("movie"))
	require.True(t, s.Session().Activated)
	require.NoError(t, s.Set("family", "Verdana"))

	s.Reset()
	session := s.Session()
	assert.Equal(t, "", session.ActiveTitle)
	assert.False(t, session.Activated)
	assert.Equal(t, "Courier", session.Style.Family)
	assert.Empty(t, session.Cues)

	doc, _ := s.Get("movie")
	assert.False(t, doc.Active)
}

func TestStore_Export(t *testing.T) {
	s := NewStore()
	_, err := s.Export("srt")
	assert.ErrorIs(t, err, ErrNoActiveDocument)

	input := "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n"
	_, err = s.Add("movie", input, "srt", "")
	require.NoError(t, err)
	require.True(t, s.Use("movie"))

	out, err := s.Export("srt")
	require.NoError(t, err)
	assert.Equal(t, input, out)

	_, err = s.Export("usf")
	assert.ErrorIs(t, err, subtitle.ErrExportUnsupported)
}

func TestStore_SwitchLanguage(t *testing.T) {
	dfxp := `<tt><body>
<div xml:lang="en"><p begin="1s" end="2s">Hello</p></div>
<div xml:lang="es"><p begin="1s" end="2s">Hola</p></div>
</body></tt>`

	s := NewStore()
	assert.ErrorIs(t, s.SwitchLanguage("es"), ErrNoActiveDocument)

	_, err := s.Add("show", dfxp, "ttml", "")
	require.NoError(t, err)
	require.True(t, s.Use("show"))
	s.SetUp(ModeContainer, nil)

	lines, _ := s.Update(1.5)
	assert.Equal(t, []string{"Hello"}, lines)

	require.NoError(t, s.SwitchLanguage("es"))
	lines, _ = s.Update(1.5)
	assert.Equal(t, []string{"Hola"}, lines)

	assert.ErrorIs(t, s.SwitchLanguage("de"), subtitle.ErrUnknownLanguage)
}

func TestStore_LRCLastCueStaysVisible(t *testing.T) {
	s := NewStore()
	_, err := s.Add("song", "[00:01.00]line one\n[00:03.00]line two\n", "lrc", "")
	require.NoError(t, err)
	require.True(t, s.Use("song"))
	s.SetUp(ModeContainer, nil)

	lines, _ := s.Update(math.MaxInt32)
	assert.Equal(t, []string{"line two"}, lines)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s, _ := newPlayingStore(t, twoCues)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Update(float64(j % 8))
				s.SetOffset(float64(i))
				_ = s.Session()
			}
		}(i)
	}
	wg.Wait()
}
