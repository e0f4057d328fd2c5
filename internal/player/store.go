package player

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mgpai22/subtity/internal/logging"
	"github.com/mgpai22/subtity/internal/subtitle"
)

// keeps parsed documents by title and drives playback of the active one.
// All methods are safe for concurrent use.
type Store struct {
	mu sync.Mutex

	docs  map[string]*subtitle.Document
	order []string

	session  Session
	defaults Style

	mode     Mode
	renderer Renderer
	metrics  FontMetrics

	logger *logging.Logger
}

type Option func(*Store)

func WithLogger(l *logging.Logger) Option {
	return func(s *Store) { s.logger = logging.OrNop(l) }
}

// style a fresh session starts with
func WithDefaultStyle(style Style) Option {
	return func(s *Store) { s.defaults = style }
}

func WithFontMetrics(m FontMetrics) Option {
	return func(s *Store) {
		if m != nil {
			s.metrics = m
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		docs:     make(map[string]*subtitle.Document),
		defaults: DefaultStyle(),
		metrics:  ApproxMetrics{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.session = s.freshSession()
	return s
}

// parses text and stores it under title.
// An unrecognized format is ignored and returns (nil, nil); any other
// failure leaves the store untouched.
func (s *Store) Add(title, text, format, movieRef string) (*subtitle.Document, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTitle
	}
	if _, ok := subtitle.NormalizeFormat(format); !ok {
		s.logger.Warnw("ignoring document with unrecognized format",
			"title", title,
			"format", format,
		)
		return nil, nil
	}

	s.mu.Lock()
	_, exists := s.docs[title]
	s.mu.Unlock()
	if exists {
		s.logger.Warnw("document already loaded", "title", title)
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
	}

	doc, err := subtitle.Parse(format, title, movieRef, text)
	if err != nil {
		return nil, fmt.Errorf("add %q: %w", title, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// another caller may have won the race while we were parsing
	if _, exists := s.docs[title]; exists {
		s.logger.Warnw("document already loaded", "title", title)
		return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, title)
	}
	s.docs[title] = doc
	s.order = append(s.order, title)

	s.logger.Debugw("document added",
		"title", title,
		"format", doc.Format,
		"cues", doc.Count,
	)
	return doc.Clone(), nil
}

// makes title the active document with a fresh session.
// Unknown titles return false and change nothing.
func (s *Store) Use(title string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[title]
	if !ok {
		return false
	}

	s.resetLocked()
	doc.Active = true
	s.session.Activated = true
	s.session.load(doc)
	s.refreshLineHeight()

	s.logger.Debugw("document activated", "title", title, "cues", len(s.session.Cues))
	return true
}

// deletes title and returns the removed document.
// Removing the active document resets the session.
func (s *Store) Remove(title string) (*subtitle.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[title]
	if !ok {
		return nil, false
	}
	if s.session.ActiveTitle == title {
		s.resetLocked()
	}
	doc.Active = false
	delete(s.docs, title)
	for i, t := range s.order {
		if t == title {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	s.logger.Infow("document removed", "title", title)
	return doc, true
}

// deactivates the current document, switches display off and restores
// the default session
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Store) resetLocked() {
	if doc, ok := s.docs[s.session.ActiveTitle]; ok {
		doc.Active = false
	}
	s.session = s.freshSession()
}

func (s *Store) freshSession() Session {
	session := newSession(s.defaults)
	session.Style.LineHeight = s.metrics.LineHeight(session.Style.Family, session.Style.Size)
	return session
}

func (s *Store) refreshLineHeight() {
	st := &s.session.Style
	st.LineHeight = s.metrics.LineHeight(st.Family, st.Size)
}

// shifts the document timeline, positive values show cues later
func (s *Store) SetOffset(seconds float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Offset = seconds
}

func (s *Store) SetSpeed(speed float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Speed = speed
}

// updates one style field of the session
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recompute, err := s.session.Style.Set(key, value)
	if err != nil {
		return err
	}
	if recompute {
		s.refreshLineHeight()
	}
	return nil
}

// replaces the session style, line height is recomputed
func (s *Store) SetStyle(style Style) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Style = style
	s.refreshLineHeight()
}

// flips rendering on or off and returns the new state
func (s *Store) ToggleActivation() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Activated = !s.session.Activated
	return s.session.Activated
}

func (s *Store) SetActivated(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Activated = on
}

// copies of every stored document in insertion order
func (s *Store) Documents() []*subtitle.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*subtitle.Document, 0, len(s.order))
	for _, title := range s.order {
		out = append(out, s.docs[title].Clone())
	}
	return out
}

func (s *Store) Get(title string) (*subtitle.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[title]
	if !ok {
		return nil, false
	}
	return doc.Clone(), true
}

// copy of the current session
func (s *Store) Session() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.clone()
}

// copy of the active document, nil when none
func (s *Store) Current() *subtitle.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[s.session.ActiveTitle]
	if !ok {
		return nil
	}
	return doc.Clone()
}

// switches the active multi-language document to another track
func (s *Store) SwitchLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[s.session.ActiveTitle]
	if !ok {
		return ErrNoActiveDocument
	}
	if err := doc.SelectLanguage(lang); err != nil {
		return fmt.Errorf("switch %q to %s: %w", doc.Title, lang, err)
	}
	s.session.load(doc)

	s.logger.Debugw("language switched", "title", doc.Title, "language", lang)
	return nil
}

// configures how frames are displayed
func (s *Store) SetUp(mode Mode, r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	s.renderer = r
	s.refreshLineHeight()
}

// resolves the cue for playback time raw and hands it to the renderer.
// It does nothing and returns false unless a document is active, a
// display mode is set and the document has cues.
func (s *Store) Update(raw float64) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(raw)
}

func (s *Store) updateLocked(raw float64) ([]string, bool) {
	if s.session.ActiveTitle == "" || s.mode == ModeNone || len(s.session.Cues) == 0 {
		return nil, false
	}
	if !s.session.Activated {
		return nil, false
	}

	t := s.session.query(raw)
	frame := Frame{Time: t, Index: Resolve(s.session.Cues, t), Style: s.session.Style}
	if frame.Index >= 0 {
		frame.Lines = append([]string(nil), s.session.Cues[frame.Index].Lines...)
	}

	if s.renderer != nil {
		s.renderer.Render(frame)
	}
	return frame.Lines, true
}

// Update driven by a clock. A clock playing a different movie than the
// one the document is bound to is ignored.
func (s *Store) Tick(clock Clock) ([]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if doc, ok := s.docs[s.session.ActiveTitle]; ok {
		src := clock.SourceRef()
		if src != "" && doc.MovieRef != "" && src != doc.MovieRef {
			return nil, false
		}
	}
	return s.updateLocked(clock.CurrentTime())
}

// serializes the active document's working view
func (s *Store) Export(format string) (string, error) {
	f, ok := subtitle.NormalizeFormat(format)
	if !ok {
		return "", fmt.Errorf("%w: %s", subtitle.ErrExportUnsupported, format)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session.ActiveTitle == "" {
		return "", ErrNoActiveDocument
	}
	return subtitle.Export(f, s.session.view())
}
