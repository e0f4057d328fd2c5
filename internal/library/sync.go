package library

import (
	"context"
	"fmt"

	"github.com/mgpai22/subtity/internal/logging"
	"github.com/mgpai22/subtity/internal/player"
)

// re-adds every stored entry to store and restores the saved session.
// Entries that no longer parse are skipped with a warning.
func (l *Library) Restore(ctx context.Context, store *player.Store, logger *logging.Logger) error {
	logger = logging.OrNop(logger)

	entries, err := l.List(ctx)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := store.Add(e.Title, e.RawText, e.Format, e.MovieRef); err != nil {
			logger.Warnw("skipping stored document", "title", e.Title, "error", err)
		}
	}

	st, ok, err := l.LoadSession(ctx)
	if err != nil || !ok {
		return err
	}
	if st.ActiveTitle == "" || !store.Use(st.ActiveTitle) {
		return nil
	}
	if st.Language != "" {
		if err := store.SwitchLanguage(st.Language); err != nil {
			logger.Warnw("could not restore language", "language", st.Language, "error", err)
		}
	}
	store.SetOffset(st.Offset)
	store.SetSpeed(st.Speed)
	store.SetActivated(st.Activated)
	if st.Style != nil {
		store.SetStyle(*st.Style)
	}
	return nil
}

// persists the playback session of store
func (l *Library) Snapshot(ctx context.Context, store *player.Store) error {
	s := store.Session()
	st := SessionState{
		ActiveTitle: s.ActiveTitle,
		Offset:      s.Offset,
		Speed:       s.Speed,
		Activated:   s.Activated,
		Style:       &s.Style,
	}
	if doc := store.Current(); doc != nil {
		st.Language = doc.Language
	}
	if err := l.SaveSession(ctx, st); err != nil {
		return fmt.Errorf("snapshot session: %w", err)
	}
	return nil
}
