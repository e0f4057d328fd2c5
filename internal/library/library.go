package library

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mgpai22/subtity/internal/library/migrations"
	"github.com/mgpai22/subtity/internal/player"
)

// no document with the requested title
var ErrNotFound = errors.New("not found")

// stored subtitle file. The raw text is kept so documents are re-parsed
// on load instead of persisting the parsed model.
type Entry struct {
	ID       string
	Title    string
	Format   string
	MovieRef string
	RawText  string
	CueCount int
	AddedAt  time.Time
}

// persisted playback session
type SessionState struct {
	ActiveTitle string
	Offset      float64
	Speed       float64
	Activated   bool
	Language    string
	Style       *player.Style
}

// SQLite backed document library shared by CLI invocations
type Library struct {
	db   *sql.DB
	path string
}

// opens or creates the database at path and applies pending migrations
func Open(path string) (*Library, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	l := &Library{db: db, path: path}
	if err := l.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return l, nil
}

func (l *Library) Close() error {
	return l.db.Close()
}

func (l *Library) Path() string {
	return l.path
}

func (l *Library) migrate(fsys embed.FS) error {
	_, err := l.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	row := l.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := l.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := l.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// inserts or replaces the entry with the same title
func (l *Library) Put(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = time.Now().UTC()
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, format, movie_ref, raw_text, cue_count, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			format = excluded.format,
			movie_ref = excluded.movie_ref,
			raw_text = excluded.raw_text,
			cue_count = excluded.cue_count
	`, e.ID, e.Title, e.Format, e.MovieRef, e.RawText, e.CueCount, e.AddedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("saving document: %w", err)
	}
	return e, nil
}

func (l *Library) Get(ctx context.Context, title string) (Entry, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, title, format, movie_ref, raw_text, cue_count, added_at
		FROM documents WHERE title = ?
	`, title)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("getting document: %w", err)
	}
	return e, nil
}

// every entry in the order it was added
func (l *Library) List(ctx context.Context) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, title, format, movie_ref, raw_text, cue_count, added_at
		FROM documents ORDER BY added_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// removes the entry, ErrNotFound when absent
func (l *Library) Delete(ctx context.Context, title string) error {
	res, err := l.db.ExecContext(ctx, "DELETE FROM documents WHERE title = ?", title)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (Entry, error) {
	var e Entry
	err := s.Scan(&e.ID, &e.Title, &e.Format, &e.MovieRef, &e.RawText, &e.CueCount, &e.AddedAt)
	return e, err
}

func (l *Library) SaveSession(ctx context.Context, st SessionState) error {
	styleJSON := ""
	if st.Style != nil {
		data, err := json.Marshal(st.Style)
		if err != nil {
			return fmt.Errorf("marshalling style: %w", err)
		}
		styleJSON = string(data)
	}

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO session (id, active_title, offset_secs, speed, activated, language, style)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			active_title = excluded.active_title,
			offset_secs = excluded.offset_secs,
			speed = excluded.speed,
			activated = excluded.activated,
			language = excluded.language,
			style = excluded.style
	`, st.ActiveTitle, st.Offset, st.Speed, st.Activated, st.Language, styleJSON)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// stored session, false when none was saved yet
func (l *Library) LoadSession(ctx context.Context) (SessionState, bool, error) {
	var (
		st        SessionState
		styleJSON string
	)
	err := l.db.QueryRowContext(ctx, `
		SELECT active_title, offset_secs, speed, activated, language, style
		FROM session WHERE id = 1
	`).Scan(&st.ActiveTitle, &st.Offset, &st.Speed, &st.Activated, &st.Language, &styleJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return SessionState{}, false, nil
	}
	if err != nil {
		return SessionState{}, false, fmt.Errorf("loading session: %w", err)
	}

	if styleJSON != "" {
		var style player.Style
		if err := json.Unmarshal([]byte(styleJSON), &style); err != nil {
			return SessionState{}, false, fmt.Errorf("unmarshalling style: %w", err)
		}
		st.Style = &style
	}
	return st, true, nil
}
