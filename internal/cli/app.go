package cli

import (
	"context"
	"fmt"

	"github.com/mgpai22/subtity/internal/config"
	"github.com/mgpai22/subtity/internal/library"
	"github.com/mgpai22/subtity/internal/logging"
	"github.com/mgpai22/subtity/internal/player"
	"github.com/mgpai22/subtity/internal/subtitle"
)

// state shared by every command of one invocation
type app struct {
	verbose     bool
	configPath  string
	libraryPath string

	logger *logging.Logger
	cfg    *config.Config
	lib    *library.Library
	store  *player.Store
}

// loads config, opens the library and rebuilds the store from it
func (a *app) open(ctx context.Context) error {
	a.logger = logging.NewLogger(a.verbose)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	path := a.libraryPath
	if path == "" {
		if path, err = cfg.LibraryPath(); err != nil {
			return err
		}
	}
	lib, err := library.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	a.lib = lib

	a.store = player.NewStore(
		player.WithLogger(a.logger),
		player.WithDefaultStyle(cfg.Style),
	)
	if err := lib.Restore(ctx, a.store, a.logger); err != nil {
		return fmt.Errorf("failed to restore library: %w", err)
	}

	a.logger.Debugw("library loaded",
		"path", path,
		"documents", len(a.store.Documents()),
	)
	return nil
}

func (a *app) persistSession(ctx context.Context) error {
	if a.lib == nil {
		return nil
	}
	return a.lib.Snapshot(ctx, a.store)
}

func (a *app) close() {
	if a.lib != nil {
		a.lib.Close()
		a.lib = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// adds a document to the store and records it in the library
func (a *app) addDocument(ctx context.Context, title, text string, format subtitle.Format, movieRef string) (*subtitle.Document, error) {
	doc, err := a.store.Add(title, text, string(format), movieRef)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", subtitle.ErrUnrecognizedFormat, format)
	}

	_, err = a.lib.Put(ctx, library.Entry{
		Title:    doc.Title,
		Format:   string(doc.Format),
		MovieRef: doc.MovieRef,
		RawText:  text,
		CueCount: doc.Count,
	})
	if err != nil {
		a.store.Remove(doc.Title)
		return nil, err
	}

	a.logger.Infow("Document added",
		"title", doc.Title,
		"format", doc.Format,
		"cues", doc.Count,
	)
	return doc, nil
}

// the active document or ErrNoActiveDocument
func (a *app) current() (*subtitle.Document, error) {
	doc := a.store.Current()
	if doc == nil {
		return nil, fmt.Errorf("%w: run `subtity use TITLE` first", player.ErrNoActiveDocument)
	}
	return doc, nil
}
