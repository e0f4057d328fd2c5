package player

import "errors"

var (
	// a document with the same title is already in the store
	ErrDuplicateTitle = errors.New("duplicate title")

	// documents are keyed by title, an empty one cannot be stored
	ErrEmptyTitle = errors.New("empty title")

	// the operation needs an active document
	ErrNoActiveDocument = errors.New("no active document")

	// style key not recognized by Set
	ErrUnknownStyle = errors.New("unknown style key")
)
