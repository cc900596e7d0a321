// Package store persists questionnaire templates and responses as keyed
// JSON documents and answers the queries the rest of the application asks
// of them: filtered pagination, latest-N summaries, distinct titles, and
// free-text export.
//
// Documents are reached through the Backend interface — an identifier→bytes
// mapping with tolerant listing — so the stores, the query engine and the
// export renderer never know whether a directory of files or an embedded
// SQLite database backs them. Two implementations exist: FileBackend
// (one .json file per record, writes serialized per key) and SQLiteBackend.
package store

import (
	"errors"
	"time"
)

// ErrNotFound reports that a record, or a record it links to, is absent.
// Unsafe identifiers are deliberately indistinguishable from missing ones
// so callers never learn anything about paths outside the store.
var ErrNotFound = errors.New("record not found")

// Entry is one listed document: its identifier and last-modified time.
type Entry struct {
	Name    string
	ModTime time.Time
}

// Backend is a keyed document mapping. Names are assumed already vetted by
// IsSafeName; backends do not re-check.
type Backend interface {
	// Read returns the document bytes, or ErrNotFound.
	Read(name string) ([]byte, error)
	// Write creates or replaces the document.
	Write(name string, data []byte) error
	// Remove deletes the document. Returns ErrNotFound if absent.
	Remove(name string) error
	// Exists reports whether the document is present.
	Exists(name string) bool
	// List enumerates every stored document. Order is unspecified.
	List() ([]Entry, error)
}
