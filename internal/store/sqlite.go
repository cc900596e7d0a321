package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteBackend stores documents in a single-table embedded database.
// It satisfies the same contract as FileBackend; the serialized writer
// inside SQLite replaces the per-key mutexes.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if needed) the database at path and
// prepares the documents table.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite performance pragmas
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			name        TEXT PRIMARY KEY,
			body        BLOB NOT NULL,
			modified_at TEXT NOT NULL
		);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Close closes the underlying database connection.
func (sb *SQLiteBackend) Close() error {
	return sb.db.Close()
}

// Read returns the document bytes, or ErrNotFound.
func (sb *SQLiteBackend) Read(name string) ([]byte, error) {
	var body []byte
	err := sb.db.QueryRow(`SELECT body FROM documents WHERE name = ?`, name).Scan(&body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return body, nil
}

// Write creates or replaces the document, refreshing its modified time.
func (sb *SQLiteBackend) Write(name string, data []byte) error {
	_, err := sb.db.Exec(`
		INSERT INTO documents (name, body, modified_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, modified_at = excluded.modified_at`,
		name, data, timeNow().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Remove deletes the document, or reports ErrNotFound.
func (sb *SQLiteBackend) Remove(name string) error {
	res, err := sb.db.Exec(`DELETE FROM documents WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Exists reports whether the document is present.
func (sb *SQLiteBackend) Exists(name string) bool {
	var one int
	err := sb.db.QueryRow(`SELECT 1 FROM documents WHERE name = ?`, name).Scan(&one)
	return err == nil
}

// List enumerates every stored document with its last-modified time.
// Rows whose modified_at fails to parse get the zero time rather than
// being dropped.
func (sb *SQLiteBackend) List() ([]Entry, error) {
	rows, err := sb.db.Query(`SELECT name, modified_at FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var result []Entry
	for rows.Next() {
		var name, modified string
		if err := rows.Scan(&name, &modified); err != nil {
			return nil, fmt.Errorf("listing documents: %w", err)
		}
		mod, err := time.Parse(time.RFC3339, modified)
		if err != nil {
			mod = time.Time{}
		}
		result = append(result, Entry{Name: name, ModTime: mod})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return result, nil
}
