package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileBackend stores one document per file in a single directory.
// Writes and removes to the same name are serialized through a per-key
// mutex, so two concurrent updates of one record cannot interleave
// (last writer still wins — there is no conflict detection).
type FileBackend struct {
	dir string

	mu    sync.Mutex // guards locks
	locks map[string]*sync.Mutex
}

// NewFileBackend creates the directory if absent and returns a backend
// rooted there.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating document directory: %w", err)
	}
	return &FileBackend{dir: dir, locks: make(map[string]*sync.Mutex)}, nil
}

// Dir returns the directory documents live in.
func (fb *FileBackend) Dir() string {
	return fb.dir
}

func (fb *FileBackend) keyLock(name string) *sync.Mutex {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	l, ok := fb.locks[name]
	if !ok {
		l = &sync.Mutex{}
		fb.locks[name] = l
	}
	return l
}

// Read returns the document bytes, or ErrNotFound.
func (fb *FileBackend) Read(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(fb.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Write creates or replaces the document.
func (fb *FileBackend) Write(name string, data []byte) error {
	l := fb.keyLock(name)
	l.Lock()
	defer l.Unlock()

	if err := os.WriteFile(filepath.Join(fb.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Remove deletes the document, or reports ErrNotFound.
func (fb *FileBackend) Remove(name string) error {
	l := fb.keyLock(name)
	l.Lock()
	defer l.Unlock()

	err := os.Remove(filepath.Join(fb.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

// Exists reports whether the document is present as a regular file.
func (fb *FileBackend) Exists(name string) bool {
	info, err := os.Stat(filepath.Join(fb.dir, name))
	return err == nil && info.Mode().IsRegular()
}

// List enumerates every *.json file (extension matched case-insensitively)
// with its last-modified time. Files that vanish between the directory scan
// and the stat are skipped.
func (fb *FileBackend) List() ([]Entry, error) {
	entries, err := os.ReadDir(fb.dir)
	if err != nil {
		return nil, fmt.Errorf("reading document directory: %w", err)
	}

	var result []Entry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		result = append(result, Entry{Name: entry.Name(), ModTime: info.ModTime()})
	}
	return result, nil
}
