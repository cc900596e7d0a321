package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// --- FileBackend ---

func TestFileBackend_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "forms")
	if _, err := NewFileBackend(dir); err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("path is not a directory")
	}
}

func TestFileBackend_WriteReadRoundTrip(t *testing.T) {
	b := newTestBackend(t)

	if err := b.Write("a.json", []byte(`{"x":1}`)); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := b.Read("a.json")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != `{"x":1}` {
		t.Errorf("Read = %s, want {\"x\":1}", data)
	}
}

func TestFileBackend_ReadMissingIsNotFound(t *testing.T) {
	b := newTestBackend(t)

	if _, err := b.Read("missing.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Read error = %v, want ErrNotFound", err)
	}
}

func TestFileBackend_RemoveAndExists(t *testing.T) {
	b := newTestBackend(t)

	if b.Exists("a.json") {
		t.Error("Exists = true before write")
	}
	if err := b.Write("a.json", []byte("{}")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !b.Exists("a.json") {
		t.Error("Exists = false after write")
	}

	if err := b.Remove("a.json"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if b.Exists("a.json") {
		t.Error("Exists = true after remove")
	}
	if err := b.Remove("a.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Remove = %v, want ErrNotFound", err)
	}
}

func TestFileBackend_ListFiltersNonJSON(t *testing.T) {
	b := newTestBackend(t)

	for _, name := range []string{"a.json", "b.JSON"} {
		if err := b.Write(name, []byte("{}")); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(b.Dir(), "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if err := os.Mkdir(filepath.Join(b.Dir(), "sub.json"), 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	entries, err := b.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("List returned %d entries, want 2", len(entries))
	}
	for _, e := range entries {
		if e.ModTime.IsZero() {
			t.Errorf("entry %s has zero ModTime", e.Name)
		}
	}
}

func TestFileBackend_ConcurrentWritesToOneKey(t *testing.T) {
	b := newTestBackend(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = b.Write("contended.json", []byte(`{"n":1}`))
		}()
	}
	wg.Wait()

	data, err := b.Read("contended.json")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != `{"n":1}` {
		t.Errorf("Read = %s, want intact document", data)
	}
}
