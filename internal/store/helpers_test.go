package store

import (
	"testing"
	"time"

	"github.com/clinio/formstore/internal/form"
)

// --- Shared test helpers ---

// newTestBackend returns a file backend rooted in a fresh temp directory.
func newTestBackend(t *testing.T) *FileBackend {
	t.Helper()
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	return b
}

// newTestStores wires a template store and a response store over separate
// file backends, mirroring the forms/ and responses/ split.
func newTestStores(t *testing.T) (*TemplateStore, *ResponseStore) {
	t.Helper()
	templates := NewTemplateStore(newTestBackend(t), nil)
	responses := NewResponseStore(newTestBackend(t), templates, nil)
	return templates, responses
}

// freezeClock pins the store clock at start and returns a function that
// advances it. The real clock is restored when the test ends.
func freezeClock(t *testing.T, start time.Time) func(d time.Duration) {
	t.Helper()
	now := start
	orig := timeNow
	timeNow = func() time.Time { return now }
	t.Cleanup(func() { timeNow = orig })
	return func(d time.Duration) { now = now.Add(d) }
}

// testTemplate builds a minimal valid template with one text question id=1
// and one number question id=2.
func testTemplate(title string) *form.Template {
	return &form.Template{
		Title: title,
		Sections: []form.Section{
			{
				Title: "General",
				Questions: []form.Question{
					{ID: 1, Text: "Full name", Type: form.TypeText},
					{ID: 2, Text: "Age", Type: form.TypeNumber},
				},
			},
		},
	}
}
