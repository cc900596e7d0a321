package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/clinio/formstore/internal/form"
)

// Sentinel titles used in listings so one bad record never hides the rest.
const (
	// FailedLoadTitle marks a record that exists but does not parse.
	FailedLoadTitle = "failed to load"
	// UntitledTitle stands in for a blank title on an otherwise valid record.
	UntitledTitle = "untitled"
)

// TemplateInfo is one row of the template listing. CreatedAt comes from the
// backend's last-modified time, not from anything inside the document.
type TemplateInfo struct {
	Filename  string    `json:"filename"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// FormattedDate renders the creation time for display.
func (i TemplateInfo) FormattedDate() string {
	return i.CreatedAt.Format(form.DisplayTimeFormat)
}

// TemplateStore persists questionnaire templates, one pretty-printed JSON
// document per record.
type TemplateStore struct {
	b      Backend
	logger *zap.Logger
}

// NewTemplateStore wraps a backend. A nil logger disables logging.
func NewTemplateStore(b Backend, logger *zap.Logger) *TemplateStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TemplateStore{b: b, logger: logger}
}

// Save validates the template, mints a fresh identifier and persists it.
// Validation failures (*form.ValidationError) are reported before any
// backend write happens.
func (ts *TemplateStore) Save(t *form.Template) (string, error) {
	if err := form.ValidateTemplate(t); err != nil {
		return "", err
	}

	name := mintName(ts.b, TemplatePrefix)
	if err := ts.write(name, t); err != nil {
		ts.logger.Error("saving template", zap.String("name", name), zap.Error(err))
		return "", err
	}
	ts.logger.Info("template saved", zap.String("name", name))
	return name, nil
}

// Get loads a template by identifier. It returns nil for an unsafe name, a
// missing record or a record that fails to parse — the three cases are
// deliberately indistinguishable to the caller.
func (ts *TemplateStore) Get(name string) *form.Template {
	if !IsSafeName(name) {
		ts.logger.Warn("invalid template name requested", zap.String("name", name))
		return nil
	}

	data, err := ts.b.Read(name)
	if err != nil {
		ts.logger.Warn("template not found", zap.String("name", name))
		return nil
	}

	var t form.Template
	if err := json.Unmarshal(data, &t); err != nil {
		ts.logger.Error("parsing template", zap.String("name", name), zap.Error(err))
		return nil
	}
	return &t
}

// Update validates the template and overwrites an existing record in place.
// The returned error is non-nil only for a validation failure, raised
// before any I/O; every other failure (unsafe name, missing record, write
// error) comes back as ok=false for the caller to report generically.
func (ts *TemplateStore) Update(name string, t *form.Template) (bool, error) {
	if !IsSafeName(name) {
		ts.logger.Warn("invalid template name for update", zap.String("name", name))
		return false, nil
	}

	if err := form.ValidateTemplate(t); err != nil {
		return false, err
	}

	if !ts.b.Exists(name) {
		ts.logger.Warn("template not found for update", zap.String("name", name))
		return false, nil
	}

	if err := ts.write(name, t); err != nil {
		ts.logger.Error("updating template", zap.String("name", name), zap.Error(err))
		return false, nil
	}
	ts.logger.Info("template updated", zap.String("name", name))
	return true, nil
}

// Delete removes a template. True only if the record existed and was removed.
func (ts *TemplateStore) Delete(name string) bool {
	if !IsSafeName(name) {
		ts.logger.Warn("invalid template name for deletion", zap.String("name", name))
		return false
	}
	if err := ts.b.Remove(name); err != nil {
		ts.logger.Warn("template not deleted", zap.String("name", name), zap.Error(err))
		return false
	}
	ts.logger.Info("template deleted", zap.String("name", name))
	return true
}

// List enumerates every stored template, newest first. A record that fails
// to parse still appears, under FailedLoadTitle, so the listing never
// shrinks because one file is corrupt. A backend enumeration failure yields
// an empty listing rather than an error.
func (ts *TemplateStore) List() []TemplateInfo {
	entries, err := ts.b.List()
	if err != nil {
		ts.logger.Error("listing templates", zap.Error(err))
		return nil
	}

	var result []TemplateInfo
	for _, entry := range entries {
		info := TemplateInfo{Filename: entry.Name, CreatedAt: entry.ModTime}

		data, err := ts.b.Read(entry.Name)
		if err == nil {
			var t form.Template
			err = json.Unmarshal(data, &t)
			if err == nil {
				info.Title = t.Title
				if info.Title == "" {
					info.Title = UntitledTitle
				}
			}
		}
		if err != nil {
			ts.logger.Warn("failed to load template for listing",
				zap.String("name", entry.Name), zap.Error(err))
			info.Title = FailedLoadTitle
		}

		result = append(result, info)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// write marshals a template and hands it to the backend. Pretty-printed so
// the documents stay hand-editable.
func (ts *TemplateStore) write(name string, t *form.Template) error {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling template: %w", err)
	}
	if err := ts.b.Write(name, data); err != nil {
		return fmt.Errorf("persisting template: %w", err)
	}
	return nil
}
