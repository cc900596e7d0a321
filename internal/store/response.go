package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/clinio/formstore/internal/form"
)

// ResponseInfo is one row of a response listing: the decoded response plus
// the identifier it lives under.
type ResponseInfo struct {
	Filename         string        `json:"filename"`
	TemplateFilename string        `json:"templateFilename"`
	TemplateTitle    string        `json:"templateTitle"`
	SubmittedAt      time.Time     `json:"submittedAt"`
	Answers          []form.Answer `json:"answers"`
}

// FormattedDate renders the submission time for display.
func (i ResponseInfo) FormattedDate() string {
	return i.SubmittedAt.Format(form.DisplayTimeFormat)
}

// ResponseStore persists submitted answer sets. Every response targets a
// template held by the TemplateStore: the template is required at
// submission time (for validation and the title snapshot) but may be
// deleted afterwards — reads tolerate the dangling reference.
type ResponseStore struct {
	b         Backend
	templates *TemplateStore
	logger    *zap.Logger
}

// NewResponseStore wraps a backend and the template store responses
// validate against. A nil logger disables logging.
func NewResponseStore(b Backend, templates *TemplateStore, logger *zap.Logger) *ResponseStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseStore{b: b, templates: templates, logger: logger}
}

// Save validates the answers against the referenced template and persists a
// new response stamped with the current time and the template's title as it
// reads right now. Returns ErrNotFound if the template is absent (or its
// name unsafe), a *form.ValidationError for bad answers — both before any
// write — or a wrapped persistence error.
func (rs *ResponseStore) Save(templateFilename string, answers []form.Answer) (string, error) {
	template := rs.templates.Get(templateFilename)
	if template == nil {
		rs.logger.Warn("template not found for response", zap.String("template", templateFilename))
		return "", ErrNotFound
	}

	if err := form.ValidateAnswers(template, answers); err != nil {
		return "", err
	}

	response := &form.Response{
		TemplateFilename: templateFilename,
		TemplateTitle:    template.Title,
		SubmittedAt:      timeNow(),
		Answers:          answers,
	}

	name := mintName(rs.b, ResponsePrefix)
	if err := rs.write(name, response); err != nil {
		rs.logger.Error("saving response", zap.String("name", name), zap.Error(err))
		return "", err
	}
	rs.logger.Info("response saved", zap.String("name", name))
	return name, nil
}

// Get loads a response by identifier. Nil for unsafe, missing or corrupt —
// indistinguishable to the caller, same as TemplateStore.Get.
func (rs *ResponseStore) Get(name string) *form.Response {
	if !IsSafeName(name) {
		rs.logger.Warn("invalid response name requested", zap.String("name", name))
		return nil
	}

	data, err := rs.b.Read(name)
	if err != nil {
		rs.logger.Warn("response not found", zap.String("name", name))
		return nil
	}

	var r form.Response
	if err := json.Unmarshal(data, &r); err != nil {
		rs.logger.Error("parsing response", zap.String("name", name), zap.Error(err))
		return nil
	}
	return &r
}

// Update replaces a response's answers wholesale, keeping the original
// submission timestamp and template snapshot. The response must still
// exist, and so must its originating template — the new answers are
// re-validated against it. As with TemplateStore.Update, the error is
// non-nil only for a validation failure; everything else is ok=false.
func (rs *ResponseStore) Update(name string, answers []form.Answer) (bool, error) {
	existing := rs.Get(name)
	if existing == nil {
		rs.logger.Warn("response not found for update", zap.String("name", name))
		return false, nil
	}

	template := rs.templates.Get(existing.TemplateFilename)
	if template == nil {
		rs.logger.Warn("template not found for response update",
			zap.String("name", name), zap.String("template", existing.TemplateFilename))
		return false, nil
	}

	if err := form.ValidateAnswers(template, answers); err != nil {
		return false, err
	}

	existing.Answers = answers
	if err := rs.write(name, existing); err != nil {
		rs.logger.Error("updating response", zap.String("name", name), zap.Error(err))
		return false, nil
	}
	rs.logger.Info("response updated", zap.String("name", name))
	return true, nil
}

// Delete removes a response. True only if the record existed and was removed.
func (rs *ResponseStore) Delete(name string) bool {
	if !IsSafeName(name) {
		rs.logger.Warn("invalid response name for deletion", zap.String("name", name))
		return false
	}
	if err := rs.b.Remove(name); err != nil {
		rs.logger.Warn("response not deleted", zap.String("name", name), zap.Error(err))
		return false
	}
	rs.logger.Info("response deleted", zap.String("name", name))
	return true
}

func (rs *ResponseStore) write(name string, r *form.Response) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling response: %w", err)
	}
	if err := rs.b.Write(name, data); err != nil {
		return fmt.Errorf("persisting response: %w", err)
	}
	return nil
}
