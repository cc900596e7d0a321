// Package form defines the questionnaire data model: templates a clinician
// authors, and responses patients submit against them.
//
// A template is an ordered list of titled sections, each holding questions
// with a type drawn from a fixed enumeration. A response references its
// originating template by stored filename only (a weak reference — the
// template may have been deleted since) and snapshots the template title at
// submission time so later template edits never rewrite history.
//
// Design follows the store layer's principles:
// - types and validation live here; persistence lives in internal/store
// - enums are typed strings validated through a set, not free-form text
package form

import (
	"fmt"
	"time"
)

// DisplayTimeFormat renders timestamps for listing views.
const DisplayTimeFormat = "2006-01-02 15:04:05"

// --- Question type enum ---

// QuestionType is the input widget a question renders as.
type QuestionType string

const (
	TypeText     QuestionType = "text"
	TypeNumber   QuestionType = "number"
	TypeRadio    QuestionType = "radio"
	TypeCheckbox QuestionType = "checkbox"
	TypeTextarea QuestionType = "textarea"
)

// validQuestionTypes is the set of allowed question types.
var validQuestionTypes = map[QuestionType]bool{
	TypeText:     true,
	TypeNumber:   true,
	TypeRadio:    true,
	TypeCheckbox: true,
	TypeTextarea: true,
}

// ValidateQuestionType returns an error if the type is not recognized.
func ValidateQuestionType(t QuestionType) error {
	if !validQuestionTypes[t] {
		return fmt.Errorf("invalid question type %q: must be one of: text, number, radio, checkbox, textarea", t)
	}
	return nil
}

// IsChoice reports whether the type requires a non-empty option list.
func (t QuestionType) IsChoice() bool {
	return t == TypeRadio || t == TypeCheckbox
}

// --- Documents ---

// Option is one selectable choice of a radio/checkbox question.
type Option struct {
	Text              string `json:"text"`
	HasAdditionalText bool   `json:"hasAdditionalText"`
}

// Question is a single prompt inside a section. IDs must be unique across
// the whole template, not just within a section.
type Question struct {
	ID      int          `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []Option     `json:"options"`
}

// Section is an ordered, titled group of questions.
type Section struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Template is a versionless questionnaire definition. ExportPattern is free
// text with {{questionId}} placeholders used to render a response as prose;
// empty means the template cannot be exported.
type Template struct {
	Title         string    `json:"title"`
	Sections      []Section `json:"sections"`
	ExportPattern string    `json:"exportFormBlank"`
}

// QuestionIDs returns every question id in document order.
func (t *Template) QuestionIDs() []int {
	var ids []int
	for _, s := range t.Sections {
		for _, q := range s.Questions {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// Answer is one captured value keyed by question id.
type Answer struct {
	QuestionID int    `json:"questionId"`
	Value      string `json:"value"`
}

// Response is one patient's submission against a template, captured at one
// point in time. TemplateFilename is a weak reference; TemplateTitle is the
// snapshot taken when the response was first saved.
type Response struct {
	TemplateFilename string    `json:"templateFilename"`
	TemplateTitle    string    `json:"templateTitle"`
	SubmittedAt      time.Time `json:"submittedAt"`
	Answers          []Answer  `json:"answers"`
}

// AnswerValues returns answers keyed by question id. Duplicate answers to
// the same question are not rejected by validation; the last one wins here.
func (r *Response) AnswerValues() map[int]string {
	m := make(map[int]string, len(r.Answers))
	for _, a := range r.Answers {
		m[a.QuestionID] = a.Value
	}
	return m
}

// FormattedDate renders the submission time for display.
func (r *Response) FormattedDate() string {
	return r.SubmittedAt.Format(DisplayTimeFormat)
}
