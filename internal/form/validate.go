package form

import (
	"fmt"
	"strings"
)

// ValidationError is a structured rejection of a template or answer set.
// It is always raised before any filesystem mutation, so a failed write
// never leaves a partially applied record behind.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// ValidateTemplate checks the structural invariants of a template:
// non-blank titles, at least one section, at least one question per section,
// known question types, options on choice questions, and question ids
// unique across the whole template.
func ValidateTemplate(t *Template) error {
	if strings.TrimSpace(t.Title) == "" {
		return invalidf("template title must not be blank")
	}
	if len(t.Sections) == 0 {
		return invalidf("template must contain at least one section")
	}

	seen := make(map[int]bool)
	for _, s := range t.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return invalidf("section title must not be blank")
		}
		if len(s.Questions) == 0 {
			return invalidf("section %q must contain at least one question", s.Title)
		}
		for _, q := range s.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return invalidf("section %q: question %d text must not be blank", s.Title, q.ID)
			}
			if err := ValidateQuestionType(q.Type); err != nil {
				return invalidf("section %q: question %d: %v", s.Title, q.ID, err)
			}
			if q.Type.IsChoice() && len(q.Options) == 0 {
				return invalidf("section %q: question %d of type %q must have options", s.Title, q.ID, q.Type)
			}
			if seen[q.ID] {
				return invalidf("duplicate question id %d", q.ID)
			}
			seen[q.ID] = true
		}
	}
	return nil
}

// ValidateAnswers checks an answer set against the template it targets.
// Every answer must reference an existing question id and carry a non-blank
// value. Partial submissions are allowed — not every question needs an
// answer — and duplicate answers to one question are not rejected.
func ValidateAnswers(t *Template, answers []Answer) error {
	ids := make(map[int]bool)
	for _, id := range t.QuestionIDs() {
		ids[id] = true
	}

	for _, a := range answers {
		if !ids[a.QuestionID] {
			return invalidf("answer references unknown question id %d", a.QuestionID)
		}
		if strings.TrimSpace(a.Value) == "" {
			return invalidf("answer to question %d must not be blank", a.QuestionID)
		}
	}
	return nil
}
