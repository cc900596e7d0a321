package store

import (
	"errors"
	"testing"

	"github.com/clinio/formstore/internal/form"
)

func exportFixture(t *testing.T, pattern string, answers []form.Answer) (*TemplateStore, *ResponseStore, string) {
	t.Helper()
	templates, responses := newTestStores(t)

	template := testTemplate("Intake")
	template.ExportPattern = pattern
	templateName, err := templates.Save(template)
	if err != nil {
		t.Fatalf("Save template failed: %v", err)
	}

	name, err := responses.Save(templateName, answers)
	if err != nil {
		t.Fatalf("Save response failed: %v", err)
	}
	return templates, responses, name
}

// --- ExportText ---

func TestExportText_SubstitutesAnswers(t *testing.T) {
	_, responses, name := exportFixture(t, "Name: {{1}}, Age: {{2}}", []form.Answer{
		{QuestionID: 1, Value: "Ann"},
		{QuestionID: 2, Value: "34"},
	})

	got, err := responses.ExportText(name)
	if err != nil {
		t.Fatalf("ExportText failed: %v", err)
	}
	if got != "Name: Ann, Age: 34" {
		t.Errorf("ExportText = %q, want 'Name: Ann, Age: 34'", got)
	}
}

func TestExportText_UnansweredQuestionGetsMarker(t *testing.T) {
	_, responses, name := exportFixture(t, "Name: {{1}}, Age: {{2}}", []form.Answer{
		{QuestionID: 1, Value: "Ann"},
	})

	got, err := responses.ExportText(name)
	if err != nil {
		t.Fatalf("ExportText failed: %v", err)
	}
	if got != "Name: Ann, Age: "+NoAnswerMarker {
		t.Errorf("ExportText = %q, want the no-answer marker for question 2", got)
	}
}

func TestExportText_MalformedTokensSurviveVerbatim(t *testing.T) {
	// {{abc}} never matches the digit pattern; a digit run too long for int
	// matches but fails to parse. Both must come through unchanged.
	pattern := "A: {{abc}}, B: {{99999999999999999999}}, C: {{1}}"
	_, responses, name := exportFixture(t, pattern, []form.Answer{
		{QuestionID: 1, Value: "ok"},
	})

	got, err := responses.ExportText(name)
	if err != nil {
		t.Fatalf("ExportText failed: %v", err)
	}
	want := "A: {{abc}}, B: {{99999999999999999999}}, C: ok"
	if got != want {
		t.Errorf("ExportText = %q, want %q", got, want)
	}
}

func TestExportText_MissingResponseIsNotFound(t *testing.T) {
	_, responses := newTestStores(t)

	if _, err := responses.ExportText("response_20990101_000000.json"); !errors.Is(err, ErrNotFound) {
		t.Errorf("ExportText error = %v, want ErrNotFound", err)
	}
}

func TestExportText_DeletedTemplateIsNotFound(t *testing.T) {
	templates, responses, name := exportFixture(t, "Name: {{1}}", []form.Answer{
		{QuestionID: 1, Value: "Ann"},
	})

	resp := responses.Get(name)
	if resp == nil {
		t.Fatal("Get returned nil")
	}
	if !templates.Delete(resp.TemplateFilename) {
		t.Fatal("Delete template failed")
	}

	if _, err := responses.ExportText(name); !errors.Is(err, ErrNotFound) {
		t.Errorf("ExportText error = %v, want ErrNotFound after template deletion", err)
	}
}

func TestExportText_TemplateWithoutPatternIsNotFound(t *testing.T) {
	_, responses, name := exportFixture(t, "", []form.Answer{
		{QuestionID: 1, Value: "Ann"},
	})

	if _, err := responses.ExportText(name); !errors.Is(err, ErrNotFound) {
		t.Errorf("ExportText error = %v, want ErrNotFound without a pattern", err)
	}
}

func TestExportText_DuplicateAnswersLastOneWins(t *testing.T) {
	_, responses, name := exportFixture(t, "{{1}}", []form.Answer{
		{QuestionID: 1, Value: "first"},
		{QuestionID: 1, Value: "second"},
	})

	got, err := responses.ExportText(name)
	if err != nil {
		t.Fatalf("ExportText failed: %v", err)
	}
	if got != "second" {
		t.Errorf("ExportText = %q, want the last duplicate to win", got)
	}
}
