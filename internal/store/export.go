package store

import (
	"regexp"
	"strconv"

	"go.uber.org/zap"
)

// NoAnswerMarker replaces a placeholder whose question went unanswered.
const NoAnswerMarker = "[no answer]"

// exportTokenPattern matches {{<digits>}} placeholders in an export pattern.
var exportTokenPattern = regexp.MustCompile(`\{\{(\d+)\}\}`)

// ExportText renders a response as prose by substituting the answers into
// its template's export pattern. The chain response → template → pattern
// must be intact; if any link is absent (response missing, template deleted
// since submission, template without a pattern) the result is ErrNotFound.
//
// Each {{id}} token becomes the matching answer's value, or NoAnswerMarker
// when the question went unanswered. A token whose digits overflow int is
// kept verbatim, so a malformed pattern round-trips instead of being
// corrupted.
func (rs *ResponseStore) ExportText(name string) (string, error) {
	response := rs.Get(name)
	if response == nil {
		rs.logger.Warn("response not found for export", zap.String("name", name))
		return "", ErrNotFound
	}

	template := rs.templates.Get(response.TemplateFilename)
	if template == nil {
		rs.logger.Warn("template not found for export",
			zap.String("name", name), zap.String("template", response.TemplateFilename))
		return "", ErrNotFound
	}

	if template.ExportPattern == "" {
		rs.logger.Warn("template has no export pattern",
			zap.String("template", response.TemplateFilename))
		return "", ErrNotFound
	}

	answers := response.AnswerValues()
	text := exportTokenPattern.ReplaceAllStringFunc(template.ExportPattern, func(token string) string {
		digits := exportTokenPattern.FindStringSubmatch(token)[1]
		id, err := strconv.Atoi(digits)
		if err != nil {
			return token
		}
		if value, ok := answers[id]; ok {
			return value
		}
		return NoAnswerMarker
	})

	rs.logger.Info("response exported", zap.String("name", name))
	return text, nil
}
