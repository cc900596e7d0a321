package store

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/clinio/formstore/internal/form"
)

// Filter selects and pages responses. Every criterion is optional and they
// combine conjunctively: a zero TemplateTitle matches everything, nil date
// bounds are open-ended. Page is zero-based.
type Filter struct {
	TemplateTitle string
	DateFrom      *time.Time
	DateTo        *time.Time
	Page          int
	Size          int
}

// Page is one slice of a filtered, newest-first response listing.
type Page struct {
	Content       []ResponseInfo `json:"content"`
	TotalElements int            `json:"totalElements"`
	TotalPages    int            `json:"totalPages"`
	CurrentPage   int            `json:"currentPage"`
	HasNext       bool           `json:"hasNext"`
	HasPrevious   bool           `json:"hasPrevious"`
}

// DayStart normalizes a calendar day to its first second, for DateFrom.
func DayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayEnd normalizes a calendar day to its last second, for DateTo, so the
// bound stays inclusive at day granularity.
func DayEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// Search loads every response, filters, and returns the requested page of
// the newest-first ordering. Title matching is a case-insensitive substring
// test against the snapshotted template title; date bounds are inclusive.
// Corrupt records are skipped silently — a filtered listing has no safe
// placeholder to show (unlike Latest, which fabricates one).
// Degenerate paging parameters (a non-positive size, a negative page)
// yield an empty zero-count page rather than an error: they arrive
// straight from the caller's query parameters.
func (rs *ResponseStore) Search(f Filter) Page {
	if f.Size <= 0 || f.Page < 0 {
		return Page{}
	}

	all := rs.loadAll(false)

	var filtered []ResponseInfo
	for _, r := range all {
		if f.TemplateTitle != "" &&
			!strings.Contains(strings.ToLower(r.TemplateTitle), strings.ToLower(f.TemplateTitle)) {
			continue
		}
		if f.DateFrom != nil && r.SubmittedAt.Before(*f.DateFrom) {
			continue
		}
		if f.DateTo != nil && r.SubmittedAt.After(*f.DateTo) {
			continue
		}
		filtered = append(filtered, r)
	}

	total := len(filtered)
	totalPages := (total + f.Size - 1) / f.Size

	start := f.Page * f.Size
	end := min(start+f.Size, total)
	var content []ResponseInfo
	if start < total {
		content = filtered[start:end]
	}

	return Page{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		CurrentPage:   f.Page,
		HasNext:       f.Page < totalPages-1,
		HasPrevious:   f.Page > 0,
	}
}

// Latest returns the most recent responses, at most limit of them. Corrupt
// records appear as sentinel entries (FailedLoadTitle, timestamped by the
// backend's modified time) so the dashboard count stays stable.
func (rs *ResponseStore) Latest(limit int) []ResponseInfo {
	if limit < 0 {
		return nil
	}
	all := rs.loadAll(true)
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}

// UniqueTemplateTitles returns the distinct snapshotted titles across all
// responses, alphabetically sorted. Corrupt records and blank titles are
// skipped.
func (rs *ResponseStore) UniqueTemplateTitles() []string {
	entries, err := rs.b.List()
	if err != nil {
		rs.logger.Error("listing responses", zap.Error(err))
		return nil
	}

	seen := make(map[string]bool)
	var titles []string
	for _, entry := range entries {
		data, err := rs.b.Read(entry.Name)
		if err != nil {
			continue
		}
		var r form.Response
		if err := json.Unmarshal(data, &r); err != nil {
			continue
		}
		if r.TemplateTitle == "" || seen[r.TemplateTitle] {
			continue
		}
		seen[r.TemplateTitle] = true
		titles = append(titles, r.TemplateTitle)
	}

	sort.Strings(titles)
	return titles
}

// loadAll reads every stored response, newest first. withPlaceholders
// controls what happens to a record that fails to load: a sentinel entry
// when true, a silent skip when false. A backend enumeration failure yields
// an empty result.
func (rs *ResponseStore) loadAll(withPlaceholders bool) []ResponseInfo {
	entries, err := rs.b.List()
	if err != nil {
		rs.logger.Error("listing responses", zap.Error(err))
		return nil
	}

	var result []ResponseInfo
	for _, entry := range entries {
		data, err := rs.b.Read(entry.Name)
		if err == nil {
			var r form.Response
			if err = json.Unmarshal(data, &r); err == nil {
				title := r.TemplateTitle
				if title == "" {
					title = UntitledTitle
				}
				result = append(result, ResponseInfo{
					Filename:         entry.Name,
					TemplateFilename: r.TemplateFilename,
					TemplateTitle:    title,
					SubmittedAt:      r.SubmittedAt,
					Answers:          r.Answers,
				})
			}
		}
		if err != nil {
			rs.logger.Warn("failed to load response for listing",
				zap.String("name", entry.Name), zap.Error(err))
			if withPlaceholders {
				result = append(result, ResponseInfo{
					Filename:      entry.Name,
					TemplateTitle: FailedLoadTitle,
					SubmittedAt:   entry.ModTime,
				})
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SubmittedAt.After(result[j].SubmittedAt)
	})
	return result
}
