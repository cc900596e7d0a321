package store

import (
	"fmt"
	"regexp"
	"strings"
)

// Identifier prefixes for the two record kinds.
const (
	TemplatePrefix = "form"
	ResponsePrefix = "response"
)

// identTimeLayout gives second-resolution, lexically sortable names.
const identTimeLayout = "20060102_150405"

// safeNamePattern is the sole defense against path traversal: every
// caller-supplied identifier must match before any filesystem access.
var safeNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+\.json$`)

// IsSafeName reports whether an untrusted identifier may be used as a
// document name: non-blank, a .json suffix, no ".." anywhere, and nothing
// outside [A-Za-z0-9_-] before the extension.
func IsSafeName(name string) bool {
	return strings.TrimSpace(name) != "" &&
		strings.HasSuffix(strings.ToLower(name), ".json") &&
		!strings.Contains(name, "..") &&
		safeNamePattern.MatchString(name)
}

// mintName produces a fresh identifier of the form
// <prefix>_<YYYYMMdd_HHmmss>.json. Wall-clock seconds alone collide when
// two records are created within the same second, so an existing name gets
// a numeric suffix (-2, -3, ...) until it is unique in the backend.
func mintName(b Backend, prefix string) string {
	base := fmt.Sprintf("%s_%s", prefix, timeNow().Format(identTimeLayout))
	name := base + ".json"
	suffix := 2
	for b.Exists(name) {
		name = fmt.Sprintf("%s-%d.json", base, suffix)
		suffix++
	}
	return name
}
