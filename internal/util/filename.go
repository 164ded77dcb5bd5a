// Package util provides common utility functions.
package util

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	// Matches spaces and path-ish separators (for replacement with underscores).
	separatorRe = regexp.MustCompile(`[\s/\\]+`)
	// Matches characters unsafe in a stored filename.
	unsafeRe = regexp.MustCompile(`[^A-Za-z0-9._-]`)
	// Matches multiple consecutive underscores.
	multipleUnderscoreRe = regexp.MustCompile(`_+`)
)

// SanitizeFilename reduces an uploaded filename to a safe base name.
// Directory components are stripped first, so traversal attempts like
// "../../etc/passwd" degrade to a plain name.
//
// Rules:
//  1. Keep only the final path element
//  2. Replace whitespace and separators with underscores
//  3. Drop everything outside [A-Za-z0-9._-]
//  4. Collapse repeated underscores, trim leading/trailing "._-"
//
// An input that sanitizes to nothing comes back as "upload".
func SanitizeFilename(input string) string {
	s := strings.TrimSpace(input)
	// Browsers on Windows may send a full path with backslashes.
	s = filepath.Base(strings.ReplaceAll(s, `\`, "/"))
	s = separatorRe.ReplaceAllString(s, "_")
	s = unsafeRe.ReplaceAllString(s, "_")
	s = multipleUnderscoreRe.ReplaceAllString(s, "_")
	s = strings.Trim(s, "._-")
	if s == "" {
		return "upload"
	}
	return s
}
