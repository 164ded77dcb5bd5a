// Package normalize provides utilities for normalizing and sanitizing data.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Fold canonicalizes text for matching: NFKC compatibility normalization
// followed by lowercasing. Japanese library exports freely mix full-width
// and half-width forms ("ＡＩ" vs "AI", "Ｐｙｔｈｏｎ" vs "Python"); after
// folding they compare equal.
func Fold(s string) string {
	return strings.ToLower(norm.NFKC.String(s))
}

// FoldedContains reports whether text contains keyword after both sides are
// folded.
func FoldedContains(text, keyword string) bool {
	return strings.Contains(Fold(text), Fold(keyword))
}
