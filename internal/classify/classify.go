// Package classify assigns books to topical categories by keyword matching.
package classify

import (
	"strings"

	"github.com/myshelfapp/myshelf-server/internal/normalize"
)

// UnknownAuthor is the sentinel used when a title string carries no
// " / Author" segment.
const UnknownAuthor = "unknown"

// CategoryOther is the fallback when no keyword matches.
const CategoryOther = "other"

// keywordRule binds one category to the keywords that select it.
type keywordRule struct {
	Category string
	Keywords []string
}

// categoryRules is the fixed classification table. Order is significant:
// when a text matches keywords from several categories, the first declared
// category wins. Keywords are matched as case-insensitive substrings after
// NFKC folding, so full-width and half-width forms compare equal.
//
// The keyword set targets the Japanese library exports this system was built
// for; extend it here, not at runtime.
var categoryRules = []keywordRule{
	{"control-theory", []string{"制御", "ロバスト", "最適制御", "非線形", "システム制御"}},
	{"system-identification", []string{"システム同定", "同定", "部分空間", "パラメータ推定"}},
	{"data-assimilation", []string{"データ同化", "同化", "観測", "カルマン"}},
	{"meteorology", []string{"気象", "大気", "気候", "天気"}},
	{"numerical-weather", []string{"数値予報", "予報", "数値", "気象予測"}},
	{"fluid-dynamics", []string{"流体", "動力学", "非線形動力"}},
	{"mathematics", []string{"数学", "統計", "代数", "幾何", "確率", "統計力学"}},
	{"data-analysis", []string{"データ解析", "データマイニング", "位相的", "構造発見"}},
	{"machine-learning", []string{"機械学習", "深層学習", "AI", "ニューラル"}},
	{"programming", []string{"プログラミング", "Python", "アルゴリズム"}},
}

// Categories returns the category keys in declaration (priority) order.
func Categories() []string {
	keys := make([]string, len(categoryRules))
	for i, rule := range categoryRules {
		keys[i] = rule.Category
	}
	return keys
}

// ExtractBookInfo splits a raw "Title / Author" string.
// The first " / "-separated segment is the title, truncated at the first
// semicolon (library exports append edition annotations there). The
// remaining segments rejoined form the author; if there is no separator the
// author is UnknownAuthor.
func ExtractBookInfo(titleAuthor string) (title, author string) {
	parts := strings.Split(titleAuthor, " / ")

	title = parts[0]
	if idx := strings.IndexRune(title, ';'); idx >= 0 {
		title = title[:idx]
	}
	title = strings.TrimSpace(title)

	if len(parts) > 1 {
		author = strings.TrimSpace(strings.Join(parts[1:], " / "))
	}
	if author == "" {
		author = UnknownAuthor
	}
	return title, author
}

// Categorize returns the category for a book. Title and author are folded
// (NFKC + lowercase) and scanned against the rule table in order; the first
// keyword hit wins. No hit returns CategoryOther.
func Categorize(title, author string) string {
	text := normalize.Fold(title + " " + author)

	for _, rule := range categoryRules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(text, normalize.Fold(keyword)) {
				return rule.Category
			}
		}
	}

	return CategoryOther
}
