package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractBookInfo(t *testing.T) {
	tests := []struct {
		name        string
		titleAuthor string
		wantTitle   string
		wantAuthor  string
	}{
		{
			name:        "title and author",
			titleAuthor: "A / B",
			wantTitle:   "A",
			wantAuthor:  "B",
		},
		{
			name:        "title only",
			titleAuthor: "A",
			wantTitle:   "A",
			wantAuthor:  UnknownAuthor,
		},
		{
			name:        "semicolon annotation truncated",
			titleAuthor: "A; extra / B",
			wantTitle:   "A",
			wantAuthor:  "B",
		},
		{
			name:        "multiple separators rejoin author",
			titleAuthor: "Title / First / Second",
			wantTitle:   "Title",
			wantAuthor:  "First / Second",
		},
		{
			name:        "japanese title with annotation",
			titleAuthor: "最適制御入門 ; 改訂版 / 山田太郎",
			wantTitle:   "最適制御入門",
			wantAuthor:  "山田太郎",
		},
		{
			name:        "whitespace trimmed",
			titleAuthor: "  Title  /  Author  ",
			wantTitle:   "Title",
			wantAuthor:  "Author",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, author := ExtractBookInfo(tt.titleAuthor)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantAuthor, author)
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		author string
		want   string
	}{
		{
			name:  "control theory keyword",
			title: "ロバスト制御の基礎",
			want:  "control-theory",
		},
		{
			name:  "meteorology keyword",
			title: "気象学入門",
			want:  "meteorology",
		},
		{
			name:  "machine learning keyword",
			title: "深層学習による画像認識",
			want:  "machine-learning",
		},
		{
			name:  "programming keyword case-insensitive",
			title: "python data tools",
			want:  "programming",
		},
		{
			name:   "keyword in author segment",
			title:  "よくわかる教科書",
			author: "気象庁編",
			want:   "meteorology",
		},
		{
			name:  "no match falls back to other",
			title: "徒然草",
			want:  CategoryOther,
		},
		{
			name:  "empty text is other",
			title: "",
			want:  CategoryOther,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.title, tt.author))
		})
	}
}

// The rule table is priority-ordered: when text matches keywords from two
// categories, the earlier-declared category wins.
func TestCategorizeOrderSensitive(t *testing.T) {
	// "制御" (control-theory, declared first) and "数値" (numerical-weather).
	got := Categorize("数値制御システム", "")
	assert.Equal(t, "control-theory", got)

	// "同定" belongs to system-identification, declared before
	// data-assimilation's "同化".
	got = Categorize("システム同定とデータ同化", "")
	assert.Equal(t, "system-identification", got)
}

func TestCategorizeWidthFolding(t *testing.T) {
	// Full-width latin letters fold to their ASCII forms before matching.
	assert.Equal(t, "machine-learning", Categorize("ＡＩと社会", ""))
	assert.Equal(t, "programming", Categorize("Ｐｙｔｈｏｎ入門", ""))
}

func TestCategories(t *testing.T) {
	keys := Categories()
	assert.Len(t, keys, 10)
	assert.Equal(t, "control-theory", keys[0])
	assert.Equal(t, "programming", keys[9])
}
