package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"ascii lowercased", "Python", "python"},
		{"full-width latin collapses", "ＡＩ", "ai"},
		{"half-width katakana widens", "ｶﾙﾏﾝ", "カルマン"},
		{"mixed", "Ｐｙｔｈｏｎ入門", "python入門"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fold(tt.input))
		})
	}
}

func TestFoldedContains(t *testing.T) {
	assert.True(t, FoldedContains("ＡＩと機械学習", "ai"))
	assert.True(t, FoldedContains("Deep Learning", "LEARNING"))
	assert.False(t, FoldedContains("気象学概論", "制御"))
}
