package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "checkouts.tsv", "checkouts.tsv"},
		{"spaces", "my checkouts 2026.tsv", "my_checkouts_2026.tsv"},
		{"traversal", "../../etc/passwd", "passwd"},
		{"windows path", `C:\temp\data.tsv`, "data.tsv"},
		{"japanese dropped", "貸出データ.tsv", "tsv"},
		{"empty", "", "upload"},
		{"only dots", "...", "upload"},
		{"collapses underscores", "a  __  b.txt", "a_b.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}
