package lineedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLastIndexBefore(t *testing.T) {
	tests := []struct {
		text, sub string
		limit     int
		want      int
	}{
		{"gamma", "a", 5, 4},
		{"gamma", "a", 4, 1},
		{"gamma", "a", 1, -1},
		{"gamma", "mm", 5, 2},
		{"gamma", "mm", 3, -1},
		{"gamma", "x", 5, -1},
		{"ab", "abc", 2, -1},
		{"abab", "ab", 99, 2},
		{"", "a", 0, -1},
	}

	for _, tt := range tests {
		got := lastIndexBefore([]rune(tt.text), []rune(tt.sub), tt.limit)
		assert.Equal(t, tt.want, got, "lastIndexBefore(%q, %q, %d)", tt.text, tt.sub, tt.limit)
	}
}

func TestHasPrefixAt(t *testing.T) {
	text := []rune("car park")

	assert.True(t, hasPrefixAt(text, 0, "car"))
	assert.True(t, hasPrefixAt(text, 4, "park"))
	assert.True(t, hasPrefixAt(text, 8, ""))
	assert.False(t, hasPrefixAt(text, 0, "cat"))
	assert.False(t, hasPrefixAt(text, 6, "rks"))
}

func TestSearchPrompt(t *testing.T) {
	assert.Equal(t, "(reverse-i-search)`': ", searchPrompt(""))
	assert.Equal(t, "(reverse-i-search)`ls': ", searchPrompt("ls"))
}
