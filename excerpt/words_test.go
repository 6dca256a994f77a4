package excerpt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"blog-toolkit/excerpt"
)

func TestWordsCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "latin words", input: "Hello world", expected: 2},
		{name: "cjk characters", input: "你好世界", expected: 4},
		{name: "mixed scripts", input: "Hello 你好 world", expected: 4},
		{name: "cjk with latin punctuation", input: "你好, world!", expected: 3},
		{name: "consecutive spaces still split", input: "a  b", expected: 3},
		{name: "punctuation only", input: "...!!!", expected: 0},
		{name: "spaces between cjk", input: "日本 語", expected: 3},
		{name: "case insensitive", input: "GO Rocks", expected: 2},
		{name: "digits and symbols", input: "v1.2 + go_mod", expected: 3},
		{name: "surrounding whitespace ignored", input: "\n\t中文\n", expected: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, excerpt.WordsCount(tt.input))
		})
	}
}

func TestWordCountLevel(t *testing.T) {
	assert.Equal(t, "normal", excerpt.WordCountLevel(0))
	assert.Equal(t, "normal", excerpt.WordCountLevel(1000))
	assert.Equal(t, "long", excerpt.WordCountLevel(1001))
	assert.Equal(t, "long", excerpt.WordCountLevel(2000))
	assert.Equal(t, "very-long", excerpt.WordCountLevel(2001))
}
