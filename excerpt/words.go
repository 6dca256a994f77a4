package excerpt

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// latinSpan matches runs of Latin letters, digits, spaces and the
// punctuation that usually sits between Latin words.
var latinSpan = regexp.MustCompile(`(?i)[-a-z0-9,.!?'":;@/ ()+_]+`)

const (
	spanTrimSet = ",.!?;:@ '\"/()"
	blankSet    = " \t\n\r\x00\x0B"
)

// Word count thresholds used by the admin word count column.
const (
	LongPostWords     = 1000
	VeryLongPostWords = 2000
)

// WordsCount counts a mixed CJK/Latin text. Each non-Latin character counts
// as one word and each Latin span is split on single spaces.
//
// It is a length heuristic, not a tokenizer: consecutive spaces inside a
// span produce empty pieces that are still counted.
func WordsCount(text string) int {
	if text == "" {
		return 0
	}

	spans := latinSpan.FindAllString(text, -1)
	rest := latinSpan.ReplaceAllString(text, "")
	total := utf8.RuneCountInString(strings.Trim(rest, blankSet))

	for _, span := range spans {
		span = strings.Trim(span, spanTrimSet)
		if span == "" {
			continue
		}
		total += len(strings.Split(span, " "))
	}
	return total
}

// WordCountLevel classifies a word count for display in post listings.
func WordCountLevel(words int) string {
	switch {
	case words > VeryLongPostWords:
		return "very-long"
	case words > LongPostWords:
		return "long"
	default:
		return "normal"
	}
}
