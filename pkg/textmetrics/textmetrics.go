// Package textmetrics provides word and character counting for essay text.
package textmetrics

import (
	"strings"
	"unicode/utf8"
)

// WordCount returns the number of whitespace-delimited tokens in the
// trimmed text. An empty or blank string counts as zero words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CharacterCount returns the number of characters in the untrimmed text.
func CharacterCount(text string) int {
	return utf8.RuneCountInString(text)
}
