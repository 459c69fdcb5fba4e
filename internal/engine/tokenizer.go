package engine

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MinTermLength is the shortest run of letters or digits kept as a term, in runes.
const MinTermLength = 2

// Terms yields the index terms of text in order of appearance.
// Text is lowercased and split on every rune that is neither a letter nor a digit;
// runs shorter than MinTermLength are dropped. The sequence is a pure function
// of text and can be ranged over any number of times.
func Terms(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		lower := strings.ToLower(text)
		start, runes := -1, 0
		for i, r := range lower {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				if start < 0 {
					start = i
				}
				runes++
				continue
			}
			if start >= 0 && runes >= MinTermLength {
				if !yield(lower[start:i]) {
					return
				}
			}
			start, runes = -1, 0
		}
		if start >= 0 && runes >= MinTermLength {
			yield(lower[start:])
		}
	}
}

// Tokenize collects Terms into a slice. Returns nil when text has no terms.
func Tokenize(text string) []string {
	var tokens []string
	for t := range Terms(text) {
		tokens = append(tokens, t)
	}
	return tokens
}

// termCounts returns raw term frequencies for text.
func termCounts(text string) map[string]int {
	tf := make(map[string]int, utf8.RuneCountInString(text)/6+1)
	for t := range Terms(text) {
		tf[t]++
	}
	return tf
}
