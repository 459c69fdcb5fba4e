package memory

import (
	"errors"
	"strings"
)

var errBadPattern = errors.New("syntax error in pattern")

// validGlob rejects unterminated character classes and trailing escapes.
func validGlob(pattern string) error {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '\\':
			if i+1 >= len(pattern) {
				return errBadPattern
			}
			i++
		case '[':
			end := strings.IndexByte(pattern[i+1:], ']')
			if end < 0 {
				return errBadPattern
			}
			i += end + 1
		}
	}
	return nil
}

// matchGlob reports whether key matches pattern. Unlike path.Match, '*' and
// '?' also match '/', as in Redis KEYS and SCAN MATCH. The pattern must have
// passed validGlob.
func matchGlob(pattern, key string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 1 && pattern[1] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchGlob(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(key) == 0 {
				return false
			}
			key = key[1:]
			pattern = pattern[1:]
		case '[':
			if len(key) == 0 {
				return false
			}
			end := strings.IndexByte(pattern[1:], ']') + 1
			if !matchClass(pattern[1:end], key[0]) {
				return false
			}
			key = key[1:]
			pattern = pattern[end+1:]
		case '\\':
			if len(key) == 0 || key[0] != pattern[1] {
				return false
			}
			key = key[1:]
			pattern = pattern[2:]
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
			key = key[1:]
			pattern = pattern[1:]
		}
	}
	return len(key) == 0
}

// matchClass matches c against the body of a [...] class: ranges a-z and a leading ^ for negation.
func matchClass(class string, c byte) bool {
	negate := false
	if len(class) > 0 && class[0] == '^' {
		negate = true
		class = class[1:]
	}
	matched := false
	for i := 0; i < len(class); i++ {
		if i+2 < len(class) && class[i+1] == '-' {
			lo, hi := class[i], class[i+2]
			if lo > hi {
				lo, hi = hi, lo
			}
			if c >= lo && c <= hi {
				matched = true
			}
			i += 2
			continue
		}
		if class[i] == c {
			matched = true
		}
	}
	return matched != negate
}
