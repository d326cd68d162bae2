package utils

import "unicode/utf8"

// Truncate returns at most maxRunes runes of s. It never splits a multi-byte rune.
func Truncate(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}

	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}

	count := 0
	for i := range s {
		if count == maxRunes {
			return s[:i]
		}
		count++
	}
	return s
}

// Preview shortens s for log lines.
func Preview(s string, maxRunes int) string {
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	return Truncate(s, maxRunes) + "..."
}
