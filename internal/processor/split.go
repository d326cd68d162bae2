package processor

import (
	"strings"

	"github.com/dlclark/regexp2"
)

// A boundary is one whitespace character after '.' or '?', unless it follows
// an initialism such as "e.g." or a short title such as "Mr.".
var sentenceBoundary = regexp2.MustCompile(`(?<!\w\.\w.)(?<![A-Z][a-z]\.)(?<=\.|\?)\s`, regexp2.None)

// SplitSentences splits text into trimmed, non-empty sentences in source order.
func SplitSentences(text string) []string {
	runes := []rune(text)
	var parts []string

	start := 0
	m, err := sentenceBoundary.FindRunesMatch(runes)
	for err == nil && m != nil {
		parts = append(parts, string(runes[start:m.Index]))
		start = m.Index + m.Length
		m, err = sentenceBoundary.FindNextMatch(m)
	}
	parts = append(parts, string(runes[start:]))

	sentences := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	return sentences
}
