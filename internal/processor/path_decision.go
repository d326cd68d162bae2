package processor

// ShouldRank reports whether a document has more sentences than the summary
// may keep. Shorter documents are returned whole.
func ShouldRank(sentenceCount int, target int) bool {
	return sentenceCount > target
}

// ShouldTruncate reports whether text exceeds maxRunes runes.
func ShouldTruncate(runeCount int, maxRunes int) bool {
	return runeCount > maxRunes
}
