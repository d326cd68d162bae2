package processor

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/wgomg/agenthub/internal/utils"
)

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {}, "of": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "by": {}, "and": {}, "or": {},
}

// similarityEpsilon keeps the denominator positive for sentences made only of stop words.
const similarityEpsilon = 1e-6

// Summarize keeps the target highest ranked sentences of text in their
// original order. Text without sentences yields "".
func Summarize(text string, target int) (string, error) {
	if target < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidTarget, target)
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return "", nil
	}

	if !ShouldRank(len(sentences), target) {
		return strings.Join(sentences, " "), nil
	}

	ranked := newSentences(sentences)
	scores := rankSentences(ranked)
	for i := range ranked {
		ranked[i].Score = scores[i]
	}

	selected := slices.Clone(ranked)
	slices.SortFunc(selected, cmpSentence)
	selected = selected[:target]

	slices.SortFunc(selected, func(a, b Sentence) int {
		return cmp.Compare(a.Index, b.Index)
	})

	texts := make([]string, len(selected))
	for i, s := range selected {
		texts[i] = s.Text
	}

	return strings.Join(texts, " "), nil
}

// Truncate keeps the first maxRunes runes of text and marks the cut with "...".
func Truncate(text string, maxRunes int) string {
	if !ShouldTruncate(len([]rune(text)), maxRunes) {
		return text
	}
	return strings.TrimSpace(utils.Truncate(text, maxRunes)) + "..."
}

// Rank returns one score per sentence after a single propagation step.
func Rank(sentences []string) []float64 {
	return rankSentences(newSentences(sentences))
}

// Similarity is the word overlap of a and b relative to their combined size.
func Similarity(a, b string) float64 {
	return similarity(wordSet(a), wordSet(b))
}

func newSentences(texts []string) []Sentence {
	sentences := make([]Sentence, len(texts))
	for i, text := range texts {
		sentences[i] = Sentence{Index: i, Text: text, Words: wordSet(text)}
	}
	return sentences
}

func wordSet(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if _, stop := stopWords[word]; stop {
			continue
		}
		words[word] = struct{}{}
	}
	return words
}

func similarity(a, b map[string]struct{}) float64 {
	common := 0
	for word := range a {
		if _, ok := b[word]; ok {
			common++
		}
	}
	return float64(common) / (float64(len(a)+len(b)) + similarityEpsilon)
}

func buildGraph(sentences []Sentence) Graph {
	n := len(sentences)
	graph := Graph{Adjacency: make([][]float64, n)}

	for i := range graph.Adjacency {
		graph.Adjacency[i] = make([]float64, n)
	}

	for i := range n {
		for j := i + 1; j < n; j++ {
			s := similarity(sentences[i].Words, sentences[j].Words)
			graph.Adjacency[i][j] = s
			graph.Adjacency[j][i] = s
		}
	}

	return graph
}

// normalizeRows scales every row to sum to one. Rows summing to zero stay zero.
func normalizeRows(adjacency [][]float64) {
	for i := range adjacency {
		sum := 0.0
		for _, v := range adjacency[i] {
			sum += v
		}
		if sum <= 0 {
			continue
		}
		for j := range adjacency[i] {
			adjacency[i][j] /= sum
		}
	}
}

// propagate performs exactly one update from a uniform distribution:
// next[i] = sum over j of adjacency[j][i] * score[j].
func propagate(graph Graph) []float64 {
	n := len(graph.Adjacency)

	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / float64(n)
	}

	next := make([]float64, n)
	for i := range n {
		for j := range n {
			next[i] += graph.Adjacency[j][i] * scores[j]
		}
	}

	return next
}

func rankSentences(sentences []Sentence) []float64 {
	if len(sentences) == 0 {
		return nil
	}

	graph := buildGraph(sentences)
	normalizeRows(graph.Adjacency)

	return propagate(graph)
}

// cmpSentence orders by descending score; equal scores keep the earlier sentence first.
func cmpSentence(a, b Sentence) int {
	if c := cmp.Compare(b.Score, a.Score); c != 0 {
		return c
	}
	return cmp.Compare(a.Index, b.Index)
}
