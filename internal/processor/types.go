package processor

import "errors"

var (
	ErrEmptyInput    = errors.New("text to summarize is empty")
	ErrInvalidTarget = errors.New("target sentence count must be at least 1")
)

// Sentence is one ranked unit of a document. Index is its position in the
// source text and never changes after splitting.
type Sentence struct {
	Index int
	Text  string
	Words map[string]struct{}
	Score float64
}

// Graph holds pairwise sentence similarity. Adjacency[i][i] is always zero.
type Graph struct {
	Adjacency [][]float64
}
