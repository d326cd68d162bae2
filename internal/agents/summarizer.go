package agents

import (
	"context"
	"errors"

	"github.com/wgomg/agenthub/internal/processor"
)

const missingTextMsg = "TEXT_TO_SUMMARIZE is not provided or is not a valid string."

// Summarizer shortens text to a fixed number of characters.
type Summarizer struct {
	maxLength int
}

func NewSummarizer(maxLength int) *Summarizer {
	return &Summarizer{maxLength: maxLength}
}

func (s *Summarizer) Name() string {
	return "summarizer"
}

func (s *Summarizer) Run(_ context.Context, in Input) (any, error) {
	text := in.Params.String("TEXT_TO_SUMMARIZE", "text")
	if text == "" {
		return nil, fail(processor.ErrEmptyInput, missingTextMsg)
	}

	maxLength, err := in.Params.Int(s.maxLength, "max_length")
	if err != nil {
		return nil, fail(err, "max_length must be an integer.")
	}
	if maxLength < 1 {
		return nil, fail(ErrInvalidParameter, "max_length must be at least 1.")
	}

	return map[string]any{
		"summary":     processor.Truncate(text, maxLength),
		"explanation": "This is a simple summarization agent.",
	}, nil
}

// TextRankSummarizer keeps the most central sentences of a text.
type TextRankSummarizer struct {
	sentences int
}

func NewTextRankSummarizer(sentences int) *TextRankSummarizer {
	return &TextRankSummarizer{sentences: sentences}
}

func (t *TextRankSummarizer) Name() string {
	return "textrank_summarizer"
}

func (t *TextRankSummarizer) Run(_ context.Context, in Input) (any, error) {
	text := in.Params.String("TEXT_TO_SUMMARIZE", "text")
	if text == "" {
		return nil, fail(processor.ErrEmptyInput, missingTextMsg)
	}

	target, err := in.Params.Int(t.sentences, "num_sentences")
	if err != nil {
		return nil, fail(err, "num_sentences must be an integer.")
	}

	summary, err := processor.Summarize(text, target)
	if err != nil {
		if errors.Is(err, processor.ErrInvalidTarget) {
			return nil, fail(err, "num_sentences must be at least 1.")
		}
		return nil, err
	}

	return map[string]any{"summary": summary}, nil
}
