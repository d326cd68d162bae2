package agents

import (
	"context"
	"math"
	"regexp"
	"strings"
)

const defaultClassification = "Statement"

type rule struct {
	category string
	patterns []*regexp.Regexp
}

// Categories are scored in this order; on equal scores the earlier one wins.
var classificationRules = []rule{
	{"Greeting", compileAll(`\bhello\b`, `\bhi\b`, `greeting`)},
	{"Question", compileAll(`\?\n?$`, `\bwhat\b`, `\bhow\b`, `\bwhy\b`, `\bwhen\b`)},
	{"Command", compileAll(`\bdo\b`, `\bexecute\b`, `\brun\b`)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

func (c *Classifier) Name() string {
	return "classifier"
}

func (c *Classifier) Run(_ context.Context, in Input) (any, error) {
	text := in.Params.String("INPUT_TEXT", "input_text", "text")
	if text == "" {
		return nil, fail(ErrMissingParameter, "INPUT_TEXT is not provided or is not a valid string.")
	}

	classification, confidence := Classify(text)
	return map[string]any{
		"classification": classification,
		"confidence":     confidence,
	}, nil
}

// Classify scores text against the keyword rules. Three matching patterns
// give full confidence. Text that both greets and asks is "Greeting/Question".
func Classify(text string) (string, float64) {
	lower := strings.ToLower(text)

	scores := make(map[string]int, len(classificationRules))
	classification := defaultClassification
	best := 0

	for _, r := range classificationRules {
		for _, p := range r.patterns {
			if p.MatchString(lower) {
				scores[r.category]++
			}
		}
		if scores[r.category] > best {
			best = scores[r.category]
			classification = r.category
		}
	}

	if scores["Greeting"] > 0 && scores["Question"] > 0 {
		classification = "Greeting/Question"
	}

	confidence := math.Min(float64(best)/3.0, 1.0)
	return classification, math.Round(confidence*100) / 100
}
