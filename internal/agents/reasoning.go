package agents

import (
	"context"
	"fmt"
	"slices"
)

// MultiStepReasoning refines a hypothesis through the relay until the relay
// answers with a final_answer or the iteration budget runs out.
type MultiStepReasoning struct {
	maxIterations int
}

func NewMultiStepReasoning(maxIterations int) *MultiStepReasoning {
	return &MultiStepReasoning{maxIterations: maxIterations}
}

func (m *MultiStepReasoning) Name() string {
	return "multi_step_reasoning"
}

func (m *MultiStepReasoning) Run(ctx context.Context, in Input) (any, error) {
	hypothesis := in.Params.String("hypothesis", "HYPOTHESIS")
	if hypothesis == "" {
		return nil, fail(ErrMissingParameter, "HYPOTHESIS is not set.")
	}

	history := []string{hypothesis}
	updated := map[string]any{}

	for i := range m.maxIterations {
		shared := map[string]any{
			"hypothesis": hypothesis,
			"iteration":  i,
			"history":    slices.Clone(history),
		}

		var err error
		updated, err = in.Relay.SendContext(ctx, shared)
		if err != nil {
			return nil, fail(fmt.Errorf("%w: %w", ErrRelay, err), "Failed to update context: %v", err)
		}

		if answer, ok := updated["final_answer"]; ok {
			return map[string]any{
				"result": map[string]any{
					"final_answer": answer,
					"context":      nestedContext(updated),
				},
			}, nil
		}

		hypothesis += " refined"
		history = append(history, hypothesis)
	}

	return map[string]any{
		"result": map[string]any{
			"partial_hypothesis": hypothesis,
			"context":            nestedContext(updated),
		},
	}, nil
}

// nestedContext returns the "context" the relay attached to its answer.
func nestedContext(updated map[string]any) any {
	if c, ok := updated["context"]; ok && c != nil {
		return c
	}
	return map[string]any{}
}
