package agents

import (
	"context"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/sync/errgroup"

	"github.com/wgomg/agenthub/internal/relay"
)

// WorkflowCoordinator fans out to three simulated sub-agents and aggregates
// their answers through the relay.
type WorkflowCoordinator struct {
	subAgents []string
}

func NewWorkflowCoordinator() *WorkflowCoordinator {
	return &WorkflowCoordinator{subAgents: []string{"agent1", "agent2", "agent3"}}
}

func (w *WorkflowCoordinator) Name() string {
	return "workflow_coordinator"
}

func (w *WorkflowCoordinator) Run(ctx context.Context, in Input) (any, error) {
	results := make([]string, len(w.subAgents))

	g, gctx := errgroup.WithContext(ctx)
	for i := range w.subAgents {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = fmt.Sprintf("Result from agent %d", i+1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	subAgentResults := make(map[string]any, len(results))
	for i, name := range w.subAgents {
		subAgentResults[name] = results[i]
	}

	updated, err := in.Relay.SendContext(ctx, map[string]any{
		"sub_agent_results": subAgentResults,
		"workflow_status":   "in_progress",
	})
	if err != nil {
		return nil, fail(fmt.Errorf("%w: %w", ErrRelay, err), "Failed to update context: %v", err)
	}

	final := "Aggregated results: " + strings.Join(results, ", ")
	if aggregated, ok := updated["aggregated_result"]; ok {
		final = cast.ToString(aggregated)
	}

	return map[string]any{"result": final, "context": updated}, nil
}

type decision struct {
	agent    string
	keywords []string
	result   string
}

var decisions = []decision{
	{"analysis", []string{"analyze"}, "Performed comprehensive data analysis"},
	{"report", []string{"report"}, "Generated detailed summary report"},
	{"fetch", []string{"fetch", "retrieve"}, "Retrieved external dataset"},
}

var defaultDecision = decision{agent: "default", result: "Executed default processing"}

// WorkflowDecisioning selects sub-agents from keywords in a task description
// and reports each step it took.
type WorkflowDecisioning struct {
	now func() time.Time
}

// NewWorkflowDecisioning uses now to stamp simulated relay state. A nil now
// uses the wall clock.
func NewWorkflowDecisioning(now func() time.Time) *WorkflowDecisioning {
	if now == nil {
		now = time.Now
	}
	return &WorkflowDecisioning{now: now}
}

func (w *WorkflowDecisioning) Name() string {
	return "workflow_decisioning"
}

func (w *WorkflowDecisioning) Run(ctx context.Context, in Input) (any, error) {
	task := in.Params.String("task_description", "task")

	steps := []string{fmt.Sprintf("Step 1: Received task '%s'.", task)}

	selected, results := selectSubAgents(task)
	subAgentResults := make(map[string]any, len(selected))
	for i, name := range selected {
		subAgentResults[name] = results[i]
	}

	steps = append(steps,
		fmt.Sprintf("Step 2: Analyzed keywords and selected agents: %s.", strings.Join(selected, ", ")),
		"Step 3: Executed sub-agents and collected results.",
	)

	rl := in.Relay
	if !rl.Enabled() {
		rl = newStateRelay(rl, w.now)
	}

	updated, err := rl.SendContext(ctx, map[string]any{
		"task_description":  task,
		"selected_agents":   selected,
		"sub_agent_results": subAgentResults,
		"workflow_status":   "in_progress",
		"steps":             steps,
	})
	if err != nil {
		return nil, fail(fmt.Errorf("%w: %w", ErrRelay, err), "Failed to update context: %v", err)
	}

	final := "Aggregated results: " + strings.Join(results, ", ")
	if aggregated, ok := updated["aggregated_result"]; ok {
		final = cast.ToString(aggregated)
	}
	detailed := strings.Join(cast.ToStringSlice(updated["steps"]), "\n")

	return map[string]any{
		"result":  final + "\n\nDetailed Steps:\n" + detailed,
		"context": updated,
	}, nil
}

func selectSubAgents(task string) (selected, results []string) {
	lower := strings.ToLower(task)
	for _, d := range decisions {
		for _, kw := range d.keywords {
			if strings.Contains(lower, kw) {
				selected = append(selected, d.agent)
				results = append(results, d.result)
				break
			}
		}
	}
	if len(selected) == 0 {
		selected = []string{defaultDecision.agent}
		results = []string{defaultDecision.result}
	}
	return selected, results
}

// stateRelay stands in for a remote relay: it stamps the context with relay
// state and an aggregated result before passing it on.
type stateRelay struct {
	relay.Relay
	now func() time.Time
}

func newStateRelay(next relay.Relay, now func() time.Time) *stateRelay {
	return &stateRelay{Relay: next, now: now}
}

func (s *stateRelay) SendContext(ctx context.Context, data map[string]any) (map[string]any, error) {
	stamped := make(map[string]any, len(data)+2)
	maps.Copy(stamped, data)

	steps, ok := data["steps"]
	if !ok {
		steps = []string{}
	}
	stamped["mcp_state"] = map[string]any{
		"last_update":    s.now().Format(time.RFC3339Nano),
		"steps_executed": steps,
		"status":         "updated",
	}

	results := cast.ToStringMapString(data["sub_agent_results"])
	var ordered []string
	for _, name := range cast.ToStringSlice(data["selected_agents"]) {
		if r, ok := results[name]; ok {
			ordered = append(ordered, r)
		}
	}
	stamped["aggregated_result"] = "Aggregated result: " + strings.Join(ordered, ", ")

	return s.Relay.SendContext(ctx, stamped)
}
