package agents

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wgomg/agenthub/internal/config"
	"github.com/wgomg/agenthub/internal/relay"
	"github.com/wgomg/agenthub/internal/utils"
)

// Registry maps agent names to implementations. It is filled once at
// startup and read concurrently afterwards.
type Registry struct {
	mu      sync.RWMutex
	agents  map[string]Agent
	catalog []CatalogEntry
	relay   relay.Relay
	logger  *utils.Logger
}

func NewRegistry(catalog []CatalogEntry, rl relay.Relay, logger *utils.Logger) *Registry {
	if rl == nil {
		rl = relay.NewLocal()
	}
	return &Registry{
		agents:  make(map[string]Agent),
		catalog: catalog,
		relay:   rl,
		logger:  logger,
	}
}

// NewDefaultRegistry registers every built-in agent and checks that each one
// has a catalog entry and vice versa.
func NewDefaultRegistry(cfg *config.Config, rl relay.Relay, logger *utils.Logger) (*Registry, error) {
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}

	r := NewRegistry(catalog, rl, logger)

	builtins := []Agent{
		NewHelloWorld(),
		NewGoodbye(),
		NewEcho(),
		NewTime(nil),
		NewJoke(nil),
		NewQuote(nil),
		NewMath(cfg.Agents.MathToken),
		NewCalculator(),
		NewClassifier(),
		NewSummarizer(cfg.Summary.MaxLength),
		NewTextRankSummarizer(cfg.Summary.Sentences),
		NewMultiStepReasoning(cfg.Agents.ReasoningMaxIterations),
		NewWorkflowCoordinator(),
		NewWorkflowDecisioning(nil),
	}
	for _, a := range builtins {
		if err := r.Register(a); err != nil {
			return nil, err
		}
	}

	for _, entry := range catalog {
		if _, err := r.Get(entry.Name); err != nil {
			return nil, fmt.Errorf("catalog entry %q has no agent", entry.Name)
		}
	}

	return r, nil
}

func (r *Registry) Register(a Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.agents[name]; exists {
		return fmt.Errorf("agent %q is already registered", name)
	}
	if _, ok := r.entry(name); !ok {
		return fmt.Errorf("agent %q has no catalog entry", name)
	}

	r.agents[name] = a
	return nil
}

func (r *Registry) Get(name string) (Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.agents[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAgentNotFound, name)
	}
	return a, nil
}

// List returns the catalog entries of registered agents in catalog order.
func (r *Registry) List() []CatalogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]CatalogEntry, 0, len(r.agents))
	for _, entry := range r.catalog {
		if _, ok := r.agents[entry.Name]; ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Run executes the named agent with params and the registry's relay.
func (r *Registry) Run(ctx context.Context, name string, params Params) (any, error) {
	reqID := utils.RequestID(ctx)

	a, err := r.Get(name)
	if err != nil {
		r.logger.Warn(&reqID, "Unknown agent requested: %s", name)
		return nil, err
	}
	if params == nil {
		params = Params{}
	}

	r.logger.Info(&reqID, "Running agent %s", name)
	r.logger.Debug(&reqID, "Agent %s params: %s", name, utils.Preview(fmt.Sprint(map[string]any(params)), 200))
	start := time.Now()

	output, err := a.Run(ctx, Input{Params: params, Relay: r.relay})
	if err != nil {
		var failure *Failure
		if errors.As(err, &failure) {
			r.logger.Warn(&reqID, "Agent %s reported an error: %s", name, failure.Msg)
		} else {
			r.logger.Error(&reqID, "Agent %s failed: %v", name, err)
		}
		return nil, err
	}

	r.logger.Debug(&reqID, "Agent %s finished in %s", name, time.Since(start))
	return output, nil
}

// entry must be called with r.mu held.
func (r *Registry) entry(name string) (CatalogEntry, bool) {
	for _, e := range r.catalog {
		if e.Name == name {
			return e, true
		}
	}
	return CatalogEntry{}, false
}
