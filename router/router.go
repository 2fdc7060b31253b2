package router

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Scoring weights. Keyword coverage contributes up to 40 points, complexity
// band fit up to 30, and priority up to 30, for a 100-point scale.
const (
	keywordWeight     = 40.0
	complexityWeight  = 30.0
	priorityUnitBonus = 10.0

	// complexityPenaltyPerUnit is subtracted from the complexity score for
	// each unit the task complexity falls outside the agent's band.
	complexityPenaltyPerUnit = 10.0
)

// DefaultMinConfidence is the fallback threshold when none is configured.
const DefaultMinConfidence = 20.0

// DefaultMaxChainDepth bounds agent-to-agent delegation chains.
const DefaultMaxChainDepth = 3

// ErrNoAgents reports a routing call against a registry whose agents cannot
// serve it: either nothing is registered, or the fallback default agent is
// missing.
var ErrNoAgents = errors.New("no agents registered")

// ErrInvalidForcedAgent reports a ForceAgent option naming an unregistered
// agent. This is caller misuse and fails the routing call.
type ErrInvalidForcedAgent struct {
	Agent AgentName
}

func (e *ErrInvalidForcedAgent) Error() string {
	return fmt.Sprintf("forced agent %q is not registered", e.Agent)
}

// ChainDepthExceededError reports a delegation chain that hit the recursion
// bound. The chain names every agent traversed so the loop is visible.
type ChainDepthExceededError struct {
	Chain    []AgentName
	MaxDepth int
}

func (e *ChainDepthExceededError) Error() string {
	names := make([]string, len(e.Chain))
	for i, a := range e.Chain {
		names[i] = string(a)
	}
	return fmt.Sprintf("delegation chain %s exceeded max depth %d",
		strings.Join(names, " -> "), e.MaxDepth)
}

type registeredAgent struct {
	caps     Capabilities
	executor Executor
}

// Registry holds the registered agents and routes tasks to them. Lookup and
// routing may run concurrently; registration takes the write lock.
type Registry struct {
	mu     sync.RWMutex
	agents map[AgentName]*registeredAgent

	defaultAgent  AgentName
	minConfidence float64
	maxChainDepth int
	weights       ComplexityWeights
	logger        *zap.Logger
}

// NewRegistry creates an empty Registry routing fallbacks to defaultAgent.
func NewRegistry(defaultAgent AgentName, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		agents:        make(map[AgentName]*registeredAgent),
		defaultAgent:  defaultAgent,
		minConfidence: DefaultMinConfidence,
		maxChainDepth: DefaultMaxChainDepth,
		weights:       DefaultComplexityWeights(),
		logger:        logger,
	}
}

// WithMinConfidence sets the fallback threshold.
func (r *Registry) WithMinConfidence(min float64) *Registry {
	r.minConfidence = min
	return r
}

// WithMaxChainDepth sets the delegation recursion bound.
func (r *Registry) WithMaxChainDepth(depth int) *Registry {
	r.maxChainDepth = depth
	return r
}

// WithComplexityWeights overrides the complexity heuristic increments.
func (r *Registry) WithComplexityWeights(w ComplexityWeights) *Registry {
	r.weights = w
	return r
}

// RegisterAgent registers or replaces an agent.
func (r *Registry) RegisterAgent(caps Capabilities, executor Executor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.agents[caps.Name] = &registeredAgent{caps: caps, executor: executor}
	r.logger.Info("agent registered",
		zap.String("agent", string(caps.Name)),
		zap.Int("priority", caps.Priority))
}

// Get returns the capabilities of a registered agent.
func (r *Registry) Get(name AgentName) (Capabilities, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	if !ok {
		return Capabilities{}, false
	}
	return a.caps, true
}

// Remove unregisters an agent. Removing an absent agent is a no-op.
func (r *Registry) Remove(name AgentName) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, name)
}

// ListAgents returns the capabilities of every registered agent, sorted by
// name.
func (r *Registry) ListAgents() []Capabilities {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Capabilities, 0, len(r.agents))
	for _, a := range r.agents {
		out = append(out, a.caps)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RouteTask scores every registered agent against the task description and
// selects the best one. When the best score falls below the configured
// threshold, the default agent is returned with confidence equal to the
// threshold. Options.ForceAgent bypasses scoring.
func (r *Registry) RouteTask(task string, taskCtx TaskContext, opts Options) (RoutingResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if opts.ForceAgent != "" {
		a, ok := r.agents[opts.ForceAgent]
		if !ok {
			return RoutingResult{}, &ErrInvalidForcedAgent{Agent: opts.ForceAgent}
		}
		return RoutingResult{
			Agent:      opts.ForceAgent,
			Confidence: 100,
			Prompt:     RewritePrompt(a.caps.Name, task, taskCtx),
			Reasoning:  fmt.Sprintf("agent %s was explicitly requested", opts.ForceAgent),
		}, nil
	}

	complexity := AnalyzeComplexity(task, r.weights)
	lowerTask := strings.ToLower(task)

	// Iterate in sorted name order so ties resolve deterministically.
	names := make([]AgentName, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	var (
		best          *registeredAgent
		bestScore     float64
		bestReasoning string
	)
	for _, name := range names {
		a := r.agents[name]
		score, reasoning := scoreAgent(&a.caps, lowerTask, complexity)
		r.logger.Debug("agent scored",
			zap.String("agent", string(name)),
			zap.Float64("confidence", score),
			zap.Int("complexity", complexity))
		if best == nil || score > bestScore {
			best, bestScore, bestReasoning = a, score, reasoning
		}
	}

	if best == nil || bestScore < r.minConfidence {
		if _, ok := r.agents[r.defaultAgent]; !ok {
			return RoutingResult{}, fmt.Errorf("default agent %q: %w", r.defaultAgent, ErrNoAgents)
		}
		return RoutingResult{
			Agent:      r.defaultAgent,
			Confidence: r.minConfidence,
			Prompt:     RewritePrompt(r.defaultAgent, task, taskCtx),
			Reasoning: fmt.Sprintf("no agent scored above threshold %.0f; falling back to %s",
				r.minConfidence, r.defaultAgent),
		}, nil
	}

	return RoutingResult{
		Agent:      best.caps.Name,
		Confidence: bestScore,
		Prompt:     RewritePrompt(best.caps.Name, task, taskCtx),
		Reasoning:  bestReasoning,
	}, nil
}

// DelegateTask routes the task and immediately invokes the selected agent's
// executor with a forwarded context. The forwarded chain depth must not
// exceed the configured bound.
func (r *Registry) DelegateTask(ctx context.Context, from AgentName, task string, taskCtx TaskContext, opts Options) (string, error) {
	next := taskCtx.forwarded(from)
	if next.ChainDepth > r.maxChainDepth {
		return "", &ChainDepthExceededError{Chain: next.Chain, MaxDepth: r.maxChainDepth}
	}

	result, err := r.RouteTask(task, next, opts)
	if err != nil {
		return "", err
	}

	r.mu.RLock()
	a, ok := r.agents[result.Agent]
	r.mu.RUnlock()
	if !ok || a.executor == nil {
		return "", fmt.Errorf("agent %q has no executor", result.Agent)
	}

	r.logger.Info("delegating task",
		zap.String("from", string(from)),
		zap.String("to", string(result.Agent)),
		zap.Int("chain_depth", next.ChainDepth),
		zap.Float64("confidence", result.Confidence))

	return a.executor.ExecuteTask(ctx, result.Prompt, next)
}

// scoreAgent computes one agent's confidence in [0,100] plus the reasoning
// string explaining it.
func scoreAgent(caps *Capabilities, lowerTask string, complexity int) (float64, string) {
	matched := caps.matchedKeywords(lowerTask)
	var keywordScore float64
	if len(caps.Keywords) > 0 {
		keywordScore = float64(len(matched)) / float64(len(caps.Keywords)) * keywordWeight
	}

	complexityScore := complexityWeight
	if complexity < caps.MinComplexity {
		complexityScore -= float64(caps.MinComplexity-complexity) * complexityPenaltyPerUnit
	} else if complexity > caps.MaxComplexity {
		complexityScore -= float64(complexity-caps.MaxComplexity) * complexityPenaltyPerUnit
	}
	if complexityScore < 0 {
		complexityScore = 0
	}

	priorityScore := float64(4-caps.Priority) * priorityUnitBonus
	if priorityScore < 0 {
		priorityScore = 0
	}
	if priorityScore > complexityWeight {
		priorityScore = complexityWeight
	}

	total := keywordScore + complexityScore + priorityScore
	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}

	reasoning := fmt.Sprintf(
		"%s: %d/%d keywords matched %v, complexity %d vs band [%d,%d], priority %d",
		caps.Name, len(matched), len(caps.Keywords), matched,
		complexity, caps.MinComplexity, caps.MaxComplexity, caps.Priority)
	return total, reasoning
}
