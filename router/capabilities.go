// Package router implements the agent registry and task router: agents are
// registered with capability descriptors, and incoming task descriptions are
// scored against them to select the best handler. Delegation between agents
// is supported with an explicit recursion bound.
package router

import (
	"context"
	"fmt"
	"strings"
)

// AgentName identifies an agent. The set is closed; routing only ever
// selects one of these.
type AgentName string

const (
	// AgentExplore searches and reads the codebase.
	AgentExplore AgentName = "explore"

	// AgentPlan produces step-by-step plans for complex work.
	AgentPlan AgentName = "plan"

	// AgentExecute makes changes: writes code, runs commands.
	AgentExecute AgentName = "execute"

	// AgentReview checks existing work for correctness and style.
	AgentReview AgentName = "review"
)

// ParseAgentName validates an agent name string.
func ParseAgentName(s string) (AgentName, error) {
	switch AgentName(s) {
	case AgentExplore, AgentPlan, AgentExecute, AgentReview:
		return AgentName(s), nil
	}
	return "", fmt.Errorf("unknown agent name %q", s)
}

// Capabilities describes what an agent is good at. Immutable once
// registered.
type Capabilities struct {
	// Name is the agent's identity.
	Name AgentName

	// Skills are ordered labels describing what the agent does, used in
	// reasoning strings and listings.
	Skills []string

	// Priority breaks ties between similar agents; lower values earn a
	// larger scoring bonus.
	Priority int

	// Description is a human-readable summary.
	Description string

	// Keywords are trigger phrases matched case-insensitively against the
	// task text.
	Keywords []string

	// MinComplexity and MaxComplexity bound the task complexity band, on
	// the 1..10 scale, the agent is suited for.
	MinComplexity int
	MaxComplexity int
}

// matchedKeywords returns the keywords present in the lowercased task text.
func (c *Capabilities) matchedKeywords(lowerTask string) []string {
	var matched []string
	for _, kw := range c.Keywords {
		if strings.Contains(lowerTask, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// TaskContext carries routing context across a conversation. The router
// never mutates it; delegation builds a fresh value with PreviousAgent and
// ChainDepth advanced.
type TaskContext struct {
	// History holds recent conversation snippets, oldest first.
	History []string

	// PreviousAgent names the agent that handled the previous step, if
	// any.
	PreviousAgent AgentName

	// Preferences are free-form user preferences the executor may consult.
	Preferences map[string]string

	// ChainDepth counts successive delegations in this logical task.
	// Starts at 0 for a fresh user request.
	ChainDepth int

	// Chain lists the agents traversed so far, for error reporting.
	Chain []AgentName
}

// forwarded returns a copy advanced one delegation step.
func (tc TaskContext) forwarded(from AgentName) TaskContext {
	next := tc
	next.PreviousAgent = from
	next.ChainDepth++
	next.Chain = append(append([]AgentName{}, tc.Chain...), from)
	return next
}

// RoutingResult is the outcome of one routing call.
type RoutingResult struct {
	// Agent is the selected agent.
	Agent AgentName

	// Confidence is the selection score in [0,100].
	Confidence float64

	// Prompt is the task text rewritten for the selected agent.
	Prompt string

	// Reasoning explains the selection in human-readable form.
	Reasoning string
}

// Options tunes a single routing call.
type Options struct {
	// ForceAgent bypasses scoring and selects the named agent with
	// confidence 100. Routing fails if the agent is not registered.
	ForceAgent AgentName
}

// Executor runs a task on behalf of an agent.
type Executor interface {
	// ExecuteTask processes the (already rewritten) prompt and returns the
	// agent's output.
	ExecuteTask(ctx context.Context, prompt string, taskCtx TaskContext) (string, error)
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, prompt string, taskCtx TaskContext) (string, error)

// ExecuteTask implements Executor.
func (f ExecutorFunc) ExecuteTask(ctx context.Context, prompt string, taskCtx TaskContext) (string, error) {
	return f(ctx, prompt, taskCtx)
}
