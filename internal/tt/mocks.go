// Package tt provides test helpers shared across the dispatch test suites.
package tt

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/tobyfell/dispatch"
)

// -----------------------------------------------------------------------------
// ScriptedModel - implements dispatch.Model with queued responses
// -----------------------------------------------------------------------------

// ScriptedModel is a configurable mock implementing dispatch.Model. Responses
// and errors are consumed in queue order; once the queue is exhausted the
// model returns a plain end-turn response.
type ScriptedModel struct {
	mu        sync.Mutex
	responses []*dispatch.ModelResponse
	errors    []error
	callCount int

	// CapturedRequests stores every request passed to Send, in call order.
	CapturedRequests []*dispatch.ModelRequest
}

// NewScriptedModel creates an empty ScriptedModel.
func NewScriptedModel() *ScriptedModel {
	return &ScriptedModel{}
}

// AddTextResponse queues an end-turn text response.
func (m *ScriptedModel) AddTextResponse(text string) *ScriptedModel {
	m.responses = append(m.responses, &dispatch.ModelResponse{
		Text:       text,
		StopReason: dispatch.StopReasonEndTurn,
	})
	return m
}

// AddToolUseResponse queues a response requesting the named tool calls. Each
// call gets a generated ID tu-<index>.
func (m *ScriptedModel) AddToolUseResponse(uses ...dispatch.ToolUse) *ScriptedModel {
	for i := range uses {
		if uses[i].ID == "" {
			uses[i].ID = fmt.Sprintf("tu-%d", len(m.responses)*10+i)
		}
		if uses[i].Input == nil {
			uses[i].Input = map[string]any{}
		}
	}
	m.responses = append(m.responses, &dispatch.ModelResponse{
		ToolUses:   uses,
		StopReason: dispatch.StopReasonToolUse,
	})
	return m
}

// AddRawResponse queues a response as-is.
func (m *ScriptedModel) AddRawResponse(resp *dispatch.ModelResponse) *ScriptedModel {
	m.responses = append(m.responses, resp)
	return m
}

// AddError queues an error for the next call.
func (m *ScriptedModel) AddError(err error) *ScriptedModel {
	for len(m.responses) <= len(m.errors) {
		m.responses = append(m.responses, nil)
	}
	m.errors = append(m.errors, err)
	return m
}

// CallCount returns the number of Send calls so far.
func (m *ScriptedModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Send implements dispatch.Model.
func (m *ScriptedModel) Send(ctx context.Context, req *dispatch.ModelRequest) (*dispatch.ModelResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	idx := m.callCount
	m.callCount++
	m.CapturedRequests = append(m.CapturedRequests, req)
	m.mu.Unlock()

	if idx < len(m.errors) && m.errors[idx] != nil {
		return nil, m.errors[idx]
	}
	if idx < len(m.responses) && m.responses[idx] != nil {
		return m.responses[idx], nil
	}
	return &dispatch.ModelResponse{Text: "done", StopReason: dispatch.StopReasonEndTurn}, nil
}

var _ dispatch.Model = (*ScriptedModel)(nil)

// -----------------------------------------------------------------------------
// SpyToolRegistry - implements dispatch.ToolRegistry with canned results
// -----------------------------------------------------------------------------

// SpyToolRegistry is a dispatch.ToolRegistry that records every Execute call
// and returns canned results per tool name.
type SpyToolRegistry struct {
	mu      sync.Mutex
	results map[string]string
	errs    map[string]error

	// Calls records (name, input) pairs in execution order.
	Calls []SpyCall
}

// SpyCall is one recorded Execute invocation.
type SpyCall struct {
	Name  string
	Input map[string]any
}

// NewSpyToolRegistry creates a registry with no canned results; unknown
// tools return an error.
func NewSpyToolRegistry() *SpyToolRegistry {
	return &SpyToolRegistry{
		results: make(map[string]string),
		errs:    make(map[string]error),
	}
}

// WithResult sets the canned result for a tool name.
func (r *SpyToolRegistry) WithResult(name, result string) *SpyToolRegistry {
	r.results[name] = result
	return r
}

// WithError makes a tool name fail with the given error.
func (r *SpyToolRegistry) WithError(name string, err error) *SpyToolRegistry {
	r.errs[name] = err
	return r
}

// Execute implements dispatch.ToolRegistry.
func (r *SpyToolRegistry) Execute(ctx context.Context, name string, input map[string]any) (string, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, SpyCall{Name: name, Input: input})
	r.mu.Unlock()

	if err, ok := r.errs[name]; ok {
		return "", err
	}
	if result, ok := r.results[name]; ok {
		return result, nil
	}
	return "", fmt.Errorf("unknown tool %q", name)
}

// Tools implements dispatch.ToolRegistry. Declarations cover every canned
// tool with an empty object schema.
func (r *SpyToolRegistry) Tools() []llms.Tool {
	var tools []llms.Tool
	for name := range r.results {
		tools = append(tools, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:       name,
				Parameters: map[string]any{"type": "object"},
			},
		})
	}
	return tools
}

var _ dispatch.ToolRegistry = (*SpyToolRegistry)(nil)
