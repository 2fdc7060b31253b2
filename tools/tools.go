// Package tools implements the tool registry the turn loop executes against:
// named tools with JSON Schema input declarations, validated before every
// call, plus a small built-in set (echo, read_file, write_file, bash).
package tools

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/tobyfell/dispatch"
	"github.com/tobyfell/dispatch/schema"
)

// Tool is a single callable tool. Input arrives as the decoded structured
// object the model sent; it has already passed the tool's input schema.
type Tool interface {
	// Name returns the tool's identifier used in tool calls.
	Name() string

	// Description returns a human-readable description for the model.
	Description() string

	// InputSchema returns the compiled input schema, or nil when the tool
	// accepts anything.
	InputSchema() *schema.Schema

	// Call executes the tool.
	Call(ctx context.Context, input map[string]any) (string, error)
}

// ToolFunc adapts a function into a Tool.
type ToolFunc struct {
	name        string
	description string
	inputSchema *schema.Schema
	fn          func(ctx context.Context, input map[string]any) (string, error)
}

// NewToolFunc creates a Tool from a function. rawSchema may be nil for
// tools without parameters; otherwise it must compile.
func NewToolFunc(
	name, description string,
	rawSchema map[string]any,
	fn func(ctx context.Context, input map[string]any) (string, error),
) (*ToolFunc, error) {
	compiled, err := schema.Compile(rawSchema)
	if err != nil {
		return nil, fmt.Errorf("tool %s: %w", name, err)
	}
	return &ToolFunc{
		name:        name,
		description: description,
		inputSchema: compiled,
		fn:          fn,
	}, nil
}

// MustToolFunc is NewToolFunc panicking on a broken schema, for tools
// defined at package init.
func MustToolFunc(
	name, description string,
	rawSchema map[string]any,
	fn func(ctx context.Context, input map[string]any) (string, error),
) *ToolFunc {
	t, err := NewToolFunc(name, description, rawSchema, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// Name returns the tool's identifier.
func (t *ToolFunc) Name() string { return t.name }

// Description returns the description shown to the model.
func (t *ToolFunc) Description() string { return t.description }

// InputSchema returns the compiled input schema.
func (t *ToolFunc) InputSchema() *schema.Schema { return t.inputSchema }

// Call executes the tool function.
func (t *ToolFunc) Call(ctx context.Context, input map[string]any) (string, error) {
	return t.fn(ctx, input)
}

var _ Tool = (*ToolFunc)(nil)

// Registry holds registered tools and executes them by name, validating
// input against each tool's schema first. It implements
// dispatch.ToolRegistry. Registration and execution may run concurrently.
type Registry struct {
	mu     sync.RWMutex
	tools  map[string]Tool
	order  []string
	logger *zap.Logger
}

// NewRegistry creates an empty tool registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		tools:  make(map[string]Tool),
		logger: logger,
	}
}

// Register adds a tool. Re-registering a name replaces the tool but keeps
// its original position in Tools(). Returns the registry for chaining.
func (r *Registry) Register(t Tool) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.Name()]; !exists {
		r.order = append(r.order, t.Name())
	}
	r.tools[t.Name()] = t
	return r
}

// Get returns the named tool.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Execute implements dispatch.ToolRegistry. Unknown tools and schema
// violations return errors; the caller converts them into error-flagged
// tool results.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) (string, error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}

	if err := t.InputSchema().Validate(input); err != nil {
		return "", fmt.Errorf("tool %s: %w", name, err)
	}

	r.logger.Debug("executing tool", zap.String("tool", name))
	return t.Call(ctx, input)
}

// Tools implements dispatch.ToolRegistry, returning declarations in
// registration order.
func (r *Registry) Tools() []llms.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]llms.Tool, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.InputSchema().Raw(),
			},
		})
	}
	return out
}

var _ dispatch.ToolRegistry = (*Registry)(nil)
