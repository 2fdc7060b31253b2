package dispatch

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// ToolRegistry is the external tool-execution collaborator. The turn loop
// never inspects tool internals; it passes the model's structured input
// through and appends whatever comes back.
//
// Execute returns the tool's output payload, or an error when the tool is
// unknown, its input fails validation, or execution fails. Errors become
// error-flagged ToolResults in the conversation; they never abort the turn.
type ToolRegistry interface {
	// Execute runs the named tool with the given structured input.
	Execute(ctx context.Context, name string, input map[string]any) (string, error)

	// Tools returns the schema descriptors for every registered tool, in
	// registration order, for inclusion in model requests.
	Tools() []llms.Tool
}
