package dispatch

import (
	"context"

	"github.com/tmc/langchaingo/llms"
)

// Stop reasons reported by model responses. Providers differ in their exact
// vocabulary; implementations normalize to these values where possible.
const (
	StopReasonEndTurn   = "end_turn"
	StopReasonToolUse   = "tool_use"
	StopReasonMaxTokens = "max_tokens"
)

// ModelRequest is one chat-completion request built by the turn loop.
type ModelRequest struct {
	// Model is the provider model identifier.
	Model string

	// SystemPrompt is sent as the leading system message when non-empty.
	SystemPrompt string

	// Messages is the trimmed conversation history, oldest first.
	Messages []Message

	// Tools describes the tools the model may invoke.
	Tools []llms.Tool

	// MaxTokens bounds the response length. Zero means provider default.
	MaxTokens int
}

// ModelResponse is the decoded result of a chat-completion request.
type ModelResponse struct {
	// Text is the concatenated text content of the response.
	Text string

	// ToolUses are the tool invocations the model requested, in the order
	// the model returned them. Empty when the model ended its turn.
	ToolUses []ToolUse

	// StopReason is the provider's stop reason, normalized where possible.
	StopReason string
}

// HasToolUses reports whether the response requests any tool invocations.
func (r *ModelResponse) HasToolUses() bool {
	return len(r.ToolUses) > 0
}

// Model is the external chat-completion collaborator. Implementations must be
// safe for concurrent use; the turn loop issues one call at a time per
// conversation but independent conversations may share a Model.
//
// See models.NewLangChain for the langchaingo-backed implementation and
// internal/tt for the scripted test double.
type Model interface {
	// Send performs one chat completion. It blocks until the provider
	// responds or ctx is done.
	Send(ctx context.Context, req *ModelRequest) (*ModelResponse, error)
}
