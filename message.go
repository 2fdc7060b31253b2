package dispatch

import (
	"encoding/json"

	"github.com/tmc/langchaingo/llms"
)

// Message is a single role-tagged entry in the conversation history.
// It wraps [llms.MessageContent] so messages pass straight through to
// langchaingo-backed models without conversion.
type Message struct {
	Role  llms.ChatMessageType
	Parts []llms.ContentPart
}

// UserMessage creates a plain-text message with the human role.
func UserMessage(text string) Message {
	return Message{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: text}},
	}
}

// AssistantMessage creates a message with the AI role from arbitrary parts.
func AssistantMessage(parts ...llms.ContentPart) Message {
	return Message{Role: llms.ChatMessageTypeAI, Parts: parts}
}

// AsLLMS converts the message to its langchaingo representation.
func (m Message) AsLLMS() llms.MessageContent {
	return llms.MessageContent{Role: m.Role, Parts: m.Parts}
}

// Text returns the concatenated text parts of the message.
func (m Message) Text() string {
	var out string
	for _, p := range m.Parts {
		if tc, ok := p.(llms.TextContent); ok {
			out += tc.Text
		}
	}
	return out
}

// ToolUse is a single tool invocation requested by the model within a
// response. Input is the decoded structured argument object.
type ToolUse struct {
	// ID correlates the invocation with its ToolResult.
	ID string

	// Name is the tool's registered identifier (e.g. "read_file").
	Name string

	// Input is the structured input for the tool.
	Input map[string]any
}

// AsLLMS converts the tool use to a langchaingo tool-call content part.
// The input object is re-encoded as a JSON argument string.
func (t ToolUse) AsLLMS() llms.ToolCall {
	args, err := json.Marshal(t.Input)
	if err != nil {
		args = []byte("{}")
	}
	return llms.ToolCall{
		ID:   t.ID,
		Type: "function",
		FunctionCall: &llms.FunctionCall{
			Name:      t.Name,
			Arguments: string(args),
		},
	}
}

// ToolUseFromCall decodes a langchaingo tool call into a ToolUse.
// Malformed argument JSON yields an empty input object rather than an error;
// the tool's schema validation reports the real problem to the model.
func ToolUseFromCall(call llms.ToolCall) ToolUse {
	use := ToolUse{Input: map[string]any{}}
	use.ID = call.ID
	if call.FunctionCall != nil {
		use.Name = call.FunctionCall.Name
		if call.FunctionCall.Arguments != "" {
			_ = json.Unmarshal([]byte(call.FunctionCall.Arguments), &use.Input)
		}
	}
	return use
}

// ToolResult is the outcome of one tool invocation, appended back into the
// conversation before the next model call.
type ToolResult struct {
	// ToolUseID correlates the result with the originating ToolUse.
	ToolUseID string

	// Name is the tool that produced the result.
	Name string

	// Content is the success payload, or the error message when IsError.
	Content string

	// IsError marks the result as a failure (denied, unknown tool, or
	// execution error). The conversation continues either way.
	IsError bool
}

// ToolResultsMessage packs tool results into a single tool-role message,
// preserving the order of results.
func ToolResultsMessage(results []ToolResult) Message {
	parts := make([]llms.ContentPart, 0, len(results))
	for _, r := range results {
		content := r.Content
		if r.IsError {
			content = "Error: " + content
		}
		parts = append(parts, llms.ToolCallResponse{
			ToolCallID: r.ToolUseID,
			Name:       r.Name,
			Content:    content,
		})
	}
	return Message{Role: llms.ChatMessageTypeTool, Parts: parts}
}
