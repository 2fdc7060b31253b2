// Package models provides Model implementations backed by langchaingo
// providers.
package models

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/tobyfell/dispatch"
)

// LangChain wraps an llms.Model and implements dispatch.Model. It converts
// between the turn loop's request/response types and langchaingo's message
// content, normalizing stop reasons across providers.
//
//	llm, _ := anthropic.New(anthropic.WithToken(apiKey))
//	model := models.NewLangChain(llm)
type LangChain struct {
	model llms.Model
}

// NewLangChain wraps a langchaingo model.
func NewLangChain(model llms.Model) *LangChain {
	return &LangChain{model: model}
}

// Unwrap returns the underlying llms.Model.
func (m *LangChain) Unwrap() llms.Model {
	return m.model
}

// Send implements dispatch.Model.
func (m *LangChain) Send(ctx context.Context, req *dispatch.ModelRequest) (*dispatch.ModelResponse, error) {
	messages := make([]llms.MessageContent, 0, len(req.Messages)+1)
	if req.SystemPrompt != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: req.SystemPrompt}},
		})
	}
	for _, msg := range req.Messages {
		messages = append(messages, msg.AsLLMS())
	}

	opts := []llms.CallOption{}
	if req.Model != "" {
		opts = append(opts, llms.WithModel(req.Model))
	}
	if req.MaxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(req.MaxTokens))
	}
	if len(req.Tools) > 0 {
		opts = append(opts, llms.WithTools(req.Tools))
	}

	resp, err := m.model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	return convertChoice(resp.Choices[0]), nil
}

var _ dispatch.Model = (*LangChain)(nil)

// convertChoice decodes the first choice into the turn loop's response
// shape. Tool calls keep the order the provider returned them in.
func convertChoice(choice *llms.ContentChoice) *dispatch.ModelResponse {
	out := &dispatch.ModelResponse{
		Text:       choice.Content,
		StopReason: normalizeStopReason(choice.StopReason),
	}
	for _, call := range choice.ToolCalls {
		out.ToolUses = append(out.ToolUses, dispatch.ToolUseFromCall(call))
	}
	if choice.FuncCall != nil && len(choice.ToolCalls) == 0 {
		out.ToolUses = append(out.ToolUses, dispatch.ToolUseFromCall(llms.ToolCall{
			Type:         "function",
			FunctionCall: choice.FuncCall,
		}))
	}
	if len(out.ToolUses) > 0 && out.StopReason == dispatch.StopReasonEndTurn {
		out.StopReason = dispatch.StopReasonToolUse
	}
	return out
}

// normalizeStopReason maps provider stop-reason vocabularies onto the three
// values the turn loop distinguishes.
func normalizeStopReason(reason string) string {
	switch reason {
	case "end_turn", "stop", "stop_sequence", "":
		return dispatch.StopReasonEndTurn
	case "tool_use", "tool_calls", "function_call":
		return dispatch.StopReasonToolUse
	case "max_tokens", "length":
		return dispatch.StopReasonMaxTokens
	}
	return reason
}
