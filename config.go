package dispatch

import "time"

// Config carries the tunable bounds injected by the CLI entry point.
// Flag and environment parsing happen outside the core; components receive
// this as a plain value.
type Config struct {
	// Model is the provider model identifier used for turn-loop requests.
	Model string

	// MaxTokens bounds each model response. Zero means provider default.
	MaxTokens int

	// MaxTurns bounds the number of model calls within one ProcessTurn.
	// Reaching it is reported as a turn-limit outcome, not an error.
	MaxTurns int

	// HistoryLimit bounds the conversation history length in messages.
	// Oldest messages are dropped first; the system prompt is preserved.
	HistoryLimit int

	// MaxChainDepth bounds successive agent-to-agent delegations.
	MaxChainDepth int

	// MinConfidence is the routing score below which the router falls back
	// to the default agent.
	MinConfidence float64

	// HookTimeout bounds each hook process execution.
	HookTimeout time.Duration
}

// DefaultConfig returns the bounds used when the caller does not override
// them.
func DefaultConfig() Config {
	return Config{
		Model:         ModelAnthropicSonnet,
		MaxTokens:     4096,
		MaxTurns:      25,
		HistoryLimit:  200,
		MaxChainDepth: 3,
		MinConfidence: 20,
		HookTimeout:   30 * time.Second,
	}
}
