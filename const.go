package dispatch

// Well-known model identifiers for the providers the CLI exposes.
// Any provider model id accepted by the configured backend works; these are
// just convenient defaults.
const (
	// Anthropic
	ModelAnthropicSonnet = "claude-sonnet-4-5"
	ModelAnthropicHaiku  = "claude-haiku-4-5"
	ModelAnthropicOpus   = "claude-opus-4-5"

	// OpenAI
	ModelOpenAIGPT4o     = "gpt-4o"
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
	ModelOpenAIGPT41     = "gpt-4.1"
)
