package hook

import "fmt"

// Wire protocol for hook processes. This is an external contract: third-party
// hook scripts depend on the exact field names and the exit-code mapping, so
// changes here are breaking.

// Input is the JSON object a hook process receives on stdin.
//
//	{
//	  "session_id": "abc-123",
//	  "tool_name": "Write",
//	  "tool_input": {"file_path": "/path/to/file", "content": "..."}
//	}
//
// For SessionStart hooks ToolName is the event name and ToolInput is null.
type Input struct {
	SessionID string `json:"session_id"`
	ToolName  string `json:"tool_name"`
	ToolInput any    `json:"tool_input"`
}

// Output is the JSON object a hook process may emit on stdout. The body is
// supplementary; the exit code is the authoritative signal.
//
//	{
//	  "hookSpecificOutput": {
//	    "hookEventName": "SessionStart",
//	    "additionalContext": "Development environment initialized"
//	  }
//	}
type Output struct {
	HookSpecificOutput *SpecificOutput `json:"hookSpecificOutput,omitempty"`
}

// SpecificOutput carries the event-specific fields of a hook's output.
type SpecificOutput struct {
	HookEventName     string `json:"hookEventName,omitempty"`
	AdditionalContext string `json:"additionalContext,omitempty"`
	Message           string `json:"message,omitempty"`
}

func (o *Output) additionalContext() string {
	if o == nil || o.HookSpecificOutput == nil {
		return ""
	}
	return o.HookSpecificOutput.AdditionalContext
}

func (o *Output) message() string {
	if o == nil || o.HookSpecificOutput == nil {
		return ""
	}
	return o.HookSpecificOutput.Message
}

// Decision is the in-process interpretation of a hook's exit code.
type Decision int

const (
	// Allow lets the action proceed, optionally contributing context.
	Allow Decision = iota

	// Warn lets the action proceed but carries a message worth logging.
	Warn

	// Deny blocks the action with a message explaining why.
	Deny
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Warn:
		return "warn"
	case Deny:
		return "deny"
	}
	return "unknown"
}

// Result is the reduced outcome of evaluating one or more hooks.
type Result struct {
	// Decision is Allow, Warn, or Deny.
	Decision Decision

	// Context is additional context contributed by allowing hooks,
	// newline-joined when several hooks contribute.
	Context string

	// Message explains a Warn or Deny.
	Message string

	// Source is the hooks file the deciding hook was loaded from, for
	// attribution in user-visible deny messages.
	Source string

	// Command is the deciding hook's command line, for attribution.
	Command string
}

// Allowed reports whether the action may proceed (Allow or Warn).
func (r Result) Allowed() bool {
	return r.Decision != Deny
}

// ResultFromExitCode maps a hook process exit code and optional parsed
// output to a Result:
//
//	0 -> Allow, carrying additionalContext when present
//	1 -> Warn, carrying message (or a default)
//	2 -> Deny, carrying message (or a default)
//
// Any other exit code maps to Warn: unexpected failures must never silently
// allow nor block.
func ResultFromExitCode(code int, out *Output) Result {
	switch code {
	case 0:
		return Result{Decision: Allow, Context: out.additionalContext()}
	case 1:
		msg := out.message()
		if msg == "" {
			msg = "hook returned warning status"
		}
		return Result{Decision: Warn, Message: msg}
	case 2:
		msg := out.message()
		if msg == "" {
			msg = "hook denied the operation"
		}
		return Result{Decision: Deny, Message: msg}
	}
	return Result{Decision: Warn, Message: fmt.Sprintf("hook returned unexpected exit code %d", code)}
}
