package loop

import "github.com/tobyfell/dispatch"

// Observer interfaces for turn-loop lifecycle events. An observer registers
// once and receives events for whichever interfaces it implements.

// TurnObserver is notified at turn boundaries. Turn numbers start at 1
// within one ProcessTurn call.
type TurnObserver interface {
	OnTurnStart(turn int)
	OnTurnEnd(turn int, resp *dispatch.ModelResponse)
}

// ToolObserver is notified around tool execution. OnToolDenied fires
// instead of OnToolResult when a hook blocks the call.
type ToolObserver interface {
	OnToolCall(use dispatch.ToolUse)
	OnToolResult(result dispatch.ToolResult)
	OnToolDenied(use dispatch.ToolUse, reason string)
}

// Observers fans lifecycle events out to registered observers in
// registration order. Not safe for concurrent registration; register
// everything before starting the loop.
type Observers struct {
	observers []any
}

// NewObservers creates an empty observer registry.
func NewObservers() *Observers {
	return &Observers{}
}

// Register adds an observer implementing any combination of the observer
// interfaces. Returns the registry for chaining.
func (o *Observers) Register(obs any) *Observers {
	o.observers = append(o.observers, obs)
	return o
}

func (o *Observers) fireTurnStart(turn int) {
	for _, obs := range o.observers {
		if t, ok := obs.(TurnObserver); ok {
			t.OnTurnStart(turn)
		}
	}
}

func (o *Observers) fireTurnEnd(turn int, resp *dispatch.ModelResponse) {
	for _, obs := range o.observers {
		if t, ok := obs.(TurnObserver); ok {
			t.OnTurnEnd(turn, resp)
		}
	}
}

func (o *Observers) fireToolCall(use dispatch.ToolUse) {
	for _, obs := range o.observers {
		if t, ok := obs.(ToolObserver); ok {
			t.OnToolCall(use)
		}
	}
}

func (o *Observers) fireToolResult(result dispatch.ToolResult) {
	for _, obs := range o.observers {
		if t, ok := obs.(ToolObserver); ok {
			t.OnToolResult(result)
		}
	}
}

func (o *Observers) fireToolDenied(use dispatch.ToolUse, reason string) {
	for _, obs := range o.observers {
		if t, ok := obs.(ToolObserver); ok {
			t.OnToolDenied(use, reason)
		}
	}
}
