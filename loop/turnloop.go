package loop

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"go.uber.org/zap"

	"github.com/tobyfell/dispatch"
	"github.com/tobyfell/dispatch/hook"
	"github.com/tobyfell/dispatch/router"
)

// Outcome is the terminal state of one ProcessTurn call.
type Outcome string

const (
	// OutcomeCompleted means the model ended its turn normally.
	OutcomeCompleted Outcome = "completed"

	// OutcomeTurnLimitExceeded means the turn bound was reached while the
	// model was still requesting tools. This is an expected terminal state
	// for runaway tasks, not an error.
	OutcomeTurnLimitExceeded Outcome = "turn_limit_exceeded"
)

// hookContextKey is the reserved tool-input key under which context
// contributed by allowing PreToolUse hooks is merged.
const hookContextKey = "hook_context"

// TurnResult is what one ProcessTurn call produced.
type TurnResult struct {
	// Output is the model's final text. On a turn-limit outcome it holds
	// whatever text the last response carried.
	Output string

	// Outcome distinguishes normal completion from the turn bound.
	Outcome Outcome

	// Turns is the number of model calls made.
	Turns int

	// Agent is the agent the router selected, when routing is enabled.
	Agent router.AgentName

	// Confidence is the routing confidence, when routing is enabled.
	Confidence float64

	// Warnings holds PostToolUse hook messages surfaced under the
	// surface-warn policy.
	Warnings []string
}

// TurnLoop drives multi-step conversations: it sends the bounded history to
// the model, executes requested tools under hook supervision, appends the
// results, and repeats until the model stops requesting tools or MaxTurns
// is reached.
//
// A TurnLoop owns its ConversationManager exclusively. One TurnLoop serves
// one conversation; run independent conversations on separate instances.
type TurnLoop struct {
	model     dispatch.Model
	tools     dispatch.ToolRegistry
	hooks     *hook.Executor
	registry  *router.Registry
	conv      *ConversationManager
	config    dispatch.Config
	observers *Observers
	logger    *zap.Logger
}

// New creates a TurnLoop over the given model and tool registry.
func New(model dispatch.Model, tools dispatch.ToolRegistry, config dispatch.Config) *TurnLoop {
	return &TurnLoop{
		model:     model,
		tools:     tools,
		conv:      NewConversation(config.HistoryLimit),
		config:    config,
		observers: NewObservers(),
		logger:    zap.NewNop(),
	}
}

// WithHooks attaches a hook executor. Without one, every tool call is
// allowed.
func (l *TurnLoop) WithHooks(h *hook.Executor) *TurnLoop {
	l.hooks = h
	return l
}

// WithRouter attaches an agent registry; each user turn is then routed and
// its prompt rewritten for the selected agent before reaching the model.
func (l *TurnLoop) WithRouter(r *router.Registry) *TurnLoop {
	l.registry = r
	return l
}

// WithSystemPrompt sets the base system prompt.
func (l *TurnLoop) WithSystemPrompt(prompt string) *TurnLoop {
	l.conv.SetSystemPrompt(prompt)
	return l
}

// WithLogger sets the logger.
func (l *TurnLoop) WithLogger(logger *zap.Logger) *TurnLoop {
	l.logger = logger
	return l
}

// RegisterObserver adds a lifecycle observer. Returns the loop for
// chaining.
func (l *TurnLoop) RegisterObserver(obs any) *TurnLoop {
	l.observers.Register(obs)
	return l
}

// Conversation exposes the conversation manager, for inspection and tests.
func (l *TurnLoop) Conversation() *ConversationManager {
	return l.conv
}

// StartSession runs the SessionStart hooks and appends the context they
// contribute to the system prompt. Returns the contributed context.
func (l *TurnLoop) StartSession(ctx context.Context) string {
	if l.hooks == nil {
		return ""
	}
	contributed := l.hooks.RunSessionStart(ctx)
	l.conv.AppendSystemContext(contributed)
	return contributed
}

// ProcessTurn handles one user turn. The user input is appended to history
// (after optional routing), then the model is called repeatedly, executing
// any requested tools, until it ends its turn or MaxTurns model calls have
// been made.
//
// If ctx is canceled mid-turn, every message appended during this call is
// rolled back so the history never holds partial tool results.
func (l *TurnLoop) ProcessTurn(ctx context.Context, userInput string) (*TurnResult, error) {
	result := &TurnResult{}

	prompt := userInput
	if l.registry != nil {
		routed, err := l.registry.RouteTask(userInput, router.TaskContext{
			History: l.conv.Transcript(),
		}, router.Options{})
		if err != nil {
			return nil, fmt.Errorf("route task: %w", err)
		}
		prompt = routed.Prompt
		result.Agent = routed.Agent
		result.Confidence = routed.Confidence
		l.logger.Info("task routed",
			zap.String("agent", string(routed.Agent)),
			zap.Float64("confidence", routed.Confidence),
			zap.String("reasoning", routed.Reasoning))
	}

	mark := l.conv.Len()
	l.conv.Append(dispatch.UserMessage(prompt))

	for turn := 1; turn <= l.config.MaxTurns; turn++ {
		l.observers.fireTurnStart(turn)
		result.Turns = turn

		resp, err := l.model.Send(ctx, l.buildRequest())
		if err != nil {
			l.conv.Truncate(mark)
			return nil, fmt.Errorf("model call: %w", err)
		}
		l.observers.fireTurnEnd(turn, resp)
		result.Output = resp.Text

		l.appendAssistant(resp)

		if !resp.HasToolUses() {
			result.Outcome = OutcomeCompleted
			l.conv.Commit()
			return result, nil
		}

		results := make([]dispatch.ToolResult, 0, len(resp.ToolUses))
		for _, use := range resp.ToolUses {
			if err := ctx.Err(); err != nil {
				l.conv.Truncate(mark)
				return nil, err
			}
			results = append(results, l.runTool(ctx, use, result))
		}
		l.conv.Append(dispatch.ToolResultsMessage(results))

		if err := ctx.Err(); err != nil {
			l.conv.Truncate(mark)
			return nil, err
		}
	}

	l.logger.Warn("turn limit reached",
		zap.Int("max_turns", l.config.MaxTurns))
	result.Outcome = OutcomeTurnLimitExceeded
	l.conv.Commit()
	return result, nil
}

func (l *TurnLoop) buildRequest() *dispatch.ModelRequest {
	req := &dispatch.ModelRequest{
		Model:        l.config.Model,
		SystemPrompt: l.conv.SystemPrompt(),
		Messages:     l.conv.Messages(),
		MaxTokens:    l.config.MaxTokens,
	}
	if l.tools != nil {
		req.Tools = l.tools.Tools()
	}
	return req
}

func (l *TurnLoop) appendAssistant(resp *dispatch.ModelResponse) {
	msg := dispatch.AssistantMessage()
	if resp.Text != "" {
		msg.Parts = append(msg.Parts, llms.TextContent{Text: resp.Text})
	}
	for _, use := range resp.ToolUses {
		msg.Parts = append(msg.Parts, use.AsLLMS())
	}
	l.conv.Append(msg)
}

// runTool executes one tool use under hook supervision and returns its
// result. Denials and execution failures become error-flagged results; the
// conversation continues either way.
func (l *TurnLoop) runTool(ctx context.Context, use dispatch.ToolUse, result *TurnResult) dispatch.ToolResult {
	l.observers.fireToolCall(use)

	input := use.Input
	if l.hooks != nil {
		verdict := l.hooks.RunPreToolUse(ctx, use.Name, use.Input)
		if !verdict.Allowed() {
			reason := denyReason(verdict)
			l.logger.Info("tool call denied",
				zap.String("tool", use.Name),
				zap.String("hook", verdict.Command),
				zap.String("source", verdict.Source))
			l.observers.fireToolDenied(use, reason)
			return dispatch.ToolResult{
				ToolUseID: use.ID,
				Name:      use.Name,
				Content:   reason,
				IsError:   true,
			}
		}
		if verdict.Context != "" {
			input = make(map[string]any, len(use.Input)+1)
			for k, v := range use.Input {
				input[k] = v
			}
			input[hookContextKey] = verdict.Context
		}
	}

	res := dispatch.ToolResult{ToolUseID: use.ID, Name: use.Name}
	out, err := l.tools.Execute(ctx, use.Name, input)
	if err != nil {
		res.Content = err.Error()
		res.IsError = true
	} else {
		res.Content = out
	}

	if l.hooks != nil {
		warnings := l.hooks.RunPostToolUse(ctx, use.Name, res.Content)
		result.Warnings = append(result.Warnings, warnings...)
	}

	l.observers.fireToolResult(res)
	return res
}

// denyReason formats a denial so the model and user can see which hook
// blocked the call and why.
func denyReason(verdict hook.Result) string {
	if verdict.Source != "" {
		return fmt.Sprintf("tool call blocked by hook %q (%s): %s",
			verdict.Command, verdict.Source, verdict.Message)
	}
	return fmt.Sprintf("tool call blocked by hook %q: %s", verdict.Command, verdict.Message)
}
