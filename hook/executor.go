package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	shellwords "github.com/mattn/go-shellwords"
	"go.uber.org/zap"
)

// PostToolUsePolicy controls what happens to failing PostToolUse hooks.
// They can never veto a tool call that already executed; the policy only
// decides whether their warnings surface beyond the log.
type PostToolUsePolicy string

const (
	// PostToolUseLogOnly records PostToolUse warnings in the log and
	// nothing else. This is the default.
	PostToolUseLogOnly PostToolUsePolicy = "log"

	// PostToolUseSurfaceWarn additionally returns warning messages to the
	// caller so a UI can show them.
	PostToolUseSurfaceWarn PostToolUsePolicy = "surface"
)

// DefaultTimeout bounds a hook process when ExecutorConfig.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// ExecutorConfig carries per-session executor settings.
type ExecutorConfig struct {
	// SessionID is sent to every hook as session_id.
	SessionID string

	// Timeout bounds each hook process. Zero means DefaultTimeout.
	Timeout time.Duration

	// PostToolUsePolicy defaults to PostToolUseLogOnly.
	PostToolUsePolicy PostToolUsePolicy
}

// ProcessError describes a hook process that could not deliver a verdict:
// spawn failure, timeout, or an unparseable command line. It is always
// recovered as Warn, never propagated as a hard error.
type ProcessError struct {
	Command string
	Timeout bool
	Err     error
}

func (e *ProcessError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("hook %q timed out", e.Command)
	}
	return fmt.Sprintf("hook %q failed: %v", e.Command, e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// Executor runs the hooks matching a lifecycle event as external processes
// and reduces their exit codes into one decision.
//
// Per-kind protocol:
//
//   - SessionStart: all hooks run; contributed context strings are
//     concatenated. Failures are logged and never block startup.
//   - PreToolUse: matching hooks run sequentially in discovery order. The
//     first exit code 2 denies and stops evaluation; exit code 1 warns and
//     continues; exit code 0 allows, optionally contributing context.
//   - PostToolUse: matching hooks run sequentially but are informational
//     only; the tool has already executed.
//
// An Executor is safe for concurrent use: its configuration is immutable
// after construction and each run spawns independent processes.
type Executor struct {
	config *Config
	ec     ExecutorConfig
	logger *zap.Logger
}

// NewExecutor creates an Executor over the given hook configuration.
// A nil config behaves as an empty one.
func NewExecutor(config *Config, ec ExecutorConfig, logger *zap.Logger) *Executor {
	if config == nil {
		config = NewConfig()
	}
	if ec.Timeout <= 0 {
		ec.Timeout = DefaultTimeout
	}
	if ec.PostToolUsePolicy == "" {
		ec.PostToolUsePolicy = PostToolUseLogOnly
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{config: config, ec: ec, logger: logger}
}

// SessionID returns the session identifier sent to hooks.
func (e *Executor) SessionID() string { return e.ec.SessionID }

// RunSessionStart executes every SessionStart hook and returns the
// newline-joined additional context they contributed, for insertion into the
// initial system prompt. Hook failures are logged as warnings and skipped.
func (e *Executor) RunSessionStart(ctx context.Context) string {
	var contexts []string
	for _, i := range e.config.OfKind(KindSessionStart) {
		def := &e.config.Hooks[i]
		res, err := e.run(ctx, def, string(KindSessionStart), nil)
		if err != nil {
			e.logger.Warn("SessionStart hook failed",
				zap.String("command", def.Command),
				zap.Error(err))
			continue
		}
		if res.Decision == Allow && res.Context != "" {
			contexts = append(contexts, res.Context)
		}
	}
	return strings.Join(contexts, "\n")
}

// RunPreToolUse evaluates the PreToolUse hooks matching toolName in
// discovery order. The first Deny stops evaluation and is returned as-is;
// otherwise the result is Allow carrying the joined context from allowing
// hooks. Process failures degrade to Warn and evaluation continues.
func (e *Executor) RunPreToolUse(ctx context.Context, toolName string, toolInput any) Result {
	var contexts []string
	for _, i := range e.config.MatchingTool(KindPreToolUse, toolName) {
		def := &e.config.Hooks[i]
		res, err := e.run(ctx, def, toolName, toolInput)
		if err != nil {
			e.logger.Warn("PreToolUse hook failed",
				zap.String("command", def.Command),
				zap.String("tool", toolName),
				zap.Error(err))
			continue
		}
		switch res.Decision {
		case Deny:
			res.Source = e.config.SourceOf(i)
			res.Command = def.Command
			return res
		case Warn:
			e.logger.Warn("PreToolUse hook warning",
				zap.String("command", def.Command),
				zap.String("tool", toolName),
				zap.String("message", res.Message))
		case Allow:
			if res.Context != "" {
				contexts = append(contexts, res.Context)
			}
		}
	}
	return Result{Decision: Allow, Context: strings.Join(contexts, "\n")}
}

// RunPostToolUse executes the PostToolUse hooks matching toolName. Exit
// codes are logged but cannot veto the already-executed tool call. Under
// PostToolUseSurfaceWarn, warn and deny messages are returned so the caller
// can surface them.
func (e *Executor) RunPostToolUse(ctx context.Context, toolName string, toolResult any) []string {
	var surfaced []string
	for _, i := range e.config.MatchingTool(KindPostToolUse, toolName) {
		def := &e.config.Hooks[i]
		res, err := e.run(ctx, def, toolName, toolResult)
		if err != nil {
			e.logger.Warn("PostToolUse hook failed",
				zap.String("command", def.Command),
				zap.String("tool", toolName),
				zap.Error(err))
			continue
		}
		if res.Decision != Allow {
			e.logger.Warn("PostToolUse hook reported",
				zap.String("command", def.Command),
				zap.String("tool", toolName),
				zap.String("decision", res.Decision.String()),
				zap.String("message", res.Message))
			if e.ec.PostToolUsePolicy == PostToolUseSurfaceWarn {
				surfaced = append(surfaced, res.Message)
			}
		}
	}
	return surfaced
}

// run spawns a single hook process: JSON input on stdin, JSON output read
// from stdout, exit code mapped through ResultFromExitCode. The process is
// bounded by the configured timeout.
func (e *Executor) run(ctx context.Context, def *Definition, toolName string, toolInput any) (Result, error) {
	argv, err := shellwords.Parse(def.Command)
	if err != nil {
		return Result{}, &ProcessError{Command: def.Command, Err: fmt.Errorf("parse command: %w", err)}
	}
	if len(argv) == 0 {
		return Result{}, &ProcessError{Command: def.Command, Err: errors.New("empty command")}
	}

	payload, err := json.Marshal(Input{
		SessionID: e.ec.SessionID,
		ToolName:  toolName,
		ToolInput: toolInput,
	})
	if err != nil {
		return Result{}, &ProcessError{Command: def.Command, Err: fmt.Errorf("encode input: %w", err)}
	}

	cmdCtx, cancel := context.WithTimeout(ctx, e.ec.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, argv[0], argv[1:]...)
	// A killed hook may leave grandchildren holding the output pipes;
	// WaitDelay keeps Run from blocking on them past the timeout.
	cmd.WaitDelay = time.Second
	if def.WorkingDir != "" {
		cmd.Dir = def.WorkingDir
	}
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	if stderr.Len() > 0 {
		e.logger.Warn("hook stderr",
			zap.String("command", def.Command),
			zap.String("stderr", strings.TrimSpace(stderr.String())))
	}

	if cmdCtx.Err() == context.DeadlineExceeded {
		return Result{}, &ProcessError{Command: def.Command, Timeout: true, Err: cmdCtx.Err()}
	}

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			return Result{}, &ProcessError{Command: def.Command, Err: runErr}
		}
	}

	// The JSON body is supplementary; unparseable stdout degrades to a
	// nil output but the exit code still decides.
	var out *Output
	if stdout.Len() > 0 {
		var parsed Output
		if err := json.Unmarshal(stdout.Bytes(), &parsed); err != nil {
			e.logger.Warn("hook emitted unparseable output",
				zap.String("command", def.Command),
				zap.String("stdout", truncate(stdout.String(), 200)),
				zap.Error(err))
		} else {
			out = &parsed
		}
	}

	return ResultFromExitCode(exitCode, out), nil
}

func truncate(s string, maxRunes int) string {
	r := []rune(s)
	if len(r) <= maxRunes {
		return s
	}
	return string(r[:maxRunes]) + "..."
}
