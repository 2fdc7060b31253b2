package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tobyfell/dispatch"
	"github.com/tobyfell/dispatch/hook"
	"github.com/tobyfell/dispatch/loop"
	"github.com/tobyfell/dispatch/models"
	"github.com/tobyfell/dispatch/router"
	"github.com/tobyfell/dispatch/tools"
)

func runREPL(cmd *cobra.Command, args []string) error {
	cfg := configFromFlags()

	logger, err := buildLogger(viper.GetString("log_level"))
	if err != nil {
		return err
	}
	defer logger.Sync()

	llm, err := buildLLM(cfg.Model)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	projectRoot := hook.FindProjectRoot(cwd)

	hookConfig, err := discoverHooks(projectRoot, logger)
	if err != nil {
		return err
	}
	sessionID := uuid.NewString()
	executor := hook.NewExecutor(hookConfig, hook.ExecutorConfig{
		SessionID: sessionID,
		Timeout:   cfg.HookTimeout,
	}, logger)

	registry := tools.NewRegistry(logger)
	tools.RegisterBuiltins(registry, projectRoot)

	turnLoop := loop.New(models.NewLangChain(llm), registry, cfg).
		WithHooks(executor).
		WithLogger(logger)
	if prompt := viper.GetString("system_prompt"); prompt != "" {
		turnLoop.WithSystemPrompt(prompt)
	}

	if !viper.GetBool("no_router") {
		agents := router.NewRegistry(router.AgentExecute, logger).
			WithMinConfidence(cfg.MinConfidence).
			WithMaxChainDepth(cfg.MaxChainDepth)
		router.RegisterDefaults(agents, agentExecutor(llm, registry, executor, cfg, logger))
		turnLoop.WithRouter(agents)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if contributed := turnLoop.StartSession(ctx); contributed != "" {
		logger.Info("session context from hooks",
			zap.String("context", contributed))
	}
	logger.Info("session started",
		zap.String("session_id", sessionID),
		zap.String("model", cfg.Model),
		zap.Int("hooks", len(hookConfig.Hooks)))

	rl, err := readline.New("> ")
	if err != nil {
		return fmt.Errorf("create readline: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			return nil
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			return nil
		}

		result, err := turnLoop.ProcessTurn(ctx, input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		if result.Agent != "" {
			fmt.Printf("[%s %.0f%%]\n", result.Agent, result.Confidence)
		}
		fmt.Println(result.Output)
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "warning: %s\n", w)
		}
		if result.Outcome == loop.OutcomeTurnLimitExceeded {
			fmt.Fprintf(os.Stderr, "turn limit reached after %d turns\n", result.Turns)
		}
	}
}

// agentExecutor bridges delegation to a one-off turn loop sharing the model,
// tools, and hooks but holding its own conversation.
func agentExecutor(llm llms.Model, registry *tools.Registry, executor *hook.Executor, cfg dispatch.Config, logger *zap.Logger) router.Executor {
	return router.ExecutorFunc(func(ctx context.Context, prompt string, taskCtx router.TaskContext) (string, error) {
		sub := loop.New(models.NewLangChain(llm), registry, cfg).
			WithHooks(executor).
			WithLogger(logger)
		result, err := sub.ProcessTurn(ctx, prompt)
		if err != nil {
			return "", err
		}
		return result.Output, nil
	})
}

// discoverHooks loads hook configuration from the flag-provided directory,
// or from the standard search paths.
func discoverHooks(projectRoot string, logger *zap.Logger) (*hook.Config, error) {
	var paths []string
	if dir := viper.GetString("config_dir"); dir != "" {
		paths = []string{dir}
	} else {
		paths = hook.DefaultSearchPaths(projectRoot)
	}
	return hook.NewDiscovery(paths, logger).Discover()
}

// buildLLM picks the provider from the model identifier prefix.
func buildLLM(model string) (llms.Model, error) {
	if strings.HasPrefix(model, "claude") {
		return anthropic.New(anthropic.WithModel(model))
	}
	return openai.New(openai.WithModel(model))
}

func buildLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}
