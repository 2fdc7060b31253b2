// Package dispatch provides the orchestration core of an agentic coding
// assistant: a task router that picks the best agent for a request, a hook
// subsystem that lets external processes veto tool invocations, and a turn
// loop that drives multi-step conversations with a language model.
//
// The root package holds the shared data model (messages, tool uses, tool
// results) and the two collaborator interfaces everything is built against:
// [Model] for chat completions and [ToolRegistry] for tool execution.
// Behavior lives in the subpackages:
//
//   - hook: discovery of hook configuration files, and execution of hook
//     processes around tool calls (JSON over stdin/stdout, exit codes 0/1/2)
//   - router: agent registry, confidence scoring and bounded delegation
//   - loop: the conversation manager and turn loop
//   - schema: JSON Schema builders and validation for tool parameters
//   - models: langchaingo-backed [Model] implementations
//   - tools: a [ToolRegistry] implementation with built-in tools
//
// # Quick Start
//
//	llm, _ := openai.New()
//	model := models.NewLangChain(llm)
//
//	reg := tools.RegisterBuiltins(tools.NewRegistry(logger), projectRoot)
//
//	cfg, _ := hook.NewDiscovery(hook.DefaultSearchPaths(projectRoot), logger).Discover()
//	hooks := hook.NewExecutor(cfg, hook.ExecutorConfig{SessionID: id}, logger)
//
//	tl := loop.New(model, reg, dispatch.DefaultConfig()).
//	    WithHooks(hooks).
//	    WithLogger(logger)
//	result, err := tl.ProcessTurn(ctx, "fix the failing test in parser_test.go")
//
// Every component is an explicitly constructed value; there is no package-level
// registry or other global state.
package dispatch
