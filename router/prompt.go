package router

import (
	"fmt"
	"strings"
)

// agentVerbs lists the leading verbs that signal a task is already phrased
// for an agent. When the task starts with one of them, no rewrite happens.
var agentVerbs = map[AgentName][]string{
	AgentExplore: {"search", "find", "locate", "explore", "look"},
	AgentPlan:    {"plan", "design", "outline", "draft"},
	AgentExecute: {"implement", "write", "create", "add", "fix", "update", "run"},
	AgentReview:  {"review", "check", "verify", "audit", "inspect"},
}

// agentPromptPrefix is the rewrite applied when the task is not already
// phrased for the agent.
var agentPromptPrefix = map[AgentName]string{
	AgentExplore: "Search the codebase to find: ",
	AgentPlan:    "Create a step-by-step plan for: ",
	AgentExecute: "Implement the following: ",
	AgentReview:  "Review the following for correctness and style: ",
}

// RewritePrompt biases the task text toward the selected agent's behavior.
// Tasks already starting with an agent-appropriate verb pass through
// unchanged. Delegated tasks are prefixed with a marker naming the
// delegating agent.
func RewritePrompt(agent AgentName, task string, taskCtx TaskContext) string {
	prompt := task
	if !startsWithVerb(task, agentVerbs[agent]) {
		if prefix, ok := agentPromptPrefix[agent]; ok {
			prompt = prefix + task
		}
	}
	if taskCtx.PreviousAgent != "" {
		prompt = fmt.Sprintf("[Delegated from %s] %s", taskCtx.PreviousAgent, prompt)
	}
	return prompt
}

func startsWithVerb(task string, verbs []string) bool {
	fields := strings.Fields(strings.ToLower(task))
	if len(fields) == 0 {
		return false
	}
	first := strings.Trim(fields[0], ".,;:!?\"'()")
	for _, v := range verbs {
		if first == v {
			return true
		}
	}
	return false
}
