package hook_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyfell/dispatch/hook"
)

func TestParseKind(t *testing.T) {
	for _, s := range []string{"SessionStart", "PreToolUse", "PostToolUse"} {
		k, err := hook.ParseKind(s)
		require.NoError(t, err)
		assert.Equal(t, hook.Kind(s), k)
	}

	_, err := hook.ParseKind("OnSave")
	assert.ErrorContains(t, err, "unknown hook kind")
}

func TestParseConfigJSON(t *testing.T) {
	data := []byte(`{
		"hooks": [
			{"hook": "SessionStart", "command": "scripts/setup.sh"},
			{"hook": "PreToolUse", "command": "python validate.py", "matcher": "^(Write|Edit)$"},
			{"hook": "PostToolUse", "command": "bash log.sh", "working_dir": "/tmp/logs"}
		]
	}`)

	cfg, err := hook.ParseConfig(data, "/project/.dispatch/hooks.json")
	require.NoError(t, err)
	require.Len(t, cfg.Hooks, 3)

	assert.Equal(t, hook.KindSessionStart, cfg.Hooks[0].Kind)
	assert.Equal(t, "scripts/setup.sh", cfg.Hooks[0].Command)
	assert.Equal(t, "^(Write|Edit)$", cfg.Hooks[1].Matcher)
	assert.Equal(t, "/tmp/logs", cfg.Hooks[2].WorkingDir)
	assert.Equal(t, "/project/.dispatch/hooks.json", cfg.SourceOf(1))
}

func TestParseConfigYAML(t *testing.T) {
	data := []byte(`
hooks:
  - hook: PreToolUse
    command: ./check.sh
    matcher: Bash
`)
	cfg, err := hook.ParseConfig(data, "hooks.yaml")
	require.NoError(t, err)
	require.Len(t, cfg.Hooks, 1)
	assert.Equal(t, hook.KindPreToolUse, cfg.Hooks[0].Kind)
	assert.Equal(t, "./check.sh", cfg.Hooks[0].Command)
}

func TestParseConfigRejectsUnknownKind(t *testing.T) {
	data := []byte(`{"hooks": [{"hook": "BeforeCommit", "command": "x"}]}`)
	_, err := hook.ParseConfig(data, "hooks.json")
	assert.ErrorContains(t, err, "unknown hook kind")
}

func TestParseConfigRejectsEmptyCommand(t *testing.T) {
	data := []byte(`{"hooks": [{"hook": "SessionStart", "command": "  "}]}`)
	_, err := hook.ParseConfig(data, "hooks.json")
	assert.ErrorContains(t, err, "empty command")
}

func TestParseConfigRejectsInvalidMatcher(t *testing.T) {
	data := []byte(`{"hooks": [{"hook": "PreToolUse", "command": "x", "matcher": "("}]}`)
	_, err := hook.ParseConfig(data, "hooks.json")
	assert.ErrorContains(t, err, "invalid matcher")
}

func TestDefinitionMatches(t *testing.T) {
	cfg := hook.NewConfig()
	require.NoError(t, cfg.Add(hook.Definition{
		Kind:    hook.KindPreToolUse,
		Command: "check",
		Matcher: "^(Write|Edit)$",
	}))
	require.NoError(t, cfg.Add(hook.Definition{
		Kind:    hook.KindPreToolUse,
		Command: "audit",
	}))

	// Anchored matcher only accepts exact names.
	assert.True(t, cfg.Hooks[0].Matches("Write"))
	assert.True(t, cfg.Hooks[0].Matches("Edit"))
	assert.False(t, cfg.Hooks[0].Matches("WriteFile"))

	// No matcher applies to every tool.
	assert.True(t, cfg.Hooks[1].Matches("anything"))
}

func TestMatchingToolPreservesLoadOrder(t *testing.T) {
	cfg := hook.NewConfig()
	require.NoError(t, cfg.Add(hook.Definition{Kind: hook.KindPreToolUse, Command: "a"}))
	require.NoError(t, cfg.Add(hook.Definition{Kind: hook.KindPostToolUse, Command: "b"}))
	require.NoError(t, cfg.Add(hook.Definition{Kind: hook.KindPreToolUse, Command: "c", Matcher: "Bash"}))
	require.NoError(t, cfg.Add(hook.Definition{Kind: hook.KindPreToolUse, Command: "d", Matcher: "Write"}))

	idx := cfg.MatchingTool(hook.KindPreToolUse, "Bash")
	require.Len(t, idx, 2)
	assert.Equal(t, "a", cfg.Hooks[idx[0]].Command)
	assert.Equal(t, "c", cfg.Hooks[idx[1]].Command)
}

func TestMergeKeepsDuplicatesAndSources(t *testing.T) {
	a, err := hook.ParseConfig(
		[]byte(`{"hooks": [{"hook": "SessionStart", "command": "setup.sh"}]}`),
		"/a/hooks.json")
	require.NoError(t, err)
	b, err := hook.ParseConfig(
		[]byte(`{"hooks": [{"hook": "SessionStart", "command": "setup.sh"}]}`),
		"/b/hooks.json")
	require.NoError(t, err)

	merged := hook.NewConfig()
	merged.Merge(a)
	merged.Merge(b)

	// Identical commands from different files both survive the merge.
	require.Len(t, merged.Hooks, 2)
	assert.Equal(t, "/a/hooks.json", merged.SourceOf(0))
	assert.Equal(t, "/b/hooks.json", merged.SourceOf(1))
}
