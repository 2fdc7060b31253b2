package router_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tobyfell/dispatch/router"
)

func newDefaultRegistry(t *testing.T) *router.Registry {
	t.Helper()
	r := router.NewRegistry(router.AgentExecute, nil)
	router.RegisterDefaults(r, router.ExecutorFunc(
		func(ctx context.Context, prompt string, taskCtx router.TaskContext) (string, error) {
			return "ok", nil
		}))
	return r
}

func TestRouteTaskSelectsExploreForSearch(t *testing.T) {
	r := newDefaultRegistry(t)

	res, err := r.RouteTask("find the login handler", router.TaskContext{}, router.Options{})
	require.NoError(t, err)

	assert.Equal(t, router.AgentExplore, res.Agent)
	assert.Greater(t, res.Confidence, router.DefaultMinConfidence)
	assert.Contains(t, res.Reasoning, "keywords matched")
	assert.Contains(t, res.Reasoning, "find")
}

func TestRouteTaskSelectsPlanForArchitecturalWork(t *testing.T) {
	r := newDefaultRegistry(t)

	res, err := r.RouteTask(
		"refactor the entire authentication architecture across all services",
		router.TaskContext{}, router.Options{})
	require.NoError(t, err)
	assert.Equal(t, router.AgentPlan, res.Agent)
}

func TestRouteTaskConfidenceInRange(t *testing.T) {
	r := newDefaultRegistry(t)
	tasks := []string{
		"find search locate where explore discover look for everything",
		"x",
		"refactor migrate redesign restructure overhaul the entire system, then do it again",
	}
	for _, task := range tasks {
		res, err := r.RouteTask(task, router.TaskContext{}, router.Options{})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.Confidence, 0.0, "task: %q", task)
		assert.LessOrEqual(t, res.Confidence, 100.0, "task: %q", task)
	}
}

func TestRouteTaskIsDeterministic(t *testing.T) {
	r := newDefaultRegistry(t)
	first, err := r.RouteTask("check the parser for bugs", router.TaskContext{}, router.Options{})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		res, err := r.RouteTask("check the parser for bugs", router.TaskContext{}, router.Options{})
		require.NoError(t, err)
		assert.Equal(t, first, res)
	}
}

func TestRouteTaskFallsBackBelowThreshold(t *testing.T) {
	r := router.NewRegistry(router.AgentExecute, nil).WithMinConfidence(90)
	router.RegisterDefaults(r, nil)

	res, err := r.RouteTask("hmm", router.TaskContext{}, router.Options{})
	require.NoError(t, err)
	assert.Equal(t, router.AgentExecute, res.Agent)
	assert.Equal(t, 90.0, res.Confidence)
	assert.Contains(t, res.Reasoning, "falling back")
}

func TestRouteTaskForceAgent(t *testing.T) {
	r := newDefaultRegistry(t)

	res, err := r.RouteTask("find the login handler", router.TaskContext{},
		router.Options{ForceAgent: router.AgentReview})
	require.NoError(t, err)
	assert.Equal(t, router.AgentReview, res.Agent)
	assert.Equal(t, 100.0, res.Confidence)
}

func TestRouteTaskForceUnknownAgentFails(t *testing.T) {
	r := newDefaultRegistry(t)
	r.Remove(router.AgentReview)

	_, err := r.RouteTask("anything", router.TaskContext{},
		router.Options{ForceAgent: router.AgentReview})
	var forced *router.ErrInvalidForcedAgent
	require.ErrorAs(t, err, &forced)
	assert.Equal(t, router.AgentReview, forced.Agent)
}

func TestDelegateTaskInvokesExecutor(t *testing.T) {
	r := router.NewRegistry(router.AgentExecute, nil)
	var gotPrompt string
	var gotCtx router.TaskContext
	router.RegisterDefaults(r, router.ExecutorFunc(
		func(ctx context.Context, prompt string, taskCtx router.TaskContext) (string, error) {
			gotPrompt = prompt
			gotCtx = taskCtx
			return "delegated result", nil
		}))

	out, err := r.DelegateTask(context.Background(), router.AgentPlan,
		"find the session store", router.TaskContext{}, router.Options{})
	require.NoError(t, err)
	assert.Equal(t, "delegated result", out)
	assert.Contains(t, gotPrompt, "[Delegated from plan]")
	assert.Equal(t, 1, gotCtx.ChainDepth)
	assert.Equal(t, router.AgentPlan, gotCtx.PreviousAgent)
}

func TestDelegateTaskChainDepthBound(t *testing.T) {
	r := router.NewRegistry(router.AgentExecute, nil)

	// Each agent delegates again, so the chain only stops at the bound.
	router.RegisterDefaults(r, router.ExecutorFunc(
		func(ctx context.Context, prompt string, taskCtx router.TaskContext) (string, error) {
			return r.DelegateTask(ctx, taskCtx.PreviousAgent, prompt, taskCtx, router.Options{})
		}))

	_, err := r.DelegateTask(context.Background(), router.AgentExecute,
		"loop forever", router.TaskContext{}, router.Options{})
	var depthErr *router.ChainDepthExceededError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, router.DefaultMaxChainDepth, depthErr.MaxDepth)
	assert.NotEmpty(t, depthErr.Chain)
}

func TestDelegateTaskCustomDepth(t *testing.T) {
	r := router.NewRegistry(router.AgentExecute, nil).WithMaxChainDepth(1)
	calls := 0
	router.RegisterDefaults(r, router.ExecutorFunc(
		func(ctx context.Context, prompt string, taskCtx router.TaskContext) (string, error) {
			calls++
			return r.DelegateTask(ctx, taskCtx.PreviousAgent, prompt, taskCtx, router.Options{})
		}))

	_, err := r.DelegateTask(context.Background(), router.AgentExecute,
		"loop", router.TaskContext{}, router.Options{})
	var depthErr *router.ChainDepthExceededError
	require.ErrorAs(t, err, &depthErr)
	assert.Equal(t, 1, calls)
}

func TestChainDepthErrorNamesChain(t *testing.T) {
	err := &router.ChainDepthExceededError{
		Chain:    []router.AgentName{router.AgentExecute, router.AgentPlan, router.AgentExplore},
		MaxDepth: 3,
	}
	assert.Contains(t, err.Error(), "execute -> plan -> explore")
}

func TestListAgentsSorted(t *testing.T) {
	r := newDefaultRegistry(t)
	agents := r.ListAgents()
	require.Len(t, agents, 4)
	for i := 1; i < len(agents); i++ {
		assert.Less(t, string(agents[i-1].Name), string(agents[i].Name))
	}
}

func TestRegisterReplacesExisting(t *testing.T) {
	r := newDefaultRegistry(t)
	caps, ok := r.Get(router.AgentReview)
	require.True(t, ok)
	caps.Priority = 1
	r.RegisterAgent(caps, nil)

	got, ok := r.Get(router.AgentReview)
	require.True(t, ok)
	assert.Equal(t, 1, got.Priority)
}

func TestConcurrentRouteAndRegister(t *testing.T) {
	r := newDefaultRegistry(t)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			caps, _ := r.Get(router.AgentReview)
			r.RegisterAgent(caps, nil)
		}
	}()
	for i := 0; i < 100; i++ {
		_, err := r.RouteTask(fmt.Sprintf("find thing %d", i), router.TaskContext{}, router.Options{})
		require.NoError(t, err)
	}
	<-done
}

func TestRouteTaskNoAgents(t *testing.T) {
	r := router.NewRegistry(router.AgentExecute, nil)
	_, err := r.RouteTask("anything", router.TaskContext{}, router.Options{})
	assert.ErrorIs(t, err, router.ErrNoAgents)
}
