package router_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tobyfell/dispatch/router"
)

func TestAnalyzeComplexityAlwaysInRange(t *testing.T) {
	w := router.DefaultComplexityWeights()
	tasks := []string{
		"",
		"fix typo",
		"find the login handler",
		"refactor the entire authentication architecture across all services",
		"first do this, then do that, after that migrate everything and finally rewrite the whole system across all modules",
		strings.Repeat("word ", 100),
	}
	for _, task := range tasks {
		score := router.AnalyzeComplexity(task, w)
		assert.GreaterOrEqual(t, score, 1, "task: %q", task)
		assert.LessOrEqual(t, score, 10, "task: %q", task)
	}
}

func TestAnalyzeComplexitySimpleTask(t *testing.T) {
	w := router.DefaultComplexityWeights()
	assert.Equal(t, 1, router.AnalyzeComplexity("fix typo", w))
	assert.Equal(t, 1, router.AnalyzeComplexity("find the login handler", w))
}

func TestAnalyzeComplexityArchitecturalTask(t *testing.T) {
	w := router.DefaultComplexityWeights()
	score := router.AnalyzeComplexity(
		"refactor the entire authentication architecture across all services", w)
	assert.GreaterOrEqual(t, score, 8)
}

func TestAnalyzeComplexityMultiStep(t *testing.T) {
	w := router.DefaultComplexityWeights()
	simple := router.AnalyzeComplexity("update the readme", w)
	multi := router.AnalyzeComplexity("update the readme, then regenerate the docs", w)
	assert.Greater(t, multi, simple)
}

func TestAnalyzeComplexityWordBoundaries(t *testing.T) {
	w := router.DefaultComplexityWeights()
	// "small" must not trigger the "all" scope cue.
	assert.Equal(t, 1, router.AnalyzeComplexity("fix a small bug", w))
}

func TestAnalyzeComplexityTunableWeights(t *testing.T) {
	heavy := router.ComplexityWeights{Architectural: 9}
	assert.Equal(t, 10, router.AnalyzeComplexity("refactor it", heavy))

	zero := router.ComplexityWeights{}
	assert.Equal(t, 1, router.AnalyzeComplexity("refactor everything across all services", zero))
}
