package router

// DefaultCapabilities returns the capability profiles for the standard
// agent set. Executors are attached by the caller at registration time.
func DefaultCapabilities() []Capabilities {
	return []Capabilities{
		{
			Name:        AgentExplore,
			Skills:      []string{"codebase search", "file reading", "symbol lookup"},
			Priority:    2,
			Description: "Searches and reads the codebase to answer questions",
			Keywords: []string{
				"find", "search", "locate", "where", "explore",
				"discover", "look for",
			},
			MinComplexity: 1,
			MaxComplexity: 5,
		},
		{
			Name:        AgentPlan,
			Skills:      []string{"task decomposition", "architecture", "sequencing"},
			Priority:    1,
			Description: "Breaks complex work into ordered, verifiable steps",
			Keywords: []string{
				"plan", "design", "architect", "refactor", "migrate",
				"organize", "strategy",
			},
			MinComplexity: 6,
			MaxComplexity: 10,
		},
		{
			Name:        AgentExecute,
			Skills:      []string{"code editing", "command execution", "bug fixing"},
			Priority:    1,
			Description: "Implements changes: writes code and runs commands",
			Keywords: []string{
				"implement", "add", "create", "write", "fix",
				"update", "change", "build",
			},
			MinComplexity: 2,
			MaxComplexity: 8,
		},
		{
			Name:        AgentReview,
			Skills:      []string{"code review", "style checking", "verification"},
			Priority:    3,
			Description: "Reviews existing work for correctness and style",
			Keywords: []string{
				"review", "check", "verify", "audit", "inspect",
				"validate",
			},
			MinComplexity: 1,
			MaxComplexity: 6,
		},
	}
}

// RegisterDefaults registers the standard agent set on the registry, all
// sharing the given executor.
func RegisterDefaults(r *Registry, executor Executor) {
	for _, caps := range DefaultCapabilities() {
		r.RegisterAgent(caps, executor)
	}
}
