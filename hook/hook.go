// Package hook implements the lifecycle hook subsystem: discovery of hook
// configuration files across project and user search paths, and execution of
// hook commands as external processes that can allow, warn about, or deny
// tool invocations.
//
// Hooks are configured in hooks.json (or hooks.yaml) files:
//
//	{
//	  "hooks": [
//	    {"hook": "SessionStart", "command": "scripts/setup.sh"},
//	    {"hook": "PreToolUse", "command": "python validate.py", "matcher": "^(Write|Edit)$"},
//	    {"hook": "PostToolUse", "command": "bash log.sh", "working_dir": "/tmp/logs"}
//	  ]
//	}
//
// A hook process receives a JSON object on stdin ([Input]) and may emit a
// JSON object on stdout ([Output]). Its exit code is the authoritative
// signal: 0 allows, 1 warns, 2 denies. See [Executor] for the per-kind
// execution protocol.
package hook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the lifecycle point a hook runs at. It is a closed set;
// parsing an unknown kind is a configuration error.
type Kind string

const (
	// KindSessionStart hooks run once at session initialization and may
	// contribute context to the system prompt.
	KindSessionStart Kind = "SessionStart"

	// KindPreToolUse hooks run before tool execution and may block it.
	KindPreToolUse Kind = "PreToolUse"

	// KindPostToolUse hooks run after tool execution, for logging and
	// validation. They cannot block.
	KindPostToolUse Kind = "PostToolUse"
)

// ParseKind validates a hook kind string.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSessionStart, KindPreToolUse, KindPostToolUse:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown hook kind %q", s)
}

// UnmarshalJSON validates the kind at parse time.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	kind, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// UnmarshalYAML validates the kind at parse time.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	kind, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = kind
	return nil
}

// Definition is a single configured hook. Immutable after load; the matcher
// is compiled once during parsing.
type Definition struct {
	// Kind is the lifecycle point this hook runs at.
	Kind Kind `json:"hook" yaml:"hook"`

	// Command is the command line to run. It is split into argv with
	// shell-style word rules; no shell is involved.
	Command string `json:"command" yaml:"command"`

	// Matcher is an optional regular expression over tool names. Absent
	// means the hook applies to every tool. Only meaningful for
	// PreToolUse and PostToolUse hooks.
	Matcher string `json:"matcher,omitempty" yaml:"matcher,omitempty"`

	// WorkingDir is an optional working directory for the command.
	WorkingDir string `json:"working_dir,omitempty" yaml:"working_dir,omitempty"`

	matcher *regexp.Regexp
}

// compile validates the definition and compiles its matcher.
func (d *Definition) compile() error {
	if strings.TrimSpace(d.Command) == "" {
		return fmt.Errorf("hook %s has empty command", d.Kind)
	}
	if d.Matcher != "" {
		re, err := regexp.Compile(d.Matcher)
		if err != nil {
			return fmt.Errorf("invalid matcher %q: %w", d.Matcher, err)
		}
		d.matcher = re
	}
	return nil
}

// Matches reports whether this hook applies to the given tool name.
// A hook with no matcher applies to all tools.
func (d *Definition) Matches(toolName string) bool {
	if d.matcher == nil {
		return true
	}
	return d.matcher.MatchString(toolName)
}

// Config is an ordered list of hook definitions aggregated from one or more
// discovered files. Order is load order and determines execution order.
type Config struct {
	// Hooks holds the definitions in load order.
	Hooks []Definition `json:"hooks" yaml:"hooks"`

	// Source is the path the config was loaded from; empty for merged or
	// programmatically built configs. Definitions keep their origin via
	// sources, parallel to Hooks.
	Source string `json:"-" yaml:"-"`

	sources []string
}

// NewConfig creates an empty hook configuration.
func NewConfig() *Config {
	return &Config{}
}

// Add appends a definition, compiling its matcher. Used by tests and
// programmatic setup; file loading goes through ParseConfig.
func (c *Config) Add(def Definition) error {
	if err := def.compile(); err != nil {
		return err
	}
	c.Hooks = append(c.Hooks, def)
	c.sources = append(c.sources, c.Source)
	return nil
}

// Merge appends every hook from other, preserving order and source tags.
func (c *Config) Merge(other *Config) {
	c.Hooks = append(c.Hooks, other.Hooks...)
	for i := range other.Hooks {
		src := other.Source
		if i < len(other.sources) && other.sources[i] != "" {
			src = other.sources[i]
		}
		c.sources = append(c.sources, src)
	}
}

// SourceOf returns the file path the i-th hook was loaded from.
func (c *Config) SourceOf(i int) string {
	if i >= 0 && i < len(c.sources) {
		return c.sources[i]
	}
	return c.Source
}

// OfKind returns the indices of hooks of the given kind, in load order.
func (c *Config) OfKind(kind Kind) []int {
	var out []int
	for i := range c.Hooks {
		if c.Hooks[i].Kind == kind {
			out = append(out, i)
		}
	}
	return out
}

// MatchingTool returns the indices of hooks of the given kind whose matcher
// accepts toolName, in load order.
func (c *Config) MatchingTool(kind Kind, toolName string) []int {
	var out []int
	for i := range c.Hooks {
		if c.Hooks[i].Kind == kind && c.Hooks[i].Matches(toolName) {
			out = append(out, i)
		}
	}
	return out
}

// ParseConfig parses a hooks file. Format is chosen by extension:
// ".yaml"/".yml" parse as YAML, anything else as JSON. Matchers are
// compiled here; an invalid matcher, kind, or empty command is a load-time
// error.
func ParseConfig(data []byte, source string) (*Config, error) {
	cfg := &Config{Source: source}
	ext := strings.ToLower(filepath.Ext(source))
	var err error
	if ext == ".yaml" || ext == ".yml" {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	for i := range cfg.Hooks {
		if err := cfg.Hooks[i].compile(); err != nil {
			return nil, fmt.Errorf("parse %s: %w", source, err)
		}
		cfg.sources = append(cfg.sources, source)
	}
	return cfg, nil
}

// LoadFile reads and parses a hooks file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hooks file: %w", err)
	}
	return ParseConfig(data, path)
}
