package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tobyfell/dispatch/schema"
)

// DefaultBashTimeout bounds built-in bash commands that do not request
// their own timeout.
const DefaultBashTimeout = 2 * time.Minute

// RegisterBuiltins registers the built-in tool set on the registry. Paths
// given to file tools resolve relative to workDir.
func RegisterBuiltins(r *Registry, workDir string) *Registry {
	return r.
		Register(EchoTool()).
		Register(ReadFileTool(workDir)).
		Register(WriteFileTool(workDir)).
		Register(BashTool(workDir))
}

// EchoTool returns the input text unchanged. Useful for wiring checks.
func EchoTool() Tool {
	return MustToolFunc(
		"echo",
		"Echo the given text back",
		schema.Object(map[string]*schema.Property{
			"text": schema.String("Text to echo"),
		}, "text"),
		func(ctx context.Context, input map[string]any) (string, error) {
			text, _ := input["text"].(string)
			return text, nil
		},
	)
}

// ReadFileTool reads a file as text, optionally truncated to a line limit.
func ReadFileTool(workDir string) Tool {
	return MustToolFunc(
		"read_file",
		"Read a text file and return its contents",
		schema.Object(map[string]*schema.Property{
			"file_path": schema.String("Path to the file, absolute or relative to the working directory"),
			"limit":     schema.Integer("Maximum number of lines to return").Min(1),
		}, "file_path"),
		func(ctx context.Context, input map[string]any) (string, error) {
			path := resolvePath(workDir, input["file_path"].(string))
			data, err := os.ReadFile(path)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", path, err)
			}
			content := string(data)
			if limit, ok := asInt(input["limit"]); ok {
				lines := strings.SplitAfterN(content, "\n", limit+1)
				if len(lines) > limit {
					content = strings.Join(lines[:limit], "")
				}
			}
			return content, nil
		},
	)
}

// WriteFileTool writes text to a file, creating parent directories.
func WriteFileTool(workDir string) Tool {
	return MustToolFunc(
		"write_file",
		"Write text to a file, creating it and any parent directories",
		schema.Object(map[string]*schema.Property{
			"file_path": schema.String("Path to the file, absolute or relative to the working directory"),
			"content":   schema.String("Content to write"),
		}, "file_path", "content"),
		func(ctx context.Context, input map[string]any) (string, error) {
			path := resolvePath(workDir, input["file_path"].(string))
			content, _ := input["content"].(string)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return "", fmt.Errorf("create directories for %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return "", fmt.Errorf("write %s: %w", path, err)
			}
			return fmt.Sprintf("wrote %d bytes to %s", len(content), path), nil
		},
	)
}

// BashTool runs a shell command in the working directory and returns its
// combined output. A non-zero exit is an error carrying the output.
func BashTool(workDir string) Tool {
	return MustToolFunc(
		"bash",
		"Run a shell command and return its combined output",
		schema.Object(map[string]*schema.Property{
			"command": schema.String("The command to run"),
			"timeout": schema.Integer("Timeout in seconds").Min(1).Max(600),
		}, "command"),
		func(ctx context.Context, input map[string]any) (string, error) {
			command := input["command"].(string)

			timeout := DefaultBashTimeout
			if secs, ok := asInt(input["timeout"]); ok {
				timeout = time.Duration(secs) * time.Second
			}
			cmdCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			cmd := exec.CommandContext(cmdCtx, "sh", "-c", command)
			cmd.WaitDelay = time.Second
			cmd.Dir = workDir
			out, err := cmd.CombinedOutput()
			if cmdCtx.Err() == context.DeadlineExceeded {
				return "", fmt.Errorf("command timed out after %s", timeout)
			}
			if err != nil {
				return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
			}
			return string(out), nil
		},
	)
}

func resolvePath(workDir, path string) string {
	if filepath.IsAbs(path) || workDir == "" {
		return path
	}
	return filepath.Join(workDir, path)
}

// asInt accepts the numeric types JSON decoding and literal maps produce.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
