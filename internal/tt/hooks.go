package tt

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------
// Hook Script Fixtures
// -----------------------------------------------------------------------------

// WriteScript writes an executable shell script into dir and returns its
// path. The body runs under sh.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

// ExitScript writes a script that optionally emits stdout and exits with
// the given code.
func ExitScript(t *testing.T, dir, name string, code int, stdout string) string {
	t.Helper()
	body := ""
	if stdout != "" {
		body = fmt.Sprintf("cat >/dev/null\nprintf '%%s' '%s'\n", stdout)
	} else {
		body = "cat >/dev/null\n"
	}
	body += fmt.Sprintf("exit %d", code)
	return WriteScript(t, dir, name, body)
}

// CountingScript writes a script that appends a line to counterFile on every
// invocation, then exits with the given code. Tests read the counter file to
// verify how many hooks actually ran.
func CountingScript(t *testing.T, dir, name, counterFile string, code int) string {
	t.Helper()
	body := fmt.Sprintf("cat >/dev/null\necho ran >> '%s'\nexit %d", counterFile, code)
	return WriteScript(t, dir, name, body)
}

// CaptureStdinScript writes a script that copies its stdin to captureFile
// and exits 0.
func CaptureStdinScript(t *testing.T, dir, name, captureFile string) string {
	t.Helper()
	body := fmt.Sprintf("cat > '%s'\nexit 0", captureFile)
	return WriteScript(t, dir, name, body)
}

// CountLines returns the number of newline-terminated lines in path, or 0
// if the file does not exist.
func CountLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	n := 0
	for _, b := range data {
		if b == '\n' {
			n++
		}
	}
	return n
}

// WriteHooksFile writes a hooks config file with the given content into dir
// and returns its path.
func WriteHooksFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
