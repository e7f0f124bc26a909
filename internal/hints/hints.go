// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/jmault/go-mdconvert/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hs []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if inCI || IsInContainer() {
		hs = append(hs, `add {"noSandbox": true} to --launch-options for Docker/CI`)
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hs = append(hs, "set ROD_BROWSER_BIN to use a pre-installed Chrome")
	}

	return formatHints(hs)
}

// ForTimeout returns a hint about increasing timeouts for slow documents.
func ForTimeout() string {
	return format("for large documents, raise --timeout or --diagram-timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
func ForConfigNotFound() string {
	return formatHints([]string{
		"use --config-file /path/to/file.yaml",
		"or create the file in ~/.config/mdconvert/",
	})
}

// ForDocx returns a hint for docx generation failures.
func ForDocx() string {
	return format("docx output requires pandoc on PATH (https://pandoc.org/installing.html)")
}

// format renders a single hint line.
func format(hint string) string {
	return "\n  hint: " + hint
}

// formatHints renders multiple hint lines, one per hint.
func formatHints(hs []string) string {
	if len(hs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, h := range hs {
		b.WriteString(format(h))
	}
	return b.String()
}
