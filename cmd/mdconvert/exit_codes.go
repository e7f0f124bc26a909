package main

import (
	"context"
	"errors"
	"os"
	"strings"

	mdconvert "github.com/jmault/go-mdconvert"
	"github.com/jmault/go-mdconvert/internal/hints"
)

// Exit codes for the mdconvert CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser and output errors (exit 4)
	if errors.Is(err, mdconvert.ErrBrowserConnect) ||
		errors.Is(err, mdconvert.ErrPageCreate) ||
		errors.Is(err, mdconvert.ErrPageLoad) ||
		errors.Is(err, mdconvert.ErrOutputGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, mdconvert.ErrValidation) ||
		errors.Is(err, mdconvert.ErrConfiguration) ||
		errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrConfigParse) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable suggestion for common failures, or "".
func hintFor(err error) string {
	switch {
	case errors.Is(err, mdconvert.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, mdconvert.ErrPageLoad):
		return hints.ForTimeout()
	case errors.Is(err, ErrConfigNotFound):
		return hints.ForConfigNotFound()
	case errors.Is(err, mdconvert.ErrOutputGeneration) && strings.Contains(err.Error(), "pandoc"):
		return hints.ForDocx()
	}
	return ""
}
