package mdconvert

import (
	"errors"

	"github.com/jmault/go-mdconvert/internal/config"
)

// Sentinel errors for library operations.
var (
	// ErrValidation reports a request that cannot be processed: no source,
	// two sources, an unreadable file, or an unknown output format.
	ErrValidation = errors.New("invalid conversion request")

	// ErrConfiguration reports malformed settings from any layer
	// (front matter, config file, or flags). Aliased from the config
	// package so callers can match it without importing internals.
	ErrConfiguration = config.ErrConfiguration

	// ErrOutputGeneration reports a failure while producing the final
	// artifact: PDF printing, HTML serialization, or docx generation.
	ErrOutputGeneration = errors.New("output generation failed")

	// Browser engine errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrEngineClosed   = errors.New("engine is closed")
)
