package mdconvert

import (
	"time"

	"github.com/charmbracelet/log"
)

// Output format constants.
const (
	FormatPDF  = "pdf"
	FormatHTML = "html"
	FormatDocx = "docx"
)

// Stdout is the destination value that streams the artifact to standard
// output instead of writing a file. "-" is accepted as an alias.
const Stdout = "stdout"

// ConfigLayer is one layer of configuration overrides, keyed the way the
// config file and front matter are: top-level keys in snake_case
// ("pdf_options", "body_class"), nested Chrome options in camelCase
// ("headerTemplate", "printBackground"). Later layers win key by key.
type ConfigLayer = map[string]any

// Input contains conversion parameters for a single document.
// Exactly one of Path or Markdown must be set.
type Input struct {
	Path     string // path to a markdown file
	Markdown string // literal markdown content

	// Format selects the output artifact: "pdf" (default), "html", or "docx".
	Format string

	// Dest overrides the output location. Empty derives it from Path by
	// swapping the extension; Stdout (or "-") streams to standard output.
	// A literal Markdown input with no Dest streams to standard output.
	Dest string

	// Layers are merged over the document's front matter, in order.
	// Typically one layer from a config file and one from CLI flags.
	Layers []ConfigLayer
}

// Output is the result of a conversion.
type Output struct {
	// Filename is the path the artifact was written to, or Stdout.
	Filename string

	// Content holds the generated artifact bytes.
	Content []byte

	// Warnings lists non-fatal problems encountered along the way,
	// such as diagram blocks that failed to render.
	Warnings []string
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout time.Duration
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the per-document rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdconvert: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger used for warnings and progress messages.
// The default logger discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithEngine shares a browser engine between converters. The converter
// takes a reference and releases it on Close; callers keep their own
// reference for as long as they use the engine directly.
func WithEngine(e *Engine) Option {
	return func(c *Converter) {
		c.engine = e.Acquire()
	}
}

// WithDocxRunner overrides the command runner used for docx generation.
// Mainly useful for testing without a pandoc binary installed.
func WithDocxRunner(r CommandRunner) Option {
	return func(c *Converter) {
		c.docx = &pandocConverter{runner: r}
	}
}
