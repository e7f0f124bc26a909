// Package config implements the layered configuration model for document
// conversion.
//
// A conversion's effective settings are folded from partial layers
// (defaults, front matter, CLI flags, config file) with key-by-key
// merging of nested option objects. Scalar values for list-typed fields
// are coerced to single-element lists, and CSS-style margin shorthand is
// expanded into four named sides.
package config

import (
	"errors"
	"fmt"
)

// Sentinel errors for configuration operations.
var (
	// ErrConfiguration indicates malformed or out-of-range settings.
	ErrConfiguration = errors.New("invalid configuration")
)

// Port bounds for the local asset server. Port 0 is also accepted and
// binds an ephemeral port per conversion, which is the default: a fixed
// default would collide when conversions run concurrently in one host.
const (
	MinPort = 1
	MaxPort = 65535
)

// DefaultMermaidTimeout bounds diagram rendering, in milliseconds.
const DefaultMermaidTimeout = 30_000

// Settings is the effective configuration for one conversion.
// Top-level keys use snake_case (matching document front matter);
// nested option keys use camelCase (matching the rendering engine's
// option names).
type Settings struct {
	Dest               string        `yaml:"dest"`
	Basedir            string        `yaml:"basedir"`
	Port               int           `yaml:"port"`
	Stylesheet         StringList    `yaml:"stylesheet"`
	CSS                string        `yaml:"css"`
	BodyClass          StringList    `yaml:"body_class"`
	Script             StringList    `yaml:"script"`
	HighlightStyle     string        `yaml:"highlight_style"`
	PageMediaType      string        `yaml:"page_media_type"`
	AsHTML             bool          `yaml:"as_html"`
	Devtools           bool          `yaml:"devtools"`
	MarkedOptions      MarkedOptions `yaml:"marked_options"`
	PDFOptions         PDFOptions    `yaml:"pdf_options"`
	LaunchOptions      LaunchOptions `yaml:"launch_options"`
	MDFileEncoding     string        `yaml:"md_file_encoding"`
	StylesheetEncoding string        `yaml:"stylesheet_encoding"`
	MermaidTimeout     int           `yaml:"mermaid_timeout"` // milliseconds
}

// MarkedOptions configures the Markdown renderer. Pointer fields
// distinguish "not set" from an explicit false during layering.
type MarkedOptions struct {
	Breaks      *bool `yaml:"breaks"`
	Unsafe      *bool `yaml:"unsafe"`
	Typographer *bool `yaml:"typographer"`
	XHTML       *bool `yaml:"xhtml"`
}

// PDFOptions configures final PDF export. Merged key-by-key across
// layers, never replaced wholesale.
type PDFOptions struct {
	Format              string  `yaml:"format"`
	Landscape           bool    `yaml:"landscape"`
	Scale               float64 `yaml:"scale"`
	Margin              Margin  `yaml:"margin"`
	PrintBackground     bool    `yaml:"printBackground"`
	DisplayHeaderFooter *bool   `yaml:"displayHeaderFooter"`
	HeaderTemplate      string  `yaml:"headerTemplate"`
	FooterTemplate      string  `yaml:"footerTemplate"`
	PageRanges          string  `yaml:"pageRanges"`
	PreferCSSPageSize   bool    `yaml:"preferCSSPageSize"`
}

// LaunchOptions configures the browser engine launch.
type LaunchOptions struct {
	ExecutablePath string     `yaml:"executablePath"`
	Args           StringList `yaml:"args"`
	NoSandbox      bool       `yaml:"noSandbox"`
}

// Default returns the baseline configuration layer.
func Default() *Settings {
	return &Settings{
		Port:           0, // ephemeral, chosen at bind time
		HighlightStyle: "github",
		PageMediaType:  "screen",
		PDFOptions: PDFOptions{
			Format:          "a4",
			Scale:           1,
			PrintBackground: true,
			Margin: Margin{
				Top:    "30mm",
				Right:  "20mm",
				Bottom: "30mm",
				Left:   "20mm",
			},
		},
		MDFileEncoding:     "utf-8",
		StylesheetEncoding: "utf-8",
		MermaidTimeout:     DefaultMermaidTimeout,
	}
}

// Validate checks that the effective settings are usable for a
// conversion. List-typed fields are enforced structurally at merge time
// (a non-sequence value fails decoding with ErrConfiguration), so only
// value ranges are checked here.
func (s *Settings) Validate() error {
	if s.Basedir == "" {
		return fmt.Errorf("%w: basedir cannot be empty", ErrConfiguration)
	}
	if s.Port != 0 && (s.Port < MinPort || s.Port > MaxPort) {
		return fmt.Errorf("%w: port %d outside [%d, %d] (0 binds an ephemeral port)", ErrConfiguration, s.Port, MinPort, MaxPort)
	}
	return nil
}

// HeaderFooterVisible reports the effective header/footer visibility:
// an explicit setting wins, otherwise visibility follows whether any
// template is present.
func (p *PDFOptions) HeaderFooterVisible() bool {
	if p.DisplayHeaderFooter != nil {
		return *p.DisplayHeaderFooter
	}
	return p.HeaderTemplate != "" || p.FooterTemplate != ""
}
