package mdconvert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/jmault/go-mdconvert/internal/assetserver"
	"github.com/jmault/go-mdconvert/internal/config"
	"github.com/jmault/go-mdconvert/internal/diagram"
	"github.com/jmault/go-mdconvert/internal/fileutil"
	"github.com/jmault/go-mdconvert/internal/frontmatter"
	"github.com/jmault/go-mdconvert/internal/pipeline"
)

// Compile-time interface implementation checks.
// These ensure implementations satisfy their interfaces at compile time,
// catching signature mismatches before runtime.
var (
	_ pipeline.HTMLConverter = (*pipeline.GoldmarkConverter)(nil)
	_ diagram.Renderer       = (*diagram.MermaidRenderer)(nil)
	_ diagram.SurfaceOpener  = (*Engine)(nil)
	_ documentEngine         = (*Engine)(nil)
	_ docxConverter          = (*pandocConverter)(nil)
	_ CommandRunner          = (*ExecRunner)(nil)
)

// Converter orchestrates the markdown-to-document conversion pipeline.
// Create with NewConverter, use Convert for each document, and Close
// when done to release the browser engine.
type Converter struct {
	cfg             converterConfig
	logger          *log.Logger
	engine          documentEngine
	diagramRenderer diagram.Renderer // nil: built from the engine on demand
	docx            docxConverter
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithEngine).
func NewConverter(opts ...Option) *Converter {
	c := &Converter{
		cfg:    converterConfig{timeout: defaultTimeout},
		logger: log.New(io.Discard),
		docx:   newPandocConverter(),
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert runs the full pipeline: read the source, split front matter,
// fold configuration layers, render diagrams, produce the requested
// artifact, and write it to its destination.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (out *Output, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	raw, err := c.readSource(input)
	if err != nil {
		return nil, err
	}

	body, meta, err := frontmatter.Split(raw)
	if err != nil {
		c.logger.Warn("ignoring malformed front matter", "path", input.Path, "err", err)
		body, meta = raw, nil
	}

	settings, err := c.resolveSettings(input, meta)
	if err != nil {
		return nil, err
	}

	format, err := resolveFormat(input, settings)
	if err != nil {
		return nil, err
	}
	dest := resolveDest(input, settings, format)

	// Diagrams render before markdown conversion so the embedded images
	// flow through the rest of the pipeline as ordinary raw HTML.
	processed, err := c.renderDiagrams(ctx, body, settings)
	if err != nil {
		return nil, err
	}
	defer diagram.Cleanup(processed.ImageFiles)
	for _, w := range processed.Warnings {
		c.logger.Warn(w, "path", input.Path)
	}

	var artifact []byte
	switch format {
	case FormatDocx:
		artifact, err = c.docx.FromMarkdown(ctx, processed.Markdown)
	default:
		artifact, err = c.renderDocument(ctx, processed.Markdown, meta, settings, format)
	}
	if err != nil {
		return nil, err
	}

	if err := writeArtifact(dest, artifact); err != nil {
		return nil, err
	}

	return &Output{
		Filename: dest,
		Content:  artifact,
		Warnings: processed.Warnings,
	}, nil
}

// Close releases the browser engine reference, if any.
func (c *Converter) Close() error {
	if c.engine != nil {
		return c.engine.Release()
	}
	return nil
}

// readSource loads the markdown text from the request, decoding file
// contents with the configured encoding.
func (c *Converter) readSource(input Input) (string, error) {
	if (input.Path == "") == (input.Markdown == "") {
		return "", fmt.Errorf("%w: exactly one of Path or Markdown must be set", ErrValidation)
	}
	if input.Markdown != "" {
		return input.Markdown, nil
	}

	data, err := os.ReadFile(input.Path) // #nosec G304 -- user-provided path
	switch {
	case os.IsNotExist(err):
		return "", fmt.Errorf("%w: file not found: %s", ErrValidation, input.Path)
	case os.IsPermission(err):
		return "", fmt.Errorf("%w: permission denied: %s", ErrValidation, input.Path)
	case err != nil:
		return "", fmt.Errorf("%w: reading %s: %v", ErrValidation, input.Path, err)
	}

	return decodeText(data, sourceEncoding(input.Layers))
}

// sourceEncoding resolves the markdown file encoding from the caller's
// layers only. Front matter cannot influence it: the document has to be
// decoded before its front matter can be read.
func sourceEncoding(layers []ConfigLayer) string {
	for i := len(layers) - 1; i >= 0; i-- {
		if name, ok := layers[i]["md_file_encoding"].(string); ok && name != "" {
			return name
		}
	}
	return ""
}

// decodeText converts data to UTF-8 using a WHATWG encoding label.
func decodeText(data []byte, name string) (string, error) {
	if name == "" || strings.EqualFold(name, "utf-8") {
		return string(data), nil
	}
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", fmt.Errorf("%w: unknown encoding %q", ErrConfiguration, name)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("%w: decoding as %s: %v", ErrConfiguration, name, err)
	}
	return string(decoded), nil
}

// resolveSettings folds front matter and caller layers over the
// defaults, fills in the basedir, and validates the result.
func (c *Converter) resolveSettings(input Input, meta map[string]any) (*config.Settings, error) {
	layers := make([]config.Layer, 0, len(input.Layers)+1)
	if meta != nil {
		layers = append(layers, config.Layer(meta))
	}
	for _, l := range input.Layers {
		layers = append(layers, config.Layer(l))
	}

	settings, err := config.Merge(layers...)
	if err != nil {
		return nil, err
	}

	if settings.Basedir == "" {
		settings.Basedir = defaultBasedir(input.Path)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// defaultBasedir is the markdown file's directory, or the working
// directory for literal input.
func defaultBasedir(path string) string {
	if path != "" {
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.Dir(abs)
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// resolveFormat picks the output format from the request, falling back
// to the as_html setting, then PDF.
func resolveFormat(input Input, settings *config.Settings) (string, error) {
	switch input.Format {
	case FormatPDF, FormatHTML, FormatDocx:
		return input.Format, nil
	case "":
		if settings.AsHTML {
			return FormatHTML, nil
		}
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q", ErrValidation, input.Format)
	}
}

// resolveDest picks the output location: explicit request, configured
// dest, path-derived filename, or stdout for literal input.
func resolveDest(input Input, settings *config.Settings, format string) string {
	dest := input.Dest
	if dest == "" {
		dest = settings.Dest
	}
	if dest == "-" || dest == Stdout {
		return Stdout
	}
	if dest != "" {
		return dest
	}
	if input.Path == "" {
		return Stdout
	}
	ext := filepath.Ext(input.Path)
	return strings.TrimSuffix(input.Path, ext) + "." + format
}

// renderDiagrams replaces fenced diagram blocks with embedded images.
// Documents without diagram blocks pass through untouched, and no
// browser is started for them.
func (c *Converter) renderDiagrams(ctx context.Context, body string, settings *config.Settings) (diagram.Result, error) {
	renderer := c.diagramRenderer
	if renderer == nil && len(diagram.Extract(body)) > 0 {
		opener, ok := c.ensureEngine(settings).(diagram.SurfaceOpener)
		if !ok {
			return diagram.Result{Markdown: body}, nil
		}
		timeout := time.Duration(settings.MermaidTimeout) * time.Millisecond
		renderer = diagram.NewMermaidRenderer(opener, timeout)
	}
	return diagram.Process(ctx, body, renderer)
}

// renderDocument converts processed markdown to HTML, decorates it, and
// hands it to the browser engine for PDF printing or serialization.
func (c *Converter) renderDocument(ctx context.Context, markdown string, meta map[string]any, settings *config.Settings, format string) ([]byte, error) {
	htmlConverter := pipeline.NewGoldmarkConverter(pipeline.MarkdownOptions{
		HighlightStyle: settings.HighlightStyle,
		Breaks:         boolOr(settings.MarkedOptions.Breaks, false),
		Unsafe:         boolOr(settings.MarkedOptions.Unsafe, true),
		Typographer:    boolOr(settings.MarkedOptions.Typographer, false),
		XHTML:          boolOr(settings.MarkedOptions.XHTML, false),
		Title:          documentTitle(meta),
	})

	htmlContent, err := htmlConverter.ToHTML(ctx, markdown)
	if err != nil {
		return nil, err
	}

	htmlContent, err = c.decorate(htmlContent, settings)
	if err != nil {
		return nil, err
	}

	server, err := assetserver.Start(settings.Basedir, settings.Port, diagram.ImageDir())
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := server.Close(); cerr != nil {
			c.logger.Warn("closing asset server", "err", cerr)
		}
	}()

	htmlContent = pipeline.InjectBaseHref(htmlContent, server.BaseURL())

	job := renderJob{
		PDF:       settings.PDFOptions,
		MediaType: settings.PageMediaType,
		HTMLOnly:  format == FormatHTML,
		Devtools:  settings.Devtools,
		Timeout:   c.cfg.timeout,
	}
	artifact, err := c.ensureEngine(settings).RenderDocument(ctx, htmlContent, job)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, fmt.Errorf("%w: devtools inspection produces no artifact", ErrOutputGeneration)
	}
	return artifact, nil
}

// decorate applies the configured stylesheets, inline CSS, body classes,
// and scripts to the document head and body. Local stylesheet files are
// inlined (decoded with the configured stylesheet encoding); everything
// else becomes a <link>.
func (c *Converter) decorate(htmlContent string, settings *config.Settings) (string, error) {
	var links []string
	for _, sheet := range settings.Stylesheet {
		local := sheet
		if !filepath.IsAbs(local) {
			local = filepath.Join(settings.Basedir, local)
		}
		if !strings.Contains(sheet, "://") && fileutil.FileExists(local) {
			data, err := os.ReadFile(local) // #nosec G304 -- configured stylesheet path
			if err != nil {
				return "", fmt.Errorf("%w: reading stylesheet %s: %v", ErrConfiguration, sheet, err)
			}
			css, err := decodeText(data, settings.StylesheetEncoding)
			if err != nil {
				return "", err
			}
			htmlContent = pipeline.InjectCSS(htmlContent, css)
			continue
		}
		links = append(links, sheet)
	}

	htmlContent = pipeline.InjectStylesheets(htmlContent, links)
	if settings.CSS != "" {
		htmlContent = pipeline.InjectCSS(htmlContent, settings.CSS)
	}
	htmlContent = pipeline.InjectBodyClass(htmlContent, settings.BodyClass)
	htmlContent = pipeline.InjectScripts(htmlContent, settings.Script)
	return htmlContent, nil
}

// ensureEngine returns the shared engine or lazily creates an owned one
// from the first conversion's launch options.
func (c *Converter) ensureEngine(settings *config.Settings) documentEngine {
	if c.engine == nil {
		c.engine = NewEngine(settings.LaunchOptions)
	}
	return c.engine
}

// writeArtifact delivers the artifact to a file or standard output.
func writeArtifact(dest string, artifact []byte) error {
	if dest == Stdout {
		if _, err := os.Stdout.Write(artifact); err != nil {
			return fmt.Errorf("%w: writing to stdout: %v", ErrOutputGeneration, err)
		}
		return nil
	}
	if err := os.WriteFile(dest, artifact, 0o644); err != nil { // #nosec G306 -- user-facing artifact
		return fmt.Errorf("%w: writing %s: %v", ErrOutputGeneration, dest, err)
	}
	return nil
}

// documentTitle pulls the title from front matter metadata, if present.
func documentTitle(meta map[string]any) string {
	if title, ok := meta["title"].(string); ok {
		return title
	}
	return ""
}

// boolOr dereferences an optional flag with a fallback.
func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}
