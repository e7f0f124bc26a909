package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	stdhtml "html"

	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrHTMLConversion indicates HTML conversion failed.
var ErrHTMLConversion = errors.New("HTML conversion failed")

// htmlTemplate wraps Goldmark's fragment output in a complete HTML5 document.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s
</body>
</html>`

// HTMLConverter abstracts Markdown to HTML conversion.
type HTMLConverter interface {
	ToHTML(ctx context.Context, content string) (string, error)
}

// MarkdownOptions tunes the Goldmark renderer per conversion. Values
// come from the merged configuration's rendering options.
type MarkdownOptions struct {
	HighlightStyle string // chroma style name, e.g. "github", "monokai"
	Breaks         bool   // treat single newlines as <br>
	Unsafe         bool   // pass raw HTML through (required for embedded diagram fragments)
	Typographer    bool   // smart quotes and dashes
	XHTML          bool   // self-closing tags
	Title          string // document <title>; empty falls back to "Document"
}

// GoldmarkConverter converts Markdown to HTML using goldmark (pure Go).
type GoldmarkConverter struct {
	md    goldmark.Markdown
	title string
}

// NewGoldmarkConverter creates a GoldmarkConverter with GFM extensions
// and syntax highlighting. Highlighting uses inline styles from the
// named chroma style so the output document is self-contained.
func NewGoldmarkConverter(opts MarkdownOptions) *GoldmarkConverter {
	// Unknown style names silently fall back to chroma's bare default,
	// which renders unstyled code; resolve them to github instead.
	style := opts.HighlightStyle
	if style == "" || styles.Get(style) == styles.Fallback {
		style = "github"
	}

	extensions := []goldmark.Extender{
		extension.GFM,      // Tables, strikethrough, autolinks, task lists
		extension.Footnote, // [^1] footnotes
		highlighting.NewHighlighting(
			highlighting.WithStyle(style),
		),
	}
	if opts.Typographer {
		extensions = append(extensions, extension.Typographer)
	}

	var rendererOptions []renderer.Option
	if opts.Breaks {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.XHTML {
		rendererOptions = append(rendererOptions, html.WithXHTML())
	}
	if opts.Unsafe {
		// Embedded diagram images arrive as raw HTML fragments in the
		// Markdown text; without this they would be escaped away.
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extensions...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)

	title := opts.Title
	if title == "" {
		title = "Document"
	}
	return &GoldmarkConverter{md: md, title: stdhtml.EscapeString(title)}
}

// ToHTML converts Markdown content to a standalone HTML5 document.
// Supports context cancellation via goroutine + select pattern since
// Goldmark doesn't natively support context.
func (c *GoldmarkConverter) ToHTML(ctx context.Context, content string) (string, error) {
	// Fast path: check context before starting
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		html string
		err  error
	}

	done := make(chan result, 1)

	go func() {
		var buf bytes.Buffer
		if err := c.md.Convert([]byte(content), &buf); err != nil {
			done <- result{err: fmt.Errorf("%w: %v", ErrHTMLConversion, err)}
			return
		}
		done <- result{html: fmt.Sprintf(htmlTemplate, c.title, buf.String())}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-done:
		return r.html, r.err
	}
}
