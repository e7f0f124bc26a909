package mdconvert

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jmault/go-mdconvert/internal/config"
	"github.com/jmault/go-mdconvert/internal/fileutil"
	"github.com/jmault/go-mdconvert/internal/process"
)

// documentEngine abstracts page rendering to enable testing without a browser.
type documentEngine interface {
	RenderDocument(ctx context.Context, htmlContent string, job renderJob) ([]byte, error)
	Release() error
}

// renderJob carries the per-document rendering settings resolved from
// the merged configuration.
type renderJob struct {
	PDF       config.PDFOptions
	MediaType string // emulated CSS media: "screen" or "print"
	HTMLOnly  bool   // serialize the loaded DOM instead of printing a PDF
	Devtools  bool   // open for inspection, produce no artifact
	Timeout   time.Duration
}

// Paper dimensions in inches, keyed by lowercase format name.
var paperSizes = map[string][2]float64{
	"a3":      {11.69, 16.54},
	"a4":      {8.27, 11.69},
	"a5":      {5.83, 8.27},
	"letter":  {8.5, 11},
	"legal":   {8.5, 14},
	"tabloid": {11, 17},
}

// Engine owns a headless Chrome instance shared by one or more
// converters. It is reference counted: NewEngine returns a handle with
// one reference, Acquire adds one, and Release closes the browser when
// the last reference is dropped. The browser itself launches lazily on
// first use, so an engine that only ever serves docx conversions never
// starts Chrome.
type Engine struct {
	mu      sync.Mutex
	opts    config.LaunchOptions
	browser *rod.Browser
	pid     int // browser process, for tree cleanup on close
	refs    int
	closed  bool
}

// NewEngine creates an engine handle holding one reference.
func NewEngine(opts config.LaunchOptions) *Engine {
	return &Engine{opts: opts, refs: 1}
}

// Acquire adds a reference and returns the same engine for chaining.
func (e *Engine) Acquire() *Engine {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.refs++
	return e
}

// Release drops one reference. The browser closes when the count
// reaches zero; later acquires fail with ErrEngineClosed.
func (e *Engine) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.refs--
	if e.refs > 0 {
		return nil
	}

	e.closed = true
	if e.browser != nil {
		err := e.browser.Close()
		e.browser = nil
		if e.pid != 0 {
			// Chrome leaves orphaned renderer processes behind when the
			// devtools connection dies first; reap the whole tree.
			process.KillProcessGroup(e.pid)
			e.pid = 0
		}
		return err
	}
	return nil
}

// ensureBrowser lazily launches and connects to the browser.
// Callers must hold e.mu.
func (e *Engine) ensureBrowser(devtools bool) error {
	if e.closed {
		return ErrEngineClosed
	}
	if e.browser != nil {
		return nil
	}

	l := launcher.New()

	if e.opts.ExecutablePath != "" {
		l = l.Bin(e.opts.ExecutablePath)
	} else if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if e.opts.NoSandbox || os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	if devtools {
		l = l.Headless(false).Devtools(true)
	}

	for _, arg := range e.opts.Args {
		name, value := splitChromeArg(arg)
		l = l.Set(flags.Flag(name), value...)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	e.browser = browser
	e.pid = l.PID()
	return nil
}

// splitChromeArg turns "--disable-gpu" or "--lang=fr" into a flag name
// and optional value for the rod launcher.
func splitChromeArg(arg string) (string, []string) {
	arg = strings.TrimLeft(arg, "-")
	name, value, found := strings.Cut(arg, "=")
	if !found {
		return name, nil
	}
	return name, []string{value}
}

// NewSurface opens a blank page for off-screen rendering, such as
// diagram rasterization. The caller owns the page and must close it.
func (e *Engine) NewSurface() (*rod.Page, error) {
	e.mu.Lock()
	err := e.ensureBrowser(false)
	browser := e.browser
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	return page, nil
}

// RenderDocument loads htmlContent in a fresh page and produces the
// requested artifact: PDF bytes, the serialized DOM for HTML output, or
// nothing in devtools mode (the page is left open for inspection).
func (e *Engine) RenderDocument(ctx context.Context, htmlContent string, job renderJob) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	err := e.ensureBrowser(job.Devtools)
	browser := e.browser
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	if !job.Devtools {
		defer page.Close()
	}

	timeout := job.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if job.MediaType != "" {
		setMedia := proto.EmulationSetEmulatedMedia{Media: job.MediaType}
		if err := setMedia.Call(page); err != nil {
			return nil, fmt.Errorf("%w: emulating media type %q: %v", ErrPageLoad, job.MediaType, err)
		}
	}

	if job.Devtools {
		// Inspection mode keeps the page open and yields no artifact.
		return nil, nil
	}

	if job.HTMLOnly {
		serialized, err := page.HTML()
		if err != nil {
			return nil, fmt.Errorf("%w: serializing page: %v", ErrOutputGeneration, err)
		}
		return []byte(serialized), nil
	}

	printOpts, err := buildPrintOptions(job.PDF)
	if err != nil {
		return nil, err
	}

	reader, err := page.PDF(printOpts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOutputGeneration, err)
	}
	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrOutputGeneration, err)
	}
	return pdfBuf, nil
}

// buildPrintOptions maps the merged PDF settings onto Chrome's
// printToPDF parameters. Margins are CSS lengths converted to inches;
// an empty margin leaves Chrome's default in place.
func buildPrintOptions(opts config.PDFOptions) (*proto.PagePrintToPDF, error) {
	printOpts := &proto.PagePrintToPDF{
		Landscape:         opts.Landscape,
		PrintBackground:   opts.PrintBackground,
		PageRanges:        opts.PageRanges,
		PreferCSSPageSize: opts.PreferCSSPageSize,
	}

	if opts.Scale != 0 {
		printOpts.Scale = floatPtr(opts.Scale)
	}

	if opts.Format != "" {
		size, ok := paperSizes[strings.ToLower(opts.Format)]
		if !ok {
			return nil, fmt.Errorf("%w: unknown page format %q", ErrConfiguration, opts.Format)
		}
		printOpts.PaperWidth = floatPtr(size[0])
		printOpts.PaperHeight = floatPtr(size[1])
	}

	for _, m := range []struct {
		value string
		dst   **float64
	}{
		{opts.Margin.Top, &printOpts.MarginTop},
		{opts.Margin.Right, &printOpts.MarginRight},
		{opts.Margin.Bottom, &printOpts.MarginBottom},
		{opts.Margin.Left, &printOpts.MarginLeft},
	} {
		if m.value == "" {
			continue
		}
		inches, err := lengthToInches(m.value)
		if err != nil {
			return nil, err
		}
		*m.dst = floatPtr(inches)
	}

	if opts.HeaderFooterVisible() {
		printOpts.DisplayHeaderFooter = true
		printOpts.HeaderTemplate = orEmptySpan(opts.HeaderTemplate)
		printOpts.FooterTemplate = orEmptySpan(opts.FooterTemplate)
	}

	return printOpts, nil
}

// orEmptySpan substitutes Chrome's date-stamp default template with an
// empty one when only the opposite edge is configured.
func orEmptySpan(tpl string) string {
	if tpl == "" {
		return "<span></span>"
	}
	return tpl
}

// lengthToInches converts a CSS length ("30mm", "1in", "2cm", "20px",
// "12pt", or a bare pixel number) to inches for Chrome's print API.
func lengthToInches(value string) (float64, error) {
	value = strings.TrimSpace(value)

	unit := "px"
	number := value
	for _, u := range []string{"mm", "cm", "in", "px", "pt"} {
		if strings.HasSuffix(value, u) {
			unit = u
			number = strings.TrimSpace(strings.TrimSuffix(value, u))
			break
		}
	}

	n, err := strconv.ParseFloat(number, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid margin length %q", ErrConfiguration, value)
	}

	switch unit {
	case "mm":
		return n / 25.4, nil
	case "cm":
		return n / 2.54, nil
	case "in":
		return n, nil
	case "pt":
		return n / 72, nil
	default: // px at 96dpi
		return n / 96, nil
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
