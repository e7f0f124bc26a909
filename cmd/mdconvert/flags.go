package main

import (
	"fmt"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/jmault/go-mdconvert/internal/config"
)

// cliFlags holds all parsed command-line flags.
type cliFlags struct {
	// Program behavior
	configFile string
	quiet      bool
	verbose    bool
	version    bool
	workers    int
	timeout    time.Duration
	format     string

	// Conversion overrides, layered over front matter and under the config file
	dest               string
	basedir            string
	port               int
	css                string
	stylesheet         []string
	bodyClass          []string
	script             []string
	highlightStyle     string
	pageMediaType      string
	asHTML             bool
	devtools           bool
	mdFileEncoding     string
	stylesheetEncoding string
	diagramTimeout     int

	// Embedded JSON option objects
	markedOptions string
	pdfOptions    string
	launchOptions string

	// layer holds the overrides from flags the user actually set.
	layer config.Layer
}

// newFlagSet registers every flag on a fresh FlagSet.
func newFlagSet(f *cliFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("mdconvert", flag.ContinueOnError)

	fs.StringVarP(&f.configFile, "config-file", "c", "", "config file name or path (yaml, toml, or json)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")
	fs.BoolVar(&f.version, "version", false, "print version and exit")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.DurationVar(&f.timeout, "timeout", 30*time.Second, "per-document rendering timeout")
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, html, docx")

	fs.StringVarP(&f.dest, "dest", "o", "", "output file path ('stdout' streams the artifact)")
	fs.StringVar(&f.basedir, "basedir", "", "base directory for relative assets")
	fs.IntVar(&f.port, "port", 0, "asset server port (0 binds an ephemeral port)")
	fs.StringVar(&f.css, "css", "", "inline CSS appended to the document")
	fs.StringArrayVar(&f.stylesheet, "stylesheet", nil, "stylesheet path or URL (repeatable)")
	fs.StringArrayVar(&f.bodyClass, "body-class", nil, "class added to the body element (repeatable)")
	fs.StringArrayVar(&f.script, "script", nil, "script source added to the document (repeatable)")
	fs.StringVar(&f.highlightStyle, "highlight-style", "", "code highlight style (e.g. github, monokai)")
	fs.StringVar(&f.pageMediaType, "page-media-type", "", "emulated CSS media: screen, print")
	fs.BoolVar(&f.asHTML, "as-html", false, "output HTML instead of PDF")
	fs.BoolVar(&f.devtools, "devtools", false, "open the page in a visible browser for inspection")
	fs.StringVar(&f.mdFileEncoding, "md-file-encoding", "", "markdown file encoding label")
	fs.StringVar(&f.stylesheetEncoding, "stylesheet-encoding", "", "stylesheet file encoding label")
	fs.IntVar(&f.diagramTimeout, "diagram-timeout", 0, "diagram rendering timeout in milliseconds")

	fs.StringVar(&f.markedOptions, "marked-options", "", "markdown renderer options as a JSON object")
	fs.StringVar(&f.pdfOptions, "pdf-options", "", "PDF export options as a JSON object")
	fs.StringVar(&f.launchOptions, "launch-options", "", "browser launch options as a JSON object")

	return fs
}

// parseFlags parses args and returns the flags plus positional files.
func parseFlags(args []string) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := newFlagSet(f)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: mdconvert [flags] <file.md>...\n\nReads from stdin when no files are given.\n\nFlags:\n%s", fs.FlagUsages())
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}
	f.layer = flagLayer(fs, f)
	return f, fs.Args(), nil
}

// flagLayer collects only the flags the user actually set into a
// configuration layer, so unset flags never shadow the config file or a
// document's front matter.
func flagLayer(fs *flag.FlagSet, f *cliFlags) config.Layer {
	values := config.FlagValues{
		Stylesheet:    f.stylesheet,
		BodyClass:     f.bodyClass,
		Script:        f.script,
		MarkedOptions: f.markedOptions,
		PDFOptions:    f.pdfOptions,
		LaunchOptions: f.launchOptions,
	}

	if fs.Changed("dest") {
		values.Dest = &f.dest
	}
	if fs.Changed("basedir") {
		values.Basedir = &f.basedir
	}
	if fs.Changed("port") {
		values.Port = &f.port
	}
	if fs.Changed("css") {
		values.CSS = &f.css
	}
	if fs.Changed("highlight-style") {
		values.HighlightStyle = &f.highlightStyle
	}
	if fs.Changed("page-media-type") {
		values.PageMediaType = &f.pageMediaType
	}
	if fs.Changed("as-html") {
		values.AsHTML = &f.asHTML
	}
	if fs.Changed("devtools") {
		values.Devtools = &f.devtools
	}
	if fs.Changed("md-file-encoding") {
		values.MDFileEncoding = &f.mdFileEncoding
	}
	if fs.Changed("stylesheet-encoding") {
		values.StylesheetEncoding = &f.stylesheetEncoding
	}
	if fs.Changed("diagram-timeout") {
		values.MermaidTimeout = &f.diagramTimeout
	}

	return values.Layer()
}
