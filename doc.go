// Package mdconvert converts Markdown documents to PDF, HTML, or docx
// using headless Chrome.
//
// # Quick Start
//
// Create a converter, convert a file, and close when done:
//
//	conv := mdconvert.NewConverter()
//	defer conv.Close()
//
//	out, err := conv.Convert(ctx, mdconvert.Input{
//	    Path: "report.md",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("wrote", out.Filename)
//
// The artifact is written next to the source file (report.pdf here) and
// also returned in out.Content. Set Input.Dest to override the
// location, or to mdconvert.Stdout to stream the bytes instead.
//
// # Conversion Pipeline
//
// The conversion process follows these stages:
//
//  1. Front matter extraction (YAML between --- fences)
//  2. Configuration layering (defaults, front matter, caller layers)
//  3. Diagram rendering (```mermaid blocks become embedded images)
//  4. Markdown to HTML conversion via Goldmark (GFM, syntax highlighting)
//  5. HTML decoration (stylesheets, CSS, body classes, scripts)
//  6. Artifact generation: PDF printing or DOM serialization via
//     headless Chrome (go-rod), or docx via pandoc
//
// # Configuration
//
// Per-document settings come from the document's front matter and from
// caller-supplied layers, merged key by key with later layers winning:
//
//	out, err := conv.Convert(ctx, mdconvert.Input{
//	    Path:   "report.md",
//	    Format: mdconvert.FormatPDF,
//	    Layers: []mdconvert.ConfigLayer{{
//	        "highlight_style": "monokai",
//	        "pdf_options":     map[string]any{"format": "letter"},
//	    }},
//	})
//
// Converter-level behavior uses functional options:
//
//	conv := mdconvert.NewConverter(
//	    mdconvert.WithTimeout(2 * time.Minute),
//	    mdconvert.WithLogger(logger),
//	)
//
// # Parallel Processing
//
// For batch conversion, use ConverterPool to manage multiple browser
// instances:
//
//	pool := mdconvert.NewConverterPool(4)
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//	out, err := conv.Convert(ctx, input)
//
// A single Engine can also be shared between converters with
// WithEngine; the engine closes when its last holder releases it.
//
// # Browser Requirements
//
// PDF and HTML generation require Chrome/Chromium. The go-rod library
// automatically downloads a managed Chromium instance on first run
// (~/.cache/rod/browser/). Use ROD_BROWSER_BIN or the executablePath
// launch option to point at a pre-installed binary; docx generation
// requires pandoc on PATH instead.
package mdconvert
