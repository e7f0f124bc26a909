// Package pipeline implements the Markdown-to-HTML stage of document
// conversion.
//
// This package handles Markdown rendering and HTML decoration:
//   - Markdown to HTML conversion via Goldmark (GFM, footnotes,
//     syntax highlighting keyed by fence language tag)
//   - Stylesheet link, inline CSS, script, and body-class injection
//   - Base-URL injection so relative references resolve against the
//     local asset server
//
// Final artifact generation (PDF/HTML export, diagram rasterization) is
// handled by the root mdconvert package using the browser engine. This
// separation keeps the pipeline focused on document structure and
// content, while the engine handles page layout and rendering concerns.
package pipeline
