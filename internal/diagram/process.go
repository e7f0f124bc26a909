package diagram

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// imageDirName is the shared, process-wide artifact directory under the
// OS temp dir. Safe to share across concurrent conversions because
// artifact names are content-addressed.
const imageDirName = "mdconvert-diagrams"

// ImageDir returns the shared temp directory for rendered diagrams.
func ImageDir() string {
	return filepath.Join(os.TempDir(), imageDirName)
}

// Result is the outcome of processing every diagram block in a document.
type Result struct {
	Markdown   string   // document text with rendered blocks substituted
	ImageFiles []string // artifact paths produced, in document order
	Warnings   []string // one entry per skipped or failed block
}

// Process extracts, renders, and embeds every mermaid block in the
// document.
//
// A document without blocks is returned unchanged and causes no
// filesystem access and no engine calls. An empty block yields a
// warning and is left as source text. A render failure yields a warning
// naming the diagram's position and is likewise left as source text;
// one failure never aborts the batch. Successes are replaced in place
// by a self-contained inline image, so embedded images appear in
// source-block order no matter how rendering is scheduled.
func Process(ctx context.Context, markdown string, renderer Renderer) (Result, error) {
	blocks := Extract(markdown)
	if len(blocks) == 0 {
		return Result{Markdown: markdown}, nil
	}

	dir := ImageDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return Result{}, fmt.Errorf("creating diagram image directory: %w", err)
	}

	// Rebuild the document from the blocks' own byte spans. Substituting
	// by span rather than by text keeps a failed block's position intact
	// even when an identical block elsewhere rendered successfully.
	var out Result
	var b strings.Builder
	last := 0
	for _, block := range blocks {
		var embedded string
		out, embedded = reduceBlock(ctx, out, block, renderer, dir)
		if embedded == "" {
			continue
		}
		b.WriteString(markdown[last:block.Start])
		b.WriteString(embedded)
		last = block.End
	}
	b.WriteString(markdown[last:])
	out.Markdown = b.String()
	return out, nil
}

// reduceBlock folds one block into the accumulator and returns the
// replacement text for the block's span, or "" to keep the source text.
// Pure with respect to the accumulator: every outcome (skip, failure,
// success) returns a new Result, which keeps ordering and error
// isolation testable against a canned renderer.
func reduceBlock(ctx context.Context, acc Result, block Block, renderer Renderer, dir string) (Result, string) {
	if strings.TrimSpace(block.Source) == "" {
		acc.Warnings = append(acc.Warnings, fmt.Sprintf("Skipping empty mermaid block at index %d", block.Index))
		return acc, ""
	}

	artifact, err := renderer.Render(ctx, block, dir)
	if err != nil {
		acc.Warnings = append(acc.Warnings, fmt.Sprintf("Failed to render diagram %d: %v", block.Index+1, err))
		return acc, ""
	}

	embedded, err := inlineImage(artifact, block.Index)
	if err != nil {
		acc.Warnings = append(acc.Warnings, fmt.Sprintf("Failed to render diagram %d: %v", block.Index+1, err))
		return acc, ""
	}

	acc.ImageFiles = append(acc.ImageFiles, artifact.Path)
	return acc, embedded
}

// inlineImage reads the artifact and builds a self-contained container
// fragment with the image bytes embedded as a data URL.
func inlineImage(artifact Artifact, index int) (string, error) {
	data, err := os.ReadFile(artifact.Path) // #nosec G304 -- path derived from content hash
	if err != nil {
		return "", fmt.Errorf("reading diagram artifact: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return fmt.Sprintf(
		`<div class="mermaid-diagram"><img src="data:image/png;base64,%s" alt="Diagram %d" width="%d" height="%d" /></div>`,
		encoded, index+1, artifact.Width, artifact.Height,
	), nil
}
