package diagram

import (
	"context"
	"errors"
	"fmt"
	"html"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Sentinel errors for diagram rendering.
var (
	ErrRenderTimeout    = errors.New("timed out waiting for diagram to render")
	ErrRenderIncomplete = errors.New("diagram produced no output node")
	ErrSurfaceCreate    = errors.New("failed to open rendering surface")
)

// DefaultTimeout bounds one diagram render.
const DefaultTimeout = 30 * time.Second

// capturePadding is added around the rendered diagram's bounding box so
// strokes on the outline are not clipped.
const capturePadding = 8

// DefaultScriptURL loads the mermaid runtime into the rendering surface.
// Overridable for offline use via config (a script entry served from the
// basedir works too).
const DefaultScriptURL = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"

// Artifact is one rendered diagram image, owned by the conversion that
// produced it and deleted after its bytes are embedded.
type Artifact struct {
	Path   string
	Width  int
	Height int
}

// Renderer renders a single diagram block to a raster artifact.
type Renderer interface {
	Render(ctx context.Context, block Block, outDir string) (Artifact, error)
}

// SurfaceOpener provides isolated browser pages. Satisfied by the
// engine handle owned by the conversion orchestrator.
type SurfaceOpener interface {
	NewSurface() (*rod.Page, error)
}

// surfaceDocument hosts one diagram source plus the mermaid runtime.
// securityLevel "loose" lets click bindings through, matching how the
// document tool configures mermaid for exported output.
const surfaceDocument = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body>
<div class="mermaid">%s</div>
<script src="%s"></script>
<script>mermaid.initialize({ startOnLoad: true, securityLevel: "loose" });</script>
</body>
</html>`

// outputSelector is the node mermaid produces on success.
const outputSelector = ".mermaid svg"

// MermaidRenderer renders mermaid sources on a browser engine surface.
type MermaidRenderer struct {
	Engine    SurfaceOpener
	Timeout   time.Duration // zero means DefaultTimeout
	ScriptURL string        // zero means DefaultScriptURL
}

// NewMermaidRenderer creates a renderer bound to an engine handle.
func NewMermaidRenderer(engine SurfaceOpener, timeout time.Duration) *MermaidRenderer {
	return &MermaidRenderer{Engine: engine, Timeout: timeout}
}

// Render draws one diagram and captures it as a PNG at a path derived
// from the block's content hash and ordinal index. An artifact already
// present at that path is reused without touching the engine: its
// content is byte-equivalent by construction.
func (r *MermaidRenderer) Render(ctx context.Context, block Block, outDir string) (Artifact, error) {
	outPath := filepath.Join(outDir, ArtifactName(block))

	if art, ok := existingArtifact(outPath); ok {
		return art, nil
	}

	if err := ctx.Err(); err != nil {
		return Artifact{}, err
	}

	page, err := r.Engine.NewSurface()
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", ErrSurfaceCreate, err)
	}
	defer page.Close()

	doc := fmt.Sprintf(surfaceDocument, html.EscapeString(block.Source), r.scriptURL())
	if err := page.SetDocumentContent(doc); err != nil {
		return Artifact{}, fmt.Errorf("loading diagram document: %w", err)
	}

	// Poll for the rendered output node, bounded by the timeout.
	el, err := page.Timeout(r.timeout()).Element(outputSelector)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Artifact{}, fmt.Errorf("%w after %s", ErrRenderTimeout, r.timeout())
		}
		return Artifact{}, fmt.Errorf("%w: %v", ErrRenderIncomplete, err)
	}

	shape, err := el.Shape()
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: measuring output node: %v", ErrRenderIncomplete, err)
	}
	box := shape.Box()
	width := int(box.Width) + 2*capturePadding
	height := int(box.Height) + 2*capturePadding

	// Fit the capture surface to the diagram so the screenshot carries
	// no dead space around the node.
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
	}); err != nil {
		return Artifact{}, fmt.Errorf("resizing capture surface: %w", err)
	}

	data, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: capturing output node: %v", ErrRenderIncomplete, err)
	}

	// Same-hash writers across processes produce identical bytes, so a
	// concurrent write to this path is benign.
	if err := os.WriteFile(outPath, data, 0o644); err != nil { // #nosec G306 -- ephemeral image, embedded then deleted
		return Artifact{}, fmt.Errorf("writing diagram artifact: %w", err)
	}

	return Artifact{Path: outPath, Width: int(box.Width), Height: int(box.Height)}, nil
}

func (r *MermaidRenderer) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

func (r *MermaidRenderer) scriptURL() string {
	if r.ScriptURL != "" {
		return r.ScriptURL
	}
	return DefaultScriptURL
}

// ArtifactName derives the cache filename for a block. The index keeps
// distinct diagrams that share a truncated hash from colliding.
func ArtifactName(block Block) string {
	return fmt.Sprintf("diagram-%s-%d.png", block.Hash, block.Index)
}

// existingArtifact reuses a previously rendered file at path, reading
// its dimensions from the PNG header.
func existingArtifact(path string) (Artifact, bool) {
	f, err := os.Open(path) // #nosec G304 -- path derived from content hash
	if err != nil {
		return Artifact{}, false
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return Artifact{}, false
	}
	return Artifact{Path: path, Width: cfg.Width, Height: cfg.Height}, true
}
