// Package diagram discovers mermaid code blocks in Markdown text,
// renders them to raster images through a browser engine, and embeds
// the results inline.
//
// Rendered artifacts are named by a content hash of the normalized
// diagram source plus the block's ordinal index, so independent
// conversions running concurrently agree on filenames without locking:
// two processes writing the same artifact write identical bytes.
package diagram

import (
	"regexp"

	"github.com/jmault/go-mdconvert/internal/hashutil"
)

// fencePattern matches fenced mermaid code blocks. The language tag is
// matched exactly and case-sensitively: blocks tagged "Mermaid" or
// "MERMAID" are left alone. This mirrors the behavior existing
// documents rely on and is intentional, not an oversight.
var fencePattern = regexp.MustCompile("(?ms)^```mermaid[ \t]*\r?$\n(.*?)^```[ \t]*\r?$")

// Block is one discovered diagram, transient to a single conversion.
type Block struct {
	Raw    string // the full fenced region as matched
	Source string // the diagram source between the fences
	Start  int    // byte offset of the fenced region in the document
	End    int    // byte offset just past the fenced region
	Index  int    // ordinal position in document order, 0-based
	Hash   string // content hash of the normalized source
}

// Extract returns all mermaid blocks in document order. A document with
// no blocks returns nil, which callers use to skip the rendering
// subsystem entirely. Each block carries the byte span of its fenced
// region so substitution can target the exact match even when two
// blocks are byte-identical.
func Extract(markdown string) []Block {
	matches := fencePattern.FindAllStringSubmatchIndex(markdown, -1)
	if len(matches) == 0 {
		return nil
	}

	blocks := make([]Block, len(matches))
	for i, m := range matches {
		source := markdown[m[2]:m[3]]
		blocks[i] = Block{
			Raw:    markdown[m[0]:m[1]],
			Source: source,
			Start:  m[0],
			End:    m[1],
			Index:  i,
			Hash:   hashutil.HashDefault(source),
		}
	}
	return blocks
}
