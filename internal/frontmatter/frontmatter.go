// Package frontmatter splits a leading YAML metadata block from a
// Markdown document body.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmault/go-mdconvert/internal/yamlutil"
)

// ErrParse indicates the metadata block could not be parsed as YAML.
var ErrParse = errors.New("front matter parse failed")

// delimiter opens and closes the metadata block.
const delimiter = "---"

// Split separates a leading front-matter block from the document body.
//
// A document carries front matter when its first line is exactly "---"
// and a later line is exactly "---" again; the lines between are parsed
// as YAML. Documents without the opening fence are returned unchanged
// with nil metadata.
//
// On parse failure the original text is returned as the body alongside
// ErrParse, so callers can degrade to "no front matter" behavior.
func Split(raw string) (body string, metadata map[string]any, err error) {
	normalized := strings.ReplaceAll(raw, "\r\n", "\n")

	if !strings.HasPrefix(normalized, delimiter+"\n") && normalized != delimiter {
		return raw, nil, nil
	}

	rest := strings.TrimPrefix(normalized, delimiter+"\n")
	end := findClosingFence(rest)
	if end < 0 {
		// Opening fence without a closing fence is not front matter;
		// leave the document alone.
		return raw, nil, nil
	}

	block := rest[:end]
	body = strings.TrimPrefix(rest[end:], delimiter)
	body = strings.TrimPrefix(body, "\n")

	if strings.TrimSpace(block) == "" {
		return body, nil, nil
	}

	meta := map[string]any{}
	if err := yamlutil.Unmarshal([]byte(block), &meta); err != nil {
		return raw, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return body, meta, nil
}

// findClosingFence returns the offset of the line that closes the
// block, or -1 when none exists.
func findClosingFence(s string) int {
	offset := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimRight(line, " \t") == delimiter {
			return offset
		}
		offset += len(line) + 1
	}
	return -1
}
