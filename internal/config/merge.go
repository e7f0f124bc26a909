package config

import (
	"errors"
	"fmt"

	"github.com/jmault/go-mdconvert/internal/yamlutil"
)

// Layer is one partial configuration: a loosely-typed key/value tree as
// produced by front matter, a config file, or CLI flag parsing. Unknown
// keys are tolerated and ignored at decode time.
type Layer map[string]any

// Merge folds layers left-to-right on top of Default() and decodes the
// result into effective Settings. Nested objects merge key-by-key;
// scalar values replace. Decoding applies list coercion and margin
// shorthand expansion; any shape error is reported as ErrConfiguration.
func Merge(layers ...Layer) (*Settings, error) {
	merged := Layer{}
	for _, layer := range layers {
		mergeInto(merged, layer)
	}

	settings := Default()
	if len(merged) > 0 {
		data, err := yamlutil.Marshal(merged)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
		if err := yamlutil.Unmarshal(data, settings); err != nil {
			if errors.Is(err, ErrConfiguration) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
		}
	}

	settings.normalize()
	return settings, nil
}

// normalize resolves derived defaults after all layers are folded.
func (s *Settings) normalize() {
	// Header/footer visibility defaults to true exactly when a template
	// is present and visibility was not set explicitly.
	if s.PDFOptions.DisplayHeaderFooter == nil {
		visible := s.PDFOptions.HeaderTemplate != "" || s.PDFOptions.FooterTemplate != ""
		s.PDFOptions.DisplayHeaderFooter = &visible
	}
	if s.MermaidTimeout <= 0 {
		s.MermaidTimeout = DefaultMermaidTimeout
	}
}

// mergeInto merges src into dst in place. Values that are maps on both
// sides merge recursively; any other value overwrites.
func mergeInto(dst, src map[string]any) {
	for key, srcVal := range src {
		srcMap, srcIsMap := asStringMap(srcVal)
		dstMap, dstIsMap := asStringMap(dst[key])

		if srcIsMap && dstIsMap {
			mergeInto(dstMap, srcMap)
			dst[key] = dstMap
			continue
		}
		if srcIsMap {
			// Copy so later merges never mutate the caller's layer.
			clone := map[string]any{}
			mergeInto(clone, srcMap)
			dst[key] = clone
			continue
		}
		dst[key] = srcVal
	}
}

// asStringMap converts the map shapes produced by the YAML, JSON, and
// TOML decoders into a uniform map[string]any.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Layer:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}
