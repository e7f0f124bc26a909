package config

import "encoding/json"

// FlagValues carries recognized command-line overrides. Pointer fields
// and nil slices mean "flag not given"; only given flags contribute to
// the layer. The three option flags hold embedded JSON objects.
type FlagValues struct {
	Dest               *string
	Basedir            *string
	Port               *int
	CSS                *string
	Stylesheet         []string
	BodyClass          []string
	Script             []string
	HighlightStyle     *string
	PageMediaType      *string
	AsHTML             *bool
	Devtools           *bool
	MDFileEncoding     *string
	StylesheetEncoding *string
	MermaidTimeout     *int

	// Embedded JSON objects. A value that fails to parse is dropped
	// silently; the remaining overrides still apply.
	MarkedOptions string
	PDFOptions    string
	LaunchOptions string
}

// Layer converts the given flags into a mergeable configuration layer.
// Unparseable embedded-JSON values drop only that one override.
func (f FlagValues) Layer() Layer {
	layer := Layer{}

	putString(layer, "dest", f.Dest)
	putString(layer, "basedir", f.Basedir)
	putString(layer, "css", f.CSS)
	putString(layer, "highlight_style", f.HighlightStyle)
	putString(layer, "page_media_type", f.PageMediaType)
	putString(layer, "md_file_encoding", f.MDFileEncoding)
	putString(layer, "stylesheet_encoding", f.StylesheetEncoding)

	if f.Port != nil {
		layer["port"] = *f.Port
	}
	if f.MermaidTimeout != nil {
		layer["mermaid_timeout"] = *f.MermaidTimeout
	}
	if f.AsHTML != nil {
		layer["as_html"] = *f.AsHTML
	}
	if f.Devtools != nil {
		layer["devtools"] = *f.Devtools
	}
	if f.Stylesheet != nil {
		layer["stylesheet"] = toAnySlice(f.Stylesheet)
	}
	if f.BodyClass != nil {
		layer["body_class"] = toAnySlice(f.BodyClass)
	}
	if f.Script != nil {
		layer["script"] = toAnySlice(f.Script)
	}

	putJSON(layer, "marked_options", f.MarkedOptions)
	putJSON(layer, "pdf_options", f.PDFOptions)
	putJSON(layer, "launch_options", f.LaunchOptions)

	return layer
}

func putString(layer Layer, key string, v *string) {
	if v != nil {
		layer[key] = *v
	}
}

// putJSON parses raw as a JSON object and stores it under key.
// Empty or malformed input leaves the layer untouched.
func putJSON(layer Layer, key, raw string) {
	if raw == "" {
		return
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return
	}
	layer[key] = obj
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}
