package config

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// StringList is a []string that also accepts a bare scalar during
// decoding, coercing it to a single-element list. Front matter commonly
// writes `stylesheet: style.css` for a one-entry list.
type StringList []string

// UnmarshalYAML implements yaml.BytesUnmarshaler.
func (l *StringList) UnmarshalYAML(b []byte) error {
	var seq []string
	if err := yaml.Unmarshal(b, &seq); err == nil {
		*l = seq
		return nil
	}

	var scalar string
	if err := yaml.Unmarshal(b, &scalar); err == nil {
		*l = StringList{scalar}
		return nil
	}

	return fmt.Errorf("%w: expected string or sequence of strings, got %q", ErrConfiguration, string(b))
}
