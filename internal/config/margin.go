package config

import (
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
)

// Margin holds page margins for the four named sides. Each side is a
// CSS length string (e.g. "10mm", "0.5in").
type Margin struct {
	Top    string `yaml:"top"`
	Right  string `yaml:"right"`
	Bottom string `yaml:"bottom"`
	Left   string `yaml:"left"`
}

// UnmarshalYAML accepts either an object with per-side keys or a
// CSS-style shorthand string of 1 to 4 space-separated tokens.
// A partial object only overwrites the sides it names.
func (m *Margin) UnmarshalYAML(b []byte) error {
	var shorthand string
	if err := yaml.Unmarshal(b, &shorthand); err == nil {
		expanded, err := ExpandMarginShorthand(shorthand)
		if err != nil {
			return err
		}
		*m = expanded
		return nil
	}

	type plain Margin
	if err := yaml.Unmarshal(b, (*plain)(m)); err != nil {
		return fmt.Errorf("%w: margin must be a string or an object: %v", ErrConfiguration, err)
	}
	return nil
}

// ExpandMarginShorthand expands a CSS-style margin shorthand into the
// four named sides:
//
//	"10mm"                  -> all sides 10mm
//	"10mm 20mm"             -> top/bottom 10mm, left/right 20mm
//	"10mm 20mm 30mm"        -> top 10mm, left/right 20mm, bottom 30mm
//	"10mm 20mm 30mm 40mm"   -> top, right, bottom, left
//
// More than 4 tokens is rejected with ErrConfiguration. An empty string
// yields a zero Margin.
func ExpandMarginShorthand(s string) (Margin, error) {
	tokens := strings.Fields(s)

	switch len(tokens) {
	case 0:
		return Margin{}, nil
	case 1:
		return Margin{Top: tokens[0], Right: tokens[0], Bottom: tokens[0], Left: tokens[0]}, nil
	case 2:
		return Margin{Top: tokens[0], Right: tokens[1], Bottom: tokens[0], Left: tokens[1]}, nil
	case 3:
		return Margin{Top: tokens[0], Right: tokens[1], Bottom: tokens[2], Left: tokens[1]}, nil
	case 4:
		return Margin{Top: tokens[0], Right: tokens[1], Bottom: tokens[2], Left: tokens[3]}, nil
	default:
		return Margin{}, fmt.Errorf("%w: margin shorthand %q has %d tokens (max 4)", ErrConfiguration, s, len(tokens))
	}
}
