package mdconvert

import (
	"errors"
	"math"
	"testing"

	"github.com/jmault/go-mdconvert/internal/config"
)

func TestLengthToInches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  float64
	}{
		{"millimeters", "25.4mm", 1},
		{"centimeters", "2.54cm", 1},
		{"inches", "1.5in", 1.5},
		{"points", "72pt", 1},
		{"pixels", "96px", 1},
		{"bare number is pixels", "48", 0.5},
		{"surrounding whitespace", " 10mm ", 10.0 / 25.4},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := lengthToInches(tt.value)
			if err != nil {
				t.Fatalf("lengthToInches(%q) error: %v", tt.value, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("lengthToInches(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestLengthToInches_Invalid(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "abc", "10kg", "-5mm"} {
		if _, err := lengthToInches(value); !errors.Is(err, ErrConfiguration) {
			t.Errorf("lengthToInches(%q) error = %v, want ErrConfiguration", value, err)
		}
	}
}

func TestBuildPrintOptions_PaperAndMargins(t *testing.T) {
	t.Parallel()

	opts, err := buildPrintOptions(config.PDFOptions{
		Format: "A4",
		Scale:  1,
		Margin: config.Margin{Top: "25.4mm", Bottom: "1in"},
	})
	if err != nil {
		t.Fatalf("buildPrintOptions error: %v", err)
	}

	if opts.PaperWidth == nil || math.Abs(*opts.PaperWidth-8.27) > 0.01 {
		t.Errorf("PaperWidth = %v, want 8.27", opts.PaperWidth)
	}
	if opts.MarginTop == nil || math.Abs(*opts.MarginTop-1) > 1e-9 {
		t.Errorf("MarginTop = %v, want 1in", opts.MarginTop)
	}
	if opts.MarginBottom == nil || math.Abs(*opts.MarginBottom-1) > 1e-9 {
		t.Errorf("MarginBottom = %v, want 1in", opts.MarginBottom)
	}
	// Unset sides keep Chrome's default.
	if opts.MarginLeft != nil {
		t.Errorf("MarginLeft = %v, want nil", *opts.MarginLeft)
	}
	if opts.DisplayHeaderFooter {
		t.Error("DisplayHeaderFooter = true without any template")
	}
}

func TestBuildPrintOptions_UnknownFormat(t *testing.T) {
	t.Parallel()

	_, err := buildPrintOptions(config.PDFOptions{Format: "a9"})
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("error = %v, want ErrConfiguration", err)
	}
}

func TestBuildPrintOptions_HeaderFooter(t *testing.T) {
	t.Parallel()

	opts, err := buildPrintOptions(config.PDFOptions{
		FooterTemplate: `<span class="pageNumber"></span>`,
	})
	if err != nil {
		t.Fatalf("buildPrintOptions error: %v", err)
	}

	if !opts.DisplayHeaderFooter {
		t.Error("DisplayHeaderFooter = false, want true when a template is set")
	}
	// The missing edge gets an empty template so Chrome does not print
	// its default date stamp there.
	if opts.HeaderTemplate != "<span></span>" {
		t.Errorf("HeaderTemplate = %q, want empty span", opts.HeaderTemplate)
	}
	if opts.FooterTemplate != `<span class="pageNumber"></span>` {
		t.Errorf("FooterTemplate = %q", opts.FooterTemplate)
	}
}

func TestSplitChromeArg(t *testing.T) {
	t.Parallel()

	tests := []struct {
		arg       string
		wantName  string
		wantValue []string
	}{
		{"--disable-gpu", "disable-gpu", nil},
		{"--lang=fr", "lang", []string{"fr"}},
		{"no-dashes", "no-dashes", nil},
	}

	for _, tt := range tests {
		name, value := splitChromeArg(tt.arg)
		if name != tt.wantName {
			t.Errorf("splitChromeArg(%q) name = %q, want %q", tt.arg, name, tt.wantName)
		}
		if len(value) != len(tt.wantValue) || (len(value) > 0 && value[0] != tt.wantValue[0]) {
			t.Errorf("splitChromeArg(%q) value = %v, want %v", tt.arg, value, tt.wantValue)
		}
	}
}

func TestEngine_ReferenceCounting(t *testing.T) {
	t.Parallel()

	e := NewEngine(config.LaunchOptions{})
	e.Acquire()

	// First release keeps the engine alive for the second holder.
	if err := e.Release(); err != nil {
		t.Fatalf("first Release error: %v", err)
	}
	if e.closed {
		t.Fatal("engine closed while a reference remains")
	}

	if err := e.Release(); err != nil {
		t.Fatalf("final Release error: %v", err)
	}
	if !e.closed {
		t.Fatal("engine not closed after last release")
	}

	// Released engines refuse new work instead of relaunching Chrome.
	if _, err := e.NewSurface(); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("NewSurface after close error = %v, want ErrEngineClosed", err)
	}

	// Releasing a closed engine is a no-op.
	if err := e.Release(); err != nil {
		t.Errorf("Release after close error: %v", err)
	}
}
