package yamlutil_test

// Notes:
// - Marshal error branch: not tested because yaml.Marshal only fails with
//   unmarshalable types (channels, functions), which are compile-time
//   detectable and not realistic in production usage.

import (
	"errors"
	"strings"
	"testing"

	"github.com/jmault/go-mdconvert/internal/yamlutil"
)

// docMeta mirrors the shape of document front matter: known settings
// next to arbitrary metadata keys.
type docMeta struct {
	Title          string `yaml:"title"`
	HighlightStyle string `yaml:"highlight_style"`
	Port           int    `yaml:"port"`
}

func TestUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		dest    any
		wantErr error
		check   func(t *testing.T, v *docMeta)
	}{
		{
			name: "valid front matter",
			data: []byte("title: Report\nhighlight_style: monokai\nport: 9000"),
			dest: &docMeta{},
			check: func(t *testing.T, v *docMeta) {
				if v.Title != "Report" || v.HighlightStyle != "monokai" || v.Port != 9000 {
					t.Errorf("decoded = %+v", v)
				}
			},
		},
		{
			name: "unknown keys tolerated",
			data: []byte("title: Report\nauthor: Someone\ntags: [a, b]"),
			dest: &docMeta{},
			check: func(t *testing.T, v *docMeta) {
				if v.Title != "Report" {
					t.Errorf("Title = %q", v.Title)
				}
			},
		},
		{
			name: "unicode content",
			data: []byte("title: 日本語テスト"),
			dest: &docMeta{},
			check: func(t *testing.T, v *docMeta) {
				if v.Title != "日本語テスト" {
					t.Errorf("Title = %q", v.Title)
				}
			},
		},
		{
			name:    "nil data",
			data:    nil,
			dest:    &docMeta{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "empty data",
			data:    []byte{},
			dest:    &docMeta{},
			wantErr: yamlutil.ErrNilData,
		},
		{
			name:    "nil destination",
			data:    []byte("title: Report"),
			dest:    nil,
			wantErr: yamlutil.ErrNilDestination,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := yamlutil.Unmarshal(tt.data, tt.dest)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.check != nil {
				tt.check(t, tt.dest.(*docMeta))
			}
		})
	}
}

func TestUnmarshal_SyntaxError(t *testing.T) {
	t.Parallel()

	err := yamlutil.Unmarshal([]byte("title: [unclosed"), &docMeta{})
	if err == nil {
		t.Fatal("expected error for malformed YAML")
	}
	if !strings.Contains(err.Error(), "yamlutil:") {
		t.Errorf("error %q should be wrapped with the package prefix", err)
	}
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	// Known fields decode normally.
	var meta docMeta
	if err := yamlutil.UnmarshalStrict([]byte("title: Report"), &meta); err != nil {
		t.Fatalf("UnmarshalStrict error: %v", err)
	}
	if meta.Title != "Report" {
		t.Errorf("Title = %q", meta.Title)
	}

	// A typoed config key fails loudly instead of being ignored.
	err := yamlutil.UnmarshalStrict([]byte("titel: Report"), &docMeta{})
	if err == nil {
		t.Fatal("expected error for unknown field in strict mode")
	}
}

func TestUnmarshal_InputTooLarge(t *testing.T) {
	t.Parallel()

	big := append([]byte("title: "), make([]byte, yamlutil.MaxInputSize)...)
	err := yamlutil.Unmarshal(big, &docMeta{})
	if !errors.Is(err, yamlutil.ErrInputTooLarge) {
		t.Errorf("error = %v, want ErrInputTooLarge", err)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	in := docMeta{Title: "Report", HighlightStyle: "github", Port: 1211}
	data, err := yamlutil.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var out docMeta
	if err := yamlutil.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal error: %v", err)
	}
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
