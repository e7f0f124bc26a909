package hashutil

import (
	"strings"
	"testing"
)

func TestHash_Deterministic(t *testing.T) {
	t.Parallel()

	input := "graph TD\n  A --> B"
	first := Hash(input, 16)
	second := Hash(input, 16)

	if first != second {
		t.Errorf("Hash not deterministic: %q vs %q", first, second)
	}
	if len(first) != 16 {
		t.Errorf("Hash length = %d, want 16", len(first))
	}
}

func TestHash_Normalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a    string
		b    string
		same bool
	}{
		{
			name: "CRLF and LF collapse",
			a:    "graph TD\r\n  A --> B",
			b:    "graph TD\n  A --> B",
			same: true,
		},
		{
			name: "bare CR and LF collapse",
			a:    "graph TD\r  A --> B",
			b:    "graph TD\n  A --> B",
			same: true,
		},
		{
			name: "outer whitespace trimmed",
			a:    "\n\n  graph TD  \n\n",
			b:    "graph TD",
			same: true,
		},
		{
			name: "one character difference",
			a:    "graph TD\n  A --> B",
			b:    "graph TD\n  A --> C",
			same: false,
		},
		{
			name: "inner whitespace preserved",
			a:    "graph  TD",
			b:    "graph TD",
			same: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ha := Hash(tt.a, 16)
			hb := Hash(tt.b, 16)
			if (ha == hb) != tt.same {
				t.Errorf("Hash(%q) = %q, Hash(%q) = %q, want same=%v",
					tt.a, ha, tt.b, hb, tt.same)
			}
		})
	}
}

func TestHash_LengthClamping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		length  int
		wantLen int
	}{
		{"zero", 0, 0},
		{"negative clamps to zero", -5, 0},
		{"default", 16, 16},
		{"full digest", 64, 64},
		{"above digest clamps to 64", 100, 64},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Hash("content", tt.length)
			if len(got) != tt.wantLen {
				t.Errorf("len(Hash) = %d, want %d", len(got), tt.wantLen)
			}
		})
	}
}

func TestHash_KnownDigestPrefix(t *testing.T) {
	t.Parallel()

	// Full digest must be valid lowercase hex and a prefix chain:
	// shorter lengths are prefixes of longer ones.
	full := Hash("graph LR", 64)
	if len(full) != 64 {
		t.Fatalf("full digest length = %d, want 64", len(full))
	}
	if full != strings.ToLower(full) {
		t.Errorf("digest not lowercase: %q", full)
	}
	if short := Hash("graph LR", 8); !strings.HasPrefix(full, short) {
		t.Errorf("Hash(8) = %q is not a prefix of Hash(64) = %q", short, full)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got := Normalize("  a\r\nb\rc\n  ")
	want := "a\nb\nc"
	if got != want {
		t.Errorf("Normalize = %q, want %q", got, want)
	}
}

func TestHashDefault(t *testing.T) {
	t.Parallel()

	if got := HashDefault("x"); got != Hash("x", DefaultLength) {
		t.Errorf("HashDefault mismatch: %q", got)
	}
}
