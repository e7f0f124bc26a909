package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestBuildLayers_ConfigFileOutranksFlags(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "conf.yaml")
	if err := os.WriteFile(path, []byte("highlight_style: from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	flags, _, err := parseFlags([]string{"mdconvert", "--config-file", path, "--highlight-style", "from-flag"})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}

	layers, err := buildLayers(flags)
	if err != nil {
		t.Fatalf("buildLayers error: %v", err)
	}
	if len(layers) != 2 {
		t.Fatalf("got %d layers, want 2", len(layers))
	}

	// Later layers win, so the config file must come after the flags.
	if got := layers[0]["highlight_style"]; got != "from-flag" {
		t.Errorf("first layer highlight_style = %v, want from-flag", got)
	}
	if got := layers[1]["highlight_style"]; got != "from-file" {
		t.Errorf("last layer highlight_style = %v, want from-file", got)
	}
}

func TestBuildLayers_FlagsOnly(t *testing.T) {
	t.Parallel()

	flags, _, err := parseFlags([]string{"mdconvert", "--page-media-type", "print"})
	if err != nil {
		t.Fatalf("parseFlags error: %v", err)
	}

	layers, err := buildLayers(flags)
	if err != nil {
		t.Fatalf("buildLayers error: %v", err)
	}
	if len(layers) != 1 {
		t.Fatalf("got %d layers, want 1", len(layers))
	}
	if got := layers[0]["page_media_type"]; got != "print" {
		t.Errorf("page_media_type = %v, want print", got)
	}
}
