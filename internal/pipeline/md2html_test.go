package pipeline

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestGoldmarkConverter_ToHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		opts         MarkdownOptions
		input        string
		wantContains []string
		wantNot      []string
	}{
		{
			name:  "basic heading",
			input: "# Hello World",
			wantContains: []string{
				"<!DOCTYPE html>",
				"<h1",
				"Hello World",
				"</h1>",
			},
		},
		{
			name:  "headings carry auto IDs",
			input: "# First\n## Second",
			wantContains: []string{
				"<h1",
				"<h2",
				`id="`,
			},
		},
		{
			name:  "GFM table",
			input: "| A | B |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{
				"<table>",
				"<thead>",
				"<tbody>",
			},
		},
		{
			name:  "GFM strikethrough",
			input: "~~deleted~~",
			wantContains: []string{
				"<del>",
				"deleted",
			},
		},
		{
			name:  "footnote",
			input: "Text[^1]\n\n[^1]: Footnote content",
			wantContains: []string{
				"<sup",
				"footnote",
			},
		},
		{
			name:  "code block highlighted by language tag",
			input: "```go\nfunc main() {}\n```",
			wantContains: []string{
				"<pre",
				"func",
			},
		},
		{
			name:  "hard wraps off by default",
			input: "Line one\nLine two",
			wantNot: []string{
				"<br",
			},
		},
		{
			name:  "hard wraps when breaks enabled",
			opts:  MarkdownOptions{Breaks: true},
			input: "Line one\nLine two",
			wantContains: []string{
				"<br",
			},
		},
		{
			name:  "raw HTML passes through when unsafe",
			opts:  MarkdownOptions{Unsafe: true},
			input: "before\n\n<div class=\"mermaid-diagram\"><img src=\"data:image/png;base64,QQ==\" /></div>\n\nafter",
			wantContains: []string{
				`<div class="mermaid-diagram">`,
				"data:image/png;base64,QQ==",
			},
		},
		{
			name:  "raw HTML escaped when safe",
			input: "<script>alert(1)</script>",
			wantNot: []string{
				"<script>alert(1)</script>",
			},
		},
		{
			name:  "typographer converts quotes",
			opts:  MarkdownOptions{Typographer: true},
			input: `"quoted"`,
			wantContains: []string{
				"&ldquo;",
			},
		},
		{
			name:  "custom title",
			opts:  MarkdownOptions{Title: "My Report"},
			input: "text",
			wantContains: []string{
				"<title>My Report</title>",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := NewGoldmarkConverter(tt.opts)
			got, err := conv.ToHTML(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("ToHTML error = %v", err)
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q\noutput: %s", want, got)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(got, not) {
					t.Errorf("output should not contain %q", not)
				}
			}
		})
	}
}

func TestGoldmarkConverter_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := NewGoldmarkConverter(MarkdownOptions{})
	if _, err := conv.ToHTML(ctx, "# Doc"); err == nil {
		t.Error("ToHTML with canceled context should fail")
	}
}

func TestGoldmarkConverter_ContextTimeout(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	conv := NewGoldmarkConverter(MarkdownOptions{})
	if _, err := conv.ToHTML(ctx, "# Doc"); err == nil {
		t.Error("ToHTML past deadline should fail")
	}
}
