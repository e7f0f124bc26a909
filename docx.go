package mdconvert

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/jmault/go-mdconvert/internal/fileutil"
)

// docxConverter abstracts Word document generation to allow testing
// without a pandoc binary.
type docxConverter interface {
	FromMarkdown(ctx context.Context, markdown string) ([]byte, error)
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// pandocConverter produces docx files by invoking the pandoc CLI.
// Markdown is passed through a temp file; diagram images arrive as
// inline data URLs, which pandoc embeds into the document.
type pandocConverter struct {
	runner CommandRunner
}

func newPandocConverter() *pandocConverter {
	return &pandocConverter{runner: &ExecRunner{}}
}

// FromMarkdown converts markdown content to docx bytes.
// Uses GFM input so table, strikethrough, and task-list syntax survive.
func (c *pandocConverter) FromMarkdown(ctx context.Context, markdown string) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(markdown, "md")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	outPath := filepath.Join(filepath.Dir(tmpPath), filepath.Base(tmpPath)+".docx")
	defer func() { _ = os.Remove(outPath) }()

	_, stderr, err := c.runner.Run(ctx, "pandoc", tmpPath, "-f", "gfm", "-t", "docx", "-o", outPath)
	if err != nil {
		return nil, fmt.Errorf("%w: pandoc: %s: %v", ErrOutputGeneration, stderr, err)
	}

	content, err := os.ReadFile(outPath) // #nosec G304 -- path built from our own temp file
	if err != nil {
		return nil, fmt.Errorf("%w: reading pandoc output: %v", ErrOutputGeneration, err)
	}
	return content, nil
}
