package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"

	mdconvert "github.com/jmault/go-mdconvert"
)

// ErrNoInput is returned when neither files nor stdin provide markdown.
var ErrNoInput = errors.New("no input: pass markdown files or pipe to stdin")

// run converts every positional file, or stdin when none are given.
// Files run in parallel, bounded by the pool size; the config file wins
// over the flag layer, which wins over each document's front matter.
func run(ctx context.Context, files []string, flags *cliFlags, pool *mdconvert.ConverterPool, logger *log.Logger) error {
	layers, err := buildLayers(flags)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return convertStdin(ctx, flags, layers, pool, logger)
	}

	var wg sync.WaitGroup
	errs := make([]error, len(files))

	for i, file := range files {
		wg.Add(1)
		go func(i int, file string) {
			defer wg.Done()

			conv := pool.Acquire()
			defer pool.Release(conv)

			out, err := conv.Convert(ctx, mdconvert.Input{
				Path:   file,
				Format: flags.format,
				Layers: layers,
			})
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", file, err)
				return
			}
			logger.Info("created", "file", out.Filename)
		}(i, file)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// convertStdin reads markdown from standard input and streams the
// artifact to standard output unless a destination is set.
func convertStdin(ctx context.Context, flags *cliFlags, layers []mdconvert.ConfigLayer, pool *mdconvert.ConverterPool, logger *log.Logger) error {
	content, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}
	if len(content) == 0 {
		return ErrNoInput
	}

	conv := pool.Acquire()
	defer pool.Release(conv)

	out, err := conv.Convert(ctx, mdconvert.Input{
		Markdown: string(content),
		Format:   flags.format,
		Layers:   layers,
	})
	if err != nil {
		return err
	}
	if out.Filename != mdconvert.Stdout {
		logger.Info("created", "file", out.Filename)
	}
	return nil
}

// buildLayers assembles the caller configuration layers in ascending
// precedence: command-line flags first, config file last. A config file
// is requested by name, so its values outrank per-invocation flags.
func buildLayers(flags *cliFlags) ([]mdconvert.ConfigLayer, error) {
	var layers []mdconvert.ConfigLayer

	if len(flags.layer) > 0 {
		layers = append(layers, mdconvert.ConfigLayer(flags.layer))
	}

	if flags.configFile != "" {
		fileLayer, err := loadConfigFile(flags.configFile)
		if err != nil {
			return nil, err
		}
		layers = append(layers, mdconvert.ConfigLayer(fileLayer))
	}
	return layers, nil
}
