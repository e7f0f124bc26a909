package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"go.uber.org/automaxprocs/maxprocs"

	mdconvert "github.com/jmault/go-mdconvert"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	flags, files, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(ExitUsage)
	}

	if flags.version {
		fmt.Printf("mdconvert %s\n", Version)
		os.Exit(ExitSuccess)
	}

	logger := newLogger(flags)

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	poolSize := mdconvert.ResolvePoolSize(flags.workers)
	logger.Debug("worker pool ready", "size", poolSize)

	pool := mdconvert.NewConverterPool(poolSize,
		mdconvert.WithTimeout(flags.timeout),
		mdconvert.WithLogger(logger),
	)
	defer pool.Close()

	if err := run(ctx, files, flags, pool, logger); err != nil {
		fmt.Fprintf(os.Stderr, "%v%s\n", err, hintFor(err))
		os.Exit(exitCodeFor(err))
	}
}

// newLogger builds the stderr logger honoring --quiet and --verbose.
func newLogger(flags *cliFlags) *log.Logger {
	logger := log.New(os.Stderr)
	switch {
	case flags.quiet:
		logger.SetLevel(log.ErrorLevel)
	case flags.verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
