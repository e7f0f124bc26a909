package mdconvert

import (
	"errors"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize keeps at least one converter available.
	MinPoolSize = 1

	// MaxPoolSize bounds the number of browser instances; each one is
	// a full Chrome process.
	MaxPoolSize = 8

	// cpuDivisor reserves CPUs for the browsers' own child processes.
	cpuDivisor = 2
)

// ConverterPool hands out Converter instances for parallel batch
// conversion. Each converter owns its own browser engine, so documents
// convert truly in parallel. Instances are created on first acquire,
// not up front, since a batch may never need the full capacity.
type ConverterPool struct {
	size       int
	opts       []Option
	converters []*Converter
	sem        chan *Converter
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewConverterPool creates a pool holding up to n converters, each
// built with the given options when first acquired.
func NewConverterPool(n int, opts ...Option) *ConverterPool {
	if n < 1 {
		n = 1
	}

	return &ConverterPool{
		size:       n,
		opts:       opts,
		converters: make([]*Converter, 0, n),
		sem:        make(chan *Converter, n),
	}
}

// Acquire returns a converter, creating one while the pool is below
// capacity and otherwise blocking until a Release. After Close it
// returns nil.
func (p *ConverterPool) Acquire() *Converter {
	select {
	case conv := <-p.sem:
		return conv
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Converter construction may launch a browser; keep it outside
		// the lock.
		conv := NewConverter(p.opts...)

		p.mu.Lock()
		p.converters = append(p.converters, conv)
		p.mu.Unlock()

		return conv
	}
	p.mu.Unlock()

	return <-p.sem
}

// Release returns a converter to the pool. After Close it is a no-op.
// The send happens under the lock so Close cannot interleave between
// the closed check and the send; it cannot block, because the channel
// has room for every converter the pool ever created.
func (p *ConverterPool) Release(conv *Converter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- conv
}

// Close shuts down every converter created so far and marks the pool
// closed. The semaphore channel is never closed: a racing Release
// checks the flag under the same lock and backs off, so there is no
// send on a closed channel. Safe to call more than once.
func (p *ConverterPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	converters := p.converters
	p.mu.Unlock()

	var errs []error
	for _, conv := range converters {
		if err := conv.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *ConverterPool) Size() int {
	return p.size
}

// ResolvePoolSize picks a pool size: an explicit positive workers count
// is taken as-is, otherwise half of GOMAXPROCS (which automaxprocs has
// already fitted to any container CPU quota), clamped to
// [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	n := runtime.GOMAXPROCS(0) / cpuDivisor
	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
