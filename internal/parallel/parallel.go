// Package parallel provides chunked parallel execution for compute kernels.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinChunkSize {
		// Sequential fallback.
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ForRows is tuned for row-major matrix kernels: each worker gets a
// contiguous block of rows so writes stay cache-local. minRows lets the
// caller override the chunk floor when a single row is already heavy
// (e.g. a long dot product per row).
func ForRows(rows, minRows int, f func(row int), cfg Config) {
	c := cfg
	if minRows > 0 {
		c.MinChunkSize = minRows
	}
	For(rows, f, c)
}

// ForBatch iterates a batch*inner pattern, common for batched matrix
// kernels where each batch element is an independent matrix.
func ForBatch(batch, inner int, f func(b, i int), cfg Config) {
	n := batch * inner
	For(n, func(k int) {
		f(k/inner, k%inner)
	}, cfg)
}
