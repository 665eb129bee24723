package sim

import (
	"context"
	"sync"

	"github.com/fyerfyer/fault-sim/pkg/circuit"
	"github.com/fyerfyer/fault-sim/pkg/fault"
)

// RunVectors simulates vectors on up to workers goroutines. Each worker
// owns a Session, so the netlist and fault set are the only shared data.
// Results are returned in input order; per-vector failures are reported
// in Result.Err. Vectors not dispatched before ctx is done get ctx.Err().
func RunVectors(ctx context.Context, n *circuit.Netlist, fs *fault.Set, vectors []string, workers int, opts ...Option) []Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(vectors) {
		workers = len(vectors)
	}

	results := make([]Result, len(vectors))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := NewSession(n, fs, opts...)
			for i := range jobs {
				// Simulate records the error in the result as well.
				results[i], _ = s.Simulate(vectors[i])
			}
		}()
	}

	next := 0
dispatch:
	for ; next < len(vectors); next++ {
		select {
		case jobs <- next:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	for i := next; i < len(vectors); i++ {
		results[i] = Result{Vector: vectors[i], Faulted: fs != nil, Err: ctx.Err()}
	}
	return results
}
