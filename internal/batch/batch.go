// Package batch fans a directory of source files out to concurrent per-file
// task solving with a bounded in-flight limit, isolating per-file failures
// and aggregating results in discovery order.
package batch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"licenseflow/internal/license"
	"licenseflow/internal/solve"
)

// FileSolver is the per-file workflow. Implementations must capture their
// own failures into the returned TaskResult.
type FileSolver interface {
	Solve(ctx context.Context, file solve.SourceFile) solve.TaskResult
}

// Orchestrator runs a FileSolver across a discovered batch. At most
// maxInFlight files are processed simultaneously; the bound covers both the
// provider call and the CPU-bound parsing each workflow performs.
type Orchestrator struct {
	solver      FileSolver
	maxInFlight int
}

func New(solver FileSolver, maxInFlight int) *Orchestrator {
	if maxInFlight <= 0 {
		maxInFlight = 1
	}
	return &Orchestrator{solver: solver, maxInFlight: maxInFlight}
}

// Run discovers candidate files under inputDir and solves them. The result
// slice always has one entry per discovered file, in discovery order,
// regardless of completion order.
//
// A failed discovery is fatal and returns a *DiscoveryError. Per-file
// failures never abort the batch. If ctx is canceled mid-run, completed
// results are retained, unprocessed slots are marked canceled, and the
// context error is returned alongside the partial results.
func (o *Orchestrator) Run(ctx context.Context, inputDir string) ([]solve.TaskResult, error) {
	files, err := discover(inputDir)
	if err != nil {
		return nil, err
	}
	return o.solveAll(ctx, files), ctx.Err()
}

// solveAll launches one goroutine per file under the semaphore bound.
// Each workflow owns its SourceFile and writes only its own slot of the
// result slice, so no locking is needed beyond the limiter itself.
func (o *Orchestrator) solveAll(ctx context.Context, files []solve.SourceFile) []solve.TaskResult {
	results := make([]solve.TaskResult, len(files))
	sem := semaphore.NewWeighted(int64(o.maxInFlight))
	var wg sync.WaitGroup

	for i, f := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Batch canceled: everything not yet launched is marked, in order.
			for j := i; j < len(files); j++ {
				results[j] = canceledResult(files[j], err)
			}
			break
		}
		wg.Add(1)
		go func(idx int, file solve.SourceFile) {
			defer wg.Done()
			defer sem.Release(1)
			results[idx] = o.solveOne(ctx, file)
		}(i, f)
	}

	wg.Wait()
	return results
}

// solveOne isolates a single file: a panic inside the solver becomes an
// error result instead of taking down the batch.
func (o *Orchestrator) solveOne(ctx context.Context, file solve.SourceFile) (res solve.TaskResult) {
	defer func() {
		if r := recover(); r != nil {
			res = solve.TaskResult{
				Path:        file.Path,
				LicenseKind: license.Unknown,
				Action:      solve.ActionNone,
				Err:         &solve.TaskError{Kind: solve.KindInternal, Err: fmt.Errorf("panic: %v", r)},
			}
		}
	}()
	return o.solver.Solve(ctx, file)
}

func canceledResult(file solve.SourceFile, err error) solve.TaskResult {
	return solve.TaskResult{
		Path:        file.Path,
		LicenseKind: license.Unknown,
		Action:      solve.ActionNone,
		Err:         &solve.TaskError{Kind: solve.KindCanceled, Err: err},
	}
}
