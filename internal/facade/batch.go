package facade

import (
	"context"

	"github.com/hkreduce/greduce/pkg/collections"
	"github.com/hkreduce/greduce/pkg/parallel"
)

// Job describes one independent reduction to run inside ReduceMany: its
// own size, row vectors (dense, one per node, in ascending row order),
// method, threshold, and sources. Each Job opens its own Facade/matrix,
// so the single-matrix-ownership rule is honored per job even though
// jobs run concurrently across the pool.
type Job struct {
	Name      string      `json:"name"`
	Size      int         `json:"size"`
	Rows      [][]float64 `json:"rows"`
	Method    Method      `json:"method"`
	Threshold float64     `json:"threshold"`
	Sources   []int       `json:"sources"`
}

// JobResult pairs a Job's Name with its outcome. Err is reported as a
// string for JSON export since error isn't itself marshalable.
type JobResult struct {
	Name   string  `json:"name"`
	Result *Result `json:"result,omitempty"`
	Err    error   `json:"-"`
	ErrMsg string  `json:"error,omitempty"`
}

// ReduceMany runs jobs concurrently across a pkg/parallel.WorkerPool
// bounded by config.MaxWorkers, grounded on teacher
// pkg/parallel/worker_pool.go. Each job builds, finalizes, and reduces
// its own Facade independently; a failing job's error is reported in its
// JobResult rather than aborting the batch.
func ReduceMany(ctx context.Context, jobs []Job, config parallel.PoolConfig) []JobResult {
	return ReduceManyWithProgress(ctx, jobs, config, nil)
}

// ReduceManyWithProgress is ReduceMany plus an onProgress callback invoked
// after each job completes, reporting how many of the batch's jobs have
// finished so far. Completion is tracked by a collections.AtomicBitset
// (C5's concurrent counterpart) set concurrently from whichever worker
// goroutine finishes a job; onProgress reads AtomicBitset.Count() under
// its own lock rather than racing a plain counter, which is the one
// property a per-job slice index write doesn't give a progress reporter
// watching from outside the pool. onProgress may be nil.
func ReduceManyWithProgress(ctx context.Context, jobs []Job, config parallel.PoolConfig, onProgress func(completed, total int)) []JobResult {
	done := collections.NewAtomicBitset(len(jobs))
	indexed := make([]indexedJob, len(jobs))
	for i, j := range jobs {
		indexed[i] = indexedJob{index: i, job: j}
	}

	pool := parallel.NewWorkerPool[indexedJob, *Result](config)
	raw := pool.ExecuteFunc(ctx, indexed, func(ctx context.Context, ij indexedJob) (*Result, error) {
		result, err := runJob(ctx, ij.job)
		done.Set(ij.index)
		if onProgress != nil {
			onProgress(done.Count(), len(jobs))
		}
		return result, err
	})

	results := make([]JobResult, len(raw))
	for i, r := range raw {
		jr := JobResult{Name: r.Input.job.Name, Result: r.Result, Err: r.Error}
		if r.Error != nil {
			jr.ErrMsg = r.Error.Error()
		}
		results[i] = jr
	}
	return results
}

// indexedJob threads a job's position in the original batch through the
// worker pool so its completion can be recorded in the shared
// AtomicBitset by index, independent of the order jobs finish in.
type indexedJob struct {
	index int
	job   Job
}

func runJob(ctx context.Context, job Job) (*Result, error) {
	f, err := NewFacade(job.Size)
	if err != nil {
		return nil, err
	}
	for rowIdx, row := range job.Rows {
		if err := f.Build(ctx, rowIdx, row); err != nil {
			return nil, err
		}
	}
	if err := f.Finalize(ctx); err != nil {
		return nil, err
	}
	return f.RunReducing(ctx, job.Method, job.Threshold, job.Sources)
}
