package batch

import (
	"context"
	"fmt"
	"sync"
)

// Runner executes one task and returns its result. The executor wraps every
// call with panic recovery, so a runner that blows up still yields a
// failure result for its task.
type Runner func(ctx context.Context, t Task) Result

// Executor runs tasks with a fixed concurrency ceiling. At most `workers`
// tasks are in flight at any instant; every submitted task yields exactly
// one result. Completion order is unordered by design: heterogeneous slide
// sizes mean strict ordering would leave workers idle.
type Executor struct {
	workers int
}

// NewExecutor returns an executor with the given ceiling, clamped to at
// least one worker.
func NewExecutor(workers int) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{workers: workers}
}

// Run fans tasks out to the worker pool and returns the result stream. The
// channel is closed after the last result; submission and consumption
// proceed concurrently, so a slow consumer never stalls the workers and a
// full batch never stalls submission.
//
// Cancelling ctx does not drop tasks: work not yet started is failed with
// the context error so the one-result-per-task guarantee holds.
func (e *Executor) Run(ctx context.Context, tasks []Task, run Runner) <-chan Result {
	in := make(chan Task)
	out := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range in {
				out <- e.execute(ctx, run, t)
			}
		}()
	}

	go func() {
		for _, t := range tasks {
			in <- t
		}
		close(in)
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

// execute runs one task behind the isolation boundary: a cancelled context
// short-circuits to a failure, and a panic in the runner is converted to a
// failure instead of taking down sibling tasks. By the time the result is
// emitted the runner has returned, so whatever buffer the codec held for
// this task is released before the worker slot is reused.
func (e *Executor) execute(ctx context.Context, run Runner, t Task) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Task: t, Err: fmt.Errorf("task panicked: %v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return Result{Task: t, Err: err}
	}
	return run(ctx, t)
}
