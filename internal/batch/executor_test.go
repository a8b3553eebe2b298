package batch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"testing"
	"time"
)

// mkTasks builds n tasks named file000.vsi … without touching the
// filesystem; executor tests drive stub runners only.
func mkTasks(n int) []Task {
	tasks := make([]Task, 0, n)
	for i := 0; i < n; i++ {
		in := NewInputFile("/src", fmt.Sprintf("file%03d.vsi", i))
		tasks = append(tasks, NewTask(in, "/dst", ".vsi", ".tif"))
	}
	return tasks
}

func collect(ch <-chan Result) []Result {
	var out []Result
	for r := range ch {
		out = append(out, r)
	}
	return out
}

func TestRun_OneResultPerTask(t *testing.T) {
	tasks := mkTasks(50)
	exec := NewExecutor(4)

	results := collect(exec.Run(context.Background(), tasks, func(ctx context.Context, tk Task) Result {
		return Result{Task: tk}
	}))

	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d", len(results), len(tasks))
	}
	seen := map[string]bool{}
	for _, r := range results {
		if seen[r.Task.Input.Name] {
			t.Errorf("duplicate result for %s", r.Task.Input.Name)
		}
		seen[r.Task.Input.Name] = true
	}
}

func TestRun_FailureIsolation(t *testing.T) {
	tasks := mkTasks(10)
	bad := tasks[3].Input.Name
	wantErr := errors.New("decode blew up")

	exec := NewExecutor(3)
	results := collect(exec.Run(context.Background(), tasks, func(ctx context.Context, tk Task) Result {
		if tk.Input.Name == bad {
			return Result{Task: tk, Err: wantErr}
		}
		return Result{Task: tk}
	}))

	var failed, ok int
	for _, r := range results {
		if r.OK() {
			ok++
			continue
		}
		failed++
		if r.Task.Input.Name != bad {
			t.Errorf("unexpected failure for %s", r.Task.Input.Name)
		}
		if !errors.Is(r.Err, wantErr) {
			t.Errorf("failure cause = %v, want %v", r.Err, wantErr)
		}
	}
	if failed != 1 || ok != 9 {
		t.Errorf("failed=%d ok=%d, want 1/9", failed, ok)
	}
}

func TestRun_PanicConvertedToFailure(t *testing.T) {
	tasks := mkTasks(6)
	bad := tasks[2].Input.Name

	exec := NewExecutor(2)
	results := collect(exec.Run(context.Background(), tasks, func(ctx context.Context, tk Task) Result {
		if tk.Input.Name == bad {
			panic("runner exploded")
		}
		return Result{Task: tk}
	}))

	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d (panic must not drop tasks)", len(results), len(tasks))
	}
	var failure *Result
	for i := range results {
		if !results[i].OK() {
			failure = &results[i]
		}
	}
	if failure == nil {
		t.Fatal("expected exactly one failure from the panicking task")
	}
	if failure.Task.Input.Name != bad {
		t.Errorf("failure for %s, want %s", failure.Task.Input.Name, bad)
	}
}

func TestRun_ConcurrencyCeiling(t *testing.T) {
	for _, ceiling := range []int{1, 2, 4} {
		t.Run(fmt.Sprintf("ceiling=%d", ceiling), func(t *testing.T) {
			tasks := mkTasks(30)
			var inFlight, peak int64

			exec := NewExecutor(ceiling)
			results := collect(exec.Run(context.Background(), tasks, func(ctx context.Context, tk Task) Result {
				cur := atomic.AddInt64(&inFlight, 1)
				for {
					old := atomic.LoadInt64(&peak)
					if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
						break
					}
				}
				// Global rand is locked, so concurrent workers are fine.
				time.Sleep(time.Duration(1+rand.Intn(4)) * time.Millisecond)
				atomic.AddInt64(&inFlight, -1)
				return Result{Task: tk}
			}))

			if len(results) != len(tasks) {
				t.Fatalf("got %d results, want %d", len(results), len(tasks))
			}
			if got := atomic.LoadInt64(&peak); got > int64(ceiling) {
				t.Errorf("peak in-flight = %d, ceiling = %d", got, ceiling)
			}
			if ceiling == 1 && atomic.LoadInt64(&peak) != 1 {
				t.Errorf("ceiling 1 should serialize tasks, peak = %d", peak)
			}
		})
	}
}

func TestRun_CancelledContextFailsRemainingTasks(t *testing.T) {
	tasks := mkTasks(12)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancelled before any task starts

	exec := NewExecutor(3)
	results := collect(exec.Run(ctx, tasks, func(ctx context.Context, tk Task) Result {
		t.Error("runner must not be called after cancellation")
		return Result{Task: tk}
	}))

	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d (cancellation must not drop tasks)", len(results), len(tasks))
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("%s: err = %v, want context.Canceled", r.Task.Input.Name, r.Err)
		}
	}
}

func TestNewExecutor_ClampsToOne(t *testing.T) {
	exec := NewExecutor(0)
	results := collect(exec.Run(context.Background(), mkTasks(3), func(ctx context.Context, tk Task) Result {
		return Result{Task: tk}
	}))
	if len(results) != 3 {
		t.Errorf("got %d results, want 3", len(results))
	}
}
