package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/slidewerk/vsibatch/internal/config"
)

// State is the coordinator's position in its lifecycle. A coordinator moves
// strictly forward; no state is re-entrant.
type State string

const (
	StateIdle        State = "idle"
	StateValidating  State = "validating"
	StateDiscovering State = "discovering"
	StateRunning     State = "running"
	StateAggregating State = "aggregating"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Logger is the minimal logging interface the coordinator needs. Defined
// here (rather than importing the logging package) so the core stays
// testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})        {}
func (nopLogger) Success(string, ...interface{})     {}
func (nopLogger) Warn(string, ...interface{})        {}
func (nopLogger) Error(string, ...interface{})       {}
func (nopLogger) Debug(bool, string, ...interface{}) {}

// DiscoverFunc lists the input files for one batch. Swappable in tests to
// verify that invalid configuration triggers zero filesystem access.
type DiscoverFunc func(dir, ext string) ([]InputFile, error)

// Coordinator drives exactly one batch: validate → discover → run →
// aggregate → done. It is single-use; create a new one per batch.
type Coordinator struct {
	cfg      *config.Config
	conv     Converter
	notify   Notifier
	log      Logger
	discover DiscoverFunc
	state    State
}

// NewCoordinator wires a coordinator for one batch. notify and log may be
// nil; no-op implementations are substituted.
func NewCoordinator(cfg *config.Config, conv Converter, notify Notifier, log Logger) *Coordinator {
	if notify == nil {
		notify = nopNotifier{}
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Coordinator{
		cfg:      cfg,
		conv:     conv,
		notify:   notify,
		log:      log,
		discover: Discover,
		state:    StateIdle,
	}
}

// State returns the coordinator's current lifecycle state.
func (c *Coordinator) State() State { return c.state }

// Run processes the batch to completion and returns the aggregate outcome.
// Fatal errors (invalid config, unreadable source directory, reused
// coordinator) are returned directly and mean no conversion was attempted.
// Per-file codec failures never surface here; they are folded into the
// outcome.
func (c *Coordinator) Run(ctx context.Context) (Outcome, error) {
	if c.state != StateIdle {
		return Outcome{}, errors.New("coordinator already consumed; create a new one per batch")
	}

	// Validating: config invariants only. No I/O and no task submission
	// may happen before this passes.
	c.state = StateValidating
	if err := c.cfg.Validate(); err != nil {
		c.state = StateFailed
		return Outcome{}, err
	}

	c.state = StateDiscovering
	files, err := c.discover(c.cfg.SourceDir, c.cfg.InputExt)
	if err != nil {
		c.state = StateFailed
		return Outcome{}, err
	}
	if len(files) == 0 {
		// Informational, not a failure: a clean run over nothing.
		c.state = StateDone
		c.log.Warn("No %s files found in %s", c.cfg.InputExt, c.cfg.SourceDir)
		out := Outcome{NothingToDo: true, Causes: map[string]error{}}
		c.notify.BatchCompleted(out)
		return out, nil
	}

	// The destination directory is created on demand; see the command doc
	// for the overwrite and auto-create behavior.
	if err := os.MkdirAll(c.cfg.DestDir, 0o755); err != nil {
		c.state = StateFailed
		return Outcome{}, err
	}

	c.state = StateRunning
	c.log.Info("Found %d files", len(files))
	c.log.Info("Workers: %d, memory budget: %d GiB (advisory)", c.cfg.Concurrency, c.cfg.MemoryGiB)

	tasks := make([]Task, 0, len(files))
	for _, f := range files {
		tasks = append(tasks, NewTask(f, c.cfg.DestDir, c.cfg.InputExt, c.cfg.OutputExt))
	}

	start := time.Now()
	exec := NewExecutor(c.cfg.Concurrency)
	results := exec.Run(ctx, tasks, c.runTask)

	out := Outcome{
		Total:  len(tasks),
		Causes: map[string]error{},
	}
	for res := range results {
		c.notify.FileCompleted(res)
		if res.OK() {
			out.Succeeded++
		} else {
			out.Failed++
			out.Causes[res.Task.Input.Name] = res.Err
		}
	}

	c.state = StateAggregating
	out.Elapsed = time.Since(start)

	c.state = StateDone
	c.notify.BatchCompleted(out)
	return out, nil
}

// runTask converts one file through the codec. Every error comes back as a
// failure result for this task alone.
func (c *Coordinator) runTask(ctx context.Context, t Task) Result {
	c.log.Debug(c.cfg.Verbose, "[%s] converting %s -> %s",
		t.ID, t.Input.Name, filepath.Base(t.DestPath))

	err := c.conv.Convert(ctx, t.Input.SourcePath, t.DestPath, c.cfg.MemoryGiB)
	return Result{Task: t, Err: err}
}
