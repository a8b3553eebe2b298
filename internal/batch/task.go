package batch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// InputFile identifies one discovered source file. Immutable once
// discovered.
type InputFile struct {
	Name       string // Base name including the input suffix.
	SourcePath string // Full path under the source directory.
}

// NewInputFile builds an InputFile for name inside dir.
func NewInputFile(dir, name string) InputFile {
	return InputFile{
		Name:       name,
		SourcePath: filepath.Join(dir, name),
	}
}

// Task is the unit of work: one input file and the destination path derived
// for it. Created once per discovered file and consumed exactly once by the
// executor; tasks are never retried automatically.
type Task struct {
	ID       uuid.UUID
	Input    InputFile
	DestPath string
}

// NewTask derives the destination path by swapping the source suffix for
// the output suffix under destDir, and assigns the task its identity.
// "slide 01.vsi" with ".tif" becomes "<destDir>/slide 01.tif". An existing
// file at that path will be overwritten by the codec.
func NewTask(in InputFile, destDir, srcExt, dstExt string) Task {
	base := strings.TrimSuffix(in.Name, srcExt)
	return Task{
		ID:       uuid.New(),
		Input:    in,
		DestPath: filepath.Join(destDir, base+dstExt),
	}
}

// Converter is the codec contract the core depends on but does not
// implement: decode sourcePath and write it to destPath within an advisory
// memory budget. Implementations must be callable from multiple tasks
// concurrently (the executor ceiling bounds how many) and must release any
// native resources before returning, even on failure. Any error is treated
// as a per-file failure, never a fatal one.
type Converter interface {
	Convert(ctx context.Context, sourcePath, destPath string, memoryGiB int) error
}

// Result is the tagged outcome of one task: success when Err is nil,
// failure with its cause otherwise. Produced exactly once per task.
type Result struct {
	Task Task
	Err  error
}

// OK reports whether the task succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Outcome is the immutable aggregate handed to the caller once every result
// is in.
type Outcome struct {
	Total       int
	Succeeded   int
	Failed      int
	NothingToDo bool             // True when discovery found no inputs.
	Causes      map[string]error // Failure cause keyed by input name.
	Elapsed     time.Duration
}

// Notifier is the boundary to the external collaborator (CLI, GUI, or
// service). FileCompleted streams as each result arrives, in completion
// order; BatchCompleted fires exactly once at the end regardless of the
// success/failure mix.
type Notifier interface {
	FileCompleted(res Result)
	BatchCompleted(out Outcome)
}

type nopNotifier struct{}

func (nopNotifier) FileCompleted(Result)   {}
func (nopNotifier) BatchCompleted(Outcome) {}
