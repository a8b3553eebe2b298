// Package codec invokes the external Bio-Formats converter (bfconvert) to
// decode proprietary slide images and write them in the target format. The
// batch core only depends on the Convert contract; everything
// format-specific lives behind it.
package codec

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/slidewerk/vsibatch/internal/config"
)

// BioFormats converts one file per call by exec'ing bfconvert. Each call
// runs its own JVM process, so all native decode buffers are released when
// the process exits, on success and on failure alike. Safe for concurrent
// use; the batch executor's ceiling bounds how many run at once.
type BioFormats struct {
	Tool    string // Binary name or path; default "bfconvert".
	Verbose bool   // Tee tool stderr to the terminal in real time.
}

// NewBioFormats builds a converter from cfg.
func NewBioFormats(cfg *config.Config) *BioFormats {
	return &BioFormats{
		Tool:    cfg.ConvertTool,
		Verbose: cfg.Verbose,
	}
}

// Convert runs the tool on one source file. memoryGiB is advisory: it is
// exported as BF_MAX_MEM (the JVM -Xmx knob the bftools launcher honors)
// and nothing here depends on the tool enforcing it. An existing
// destination file is overwritten. Failures are returned as a classified
// [*Error]; the caller records them and moves on.
func (b *BioFormats) Convert(ctx context.Context, sourcePath, destPath string, memoryGiB int) error {
	args := []string{"-overwrite", "-no-upgrade", sourcePath, destPath}

	cmd := exec.CommandContext(ctx, b.Tool, args...)
	cmd.Env = append(os.Environ(), fmt.Sprintf("BF_MAX_MEM=%dg", memoryGiB))

	var stderrBuf bytes.Buffer
	if b.Verbose {
		cmd.Stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	} else {
		cmd.Stderr = &stderrBuf
	}

	if err := cmd.Run(); err != nil {
		stderr := stderrBuf.String()
		return &Error{
			Kind:   Classify(stderr),
			Path:   sourcePath,
			Detail: stderrTail(stderr, 5),
			Err:    err,
		}
	}
	return nil
}

// DryRun is the preview converter: it succeeds without touching the
// filesystem. Wired in place of [BioFormats] when --dry-run is set.
type DryRun struct{}

// Convert reports success without doing anything.
func (DryRun) Convert(ctx context.Context, sourcePath, destPath string, memoryGiB int) error {
	return nil
}
