// Command vsibatch is the CLI entrypoint for the slide-image batch
// converter.
//
// It parses configuration (defaults, optional vsibatch.yaml / VSIBATCH_*
// environment, CLI flags), validates it, and either runs system
// diagnostics (--check) or converts every matching file in the source
// directory. The destination directory is created if missing; existing
// outputs with the same name are overwritten.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/slidewerk/vsibatch/internal/batch"
	"github.com/slidewerk/vsibatch/internal/check"
	"github.com/slidewerk/vsibatch/internal/codec"
	"github.com/slidewerk/vsibatch/internal/config"
	"github.com/slidewerk/vsibatch/internal/display"
	"github.com/slidewerk/vsibatch/internal/logging"
)

// version and commit are injected at build time via -ldflags.
// When built with plain "go build" these retain their defaults.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap — the logger doesn't exist yet, so errors go
	// directly to stderr via fmt. Once NewLogger succeeds, all output
	// goes through the logger for consistent formatting and log-file
	// capture.
	cfg := config.DefaultConfig()
	if err := config.LoadEnvironment(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vsibatch: %v\n", err)
		return 1
	}
	if err := config.ParseFlags(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "vsibatch: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "vsibatch: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "vsibatch: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available — all output goes through log from here.
	display.PrintBanner()

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return 0
	}

	// The source directory must exist up front; discovery reports the
	// precise error, but a clear early message beats a wrapped one.
	if _, err := os.Stat(cfg.SourceDir); err != nil {
		log.Error("Source not found: %s", cfg.SourceDir)
		return 1
	}

	log.Info("=== vsibatch v%s (%s) ===", version, commit)
	log.Info("In:  %s (*%s)", cfg.SourceDir, cfg.InputExt)
	log.Info("Out: %s (*%s)", cfg.DestDir, cfg.OutputExt)
	if cfg.DryRun {
		log.Warn("DRY RUN — no files will be written")
	}
	log.Info("")

	// Fail fast if the converter tool or java is unavailable. Dry runs
	// never exec the tool, so they skip the preflight.
	if !cfg.DryRun {
		if err := check.CheckDeps(&cfg); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	// Phase 3: Signal handling — cancel the context on SIGINT/SIGTERM so
	// in-flight conversions stop and the remaining tasks are reported as
	// cancelled instead of silently dropped.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, stopping…")
		cancel()
	}()

	// Phase 4: Run the batch (discover → fan out → aggregate).
	var conv batch.Converter
	if cfg.DryRun {
		conv = codec.DryRun{}
	} else {
		conv = codec.NewBioFormats(&cfg)
	}

	coord := batch.NewCoordinator(&cfg, conv, &logNotifier{log: log, cfg: &cfg}, log)
	out, err := coord.Run(ctx)
	if err != nil {
		log.Error("%v", err)
		return 1
	}

	if out.Failed > 0 {
		return 1
	}
	return 0
}

// logNotifier renders batch notifications as log lines. It is the CLI's
// implementation of the coordinator's front-end boundary.
type logNotifier struct {
	log *logging.Logger
	cfg *config.Config
}

// FileCompleted logs one line per finished conversion, as soon as the
// result arrives.
func (n *logNotifier) FileCompleted(res batch.Result) {
	name := res.Task.Input.Name
	if res.OK() {
		if fi, err := os.Stat(res.Task.DestPath); err == nil {
			n.log.Success("Converted %s -> %s (%s)", name,
				filepath.Base(res.Task.DestPath), display.FormatBytes(fi.Size()))
		} else {
			n.log.Success("Converted %s -> %s", name, filepath.Base(res.Task.DestPath))
		}
		return
	}
	n.log.Error("Failed %s: %v", name, res.Err)
}

// BatchCompleted logs the final summary exactly once.
func (n *logNotifier) BatchCompleted(out batch.Outcome) {
	n.log.Info("==============================")
	if out.NothingToDo {
		n.log.Info("Nothing to do: no %s files found", n.cfg.InputExt)
		return
	}
	n.log.Info("Done: %d converted, %d failed (%s in %s)",
		out.Succeeded, out.Failed,
		display.FormatCount(out.Total, "file"),
		display.FormatDuration(out.Elapsed))
	for name, cause := range out.Causes {
		n.log.Warn("  %s: %v", name, cause)
	}
}
