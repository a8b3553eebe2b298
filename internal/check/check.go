// Package check provides system diagnostics (--check mode) and pre-batch
// dependency validation (CheckDeps) for the Bio-Formats converter and its
// Java runtime.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/slidewerk/vsibatch/internal/config"
)

// Sentinel errors returned by CheckDeps when a required tool is missing.
var (
	ErrConverterNotFound = errors.New("converter tool not found on PATH")
	ErrJavaNotFound      = errors.New("java runtime not found on PATH (required by bfconvert)")
)

// perSlideEstimateGiB is a conservative peak footprint for one decoded
// whole-slide image, used only to warn about budget overcommit.
const perSlideEstimateGiB = 12

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow: prints availability and
// versions of the converter tool and java, then the configured budget and
// ceiling with an overcommit warning. Informational only; it does not stop
// on failure.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkConverter(cfg, log)
	checkJava(log)
	checkBudget(cfg, log)
}

// checkConverter verifies the converter binary is on PATH and logs its
// version string.
func checkConverter(cfg *config.Config, log Logger) {
	if _, err := exec.LookPath(cfg.ConvertTool); err != nil {
		log.Error("%s not found", cfg.ConvertTool)
		return
	}
	out, err := exec.Command(cfg.ConvertTool, "-version").Output()
	if err != nil {
		log.Warn("%s found but -version failed: %v", cfg.ConvertTool, err)
		return
	}
	log.Success("%s: %s", cfg.ConvertTool, firstLine(string(out)))
}

// checkJava verifies a Java runtime is available; bfconvert is a launcher
// script around one.
func checkJava(log Logger) {
	if _, err := exec.LookPath("java"); err != nil {
		log.Error("java not found")
		return
	}
	// java prints its version banner on stderr.
	out, err := exec.Command("java", "-version").CombinedOutput()
	if err != nil {
		log.Warn("java found but -version failed: %v", err)
		return
	}
	log.Success("java: %s", firstLine(string(out)))
}

// checkBudget prints the configured ceiling and budget and warns when the
// ceiling times a conservative per-slide estimate exceeds the budget. The
// budget is advisory; this is the only place vsibatch reasons about it.
func checkBudget(cfg *config.Config, log Logger) {
	log.Info("Memory budget: %d GiB (advisory, passed to the codec)", cfg.MemoryGiB)
	log.Info("Concurrency ceiling: %d", cfg.Concurrency)

	estimate := cfg.Concurrency * perSlideEstimateGiB
	if estimate > cfg.MemoryGiB {
		log.Warn("%d workers x ~%d GiB per slide (%d GiB) may exceed the %d GiB budget",
			cfg.Concurrency, perSlideEstimateGiB, estimate, cfg.MemoryGiB)
		log.Warn("Lower --jobs or raise --memory for very large slides")
	} else {
		log.Success("Ceiling fits the budget (assuming ~%d GiB per slide)", perSlideEstimateGiB)
	}
}

// CheckDeps is the pre-batch validation: the converter tool and java must
// both be on PATH. Returns a sentinel error on failure. Skipped for dry
// runs, which never exec the tool.
func CheckDeps(cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.ConvertTool); err != nil {
		return fmt.Errorf("%w (looked for %q)", ErrConverterNotFound, cfg.ConvertTool)
	}
	if _, err := exec.LookPath("java"); err != nil {
		return ErrJavaNotFound
	}
	return nil
}

// firstLine trims output to its first non-empty line.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "\n"); idx > 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
