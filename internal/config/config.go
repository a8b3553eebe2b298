// Package config holds runtime configuration: defaults, the optional
// config-file/environment layer, CLI flag parsing, and validation.
// Defaults match the legacy converter script (28 GiB budget, 2 workers).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid is wrapped by every configuration validation failure. The batch
// coordinator matches it to classify a failure as fatal-before-work.
var ErrInvalid = errors.New("invalid configuration")

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by [LoadEnvironment] (config file + VSIBATCH_* env),
// and finally mutated by [ParseFlags] before being passed (by pointer) to
// packages that need it.
//
// Sizing note: the concurrency ceiling is the only mechanism preventing
// memory overcommit. Keep Concurrency × the peak decoded-slide footprint
// under MemoryGiB; the tool trusts the supplied values and never computes
// a safe ceiling on its own.
type Config struct {
	// Paths (set from positional args; never read from file/env).
	SourceDir string `mapstructure:"-"`
	DestDir   string `mapstructure:"-"`

	// Conversion settings.
	MemoryGiB   int    `mapstructure:"memory_gib" validate:"gt=0"`  // Advisory JVM budget for the codec. Default: 28.
	Concurrency int    `mapstructure:"concurrency" validate:"gt=0"` // Max tasks in flight. Default: 2.
	InputExt    string `mapstructure:"input_ext"`                   // Accepted source suffix. Default: ".vsi".
	OutputExt   string `mapstructure:"output_ext"`                  // Written output suffix. Default: ".tif".
	ConvertTool string `mapstructure:"convert_tool"`                // Codec binary on PATH. Default: "bfconvert".

	// Behavior flags.
	DryRun bool `mapstructure:"-"`

	// Display and logging.
	Verbose   bool      `mapstructure:"verbose"`
	ColorMode ColorMode `mapstructure:"color"`
	LogFile   string    `mapstructure:"log_file"`
	CheckOnly bool      `mapstructure:"-"`
}

// validate checks the struct tags above; shared instance, goroutine-safe.
var validate = validator.New()

// DefaultConfig returns a Config with all defaults matching the legacy
// converter. Used as the base before the file/env layer and CLI overrides.
func DefaultConfig() Config {
	return Config{
		MemoryGiB:   28,
		Concurrency: 2,
		InputExt:    ".vsi",
		OutputExt:   ".tif",
		ConvertTool: "bfconvert",
		DryRun:      false,
		Verbose:     false,
		ColorMode:   ColorAuto,
		CheckOnly:   false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an
// empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks every invariant the batch relies on: positive memory
// budget and concurrency, dotted extensions, a known color mode, and (when
// not in CheckOnly mode) non-empty source and destination paths. All
// failures wrap [ErrInvalid]. No filesystem access happens here.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			switch f.StructField() {
			case "MemoryGiB":
				return fmt.Errorf("%w: memory budget must be a positive number of GiB (got %v)", ErrInvalid, f.Value())
			case "Concurrency":
				return fmt.Errorf("%w: concurrency must be a positive integer (got %v)", ErrInvalid, f.Value())
			}
		}
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if !strings.HasPrefix(c.InputExt, ".") || len(c.InputExt) < 2 {
		return fmt.Errorf("%w: input extension must start with a dot (got %q)", ErrInvalid, c.InputExt)
	}
	if !strings.HasPrefix(c.OutputExt, ".") || len(c.OutputExt) < 2 {
		return fmt.Errorf("%w: output extension must start with a dot (got %q)", ErrInvalid, c.OutputExt)
	}
	if c.InputExt == c.OutputExt {
		return fmt.Errorf("%w: input and output extensions must differ (both %q)", ErrInvalid, c.InputExt)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("%w: invalid color mode %q (use 'auto', 'always' or 'never')", ErrInvalid, c.ColorMode)
	}

	if c.CheckOnly {
		return nil
	}
	if c.SourceDir == "" || c.DestDir == "" {
		return fmt.Errorf("%w: need exactly source_dir and dest_dir", ErrInvalid)
	}
	return nil
}
