package config

// This file implements CLI flag parsing and help text.
// Flag defaults come from the Config passed in, so values loaded from the
// file/env layer hold unless the user passes the flag explicitly.

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

// version is shown in --version and help; override at build time with
// -ldflags "-X .../internal/config.version=...".
var version = "1.0.0-dev"

// ParseFlags parses os.Args into cfg. On --help or --version it prints and
// exits. On error it returns non-nil (e.g. unknown flag, missing positional
// args).
func ParseFlags(cfg *Config) error {
	fs := flag.NewFlagSet("vsibatch", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	var override overrideFlags

	fs.IntVar(&cfg.MemoryGiB, "memory", cfg.MemoryGiB, "Memory budget in GiB passed to the codec")
	fs.IntVar(&cfg.MemoryGiB, "g", cfg.MemoryGiB, "Same as --memory")
	fs.IntVar(&cfg.Concurrency, "jobs", cfg.Concurrency, "Max conversions running at once")
	fs.IntVar(&cfg.Concurrency, "j", cfg.Concurrency, "Same as --jobs")
	fs.StringVar(&cfg.InputExt, "input-ext", cfg.InputExt, "Source file suffix to convert")
	fs.StringVar(&cfg.OutputExt, "output-ext", cfg.OutputExt, "Suffix for written output files")
	fs.StringVar(&cfg.ConvertTool, "tool", cfg.ConvertTool, "Converter binary to execute")

	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not convert")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")

	fs.BoolVar(&override.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&override.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output (codec stderr, per-task IDs)")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run system diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")

	fs.BoolVar(&override.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&override.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&override.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&override.showHelp, "h", false, "Same as --help")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	if override.showHelp {
		printUsage(fs)
		os.Exit(0)
	}
	if override.showVersion {
		fmt.Fprintln(os.Stdout, "vsibatch v"+version)
		os.Exit(0)
	}
	if override.noColor {
		cfg.ColorMode = ColorNever
	} else if override.forceColor {
		cfg.ColorMode = ColorAlways
	}

	return parsePositionalArgs(fs, cfg)
}

// overrideFlags holds booleans that are applied after Parse: color overrides
// and the two exit-after-printing flags.
type overrideFlags struct {
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// parsePositionalArgs sets SourceDir and DestDir from the two positional
// args when not in CheckOnly mode.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly source_dir and dest_dir")
	}
	cfg.SourceDir = NormalizeDirArg(args[0])
	cfg.DestDir = NormalizeDirArg(args[1])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage(fs *flag.FlagSet) {
	const col1 = 26 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "vsibatch v" + version + " — batch slide-image converter (Bio-Formats)"},
		{"", ""},
		{"  vsibatch [OPTIONS] <source_dir> <dest_dir>", ""},
		{"", ""},
		{"Conversion", ""},
		{"  -g, --memory <GiB>", "Memory budget for the codec (default: 28)"},
		{"  -j, --jobs <n>", "Max conversions running at once (default: 2)"},
		{"  --input-ext <.ext>", "Source suffix to convert (default: .vsi)"},
		{"  --output-ext <.ext>", "Output suffix to write (default: .tif)"},
		{"  --tool <name>", "Converter binary (default: bfconvert)"},
		{"", ""},
		{"Behavior", ""},
		{"  -d, --dry-run", "Preview only; do not convert"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (bfconvert, java)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
		{"", ""},
		{"", "Existing outputs with the same name are overwritten."},
		{"", "Keep jobs × peak slide memory under the budget; vsibatch"},
		{"", "does not compute a safe ceiling on its own."},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%s%s\n", l.flags, strings.Repeat(" ", padding), l.desc)
	}
}
