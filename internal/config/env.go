package config

// This file implements the optional config-file and environment layer via
// Viper. It sits between compiled defaults and CLI flags: values loaded
// here become the defaults the flag definitions start from, so a flag the
// user did not pass leaves the file/env value in place.

import (
	"github.com/spf13/viper"
)

// LoadEnvironment overlays cfg with values from an optional vsibatch.yaml
// and from VSIBATCH_* environment variables (e.g. VSIBATCH_CONCURRENCY=4).
// Search paths: the given dirs, or the working directory plus
// ~/.config/vsibatch when none are supplied. A missing config file is not
// an error; any other read failure is.
func LoadEnvironment(cfg *Config, dirs ...string) error {
	v := viper.New()

	// Defaults come from the current cfg so unset keys keep their values.
	v.SetDefault("memory_gib", cfg.MemoryGiB)
	v.SetDefault("concurrency", cfg.Concurrency)
	v.SetDefault("input_ext", cfg.InputExt)
	v.SetDefault("output_ext", cfg.OutputExt)
	v.SetDefault("convert_tool", cfg.ConvertTool)
	v.SetDefault("verbose", cfg.Verbose)
	v.SetDefault("color", string(cfg.ColorMode))
	v.SetDefault("log_file", cfg.LogFile)

	v.SetConfigName("vsibatch")
	v.SetConfigType("yaml")
	if len(dirs) == 0 {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/vsibatch")
	}
	for _, d := range dirs {
		v.AddConfigPath(d)
	}

	v.SetEnvPrefix("VSIBATCH")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		// No config file; defaults and env vars still apply.
	}

	if err := v.Unmarshal(cfg); err != nil {
		return err
	}
	// ColorMode round-trips through its string form.
	cfg.ColorMode = ColorMode(v.GetString("color"))
	return nil
}
