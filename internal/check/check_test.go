package check

import (
	"errors"
	"testing"

	"github.com/slidewerk/vsibatch/internal/config"
)

func TestCheckDeps_MissingTool(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ConvertTool = "definitely-not-a-real-binary-name"

	err := CheckDeps(&cfg)
	if !errors.Is(err, ErrConverterNotFound) {
		t.Errorf("err = %v, want ErrConverterNotFound", err)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single line", "Version: 8.0.1", "Version: 8.0.1"},
		{"multi line", "Version: 8.0.1\nBuild date: 2024\n", "Version: 8.0.1"},
		{"leading whitespace", "\n  openjdk version \"17\"\nmore", "openjdk version \"17\""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := firstLine(tt.in); got != tt.want {
				t.Errorf("firstLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
