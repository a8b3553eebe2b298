package codec

import (
	"errors"
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		stderr string
		want   Kind
	}{
		{
			"jvm heap exhausted",
			"Exception in thread \"main\" java.lang.OutOfMemoryError: Java heap space",
			KindOutOfMemory,
		},
		{
			"gc overhead",
			"java.lang.OutOfMemoryError: GC overhead limit exceeded",
			KindOutOfMemory,
		},
		{
			"unknown format",
			"loci.formats.UnknownFormatException: Unknown file format: /data/x.vsi",
			KindUnsupported,
		},
		{
			"unsupported compression",
			"loci.formats.UnsupportedCompressionException: cannot decode JPEG-XR",
			KindUnsupported,
		},
		{
			"truncated file",
			"java.io.IOException: truncated TIFF directory at offset 4096",
			KindCorrupt,
		},
		{
			"premature eof",
			"Caused by: java.io.EOFException: premature EOF while reading plane",
			KindCorrupt,
		},
		{
			"plain write failure",
			"java.io.FileNotFoundException: /out/x.tif (Permission denied)",
			KindIO,
		},
		{
			"empty stderr",
			"",
			KindIO,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.stderr); got != tt.want {
				t.Errorf("Classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestError_MessageAndUnwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &Error{
		Kind:   KindOutOfMemory,
		Path:   "/data/slide.vsi",
		Detail: "java.lang.OutOfMemoryError: Java heap space",
		Err:    cause,
	}

	msg := err.Error()
	if !strings.Contains(msg, "out-of-memory") || !strings.Contains(msg, "slide.vsi") {
		t.Errorf("message %q missing kind or path", msg)
	}
	if !errors.Is(err, cause) {
		t.Error("Unwrap should expose the exec error")
	}
}

func TestStderrTail(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"empty", "", 3, ""},
		{"short", "one line", 3, "one line"},
		{"trims whitespace", "  padded  \n", 3, "padded"},
		{"keeps last lines", "a\nb\nc\nd\ne", 2, "d\ne"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stderrTail(tt.in, tt.n); got != tt.want {
				t.Errorf("stderrTail(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
