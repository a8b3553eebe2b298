package codec

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind classifies a conversion failure from the tool's stderr output.
// Every kind is recovered at task granularity; none aborts the batch.
type Kind string

const (
	KindOutOfMemory Kind = "out-of-memory" // JVM heap exhausted inside the codec.
	KindUnsupported Kind = "unsupported"   // Format or series the codec cannot read.
	KindCorrupt     Kind = "corrupt"       // Truncated or damaged source file.
	KindIO          Kind = "io"            // Everything else: read/write/exec failures.
)

// Error is a classified per-file conversion failure. The last lines of the
// tool's stderr are retained for the per-file notification.
type Error struct {
	Kind   Kind
	Path   string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("codec %s: %s: %s", e.Kind, e.Path, e.Detail)
	}
	return fmt.Sprintf("codec %s: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Pre-compiled regexes for classifying Bio-Formats stderr output. Checked
// in order by [Classify]; the first match wins.
var (
	reOutOfMemory = regexp.MustCompile(
		`(?i)OutOfMemoryError|GC overhead limit exceeded|` +
			`Requested array size exceeds VM limit|native memory allocation`)

	reUnsupported = regexp.MustCompile(
		`(?i)UnknownFormatException|UnsupportedCompressionException|` +
			`no IFormatReader|is not a supported|unsupported series`)

	reCorrupt = regexp.MustCompile(
		`(?i)truncated|premature EOF|unexpected end of file|` +
			`corrupt|invalid (header|magic)`)
)

// Classify maps the tool's stderr onto a failure [Kind]. Unmatched output
// falls through to KindIO.
func Classify(stderr string) Kind {
	switch {
	case reOutOfMemory.MatchString(stderr):
		return KindOutOfMemory
	case reUnsupported.MatchString(stderr):
		return KindUnsupported
	case reCorrupt.MatchString(stderr):
		return KindCorrupt
	default:
		return KindIO
	}
}

// stderrTail returns the last n lines of stderr, trimmed, for error detail.
func stderrTail(stderr string, n int) string {
	s := strings.TrimSpace(stderr)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
