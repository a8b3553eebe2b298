package display

import (
	"fmt"
	"os"

	"github.com/slidewerk/vsibatch/internal/term"
)

// PrintBanner prints the ASCII art banner; cyan when colors are enabled.
func PrintBanner() {
	if term.Enabled() {
		fmt.Fprint(os.Stdout, term.Cyan)
	}
	fmt.Fprint(os.Stdout, `           _ _           _       _
 __   ____(_) |__   __ _| |_ ___| |__
 \ \ / / __| | '_ \ / _`+"`"+` | __/ __| '_ \
  \ V /\__ \ | |_) | (_| | || (__| | | |
   \_/ |___/_|_.__/ \__,_|\__\___|_| |_|
`)
	if term.Enabled() {
		fmt.Fprintln(os.Stdout, term.NC)
	}
}
