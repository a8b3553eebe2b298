package batch

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ErrDirectoryUnreadable is wrapped when the source directory cannot be
// listed. Fatal to the whole batch; nothing has been submitted yet when it
// occurs.
var ErrDirectoryUnreadable = errors.New("source directory unreadable")

// Discover lists dir (no recursion), keeps regular files whose name ends
// with ext, and returns them sorted by name in byte order so every run
// processes the same inputs in the same submission order. Suffix matching
// is case-sensitive, same as the legacy tool. An empty result is not an
// error; the coordinator reports it as "nothing to do".
func Discover(dir, ext string) ([]InputFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDirectoryUnreadable, dir, err)
	}

	var files []InputFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ext) {
			continue
		}
		files = append(files, NewInputFile(dir, name))
	}

	// os.ReadDir already sorts by filename, but the ordering guarantee is
	// ours, not the stdlib's.
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}
