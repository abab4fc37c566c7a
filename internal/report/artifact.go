package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

const (
	SuffixStats       = "stats.txt"
	SuffixCombined    = "thread_output_combined.txt"
	SuffixCommonLines = "thread_output_common_lines.txt"
	SuffixTestNumbers = "thread_output_test_numbers.txt"
	SuffixSheet       = "threads.xlsx"
	SuffixChart       = "threads.html"
	SuffixSummary     = "summary.yaml"
	SuffixArchive     = SuffixCombined + ".xz"
	SuffixRawStats    = "build_stats.json"
	SuffixRawLog      = "build_log.json"
)

// WriteError is returned when an artifact can't be created or written.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("unable to write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Paths are the file names of the artifacts of one build.
type Paths struct {
	Folder      string
	Build       int
	Stats       string
	Combined    string
	CommonLines string
	TestNumbers string
}

// NewPaths returns the artifact paths for a build, named
// <folder>/build_<number>_<suffix>.
func NewPaths(folder string, build int) Paths {
	p := Paths{Folder: folder, Build: build}
	p.Stats = p.File(SuffixStats)
	p.Combined = p.File(SuffixCombined)
	p.CommonLines = p.File(SuffixCommonLines)
	p.TestNumbers = p.File(SuffixTestNumbers)
	return p
}

// File returns the path of an artifact of the build with the given suffix.
func (p Paths) File(suffix string) string {
	return filepath.Join(p.Folder, fmt.Sprintf("build_%d_%s", p.Build, suffix))
}

// artifact is a buffered output file keeping the first write error.
type artifact struct {
	path string
	f    *os.File
	w    *bufio.Writer
	err  error
}

func createArtifact(path string) (*artifact, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &WriteError{Path: path, Err: err}
	}
	return &artifact{path: path, f: f, w: bufio.NewWriter(f)}, nil
}

func (a *artifact) Write(p []byte) (int, error) {
	if a.err != nil {
		return 0, a.err
	}
	n, err := a.w.Write(p)
	if err != nil {
		a.err = &WriteError{Path: a.path, Err: err}
	}
	return n, a.err
}

func (a *artifact) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(a, format, args...)
}

// Close flushes and closes the file, returning the first error seen.
func (a *artifact) Close() error {
	if a.err == nil {
		if err := a.w.Flush(); err != nil {
			a.err = &WriteError{Path: a.path, Err: err}
		}
	}
	if err := a.f.Close(); err != nil && a.err == nil {
		a.err = &WriteError{Path: a.path, Err: err}
	}
	return a.err
}
