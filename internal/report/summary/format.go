// Package summary extracts the test runner summary lines from a thread
// output. Three formats are known, written by minitest and test-unit:
//
//	5 tests, 10 assertions, 0 failures, 1 errors, 0 skips
//	5 runs, 10 assertions, 0 failures, 1 errors, 0 skips
//	5 tests, 10 assertions, 0 failures, 1 errors, 0 pendings, 0 omissions, 0 notifications
package summary

import (
	"fmt"
	"regexp"
	"strconv"

	log "github.com/sirupsen/logrus"
)

// Format is a known summary line variant.
type Format int

const (
	FormatTests Format = iota
	FormatRuns
	FormatOmissions
)

// Formats lists the variants in the order they are tried.
var Formats = []Format{FormatTests, FormatRuns, FormatOmissions}

var formatPatterns = map[Format]*regexp.Regexp{
	FormatTests:     regexp.MustCompile(`(\d+) tests, (\d+) assertions, (\d+) failures, (\d+) errors, (\d+) skips`),
	FormatRuns:      regexp.MustCompile(`(\d+) runs, (\d+) assertions, (\d+) failures, (\d+) errors, (\d+) skips`),
	FormatOmissions: regexp.MustCompile(`(\d+) tests, (\d+) assertions, (\d+) failures, (\d+) errors, (\d+) pendings, (\d+) omissions, (\d+) notifications`),
}

func (f Format) String() string {
	switch f {
	case FormatTests:
		return "tests"
	case FormatRuns:
		return "runs"
	case FormatOmissions:
		return "omissions"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Match is a summary line found in a thread output.
type Match struct {
	Line   string
	Totals Totals
}

// Find returns every line of output written in format f.
// A line whose counters can't be parsed is skipped.
func (f Format) Find(output string) []Match {
	re, ok := formatPatterns[f]
	if !ok {
		return nil
	}
	var matches []Match
	for _, sub := range re.FindAllStringSubmatch(output, -1) {
		totals, err := f.extract(sub[1:])
		if err != nil {
			log.Warnf("skipping malformed summary line %q: %v", sub[0], err)
			continue
		}
		matches = append(matches, Match{Line: sub[0], Totals: totals})
	}
	return matches
}

// extract converts the captured counters to Totals. Every variant is folded
// positionally, so pendings count as skips and omissions and notifications
// are dropped.
func (f Format) extract(groups []string) (Totals, error) {
	values := make([]int64, 0, len(groups))
	for _, g := range groups {
		v, err := strconv.ParseInt(g, 10, 64)
		if err != nil {
			return Totals{}, err
		}
		values = append(values, v)
	}
	return fromPositional(values)
}

// Scan tries each format in priority order and returns the matches of the
// first one found in output. The boolean is false when no format matched.
func Scan(output string) (Format, []Match, bool) {
	for _, f := range Formats {
		if matches := f.Find(output); len(matches) > 0 {
			return f, matches, true
		}
	}
	return 0, nil, false
}

// Sum adds the totals of all matches.
func Sum(matches []Match) Totals {
	var t Totals
	for _, m := range matches {
		t = t.Add(m.Totals)
	}
	return t
}
