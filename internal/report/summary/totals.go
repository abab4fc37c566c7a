package summary

import "fmt"

// Totals holds the test runner counters of a summary line, a thread, or a
// whole build. Values only grow while folding threads together.
type Totals struct {
	Tests      int64 `json:"tests" yaml:"tests"`
	Assertions int64 `json:"assertions" yaml:"assertions"`
	Failures   int64 `json:"failures" yaml:"failures"`
	Errors     int64 `json:"errors" yaml:"errors"`
	Skips      int64 `json:"skips" yaml:"skips"`
}

// Counter is a named counter value, used to render the totals in order.
type Counter struct {
	Name  string
	Value int64
}

// Add returns the sum of t and o.
func (t Totals) Add(o Totals) Totals {
	return Totals{
		Tests:      t.Tests + o.Tests,
		Assertions: t.Assertions + o.Assertions,
		Failures:   t.Failures + o.Failures,
		Errors:     t.Errors + o.Errors,
		Skips:      t.Skips + o.Skips,
	}
}

// Problems is the number of failures, errors and skips.
func (t Totals) Problems() int64 {
	return t.Failures + t.Errors + t.Skips
}

// Counters returns the counters in report order.
func (t Totals) Counters() []Counter {
	return []Counter{
		{Name: "tests", Value: t.Tests},
		{Name: "assertions", Value: t.Assertions},
		{Name: "failures", Value: t.Failures},
		{Name: "errors", Value: t.Errors},
		{Name: "skips", Value: t.Skips},
	}
}

// fromPositional maps the first five numbers of a summary line to the
// counters. Extra values are ignored.
func fromPositional(values []int64) (Totals, error) {
	if len(values) < 5 {
		return Totals{}, fmt.Errorf("expected at least 5 counters, got %d", len(values))
	}
	return Totals{
		Tests:      values[0],
		Assertions: values[1],
		Failures:   values[2],
		Errors:     values[3],
		Skips:      values[4],
	}, nil
}

// MergeTotals folds every totals value into one.
func MergeTotals(all ...Totals) Totals {
	var sum Totals
	for _, t := range all {
		sum = sum.Add(t)
	}
	return sum
}
