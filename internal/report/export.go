package report

import (
	"io"
	"os"

	"github.com/ulikunitz/xz"
	"gopkg.in/yaml.v2"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report/metrics"
)

// SummaryDocument is the machine readable summary of a report.
type SummaryDocument struct {
	Result       `yaml:",inline"`
	Problems     int64              `yaml:"problems"`
	Distribution *Distribution      `yaml:"distribution,omitempty"`
	Timers       map[string]float64 `yaml:"timers,omitempty"`
}

// NewSummaryDocument builds the summary of a report.
func NewSummaryDocument(res *Result) *SummaryDocument {
	doc := &SummaryDocument{
		Result:       *res,
		Problems:     res.Totals.Problems(),
		Distribution: NewDistribution(res.Threads),
	}
	if res.Timers != nil {
		doc.Timers = timersInSeconds(res.Timers)
	}
	return doc
}

func timersInSeconds(ts *metrics.Timers) map[string]float64 {
	out := make(map[string]float64, len(ts.Timers))
	for _, name := range ts.Names() {
		out[name] = ts.Timers[name].Total
	}
	return out
}

// SaveSummary writes the summary document as YAML.
func SaveSummary(res *Result, path string) error {
	data, err := yaml.Marshal(NewSummaryDocument(res))
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// CompressFile writes an xz compressed copy of src to dst.
func CompressFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return &WriteError{Path: dst, Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: dst, Err: cerr}
		}
	}()

	w, err := xz.NewWriter(out)
	if err != nil {
		return &WriteError{Path: dst, Err: err}
	}
	if _, err := io.Copy(w, in); err != nil {
		w.Close()
		return &WriteError{Path: dst, Err: err}
	}
	if err := w.Close(); err != nil {
		return &WriteError{Path: dst, Err: err}
	}
	return nil
}
