package report

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report"
	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report/publish"
)

// ExportOptions selects the optional artifacts written after the report.
type ExportOptions struct {
	Sheet    bool
	Chart    bool
	Summary  bool
	Compress bool
	Quiet    bool

	PublishBucket string
	PublishRegion string
	PublishPrefix string
	DryRun        bool

	// newPublisher is replaced by tests.
	newPublisher func(region, bucket, prefix string, meta map[string]string) (*publish.Publisher, error)
}

// AddFlags registers the export flags on cmd.
func (o *ExportOptions) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.Sheet, "xlsx", false, "Write the per-thread counters to build_<n>_threads.xlsx.")
	cmd.Flags().BoolVar(&o.Chart, "chart", false, "Write the per-thread counters chart to build_<n>_threads.html.")
	cmd.Flags().BoolVar(&o.Summary, "summary", false, "Write the report summary to build_<n>_summary.yaml.")
	cmd.Flags().BoolVar(&o.Compress, "compress", false, "Write an xz compressed copy of the combined output.")
	cmd.Flags().BoolVarP(&o.Quiet, "quiet", "q", false, "Don't print the totals table.")
	cmd.Flags().StringVar(&o.PublishBucket, "publish-bucket", "", "Upload the artifacts to this S3 bucket.")
	cmd.Flags().StringVar(&o.PublishRegion, "publish-region", "us-east-1", "Region of the S3 bucket.")
	cmd.Flags().StringVar(&o.PublishPrefix, "publish-prefix", "", "Key prefix of the uploaded artifacts. Example: storefront/master")
	cmd.Flags().BoolVar(&o.DryRun, "dry-run", false, "Show the objects to upload without uploading them.")
}

// Export writes the optional artifacts of res and publishes every artifact
// when a bucket is set. It returns the paths of all the artifacts.
func Export(ctx context.Context, res *report.Result, o *ExportOptions) ([]string, error) {
	paths := res.Paths
	files := []string{paths.Stats, paths.Combined, paths.CommonLines, paths.TestNumbers}

	steps := []struct {
		enabled bool
		suffix  string
		msg     string
		save    func(string) error
	}{
		{o.Sheet, report.SuffixSheet, "Saving threads sheet to", func(p string) error { return report.SaveSheet(res, p) }},
		{o.Chart, report.SuffixChart, "Saving threads chart to", func(p string) error { return report.SaveChart(res, p) }},
		{o.Summary, report.SuffixSummary, "Saving summary to", func(p string) error { return report.SaveSummary(res, p) }},
		{o.Compress, report.SuffixArchive, "Compressing combined output to", func(p string) error { return report.CompressFile(paths.Combined, p) }},
	}
	for _, step := range steps {
		if !step.enabled {
			continue
		}
		path := paths.File(step.suffix)
		log.Infof("%s %s...", step.msg, path)
		if err := step.save(path); err != nil {
			return nil, errors.Wrapf(err, "unable to save %s", path)
		}
		files = append(files, path)
	}

	if !o.Quiet {
		showTotals(res)
	}

	if o.PublishBucket != "" {
		newPublisher := o.newPublisher
		if newPublisher == nil {
			newPublisher = publish.NewS3Publisher
		}
		meta := map[string]string{
			"project": res.Project,
			"branch":  res.Branch,
			"build":   strconv.Itoa(res.Build),
		}
		pub, err := newPublisher(o.PublishRegion, o.PublishBucket, o.PublishPrefix, meta)
		if err != nil {
			return nil, errors.Wrap(err, "unable to create the publisher")
		}
		if _, err := pub.Publish(ctx, files, o.DryRun); err != nil {
			return nil, errors.Wrap(err, "unable to publish the artifacts")
		}
	}
	return files, nil
}

// showTotals prints the per-thread counters and the build totals.
func showTotals(res *report.Result) {
	tb := table.NewWriter()
	tb.SetOutputMirror(os.Stdout)
	tb.SetTitle(fmt.Sprintf("Build %d: %s / %s", res.Build, res.Project, res.Branch))
	tb.AppendHeader(table.Row{"Thread", "Format", "Tests", "Assertions", "Failures", "Errors", "Skips"})
	for _, t := range res.MatchedThreads() {
		tb.AppendRow(table.Row{
			t.Number, t.Format,
			t.Totals.Tests, t.Totals.Assertions, t.Totals.Failures, t.Totals.Errors, t.Totals.Skips,
		})
	}
	tb.AppendFooter(table.Row{
		"Total", "",
		res.Totals.Tests, res.Totals.Assertions, res.Totals.Failures, res.Totals.Errors, res.Totals.Skips,
	})
	tb.Render()
	fmt.Printf("failures + errors + skips: %d\n", res.Totals.Problems())
}
