// Package report merges the thread outputs of a Semaphore build and computes
// the test runner totals, writing the stats, combined output, common lines and
// test numbers artifacts.
package report

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report/link"
	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report/metrics"
	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report/rank"
	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report/summary"
	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/semaphore"
)

var reTestNumber = regexp.MustCompile(`.*Test#`)

// Downloader fetches the full log of a thread whose inline output was
// truncated.
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Options configures a Generator.
type Options struct {
	// Folder receives the artifacts. Empty is the working directory.
	Folder string

	// Downloader is used to follow download links. Nil keeps the inline output.
	Downloader Downloader

	// Extractor finds download links, defaults to link.NewHTMLExtractor.
	Extractor link.Extractor

	Timers *metrics.Timers
}

// Result is the outcome of a report generation.
type Result struct {
	Build       int             `yaml:"build"`
	Project     string          `yaml:"project"`
	Branch      string          `yaml:"branch"`
	Commit      string          `yaml:"commit"`
	Threads     []*Thread       `yaml:"threads"`
	Totals      summary.Totals  `yaml:"totals"`
	CommonLines int             `yaml:"commonLines"`
	TestNumbers int             `yaml:"testNumbers"`
	Paths       Paths           `yaml:"-"`
	Timers      *metrics.Timers `yaml:"-"`
}

// MatchedThreads returns the threads with at least one summary line.
func (r *Result) MatchedThreads() []*Thread {
	matched := []*Thread{}
	for _, t := range r.Threads {
		if t.Matched() {
			matched = append(matched, t)
		}
	}
	return matched
}

// Generator builds the report artifacts of one build.
type Generator struct {
	stats    *semaphore.BuildStats
	buildLog *semaphore.BuildLog
	opts     Options
}

// NewGenerator creates a Generator for the build documents.
func NewGenerator(stats *semaphore.BuildStats, buildLog *semaphore.BuildLog, opts Options) *Generator {
	if opts.Extractor == nil {
		opts.Extractor = link.NewHTMLExtractor()
	}
	if opts.Timers == nil {
		opts.Timers = metrics.NewTimers()
	}
	if buildLog == nil {
		buildLog = &semaphore.BuildLog{}
	}
	if stats == nil {
		stats = &semaphore.BuildStats{}
	}
	return &Generator{stats: stats, buildLog: buildLog, opts: opts}
}

// Generate writes the stats and combined output artifacts, then reads the
// combined output back to write the common lines and test numbers reports.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	paths := NewPaths(g.opts.Folder, g.stats.Number)
	res := &Result{
		Build:   g.stats.Number,
		Project: g.stats.ProjectName,
		Branch:  g.stats.BranchName,
		Commit:  g.stats.CommitURL(),
		Paths:   paths,
		Timers:  g.opts.Timers,
	}

	if g.opts.Folder != "" {
		if err := os.MkdirAll(g.opts.Folder, 0755); err != nil {
			return nil, &WriteError{Path: g.opts.Folder, Err: err}
		}
	}

	log.Infof("Compiling all output to: %s...", paths.Combined)
	g.opts.Timers.Lap("combined-output")
	if err := g.writeCombinedOutputAndStats(ctx, res); err != nil {
		return nil, err
	}

	log.Infof("Outputting the common lines in the compiled output to: %s...", paths.CommonLines)
	g.opts.Timers.Lap("common-lines")
	n, err := writeCommonLines(paths.Combined, paths.CommonLines)
	if err != nil {
		return nil, err
	}
	res.CommonLines = n

	log.Infof("Outputting the test numbers for errors and failures: %s...", paths.TestNumbers)
	g.opts.Timers.Lap("test-numbers")
	n, err = writeTestNumbers(paths.Combined, paths.TestNumbers)
	if err != nil {
		return nil, err
	}
	res.TestNumbers = n
	g.opts.Timers.Stop()

	log.Infof("Outputted all statistics to %s", paths.Stats)
	return res, nil
}

// writeCombinedOutputAndStats processes every thread in order. Both files are
// closed before returning so the derived reports can read the combined output.
func (g *Generator) writeCombinedOutputAndStats(ctx context.Context, res *Result) (err error) {
	stats, err := createArtifact(res.Paths.Stats)
	if err != nil {
		return err
	}
	combined, err := createArtifact(res.Paths.Combined)
	if err != nil {
		stats.Close()
		return err
	}
	defer func() {
		errStats := stats.Close()
		errCombined := combined.Close()
		if err == nil {
			err = errStats
		}
		if err == nil {
			err = errCombined
		}
	}()

	writeHeader(stats, g.stats)

	res.Threads = SortThreads(g.buildLog.Threads)
	for i, thread := range res.Threads {
		res.Totals = g.processThread(ctx, thread, res.Totals)
		if thread.Matched() {
			stats.printf("%d: %s\n", thread.Number, strings.Join(thread.Lines, "\n   "))
		}
		if i > 0 {
			combined.printf("\n\n")
		}
		combined.printf("THREAD %d:\n%s", thread.Number, thread.Output)
	}

	writeFooter(stats, res.Totals)
	return nil
}

// processThread resolves the thread output and folds its summary lines into
// totals.
func (g *Generator) processThread(ctx context.Context, thread *Thread, totals summary.Totals) summary.Totals {
	if g.opts.Downloader != nil {
		if url, ok := g.opts.Extractor.ExtractDownloadLink(thread.Output); ok {
			log.Debugf("thread %d: downloading full log from %s", thread.Number, url)
			body, err := g.opts.Downloader.Download(ctx, url)
			if err != nil {
				log.Warnf("thread %d: unable to download full log, keeping inline output: %v", thread.Number, err)
			} else {
				thread.Output = string(body)
				thread.Downloaded = true
			}
		}
	}

	format, matches, ok := summary.Scan(thread.Output)
	if !ok {
		log.Debugf("thread %d: no summary line found", thread.Number)
		return totals
	}
	thread.Format = format.String()
	for _, m := range matches {
		thread.Lines = append(thread.Lines, m.Line)
	}
	thread.Totals = summary.Sum(matches)
	return totals.Add(thread.Totals)
}

func writeHeader(w *artifact, stats *semaphore.BuildStats) {
	w.printf("build %d for %s\n", stats.Number, stats.ProjectName)
	w.printf("branch: %s\n", stats.BranchName)
	w.printf("commit: %s\n\n", stats.CommitURL())
}

func writeFooter(w *artifact, totals summary.Totals) {
	w.printf("\n")
	for _, c := range totals.Counters() {
		w.printf("%d %s\n", c.Value, c.Name)
	}
	w.printf("\nfailures + errors + skips: %d\n", totals.Problems())
}

// writeCommonLines ranks the non-blank lines of the combined output by
// frequency, most frequent first. It returns the number of distinct lines.
func writeCommonLines(combinedPath, outPath string) (int, error) {
	in, err := os.Open(combinedPath)
	if err != nil {
		return 0, fmt.Errorf("unable to read %s: %w", combinedPath, err)
	}
	defer in.Close()

	counter, err := countLines(in)
	if err != nil {
		return 0, fmt.Errorf("unable to read %s: %w", combinedPath, err)
	}
	if err := writeRanking(outPath, counter.Descending()); err != nil {
		return 0, err
	}
	return counter.Len(), nil
}

// countLines counts every line of r that is not blank or whitespace only.
func countLines(r io.Reader) (*rank.Counter, error) {
	counter := rank.NewCounter()
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		line = strings.TrimSuffix(line, "\n")
		if strings.TrimSpace(line) != "" {
			counter.Add(line)
		}
		if err == io.EOF {
			return counter, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// writeTestNumbers ranks the "...Test#" prefixes found in the combined
// output, least frequent first. It returns the number of distinct prefixes.
func writeTestNumbers(combinedPath, outPath string) (int, error) {
	data, err := os.ReadFile(combinedPath)
	if err != nil {
		return 0, fmt.Errorf("unable to read %s: %w", combinedPath, err)
	}
	counter := countTestNumbers(string(data))
	if err := writeRanking(outPath, counter.Ascending()); err != nil {
		return 0, err
	}
	return counter.Len(), nil
}

func countTestNumbers(text string) *rank.Counter {
	counter := rank.NewCounter()
	for _, m := range reTestNumber.FindAllString(text, -1) {
		counter.Add(m)
	}
	return counter
}

func writeRanking(path string, list rank.SortedList) error {
	out, err := createArtifact(path)
	if err != nil {
		return err
	}
	_, _ = list.WriteTo(out)
	return out.Close()
}
