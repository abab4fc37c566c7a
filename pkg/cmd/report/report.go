package report

import (
	"context"
	"encoding/json"
	"os"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report"
	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report/metrics"
	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/semaphore"
	"github.com/redhat-openshift-ecosystem/semaphore-report/pkg/client"
)

type Input struct {
	token   string
	project string
	branch  string
	build   int
	folder  string
	saveRaw bool
	export  ExportOptions
}

func NewCmdReport() *cobra.Command {
	data := Input{}
	cmd := &cobra.Command{
		Use:     "report <token> <project> <branch> <build> [folder]",
		Example: "semaphore-report report $TOKEN storefront master 1507 ./reports",
		Short:   "Create the thread report of a build.",
		Long: `Fetch the build information and the build log of a Semaphore build, merge the
output of every thread and write the stats, combined output, common lines and
test numbers files to folder (the current directory by default).`,
		Args: cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := parseArgs(&data, args); err != nil {
				return err
			}
			if err := processReport(cmd.Context(), &data); err != nil {
				return errors.Wrapf(err, "could not create the report of build %d", data.build)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(
		&data.saveRaw, "save-raw", false,
		"Save the build information and build log documents returned by the API to folder.",
	)
	data.export.AddFlags(cmd)

	return cmd
}

func parseArgs(input *Input, args []string) error {
	build, err := strconv.Atoi(args[3])
	if err != nil || build < 0 {
		return errors.Errorf("invalid build number %q", args[3])
	}
	input.token = args[0]
	input.project = args[1]
	input.branch = args[2]
	input.build = build
	input.folder = "."
	if len(args) > 4 && args[4] != "" {
		input.folder = args[4]
	}
	return nil
}

// processReport fetches the build documents and writes the report artifacts.
func processReport(ctx context.Context, input *Input) error {
	if ctx == nil {
		ctx = context.Background()
	}
	timers := metrics.NewTimers()
	timers.Add("report-total")

	api, err := client.CreateClient(input.token)
	if err != nil {
		return err
	}

	log.Info("Downloading build information...")
	timers.Lap("fetch")
	projectID, err := api.ResolveProject(ctx, input.project)
	if err != nil {
		return errors.Wrap(err, "unable to resolve the project")
	}
	branchID, err := api.ResolveBranch(ctx, projectID, input.branch)
	if err != nil {
		return errors.Wrap(err, "unable to resolve the branch")
	}
	log.Debugf("project %s is %s, branch %s is %s", input.project, projectID, input.branch, branchID)

	stats, err := api.BuildStats(ctx, projectID, branchID, input.build)
	if err != nil {
		return errors.Wrap(err, "unable to fetch the build information")
	}
	buildLog, err := api.BuildLog(ctx, projectID, branchID, input.build)
	if err != nil {
		return errors.Wrap(err, "unable to fetch the build log")
	}

	if input.saveRaw {
		if err := saveRaw(input.folder, stats, buildLog); err != nil {
			return err
		}
	}

	gen := report.NewGenerator(stats, buildLog, report.Options{
		Folder:     input.folder,
		Downloader: api,
		Timers:     timers,
	})
	res, err := gen.Generate(ctx)
	if err != nil {
		return err
	}

	if _, err := Export(ctx, res, &input.export); err != nil {
		return err
	}
	timers.Add("report-total")
	logTimers(timers)
	return nil
}

// saveRaw writes the API documents next to the report artifacts.
func saveRaw(folder string, stats *semaphore.BuildStats, buildLog *semaphore.BuildLog) error {
	if err := os.MkdirAll(folder, 0755); err != nil {
		return &report.WriteError{Path: folder, Err: err}
	}
	paths := report.NewPaths(folder, stats.Number)
	docs := []struct {
		path string
		data interface{}
	}{
		{paths.File(report.SuffixRawStats), stats},
		{paths.File(report.SuffixRawLog), buildLog},
	}
	for _, doc := range docs {
		raw, err := json.MarshalIndent(doc.data, "", "  ")
		if err != nil {
			return errors.Wrapf(err, "unable to encode %s", doc.path)
		}
		if err := os.WriteFile(doc.path, raw, 0644); err != nil {
			return &report.WriteError{Path: doc.path, Err: err}
		}
		log.Infof("Saved API document to %s", doc.path)
	}
	return nil
}

func logTimers(timers *metrics.Timers) {
	for _, name := range timers.Names() {
		log.Debugf("timer %s: %.3fs", name, timers.Timers[name].Total)
	}
}
