package adm

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/report"
	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/semaphore"
	"github.com/redhat-openshift-ecosystem/semaphore-report/pkg/client"
	cmdreport "github.com/redhat-openshift-ecosystem/semaphore-report/pkg/cmd/report"
)

type parseLogInput struct {
	stats      string
	log        string
	output     string
	noDownload bool
	export     cmdreport.ExportOptions
}

func newCmdParseLog() *cobra.Command {
	args := parseLogInput{}
	cmd := &cobra.Command{
		Use:     "parse-log",
		Example: "semaphore-report adm parse-log --stats build_1507_build_stats.json --log build_1507_build_log.json",
		Short:   "Create the thread report from saved API documents.",
		Long: `Create the thread report of a build from the build information and build log
documents saved with 'report --save-raw', without calling the Semaphore API.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return parseLogRun(cmd.Context(), &args)
		},
	}

	cmd.Flags().StringVar(&args.stats, "stats", "", "Path to the build information document (JSON).")
	cmd.Flags().StringVar(&args.log, "log", "", "Path to the build log document (JSON).")
	cmd.Flags().StringVarP(&args.output, "output", "o", ".", "Folder receiving the report files.")
	cmd.Flags().BoolVar(&args.noDownload, "no-download", false, "Keep the inline output of truncated threads instead of downloading the full log.")
	args.export.AddFlags(cmd)
	_ = cmd.MarkFlagRequired("stats")
	_ = cmd.MarkFlagRequired("log")

	return cmd
}

func parseLogRun(ctx context.Context, input *parseLogInput) error {
	if ctx == nil {
		ctx = context.Background()
	}
	stats := &semaphore.BuildStats{}
	if err := readJSON(input.stats, stats); err != nil {
		return err
	}
	buildLog := &semaphore.BuildLog{}
	if err := readJSON(input.log, buildLog); err != nil {
		return err
	}
	log.Infof("Loaded build %d of %s with %d threads", stats.Number, stats.ProjectName, len(buildLog.Threads))

	opts := report.Options{Folder: input.output}
	if !input.noDownload {
		dl, err := client.CreateDownloadClient()
		if err != nil {
			return err
		}
		opts.Downloader = dl
	}

	res, err := report.NewGenerator(stats, buildLog, opts).Generate(ctx)
	if err != nil {
		return errors.Wrapf(err, "could not create the report of build %d", stats.Number)
	}
	_, err = cmdreport.Export(ctx, res, &input.export)
	return err
}

func readJSON(path string, out interface{}) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "unable to read %s", path)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Wrapf(err, "unable to parse %s", path)
	}
	return nil
}
