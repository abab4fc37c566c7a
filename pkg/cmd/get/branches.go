package get

import (
	"io"

	table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/semaphore"
	"github.com/redhat-openshift-ecosystem/semaphore-report/pkg/client"
)

var branchesCmd = &cobra.Command{
	Use:     "branches <project> [token]",
	Example: "semaphore-report get branches storefront $TOKEN",
	Short:   "List the branches of a project.",
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runGetBranches,
}

func runGetBranches(cmd *cobra.Command, args []string) error {
	api, err := client.CreateClient(tokenFromArgs(args[1:]))
	if err != nil {
		return err
	}
	projectID, err := api.ResolveProject(cmd.Context(), args[0])
	if err != nil {
		return errors.Wrap(err, "unable to resolve the project")
	}
	branches, err := api.ListBranches(cmd.Context(), projectID)
	if err != nil {
		return errors.Wrapf(err, "unable to list branches of project %s", args[0])
	}
	renderBranches(cmd.OutOrStdout(), branches)
	return nil
}

func renderBranches(w io.Writer, branches []semaphore.Branch) {
	tb := table.NewWriter()
	tb.SetOutputMirror(w)
	tb.AppendHeader(table.Row{"Name", "ID", "URL"})
	for _, b := range branches {
		tb.AppendRow(table.Row{b.Name, b.ID, b.BranchURL})
	}
	tb.Render()
}
