package get

import (
	"io"

	table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/semaphore"
	"github.com/redhat-openshift-ecosystem/semaphore-report/pkg/client"
)

var projectsCmd = &cobra.Command{
	Use:     "projects [token]",
	Example: "semaphore-report get projects $TOKEN",
	Short:   "List the projects visible to the token owner.",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runGetProjects,
}

func tokenFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func runGetProjects(cmd *cobra.Command, args []string) error {
	api, err := client.CreateClient(tokenFromArgs(args))
	if err != nil {
		return err
	}
	projects, err := api.ListProjects(cmd.Context())
	if err != nil {
		return errors.Wrap(err, "unable to list projects")
	}
	renderProjects(cmd.OutOrStdout(), projects)
	return nil
}

func renderProjects(w io.Writer, projects []semaphore.Project) {
	tb := table.NewWriter()
	tb.SetOutputMirror(w)
	tb.AppendHeader(table.Row{"Name", "ID", "Owner", "Updated"})
	for _, p := range projects {
		tb.AppendRow(table.Row{p.Name, p.HashID, p.Owner, p.UpdatedAt})
	}
	tb.Render()
}
