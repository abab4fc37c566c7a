package get

import (
	"fmt"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Get Semaphore information used to build a report.",
	Run:   runGet,
}

func init() {
	getCmd.AddCommand(projectsCmd)
	getCmd.AddCommand(branchesCmd)
}

func NewCmdGet() *cobra.Command {
	return getCmd
}

func runGet(cmd *cobra.Command, args []string) {
	fmt.Println("Nothing to do. See -h for more options.")
}
