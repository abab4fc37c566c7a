package main

import (
	cmd "github.com/redhat-openshift-ecosystem/semaphore-report/cmd/semaphore-report"
)

func main() {
	cmd.Execute()
}
