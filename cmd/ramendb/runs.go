package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/ramendb"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	runs, err := deps.Runs.FindRuns(deps.Ctx, ramendb.RunFilter{Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ramendb.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'ramendb crawl' to start one.")
		return nil
	}

	for _, r := range runs {
		status := "running"
		if r.Finished() {
			status = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
		}
		if r.Error != "" {
			status += " (" + r.Error + ")"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %d fetched, %d records, %d failed  %s\n",
			r.ID, r.StartedAt.Format(time.RFC3339), r.Fetched, r.Records, r.Failed, status)
	}
	return nil
}
