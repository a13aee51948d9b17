package main

import (
	"fmt"

	"github.com/fwojciec/ramendb"
)

// Run executes the list command. Each record is printed as one JSON line.
func (c *ListCmd) Run(deps *Dependencies) error {
	kind, err := ramendb.ParseRecordKind(c.Kind)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ramendb.ErrorMessage(err))
		return err
	}

	filter := ramendb.RecordFilter{Kind: &kind, Limit: c.Limit, Offset: c.Offset}
	if c.RunID != "" {
		filter.RunID = &c.RunID
	}

	recs, err := deps.Records.FindRecords(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ramendb.ErrorMessage(err))
		return err
	}

	if len(recs) == 0 {
		fmt.Fprintf(deps.Stdout, "No %s records found. Use 'ramendb crawl' to collect some.\n", kind)
		return nil
	}

	for _, r := range recs {
		fmt.Fprintln(deps.Stdout, string(r.Data))
	}
	return nil
}
