package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fwojciec/ramendb"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	markup, err := os.ReadFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	out, err := deps.Processor.Process(&ramendb.FetchedPage{URL: c.URL, Markup: markup})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ramendb.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(out)
}
