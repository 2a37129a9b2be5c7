package main

import (
	"fmt"

	"github.com/fwojciec/lessondump"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := lessondump.ExportFilter{Limit: c.Limit}
	if c.URL != "" {
		filter.URL = &c.URL
	}

	exports, err := deps.Exports.FindExports(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", message(err))
		return err
	}

	if len(exports) == 0 {
		fmt.Fprintln(deps.Stdout, "No exports found. Use 'lessondump extract' to export a page.")
		return nil
	}

	for _, e := range exports {
		fmt.Fprintf(deps.Stdout, "%s  %-15s  %-8s  %s  %s  %s\n",
			e.ExportedAt.Local().Format("2006-01-02 15:04"),
			e.ExerciseType, e.Format, e.Destination, e.Title, e.URL)
	}
	return nil
}
