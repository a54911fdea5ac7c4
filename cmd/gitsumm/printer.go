package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gitsumm/gitsumm/internal/summarize"
)

// printResult renders a summary in the chosen output format: the bare text,
// a JSON envelope with the operation metadata, or markdown with a heading.
func printResult(w io.Writer, format string, res summarize.Result) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(res, "", "    ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(data))
	case "markdown":
		fmt.Fprintf(w, "# Summary of %s\n\n%s\n", res.Subject, res.Summary)
	default:
		fmt.Fprintln(w, res.Summary)
	}
	return nil
}
