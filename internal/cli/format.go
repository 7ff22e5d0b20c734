package cli

import (
	"fmt"
	"io"

	"github.com/fpang/trendgenie/internal/session"
)

// PrintResults writes a numbered list of grounded links under heading.
// Nothing is written for an empty list.
func PrintResults(w io.Writer, heading string, results []session.Result) {
	if len(results) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", heading)
	for i, r := range results {
		fmt.Fprintf(w, "  %d. %s\n     %s\n", i+1, r.Title, r.URI)
	}
}

// PrintUsage writes the quota line shown after each command.
func PrintUsage(w io.Writer, v session.View) {
	fmt.Fprintf(w, "Generations used: %d/%d (%d remaining)\n", v.Usage, v.Limit, v.Remaining)
}
