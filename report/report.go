// Package report renders benchmark rows into the semicolon-delimited
// console format, a markdown comparison table, or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/weiihann/visitbench/bench"
)

// WriteCSV writes the semicolon-delimited visit comparison: a "visit:"
// header, a column-header line, then one line per population size with
// both throughputs in millions of operations per second.
func WriteCSV(w io.Writer, rows []bench.Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to report")
	}

	fmt.Fprintln(w, "visit:")
	fmt.Fprintln(w, "N;regular;bulk")

	for _, r := range rows {
		fmt.Fprintf(w, "%d;%s;%s\n",
			r.N,
			formatMops(r.Regular.MopsPerSec),
			formatMops(r.Bulk.MopsPerSec),
		)
	}

	return nil
}

// Write writes a markdown comparison table for the given rows.
func Write(w io.Writer, rows []bench.Row) error {
	if len(rows) == 0 {
		return fmt.Errorf("no rows to report")
	}

	fmt.Fprintln(w, "## Visit Throughput")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| N | regular (Mops/s) | bulk (Mops/s) | speedup |")
	fmt.Fprintln(w, "|---|------------------|---------------|---------|")

	for _, r := range rows {
		speedup := 0.0
		if r.Regular.MopsPerSec > 0 {
			speedup = r.Bulk.MopsPerSec / r.Regular.MopsPerSec
		}

		fmt.Fprintf(w, "| %d | %s | %s | %.2fx |\n",
			r.N,
			formatThroughput(r.Regular),
			formatThroughput(r.Bulk),
			speedup,
		)
	}

	return nil
}

// WriteJSON writes rows as indented JSON to w.
func WriteJSON(w io.Writer, rows []bench.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(rows)
}

func formatMops(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// formatThroughput renders the headline number with its 95% interval,
// e.g. "12.3 [11.9, 12.8]".
func formatThroughput(tp bench.Throughput) string {
	return fmt.Sprintf("%.1f [%.1f, %.1f]", tp.MopsPerSec, tp.Lo, tp.Hi)
}
