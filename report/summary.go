// Package report prints run results for people: per-directory notices, an
// optional summary table and a progress bar.
package report

import (
	"fmt"
	"io"
	"strconv"

	"imagededup/types"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// PrintNotices writes one "No duplicates found" line per directory that had none
func PrintNotices(w io.Writer, results []types.RunResult) {
	for _, res := range results {
		if res.Failed() || !res.NoDuplicates {
			continue
		}
		fmt.Fprintf(w, "No duplicates found in %q\n", res.Dir)
	}
}

// RenderSummary renders a table with one row per directory
func RenderSummary(results []types.RunResult) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Directory", "Status", "Candidates", "Hashed", "Skipped", "Sets", "Moved", "Size", "Move failures"})

	var moved, failures int
	var bytes int64
	for _, res := range results {
		tw.AppendRow(table.Row{
			res.Dir,
			status(res),
			strconv.Itoa(res.Candidates),
			strconv.Itoa(res.Hashed),
			strconv.Itoa(res.Skipped),
			strconv.Itoa(res.DuplicateSets),
			strconv.Itoa(res.Moved),
			humanize.Bytes(uint64(res.MovedBytes)),
			strconv.Itoa(res.MoveFailures),
		})
		moved += res.Moved
		failures += res.MoveFailures
		bytes += res.MovedBytes
	}
	tw.AppendFooter(table.Row{"Total", "", "", "", "", "", strconv.Itoa(moved), humanize.Bytes(uint64(bytes)), strconv.Itoa(failures)})

	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for col := 3; col <= 9; col++ {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func status(res types.RunResult) string {
	switch {
	case res.Failed():
		return "failed"
	case res.NoDuplicates:
		return "no duplicates"
	default:
		return "ok"
	}
}
