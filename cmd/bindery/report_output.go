package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"bindery/internal/processor"
)

const reasonColumnLimit = 72

func buildReportRows(report *processor.Report) [][]string {
	rows := make([][]string, 0, len(report.Results))
	for _, res := range report.Results {
		rows = append(rows, []string{
			res.FolderID,
			string(res.Outcome),
			res.Stage,
			truncateReason(res.Reason, reasonColumnLimit),
		})
	}
	return rows
}

func printReport(out io.Writer, report *processor.Report) {
	if len(report.Results) == 0 {
		fmt.Fprintln(out, "No folders to process")
	} else {
		table := renderTable(
			[]string{"Folder", "Outcome", "Stage", "Reason"},
			buildReportRows(report),
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		)
		fmt.Fprintln(out, table)
	}
	fmt.Fprintf(out, "Processed %d, skipped %d, failed %d\n",
		report.Processed(), report.Skipped(), report.Failed())
	fmt.Fprintf(out, "Workbook: %s (%d rows)\n", report.WorkbookPath, report.RowCount)
}

func writeReportJSON(cmd *cobra.Command, report *processor.Report) error {
	type jsonResult struct {
		Folder  string `json:"folder"`
		Outcome string `json:"outcome"`
		Stage   string `json:"stage,omitempty"`
		Reason  string `json:"reason,omitempty"`
	}
	results := make([]jsonResult, 0, len(report.Results))
	for _, res := range report.Results {
		results = append(results, jsonResult{
			Folder:  res.FolderID,
			Outcome: string(res.Outcome),
			Stage:   res.Stage,
			Reason:  res.Reason,
		})
	}
	return writeJSON(cmd, map[string]any{
		"run_id":    report.RunID,
		"workbook":  report.WorkbookPath,
		"rows":      report.RowCount,
		"processed": report.Processed(),
		"skipped":   report.Skipped(),
		"failed":    report.Failed(),
		"results":   results,
	})
}

// reportError converts a report with failures into the nonzero-exit error the
// command surface promises.
func reportError(report *processor.Report) error {
	if !report.HasFailures() {
		return nil
	}
	return fmt.Errorf("%d of %d folders failed", report.Failed(), len(report.Results))
}
