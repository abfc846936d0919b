package main

import (
	"github.com/spf13/cobra"

	"bindery/internal/processor"
	"bindery/internal/workbook"
)

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	var appendFlag bool
	var conflictFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "assemble <folder>",
		Short: "Assemble one item folder into a workbook row",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := conflictOptions(conflictFlag)
			if err != nil {
				return err
			}
			return ctx.withProcessor(appendMode(appendFlag), opts, func(p *processor.Processor, _ *workbook.Store) error {
				report, err := p.ProcessFolders(cmd.Context(), args)
				if err != nil {
					return err
				}
				if jsonFlag {
					if err := writeReportJSON(cmd, report); err != nil {
						return err
					}
				} else {
					printReport(cmd.OutOrStdout(), report)
				}
				return reportError(report)
			})
		},
	}

	cmd.Flags().BoolVar(&appendFlag, "append", false, "Append to the current workbook instead of starting a fresh one")
	cmd.Flags().StringVar(&conflictFlag, "conflict", "", "Duplicate-row policy: skip or overwrite (default from config)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the report as JSON")
	return cmd
}
