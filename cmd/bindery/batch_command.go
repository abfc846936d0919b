package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"bindery/internal/processor"
	"bindery/internal/workbook"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var appendFlag bool
	var conflictFlag string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "batch [folders...]",
		Short: "Assemble many item folders into workbook rows",
		Long: `Assemble the named item folders into workbook rows. With no arguments,
every folder under the configured image root is assembled, in lexicographic
order. Queue state is not consulted; use "bindery process" for queue-driven
runs.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := conflictOptions(conflictFlag)
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			folders := append([]string(nil), args...)
			if len(folders) == 0 {
				folders, err = listItemFolders(cfg.Paths.ImageRoot)
				if err != nil {
					return err
				}
				if len(folders) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No item folders found")
					return nil
				}
			} else {
				sort.Strings(folders)
			}

			return ctx.withProcessor(appendMode(appendFlag), opts, func(p *processor.Processor, _ *workbook.Store) error {
				report, err := p.ProcessFolders(cmd.Context(), folders)
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
