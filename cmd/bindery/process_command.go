package main

import (
	"github.com/spf13/cobra"

	"bindery/internal/config"
	"bindery/internal/processor"
	"bindery/internal/workbook"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var conflictFlag string
	var jsonFlag bool
	var queueRoot string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run a full queue pass against the current workbook",
		Long: `Scan the image root for new item folders, enqueue them, and process every
pending entry in lexicographic order. Processed entries stay in the queue
store so repeated runs never duplicate rows. Exits nonzero when any folder
fails.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := conflictOptions(conflictFlag)
			if err != nil {
				return err
			}
			if queueRoot != "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				expanded, err := config.ExpandPath(queueRoot)
				if err != nil {
					return err
				}
				cfg.Paths.ImageRoot = expanded
			}

			return ctx.withProcessor(workbook.ModeLatest, opts, func(p *processor.Processor, _ *workbook.Store) error {
				report, runErr := p.Run(cmd.Context())
				if jsonFlag {
					if err := writeReportJSON(cmd, report); err != nil {
						return err
					}
				} else {
					printReport(cmd.OutOrStdout(), report)
				}
				if runErr != nil {
					return runErr
				}
				return reportError(report)
			})
		},
	}

	cmd.Flags().StringVar(&conflictFlag, "conflict", "", "Duplicate-row policy: skip or overwrite (default from config)")
	cmd.Flags().StringVar(&queueRoot, "queue-root", "", "Override the image root to scan for pending folders")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit the report as JSON")
	return cmd
}
