package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bindery/internal/queue"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the folder queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))
	queueCmd.AddCommand(newQueueHealthCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List queue entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := make([]queue.Status, 0, len(listStatuses))
			for _, raw := range listStatuses {
				status, ok := queue.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown queue status %q", raw)
				}
				statuses = append(statuses, status)
			}

			return ctx.withQueueStore(func(store *queue.Store) error {
				entries, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeQueueListJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}
				table := renderTable(
					[]string{"Folder", "Status", "Stage", "Error", "Updated"},
					buildQueueListRows(entries),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by queue status (repeatable)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit entries as JSON")
	return cmd
}

func buildQueueListRows(entries []*queue.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.FolderID,
			string(entry.Status),
			entry.Stage,
			truncateReason(entry.ErrorMessage, reasonColumnLimit),
			entry.UpdatedAt.Local().Format(time.DateTime),
		})
	}
	return rows
}

func writeQueueListJSON(cmd *cobra.Command, entries []*queue.Entry) error {
	type jsonEntry struct {
		Folder  string `json:"folder"`
		Status  string `json:"status"`
		Stage   string `json:"stage,omitempty"`
		Error   string `json:"error,omitempty"`
		Created string `json:"created_at"`
		Updated string `json:"updated_at"`
	}
	items := make([]jsonEntry, 0, len(entries))
	for _, entry := range entries {
		items = append(items, jsonEntry{
			Folder:  entry.FolderID,
			Status:  string(entry.Status),
			Stage:   entry.Stage,
			Error:   entry.ErrorMessage,
			Created: entry.CreatedAt.Format(time.RFC3339),
			Updated: entry.UpdatedAt.Format(time.RFC3339),
		})
	}
	return writeJSON(cmd, map[string]any{"entries": items})
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [folders...]",
		Short: "Move failed entries back to pending",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueStore(func(store *queue.Store) error {
				updated, err := store.RetryFailed(cmd.Context(), args...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %s for retry\n", pluralEntries(updated))
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var clearAll bool
	var clearProcessed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove queue entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if clearAll && clearProcessed {
				return errors.New("specify only one of --all or --processed")
			}
			if !clearAll && !clearProcessed {
				return errors.New("specify --processed or --all")
			}
			return ctx.withQueueStore(func(store *queue.Store) error {
				var removed int64
				var err error
				if clearAll {
					removed, err = store.Clear(cmd.Context())
				} else {
					removed, err = store.ClearProcessed(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", pluralEntries(removed))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearProcessed, "processed", false, "Remove processed entries only")
	cmd.Flags().BoolVar(&clearAll, "all", false, "Remove every entry regardless of status")
	return cmd
}

func newQueueHealthCommand(ctx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Show queue counts per lifecycle state",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withQueueStore(func(store *queue.Store) error {
				health, err := store.Health(cmd.Context())
				if err != nil {
					return err
				}
				if jsonFlag {
					return writeJSON(cmd, map[string]any{
						"total":     health.Total,
						"pending":   health.Pending,
						"processed": health.Processed,
						"failed":    health.Failed,
					})
				}
				rows := [][]string{
					{"pending", strconv.Itoa(health.Pending)},
					{"processed", strconv.Itoa(health.Processed)},
					{"failed", strconv.Itoa(health.Failed)},
					{"total", strconv.Itoa(health.Total)},
				}
				table := renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
				fmt.Fprintln(cmd.OutOrStdout(), table)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Emit counts as JSON")
	return cmd
}

func pluralEntries(n int64) string {
	if n == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", n)
}
