package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediasort/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect or clear the decision ledger",
	}
	cmd.AddCommand(newLedgerListCommand(ctx), newLedgerClearCommand(ctx))
	return cmd
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	var unclassifiedOnly bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded decisions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			store, err := ledger.Open(cfg.LedgerPath())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			var records []ledger.Record
			if unclassifiedOnly {
				records, err = store.ListUnclassified(cmd.Context())
			} else {
				records, err = store.List(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("list ledger records: %w", err)
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, records)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No ledger records.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				d := record.Decision
				marker := ""
				if d.IsTV() {
					marker = fmt.Sprintf("S%02dE%02d", d.Season, d.Episode)
				}
				year := ""
				if d.Year != 0 {
					year = strconv.Itoa(d.Year)
				}
				rows = append(rows, []string{
					record.SourceName,
					string(d.Kind),
					d.Title,
					year,
					marker,
					strconv.Itoa(d.Score),
					record.UpdatedAt.Format(time.RFC3339),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Source", "Kind", "Title", "Year", "Episode", "Score", "Updated"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&unclassifiedOnly, "unclassified", false, "only show unclassified entries")
	return cmd
}

func newLedgerClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all ledger records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			store, err := ledger.Open(cfg.LedgerPath())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			removed, err := store.Count(cmd.Context())
			if err != nil {
				return fmt.Errorf("count ledger records: %w", err)
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return fmt.Errorf("clear ledger: %w", err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"removed": removed})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d ledger records.\n", removed)
			return nil
		},
	}
}
