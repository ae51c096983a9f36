package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"mediasort/internal/ledger"
	"mediasort/internal/logging"
)

func newRescueCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rescue",
		Short: "Retry unclassified ledger entries with relaxed extraction",
		Long: `Re-run classification for every unclassified ledger entry, trying
additional candidate titles pulled from deeper inside each name. Entries
that resolve confidently are updated in the ledger; the rest stay
unclassified.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			release, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer release()

			store, err := ledger.Open(cfg.LedgerPath())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			records, err := store.ListUnclassified(cmd.Context())
			if err != nil {
				return fmt.Errorf("list unclassified records: %w", err)
			}
			if len(records) == 0 {
				if ctx.jsonOutput() {
					return writeJSON(cmd, map[string]any{"rescued": 0, "remaining": 0})
				}
				fmt.Fprintln(cmd.OutOrStdout(), "No unclassified entries to rescue.")
				return nil
			}

			engine, cache, err := ctx.newEngine(cfg, logger)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(records))
			for _, record := range records {
				names = append(names, record.SourceName)
			}

			runID := ledger.NewRunID()
			logger.Info("rescue pass started",
				logging.String(logging.FieldEventType, "rescue_started"),
				logging.String("run_id", runID),
				logging.Int("item_count", len(names)))

			results := engine.RunRescuePass(cmd.Context(), names)

			rescued := 0
			items := make([]classifiedItem, 0, len(results))
			for _, result := range results {
				if result.Decision.Confident() {
					rescued++
				}
				items = append(items, classifiedItem{Name: result.Name, Decision: result.Decision})
				if err := store.Upsert(cmd.Context(), ledger.Record{
					Key:        engine.CacheKey(result.Name),
					SourceName: result.Name,
					Decision:   result.Decision,
					RunID:      runID,
				}); err != nil {
					logger.Warn("ledger write failed",
						logging.String(logging.FieldEventType, "ledger_write_failed"),
						logging.String("source", result.Name),
						logging.Error(err))
				}
			}

			if err := cache.Flush(); err != nil {
				logger.Warn("pick cache flush failed",
					logging.String(logging.FieldEventType, "pickcache_flush_failed"),
					logging.Error(err))
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{
					"rescued":   rescued,
					"remaining": len(results) - rescued,
					"items":     items,
				})
			}

			printDecisionTable(cmd, items)
			fmt.Fprintf(cmd.OutOrStdout(), "Rescued %s of %s entries.\n",
				strconv.Itoa(rescued), strconv.Itoa(len(results)))
			return nil
		},
	}
	return cmd
}
