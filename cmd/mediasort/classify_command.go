package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mediasort/internal/identify"
	"mediasort/internal/ledger"
	"mediasort/internal/library"
	"mediasort/internal/logging"
)

// classifiedItem is the per-name output row.
type classifiedItem struct {
	Name        string            `json:"name"`
	Decision    identify.Decision `json:"decision"`
	Destination string            `json:"destination,omitempty"`
}

func newClassifyCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <name-or-path>...",
		Short: "Classify file names or directory contents",
		Long: `Classify one or more media file names. Arguments may be literal names,
files, or directories; directories are scanned for media files. Each
decision is recorded in the ledger and the planned destination printed.
No files are moved.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return fmt.Errorf("setup logging: %w", err)
			}

			names, err := collectNames(args)
			if err != nil {
				return err
			}
			if len(names) == 0 {
				return fmt.Errorf("no media names found in arguments")
			}

			release, err := acquireRunLock(cfg)
			if err != nil {
				return err
			}
			defer release()

			engine, cache, err := ctx.newEngine(cfg, logger)
			if err != nil {
				return err
			}
			store, err := ledger.Open(cfg.LedgerPath())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			planner := library.NewPlanner(cfg.Paths)
			runID := ledger.NewRunID()
			logger.Info("classification run started",
				logging.String(logging.FieldEventType, "run_started"),
				logging.String("run_id", runID),
				logging.Int("item_count", len(names)))

			items := make([]classifiedItem, 0, len(names))
			for _, name := range names {
				decision := engine.Classify(cmd.Context(), name)

				item := classifiedItem{Name: name, Decision: decision}
				if plan, planErr := planner.Plan(decision, extOf(name)); planErr == nil {
					item.Destination = plan.FullPath()
				}
				items = append(items, item)

				if err := store.Upsert(cmd.Context(), ledger.Record{
					Key:        engine.CacheKey(name),
					SourceName: name,
					Decision:   decision,
					RunID:      runID,
				}); err != nil {
					logger.Warn("ledger write failed",
						logging.String(logging.FieldEventType, "ledger_write_failed"),
						logging.String("source", name),
						logging.Error(err))
				}
			}

			if err := cache.Flush(); err != nil {
				logger.Warn("pick cache flush failed",
					logging.String(logging.FieldEventType, "pickcache_flush_failed"),
					logging.Error(err))
			}

			if ctx.jsonOutput() {
				return writeJSON(cmd, items)
			}
			printDecisionTable(cmd, items)
			return nil
		},
	}
	return cmd
}

func printDecisionTable(cmd *cobra.Command, items []classifiedItem) {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		d := item.Decision
		marker := ""
		if d.IsTV() {
			marker = fmt.Sprintf("S%02dE%02d", d.Season, d.Episode)
		}
		year := ""
		if d.Year != 0 {
			year = strconv.Itoa(d.Year)
		}
		rows = append(rows, []string{
			item.Name,
			string(d.Kind),
			d.Title,
			year,
			marker,
			strconv.Itoa(d.Score),
			item.Destination,
		})
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderTable(out,
		[]string{"Source", "Kind", "Title", "Year", "Episode", "Score", "Destination"}, rows))
}

// collectNames expands arguments into classification targets: directory
// arguments are scanned for media files, everything else is taken as a
// file name.
func collectNames(args []string) ([]string, error) {
	var names []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			// Not a path: treat the argument as a literal name.
			names = append(names, filepath.Base(arg))
			continue
		}
		if !info.IsDir() {
			names = append(names, filepath.Base(arg))
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("scan directory %q: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if hasMediaExt(entry.Name()) {
				names = append(names, entry.Name())
			}
		}
	}
	return names, nil
}

func hasMediaExt(name string) bool {
	return identify.Stem(name) != name
}

func extOf(name string) string {
	if hasMediaExt(name) {
		return strings.ToLower(filepath.Ext(name))
	}
	return ""
}
