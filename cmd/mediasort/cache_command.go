package main

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mediasort/internal/pickcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the pick cache",
	}
	cmd.AddCommand(newCacheShowCommand(ctx), newCacheClearCommand(ctx))
	return cmd
}

func newCacheShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List remembered picks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cache := pickcache.New(cfg.PickCache.Path, cfg.PickCache.Enabled, nil)
			entries := cache.List()

			if ctx.jsonOutput() {
				return writeJSON(cmd, entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Pick cache is empty.")
				return nil
			}

			keys := make([]string, 0, len(entries))
			for key := range entries {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			rows := make([][]string, 0, len(entries))
			for _, key := range keys {
				entry := entries[key]
				year := ""
				if entry.Year != 0 {
					year = strconv.Itoa(entry.Year)
				}
				rows = append(rows, []string{
					key,
					entry.Kind,
					entry.Title,
					year,
					entry.CachedAt.Format(time.RFC3339),
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(out,
				[]string{"Source", "Kind", "Title", "Year", "Cached"}, rows))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all remembered picks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			cache := pickcache.New(cfg.PickCache.Path, cfg.PickCache.Enabled, nil)
			removed := cache.Count()
			cache.Clear()
			if err := cache.Flush(); err != nil {
				return fmt.Errorf("write pick cache: %w", err)
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int{"removed": removed})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached picks.\n", removed)
			return nil
		},
	}
}
