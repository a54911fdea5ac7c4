package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gitsumm/gitsumm/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded summaries, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withLedger(cmd, func(ctx context.Context, store *ledger.Store) error {
			entries, err := store.Recent(ctx, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No summaries recorded yet.")
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s %s (%s/%s)\n",
					e.CreatedAt.Local().Format("2006-01-02 15:04"),
					e.Operation, e.Subject, e.Provider, e.Model)
				fmt.Fprintf(out, "    %s\n", firstLine(e.Summary))
			}
			return nil
		})
	},
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keep, _ := cmd.Flags().GetInt("keep")
		if keep < 0 {
			return errors.New("keep must be zero or positive")
		}
		return withLedger(cmd, func(ctx context.Context, store *ledger.Store) error {
			removed, err := store.Prune(ctx, keep)
			if err != nil {
				return err
			}
			noun := "entries"
			if removed == 1 {
				noun = "entry"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d %s, kept the newest %d\n", removed, noun, keep)
			return nil
		})
	},
}

func withLedger(cmd *cobra.Command, fn func(ctx context.Context, store *ledger.Store) error) error {
	store, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(cmd.Context(), store)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
