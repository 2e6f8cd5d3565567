package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsrecon/jsrecon/internal/cache"
	"github.com/jsrecon/jsrecon/internal/config"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "List persisted scan results",
		Long: `History reads the local scan database. With a URL argument it lists that
target's past scans; without one it lists every scanned target.

Examples:
  jsrecon history
  jsrecon history https://app.example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	store, err := cache.OpenStore(dbDir)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if len(args) == 0 {
		targets, err := store.Targets(ctx)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			fmt.Fprintln(out, "No scan history.")
			return nil
		}
		for _, t := range targets {
			fmt.Fprintln(out, t)
		}
		return nil
	}

	target := args[0]
	records, err := store.History(ctx, target)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintf(out, "No scan history for %s\n", target)
		return nil
	}

	for _, rec := range records {
		total := 0
		for _, findings := range rec.Results {
			total += len(findings)
		}
		fmt.Fprintf(out, "%s  %d finding(s) across %d categorie(s)\n",
			time.UnixMilli(rec.Timestamp).Format("2006-01-02 15:04:05"),
			total, len(rec.Results))
	}
	return nil
}
