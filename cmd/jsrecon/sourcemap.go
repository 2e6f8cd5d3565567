package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsrecon/jsrecon/internal/config"
	"github.com/jsrecon/jsrecon/internal/fetch"
	"github.com/jsrecon/jsrecon/internal/log"
	"github.com/jsrecon/jsrecon/internal/sourcemap"
)

// NewSourceMapCmd creates the sourcemap command.
func NewSourceMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sourcemap <map-url>",
		Short: "Reconstruct original sources from a source map",
		Long: `Sourcemap fetches a source-map document and recovers the original file
tree, preferring inline sourcesContent and fetching each remaining file
independently. Unreachable files become placeholder entries; the rest of
the tree is still written.

Examples:
  jsrecon sourcemap https://app.example.com/static/app.js.map
  jsrecon sourcemap -o ./recovered https://app.example.com/static/app.js.map`,
		Args: cobra.ExactArgs(1),
		RunE: runSourceMapCmd,
	}

	cmd.Flags().StringP("output", "o", "recovered-sources",
		"Directory to write the recovered tree into")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each request")
	cmd.Flags().Int("max-concurrent", config.DefaultMaxConcurrentFetches,
		"Maximum concurrent outbound requests")
	cmd.Flags().Duration("request-delay", config.DefaultRequestDelay,
		"Delay between fetch windows")

	return cmd
}

// runSourceMapCmd executes the sourcemap command.
func runSourceMapCmd(cmd *cobra.Command, args []string) error {
	outDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	maxConcurrent, err := cmd.Flags().GetInt("max-concurrent")
	if err != nil {
		return err
	}
	delay, err := cmd.Flags().GetDuration("request-delay")
	if err != nil {
		return err
	}

	logger := log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	fetcher := fetch.NewFetcher(
		&http.Client{Timeout: timeout},
		fetch.WithMaxConcurrent(maxConcurrent),
		fetch.WithRequestDelay(delay),
		fetch.WithLogger(logger),
	)

	mapURL := args[0]
	tree := sourcemap.NewReconstructor(fetcher, sourcemap.WithLogger(logger)).Reconstruct(ctx, mapURL)

	written, err := sourcemap.WriteTree(outDir, tree)
	if err != nil {
		return fmt.Errorf("write recovered tree: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Recovered %d file(s) from %s into %s\n", written, mapURL, outDir)
	if msg, ok := tree[sourcemap.ErrorLogFile]; ok {
		fmt.Fprintf(cmd.OutOrStdout(), "Note: %s\n", msg)
	}
	return nil
}
