package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsrecon/jsrecon/internal/cache"
	"github.com/jsrecon/jsrecon/internal/config"
	"github.com/jsrecon/jsrecon/internal/fetch"
	"github.com/jsrecon/jsrecon/internal/gather"
	"github.com/jsrecon/jsrecon/internal/log"
	"github.com/jsrecon/jsrecon/internal/pipeline"
	"github.com/jsrecon/jsrecon/internal/report"
	"github.com/jsrecon/jsrecon/internal/rules"
	"github.com/jsrecon/jsrecon/internal/scanner"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <url>...",
		Short: "Scan one or more URLs for JavaScript attack surface",
		Long: `Scan fetches each target page, gathers its inline and external scripts,
and runs the category catalog over the decoded content.

Examples:
  # Scan a single application
  jsrecon scan https://app.example.com

  # Scan several targets concurrently
  jsrecon scan https://a.example.com https://b.example.com

  # Markdown report written to a file
  jsrecon scan --markdown -o report.md https://app.example.com

  # Probe npm for referenced package names
  jsrecon scan --probe-npm https://app.example.com

Configuration file (.jsrecon) example:
  excluded_domains:
    - googletagmanager.com
    - /cdn\d+\.example\.net/
  excluded_rules:
    - jwt
  interesting_params:
    - redirect
    - callback`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"HTTP timeout for each request")
	cmd.Flags().Int("max-concurrent", config.DefaultMaxConcurrentFetches,
		"Maximum concurrent outbound requests")
	cmd.Flags().Duration("request-delay", config.DefaultRequestDelay,
		"Delay between fetch windows")
	cmd.Flags().Duration("regex-timeout", config.DefaultRegexTimeout,
		"Wall-clock budget per rule per source")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of targets scanned concurrently")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .jsrecon in current or home directory)")
	cmd.Flags().StringSlice("exclude-domain", nil,
		"Script-URL pattern to skip (substring or /regex/); repeatable")
	cmd.Flags().StringSlice("exclude-rule", nil,
		"Rule ID to disable; repeatable")
	cmd.Flags().StringSlice("param", nil,
		"Interesting parameter name to hunt for; repeatable")
	cmd.Flags().String("rules", "",
		"Custom secret-rules YAML file (extends the built-in secret set)")
	cmd.Flags().Bool("probe-npm", false,
		"Check npm package findings against the public registry")
	cmd.Flags().Bool("no-save", false,
		"Do not persist results to the history database")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags and the
// optional settings file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	var err error

	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.MaxConcurrentFetches, err = cmd.Flags().GetInt("max-concurrent"); err != nil {
		return nil, err
	}
	if cfg.RequestDelay, err = cmd.Flags().GetDuration("request-delay"); err != nil {
		return nil, err
	}
	if cfg.RegexTimeout, err = cmd.Flags().GetDuration("regex-timeout"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.ExcludedDomains, err = cmd.Flags().GetStringSlice("exclude-domain"); err != nil {
		return nil, err
	}
	if cfg.ExcludedRuleIDs, err = cmd.Flags().GetStringSlice("exclude-rule"); err != nil {
		return nil, err
	}
	if cfg.InterestingParams, err = cmd.Flags().GetStringSlice("param"); err != nil {
		return nil, err
	}
	if cfg.RulesFile, err = cmd.Flags().GetString("rules"); err != nil {
		return nil, err
	}
	if cfg.ProbeNPM, err = cmd.Flags().GetBool("probe-npm"); err != nil {
		return nil, err
	}
	if cfg.NoSave, err = cmd.Flags().GetBool("no-save"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	// If the user named a settings file it must exist; otherwise a
	// missing .jsrecon is simply no settings.
	explicit := cfg.ConfigFilePath != ""
	if path := config.FindConfigFile(cfg.ConfigFilePath); path != "" {
		f, err := config.LoadConfigFile(path)
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
		cfg.ApplyFile(f)
	} else if explicit {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.DBDir = config.XDGDataDir()
	cfg.Targets = args

	return cfg, nil
}

// runScan wires the components and executes the batch.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	catalog, err := buildCatalog(cfg, logger)
	if err != nil {
		return err
	}

	exclusions, err := gather.NewExclusionList(cfg.ExcludedDomains)
	if err != nil {
		return err
	}

	fetcher := fetch.NewFetcher(
		&http.Client{Timeout: cfg.Timeout},
		fetch.WithMaxConcurrent(cfg.MaxConcurrentFetches),
		fetch.WithRequestDelay(cfg.RequestDelay),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
		fetch.WithLogger(logger),
	)
	gatherer := gather.NewGatherer(fetcher,
		gather.WithExclusions(exclusions),
		gather.WithScriptCache(cache.NewBounded(config.DefaultCacheSize)),
		gather.WithGathererLogger(logger),
	)

	steps := []pipeline.Step{
		&pipeline.GatherStep{Gatherer: gatherer},
		&pipeline.ScanStep{
			NewEngine: func(hostname string) *scanner.Engine {
				return scanner.NewEngine(catalog, hostname,
					scanner.WithMatchTimeout(cfg.RegexTimeout),
					scanner.WithEngineLogger(logger),
				)
			},
		},
	}
	if cfg.ProbeNPM {
		steps = append(steps, &pipeline.NPMProbeStep{Fetcher: fetcher})
	}

	var store *cache.Store
	if !cfg.NoSave {
		store, err = cache.OpenStore(cfg.DBDir)
		if err != nil {
			return fmt.Errorf("open history store: %w", err)
		}
		defer store.Close()
		if err := store.Prune(ctx, config.DefaultHistoryMaxAge, config.DefaultHistoryMaxRows); err != nil {
			logger.Warn("history prune failed", "error", err)
		}
		steps = append(steps, &pipeline.SaveStep{Store: store})
	}

	p := pipeline.New(steps,
		pipeline.WithLogger(logger),
		pipeline.WithContinueOnError(),
	)
	bp := pipeline.NewBatchProcessor(p, cfg.BatchSize, logger)

	start := time.Now()
	results := bp.Process(ctx, cfg.Targets)
	fmt.Fprintf(os.Stderr, "Scanned %d target(s) in %s\n", len(results), time.Since(start).Round(time.Millisecond))

	writer, cleanup, err := buildReportWriter(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	var firstErr error
	for _, result := range results {
		if _, err := writer.Write(result); err != nil {
			return fmt.Errorf("write report for %s: %w", result.Target, err)
		}
		if result.Error != nil && firstErr == nil {
			firstErr = result.Error
		}
	}
	return firstErr
}

// buildCatalog compiles the rule catalog from configuration.
func buildCatalog(cfg *config.Config, logger *slog.Logger) (*rules.Catalog, error) {
	opts := []rules.CatalogOption{
		rules.WithCatalogLogger(logger),
		rules.WithExcludedRuleIDs(cfg.ExcludedRuleIDs),
		rules.WithInterestingParams(cfg.InterestingParams),
	}

	if cfg.RulesFile != "" {
		secrets, categories, err := rules.LoadRulesFile(cfg.RulesFile)
		if err != nil {
			return nil, fmt.Errorf("load rules file %s: %w", cfg.RulesFile, err)
		}
		opts = append(opts, rules.WithSecretRules(secrets), rules.WithCustomCategories(categories))
	}

	return rules.NewCatalog(opts...), nil
}

// buildReportWriter selects the output format and destination.
func buildReportWriter(cfg *config.Config) (report.Writer, func(), error) {
	output := os.Stdout
	cleanup := func() {}

	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, nil, fmt.Errorf("create output directory: %w", err)
			}
		}
		// Reports can carry secrets; keep them owner-readable only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("create output file: %w", err)
		}
		output = f
		cleanup = func() { _ = f.Close() }
	}

	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output), cleanup, nil
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output), cleanup, nil
	default:
		return report.NewSimpleWriter(output), cleanup, nil
	}
}
