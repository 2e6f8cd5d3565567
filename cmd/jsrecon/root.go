package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for jsrecon.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jsrecon",
		Short: "JavaScript attack-surface scanner",
		Long: `jsrecon scans web applications through their JavaScript: it collects the
page, its inline scripts and external bundles, and runs a category
catalog over the decoded text to find subdomains, endpoints, potential
secrets, source maps, DOM XSS sinks and npm package references.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewSourceMapCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
