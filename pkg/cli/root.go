// Package cli implements the rewrite proxy's command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is injected during build.
	Version = "dev"
	// Commit is injected during build.
	Commit = "none"
)

var rootCmd = &cobra.Command{
	Use:           "rewrite",
	Short:         "rewrite is a per-client HTTP interception and mocking proxy",
	Long:          `rewrite receives intercepted HTTP requests from a client SDK, matches them against that client's mock rules, and either synthesizes a response or forwards the request upstream — streaming every decision to any observers watching that client.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
