// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for fiddle.
// It implements subcommands for running statements against the query service,
// sharing sessions as links, and managing the API token, using the Cobra CLI
// framework and a pterm-based terminal UI.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var (
	showVersion  bool
	flagEndpoint string
	flagDSN      string
	flagVerbose  bool
)

// errReported marks failures that were already shown to the user.
var errReported = errors.New("reported")

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "fiddle",
	Short: "Run SQL against a fiddle query service and inspect the plans",
	Long: `fiddle submits SQL statements to a query-execution service and shows the result
table, the logical and physical plans and a rendered plan diagram. Sessions can be
shared as links and reopened later.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			return printVersion(cmd)
		}
		return cmd.Help()
	},
}

// Execute runs the CLI application.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI and backend version information")
	rootCmd.PersistentFlags().StringVar(&flagEndpoint, "endpoint", "", "Query service base URL (overrides config and FIDDLE_ENDPOINT)")
	rootCmd.PersistentFlags().StringVar(&flagDSN, "dsn", "", "Run against a PostgreSQL database instead of the query service (or FIDDLE_DSN)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Write debug logs to stderr (or FIDDLE_VERBOSE=1)")
}
