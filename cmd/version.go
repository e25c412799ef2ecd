// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI and backend version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd)
	},
}

func printVersion(cmd *cobra.Command) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	backendVersion, err := a.gateway.GetVersion(cmd.Context())
	if err != nil {
		a.log.Debug("version lookup failed")
		backendVersion = "unknown"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "fiddle %s\nbackend %s\n", Version, backendVersion)
	return nil
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
