// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"

	"fiddle/cli/internal/auth"
	"fiddle/cli/internal/keychain"

	"github.com/spf13/cobra"
)

// logoutCmd removes the stored API token.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored API token",
	Long: `The logout command removes the API token from the OS keychain. It does not
unset FIDDLE_TOKEN.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			return fmt.Errorf("%w: %v", auth.ErrNoStore, err)
		}
		had, err := auth.NewService(km, os.Getenv).Logout()
		if err != nil {
			return err
		}
		if had {
			fmt.Fprintln(cmd.OutOrStdout(), "✅ API token removed")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No API token was stored")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
