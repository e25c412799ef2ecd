// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"os"

	"fiddle/cli/internal/auth"
	"fiddle/cli/internal/keychain"
	"fiddle/cli/internal/terminal"

	"github.com/spf13/cobra"
)

// loginCmd stores an API token for the query service.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Store an API token for the query service",
	Long: `The login command reads an API token and stores it in the OS keychain. The
token is sent as a bearer token with every request. Input is hidden when read
from a terminal; the token can also be piped in.

FIDDLE_TOKEN, when set, takes precedence over the stored token.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			return fmt.Errorf("%w: %v", auth.ErrNoStore, err)
		}
		svc := auth.NewService(km, os.Getenv)

		prompt := "API token: "
		token, err := terminal.ReadSecret(prompt, cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("read token: %w", err)
		}
		if token == "" {
			return errors.New("no token entered")
		}
		if err := svc.Login(token); err != nil {
			return err
		}
		if terminal.IsInteractive() {
			terminal.ClearPreviousLines(len(prompt))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Token saved to the OS keychain")
		if _, src := svc.Token(); src == auth.SourceEnv {
			fmt.Fprintln(cmd.OutOrStdout(), "   Note: FIDDLE_TOKEN is set and will be used instead")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
