// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"fiddle/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	shareFlags sessionFlags
	shareOpen  bool
	shareToken bool
)

// shareCmd encodes a session into a link without executing it.
var shareCmd = &cobra.Command{
	Use:   "share [SQL]",
	Short: "Print a shareable link for a session",
	Long: `The share command encodes the session (statement text plus execution
parameters) into a link that reopens it. Without SQL arguments or --file it
shares the last executed session. The token is remembered so that
'fiddle open' without arguments reloads it.`,
	Example: `  fiddle share "select 1"
  fiddle share --distributed --partitions 6 -f query.sql --open`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		var links *session.FileLink
		if fl, err := session.DefaultFileLink(); err == nil {
			links = fl
		}
		m := a.machine(session.NewMemoryLink(session.TokenFromLink(shareFlags.link)))
		base, _ := m.InitialSession()
		s, err := shareFlags.apply(cmd, base, args)
		if err != nil {
			return err
		}

		token, err := m.Share(s)
		if err != nil {
			return err
		}
		if links != nil {
			if err := links.SetToken(token); err != nil {
				a.log.Warn("remember share token", zap.Error(err))
			}
		}

		out := cmd.OutOrStdout()
		if shareToken {
			fmt.Fprintln(out, token)
			return nil
		}
		link := session.Link(a.cfg.ShareBase(), token)
		fmt.Fprintln(out, pterm.NewStyle(pterm.FgLightBlue).Sprint(link))
		if shareOpen {
			if err := openBrowser(link); err != nil {
				return fmt.Errorf("open browser: %w", err)
			}
		}
		return nil
	},
}

func init() {
	shareFlags.register(shareCmd)
	shareCmd.Flags().BoolVar(&shareOpen, "open", false, "Open the link in the default browser")
	shareCmd.Flags().BoolVar(&shareToken, "token", false, "Print only the token")
	rootCmd.AddCommand(shareCmd)
}
