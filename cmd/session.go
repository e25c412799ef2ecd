package cmd

import (
	"fmt"

	"fiddle/cli/internal/session"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// sessionCmd groups operations on the persisted session.
var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Show or reset the last executed session",
}

var sessionShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the last executed session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := session.DefaultFileStore()
		if err != nil {
			return err
		}
		s, ok, err := fs.Load()
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		if !ok {
			pterm.Println("No session saved yet; showing the default.")
			pterm.Println()
			s = session.Default()
		}
		printSession(cmd.OutOrStdout(), s.Normalized())
		return nil
	},
}

var sessionResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget the last executed session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := session.DefaultFileStore()
		if err != nil {
			return err
		}
		if err := fs.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Session reset")
		return nil
	},
}

func init() {
	sessionCmd.AddCommand(sessionShowCmd, sessionResetCmd)
	rootCmd.AddCommand(sessionCmd)
}
