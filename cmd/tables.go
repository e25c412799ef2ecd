package cmd

import (
	"fiddle/cli/internal/render"
	"fiddle/cli/internal/session"

	"github.com/spf13/cobra"
)

// tablesCmd lists the tables visible to the query service.
var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List available tables",
	Long: `The tables command runs SHOW TABLES and prints the result. It does not
change the persisted session.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		// No session store: listing tables must not replace the user's last query.
		a.sessions = nil
		m := a.machine(nil)
		s := session.Default().WithStatement("SHOW TABLES")
		return executeAndRender(cmd, a, m, s, render.TabTable, "")
	},
}

func init() {
	rootCmd.AddCommand(tablesCmd)
}
