// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"time"

	"fiddle/cli/internal/httperrors"
	"fiddle/cli/internal/render"
	"fiddle/cli/internal/request"
	"fiddle/cli/internal/session"
	"fiddle/cli/internal/terminal"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runFlags  sessionFlags
	runTab    string
	runSVGOut string
)

// runCmd executes statements and prints the selected result tab.
var runCmd = &cobra.Command{
	Use:   "run [SQL]",
	Short: "Execute statements and show the result",
	Long: `The run command submits SQL to the query service and prints the result.

Statements are separated by ';'. All statements but the last are executed for
effect; the last one produces the result table and plans. Without SQL
arguments or --file, run starts from --link, else the last executed session,
else a built-in example.`,
	Example: `  fiddle run "select 1; select 2"
  fiddle run -f query.sql --tab all
  fiddle run --distributed --partitions 8 --partitions-per-task 2 "select * from t"
  fiddle run --link "https://fiddle.example.com/?q=eyJzdGF0ZW1lbnQiOi..."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := render.ParseTab(runTab)
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		m := a.machine(session.NewMemoryLink(session.TokenFromLink(runFlags.link)))
		base, src := m.InitialSession()
		a.log.Debug("initial session", zap.String("source", string(src)))

		s, err := runFlags.apply(cmd, base, args)
		if err != nil {
			return err
		}
		return executeAndRender(cmd, a, m, s, tab, runSVGOut)
	},
}

// executeAndRender runs s through m with a spinner and prints the settled state.
func executeAndRender(cmd *cobra.Command, a *app, m *request.Machine, s session.Session, tab render.Tab, svgOut string) error {
	out := cmd.OutOrStdout()

	var stop func()
	if terminal.IsInteractive() {
		m.OnChange(func(st request.State) {
			if st.Status == request.Loading && stop == nil {
				cursor.Hide()
				stop = startInlineSpinner(os.Stderr, spinnerText(a), []string{"|", "/", "-", "\\"}, 120*time.Millisecond)
			}
		})
	}

	st := m.Execute(cmd.Context(), s)
	if stop != nil {
		stop()
		cursor.Show()
	}

	if err := render.New(out, svgOut).State(st, tab); err != nil {
		return err
	}
	if st.Status != request.Failed {
		return nil
	}

	if cmd.Context().Err() != nil {
		return errReported
	}
	if hint := httperrors.Hint(st.Err, httperrors.ExtractHostFromURL(a.cfg.Endpoint)); hint != "" && !a.local {
		fmt.Fprintln(out, pterm.NewStyle(pterm.FgYellow).Sprint("→ "+hint))
	}
	return errReported
}

func spinnerText(a *app) string {
	if a.local {
		return "Running on local database"
	}
	return "Running on " + httperrors.ExtractHostFromURL(a.cfg.Endpoint)
}

func init() {
	runFlags.register(runCmd)
	runCmd.Flags().StringVarP(&runTab, "tab", "t", string(render.TabTable), "Result tab to show: table, logical, physical, graphviz or all")
	runCmd.Flags().StringVar(&runSVGOut, "svg-out", "", "Write the rendered plan diagram to this file")
	rootCmd.AddCommand(runCmd)
}
