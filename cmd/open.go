package cmd

import (
	"errors"
	"fmt"

	"fiddle/cli/internal/render"
	"fiddle/cli/internal/session"

	"github.com/spf13/cobra"
)

var (
	openRun    bool
	openTab    string
	openSVGOut string
)

// openCmd decodes a share link and shows, or runs, the session it holds.
var openCmd = &cobra.Command{
	Use:   "open [LINK|TOKEN]",
	Short: "Show or run the session in a share link",
	Long: `The open command decodes a share link (or a bare token) and prints the
session it carries. Without an argument it uses the last link created by
'fiddle share'. With --run the session is executed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tab, err := render.ParseTab(openTab)
		if err != nil {
			return err
		}

		var token string
		if len(args) == 1 {
			token = session.TokenFromLink(args[0])
		} else if fl, err := session.DefaultFileLink(); err == nil {
			token, _ = fl.Token()
		}
		if token == "" {
			return errors.New("no link given and none shared yet")
		}

		s, ok := session.Decode(token)
		if !ok {
			return errors.New("the link does not contain a valid session")
		}

		if !openRun {
			printSession(cmd.OutOrStdout(), s)
			return nil
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		m := a.machine(session.NewMemoryLink(token))
		fmt.Fprintln(cmd.OutOrStdout())
		return executeAndRender(cmd, a, m, s, tab, openSVGOut)
	},
}

func init() {
	openCmd.Flags().BoolVar(&openRun, "run", false, "Execute the session")
	openCmd.Flags().StringVarP(&openTab, "tab", "t", string(render.TabTable), "Result tab to show with --run")
	openCmd.Flags().StringVar(&openSVGOut, "svg-out", "", "Write the rendered plan diagram to this file")
	rootCmd.AddCommand(openCmd)
}
