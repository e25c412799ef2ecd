package cmd

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"fiddle/cli/internal/session"

	"github.com/pterm/pterm"
)

// startInlineSpinner starts a simple inline spinner animation on a single line.
// It displays rotating animation frames followed by the provided text, updating
// the same line in the terminal. The returned function stops the spinner and
// clears its line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", frames[i%len(frames)], text)
				i++
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
		})
	}
}

// openBrowser attempts to open the provided URL in the user's default browser.
// It starts the browser process but does not wait for it to complete.
func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

// printSession shows the session parameters and statement text.
func printSession(w io.Writer, s session.Session) {
	label := pterm.NewStyle(pterm.FgLightCyan)
	value := pterm.NewStyle(pterm.FgCyan, pterm.Bold)

	fmt.Fprintln(w, label.Sprint("→ Distributed:         ")+value.Sprint(s.Distributed))
	fmt.Fprintln(w, label.Sprint("→ Partitions:          ")+value.Sprint(s.Partitions))
	if s.Distributed {
		fmt.Fprintln(w, label.Sprint("→ Partitions per task: ")+value.Sprint(s.PartitionsPerTask))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, pterm.DefaultBox.WithTitle(label.Sprint("Statement")).Sprint(s.Statement))
}
