// Package terminal provides utilities for terminal operations such as clearing
// text and reading hidden input.
package terminal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Width returns the stdout terminal width, or 80 when unavailable.
func Width() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

// IsInteractive reports whether stdout is a terminal. Spinners and cursor
// hiding are skipped otherwise.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// linesUsed returns how many rows textLength characters occupy at width,
// plus the row the cursor lands on after Enter.
func linesUsed(textLength, width int) int {
	if width <= 0 {
		width = 80
	}
	total := (textLength + width - 1) / width
	if total < 1 {
		total = 1
	}
	return total + 1
}

// ClearPreviousLines clears text from the terminal that was previously printed.
// textLength is the total number of characters of the prompt plus user input.
func ClearPreviousLines(textLength int) {
	clearLines(os.Stdout, linesUsed(textLength, Width()))
}

func clearLines(w io.Writer, n int) {
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K") // Move to start and clear entire line
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A") // Move up one line (don't move up on last iteration)
		}
	}
}

// ReadSecret prints prompt and reads a line without echo when stdin is a
// terminal, or a plain line from in otherwise (pipes, tests).
func ReadSecret(prompt string, in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, prompt)
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
