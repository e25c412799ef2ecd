package diagram

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	ferrors "fiddle/cli/internal/errors"
)

// DotConverter runs the Graphviz "dot" binary to produce SVG.
type DotConverter struct {
	// Path is the dot executable; empty means "dot" from PATH.
	Path string
}

// Convert pipes src through `dot -Tsvg`.
func (d DotConverter) Convert(ctx context.Context, src string) (string, error) {
	bin := d.Path
	if bin == "" {
		bin = "dot"
	}
	if _, err := exec.LookPath(bin); err != nil {
		return "", ferrors.Wrap(ferrors.DiagramRender, "graphviz dot not found", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-Tsvg")
	cmd.Stdin = strings.NewReader(src)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "dot exited with an error"
		}
		return "", ferrors.Wrap(ferrors.DiagramRender, msg, err)
	}
	return stdout.String(), nil
}
