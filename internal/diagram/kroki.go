package diagram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	ferrors "fiddle/cli/internal/errors"
)

// DefaultKrokiURL is the public Kroki instance.
const DefaultKrokiURL = "https://kroki.io"

// KrokiConverter renders DOT through a Kroki server (POST {base}/graphviz/svg).
type KrokiConverter struct {
	BaseURL string
	Client  *http.Client
}

// NewKrokiConverter returns a converter for baseURL, or DefaultKrokiURL when empty.
func NewKrokiConverter(baseURL string) *KrokiConverter {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultKrokiURL
	}
	return &KrokiConverter{BaseURL: strings.TrimRight(baseURL, "/"), Client: &http.Client{}}
}

// Convert posts src as plain text and returns the SVG body.
func (k *KrokiConverter) Convert(ctx context.Context, src string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, k.BaseURL+"/graphviz/svg", strings.NewReader(src))
	if err != nil {
		return "", ferrors.Wrap(ferrors.DiagramRender, "create kroki request", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "image/svg+xml")

	client := k.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", ferrors.Wrap(ferrors.DiagramRender, "kroki request failed", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", ferrors.Wrap(ferrors.DiagramRender, "read kroki response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", ferrors.New(ferrors.DiagramRender, fmt.Sprintf("kroki returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b))))
	}
	return string(b), nil
}
