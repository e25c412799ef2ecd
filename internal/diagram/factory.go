package diagram

import "strings"

// Renderer names accepted by NewConverter.
const (
	RendererDot   = "dot"
	RendererKroki = "kroki"
	RendererNone  = "none"
)

// NewConverter picks a Converter by renderer name. "none" and unknown names
// return nil, which makes every render a no-op.
func NewConverter(renderer, dotPath, krokiURL string) Converter {
	switch strings.ToLower(strings.TrimSpace(renderer)) {
	case "", RendererDot:
		return DotConverter{Path: dotPath}
	case RendererKroki:
		return NewKrokiConverter(krokiURL)
	default:
		return nil
	}
}
