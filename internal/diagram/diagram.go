// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package diagram converts Graphviz DOT sources into SVG markup.
//
// Rendering is a post-processing step: a failed conversion never fails the
// execution that produced the source. Callers get the SVG and true, or an empty
// string and false with the failure written to the diagnostic log.
package diagram

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// Converter turns DOT source into SVG markup.
type Converter interface {
	Convert(ctx context.Context, dot string) (string, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(ctx context.Context, dot string) (string, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, dot string) (string, error) {
	return f(ctx, dot)
}

// PostProcessor wraps a Converter with the failure isolation rendering needs.
type PostProcessor struct {
	conv Converter
	log  *zap.Logger
}

// NewPostProcessor returns a PostProcessor. A nil logger discards diagnostics.
func NewPostProcessor(conv Converter, log *zap.Logger) *PostProcessor {
	if log == nil {
		log = zap.NewNop()
	}
	return &PostProcessor{conv: conv, log: log}
}

// Render converts src. An empty source, a nil converter, a conversion error and
// a converter panic all yield ("", false).
func (p *PostProcessor) Render(ctx context.Context, src string) (svg string, ok bool) {
	if strings.TrimSpace(src) == "" || p == nil || p.conv == nil {
		return "", false
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error("diagram renderer panicked", zap.Any("panic", r), zap.Int("source_bytes", len(src)))
			svg, ok = "", false
		}
	}()

	out, err := p.conv.Convert(ctx, src)
	if err != nil {
		p.log.Error("diagram render failed", zap.Error(err), zap.Int("source_bytes", len(src)))
		return "", false
	}
	if !looksLikeSVG(out) {
		p.log.Error("diagram renderer returned non-SVG output", zap.String("head", head(out, 64)))
		return "", false
	}
	return out, true
}

func looksLikeSVG(s string) bool {
	return strings.Contains(s, "<svg")
}

func head(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
