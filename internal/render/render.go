// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render prints request states to the terminal with pterm.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fiddle/cli/internal/backend"
	"fiddle/cli/internal/request"

	"github.com/pterm/pterm"
)

// Tab selects which representation of a result is printed.
type Tab string

const (
	TabTable    Tab = "table"
	TabLogical  Tab = "logical"
	TabPhysical Tab = "physical"
	TabGraphviz Tab = "graphviz"
	TabAll      Tab = "all"
)

// Tabs lists the accepted tab names in display order.
var Tabs = []Tab{TabTable, TabLogical, TabPhysical, TabGraphviz, TabAll}

// ParseTab validates a tab name.
func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Tabs {
		if t == known {
			return t, nil
		}
	}
	names := make([]string, len(Tabs))
	for i, k := range Tabs {
		names[i] = string(k)
	}
	return "", fmt.Errorf("unknown tab %q (want one of %s)", s, strings.Join(names, ", "))
}

// Renderer writes states to w.
type Renderer struct {
	w io.Writer
	// svgOut, when set, receives the rendered diagram instead of the DOT source.
	svgOut string
}

// New returns a Renderer writing to w. svgOut may be empty.
func New(w io.Writer, svgOut string) *Renderer {
	return &Renderer{w: w, svgOut: svgOut}
}

// State prints st. Only Succeeded states use tab.
func (r *Renderer) State(st request.State, tab Tab) error {
	switch st.Status {
	case request.Idle:
		_, err := fmt.Fprintln(r.w, pterm.NewStyle(pterm.FgGray).Sprint("Nothing executed yet."))
		return err
	case request.Loading:
		_, err := fmt.Fprintln(r.w, pterm.NewStyle(pterm.FgLightCyan).Sprint("Running..."))
		return err
	case request.Failed:
		return r.failure(st.Message)
	case request.Succeeded:
		return r.result(st.Result, tab)
	}
	return nil
}

func (r *Renderer) failure(msg string) error {
	box := pterm.DefaultBox.
		WithTitle(pterm.NewStyle(pterm.FgRed, pterm.Bold).Sprint("Query failed")).
		Sprint(msg)
	_, err := fmt.Fprintln(r.w, box)
	return err
}

func (r *Renderer) result(res *backend.Result, tab Tab) error {
	if res == nil {
		return nil
	}
	switch tab {
	case TabLogical:
		return r.plan("Logical plan", res.LogicalPlan)
	case TabPhysical:
		return r.plan("Physical plan", res.PhysicalPlan)
	case TabGraphviz:
		return r.diagram(res)
	case TabAll:
		for _, fn := range []func() error{
			func() error { return r.table(res) },
			func() error { return r.plan("Logical plan", res.LogicalPlan) },
			func() error { return r.plan("Physical plan", res.PhysicalPlan) },
			func() error { return r.diagram(res) },
		} {
			if err := fn(); err != nil {
				return err
			}
		}
		return nil
	default:
		return r.table(res)
	}
}

func (r *Renderer) heading(title string) {
	fmt.Fprintln(r.w, pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint(title))
}

func (r *Renderer) table(res *backend.Result) error {
	if len(res.Columns) == 0 {
		_, err := fmt.Fprintln(r.w, pterm.NewStyle(pterm.FgGray).Sprint("(no columns)"))
		return err
	}

	data := make(pterm.TableData, 0, len(res.Rows)+1)
	header := make([]string, len(res.Columns))
	for i, c := range res.Columns {
		header[i] = c.Name
		if c.Type != "" {
			header[i] += " (" + c.Type + ")"
		}
	}
	data = append(data, header)
	for _, row := range res.Rows {
		data = append(data, padRow(row, len(header)))
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(r.w, out)

	noun := "rows"
	if len(res.Rows) == 1 {
		noun = "row"
	}
	_, err = fmt.Fprintln(r.w, pterm.NewStyle(pterm.FgGray).Sprintf("%d %s", len(res.Rows), noun))
	return err
}

// padRow keeps ragged rows from breaking the table layout.
func padRow(row []string, n int) []string {
	if len(row) == n {
		return row
	}
	out := make([]string, n)
	copy(out, row)
	return out
}

func (r *Renderer) plan(title, text string) error {
	r.heading(title)
	if strings.TrimSpace(text) == "" {
		_, err := fmt.Fprintln(r.w, pterm.NewStyle(pterm.FgGray).Sprint("(not available)"))
		return err
	}
	_, err := fmt.Fprintln(r.w, text)
	return err
}

func (r *Renderer) diagram(res *backend.Result) error {
	r.heading("Diagram")
	if res.Graphviz == "" {
		_, err := fmt.Fprintln(r.w, pterm.NewStyle(pterm.FgGray).Sprint("(no diagram)"))
		return err
	}
	if res.GraphvizSVG != "" && r.svgOut != "" {
		if err := WriteSVG(r.svgOut, res.GraphvizSVG); err != nil {
			return err
		}
		_, err := fmt.Fprintln(r.w, "SVG written to "+pterm.NewStyle(pterm.FgLightBlue).Sprint(r.svgOut))
		return err
	}
	if res.GraphvizSVG == "" && r.svgOut != "" {
		fmt.Fprintln(r.w, pterm.NewStyle(pterm.FgYellow).Sprint("Diagram could not be rendered; showing source."))
	}
	_, err := fmt.Fprintln(r.w, res.Graphviz)
	return err
}

// WriteSVG stores svg at path.
func WriteSVG(path, svg string) error {
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}
