// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"fmt"
)

// Request is the body of POST <execute path>.
type Request struct {
	Stmts             []string `json:"stmts"`
	Distributed       bool     `json:"distributed"`
	Partitions        int      `json:"partitions"`
	PartitionsPerTask int      `json:"partitions_per_task"`
}

// Column is one (name, type) pair of the result schema. On the wire it is a
// two element array.
type Column struct {
	Name string
	Type string
}

// MarshalJSON encodes the column as ["name", "type"].
func (c Column) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{c.Name, c.Type})
}

// UnmarshalJSON decodes a ["name", "type"] pair.
func (c *Column) UnmarshalJSON(b []byte) error {
	var pair []string
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("column: want [name, type], got %d elements", len(pair))
	}
	c.Name, c.Type = pair[0], pair[1]
	return nil
}

// Result is the success payload of an execution.
type Result struct {
	Columns      []Column   `json:"columns"`
	Rows         [][]string `json:"rows"`
	LogicalPlan  string     `json:"logical_plan"`
	PhysicalPlan string     `json:"physical_plan"`
	// Graphviz is the DOT source of the physical plan; empty means no diagram.
	Graphviz string `json:"graphviz"`
	// GraphvizSVG is filled client side once the diagram has been rendered.
	// It is never read from the wire.
	GraphvizSVG string `json:"-"`
}

// validationBody is the 400 payload.
type validationBody struct {
	Message *string `json:"message"`
}
