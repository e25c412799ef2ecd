package sqlexec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// planNode is the subset of an EXPLAIN (FORMAT JSON) node the diagram shows.
type planNode struct {
	ID           string
	NodeType     string
	RelationName string
	Alias        string
	IndexName    string
	JoinType     string
	Strategy     string
	PlanRows     float64
	Children     []*planNode
}

// parsePlan reads a PostgreSQL EXPLAIN (FORMAT JSON) document and returns its root node.
func parsePlan(r io.Reader) (*planNode, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var payload any
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode explain json: %w", err)
	}

	var entry map[string]any
	switch v := payload.(type) {
	case []any:
		if len(v) == 0 {
			return nil, errors.New("explain json: empty payload")
		}
		obj, ok := v[0].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("explain json: invalid entry %T", v[0])
		}
		entry = obj
	case map[string]any:
		entry = v
	default:
		return nil, fmt.Errorf("explain json: unexpected top-level type %T", payload)
	}

	root, ok := entry["Plan"].(map[string]any)
	if !ok {
		return nil, errors.New("explain json: missing Plan root")
	}
	return parsePlanNode(root, "0")
}

func parsePlanNode(data map[string]any, path string) (*planNode, error) {
	node := &planNode{
		ID:           path,
		NodeType:     asString(data["Node Type"]),
		RelationName: asString(data["Relation Name"]),
		Alias:        asString(data["Alias"]),
		IndexName:    asString(data["Index Name"]),
		JoinType:     asString(data["Join Type"]),
		Strategy:     asString(data["Strategy"]),
		PlanRows:     asFloat(data["Plan Rows"]),
	}
	if node.NodeType == "" {
		return nil, fmt.Errorf("explain json: node %s has no Node Type", path)
	}

	children, _ := data["Plans"].([]any)
	for i, c := range children {
		obj, ok := c.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parse child plan (%s.%d): invalid node %T", path, i, c)
		}
		child, err := parsePlanNode(obj, fmt.Sprintf("%s.%d", path, i))
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case json.Number:
		f, _ := n.Float64()
		return f
	case float64:
		return n
	default:
		return 0
	}
}

// PlanDOT converts an EXPLAIN (FORMAT JSON) document into Graphviz DOT. Edges
// point from each input to the operator consuming it.
func PlanDOT(r io.Reader) (string, error) {
	root, err := parsePlan(r)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("digraph plan {\n")
	b.WriteString("  rankdir=BT;\n")
	b.WriteString("  node [shape=box, fontname=\"Helvetica\"];\n")
	writeNode(&b, root)
	b.WriteString("}\n")
	return b.String(), nil
}

func writeNode(b *strings.Builder, n *planNode) {
	fmt.Fprintf(b, "  %s [label=%s];\n", dotID(n.ID), dotQuote(nodeLabel(n)))
	for _, c := range n.Children {
		writeNode(b, c)
		fmt.Fprintf(b, "  %s -> %s;\n", dotID(c.ID), dotID(n.ID))
	}
}

var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func dotID(path string) string {
	return "n" + strings.ReplaceAll(path, ".", "_")
}

func nodeLabel(n *planNode) string {
	parts := []string{n.NodeType}
	switch {
	case n.JoinType != "":
		parts[0] = n.JoinType + " " + n.NodeType
	case n.Strategy != "" && n.NodeType == "Aggregate":
		parts[0] = n.Strategy + " " + n.NodeType
	}
	if n.RelationName != "" {
		rel := n.RelationName
		if n.Alias != "" && n.Alias != n.RelationName {
			rel += " " + n.Alias
		}
		parts = append(parts, "on "+rel)
	}
	if n.IndexName != "" {
		parts = append(parts, "using "+n.IndexName)
	}
	parts = append(parts, fmt.Sprintf("rows=%s", strconv.FormatFloat(n.PlanRows, 'f', -1, 64)))
	return strings.Join(parts, "\n")
}
