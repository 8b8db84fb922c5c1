// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph projects a knowledge document onto a Graphviz DOT digraph
// for quick visual inspection of what the extractor found.
package graph

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/readme-kg/pkg/types"
)

// Node is one DOT node.
type Node struct {
	ID    string
	Label string
	Shape string
}

// Edge is one labeled DOT edge.
type Edge struct {
	From  string
	To    string
	Label string
}

// Graph holds the nodes and edges of a document projection.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

const (
	labelMax   = 60
	snippetMax = 50
)

// Build projects a document into a graph. The document node is the root;
// every extracted fact hangs off it with an edge named after the relation.
func Build(doc *types.Document) *Graph {
	g := &Graph{}

	rootLabel := doc.Name
	if rootLabel == "" {
		rootLabel = "Software"
	}
	g.addNode("root", rootLabel, "doubleoctagon")

	scalars := []struct {
		id, label, value string
	}{
		{"language", "language", doc.ProgrammingLanguage},
		{"repository", "codeRepository", doc.RepositoryURL},
		{"license", "license", doc.License},
		{"documentation", "documentation", doc.DocumentationURL},
		{"issues", "issueTracker", doc.IssueTrackerURL},
	}
	for _, sc := range scalars {
		if sc.value == "" {
			continue
		}
		g.addNode(sc.id, sc.value, "box")
		g.addEdge("root", sc.id, sc.label)
	}

	for i, req := range doc.SoftwareRequirements {
		id := fmt.Sprintf("req_%d", i+1)
		g.addNode(id, req, "box")
		g.addEdge("root", id, "requires")
	}

	for i, feat := range doc.FeatureList {
		id := fmt.Sprintf("feat_%d", i+1)
		g.addNode(id, truncate(feat, snippetMax), "note")
		g.addEdge("root", id, "feature")
	}

	if len(doc.InstallSteps) > 0 {
		g.addNode("install", "Install "+doc.Name, "folder")
		g.addEdge("root", "install", "install")
		for i, step := range doc.InstallSteps {
			id := fmt.Sprintf("step_%d", i+1)
			g.addNode(id, truncate(step, snippetMax), "box")
			g.addEdge("install", id, fmt.Sprintf("step %d", i+1))
		}
	}

	for i := range doc.CodeExamples {
		id := fmt.Sprintf("example_%d", i+1)
		label := fmt.Sprintf("Example %d", i+1)
		if doc.ProgrammingLanguage != "" {
			label += " (" + doc.ProgrammingLanguage + ")"
		}
		g.addNode(id, label, "component")
		g.addEdge("root", id, "example")
	}

	for i, sec := range doc.Sections {
		id := fmt.Sprintf("sec_%d", i+1)
		g.addNode(id, truncate(sec.Title, labelMax), "tab")
		g.addEdge("root", id, "section")
	}

	for i, qa := range doc.FAQ {
		qid := fmt.Sprintf("q_%d", i+1)
		g.addNode(qid, truncate(qa.Question, labelMax), "oval")
		g.addEdge("root", qid, "question")

		aid := fmt.Sprintf("a_%d", i+1)
		g.addNode(aid, truncate(qa.Answer, labelMax), "box")
		g.addEdge(qid, aid, "answer")
	}

	return g
}

func (g *Graph) addNode(id, label, shape string) {
	g.Nodes = append(g.Nodes, Node{ID: id, Label: label, Shape: shape})
}

func (g *Graph) addEdge(from, to, label string) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Label: label})
}

// WriteDOT renders the graph in Graphviz DOT syntax.
func WriteDOT(w io.Writer, g *Graph) error {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded, fontsize=10];\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %s [label=\"%s\", shape=\"%s\"];\n", n.ID, escape(n.Label), n.Shape)
	}
	for _, e := range g.Edges {
		fmt.Fprintf(&b, "  %s -> %s [label=\"%s\"];\n", e.From, e.To, escape(e.Label))
	}
	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// escape makes a string safe inside a double-quoted DOT label.
func escape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
