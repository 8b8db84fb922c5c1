package graph

import (
	"strings"
	"testing"

	"github.com/pdiddy/readme-kg/pkg/types"
)

func sampleDoc() *types.Document {
	return &types.Document{
		Name:                 "frequenz-sdk",
		Description:          "A microgrid control SDK.",
		ProgrammingLanguage:  "Python",
		License:              "https://example.com/LICENSE",
		RepositoryURL:        "https://github.com/example/frequenz-sdk",
		SoftwareRequirements: []string{"Python 3.11"},
		InstallSteps:         []string{"pip install frequenz-sdk"},
		FeatureList:          []string{"battery support"},
		CodeExamples:         []string{"import asyncio"},
		Sections:             []types.Section{{Title: "usage", Text: "Run it."}},
		FAQ: []types.FAQEntry{
			{Question: "What is frequenz-sdk for?", Answer: "A microgrid control SDK."},
		},
	}
}

func TestBuild(t *testing.T) {
	g := Build(sampleDoc())

	if g.Nodes[0].ID != "root" || g.Nodes[0].Shape != "doubleoctagon" {
		t.Errorf("root node = %+v", g.Nodes[0])
	}
	if g.Nodes[0].Label != "frequenz-sdk" {
		t.Errorf("root label = %q", g.Nodes[0].Label)
	}

	wantNodes := []string{"language", "repository", "license", "req_1", "feat_1",
		"install", "step_1", "example_1", "sec_1", "q_1", "a_1"}
	ids := make(map[string]bool)
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	for _, id := range wantNodes {
		if !ids[id] {
			t.Errorf("missing node %s", id)
		}
	}

	// Install steps hang off the install node, not the root.
	found := false
	for _, e := range g.Edges {
		if e.From == "install" && e.To == "step_1" {
			found = true
			if e.Label != "step 1" {
				t.Errorf("step edge label = %q", e.Label)
			}
		}
	}
	if !found {
		t.Error("missing install -> step_1 edge")
	}
}

func TestBuildSparseDocument(t *testing.T) {
	g := Build(&types.Document{})

	if len(g.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1 (root only)", len(g.Nodes))
	}
	if g.Nodes[0].Label != "Software" {
		t.Errorf("unnamed root label = %q", g.Nodes[0].Label)
	}
	if len(g.Edges) != 0 {
		t.Errorf("got %d edges, want 0", len(g.Edges))
	}
}

func TestWriteDOT(t *testing.T) {
	var buf strings.Builder
	if err := WriteDOT(&buf, Build(sampleDoc())); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"digraph G {",
		"rankdir=LR;",
		`root [label="frequenz-sdk", shape="doubleoctagon"];`,
		`root -> install [label="install"];`,
		`install -> step_1 [label="step 1"];`,
		"}",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDOTEscapesLabels(t *testing.T) {
	g := &Graph{}
	g.addNode("n1", "say \"hi\"\nthen stop", "box")

	var buf strings.Builder
	if err := WriteDOT(&buf, g); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `say \"hi\"\nthen stop`) {
		t.Errorf("label not escaped: %s", buf.String())
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"  padded  ", 10, "padded"},
		{"abcdefghij", 5, "abcd…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
