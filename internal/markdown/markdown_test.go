package markdown

import (
	"strings"
	"testing"
)

const sampleReadme = `# Frequenz SDK

A development kit for microgrid applications.
It spans multiple lines.

## Installation

You can install it with pip:

` + "```bash\npip install frequenz-sdk\n```" + `

## Features

- Battery pool management
- PV array support

## Usage

Start the runtime:

` + "```python\nimport asyncio\n\nasync def main():\n    pass\n```" + `

#### Deep note

Not a new section.
`

func TestRender(t *testing.T) {
	blocks := Render(sampleReadme)

	if len(blocks) == 0 {
		t.Fatal("no blocks rendered")
	}
	if blocks[0].Kind != KindHeading || blocks[0].Level != 1 {
		t.Errorf("first block = %+v, want level-1 heading", blocks[0])
	}
	if blocks[0].Text != "Frequenz SDK" {
		t.Errorf("heading text = %q", blocks[0].Text)
	}

	var kinds []Kind
	for _, b := range blocks {
		kinds = append(kinds, b.Kind)
	}
	want := []Kind{
		KindHeading, KindParagraph,
		KindHeading, KindParagraph, KindCode,
		KindHeading, KindList,
		KindHeading, KindParagraph, KindCode,
		KindHeading, KindParagraph,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %d blocks (%v), want %d", len(kinds), kinds, len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("block %d kind = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestRenderCollapsesParagraphWhitespace(t *testing.T) {
	blocks := Render("A development kit\nfor microgrid\tapplications.\n")

	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(blocks))
	}
	if blocks[0].Text != "A development kit for microgrid applications." {
		t.Errorf("text = %q", blocks[0].Text)
	}
}

func TestRenderFencedCode(t *testing.T) {
	blocks := Render("```python\nimport asyncio\nprint(1)\n```\n")

	if len(blocks) != 1 || blocks[0].Kind != KindCode {
		t.Fatalf("blocks = %+v", blocks)
	}
	if blocks[0].Info != "python" {
		t.Errorf("info = %q, want python", blocks[0].Info)
	}
	if blocks[0].Text != "import asyncio\nprint(1)\n" {
		t.Errorf("code = %q", blocks[0].Text)
	}
}

func TestRenderList(t *testing.T) {
	blocks := Render("- first item\n- second item\n")

	if len(blocks) != 1 || blocks[0].Kind != KindList {
		t.Fatalf("blocks = %+v", blocks)
	}
	if len(blocks[0].Items) != 2 || blocks[0].Items[0] != "first item" {
		t.Errorf("items = %v", blocks[0].Items)
	}
}

func TestRenderEmptyInput(t *testing.T) {
	if blocks := Render(""); len(blocks) != 0 {
		t.Errorf("got %d blocks for empty input", len(blocks))
	}
}

func TestSections(t *testing.T) {
	sections := Sections(Render(sampleReadme))

	wantTitles := []string{"frequenz sdk", "installation", "features", "usage"}
	titles := sections.Titles()
	if len(titles) != len(wantTitles) {
		t.Fatalf("titles = %v, want %v", titles, wantTitles)
	}
	for i := range wantTitles {
		if titles[i] != wantTitles[i] {
			t.Errorf("title %d = %q, want %q", i, titles[i], wantTitles[i])
		}
	}

	// Level-4 heading content stays with the enclosing section.
	usage := sections.Blocks("usage")
	found := false
	for _, b := range usage {
		if b.Kind == KindParagraph && strings.Contains(b.Text, "Not a new section") {
			found = true
		}
	}
	if !found {
		t.Error("deep-heading content not kept with the usage section")
	}
}

func TestSectionsDuplicateTitleOverwrites(t *testing.T) {
	src := "## Usage\n\nFirst text.\n\n## Usage\n\nSecond text.\n"
	sections := Sections(Render(src))

	if sections.Len() != 1 {
		t.Fatalf("got %d sections, want 1", sections.Len())
	}
	blocks := sections.Blocks("usage")
	if len(blocks) != 1 || blocks[0].Text != "Second text." {
		t.Errorf("blocks = %+v, want only the second text", blocks)
	}
}

func TestSectionsPreHeadingBlocksExcluded(t *testing.T) {
	src := "Intro paragraph before any heading.\n\n## Usage\n\nBody.\n"
	sections := Sections(Render(src))

	if sections.Len() != 1 {
		t.Fatalf("got %d sections, want 1", sections.Len())
	}
	for _, b := range sections.Blocks("usage") {
		if strings.Contains(b.Text, "Intro paragraph") {
			t.Error("pre-heading block leaked into a section")
		}
	}
}

func TestPlainText(t *testing.T) {
	plain := PlainText(Render(sampleReadme))

	for _, want := range []string{
		"Frequenz SDK",
		"pip install frequenz-sdk",
		"Battery pool management",
		"import asyncio",
	} {
		if !strings.Contains(plain, want) {
			t.Errorf("plain text missing %q", want)
		}
	}
}

func TestSectionText(t *testing.T) {
	sections := Sections(Render(sampleReadme))
	text := SectionText(sections.Blocks("features"))

	if text != "- Battery pool management\n- PV array support" {
		t.Errorf("section text = %q", text)
	}

	install := SectionText(sections.Blocks("installation"))
	if !strings.Contains(install, "You can install it with pip:") {
		t.Errorf("install section = %q", install)
	}
	if !strings.Contains(install, "pip install frequenz-sdk") {
		t.Errorf("install section missing code: %q", install)
	}
}

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a  b", "a b"},
		{" a\tb \n c ", "a b c"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := CollapseWhitespace(tt.in); got != tt.want {
			t.Errorf("CollapseWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
