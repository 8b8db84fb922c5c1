// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markdown renders README source into a simplified block stream and
// groups the blocks into heading-keyed sections. It is a pure layer over
// goldmark: no I/O, and malformed input degrades to fewer blocks rather
// than an error.
package markdown

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Kind identifies a block element in the simplified tree.
type Kind int

const (
	KindHeading Kind = iota + 1
	KindParagraph
	KindList
	KindCode
)

// Block is one element of the simplified tree.
type Block struct {
	Kind Kind

	// Level is the heading level (1-6). Headings only.
	Level int

	// Text holds heading or paragraph text, or the raw code for KindCode.
	Text string

	// Info is the fence info string (language) for KindCode.
	Info string

	// Items holds the cleaned item texts for KindList.
	Items []string
}

var parser = goldmark.New()

// Render parses markdown source into the ordered block stream. It never
// fails: input goldmark cannot make sense of simply produces fewer blocks.
func Render(source string) []Block {
	src := []byte(source)
	root := parser.Parser().Parse(text.NewReader(src))

	var blocks []Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			blocks = append(blocks, Block{
				Kind:  KindHeading,
				Level: node.Level,
				Text:  CollapseWhitespace(nodeText(node, src)),
			})
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			blocks = append(blocks, Block{
				Kind: KindParagraph,
				Text: CollapseWhitespace(nodeText(node, src)),
			})
			return ast.WalkSkipChildren, nil
		case *ast.List:
			blocks = append(blocks, Block{
				Kind:  KindList,
				Items: listItems(node, src),
			})
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			var info string
			if node.Info != nil {
				info = string(node.Info.Value(src))
			}
			blocks = append(blocks, Block{
				Kind: KindCode,
				Text: codeText(node, src),
				Info: info,
			})
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock:
			blocks = append(blocks, Block{
				Kind: KindCode,
				Text: codeText(node, src),
			})
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return blocks
}

// SectionMap maps lower-cased heading text to the blocks that follow it,
// preserving heading order. Duplicate headings overwrite their blocks but
// keep the original position.
type SectionMap struct {
	titles []string
	blocks map[string][]Block
}

// Sections groups a block stream by headings of level 1-3. Deeper headings
// do not start a section; their content stays with the enclosing section.
// Blocks before the first heading are not part of any section.
func Sections(blocks []Block) *SectionMap {
	m := &SectionMap{blocks: make(map[string][]Block)}
	current := ""
	for _, b := range blocks {
		if b.Kind == KindHeading {
			if b.Level > 3 {
				continue
			}
			current = strings.ToLower(b.Text)
			if _, seen := m.blocks[current]; !seen {
				m.titles = append(m.titles, current)
			}
			m.blocks[current] = nil
			continue
		}
		if current == "" {
			continue
		}
		m.blocks[current] = append(m.blocks[current], b)
	}
	return m
}

// Titles returns the section titles in document order.
func (m *SectionMap) Titles() []string { return m.titles }

// Blocks returns the blocks under the given lower-cased title.
func (m *SectionMap) Blocks(title string) []Block { return m.blocks[title] }

// Len returns the number of sections.
func (m *SectionMap) Len() int { return len(m.titles) }

// PlainText flattens a block stream into line-oriented text for
// whole-document scans: one line per heading, paragraph, and list item,
// plus code block lines verbatim.
func PlainText(blocks []Block) string {
	var lines []string
	for _, b := range blocks {
		switch b.Kind {
		case KindHeading, KindParagraph:
			if b.Text != "" {
				lines = append(lines, b.Text)
			}
		case KindList:
			lines = append(lines, b.Items...)
		case KindCode:
			for _, line := range strings.Split(strings.TrimRight(b.Text, "\n"), "\n") {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n")
}

// SectionText flattens one section's blocks into readable text: paragraphs
// and list bullets separated by blank lines, code verbatim.
func SectionText(blocks []Block) string {
	var parts []string
	for _, b := range blocks {
		switch b.Kind {
		case KindParagraph:
			if b.Text != "" {
				parts = append(parts, b.Text)
			}
		case KindList:
			var items []string
			for _, item := range b.Items {
				items = append(items, "- "+item)
			}
			if len(items) > 0 {
				parts = append(parts, strings.Join(items, "\n"))
			}
		case KindCode:
			if b.Text != "" {
				parts = append(parts, strings.TrimRight(b.Text, "\n"))
			}
		}
	}
	return strings.Join(parts, "\n\n")
}

var whitespaceRE = regexp.MustCompile(`\s+`)

// CollapseWhitespace normalizes runs of whitespace to single spaces and
// trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}

// nodeText concatenates the inline text of a node's subtree.
func nodeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

// listItems returns the cleaned text of each item in a list, including
// items of nested lists flattened into their parent's text.
func listItems(list *ast.List, src []byte) []string {
	var items []string
	for li := list.FirstChild(); li != nil; li = li.NextSibling() {
		txt := CollapseWhitespace(nodeText(li, src))
		if txt != "" {
			items = append(items, txt)
		}
	}
	return items
}

// codeText reassembles the raw lines of a code block.
func codeText(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}
