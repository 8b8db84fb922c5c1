// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract scans a parsed README for one category of fact at a time
// and assembles the results into a knowledge document. Extraction is a
// best-effort scrape: a fact that cannot be found yields an empty value,
// never an error.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/readme-kg/internal/markdown"
	"github.com/pdiddy/readme-kg/pkg/types"
)

// installMarkers are the substrings identifying package-manager install
// command lines.
var installMarkers = []string{"pip install", "pip3 install"}

// FirstParagraph returns the text of the first paragraph in document order,
// or "" when the document has none.
func FirstParagraph(blocks []markdown.Block) string {
	for _, b := range blocks {
		if b.Kind == markdown.KindParagraph && b.Text != "" {
			return b.Text
		}
	}
	return ""
}

// InstallCommands collects lines containing an install-command marker, in
// order of appearance, deduplicated, capped at max.
func InstallCommands(plainText string, max int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(plainText, "\n") {
		trimmed := strings.TrimSpace(line)
		if !containsAny(strings.ToLower(trimmed), installMarkers) {
			continue
		}
		if seen[trimmed] {
			continue
		}
		seen[trimmed] = true
		out = append(out, trimmed)
		if len(out) >= max {
			break
		}
	}
	return out
}

// GuessFeatures finds the feature bullets of a README. A section whose
// heading contains "feature" wins; without one, bullets across all sections
// matching any of the keywords are collected instead. Order-preserving
// dedup, capped at max.
func GuessFeatures(sections *markdown.SectionMap, keywords []string, max int) []string {
	for _, title := range sections.Titles() {
		if !strings.Contains(title, "feature") {
			continue
		}
		var feats []string
		for _, b := range sections.Blocks(title) {
			if b.Kind != markdown.KindList {
				continue
			}
			feats = append(feats, b.Items...)
		}
		if len(feats) > 0 {
			return dedupe(feats, max)
		}
	}

	lowered := make([]string, len(keywords))
	for i, k := range keywords {
		lowered[i] = strings.ToLower(k)
	}
	var feats []string
	for _, title := range sections.Titles() {
		for _, b := range sections.Blocks(title) {
			if b.Kind != markdown.KindList {
				continue
			}
			for _, item := range b.Items {
				if containsAny(strings.ToLower(item), lowered) {
					feats = append(feats, item)
				}
			}
		}
	}
	return dedupe(feats, max)
}

// CodeExamples collects code blocks longer than minLen, in document order,
// stopping at max.
func CodeExamples(blocks []markdown.Block, minLen, max int) []string {
	var out []string
	for _, b := range blocks {
		if b.Kind != markdown.KindCode {
			continue
		}
		code := strings.TrimSpace(b.Text)
		if len(code) <= minLen {
			continue
		}
		out = append(out, code)
		if len(out) >= max {
			break
		}
	}
	return out
}

// Platforms holds the constraints parsed from a "supported platforms"
// section.
type Platforms struct {
	PythonVersions  []string
	OperatingSystem string
	Architectures   string
}

// ParsePlatforms scans raw README text for a "supported platforms" heading
// and parses its bullets. The Python bullet is either a range
// ("3.11 .. 3.13", expanded minor-by-minor when the major versions match)
// or a comma-separated list. Scanning stops at the next level-2 heading.
func ParsePlatforms(raw string) Platforms {
	var p Platforms
	inSection := false
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			if inSection && strings.HasPrefix(trimmed, "## ") {
				break
			}
			if strings.Contains(strings.ToLower(trimmed), "supported platforms") {
				inSection = true
			}
			continue
		}
		if !inSection {
			continue
		}
		if !strings.HasPrefix(trimmed, "-") && !strings.HasPrefix(trimmed, "*") {
			continue
		}

		bullet := strings.ReplaceAll(strings.TrimLeft(trimmed, "-* "), "**", "")
		key, value, found := strings.Cut(bullet, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch {
		case strings.Contains(key, "python"):
			p.PythonVersions = parseVersionSpec(value)
		case strings.Contains(key, "operating system"):
			p.OperatingSystem = value
		case strings.Contains(key, "architecture"):
			p.Architectures = value
		}
	}
	return p
}

// parseVersionSpec parses "3.11 .. 3.13" as an inclusive range or
// "3.11, 3.12" as a list.
func parseVersionSpec(value string) []string {
	if from, to, isRange := strings.Cut(value, ".."); isRange {
		return expandVersionRange(strings.TrimSpace(from), strings.TrimSpace(to))
	}
	var versions []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			versions = append(versions, v)
		}
	}
	return versions
}

// expandVersionRange expands "A.B .. A.D" to every intermediate minor
// version. Ranges across major versions, or endpoints that do not parse as
// MAJOR.MINOR, collapse to the two endpoints.
func expandVersionRange(from, to string) []string {
	var fromMajor, fromMinor, toMajor, toMinor int
	if _, err := fmt.Sscanf(from, "%d.%d", &fromMajor, &fromMinor); err != nil {
		return []string{from, to}
	}
	if _, err := fmt.Sscanf(to, "%d.%d", &toMajor, &toMinor); err != nil {
		return []string{from, to}
	}
	if fromMajor != toMajor || fromMinor > toMinor {
		return []string{from, to}
	}
	var versions []string
	for minor := fromMinor; minor <= toMinor; minor++ {
		versions = append(versions, fmt.Sprintf("%d.%d", fromMajor, minor))
	}
	return versions
}

var (
	docsLinkRE  = regexp.MustCompile(`https://[A-Za-z0-9.-]+\.github\.io/[^\s<>()\[\]"']*`)
	indexLinkRE = regexp.MustCompile(`https://pypi\.org/project/[^\s<>()\[\]"'/]+/?`)
)

// Links holds the documentation and package-index URLs found in the README.
type Links struct {
	Documentation string
	PackageIndex  string
}

// ParseLinks returns the first documentation URL and the first
// package-index URL in the raw text, or empty strings.
func ParseLinks(raw string) Links {
	return Links{
		Documentation: docsLinkRE.FindString(raw),
		PackageIndex:  indexLinkRE.FindString(raw),
	}
}

// SectionParts converts the section mapping into document sections:
// lower-cased titles, text truncated to maxChars, at most maxSections.
func SectionParts(sections *markdown.SectionMap, maxSections, maxChars int) []types.Section {
	var parts []types.Section
	for _, title := range sections.Titles() {
		if len(parts) >= maxSections {
			break
		}
		text := markdown.SectionText(sections.Blocks(title))
		if text == "" {
			continue
		}
		parts = append(parts, types.Section{Title: title, Text: truncateChars(text, maxChars)})
	}
	return parts
}

// truncateChars caps text at max characters without splitting a rune.
func truncateChars(text string, max int) string {
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	return string([]rune(text)[:max])
}

// dedupe removes repeated strings preserving first-appearance order,
// capping the result at max.
func dedupe(values []string, max int) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if len(out) >= max {
			break
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
