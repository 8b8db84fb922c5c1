// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/pdiddy/readme-kg/internal/markdown"
	"github.com/pdiddy/readme-kg/pkg/types"
)

// Metadata supplies the caller-provided fields that cannot be scraped from
// the README itself. Every field is optional.
type Metadata struct {
	// Name is the subject's display name.
	Name string

	// ProgrammingLanguage tags code examples and the document.
	ProgrammingLanguage string

	// LicenseURL is the license name or URL recorded on the document.
	LicenseURL string

	// PythonVersions is the fallback version list used when the README has
	// no parseable "supported platforms" section.
	PythonVersions []string

	// RepositoryURL and IssueTrackerURL are recorded verbatim.
	RepositoryURL   string
	IssueTrackerURL string

	// DefaultInstall is the install step recorded when the README contains
	// no install command.
	DefaultInstall string

	// DefaultDescription is used when the README has no first paragraph.
	DefaultDescription string
}

// BuildInput carries the extracted fields into BuildDocument.
type BuildInput struct {
	Name                string
	Description         string
	ProgrammingLanguage string
	License             string

	InstallSteps []string
	Features     []string
	Examples     []string
	Requirements []string

	OperatingSystem string
	Architectures   string

	DocumentationURL string
	RepositoryURL    string
	IssueTrackerURL  string
	DownloadURL      string

	Sections []types.Section
}

// FromReadme runs the full extraction pipeline over README source text and
// returns the knowledge document. It is a pure function of its inputs:
// identical source, metadata, and options yield an identical document.
func FromReadme(source string, meta Metadata, opts types.ExtractOptions) *types.Document {
	opts = opts.Normalized()

	blocks := markdown.Render(source)
	sections := markdown.Sections(blocks)
	plain := markdown.PlainText(blocks)

	desc := FirstParagraph(blocks)
	if desc == "" {
		desc = meta.DefaultDescription
	}

	installs := InstallCommands(plain, opts.MaxInstallCommands)
	if len(installs) == 0 && meta.DefaultInstall != "" {
		installs = []string{meta.DefaultInstall}
	}

	platforms := ParsePlatforms(source)
	versions := platforms.PythonVersions
	if len(versions) == 0 {
		versions = meta.PythonVersions
	}
	var requirements []string
	for _, v := range versions {
		requirements = append(requirements, "Python "+v)
	}

	links := ParseLinks(source)

	return BuildDocument(BuildInput{
		Name:                meta.Name,
		Description:         desc,
		ProgrammingLanguage: meta.ProgrammingLanguage,
		License:             meta.LicenseURL,
		InstallSteps:        installs,
		Features:            GuessFeatures(sections, opts.FeatureKeywords, opts.MaxFeatures),
		Examples:            CodeExamples(blocks, opts.MinExampleLength, opts.MaxExamples),
		Requirements:        requirements,
		OperatingSystem:     platforms.OperatingSystem,
		Architectures:       platforms.Architectures,
		DocumentationURL:    links.Documentation,
		RepositoryURL:       meta.RepositoryURL,
		IssueTrackerURL:     meta.IssueTrackerURL,
		DownloadURL:         links.PackageIndex,
		Sections:            SectionParts(sections, opts.MaxSections, opts.MaxSectionChars),
	}, opts)
}

// BuildDocument assembles a knowledge document from extracted fields and
// synthesizes its FAQ. It enforces the document invariants regardless of
// how the input was produced: deduplicated features, capped examples and
// sections, unique lower-cased section titles, and no FAQ pair with an
// empty side. Calling it twice with identical inputs yields an identical
// document.
func BuildDocument(in BuildInput, opts types.ExtractOptions) *types.Document {
	opts = opts.Normalized()

	doc := &types.Document{
		Name:                   in.Name,
		Description:            markdown.CollapseWhitespace(in.Description),
		ProgrammingLanguage:    in.ProgrammingLanguage,
		License:                in.License,
		DocumentationURL:       in.DocumentationURL,
		RepositoryURL:          in.RepositoryURL,
		IssueTrackerURL:        in.IssueTrackerURL,
		DownloadURL:            in.DownloadURL,
		OperatingSystem:        in.OperatingSystem,
		ProcessorArchitectures: in.Architectures,
		SoftwareRequirements:   in.Requirements,
		InstallSteps:           dedupe(in.InstallSteps, opts.MaxInstallCommands),
		FeatureList:            dedupe(in.Features, opts.MaxFeatures),
	}

	for _, ex := range in.Examples {
		if len(doc.CodeExamples) >= opts.MaxExamples {
			break
		}
		if ex != "" {
			doc.CodeExamples = append(doc.CodeExamples, ex)
		}
	}

	doc.Sections = normalizeSections(in.Sections, opts.MaxSections, opts.MaxSectionChars)
	doc.FAQ = synthesizeFAQ(doc)
	return doc
}

// normalizeSections lower-cases titles, truncates text, drops empty parts,
// and applies mapping semantics: a duplicate title overwrites the earlier
// text but keeps its original position.
func normalizeSections(parts []types.Section, maxSections, maxChars int) []types.Section {
	var out []types.Section
	index := make(map[string]int)
	for _, p := range parts {
		title := strings.ToLower(strings.TrimSpace(p.Title))
		text := truncateChars(p.Text, maxChars)
		if title == "" || text == "" {
			continue
		}
		if i, seen := index[title]; seen {
			out[i].Text = text
			continue
		}
		if len(out) >= maxSections {
			continue
		}
		index[title] = len(out)
		out = append(out, types.Section{Title: title, Text: text})
	}
	return out
}

// synthesizeFAQ derives the canonical question/answer pairs in a fixed
// order. A pair whose question or answer would be empty is omitted; FAQ
// content enriches the document and must never fail the build.
func synthesizeFAQ(doc *types.Document) []types.FAQEntry {
	candidates := []types.FAQEntry{
		{
			Question: "What is " + doc.Name + " for?",
			Answer:   doc.Description,
		},
		{
			Question: "How do I install " + doc.Name + "?",
			Answer:   bulletJoin("Installation:", doc.InstallSteps),
		},
		{
			Question: "Show me an example of how to use it.",
			Answer:   firstOf(doc.CodeExamples),
		},
		{
			Question: "What features does it have?",
			Answer:   bulletJoin("Key features:", doc.FeatureList),
		},
		{
			Question: "What license is it under?",
			Answer:   prefixed("License: ", doc.License),
		},
		{
			Question: "Which versions does it require?",
			Answer:   bulletJoin("Requirements:", doc.SoftwareRequirements),
		},
	}

	var faq []types.FAQEntry
	for _, qa := range candidates {
		if strings.TrimSpace(qa.Question) == "" || strings.TrimSpace(qa.Answer) == "" {
			continue
		}
		faq = append(faq, qa)
	}
	return faq
}

// bulletJoin renders a header plus bulleted items, or "" for no items.
func bulletJoin(header string, items []string) string {
	if len(items) == 0 {
		return ""
	}
	return header + "\n- " + strings.Join(items, "\n- ")
}

func firstOf(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return items[0]
}

func prefixed(prefix, value string) string {
	if value == "" {
		return ""
	}
	return prefix + value
}
