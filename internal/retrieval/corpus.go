// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package retrieval answers free-text questions against a knowledge
// document. A TF-IDF vector-space model over the flattened document is the
// primary ranker; a keyword-bucket classifier takes over when the model
// cannot be built or is under-confident.
package retrieval

import (
	"strings"

	"github.com/pdiddy/readme-kg/pkg/types"
)

// Entry is one retrieval unit: a labeled text taken from a knowledge
// document field.
type Entry struct {
	Label string
	Text  string
}

// BuildCorpus flattens a knowledge document into labeled texts in a fixed
// order. Empty fields contribute no entry, so a sparse document yields a
// short corpus (possibly empty).
func BuildCorpus(doc *types.Document) []Entry {
	var corpus []Entry
	add := func(label, text string) {
		if text != "" {
			corpus = append(corpus, Entry{Label: label, Text: text})
		}
	}

	add("purpose", doc.Description)
	add("install", strings.Join(doc.InstallSteps, "\n"))
	if len(doc.CodeExamples) > 0 {
		add("example", doc.CodeExamples[0])
	}
	add("features", strings.Join(doc.FeatureList, "\n"))
	add("license", doc.License)
	add("dependencies", strings.Join(doc.SoftwareRequirements, "\n"))
	add("documentation", doc.DocumentationURL)
	add("repository", doc.RepositoryURL)
	add("issues", doc.IssueTrackerURL)
	add("platforms", doc.OperatingSystem)
	add("architectures", doc.ProcessorArchitectures)
	add("name", doc.Name)

	for _, sec := range doc.Sections {
		add("section:"+sec.Title, sec.Text)
	}
	for _, qa := range doc.FAQ {
		add("faq:"+qa.Question, qa.Answer)
	}

	return corpus
}
