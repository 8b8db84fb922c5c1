// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared data model: the knowledge document, its
// JSON-LD wire form, and per-stage configuration structs.
package types

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Section is one README section carried into the knowledge document.
// Title is the lower-cased heading text.
type Section struct {
	Title string `json:"title" yaml:"title"`
	Text  string `json:"text" yaml:"text"`
}

// FAQEntry is a synthesized question/answer pair. Both sides are always
// non-empty; pairs with an empty component are never stored.
type FAQEntry struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}

// Document is the knowledge document: the normalized record of facts
// extracted from one project's README. It is built once per extraction
// run and treated as immutable by the retrieval engine.
type Document struct {
	// Name is the subject's display name.
	Name string `json:"name" yaml:"name"`

	// Description is the first introductory paragraph. May be empty.
	Description string `json:"description" yaml:"description"`

	// ProgrammingLanguage is the subject's implementation language.
	ProgrammingLanguage string `json:"programming_language,omitempty" yaml:"programming_language,omitempty"`

	// License is a license name or URL.
	License string `json:"license,omitempty" yaml:"license,omitempty"`

	// DocumentationURL, RepositoryURL, IssueTrackerURL, and DownloadURL
	// are optional link-style metadata fields.
	DocumentationURL string `json:"documentation_url,omitempty" yaml:"documentation_url,omitempty"`
	RepositoryURL    string `json:"repository_url,omitempty" yaml:"repository_url,omitempty"`
	IssueTrackerURL  string `json:"issue_tracker_url,omitempty" yaml:"issue_tracker_url,omitempty"`
	DownloadURL      string `json:"download_url,omitempty" yaml:"download_url,omitempty"`

	// OperatingSystem and ProcessorArchitectures hold platform constraints
	// parsed from a "supported platforms" section.
	OperatingSystem        string `json:"operating_system,omitempty" yaml:"operating_system,omitempty"`
	ProcessorArchitectures string `json:"processor_architectures,omitempty" yaml:"processor_architectures,omitempty"`

	// SoftwareRequirements lists version constraints (e.g. "Python 3.11").
	SoftwareRequirements []string `json:"software_requirements,omitempty" yaml:"software_requirements,omitempty"`

	// InstallSteps lists install commands in document order.
	InstallSteps []string `json:"install_steps,omitempty" yaml:"install_steps,omitempty"`

	// FeatureList holds deduplicated feature bullets in order of first
	// appearance.
	FeatureList []string `json:"feature_list,omitempty" yaml:"feature_list,omitempty"`

	// CodeExamples holds the raw text of fenced code blocks, capped by
	// ExtractOptions.MaxExamples.
	CodeExamples []string `json:"code_examples,omitempty" yaml:"code_examples,omitempty"`

	// Sections carries README sections, each truncated and capped per
	// ExtractOptions.
	Sections []Section `json:"sections,omitempty" yaml:"sections,omitempty"`

	// FAQ holds the deterministically synthesized question/answer pairs.
	FAQ []FAQEntry `json:"faq,omitempty" yaml:"faq,omitempty"`
}

// ContentHash returns the hex SHA-256 of the document's canonical JSON-LD
// serialization. Identical documents hash identically, so the hash keys the
// retrieval-index cache and the catalog's change detection.
func (d *Document) ContentHash() (string, error) {
	data, err := MarshalJSONLD(d)
	if err != nil {
		return "", fmt.Errorf("serializing document for hashing: %w", err)
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// JSON-LD wire structures (schema.org vocabulary).

type jsonldHowToStep struct {
	Type string `json:"@type,omitempty"`
	Text string `json:"text"`
}

type jsonldHowTo struct {
	Type string            `json:"@type,omitempty"`
	Name string            `json:"name,omitempty"`
	Step []jsonldHowToStep `json:"step"`
}

type jsonldSourceCode struct {
	Type                string `json:"@type,omitempty"`
	ProgrammingLanguage string `json:"programmingLanguage,omitempty"`
	Text                string `json:"text"`
}

type jsonldAnswer struct {
	Type string `json:"@type,omitempty"`
	Text string `json:"text"`
}

type jsonldQuestion struct {
	Type           string       `json:"@type"`
	Name           string       `json:"name"`
	AcceptedAnswer jsonldAnswer `json:"acceptedAnswer"`
}

type jsonldPart struct {
	Type string `json:"@type,omitempty"`
	Name string `json:"name"`
	Text string `json:"text"`
}

type jsonldDocument struct {
	Context               map[string]string  `json:"@context"`
	Type                  string             `json:"@type"`
	Name                  string             `json:"name,omitempty"`
	Description           string             `json:"description,omitempty"`
	ProgrammingLanguage   string             `json:"programmingLanguage,omitempty"`
	CodeRepository        string             `json:"codeRepository,omitempty"`
	License               string             `json:"license,omitempty"`
	SoftwareRequirements  []string           `json:"softwareRequirements,omitempty"`
	InstallInstructions   *jsonldHowTo       `json:"installInstructions,omitempty"`
	FeatureList           []string           `json:"featureList,omitempty"`
	ExampleOfWork         []jsonldSourceCode `json:"exampleOfWork,omitempty"`
	Documentation         string             `json:"documentation,omitempty"`
	DownloadURL           string             `json:"downloadUrl,omitempty"`
	IssueTracker          string             `json:"issueTracker,omitempty"`
	OperatingSystem       string             `json:"operatingSystem,omitempty"`
	ProcessorRequirements string             `json:"processorRequirements,omitempty"`
	HasPart               []jsonldPart       `json:"hasPart,omitempty"`
	SubjectOf             []jsonldQuestion   `json:"subjectOf,omitempty"`
}

// MarshalJSONLD serializes a document to its persisted JSON-LD form.
// Output is deterministic: the same document always yields the same bytes.
func MarshalJSONLD(d *Document) ([]byte, error) {
	out := jsonldDocument{
		Context:               map[string]string{"@vocab": "https://schema.org/"},
		Type:                  "SoftwareApplication",
		Name:                  d.Name,
		Description:           d.Description,
		ProgrammingLanguage:   d.ProgrammingLanguage,
		CodeRepository:        d.RepositoryURL,
		License:               d.License,
		SoftwareRequirements:  d.SoftwareRequirements,
		FeatureList:           d.FeatureList,
		Documentation:         d.DocumentationURL,
		DownloadURL:           d.DownloadURL,
		IssueTracker:          d.IssueTrackerURL,
		OperatingSystem:       d.OperatingSystem,
		ProcessorRequirements: d.ProcessorArchitectures,
	}

	if len(d.InstallSteps) > 0 {
		how := &jsonldHowTo{Type: "HowTo", Name: "Install " + d.Name}
		for _, step := range d.InstallSteps {
			how.Step = append(how.Step, jsonldHowToStep{Type: "HowToStep", Text: step})
		}
		out.InstallInstructions = how
	}

	for _, ex := range d.CodeExamples {
		out.ExampleOfWork = append(out.ExampleOfWork, jsonldSourceCode{
			Type:                "SoftwareSourceCode",
			ProgrammingLanguage: d.ProgrammingLanguage,
			Text:                ex,
		})
	}

	for _, sec := range d.Sections {
		out.HasPart = append(out.HasPart, jsonldPart{
			Type: "CreativeWork",
			Name: sec.Title,
			Text: sec.Text,
		})
	}

	for _, qa := range d.FAQ {
		out.SubjectOf = append(out.SubjectOf, jsonldQuestion{
			Type:           "Question",
			Name:           qa.Question,
			AcceptedAnswer: jsonldAnswer{Type: "Answer", Text: qa.Answer},
		})
	}

	return json.MarshalIndent(&out, "", "  ")
}

// UnmarshalJSONLD parses a persisted JSON-LD document. Only a payload that
// is not a JSON object at all is a hard error; individual fields with an
// unexpected shape are skipped and default to their zero values.
func UnmarshalJSONLD(data []byte) (*Document, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("parsing knowledge document: %w", err)
	}
	// json.Unmarshal accepts "null" into a map, leaving it nil.
	if fields == nil {
		return nil, fmt.Errorf("parsing knowledge document: payload is not a JSON object")
	}

	d := &Document{
		Name:                   jsonString(fields["name"]),
		Description:            jsonString(fields["description"]),
		ProgrammingLanguage:    jsonString(fields["programmingLanguage"]),
		RepositoryURL:          jsonString(fields["codeRepository"]),
		License:                jsonString(fields["license"]),
		DocumentationURL:       jsonString(fields["documentation"]),
		DownloadURL:            jsonString(fields["downloadUrl"]),
		IssueTrackerURL:        jsonString(fields["issueTracker"]),
		OperatingSystem:        jsonString(fields["operatingSystem"]),
		ProcessorArchitectures: jsonString(fields["processorRequirements"]),
		SoftwareRequirements:   jsonStrings(fields["softwareRequirements"]),
		FeatureList:            jsonStrings(fields["featureList"]),
	}

	if raw, ok := fields["installInstructions"]; ok {
		var how jsonldHowTo
		if err := json.Unmarshal(raw, &how); err == nil {
			for _, step := range how.Step {
				if step.Text != "" {
					d.InstallSteps = append(d.InstallSteps, step.Text)
				}
			}
		}
	}

	if raw, ok := fields["exampleOfWork"]; ok {
		var examples []jsonldSourceCode
		if err := json.Unmarshal(raw, &examples); err == nil {
			for _, ex := range examples {
				if ex.Text != "" {
					d.CodeExamples = append(d.CodeExamples, ex.Text)
				}
			}
		}
	}

	if raw, ok := fields["hasPart"]; ok {
		var parts []jsonldPart
		if err := json.Unmarshal(raw, &parts); err == nil {
			for _, p := range parts {
				if p.Name != "" || p.Text != "" {
					d.Sections = append(d.Sections, Section{Title: p.Name, Text: p.Text})
				}
			}
		}
	}

	if raw, ok := fields["subjectOf"]; ok {
		var questions []jsonldQuestion
		if err := json.Unmarshal(raw, &questions); err == nil {
			for _, q := range questions {
				if q.Type != "Question" || q.Name == "" || q.AcceptedAnswer.Text == "" {
					continue
				}
				d.FAQ = append(d.FAQ, FAQEntry{Question: q.Name, Answer: q.AcceptedAnswer.Text})
			}
		}
	}

	return d, nil
}

// jsonString decodes a raw JSON value as a string, returning "" for
// anything that is not a string.
func jsonString(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// jsonStrings decodes a raw JSON value as a string list. A lone string is
// accepted as a one-element list; anything else yields nil.
func jsonStrings(raw json.RawMessage) []string {
	if raw == nil {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && s != "" {
		return []string{s}
	}
	return nil
}
