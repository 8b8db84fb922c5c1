// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func sampleDocument() *Document {
	return &Document{
		Name:                   "frequenz-sdk",
		Description:            "A development kit for microgrid applications.",
		ProgrammingLanguage:    "Python",
		License:                "MIT",
		DocumentationURL:       "https://frequenz-floss.github.io/frequenz-sdk-python/",
		RepositoryURL:          "https://github.com/frequenz-floss/frequenz-sdk-python",
		IssueTrackerURL:        "https://github.com/frequenz-floss/frequenz-sdk-python/issues",
		DownloadURL:            "https://pypi.org/project/frequenz-sdk/",
		OperatingSystem:        "Linux",
		ProcessorArchitectures: "amd64, arm64",
		SoftwareRequirements:   []string{"Python 3.11", "Python 3.12"},
		InstallSteps:           []string{"pip install frequenz-sdk"},
		FeatureList:            []string{"Battery pool management", "PV array support"},
		CodeExamples:           []string{"import asyncio\nprint(1)\n"},
		Sections: []Section{
			{Title: "usage", Text: "Run the actor."},
		},
		FAQ: []FAQEntry{
			{Question: "How do I install frequenz-sdk?", Answer: "Installation:\n- pip install frequenz-sdk"},
		},
	}
}

func TestMarshalJSONLDWireKeys(t *testing.T) {
	data, err := MarshalJSONLD(sampleDocument())
	if err != nil {
		t.Fatalf("MarshalJSONLD() error = %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	ctx, ok := wire["@context"].(map[string]any)
	if !ok || ctx["@vocab"] != "https://schema.org/" {
		t.Errorf("@context = %v, want @vocab https://schema.org/", wire["@context"])
	}
	if wire["@type"] != "SoftwareApplication" {
		t.Errorf("@type = %v, want SoftwareApplication", wire["@type"])
	}

	scalars := map[string]string{
		"name":                  "frequenz-sdk",
		"description":           "A development kit for microgrid applications.",
		"programmingLanguage":   "Python",
		"codeRepository":        "https://github.com/frequenz-floss/frequenz-sdk-python",
		"license":               "MIT",
		"documentation":         "https://frequenz-floss.github.io/frequenz-sdk-python/",
		"downloadUrl":           "https://pypi.org/project/frequenz-sdk/",
		"issueTracker":          "https://github.com/frequenz-floss/frequenz-sdk-python/issues",
		"operatingSystem":       "Linux",
		"processorRequirements": "amd64, arm64",
	}
	for key, want := range scalars {
		if got := wire[key]; got != want {
			t.Errorf("%s = %v, want %q", key, got, want)
		}
	}

	install, ok := wire["installInstructions"].(map[string]any)
	if !ok {
		t.Fatalf("installInstructions missing or wrong shape: %v", wire["installInstructions"])
	}
	if install["@type"] != "HowTo" || install["name"] != "Install frequenz-sdk" {
		t.Errorf("installInstructions header = %v", install)
	}
	steps, ok := install["step"].([]any)
	if !ok || len(steps) != 1 {
		t.Fatalf("installInstructions.step = %v, want 1 step", install["step"])
	}
	step := steps[0].(map[string]any)
	if step["@type"] != "HowToStep" || step["text"] != "pip install frequenz-sdk" {
		t.Errorf("step[0] = %v", step)
	}

	examples, ok := wire["exampleOfWork"].([]any)
	if !ok || len(examples) != 1 {
		t.Fatalf("exampleOfWork = %v, want 1 entry", wire["exampleOfWork"])
	}
	ex := examples[0].(map[string]any)
	if ex["@type"] != "SoftwareSourceCode" || ex["programmingLanguage"] != "Python" {
		t.Errorf("exampleOfWork[0] = %v", ex)
	}

	parts, ok := wire["hasPart"].([]any)
	if !ok || len(parts) != 1 {
		t.Fatalf("hasPart = %v, want 1 entry", wire["hasPart"])
	}
	part := parts[0].(map[string]any)
	if part["@type"] != "CreativeWork" || part["name"] != "usage" || part["text"] != "Run the actor." {
		t.Errorf("hasPart[0] = %v", part)
	}

	questions, ok := wire["subjectOf"].([]any)
	if !ok || len(questions) != 1 {
		t.Fatalf("subjectOf = %v, want 1 entry", wire["subjectOf"])
	}
	q := questions[0].(map[string]any)
	if q["@type"] != "Question" || q["name"] != "How do I install frequenz-sdk?" {
		t.Errorf("subjectOf[0] = %v", q)
	}
	ans := q["acceptedAnswer"].(map[string]any)
	if ans["@type"] != "Answer" || ans["text"] != "Installation:\n- pip install frequenz-sdk" {
		t.Errorf("acceptedAnswer = %v", ans)
	}
}

func TestMarshalJSONLDOmitsEmptyFields(t *testing.T) {
	data, err := MarshalJSONLD(&Document{Name: "bare"})
	if err != nil {
		t.Fatalf("MarshalJSONLD() error = %v", err)
	}
	for _, key := range []string{
		"installInstructions", "exampleOfWork", "hasPart", "subjectOf",
		"featureList", "softwareRequirements", "license",
	} {
		if bytes.Contains(data, []byte(`"`+key+`"`)) {
			t.Errorf("empty document output contains %q", key)
		}
	}
}

func TestMarshalJSONLDDeterministic(t *testing.T) {
	doc := sampleDocument()
	first, err := MarshalJSONLD(doc)
	if err != nil {
		t.Fatalf("MarshalJSONLD() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := MarshalJSONLD(doc)
		if err != nil {
			t.Fatalf("MarshalJSONLD() error = %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("MarshalJSONLD() output varies across calls")
		}
	}
}

func TestJSONLDRoundTrip(t *testing.T) {
	doc := sampleDocument()
	data, err := MarshalJSONLD(doc)
	if err != nil {
		t.Fatalf("MarshalJSONLD() error = %v", err)
	}
	got, err := UnmarshalJSONLD(data)
	if err != nil {
		t.Fatalf("UnmarshalJSONLD() error = %v", err)
	}
	if !reflect.DeepEqual(doc, got) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, doc)
	}
}

func TestUnmarshalJSONLDTolerant(t *testing.T) {
	payload := `{
		"@context": {"@vocab": "https://schema.org/"},
		"@type": "SoftwareApplication",
		"name": "proj",
		"license": 42,
		"softwareRequirements": "Python 3.11",
		"featureList": {"not": "a list"},
		"installInstructions": "not an object",
		"unknownKey": [1, 2, 3],
		"subjectOf": [
			{"@type": "Question", "name": "Q1", "acceptedAnswer": {"@type": "Answer", "text": "A1"}},
			{"@type": "Question", "name": "", "acceptedAnswer": {"@type": "Answer", "text": "orphan"}},
			{"@type": "Question", "name": "no answer", "acceptedAnswer": {"@type": "Answer", "text": ""}},
			{"@type": "Thing", "name": "wrong type", "acceptedAnswer": {"@type": "Answer", "text": "x"}}
		]
	}`

	doc, err := UnmarshalJSONLD([]byte(payload))
	if err != nil {
		t.Fatalf("UnmarshalJSONLD() error = %v", err)
	}
	if doc.Name != "proj" {
		t.Errorf("Name = %q, want proj", doc.Name)
	}
	if doc.License != "" {
		t.Errorf("License = %q, want empty for non-string value", doc.License)
	}
	// A lone string is accepted as a one-element list.
	if !reflect.DeepEqual(doc.SoftwareRequirements, []string{"Python 3.11"}) {
		t.Errorf("SoftwareRequirements = %v", doc.SoftwareRequirements)
	}
	if doc.FeatureList != nil {
		t.Errorf("FeatureList = %v, want nil for wrong shape", doc.FeatureList)
	}
	if doc.InstallSteps != nil {
		t.Errorf("InstallSteps = %v, want nil for wrong shape", doc.InstallSteps)
	}
	if len(doc.FAQ) != 1 || doc.FAQ[0].Question != "Q1" || doc.FAQ[0].Answer != "A1" {
		t.Errorf("FAQ = %v, want only the well-formed pair", doc.FAQ)
	}
}

func TestUnmarshalJSONLDNonObject(t *testing.T) {
	for _, payload := range []string{`[]`, `"text"`, `not json`, `null`} {
		if _, err := UnmarshalJSONLD([]byte(payload)); err == nil {
			t.Errorf("UnmarshalJSONLD(%q) succeeded, want error", payload)
		}
	}
}

func TestContentHash(t *testing.T) {
	doc := sampleDocument()
	h1, err := doc.ContentHash()
	if err != nil {
		t.Fatalf("ContentHash() error = %v", err)
	}
	if len(h1) != 64 || strings.ToLower(h1) != h1 {
		t.Errorf("ContentHash() = %q, want lowercase hex sha256", h1)
	}

	h2, err := doc.ContentHash()
	if err != nil {
		t.Fatalf("ContentHash() error = %v", err)
	}
	if h1 != h2 {
		t.Error("ContentHash() differs across calls on the same document")
	}

	doc.Description = "Changed."
	h3, err := doc.ContentHash()
	if err != nil {
		t.Fatalf("ContentHash() error = %v", err)
	}
	if h3 == h1 {
		t.Error("ContentHash() unchanged after document edit")
	}
}
