package retrieval

import (
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/readme-kg/pkg/types"
)

// fakeScorer returns fixed similarities, for steering the engine's label
// resolution in tests.
type fakeScorer struct {
	sims     []float64
	fitErr   error
	scoreErr error
}

func (f *fakeScorer) Fit(texts []string) error { return f.fitErr }

func (f *fakeScorer) Score(question string) ([]float64, error) {
	return f.sims, f.scoreErr
}

func testDocument() *types.Document {
	return &types.Document{
		Name:                 "frequenz-sdk",
		Description:          "A development kit to interact with the Frequenz platform for microgrid optimization.",
		License:              "MIT",
		RepositoryURL:        "https://github.com/example/frequenz-sdk",
		SoftwareRequirements: []string{"Python 3.11"},
		InstallSteps:         []string{"pip install frequenz-sdk"},
		FeatureList:          []string{"battery pool management", "pv array support"},
		CodeExamples:         []string{"import asyncio\n\nasync def main():\n    pass\n\nasyncio.run(main())"},
		Sections: []types.Section{
			{Title: "usage", Text: "Start the runtime and connect actors."},
		},
		FAQ: []types.FAQEntry{
			{Question: "What is frequenz-sdk for?", Answer: "A development kit to interact with the Frequenz platform for microgrid optimization."},
			{Question: "How do I install frequenz-sdk?", Answer: "Installation:\n- pip install frequenz-sdk"},
		},
	}
}

func TestAnswerInstallQuestion(t *testing.T) {
	engine := NewEngine(testDocument(), types.RetrievalConfig{})

	text, label := engine.Answer("How do I install it?")
	if label != "install" && label != "faq" {
		t.Errorf("label = %q", label)
	}
	if !strings.Contains(text, "pip install frequenz-sdk") {
		t.Errorf("answer = %q, want the install command", text)
	}
}

func TestAnswerPurposeQuestion(t *testing.T) {
	engine := NewEngine(testDocument(), types.RetrievalConfig{})

	text, _ := engine.Answer("What is frequenz-sdk for?")
	if !strings.Contains(text, "microgrid optimization") {
		t.Errorf("answer = %q, want the description", text)
	}
	if strings.Contains(text, "\n") && !strings.Contains(text, "Installation") {
		t.Errorf("description answer has raw newlines: %q", text)
	}
}

func TestAnswerExampleFallbackWhenNoExamples(t *testing.T) {
	doc := testDocument()
	doc.CodeExamples = nil
	doc.FAQ = nil
	engine := NewEngine(doc, types.RetrievalConfig{})

	text, label := engine.Answer("Show me an example of how to use it.")
	if label != "example" {
		t.Errorf("label = %q, want example", label)
	}
	if text != defaultFallbackExample {
		t.Errorf("answer = %q, want the canned snippet", text)
	}
}

func TestAnswerEmptyDocument(t *testing.T) {
	engine := NewEngine(&types.Document{}, types.RetrievalConfig{})

	text, label := engine.Answer("anything at all")
	if text == "" {
		t.Error("answer is empty")
	}
	if label != "purpose" {
		t.Errorf("label = %q, want purpose (classifier default)", label)
	}
}

func TestAnswerNeverEmpty(t *testing.T) {
	questions := []string{
		"", "???", "quantum entanglement", "What license is it under?",
		"install", "show me the code",
	}
	engine := NewEngine(testDocument(), types.RetrievalConfig{})
	for _, q := range questions {
		if text, _ := engine.Answer(q); text == "" {
			t.Errorf("empty answer for %q", q)
		}
	}
}

func TestAnswerFAQHit(t *testing.T) {
	// Steer the vector model to the FAQ entry with a confident score.
	doc := testDocument()
	corpus := BuildCorpus(doc)

	sims := make([]float64, len(corpus))
	for i, e := range corpus {
		if e.Label == "faq:How do I install frequenz-sdk?" {
			sims[i] = 0.9
		}
	}
	engine := NewEngineWithScorer(doc, types.RetrievalConfig{
		// Keep the keyword override away from the install bucket.
		KeywordWinsBuckets: []string{"purpose"},
	}, &fakeScorer{sims: sims})

	text, label := engine.Answer("how do i get it onto my machine, installation wise")
	if label != "faq" {
		t.Errorf("label = %q, want faq", label)
	}
	if !strings.Contains(text, "pip install frequenz-sdk") {
		t.Errorf("answer = %q", text)
	}
}

func TestBestLabelKeywordOverride(t *testing.T) {
	doc := testDocument()
	corpus := BuildCorpus(doc)

	licenseIdx := -1
	for i, e := range corpus {
		if e.Label == "license" {
			licenseIdx = i
		}
	}
	if licenseIdx < 0 {
		t.Fatal("no license entry in corpus")
	}

	sims := make([]float64, len(corpus))
	sims[licenseIdx] = 0.9

	// Keyword classifier says install; vector model confidently says
	// license. Install is a core bucket, so the keyword wins.
	engine := NewEngineWithScorer(doc, types.RetrievalConfig{}, &fakeScorer{sims: sims})
	text, label := engine.Answer("How do I install it?")
	if label != "install" {
		t.Errorf("label = %q, want install (keyword override)", label)
	}
	if !strings.Contains(text, "pip install") {
		t.Errorf("answer = %q", text)
	}

	// Documentation is not a core bucket: the confident vector result
	// stands even though the keyword classifier disagrees.
	text, label = engine.Answer("Where are the docs?")
	if label != "license" {
		t.Errorf("label = %q, want license (vector result)", label)
	}
	if text != "License: MIT" {
		t.Errorf("answer = %q", text)
	}
}

func TestBestLabelThresholdGate(t *testing.T) {
	doc := testDocument()
	corpus := BuildCorpus(doc)

	licenseIdx := -1
	for i, e := range corpus {
		if e.Label == "license" {
			licenseIdx = i
		}
	}
	sims := make([]float64, len(corpus))
	sims[licenseIdx] = 0.1 // below the 0.3 default

	engine := NewEngineWithScorer(doc, types.RetrievalConfig{}, &fakeScorer{sims: sims})
	_, label := engine.Answer("Where are the docs?")
	if label != "documentation" {
		t.Errorf("label = %q, want documentation (keyword fallback)", label)
	}
}

func TestAnswerWithUnfittableScorer(t *testing.T) {
	engine := NewEngineWithScorer(testDocument(), types.RetrievalConfig{},
		&fakeScorer{fitErr: errors.New("no model")})

	text, label := engine.Answer("What license is it under?")
	if label != "license" {
		t.Errorf("label = %q, want license (keyword only)", label)
	}
	if text != "License: MIT" {
		t.Errorf("answer = %q", text)
	}

	if matches := engine.Search("license", 3); matches != nil {
		t.Errorf("Search on unfitted engine = %v, want nil", matches)
	}
}

func TestSearch(t *testing.T) {
	engine := NewEngine(testDocument(), types.RetrievalConfig{})

	matches := engine.Search("pip install frequenz sdk", 3)
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3", len(matches))
	}
	for i := 1; i < len(matches); i++ {
		if matches[i].Score > matches[i-1].Score {
			t.Errorf("matches not sorted: %v", matches)
		}
	}
	if !strings.Contains(matches[0].Text, "pip install frequenz-sdk") {
		t.Errorf("top match = %+v", matches[0])
	}
}

func TestSearchTopKBounds(t *testing.T) {
	engine := NewEngine(testDocument(), types.RetrievalConfig{})

	all := engine.Search("frequenz", 1000)
	if len(all) != len(engine.Corpus()) {
		t.Errorf("got %d matches, want the whole corpus (%d)", len(all), len(engine.Corpus()))
	}

	// Zero topK uses the configured default.
	def := engine.Search("frequenz", 0)
	if len(def) != 3 {
		t.Errorf("got %d matches for default topK, want 3", len(def))
	}
}

func TestSearchEmptyCorpus(t *testing.T) {
	engine := NewEngine(&types.Document{}, types.RetrievalConfig{})
	if matches := engine.Search("anything", 3); matches != nil {
		t.Errorf("got %v, want nil", matches)
	}
}

func TestAnswerEquivalentAfterJSONRoundTrip(t *testing.T) {
	doc := testDocument()

	data, err := types.MarshalJSONLD(doc)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := types.UnmarshalJSONLD(data)
	if err != nil {
		t.Fatal(err)
	}

	original := NewEngine(doc, types.RetrievalConfig{})
	roundTripped := NewEngine(decoded, types.RetrievalConfig{})

	questions := []string{
		"What is frequenz-sdk for?",
		"How do I install it?",
		"Show me an example of how to use it.",
		"What features does it have?",
		"What license is it under?",
		"Which Python versions does it require?",
	}
	for _, q := range questions {
		wantText, wantLabel := original.Answer(q)
		gotText, gotLabel := roundTripped.Answer(q)
		if gotText != wantText || gotLabel != wantLabel {
			t.Errorf("question %q: got (%q, %q), want (%q, %q)",
				q, gotText, gotLabel, wantText, wantLabel)
		}
	}
}
