// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"sort"
	"strings"

	"github.com/pdiddy/readme-kg/pkg/types"
)

// Match is one ranked retrieval result.
type Match struct {
	Label string  `json:"label" yaml:"label"`
	Text  string  `json:"text" yaml:"text"`
	Score float64 `json:"score" yaml:"score"`
}

// Engine answers questions against a single knowledge document. It is
// fitted once at construction and safe to reuse for many queries; the
// document is treated as immutable.
type Engine struct {
	doc    *types.Document
	cfg    types.RetrievalConfig
	corpus []Entry
	scorer Scorer
	fitted bool
}

// NewEngine builds an engine with the default TF-IDF scorer.
func NewEngine(doc *types.Document, cfg types.RetrievalConfig) *Engine {
	return NewEngineWithScorer(doc, cfg, NewTFIDFScorer())
}

// NewEngineWithScorer builds an engine with an explicit scoring strategy.
// A scorer that cannot be fitted (empty corpus, no vocabulary) leaves the
// engine on its keyword fallback path; construction itself never fails.
func NewEngineWithScorer(doc *types.Document, cfg types.RetrievalConfig, scorer Scorer) *Engine {
	e := &Engine{
		doc:    doc,
		cfg:    cfg.Normalized(),
		corpus: BuildCorpus(doc),
		scorer: scorer,
	}
	if len(e.corpus) > 0 {
		texts := make([]string, len(e.corpus))
		for i, entry := range e.corpus {
			texts[i] = entry.Text
		}
		e.fitted = scorer.Fit(texts) == nil
	}
	return e
}

// Corpus returns the engine's flattened document.
func (e *Engine) Corpus() []Entry { return e.corpus }

// Search returns the topK corpus entries most similar to the question,
// best first. Ties keep corpus order. An empty or unindexable corpus
// yields an empty result.
func (e *Engine) Search(question string, topK int) []Match {
	if topK <= 0 {
		topK = e.cfg.TopK
	}
	sims := e.similarities(question)
	if sims == nil {
		return nil
	}

	order := make([]int, len(sims))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sims[order[a]] > sims[order[b]]
	})

	if topK > len(order) {
		topK = len(order)
	}
	matches := make([]Match, 0, topK)
	for _, idx := range order[:topK] {
		matches = append(matches, Match{
			Label: e.corpus[idx].Label,
			Text:  e.corpus[idx].Text,
			Score: sims[idx],
		})
	}
	return matches
}

// Answer resolves the question to a label and renders the answer for it.
// It never fails for a well-formed document: when the vector model is
// unavailable or under-confident the keyword classifier decides, and an
// empty document yields the classifier's "not found" style answer.
func (e *Engine) Answer(question string) (text, label string) {
	label = e.bestLabel(question)

	if faqQuestion, ok := strings.CutPrefix(label, "faq:"); ok {
		for _, qa := range e.doc.FAQ {
			if qa.Question == faqQuestion {
				return qa.Answer, "faq"
			}
		}
		// FAQ entry disappeared between corpus build and lookup; answer
		// with the purpose bucket instead.
		return RenderAnswer(e.doc, "purpose", e.cfg), "purpose"
	}

	return RenderAnswer(e.doc, label, e.cfg), label
}

// bestLabel picks the vector model's top label, gated by the confidence
// threshold and the keyword-override rule for core buckets.
func (e *Engine) bestLabel(question string) string {
	keyword := PickBucket(question)

	sims := e.similarities(question)
	if len(sims) == 0 {
		return keyword
	}

	best := 0
	for i, s := range sims {
		if s > sims[best] {
			best = i
		}
	}
	if sims[best] < e.cfg.ConfidenceThreshold {
		return keyword
	}

	vector := e.corpus[best].Label
	for _, core := range e.cfg.KeywordWinsBuckets {
		if keyword == core && keyword != vector {
			return keyword
		}
	}
	return vector
}

// similarities returns per-entry scores, or nil when the vector model is
// unavailable.
func (e *Engine) similarities(question string) []float64 {
	if !e.fitted || len(e.corpus) == 0 {
		return nil
	}
	sims, err := e.scorer.Score(question)
	if err != nil || len(sims) != len(e.corpus) {
		return nil
	}
	return sims
}
