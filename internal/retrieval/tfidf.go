// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

// ErrNoVocabulary reports that a corpus produced no indexable terms after
// tokenization and stop-word removal, so no vector model can be fitted.
var ErrNoVocabulary = errors.New("no vocabulary: corpus contains only stop words or empty texts")

// Scorer ranks fitted corpus texts against a question. Implementations are
// selected at engine construction; the TF-IDF scorer is the default and
// always-available strategy, alternate backends (e.g. embedding models)
// implement the same interface.
type Scorer interface {
	// Fit builds the model over the corpus texts. It returns an error when
	// no model can be built (e.g. ErrNoVocabulary), in which case the
	// engine uses its keyword fallback.
	Fit(texts []string) error

	// Score returns one similarity per fitted corpus text, in corpus
	// order. Question terms unknown to the model are ignored.
	Score(question string) ([]float64, error)
}

// tokenRE matches terms of two or more word characters, the smallest unit
// the vectorizer indexes.
var tokenRE = regexp.MustCompile(`[a-z0-9_]{2,}`)

// TFIDFScorer is the term-frequency / inverse-document-frequency cosine
// scorer. Vectors are L2-normalized so the dot product is the cosine
// similarity.
type TFIDFScorer struct {
	vocab   map[string]int
	idf     []float64
	vectors []map[int]float64
}

// NewTFIDFScorer returns an unfitted TF-IDF scorer.
func NewTFIDFScorer() *TFIDFScorer {
	return &TFIDFScorer{}
}

// Fit builds the vocabulary and smoothed IDF weights over the corpus and
// embeds each text: idf(t) = ln((1+n)/(1+df(t))) + 1.
func (s *TFIDFScorer) Fit(texts []string) error {
	s.vocab = make(map[string]int)
	docFreq := make(map[int]int)
	counts := make([]map[int]float64, len(texts))

	for i, text := range texts {
		tf := make(map[int]float64)
		for _, term := range tokenize(text) {
			id, ok := s.vocab[term]
			if !ok {
				id = len(s.vocab)
				s.vocab[term] = id
			}
			if tf[id] == 0 {
				docFreq[id]++
			}
			tf[id]++
		}
		counts[i] = tf
	}

	if len(s.vocab) == 0 {
		return ErrNoVocabulary
	}

	n := float64(len(texts))
	s.idf = make([]float64, len(s.vocab))
	for id := range s.idf {
		s.idf[id] = math.Log((1+n)/(1+float64(docFreq[id]))) + 1
	}

	s.vectors = make([]map[int]float64, len(texts))
	for i, tf := range counts {
		s.vectors[i] = normalize(weigh(tf, s.idf))
	}
	return nil
}

// Score embeds the question with the fitted model and returns its cosine
// similarity against every corpus vector. Out-of-vocabulary question terms
// are ignored by construction.
func (s *TFIDFScorer) Score(question string) ([]float64, error) {
	if s.vocab == nil {
		return nil, ErrNoVocabulary
	}

	tf := make(map[int]float64)
	for _, term := range tokenize(question) {
		if id, ok := s.vocab[term]; ok {
			tf[id]++
		}
	}
	qv := normalize(weigh(tf, s.idf))

	sims := make([]float64, len(s.vectors))
	for i, dv := range s.vectors {
		sims[i] = dot(qv, dv)
	}
	return sims, nil
}

// tokenize lower-cases the text, extracts word-character terms of length
// two or more, and drops stop words.
func tokenize(text string) []string {
	var terms []string
	for _, term := range tokenRE.FindAllString(strings.ToLower(text), -1) {
		if stopWords[term] {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

func weigh(tf map[int]float64, idf []float64) map[int]float64 {
	weighted := make(map[int]float64, len(tf))
	for id, count := range tf {
		weighted[id] = count * idf[id]
	}
	return weighted
}

func normalize(v map[int]float64) map[int]float64 {
	var sum float64
	for _, w := range v {
		sum += w * w
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for id := range v {
		v[id] /= norm
	}
	return v
}

func dot(a, b map[int]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var sum float64
	for id, w := range a {
		sum += w * b[id]
	}
	return sum
}

// stopWords is the fixed English stop-word set removed before weighting.
var stopWords = func() map[string]bool {
	words := []string{
		"about", "above", "after", "again", "all", "also", "am", "an", "and",
		"any", "are", "as", "at", "be", "because", "been", "before", "being",
		"below", "between", "both", "but", "by", "can", "cannot", "could",
		"did", "do", "does", "doing", "down", "during", "each", "few", "for",
		"from", "further", "had", "has", "have", "having", "he", "her",
		"here", "hers", "him", "his", "how", "if", "in", "into", "is", "it",
		"its", "itself", "just", "me", "more", "most", "my", "myself", "no",
		"nor", "not", "now", "of", "off", "on", "once", "only", "or",
		"other", "our", "ours", "out", "over", "own", "same", "she",
		"should", "so", "some", "such", "than", "that", "the", "their",
		"theirs", "them", "then", "there", "these", "they", "this", "those",
		"through", "to", "too", "under", "until", "up", "very", "was", "we",
		"were", "what", "when", "where", "which", "while", "who", "whom",
		"why", "will", "with", "would", "you", "your", "yours", "yourself",
	}
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}()
