// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network
// requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "readme-kg/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for README acquisition.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MinBodyBytes is the minimum response length accepted as a README.
	// Shorter bodies (error pages, redirects rendered as text) are treated
	// as misses. Default 120.
	MinBodyBytes int `json:"min_body_bytes" yaml:"min_body_bytes"`

	// AuthToken is an optional token sent as a bearer Authorization header
	// to reduce 403/429 responses from raw content hosts.
	AuthToken string `json:"auth_token,omitempty" yaml:"auth_token,omitempty"`
}

// ExtractOptions holds the knobs of the extraction pipeline. Zero values
// select the defaults noted per field.
type ExtractOptions struct {
	// MaxInstallCommands caps collected install command lines (default 3).
	MaxInstallCommands int `json:"max_install_commands" yaml:"max_install_commands"`

	// MaxFeatures caps collected feature bullets (default 10).
	MaxFeatures int `json:"max_features" yaml:"max_features"`

	// MaxExamples caps collected code examples (default 2).
	MaxExamples int `json:"max_examples" yaml:"max_examples"`

	// MinExampleLength is the minimum code block length kept (default 40).
	MinExampleLength int `json:"min_example_length" yaml:"min_example_length"`

	// MaxSections caps the sections carried into the document (default 8).
	MaxSections int `json:"max_sections" yaml:"max_sections"`

	// MaxSectionChars truncates each section's text (default 4000).
	MaxSectionChars int `json:"max_section_chars" yaml:"max_section_chars"`

	// FeatureKeywords is the fixed keyword set used by the feature guesser
	// fallback when no "features" heading exists.
	FeatureKeywords []string `json:"feature_keywords,omitempty" yaml:"feature_keywords,omitempty"`
}

// Normalized returns a copy with defaults applied to zero-valued fields.
func (o ExtractOptions) Normalized() ExtractOptions {
	if o.MaxInstallCommands <= 0 {
		o.MaxInstallCommands = 3
	}
	if o.MaxFeatures <= 0 {
		o.MaxFeatures = 10
	}
	if o.MaxExamples <= 0 {
		o.MaxExamples = 2
	}
	if o.MinExampleLength <= 0 {
		o.MinExampleLength = 40
	}
	if o.MaxSections <= 0 {
		o.MaxSections = 8
	}
	if o.MaxSectionChars <= 0 {
		o.MaxSectionChars = 4000
	}
	if len(o.FeatureKeywords) == 0 {
		o.FeatureKeywords = DefaultFeatureKeywords()
	}
	return o
}

// DefaultFeatureKeywords returns the domain keyword set the feature guesser
// falls back to when a README has no "features" heading.
func DefaultFeatureKeywords() []string {
	return []string{
		"battery", "pv", "ev", "actor", "channel",
		"timeseries", "microgrid", "report", "trading",
	}
}

// RetrievalConfig holds settings for the retrieval engine.
type RetrievalConfig struct {
	// ConfidenceThreshold is the minimum top cosine similarity accepted
	// from the vector model before the keyword classifier takes over
	// (default 0.3).
	ConfidenceThreshold float64 `json:"confidence_threshold" yaml:"confidence_threshold"`

	// KeywordWinsBuckets lists the buckets for which a keyword-classifier
	// match overrides a disagreeing vector match. Kept configurable: the
	// rule is a compatibility heuristic, not derived from evaluation data.
	KeywordWinsBuckets []string `json:"keyword_wins_buckets,omitempty" yaml:"keyword_wins_buckets,omitempty"`

	// TopK is the default result count for Search (default 3).
	TopK int `json:"top_k" yaml:"top_k"`

	// MinCodeLength is the minimum length at which a stored example can be
	// rendered as code (default 20).
	MinCodeLength int `json:"min_code_length" yaml:"min_code_length"`

	// FallbackExample is the canned snippet returned when the stored
	// example is missing or does not look like code. Empty selects the
	// built-in default.
	FallbackExample string `json:"fallback_example,omitempty" yaml:"fallback_example,omitempty"`
}

// Normalized returns a copy with defaults applied to zero-valued fields.
func (c RetrievalConfig) Normalized() RetrievalConfig {
	if c.ConfidenceThreshold <= 0 {
		c.ConfidenceThreshold = 0.3
	}
	if len(c.KeywordWinsBuckets) == 0 {
		c.KeywordWinsBuckets = []string{"purpose", "install", "example"}
	}
	if c.TopK <= 0 {
		c.TopK = 3
	}
	if c.MinCodeLength <= 0 {
		c.MinCodeLength = 20
	}
	return c
}

// CatalogConfig holds settings for the knowledge-document catalog.
type CatalogConfig struct {
	// CatalogDir is the base directory for the catalog (contains index/).
	CatalogDir string `json:"catalog_dir" yaml:"catalog_dir"`

	// MaxResults is the default maximum number of search results
	// (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch     FetchConfig     `json:"fetch" yaml:"fetch"`
	Extract   ExtractOptions  `json:"extract" yaml:"extract"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval"`
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog"`
}
