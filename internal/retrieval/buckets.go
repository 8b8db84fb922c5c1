// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import "strings"

// bucket is one keyword-classification target: a label plus the trigger
// phrases counted against a question.
type bucket struct {
	name     string
	triggers []string
}

// buckets is the fixed classifier table. Slice order is the tie-break
// priority: an earlier bucket keeps a tied score, and "purpose" is the
// default when nothing matches.
var buckets = []bucket{
	{"purpose", []string{
		"what is", "what's", "purpose", "use case", "for?", "why",
		"description", "overview", "about", "summary",
	}},
	{"install", []string{
		"install", "pip", "pip3", "how to install", "setup",
		"installation", "getting started",
	}},
	{"example", []string{"example", "code", "snippet", "usage", "demo", "sample"}},
	{"features", []string{"feature", "component", "capability", "supports", "abilities"}},
	{"license", []string{"license", "mit", "apache"}},
	{"dependencies", []string{"dependenc", "requires", "python", "version", "requirement"}},
	{"documentation", []string{"docs", "documentation", "read the docs", "guide", "website", "link"}},
	{"repository", []string{"repo", "repository", "github", "source code", "code"}},
	{"issues", []string{"issues", "bug", "tracker", "issue tracker"}},
	{"platforms", []string{"operating system", "platform", "platforms", "supported platforms", "os"}},
	{"architectures", []string{"architecture", "architectures", "arm", "arm64", "amd64", "x86"}},
	{"name", []string{"name", "project name", "called"}},
}

// PickBucket classifies a question by counting, per bucket, how many of its
// trigger phrases occur as substrings of the lower-cased question, and
// picking the highest count. Pure and deterministic: same question, same
// bucket.
func PickBucket(question string) string {
	ql := strings.ToLower(question)
	best, bestScore := "purpose", 0
	for _, b := range buckets {
		score := 0
		for _, trigger := range b.triggers {
			if strings.Contains(ql, trigger) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = b.name, score
		}
	}
	return best
}
