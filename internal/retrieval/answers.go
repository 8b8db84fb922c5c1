// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package retrieval

import (
	"strings"

	"github.com/pdiddy/readme-kg/internal/markdown"
	"github.com/pdiddy/readme-kg/pkg/types"
)

// noMatchAnswer is the generic reply when neither the corpus nor the bucket
// classifier can place the question.
const noMatchAnswer = "Sorry, I couldn't match your question. Try asking about installation, examples, features, or license."

// defaultFallbackExample is the canned snippet substituted when a document
// has no stored example that looks like code.
const defaultFallbackExample = `import asyncio


async def main() -> None:
    print("hello from the sdk")


if __name__ == "__main__":
    asyncio.run(main())`

// codeMarkers is the fixed substring set of the LooksLikeCode heuristic.
var codeMarkers = []string{"def ", "async def ", "import ", "class ", "func "}

// LooksLikeCode reports whether text plausibly is source code: at least
// minLen characters and containing one of the fixed marker substrings.
// This is a heuristic with a pinned rule set, not a parser.
func LooksLikeCode(text string, minLen int) bool {
	if len(text) < minLen {
		return false
	}
	for _, marker := range codeMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

// RenderAnswer produces the human-readable answer for a resolved bucket or
// section label. It never fails: missing fields render a "not found" style
// message, and an unknown label renders the generic no-match reply.
func RenderAnswer(doc *types.Document, label string, cfg types.RetrievalConfig) string {
	cfg = cfg.Normalized()

	if title, ok := strings.CutPrefix(label, "section:"); ok {
		for _, sec := range doc.Sections {
			if sec.Title == title {
				return sec.Text
			}
		}
		return noMatchAnswer
	}

	switch label {
	case "purpose":
		if desc := markdown.CollapseWhitespace(doc.Description); desc != "" {
			return desc
		}
		return "No description available."
	case "install":
		if len(doc.InstallSteps) == 0 {
			return "No install instructions found."
		}
		steps := make([]string, len(doc.InstallSteps))
		for i, s := range doc.InstallSteps {
			steps[i] = markdown.CollapseWhitespace(s)
		}
		return "Installation:\n- " + strings.Join(steps, "\n- ")
	case "example":
		fallback := cfg.FallbackExample
		if fallback == "" {
			fallback = defaultFallbackExample
		}
		if len(doc.CodeExamples) == 0 {
			return fallback
		}
		if text := doc.CodeExamples[0]; LooksLikeCode(text, cfg.MinCodeLength) {
			return text
		}
		return fallback
	case "features":
		if len(doc.FeatureList) == 0 {
			return "No features listed."
		}
		return "Key features:\n- " + strings.Join(doc.FeatureList, "\n- ")
	case "license":
		if doc.License == "" {
			return "License: Unknown"
		}
		return "License: " + doc.License
	case "dependencies":
		if len(doc.SoftwareRequirements) == 0 {
			return "No requirements listed."
		}
		return "Requirements:\n- " + strings.Join(doc.SoftwareRequirements, "\n- ")
	case "documentation":
		return linkAnswer("Documentation: ", doc.DocumentationURL, "No documentation link available.")
	case "repository":
		return linkAnswer("Repository: ", doc.RepositoryURL, "No repository URL available.")
	case "issues":
		return linkAnswer("Issues: ", doc.IssueTrackerURL, "No issue tracker URL available.")
	case "platforms":
		return linkAnswer("Operating system: ", doc.OperatingSystem, "No operating system listed.")
	case "architectures":
		return linkAnswer("Architectures: ", doc.ProcessorArchitectures, "No architectures listed.")
	case "name":
		return linkAnswer("Name: ", doc.Name, "No name available.")
	}
	return noMatchAnswer
}

func linkAnswer(prefix, value, missing string) string {
	if value == "" {
		return missing
	}
	return prefix + value
}
