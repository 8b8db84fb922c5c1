// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/readme-kg/internal/retrieval"
	"github.com/pdiddy/readme-kg/pkg/types"
)

// engineCache reuses fitted engines across subcommand helpers within one
// process, keyed by document content hash.
var engineCache = retrieval.NewIndexCache(types.RetrievalConfig{})

// documentEngine returns a fitted engine for doc. A non-zero threshold
// bypasses the shared cache, since the cache is keyed by content only.
func documentEngine(doc *types.Document, threshold float64) (*retrieval.Engine, error) {
	if threshold > 0 {
		return retrieval.NewEngine(doc, types.RetrievalConfig{ConfidenceThreshold: threshold}), nil
	}
	return engineCache.Engine(doc)
}

var searchCmd = &cobra.Command{
	Use:   "search [question...]",
	Short: "Rank a document's entries against a question",
	Long: `Search scores every entry of a knowledge document against a question by
TF-IDF cosine similarity and prints the top matches. Unlike query, it never
falls back to the keyword classifier; an empty result means the model could
not be built or nothing matched.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("knowledge", defaultOutFile, "path to the JSON-LD knowledge document")
	searchCmd.Flags().String("catalog-dir", "", "load the document from this catalog directory instead")
	searchCmd.Flags().String("name", "", "document name in the catalog")
	searchCmd.Flags().Int("top-k", 3, "number of matches to print")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a question")
	}
	question := strings.Join(args, " ")

	doc, err := loadDocument(cmd)
	if err != nil {
		return err
	}

	engine, err := documentEngine(doc, 0)
	if err != nil {
		return err
	}

	topK, _ := cmd.Flags().GetInt("top-k")
	matches := engine.Search(question, topK)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(matches, jsonOutput)
}

func formatSearchOutput(matches []retrieval.Match, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(matches)
	}

	if len(matches) == 0 {
		fmt.Println("No matches found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-4s  %-8s  %-24s  %s\n", "Rank", "Score", "Label", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for i, m := range matches {
		text := strings.ReplaceAll(m.Text, "\n", " ")
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		label := m.Label
		if len(label) > 24 {
			label = label[:21] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-4d  %-8.4f  %-24s  %s\n", i+1, m.Score, label, text)
	}

	fmt.Fprintf(os.Stdout, "\n%d matches\n", len(matches))
	return nil
}
