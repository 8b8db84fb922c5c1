// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/readme-kg/internal/catalog"
	"github.com/pdiddy/readme-kg/pkg/types"
)

var queryCmd = &cobra.Command{
	Use:   "query [question...]",
	Short: "Answer a question against a knowledge document",
	Long: `Query answers a single free-text question against a knowledge document.
A TF-IDF model over the document's entries picks the best match; when the
model is under-confident a keyword classifier takes over. The answer is
always non-empty.

The document is read from --knowledge, or from the catalog with
--catalog-dir and --name.`,
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().String("knowledge", defaultOutFile, "path to the JSON-LD knowledge document")
	queryCmd.Flags().String("catalog-dir", "", "load the document from this catalog directory instead")
	queryCmd.Flags().String("name", "", "document name in the catalog")
	queryCmd.Flags().Float64("threshold", 0, "minimum cosine similarity before keyword fallback (0 = default)")
	queryCmd.Flags().Bool("show-label", false, "print the matched entry label to stderr")

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide a question")
	}
	question := strings.Join(args, " ")

	doc, err := loadDocument(cmd)
	if err != nil {
		return err
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	engine, err := documentEngine(doc, threshold)
	if err != nil {
		return err
	}

	text, label := engine.Answer(question)

	if showLabel, _ := cmd.Flags().GetBool("show-label"); showLabel {
		fmt.Fprintf(os.Stderr, "matched: %s\n", label)
	}
	fmt.Println(text)
	return nil
}

// loadDocument reads the knowledge document named by the command's flags,
// from the catalog when --catalog-dir is set and from --knowledge otherwise.
func loadDocument(cmd *cobra.Command) (*types.Document, error) {
	catalogDir, _ := cmd.Flags().GetString("catalog-dir")
	if catalogDir != "" {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			return nil, fmt.Errorf("--name is required with --catalog-dir")
		}

		store, err := catalog.NewStore(types.CatalogConfig{CatalogDir: catalogDir})
		if err != nil {
			return nil, err
		}
		defer store.Close()

		doc, _, err := store.Get(context.Background(), name)
		return doc, err
	}

	path, _ := cmd.Flags().GetString("knowledge")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return types.UnmarshalJSONLD(data)
}
